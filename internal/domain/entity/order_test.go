package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
)

func TestComputeTotal(t *testing.T) {
	items := []entity.OrderItem{
		{Price: decimal.NewFromInt(100), Quantity: 2},
		{Price: decimal.NewFromFloat(49.99), Quantity: 3},
	}
	total := entity.ComputeTotal(items)
	assert.True(t, total.Equal(decimal.NewFromFloat(349.97)),
		"total = 200 + 149.97, got %s", total)
}

func TestComputeTotal_SinItems(t *testing.T) {
	assert.True(t, entity.ComputeTotal(nil).Equal(decimal.Zero))
}

func TestRequiredPoints_CeilSobre250(t *testing.T) {
	cases := []struct {
		total  int64
		points int64
	}{
		{250, 1},
		{251, 2},
		{1000, 4},
		{1, 1},
		{0, 0},
	}
	for _, tc := range cases {
		got := entity.RequiredPoints(decimal.NewFromInt(tc.total))
		assert.Equal(t, tc.points, got, "total %d", tc.total)
	}
}

func TestEarnedPoints_FloorSobre500(t *testing.T) {
	cases := []struct {
		total  int64
		points int64
	}{
		{499, 0},
		{500, 1},
		{1200, 2},
		{0, 0},
	}
	for _, tc := range cases {
		got := entity.EarnedPoints(decimal.NewFromInt(tc.total))
		assert.Equal(t, tc.points, got, "total %d", tc.total)
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, (&entity.Order{Status: entity.OrderDelivered}).Terminal())
	assert.True(t, (&entity.Order{Status: entity.OrderCancelled}).Terminal())
	assert.False(t, (&entity.Order{Status: entity.OrderPaid}).Terminal())
	assert.False(t, (&entity.Order{Status: entity.OrderShipped}).Terminal())
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "paid", "shipped", "delivered", "cancelled"} {
		assert.True(t, entity.ValidOrderStatus(s), s)
	}
	assert.False(t, entity.ValidOrderStatus("volando"))
	assert.False(t, entity.ValidOrderStatus(""))
}

func TestUserIsStaff(t *testing.T) {
	assert.False(t, (&entity.User{Roles: []string{entity.RoleUser}}).IsStaff())
	assert.True(t, (&entity.User{Roles: []string{entity.RoleUser, entity.RoleAdmin}}).IsStaff())
	assert.True(t, (&entity.User{Roles: []string{entity.RoleSuperadmin}}).IsStaff())
}
