package dto

import (
	"time"

	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
)

// UserResponse perfil público del usuario; nunca incluye el hash de password.
type UserResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Roles         []string  `json:"roles"`
	LoyaltyPoints int64     `json:"loyaltyPoints"`
	IsActive      bool      `json:"isActive"`
	IsVerified    bool      `json:"isVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UpdateRolesRequest reemplazo del conjunto de roles (solo superadmin).
type UpdateRolesRequest struct {
	Roles []string `json:"roles"`
}

// UpdateStatusRequest activar/desactivar una cuenta.
type UpdateStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

// ToUserResponse convierte la entidad al DTO de respuesta.
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:            u.ID,
		FullName:      u.FullName,
		Email:         u.Email,
		Roles:         u.Roles,
		LoyaltyPoints: u.LoyaltyPoints,
		IsActive:      u.IsActive,
		IsVerified:    u.IsVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
