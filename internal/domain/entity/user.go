package entity

import (
	"slices"
	"time"
)

// Roles válidos para User. Un usuario puede tener varios.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// ValidRole indica si el rol pertenece al conjunto permitido.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleSuperadmin
}

// User representa una cuenta del sistema con su saldo de puntos de fidelidad.
// OTPCode/OTPExpiresAt quedan en nil una vez consumido el código de verificación.
type User struct {
	ID            string
	FullName      string
	Email         string // único, siempre en minúsculas
	PasswordHash  string // bcrypt, nunca plano después de persistir
	Roles         []string
	LoyaltyPoints int64 // nunca negativo
	IsActive      bool
	IsVerified    bool
	OTPCode       *string
	OTPExpiresAt  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasRole indica si el usuario tiene el rol dado.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// IsStaff indica si el usuario tiene privilegios administrativos.
// Los usuarios staff no pueden crear órdenes.
func (u *User) IsStaff() bool {
	return u.HasRole(RoleAdmin) || u.HasRole(RoleSuperadmin)
}
