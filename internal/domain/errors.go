package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInsufficientPoints = errors.New("saldo de puntos insuficiente")
	ErrTerminalStatus     = errors.New("la orden está en un estado terminal")
	ErrDuplicateReview    = errors.New("ya existe una reseña para esta orden y producto")
	ErrNotVerified        = errors.New("el email no está verificado")
	ErrOTPInvalid         = errors.New("código OTP inválido")
	ErrOTPExpired         = errors.New("código OTP expirado")
	ErrOTPMissing         = errors.New("no hay código OTP pendiente")
)
