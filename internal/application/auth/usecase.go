package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
	"github.com/LaibaHameed12/ecom-backend/pkg/jwt"
	"github.com/LaibaHameed12/ecom-backend/pkg/otp"
)

// JWTConfig configuración para generación de tokens de acceso y de refresco.
type JWTConfig struct {
	Secret            string
	ExpMinutes        int
	RefreshSecret     string
	RefreshExpMinutes int
	Issuer            string
}

// Mailer puerto del relé de email; la implementación concreta (SMTP) es un
// colaborador externo.
type Mailer interface {
	SendOTP(email, code string) error
}

// AuthUseCase casos de uso de autenticación: registro con verificación OTP
// por email, login, refresh y verificación/reenvío del código.
type AuthUseCase struct {
	userRepo repository.UserRepository
	mailer   Mailer
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, mailer Mailer, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, mailer: mailer, jwtCfg: jwtCfg}
}

// Register crea un usuario no verificado: hashea password con bcrypt,
// genera un OTP de 6 dígitos con 5 minutos de vigencia y lo envía por email.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.MessageResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	code, err := otp.Generate()
	if err != nil {
		return nil, err
	}
	expiry := otp.Expiry(otp.DefaultTTL)

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		FullName:     in.FullName,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{entity.RoleUser},
		IsActive:     true,
		IsVerified:   false,
		OTPCode:      &code,
		OTPExpiresAt: &expiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	if err := uc.mailer.SendOTP(email, code); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "usuario registrado; verifique el OTP enviado a su email"}, nil
}

// Login verifica email/password, exige cuenta verificada y activa, y emite
// el par access/refresh token con los roles como claim.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsVerified {
		return nil, domain.ErrNotVerified
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	return uc.issueTokens(user)
}

// Refresh valida el refresh token y emite un par nuevo.
func (uc *AuthUseCase) Refresh(refreshToken string) (*dto.LoginResponse, error) {
	userID, _, err := jwt.Parse(uc.jwtCfg.RefreshSecret, refreshToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return uc.issueTokens(user)
}

// VerifyOTP marca la cuenta como verificada si el código coincide y no
// expiró. Idempotente si la cuenta ya estaba verificada.
func (uc *AuthUseCase) VerifyOTP(in dto.VerifyOTPRequest) (*dto.MessageResponse, error) {
	user, err := uc.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.IsVerified {
		return &dto.MessageResponse{Message: "el usuario ya está verificado"}, nil
	}
	if user.OTPCode == nil || user.OTPExpiresAt == nil {
		return nil, domain.ErrOTPMissing
	}
	if time.Now().After(*user.OTPExpiresAt) {
		return nil, domain.ErrOTPExpired
	}
	if *user.OTPCode != in.OTP {
		return nil, domain.ErrOTPInvalid
	}

	user.IsVerified = true
	user.OTPCode = nil
	user.OTPExpiresAt = nil
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "email verificado correctamente"}, nil
}

// ResendOTP genera un código nuevo y lo reenvía por email.
func (uc *AuthUseCase) ResendOTP(in dto.ResendOTPRequest) (*dto.MessageResponse, error) {
	user, err := uc.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.IsVerified {
		return &dto.MessageResponse{Message: "el usuario ya está verificado"}, nil
	}

	code, err := otp.Generate()
	if err != nil {
		return nil, err
	}
	expiry := otp.Expiry(otp.DefaultTTL)
	user.OTPCode = &code
	user.OTPExpiresAt = &expiry
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	if err := uc.mailer.SendOTP(user.Email, code); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "nuevo OTP enviado al email"}, nil
}

func (uc *AuthUseCase) issueTokens(user *entity.User) (*dto.LoginResponse, error) {
	access, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Roles, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.Generate(uc.jwtCfg.RefreshSecret, user.ID, user.Roles, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *dto.ToUserResponse(user),
	}, nil
}
