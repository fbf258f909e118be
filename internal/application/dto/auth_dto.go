package dto

// RegisterRequest alta de usuario. El OTP se envía por email.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest renovación de tokens con el refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// VerifyOTPRequest verificación del código enviado por email.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResendOTPRequest reenvío de un código nuevo.
type ResendOTPRequest struct {
	Email string `json:"email"`
}

// LoginResponse tokens emitidos más el perfil del usuario.
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}
