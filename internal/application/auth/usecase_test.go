package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LaibaHameed12/ecom-backend/internal/application/auth"
	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) Create(u *entity.User) error {
	f.users[u.ID] = u
	return nil
}
func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) { return f.users[id], nil }
func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) GetForUpdate(id string) (*entity.User, error) { return f.users[id], nil }
func (f *fakeUserRepo) Update(u *entity.User) error                  { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) List(int, int) ([]*entity.User, error)        { return nil, nil }
func (f *fakeUserRepo) Delete(id string) error                       { delete(f.users, id); return nil }

// fakeMailer captura el último OTP "enviado" para poder verificarlo.
type fakeMailer struct {
	lastEmail string
	lastCode  string
	sent      int
}

func (f *fakeMailer) SendOTP(email, code string) error {
	f.lastEmail = email
	f.lastCode = code
	f.sent++
	return nil
}

var testJWT = auth.JWTConfig{
	Secret:            "access-secret",
	ExpMinutes:        15,
	RefreshSecret:     "refresh-secret",
	RefreshExpMinutes: 60,
	Issuer:            "ecom-backend-test",
}

func newAuthFixture() (*auth.AuthUseCase, *fakeUserRepo, *fakeMailer) {
	repo := &fakeUserRepo{users: map[string]*entity.User{}}
	mailer := &fakeMailer{}
	return auth.NewAuthUseCase(repo, mailer, testJWT), repo, mailer
}

func register(t *testing.T, uc *auth.AuthUseCase, email string) {
	t.Helper()
	_, err := uc.Register(dto.RegisterRequest{
		FullName: "Usuario de Prueba",
		Email:    email,
		Password: "secreta123",
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Register + VerifyOTP
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaUsuarioNoVerificadoYEnviaOTP(t *testing.T) {
	uc, repo, mailer := newAuthFixture()
	register(t, uc, "Ana@Test.LOCAL")

	u, err := repo.GetByEmail("ana@test.local")
	require.NoError(t, err)
	require.NotNil(t, u, "el email se normaliza a minúsculas")

	assert.False(t, u.IsVerified)
	assert.True(t, u.IsActive)
	assert.Equal(t, []string{entity.RoleUser}, u.Roles)
	assert.NotEqual(t, "secreta123", u.PasswordHash, "el password nunca se guarda plano")
	require.NotNil(t, u.OTPCode)
	assert.Len(t, *u.OTPCode, 6)

	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "ana@test.local", mailer.lastEmail)
	assert.Equal(t, *u.OTPCode, mailer.lastCode, "el código enviado es el persistido")
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _, _ := newAuthFixture()
	register(t, uc, "ana@test.local")

	_, err := uc.Register(dto.RegisterRequest{
		FullName: "Otra Ana", Email: "ANA@test.local", Password: "x",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestVerifyOTP_CodigoCorrecto(t *testing.T) {
	uc, repo, mailer := newAuthFixture()
	register(t, uc, "ana@test.local")

	_, err := uc.VerifyOTP(dto.VerifyOTPRequest{Email: "ana@test.local", OTP: mailer.lastCode})
	require.NoError(t, err)

	u, _ := repo.GetByEmail("ana@test.local")
	assert.True(t, u.IsVerified)
	assert.Nil(t, u.OTPCode, "el código se consume al verificar")
	assert.Nil(t, u.OTPExpiresAt)
}

func TestVerifyOTP_CodigoIncorrecto(t *testing.T) {
	uc, _, _ := newAuthFixture()
	register(t, uc, "ana@test.local")

	_, err := uc.VerifyOTP(dto.VerifyOTPRequest{Email: "ana@test.local", OTP: "000000"})
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)
}

func TestVerifyOTP_CodigoExpirado(t *testing.T) {
	uc, repo, mailer := newAuthFixture()
	register(t, uc, "ana@test.local")

	u, _ := repo.GetByEmail("ana@test.local")
	pasado := time.Now().Add(-time.Minute)
	u.OTPExpiresAt = &pasado

	_, err := uc.VerifyOTP(dto.VerifyOTPRequest{Email: "ana@test.local", OTP: mailer.lastCode})
	assert.ErrorIs(t, err, domain.ErrOTPExpired)
}

func TestVerifyOTP_YaVerificadoEsIdempotente(t *testing.T) {
	uc, _, mailer := newAuthFixture()
	register(t, uc, "ana@test.local")
	_, err := uc.VerifyOTP(dto.VerifyOTPRequest{Email: "ana@test.local", OTP: mailer.lastCode})
	require.NoError(t, err)

	resp, err := uc.VerifyOTP(dto.VerifyOTPRequest{Email: "ana@test.local", OTP: "lo que sea"})
	assert.NoError(t, err)
	assert.Contains(t, resp.Message, "verificado")
}

func TestResendOTP_GeneraCodigoNuevo(t *testing.T) {
	uc, repo, mailer := newAuthFixture()
	register(t, uc, "ana@test.local")

	_, err := uc.ResendOTP(dto.ResendOTPRequest{Email: "ana@test.local"})
	require.NoError(t, err)
	assert.Equal(t, 2, mailer.sent)
	assert.Len(t, mailer.lastCode, 6)

	u, _ := repo.GetByEmail("ana@test.local")
	require.NotNil(t, u.OTPCode)
	assert.Equal(t, mailer.lastCode, *u.OTPCode, "el código persistido es el reenviado")
}

func TestResendOTP_UsuarioInexistente(t *testing.T) {
	uc, _, _ := newAuthFixture()
	_, err := uc.ResendOTP(dto.ResendOTPRequest{Email: "nadie@test.local"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Refresh
// ──────────────────────────────────────────────────────────────────────────────

func verifiedUser(t *testing.T, uc *auth.AuthUseCase, mailer *fakeMailer, email string) {
	t.Helper()
	register(t, uc, email)
	_, err := uc.VerifyOTP(dto.VerifyOTPRequest{Email: email, OTP: mailer.lastCode})
	require.NoError(t, err)
}

func TestLogin_EmiteTokensConRoles(t *testing.T) {
	uc, _, mailer := newAuthFixture()
	verifiedUser(t, uc, mailer, "ana@test.local")

	resp, err := uc.Login(dto.LoginRequest{Email: "ana@test.local", Password: "secreta123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "ana@test.local", resp.User.Email)

	// El access token lleva los roles y se firma con el secret de acceso.
	userID, roles, err := jwt.Parse(testJWT.Secret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, []string{entity.RoleUser}, roles)

	// El refresh token usa su propio secret.
	_, _, err = jwt.Parse(testJWT.Secret, resp.RefreshToken)
	assert.Error(t, err, "el refresh token no debe validar con el secret de acceso")
	_, _, err = jwt.Parse(testJWT.RefreshSecret, resp.RefreshToken)
	assert.NoError(t, err)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _, mailer := newAuthFixture()
	verifiedUser(t, uc, mailer, "ana@test.local")

	_, err := uc.Login(dto.LoginRequest{Email: "ana@test.local", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_NoVerificado(t *testing.T) {
	uc, _, _ := newAuthFixture()
	register(t, uc, "ana@test.local")

	_, err := uc.Login(dto.LoginRequest{Email: "ana@test.local", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrNotVerified)
}

func TestLogin_CuentaDesactivada(t *testing.T) {
	uc, repo, mailer := newAuthFixture()
	verifiedUser(t, uc, mailer, "ana@test.local")
	u, _ := repo.GetByEmail("ana@test.local")
	u.IsActive = false

	_, err := uc.Login(dto.LoginRequest{Email: "ana@test.local", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _, _ := newAuthFixture()
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@test.local", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_EmiteParNuevo(t *testing.T) {
	uc, _, mailer := newAuthFixture()
	verifiedUser(t, uc, mailer, "ana@test.local")
	login, err := uc.Login(dto.LoginRequest{Email: "ana@test.local", Password: "secreta123"})
	require.NoError(t, err)

	resp, err := uc.Refresh(login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, login.User.ID, resp.User.ID)
}

func TestRefresh_TokenDeAccesoRechazado(t *testing.T) {
	uc, _, mailer := newAuthFixture()
	verifiedUser(t, uc, mailer, "ana@test.local")
	login, err := uc.Login(dto.LoginRequest{Email: "ana@test.local", Password: "secreta123"})
	require.NoError(t, err)

	// Un access token no sirve como refresh: secrets distintos.
	_, err = uc.Refresh(login.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_CuentaDesactivada(t *testing.T) {
	uc, repo, mailer := newAuthFixture()
	verifiedUser(t, uc, mailer, "ana@test.local")
	login, err := uc.Login(dto.LoginRequest{Email: "ana@test.local", Password: "secreta123"})
	require.NoError(t, err)

	u, _ := repo.GetByEmail("ana@test.local")
	u.IsActive = false

	_, err = uc.Refresh(login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
