// Package mail envía los códigos OTP de verificación de cuenta por SMTP.
package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/LaibaHameed12/ecom-backend/internal/application/auth"
	"github.com/LaibaHameed12/ecom-backend/pkg/config"
	"github.com/LaibaHameed12/ecom-backend/pkg/otp"
)

var _ auth.Mailer = (*Mailer)(nil)

// Mailer implementación del puerto auth.Mailer sobre un relé SMTP.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	appName string
}

// NewMailer construye el mailer con la configuración SMTP.
func NewMailer(cfg config.MailConfig, appName string) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:    cfg.From,
		appName: appName,
	}
}

// SendOTP envía el código de verificación al correo del usuario.
func (m *Mailer) SendOTP(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", fmt.Sprintf("%s: tu código de verificación", m.appName))
	msg.SetBody("text/html", fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
			<h2>Verifica tu cuenta</h2>
			<p>Usa este código para completar tu registro:</p>
			<p style="font-size: 32px; font-weight: bold; letter-spacing: 8px;">%s</p>
			<p>El código expira en %d minutos. Si no creaste una cuenta, ignora este correo.</p>
		</div>`,
		code, int(otp.DefaultTTL.Minutes()),
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar OTP: %w", err)
	}
	return nil
}
