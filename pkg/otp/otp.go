package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// DefaultTTL vigencia del código de verificación por email.
const DefaultTTL = 5 * time.Minute

// Generate devuelve un código numérico de 6 dígitos (100000..999999),
// generado con crypto/rand.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("otp: generar código: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Expiry devuelve el instante de expiración a partir de ahora.
func Expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return time.Now().Add(ttl)
}
