package http

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// respondError: mapeo de errores de dominio a status y código
// ──────────────────────────────────────────────────────────────────────────────

func TestRespondError_MapeoDeEstados(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"entrada inválida", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"no autorizado", domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"cuenta sin verificar", domain.ErrNotVerified, fiber.StatusUnauthorized, "NOT_VERIFIED"},
		{"prohibido", domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"email duplicado", domain.ErrEmailAlreadyExists, fiber.StatusConflict, "CONFLICT"},
		{"stock insuficiente", domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"puntos insuficientes", domain.ErrInsufficientPoints, fiber.StatusConflict, "INSUFFICIENT_POINTS"},
		{"estado terminal", domain.ErrTerminalStatus, fiber.StatusConflict, "TERMINAL_STATUS"},
		{"error interno", fmt.Errorf("la base explotó"), fiber.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/err", func(c *fiber.Ctx) error {
				return respondError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/err", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}

func TestRespondError_ErroresEnvueltos(t *testing.T) {
	app := fiber.New()
	wrapped := fmt.Errorf("crear orden: %w", domain.ErrInsufficientPoints)
	app.Get("/err", func(c *fiber.Ctx) error {
		return respondError(c, wrapped)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/err", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode,
		"el mapeo atraviesa los errores envueltos")
}
