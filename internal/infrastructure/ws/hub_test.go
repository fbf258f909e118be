package ws_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LaibaHameed12/ecom-backend/internal/application/usecase"
	"github.com/LaibaHameed12/ecom-backend/internal/infrastructure/ws"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// ──────────────────────────────────────────────────────────────────────────────
// ConnToken: fuentes del token en el upgrade
// ──────────────────────────────────────────────────────────────────────────────

func TestConnToken_PrefiereQueryParam(t *testing.T) {
	got := ws.ConnToken("tok-query", "Bearer tok-header")
	assert.Equal(t, "tok-query", got,
		"el query param manda aunque venga header")
}

func TestConnToken_CaeAlHeaderAuthorization(t *testing.T) {
	assert.Equal(t, "tok-header", ws.ConnToken("", "Bearer tok-header"))
	assert.Equal(t, "tok-header", ws.ConnToken("", "bearer tok-header"),
		"el esquema no distingue mayúsculas")
}

func TestConnToken_SinFuentesValidas(t *testing.T) {
	assert.Empty(t, ws.ConnToken("", ""))
	assert.Empty(t, ws.ConnToken("", "Basic abc123"),
		"solo se acepta el esquema Bearer")
	assert.Empty(t, ws.ConnToken("", "token-sin-esquema"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Publish
// ──────────────────────────────────────────────────────────────────────────────

func TestPublish_SalaVaciaNoEsError(t *testing.T) {
	h := ws.NewHub(testLogger())

	err := h.Publish("u1", usecase.EventNotification, map[string]string{"title": "hola"})
	assert.NoError(t, err, "sin conexiones el aviso ya quedó persistido")

	err = h.Publish(usecase.TopicBroadcast, usecase.EventSaleStarted, nil)
	assert.NoError(t, err)
	assert.Zero(t, h.ConnCount(usecase.TopicBroadcast))
}

func TestPublish_PayloadNoSerializable(t *testing.T) {
	h := ws.NewHub(testLogger())
	err := h.Publish("u1", usecase.EventNotification, make(chan int))
	assert.Error(t, err, "un payload no serializable corta la publicación")
}
