// Package ws implementa el canal de notificaciones en tiempo real sobre
// websockets. Cada usuario autenticado queda suscrito a su propia sala
// (su ID) y todos reciben los mensajes del tópico broadcast.
package ws

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/LaibaHameed12/ecom-backend/internal/application/usecase"
	"github.com/LaibaHameed12/ecom-backend/pkg/jwt"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

var _ usecase.Publisher = (*Hub)(nil)

// envelope forma de todo mensaje que sale por el canal.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// client conexión individual. El mutex serializa las escrituras: gorilla
// y derivados no admiten escritores concurrentes sobre la misma conexión.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub registro de conexiones por sala. Implementa usecase.Publisher.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
	log   *logger.Logger
}

// NewHub construye el hub vacío.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{rooms: make(map[string]map[*client]struct{}), log: log}
}

// Publish serializa el payload bajo el nombre de evento dado y lo entrega:
// al tópico broadcast lo reciben todas las conexiones; cualquier otro
// tópico es la sala de un usuario. Una sala vacía no es un error.
func (h *Hub) Publish(topic, event string, payload any) error {
	data, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("ws: serializar mensaje: %w", err)
	}

	var targets []*client
	h.mu.RLock()
	if topic == usecase.TopicBroadcast {
		for _, room := range h.rooms {
			for c := range room {
				targets = append(targets, c)
			}
		}
	} else {
		for c := range h.rooms[topic] {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(data); err != nil {
			h.log.Debug().Err(err).Str("topic", topic).Msg("entrega ws fallida")
		}
	}
	return nil
}

// ConnCount devuelve el número de conexiones en una sala.
func (h *Hub) ConnCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[topic])
}

func (h *Hub) join(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[userID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leave(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[userID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, userID)
		}
	}
}

// UpgradeGuard rechaza con 426 las peticiones que no son un upgrade de websocket.
func UpgradeGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// ConnToken extrae el token de acceso de la petición de upgrade: primero
// el query param "token", si no el header Authorization con esquema Bearer.
func ConnToken(query, authHeader string) string {
	if query != "" {
		return query
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Handler autentica la conexión con el token de acceso (query param
// "token" o header Authorization), la suscribe a la sala del usuario y la
// mantiene abierta hasta que el cliente cierra o falla la lectura.
func (h *Hub) Handler(jwtSecret string) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _, err := jwt.Parse(jwtSecret, ConnToken(conn.Query("token"), conn.Headers("Authorization")))
		if err != nil {
			h.log.Debug().Err(err).Msg("conexión ws rechazada")
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "token inválido"))
			_ = conn.Close()
			return
		}

		c := &client{conn: conn}
		h.join(userID, c)
		h.log.Debug().Str("user_id", userID).Msg("conexión ws abierta")
		defer func() {
			h.leave(userID, c)
			_ = conn.Close()
			h.log.Debug().Str("user_id", userID).Msg("conexión ws cerrada")
		}()

		// el canal es de solo salida: leemos únicamente para detectar el cierre
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
