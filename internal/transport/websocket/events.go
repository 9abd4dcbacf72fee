package websocket

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
)

// Authenticator resolves an access token to an identity.
type Authenticator func(ctx context.Context, token string) (*domain.Identity, error)

// EventHub fans recorded analytics events out to connected admin dashboards.
// It implements events.Publisher so it can sit next to the Kafka publisher.
type EventHub struct {
	mu           sync.RWMutex
	clients      map[*client]struct{}
	authenticate Authenticator
	logger       *zap.Logger
	closed       bool
}

func NewEventHub(authenticate Authenticator, logger *zap.Logger) *EventHub {
	return &EventHub{
		clients:      make(map[*client]struct{}),
		authenticate: authenticate,
		logger:       logger,
	}
}

// Publish never blocks on a slow dashboard; such a client misses the event.
func (h *EventHub) Publish(ctx context.Context, event domain.AnalyticsEvent) error {
	msg := ServerMessage{Type: MessageEvent, Event: &event}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for cl := range h.clients {
		cl.sendJSON(msg)
	}
	return nil
}

func (h *EventHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for cl := range h.clients {
		cl.close()
		delete(h.clients, cl)
	}
	return nil
}

func (h *EventHub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket accepts admin dashboards. The token comes from the "token"
// query parameter or the Authorization header.
func (h *EventHub) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if header := c.GetHeader("Authorization"); token == "" && strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	}

	identity, err := h.authenticate(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "требуется авторизация", "code": http.StatusUnauthorized})
		return
	}
	if identity.Role != domain.UserRoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "доступ запрещен", "code": http.StatusForbidden})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("не удалось установить websocket соединение", zap.Error(err))
		return
	}
	h.serve(conn, identity.UserID)
}

func (h *EventHub) serve(conn *websocket.Conn, userID int64) {
	cl := newClient(conn, h.logger)
	go cl.writePump()

	if !h.register(cl) {
		cl.close()
		return
	}
	defer h.unregister(cl)

	h.logger.Info("подключена панель событий", zap.Int64("user_id", userID))
	// Inbound frames are ignored; reading keeps the pong deadline alive.
	cl.readPump(func([]byte) {})
	h.logger.Info("панель событий отключена", zap.Int64("user_id", userID))
}

func (h *EventHub) register(cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[cl] = struct{}{}
	return true
}

func (h *EventHub) unregister(cl *client) {
	h.mu.Lock()
	delete(h.clients, cl)
	h.mu.Unlock()
	cl.close()
}
