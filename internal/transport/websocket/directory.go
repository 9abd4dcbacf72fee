// Package websocket serves the live directory sessions and the admin event
// feed.
package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mindconnect/config"
	"mindconnect/internal/directory"
	"mindconnect/internal/domain"
	"mindconnect/internal/metrics"
	"mindconnect/pkg/debounce"
)

const loadTimeout = 10 * time.Second

// Message types exchanged over the sockets.
const (
	MessageFilters = "filters"
	MessageFlush   = "flush"
	MessageReset   = "reset"
	MessageSort    = "sort"
	MessagePage    = "page"
	MessageError   = "error"
	MessageEvent   = "event"
)

// ClientMessage is a frame sent by a browsing client. Filters stay raw until
// directory.SpecFromJSON reads them field by field.
type ClientMessage struct {
	Type    string          `json:"type"`
	Filters json.RawMessage `json:"filters,omitempty"`
	Sort    string          `json:"sort,omitempty"`
	Page    int             `json:"page,omitempty"`
}

// ServerMessage is a frame pushed to a client.
type ServerMessage struct {
	Type     string                 `json:"type"`
	Page     *domain.DirectoryPage  `json:"page,omitempty"`
	Revision uint64                 `json:"revision,omitempty"`
	Event    *domain.AnalyticsEvent `json:"event,omitempty"`
	Message  string                 `json:"message,omitempty"`
}

// DirectorySessions runs one directory.Controller per connection. Filter
// frames go through the controller's debounce; every recomputed page is
// pushed back to the client.
type DirectorySessions struct {
	source    directory.Source
	cfg       config.DirectoryConfig
	logger    *zap.Logger
	afterFunc debounce.AfterFunc
}

func NewDirectorySessions(source directory.Source, cfg config.DirectoryConfig, logger *zap.Logger) *DirectorySessions {
	return &DirectorySessions{
		source: source,
		cfg:    cfg,
		logger: logger,
	}
}

// HandleWebSocket blocks for the lifetime of the connection.
func (s *DirectorySessions) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("не удалось установить websocket соединение", zap.Error(err))
		return
	}
	s.serve(conn)
}

func (s *DirectorySessions) serve(conn *websocket.Conn) {
	cl := newClient(conn, s.logger)
	go cl.writePump()

	metrics.DirectorySessionsActive.Inc()
	defer metrics.DirectorySessionsActive.Dec()

	var ctrl *directory.Controller
	opts := []directory.ControllerOption{
		directory.WithPageSize(s.cfg.PageSize),
		directory.WithLogger(s.logger),
		directory.WithOnChange(func(page domain.DirectoryPage) {
			cl.sendJSON(ServerMessage{Type: MessagePage, Page: &page, Revision: ctrl.Revision()})
		}),
	}
	if s.cfg.DebounceDelay > 0 {
		opts = append(opts, directory.WithDebounceDelay(s.cfg.DebounceDelay))
	}
	if s.afterFunc != nil {
		opts = append(opts, directory.WithAfterFunc(s.afterFunc))
	}
	ctrl = directory.NewController(s.source, opts...)
	defer ctrl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	err := ctrl.Load(ctx)
	cancel()
	if err != nil {
		cl.sendJSON(ServerMessage{Type: MessageError, Message: "не удалось загрузить каталог"})
	}

	s.logger.Debug("открыта сессия каталога")
	cl.readPump(func(data []byte) {
		s.handle(ctrl, cl, data)
	})
	s.logger.Debug("сессия каталога закрыта", zap.Uint64("revision", ctrl.Revision()))
}

func (s *DirectorySessions) handle(ctrl *directory.Controller, cl *client, data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		cl.sendJSON(ServerMessage{Type: MessageError, Message: "некорректное сообщение"})
		return
	}

	switch msg.Type {
	case MessageFilters:
		if len(msg.Filters) == 0 || string(msg.Filters) == "null" {
			cl.sendJSON(ServerMessage{Type: MessageError, Message: "не указаны фильтры"})
			return
		}
		spec, err := directory.SpecFromJSON(msg.Filters)
		if err != nil {
			cl.sendJSON(ServerMessage{Type: MessageError, Message: "фильтры должны быть объектом"})
			return
		}
		ctrl.ApplyFilters(spec)
	case MessageFlush:
		ctrl.FlushFilters()
	case MessageReset:
		ctrl.ResetFilters()
	case MessageSort:
		ctrl.SetSort(domain.ParseSortKey(msg.Sort))
	case MessagePage:
		page := ctrl.SetPage(msg.Page)
		cl.sendJSON(ServerMessage{Type: MessagePage, Page: &page, Revision: ctrl.Revision()})
	default:
		cl.sendJSON(ServerMessage{Type: MessageError, Message: "неизвестный тип сообщения: " + msg.Type})
	}
}
