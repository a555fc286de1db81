package notify

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/JaimeStill/bookshelf/internal/books"
	"github.com/JaimeStill/bookshelf/pkg/handlers"
	"github.com/JaimeStill/bookshelf/pkg/openapi"
	"github.com/JaimeStill/bookshelf/pkg/routes"
)

// Handler upgrades subscription requests to WebSocket connections.
type Handler struct {
	hub      *Hub
	cfg      *Config
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a subscription handler. When allowed origins are
// configured, only those origins may connect; otherwise the default
// same-host check applies.
func NewHandler(hub *Hub, cfg *Config, logger *slog.Logger) *Handler {
	h := &Handler{
		hub:    hub,
		cfg:    cfg,
		logger: logger.With("handler", "notify"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	if len(cfg.AllowedOrigins) > 0 {
		h.upgrader.CheckOrigin = h.checkOrigin
	}

	return h
}

// Routes returns the subscription endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/books",
		Tags:        []string{"Notifications"},
		Description: "Page change notifications",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/events", Handler: h.Subscribe, OpenAPI: subscribeSpec},
		},
	}
}

// Subscribe upgrades the request and joins the connection to the book's group.
// The connection may send Action frames to join or leave further groups.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid book id %q", r.PathValue("id")))
		return
	}

	sub, err := h.hub.Connect()
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusServiceUnavailable, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.Disconnect(sub)
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.hub.Subscribe(sub, books.StorageKey(id))
	h.logger.Info("subscriber joined", "subscriber", sub.ID, "book_id", id)

	go h.writePump(conn, sub)
	h.readPump(conn, sub)
}

func (h *Handler) readPump(conn *websocket.Conn, sub *Subscriber) {
	defer func() {
		h.hub.Disconnect(sub)
		conn.Close()
		h.logger.Info("subscriber left", "subscriber", sub.ID)
	}()

	pongWait := h.cfg.PongWait()
	conn.SetReadLimit(h.cfg.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket unexpected close", "subscriber", sub.ID, "error", err)
			}
			return
		}

		var action Action
		if err := json.Unmarshal(data, &action); err != nil || action.BookID < 1 {
			h.logger.Debug("ignoring malformed frame", "subscriber", sub.ID)
			continue
		}

		key := books.StorageKey(action.BookID)
		switch action.Action {
		case ActionSubscribe:
			h.hub.Subscribe(sub, key)
		case ActionUnsubscribe:
			h.hub.Unsubscribe(sub, key)
		default:
			h.logger.Debug("ignoring unknown action", "subscriber", sub.ID, "action", action.Action)
		}
	}
}

func (h *Handler) writePump(conn *websocket.Conn, sub *Subscriber) {
	writeTimeout := h.cfg.WriteTimeoutDuration()
	ticker := time.NewTicker(h.cfg.PingIntervalDuration())
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame, ok := <-sub.Messages():
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(h.cfg.AllowedOrigins, "*") || slices.Contains(h.cfg.AllowedOrigins, origin)
}

var subscribeSpec = &openapi.Operation{
	Summary: "Subscribe to page changes",
	Description: "Upgrades to a WebSocket. The server sends a connected event, then one updated event per page replacement. " +
		`Send {"action":"subscribe"|"unsubscribe","book_id":N} to join or leave other books.`,
	Parameters: []*openapi.Parameter{
		openapi.PathParam("id", "Book ID"),
	},
	Responses: map[int]*openapi.Response{
		101: {Description: "Switching to WebSocket"},
		400: {Description: "Invalid book ID"},
	},
}
