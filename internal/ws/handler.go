package ws

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
)

// HandlerConfig configures the WebSocket upgrade handler.
type HandlerConfig struct {
	// AllowedOrigins restricts the Origin header on upgrade requests.
	// Empty means all origins are allowed (the permissive fallback).
	AllowedOrigins []string

	// SendBuffer is the per-client outbound frame buffer.
	SendBuffer int

	// MaxMessageSize bounds inbound frame size in bytes.
	MaxMessageSize int64
}

// Handler upgrades HTTP requests to WebSocket connections and registers
// the resulting clients with the hub.
type Handler struct {
	hub      *Hub
	onEvent  EventHandler
	upgrader websocket.Upgrader
	cfg      HandlerConfig
	logger   *slog.Logger
}

// NewHandler creates a WebSocket upgrade handler. onEvent receives every
// inbound channel event from every client.
func NewHandler(hub *Hub, onEvent EventHandler, cfg HandlerConfig, logger *slog.Logger) *Handler {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 256
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 4096
	}

	allowed := normalizeOrigins(cfg.AllowedOrigins)

	h := &Handler{
		hub:     hub,
		onEvent: onEvent,
		cfg:     cfg,
		logger:  logger.With("component", "ws.handler"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r, allowed)
		},
	}
	return h
}

// ServeHTTP handles GET /ws.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Warn("websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	client := &Client{
		id:             ulid.Make().String(),
		conn:           conn,
		send:           make(chan []byte, h.cfg.SendBuffer),
		hub:            h.hub,
		addr:           r.RemoteAddr,
		onEvent:        h.onEvent,
		maxMessageSize: h.cfg.MaxMessageSize,
		logger:         h.logger,
	}

	h.hub.register <- client
}

// normalizeOrigins lowercases scheme://host for each configured origin,
// discarding entries that do not parse.
func normalizeOrigins(origins []string) map[string]bool {
	normalized := make(map[string]bool, len(origins))
	for _, origin := range origins {
		o, ok := normalizeOrigin(strings.TrimSpace(origin))
		if ok {
			normalized[o] = true
		}
	}
	return normalized
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

// originAllowed applies the configured allow-list. An empty list allows
// everything; browsers send no Origin header for non-browser clients, which
// are always allowed.
func originAllowed(r *http.Request, allowed map[string]bool) bool {
	if len(allowed) == 0 {
		return true
	}

	header := r.Header.Get("Origin")
	if header == "" {
		return true
	}

	origin, ok := normalizeOrigin(header)
	if !ok {
		return false
	}
	return allowed[origin]
}
