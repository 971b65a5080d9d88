package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"stockpulse/internal/config"
	"stockpulse/internal/infrastructure"
	ws "stockpulse/internal/websocket"
)

// WebSocketHandler upgrades HTTP connections and registers clients
// with the hub.
type WebSocketHandler struct {
	hub      *ws.Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a websocket upgrade handler. Origins are
// checked against the security config; requests without an Origin
// header (CLI clients, same-origin) are allowed.
func NewWebSocketHandler(hub *ws.Hub, wsCfg config.WebSocketConfig, secCfg config.SecurityConfig, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("handler", "websocket"))

	allowed := make(map[string]bool, len(secCfg.AllowedOrigins))
	for _, origin := range secCfg.AllowedOrigins {
		allowed[origin] = true
	}

	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsCfg.ReadBufferSize,
			WriteBufferSize: wsCfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if allowed[origin] {
					return true
				}
				logger.Warn("websocket origin rejected",
					slog.String("origin", origin))
				return false
			},
		},
	}
}

// Handle handles GET /ws
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := infrastructure.GetTraceID(ctx)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.ErrorContext(ctx, "websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("origin", r.Header.Get("Origin")))
		return
	}

	h.logger.InfoContext(ctx, "websocket client connected",
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("trace_id", traceID))

	client := ws.NewClientWithTrace(h.hub, conn, traceID, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
