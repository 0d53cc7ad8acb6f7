package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sportsfilio/tournament-hub/middleware"
	"github.com/sportsfilio/tournament-hub/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Auth happens via the token below; origin checks are delegated
		// to the deployment's reverse proxy.
		return true
	},
}

type WebSocketHandler struct {
	hub       *realtime.Hub
	jwtSecret []byte
	logger    *slog.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, jwtSecret []byte, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, jwtSecret: jwtSecret, logger: logger}
}

// Serve handles GET /ws/notifications?token=... Browsers cannot set an
// Authorization header on a WebSocket upgrade, so the token rides in the
// query string.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	principal, err := middleware.ParseToken(tokenString, h.jwtSecret)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection", slog.Any("error", err))
		return
	}

	client := &realtime.Client{
		Hub:       h.hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		ProfileID: principal.ProfileID,
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
