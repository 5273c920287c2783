package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/AnshRaj112/safespace-backend/internal/middleware"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 90 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// notificationUpgrader is the shared upgrader for notification sockets.
var notificationUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS for WebSocket is handled at the HTTP layer already.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationsWebSocket streams the caller's new notifications.
// Authentication happens in the Identity middleware; browsers pass the token
// as the token query parameter.
func (h *Handler) NotificationsWebSocket(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFrom(r.Context())

	conn, err := notificationUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, unsubscribe := h.Hub.Subscribe(account.ID)
	defer unsubscribe()

	logger := hlog.FromRequest(r)
	logger.Debug().
		Str("account_id", account.ID.String()).
		Int("subscribers", h.Hub.Subscribers(account.ID)).
		Msg("notification socket opened")

	// Reader: the client sends nothing we act on, but reads drive pong
	// handling and detect disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(4 * 1024)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(evt); err != nil {
				logger.Debug().Err(err).Msg("notification socket write failed")
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
