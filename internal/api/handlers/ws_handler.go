package handlers

import (
	"log/slog"

	"github.com/bookswap/bookswap-backend/internal/api/response"
	"github.com/bookswap/bookswap-backend/internal/session"
	ws "github.com/bookswap/bookswap-backend/internal/websocket"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WSHandler upgrades authenticated connections into hub clients
type WSHandler struct {
	hub      *ws.Hub
	sessions *session.Manager
	upgrader gorillaws.Upgrader
	logger   *slog.Logger
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, sessions *session.Manager, upgrader gorillaws.Upgrader, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:      hub,
		sessions: sessions,
		upgrader: upgrader,
		logger:   logger,
	}
}

// Connect handles GET /ws. The session cookie rides along on the
// handshake request, so the stream is bound to the logged-in account
// before the upgrade happens.
func (h *WSHandler) Connect(c echo.Context) error {
	accountID, ok := h.sessions.AccountID(c.Request())
	if !ok {
		return response.Unauthorized(c, "authentication required")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the handshake error
		if h.logger != nil {
			h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		}
		return nil
	}

	client := ws.NewClient(h.hub, conn, accountID, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	return nil
}
