package server

import (
	"errors"
	"log/slog"

	"toolnest/internal/middleware"
	"toolnest/internal/models"
	"toolnest/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade rejects plain HTTP requests and requests made while
// realtime delivery is unavailable.
func (s *Server) WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if s.hub == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
				Error: "Realtime notifications are unavailable",
			})
		}
		return c.Next()
	}
}

// WebSocketHandler handles GET /api/ws. The socket receives the owner's
// notification events until either side closes it.
func (s *Server) WebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			if !errors.Is(err, notifications.ErrConnectionLimit) && !errors.Is(err, notifications.ErrHubClosed) {
				middleware.Logger.Error("websocket register failed",
					slog.Uint64("user_id", uint64(userID)),
					slog.String("error", err.Error()))
			}
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		middleware.Logger.Debug("websocket connected", slog.Uint64("user_id", uint64(userID)))

		go client.WritePump()
		client.ReadPump()
	})
}
