package handlers

import (
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"chatrelay/internal/realtime"
)

// Registry accepts upgraded connections into the realtime hub.
type Registry interface {
	Register(conn *websocket.Conn, publisher realtime.Publisher) *realtime.Client
}

// Websocket upgrades the request and hands the connection to the hub. The
// hub owns the connection from that point on.
func Websocket(registry Registry, publisher realtime.Publisher, origins []string) echo.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}

	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// Upgrade has already written the error response.
			log.Warnf("websocket upgrade failed: %v", err)
			return nil
		}
		registry.Register(conn, publisher)
		return nil
	}
}
