// Package handlers exposes the REST and websocket surfaces of the relay as
// echo handler constructors over small consumer-side service interfaces.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"chatrelay/internal/model"
)

// ChatService is the broadcast router behind the message endpoints.
type ChatService interface {
	Publish(intent *model.MessageIntent) (*model.Message, error)
	History(group string) []model.Message
}

// PostMessage publishes a message intent and returns the finalized message.
func PostMessage(service ChatService) echo.HandlerFunc {
	return func(c echo.Context) error {
		intent := &model.MessageIntent{}
		if err := c.Bind(intent); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}

		msg, err := service.Publish(intent)
		if err != nil {
			if errors.Is(err, model.ErrorEmptyMessageGroup) {
				return echo.NewHTTPError(http.StatusBadRequest, "group is required")
			}
			return fmt.Errorf("publishing message: %w", err)
		}
		return c.JSON(http.StatusCreated, msg)
	}
}

// GetMessages returns the history of a group in delivery order.
func GetMessages(service ChatService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, service.History(c.Param("group")))
	}
}
