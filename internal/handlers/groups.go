package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"chatrelay/internal/model"
)

// GroupService is the durable group catalog behind the group endpoints.
type GroupService interface {
	Create(name string) (*model.Group, error)
	List() []model.Group
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

func CreateGroup(service GroupService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &CreateGroupRequest{}
		if err := c.Bind(params); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}

		group, err := service.Create(params.Name)
		if err != nil {
			if errors.Is(err, model.ErrorEmptyGroupName) {
				return echo.NewHTTPError(http.StatusBadRequest, "name is required")
			}
			return fmt.Errorf("creating group: %w", err)
		}
		return c.JSON(http.StatusCreated, group)
	}
}

func ListGroups(service GroupService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, service.List())
	}
}
