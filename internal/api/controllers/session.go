package controllers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/toolfetch/internal/app"
	"github.com/datallboy/toolfetch/internal/domain"
)

type SessionController struct {
	App *app.Context
}

func (ctrl *SessionController) Sources(c *echo.Context) error {
	return c.JSON(http.StatusOK, domain.Sources())
}

// Status returns the last status line shown to the user
func (ctrl *SessionController) Status(c *echo.Context) error {
	var last string
	if ctrl.App.Status != nil {
		last = ctrl.App.Status.Last()
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: last})
}

// Events returns this session's event log, optionally for one ?url=
func (ctrl *SessionController) Events(c *echo.Context) error {
	if ctrl.App.Events == nil {
		return c.JSON(http.StatusOK, []domain.LoggedEvent{})
	}

	events, err := ctrl.App.Events.ListEvents(c.Request().Context(), c.QueryParam("url"))
	if err != nil {
		ctrl.App.Logger.Error("Failed to list events: %v", err)
		return c.JSON(http.StatusInternalServerError, StatusResponse{Status: domain.StatusCommonError, Error: err.Error()})
	}
	return c.JSON(http.StatusOK, events)
}
