package controllers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/toolfetch/internal/app"
	"github.com/datallboy/toolfetch/internal/domain"
)

// NavigationController serves the browsing front end's page hooks
type NavigationController struct {
	App *app.Context
}

// Decide tells the front end whether to cancel a navigation. File links are
// cancelled and handed to the orchestrator instead.
func (ctrl *NavigationController) Decide(c *echo.Context) error {
	var req NavigationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, StatusResponse{Status: domain.StatusCommonError, Error: err.Error()})
	}

	source, err := domain.SourceByID(req.Source)
	if err != nil {
		return errorJSON(c, err)
	}

	policy := PolicyAllow
	if ctrl.App.Downloads.DecideNavigation(source, req.URL) {
		policy = PolicyCancel
	}
	return c.JSON(http.StatusOK, NavigationPolicy{Policy: policy})
}

// Finished reports the status for a page that finished loading
func (ctrl *NavigationController) Finished(c *echo.Context) error {
	var req NavigationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, StatusResponse{Status: domain.StatusCommonError, Error: err.Error()})
	}

	status := domain.PageStatus(req.URL)
	if ctrl.App.Status != nil {
		ctrl.App.Status.SetStatus(status)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: status})
}
