package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/toolfetch/internal/app"
	"github.com/datallboy/toolfetch/internal/domain"
)

type DownloadController struct {
	App *app.Context
}

// List returns the active URLs and the latest status of each
func (ctrl *DownloadController) List(c *echo.Context) error {
	resp := DownloadList{
		Active:    ctrl.App.Downloads.Active(),
		Downloads: []domain.DownloadStatus{},
	}
	if resp.Active == nil {
		resp.Active = []string{}
	}
	if ctrl.App.Status != nil {
		resp.Downloads = append(resp.Downloads, ctrl.App.Status.Downloads()...)
	}
	return c.JSON(http.StatusOK, resp)
}

// Start launches a download. The outcome is also delivered to the event sinks.
func (ctrl *DownloadController) Start(c *echo.Context) error {
	var req DownloadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, StatusResponse{Status: domain.StatusCommonError, Error: err.Error()})
	}

	source, err := domain.SourceByID(req.Source)
	if err != nil {
		return errorJSON(c, err)
	}

	if err := ctrl.App.Downloads.StartDownload(source, req.URL); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusAccepted, DownloadAccepted{Status: "Started", URL: strings.TrimSpace(req.URL)})
}

// Cancel stops the download for ?url=
func (ctrl *DownloadController) Cancel(c *echo.Context) error {
	url := c.QueryParam("url")
	if strings.TrimSpace(url) == "" {
		return errorJSON(c, domain.ErrMissingURL)
	}

	if err := ctrl.App.Downloads.Cancel(url); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
