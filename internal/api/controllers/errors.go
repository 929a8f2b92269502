package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/toolfetch/internal/domain"
)

// httpStatus maps a domain error onto the response code
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingURL), errors.Is(err, domain.ErrUnknownSource):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingAuthToken):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrDownloadInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLaunchFailure):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNotRunning):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c *echo.Context, err error) error {
	return c.JSON(httpStatus(err), StatusResponse{
		Status: domain.StatusKey(err),
		Error:  err.Error(),
	})
}
