package controllers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/toolfetch/internal/app"
	"github.com/datallboy/toolfetch/internal/auth"
	"github.com/datallboy/toolfetch/internal/domain"
)

type AuthController struct {
	App *app.Context
}

// SetToken stores a token supplied directly by the front end
func (ctrl *AuthController) SetToken(c *echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, StatusResponse{Status: domain.StatusCommonError, Error: err.Error()})
	}

	ctrl.App.Tokens.Set(req.Token)
	return c.NoContent(http.StatusNoContent)
}

// IngestCookies looks for the download auth cookie among the posted
// cookies, falling back to the request's own Cookie header.
func (ctrl *AuthController) IngestCookies(c *echo.Context) error {
	var params []CookieParam
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&params); err != nil {
			return c.JSON(http.StatusBadRequest, StatusResponse{Status: domain.StatusCommonError, Error: err.Error()})
		}
	}

	name := ctrl.App.Config.Auth.CookieName

	cookies := make([]*http.Cookie, 0, len(params))
	for _, p := range params {
		cookies = append(cookies, &http.Cookie{Name: p.Name, Value: p.Value})
	}

	token, ok := auth.FromCookies(cookies, name)
	if !ok {
		token, ok = auth.FromCookieHeader(c.Request().Header.Get("Cookie"), name)
	}

	status := domain.StatusAuthTokenNotFound
	if ok {
		ctrl.App.Tokens.Set(token)
		status = domain.StatusAuthTokenSuccess
	}

	if ctrl.App.Status != nil {
		ctrl.App.Status.SetStatus(status)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: status})
}
