package api

import (
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/datallboy/toolfetch/internal/api/controllers"
	"github.com/datallboy/toolfetch/internal/app"
)

func RegisterRoutes(e *echo.Echo, app *app.Context) {
	log := app.Logger.Named("api")

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("%s %s | %d | %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	sessionCtrl := &controllers.SessionController{App: app}
	downloadCtrl := &controllers.DownloadController{App: app}
	authCtrl := &controllers.AuthController{App: app}
	navCtrl := &controllers.NavigationController{App: app}

	g := e.Group("/api")

	g.GET("/sources", sessionCtrl.Sources)
	g.GET("/status", sessionCtrl.Status)
	g.GET("/events", sessionCtrl.Events)

	g.GET("/downloads", downloadCtrl.List)
	g.POST("/downloads", downloadCtrl.Start)
	g.DELETE("/downloads", downloadCtrl.Cancel)

	// Token ingestion from the front end's cookie jar
	g.POST("/token", authCtrl.SetToken)
	g.POST("/cookies", authCtrl.IngestCookies)

	g.POST("/navigation/decide", navCtrl.Decide)
	g.POST("/navigation/finished", navCtrl.Finished)
}
