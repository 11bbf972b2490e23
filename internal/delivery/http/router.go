package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "signaldesk/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler   *AuthHandler
	SignalHandler *SignalHandler
	AdminHandler  *AdminHandler
	Auth          *custommiddleware.Authenticator
	Stream        http.Handler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// health checks and the long-lived stream would drown the log
			path := c.Request().URL.Path
			return path == "/health" || path == "/ws/boundaries"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	e.GET("/health", config.AdminHandler.GetSystemHealth)
	e.GET("/ws/boundaries", echo.WrapHandler(config.Stream))

	api := e.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
	}

	api.GET("/assets", config.SignalHandler.ListAssets)
	api.GET("/market/status", config.SignalHandler.MarketStatus)
	api.POST("/signals", config.SignalHandler.Generate)
	api.GET("/signals/recent", config.SignalHandler.Recent)

	admin := api.Group("/admin", config.Auth.Middleware, custommiddleware.AdminMiddleware)
	{
		admin.GET("/settings", config.AdminHandler.GetSettings)
		admin.PUT("/settings/:key", config.AdminHandler.UpdateSetting)
		admin.GET("/statistics", config.AdminHandler.GetStatistics)
	}
}
