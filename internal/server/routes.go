package server

import (
	"app/internal/config"
	"app/internal/metrics"
	"app/internal/middleware"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, cfg config.Config, h Handlers, userRepo repository.UserRepository) {
	// 認証なし
	e.GET("/healthz", healthz)
	e.GET("/metrics", metrics.Handler())
	e.POST("/auth/register", h.Auth.Register)
	e.POST("/auth/login", h.Auth.Login)
	e.POST("/auth/refresh", h.Auth.Refresh)

	// 認証あり。JWT検証のあとtoken_versionをDBと照合する。
	api := e.Group("", middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo))
	api.POST("/auth/logout", h.Auth.Logout)

	h.Merchant.RegisterRoutes(api)
	h.Team.RegisterRoutes(api)
	h.Product.RegisterRoutes(api)
	h.Customer.RegisterRoutes(api)
	h.Invoice.RegisterRoutes(api)
}
