package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/logger"
	"app/internal/metrics"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlersはルート登録に必要なハンドラ一式。
type Handlers struct {
	Auth     *handler.AuthHandler
	Merchant *handler.MerchantHandler
	Team     *handler.TeamHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Invoice  *handler.InvoiceHandler
}

// Newはミドルウェアとルートを組んだechoインスタンスを返す。
func New(cfg config.Config, h Handlers, userRepo repository.UserRepository) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(logger.RequestLogger())
	e.Use(metrics.NewHTTPMetrics(cfg.ServiceName).Middleware())

	registerRoutes(e, cfg, h, userRepo)
	return e
}

// Startはリッスンを開始する。
func Start(e *echo.Echo, port string) error {
	return e.Start(":" + port)
}

func healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
