package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trends-go/pkg/logger"
)

type AppConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the fiber app with all dashboard routes.
func NewApp(ctl *Controller, cfg AppConfig) *fiber.App {
	log := logger.GetLogger().Component("http")

	app := fiber.New(fiber.Config{
		AppName:               "trends-go",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(RequestLogger(log))

	app.Get("/healthz", ctl.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/", ctl.SessionMiddleware, ctl.Index)

	api := app.Group("/api", ctl.SessionMiddleware)
	api.Post("/analyze", ctl.Analyze)
	api.Get("/charts/time-series", ctl.TimeSeriesChart)
	api.Get("/charts/region-map", ctl.RegionMapChart)
	api.Get("/charts/top-regions", ctl.TopRegionsChart)
	api.Get("/related", ctl.RelatedTable)
	api.Get("/download", ctl.Download)
	api.Get("/analysis", ctl.Analysis)
	api.Get("/timeframes", ctl.Timeframes)

	return app
}
