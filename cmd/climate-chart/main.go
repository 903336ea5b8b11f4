package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/climate-chart/internal/api/http"
	"github.com/i474232898/climate-chart/internal/chart/render"
	"github.com/i474232898/climate-chart/internal/climate"
	"github.com/i474232898/climate-chart/internal/climate/sources"
	"github.com/i474232898/climate-chart/internal/config"
	"github.com/i474232898/climate-chart/internal/logging"
	"github.com/i474232898/climate-chart/internal/scheduler"
	"github.com/i474232898/climate-chart/internal/store"
)

const appName = "climate-chart"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.AppEnv, cfg.LogLevel, appName)

	// Observation source: a static host when configured, the data directory otherwise.
	var source climate.Source
	if cfg.DataBaseURL != "" {
		source = sources.NewHTTPSource(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.DataBaseURL)
	} else {
		source = sources.NewFileSource(cfg.DataDir)
	}

	// One request timeout per attempt of the source's retry policy.
	service := climate.NewService(store.NewMemoryStore(), source, log).
		WithLoadTimeout(4 * cfg.HTTPTimeout)

	// Preload both data types and retry failed loads.
	sched := scheduler.New(climate.DataTypes, cfg.PreloadInterval, cfg.HTTPTimeout, service, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "err", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		loaded := make(map[climate.DataType]bool, len(climate.DataTypes))
		for _, t := range climate.DataTypes {
			loaded[t] = service.Loaded(t)
		}
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
			"source":  source.Name(),
			"loaded":  loaded,
		})
	})

	ro := render.DefaultOptions()
	ro.Scale = cfg.RenderScale
	ro.FontPath = cfg.FontPath

	httpapi.RegisterRoutes(app, service, httpapi.Options{
		CanvasWidth:  cfg.CanvasWidth,
		CanvasHeight: cfg.CanvasHeight,
		Render:       ro,
	})

	go func() {
		log.Info("listening", "port", cfg.Port, "source", source.Name())
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "err", err)
	}
	log.Info("shutting down")
}
