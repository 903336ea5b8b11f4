package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	AppEnv   string // dev or prod
	LogLevel slog.Level
	Port     string

	// DataDir holds temperature.json and precipitation.json. Ignored when
	// DataBaseURL is set.
	DataDir string
	// DataBaseURL points at a static host serving /data/<type>.json.
	DataBaseURL string
	HTTPTimeout time.Duration

	// PreloadInterval controls how often data types that failed to load are retried.
	PreloadInterval time.Duration

	// ResizeInterval is the minimum time between two resize renders.
	ResizeInterval time.Duration

	// Default canvas, in logical pixels, when a request does not size it.
	CanvasWidth  float64
	CanvasHeight float64
	RenderScale  float64
	FontPath     string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := ParseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DataDir = getenvDefault("DATA_DIR", "data")
	cfg.DataBaseURL = strings.TrimSpace(os.Getenv("DATA_BASE_URL"))
	cfg.FontPath = strings.TrimSpace(os.Getenv("FONT_PATH"))

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.PreloadInterval, err = getenvDuration("PRELOAD_INTERVAL", "5m"); err != nil {
		return nil, err
	}
	if cfg.ResizeInterval, err = getenvDuration("RESIZE_INTERVAL", "150ms"); err != nil {
		return nil, err
	}

	if cfg.CanvasWidth, err = getenvPositiveFloat("CANVAS_WIDTH", 960); err != nil {
		return nil, err
	}
	if cfg.CanvasHeight, err = getenvPositiveFloat("CANVAS_HEIGHT", 540); err != nil {
		return nil, err
	}
	if cfg.RenderScale, err = getenvPositiveFloat("RENDER_SCALE", 2); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseLogLevel maps debug, info, warn and error onto slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	raw := getenvDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

func getenvPositiveFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return f, nil
}
