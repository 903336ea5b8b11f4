package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "PORT", "DATA_DIR", "DATA_BASE_URL", "FONT_PATH",
		"HTTP_TIMEOUT", "PRELOAD_INTERVAL", "RESIZE_INTERVAL",
		"CANVAS_WIDTH", "CANVAS_HEIGHT", "RENDER_SCALE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AppEnv != "dev" || cfg.Port != "8080" || cfg.DataDir != "data" || cfg.DataBaseURL != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected info level, got %v", cfg.LogLevel)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.PreloadInterval != 5*time.Minute || cfg.ResizeInterval != 150*time.Millisecond {
		t.Fatalf("unexpected durations %+v", cfg)
	}
	if cfg.CanvasWidth != 960 || cfg.CanvasHeight != 540 || cfg.RenderScale != 2 {
		t.Fatalf("unexpected canvas %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("DATA_BASE_URL", " https://example.org ")
	t.Setenv("RESIZE_INTERVAL", "50ms")
	t.Setenv("CANVAS_WIDTH", "1280.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppEnv != "prod" || cfg.LogLevel != slog.LevelWarn {
		t.Fatalf("unexpected env/level %+v", cfg)
	}
	if cfg.DataBaseURL != "https://example.org" {
		t.Fatalf("expected trimmed base url, got %q", cfg.DataBaseURL)
	}
	if cfg.ResizeInterval != 50*time.Millisecond || cfg.CanvasWidth != 1280.5 {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"env":      {"APP_ENV", "staging"},
		"level":    {"LOG_LEVEL", "loud"},
		"duration": {"HTTP_TIMEOUT", "soon"},
		"negative": {"RESIZE_INTERVAL", "-1s"},
		"width":    {"CANVAS_WIDTH", "wide"},
		"zero":     {"RENDER_SCALE", "0"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected an error for %s=%q", kv[0], kv[1])
			}
		})
	}
}
