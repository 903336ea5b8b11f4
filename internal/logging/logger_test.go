package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "prod", slog.LevelInfo, "climate-chart")

	logger.Debug("hidden")
	logger.Info("loaded", "type", "temperature")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "loaded" || entry["app"] != "climate-chart" || entry["env"] != "prod" || entry["type"] != "temperature" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNew_DevIsText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "dev", slog.LevelDebug, "climate-render")

	logger.Debug("resize", "width", 900)
	out := buf.String()
	if !strings.Contains(out, "resize") || !strings.Contains(out, "climate-render") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.HasPrefix(out, "{") {
		t.Fatalf("expected console output, got JSON %q", out)
	}
}
