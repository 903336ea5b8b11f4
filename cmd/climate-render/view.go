package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/i474232898/climate-chart/internal/chart"
	"github.com/i474232898/climate-chart/internal/chart/render"
	"github.com/i474232898/climate-chart/internal/session"
)

// fileView writes every rendered chart to a file (or stdout) and reports
// error states on the log.
type fileView struct {
	path   string
	format string
	opts   render.Options
	log    *slog.Logger

	failed bool
}

func (v *fileView) ShowChart(s session.State, plan chart.RenderPlan) {
	if err := v.write(plan); err != nil {
		v.failed = true
		v.log.Error("write chart", "path", v.path, "err", err)
		return
	}
	v.failed = false
	v.log.Info("chart rendered",
		"query", s.Query(),
		"points", len(plan.Points),
		"width", plan.Size.Width,
		"height", plan.Size.Height,
		"out", v.path,
	)
}

func (v *fileView) ShowError(s session.State, message string) {
	v.failed = true
	v.log.Error("chart hidden", "query", s.Query(), "reason", message)
}

func (v *fileView) SetLocation(query string) {
	v.log.Debug("location", "query", "?"+query)
}

func (v *fileView) write(plan chart.RenderPlan) error {
	var w io.Writer = os.Stdout
	if v.path != "-" {
		f, err := os.Create(v.path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch v.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "png":
		return render.PNG(w, plan, v.opts)
	default:
		return fmt.Errorf("unsupported format %q", v.format)
	}
}
