package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/i474232898/climate-chart/internal/app"
	"github.com/i474232898/climate-chart/internal/chart"
	"github.com/i474232898/climate-chart/internal/chart/render"
	"github.com/i474232898/climate-chart/internal/climate"
	"github.com/i474232898/climate-chart/internal/climate/sources"
	"github.com/i474232898/climate-chart/internal/config"
	"github.com/i474232898/climate-chart/internal/logging"
	"github.com/i474232898/climate-chart/internal/session"
	"github.com/i474232898/climate-chart/internal/store"
)

func main() {
	var dataDir = flag.StringP("data-dir", "d", "data", "directory holding temperature.json and precipitation.json")
	var baseURL = flag.String("url", "", "static host serving /data/<type>.json (overrides --data-dir)")
	var query = flag.StringP("query", "q", "", "initial selection as type=…&start=…&end=…")
	var dataType = flag.StringP("type", "t", "", "data type: temperature or precipitation")
	var start = flag.IntP("start", "s", 0, "first year")
	var end = flag.IntP("end", "e", 0, "last year")
	var width = flag.Float64("width", 960, "canvas width in logical pixels")
	var height = flag.Float64("height", 540, "canvas height in logical pixels")
	var viewport = flag.Float64("viewport", 0, "fit the canvas to a page of this viewport height (requires --header)")
	var header = flag.String("header", "", "page header size as WxH; the canvas takes its width")
	var scale = flag.Float64("scale", 2, "device pixel ratio of the PNG output")
	var fontPath = flag.String("font", "", "TrueType font for labels")
	var format = flag.StringP("format", "f", "png", "output format: png or json")
	var out = flag.StringP("out", "o", "", "output file, - for stdout (default chart.<format>)")
	var watch = flag.BoolP("watch", "w", false, "read resize (WxH) and selection (key=value) commands from stdin")
	var interval = flag.Duration("resize-interval", app.DefaultResizeInterval, "minimum time between two resize renders")
	var logLevel = flag.String("log-level", "info", "debug, info, warn or error")

	flag.Parse()

	level, err := config.ParseLogLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.New(os.Stderr, "dev", level, "climate-render")

	if *format != "png" && *format != "json" {
		flag.Usage()
		log.Error("unsupported format", "format", *format)
		os.Exit(2)
	}

	size, err := canvasSize(*width, *height, *viewport, *header, flag.CommandLine.Changed("width"), flag.CommandLine.Changed("height"))
	if err != nil {
		log.Error("invalid canvas", "err", err)
		os.Exit(2)
	}

	if *out == "" {
		*out = "chart." + *format
	}

	var source climate.Source = sources.NewFileSource(*dataDir)
	if *baseURL != "" {
		source = sources.NewHTTPSource(&http.Client{Timeout: 30 * time.Second}, *baseURL)
	}
	service := climate.NewService(store.NewMemoryStore(), source, log)

	state := session.FromQuery(*query)
	if *dataType != "" {
		state = state.WithType(climate.DataType(*dataType))
	}
	if *start != 0 {
		state = state.WithStart(*start)
	}
	if *end != 0 {
		state = state.WithEnd(*end)
	}

	ro := render.DefaultOptions()
	ro.Scale = *scale
	ro.FontPath = *fontPath

	view := &fileView{path: *out, format: *format, opts: ro, log: log}
	ctrl := app.NewController(service, view, state, size, *interval, log)
	defer ctrl.Close()

	ctx := context.Background()
	ctrl.Dispatch(ctx, nil)

	if !*watch {
		if view.failed {
			os.Exit(1)
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cmd, err := app.ParseCommand(scanner.Text())
		if err != nil {
			log.Warn("ignoring input", "err", err)
			continue
		}
		switch {
		case cmd.Resize != nil:
			ctrl.Resize(*cmd.Resize)
		case cmd.Transition != nil:
			ctrl.Dispatch(ctx, cmd.Transition)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("reading stdin", "err", err)
	}
}

// canvasSize returns the canvas for the given flags. With a viewport the
// canvas is fitted below the page header; explicit --width and --height
// still win.
func canvasSize(width, height, viewport float64, header string, widthSet, heightSet bool) (chart.CanvasSize, error) {
	size := chart.CanvasSize{Width: width, Height: height}
	if viewport <= 0 && header == "" {
		return size, nil
	}
	if viewport <= 0 || header == "" {
		return chart.CanvasSize{}, errors.New("--viewport and --header must be used together")
	}

	hdr, err := app.ParseSize(header)
	if err != nil {
		return chart.CanvasSize{}, err
	}
	fit := chart.FitViewport(viewport, hdr.Width, hdr.Height)
	if !widthSet {
		size.Width = fit.Width
	}
	if !heightSet {
		size.Height = fit.Height
	}
	if size.Width <= 0 || size.Height <= 0 {
		return chart.CanvasSize{}, fmt.Errorf("viewport %g leaves no room below a %s header", viewport, header)
	}
	return size, nil
}
