package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/i474232898/climate-chart/internal/chart"
	"github.com/i474232898/climate-chart/internal/climate"
	"github.com/i474232898/climate-chart/internal/session"
	"github.com/i474232898/climate-chart/internal/throttle"
)

// Messages shown in the error state.
const (
	MsgInvalidRange = "invalid time range"
	MsgLoadFailed   = "failed to load data"
)

// DefaultResizeInterval is the minimum time between two resize renders.
const DefaultResizeInterval = 150 * time.Millisecond

// Values is the part of climate.Service the controller needs.
type Values interface {
	Values(ctx context.Context, r climate.ChartRange) ([]float64, error)
}

// View receives the outcome of every render.
type View interface {
	ShowChart(s session.State, plan chart.RenderPlan)
	ShowError(s session.State, message string)
	SetLocation(query string)
}

// Transition derives the next selection from the current one.
type Transition func(session.State) session.State

// Controller owns the current selection and canvas size and re-renders the
// view whenever either changes.
type Controller struct {
	values Values
	view   View
	logger *slog.Logger

	mu    sync.Mutex
	state session.State
	size  chart.CanvasSize

	renderMu sync.Mutex
	resize   *throttle.Throttle[chart.CanvasSize]
}

// NewController creates a Controller showing initial on a canvas of size.
// Nothing is rendered until Dispatch or Resize is called.
func NewController(values Values, view View, initial session.State, size chart.CanvasSize, resizeInterval time.Duration, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if resizeInterval <= 0 {
		resizeInterval = DefaultResizeInterval
	}

	c := &Controller{
		values: values,
		view:   view,
		logger: logger,
		state:  initial,
		size:   size,
	}
	c.resize = throttle.New(resizeInterval, func(size chart.CanvasSize) {
		c.mu.Lock()
		c.size = size
		c.mu.Unlock()

		c.render(context.Background())
	})
	return c
}

// State returns the current selection.
func (c *Controller) State() session.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Size returns the current canvas size.
func (c *Controller) Size() chart.CanvasSize {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Dispatch applies t to the current selection and renders the result.
// A nil transition re-renders the current selection.
func (c *Controller) Dispatch(ctx context.Context, t Transition) session.State {
	c.mu.Lock()
	if t != nil {
		c.state = t(c.state)
	}
	s := c.state
	c.mu.Unlock()

	c.render(ctx)
	return s
}

// Resize records a new canvas size. Bursts of resizes are coalesced.
func (c *Controller) Resize(size chart.CanvasSize) {
	c.resize.Call(size)
}

// Close renders a pending resize, waits for it and stops further resizes.
func (c *Controller) Close() {
	c.resize.Flush()
	c.resize.Stop()
}

func (c *Controller) render(ctx context.Context) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.mu.Lock()
	s, size := c.state, c.size
	c.mu.Unlock()

	defer c.view.SetLocation(s.Query())

	if !s.Valid() {
		c.view.ShowError(s, MsgInvalidRange)
		return
	}

	values, err := c.values.Values(ctx, s.Range())
	if err != nil {
		c.logger.Warn("chart data unavailable", "query", s.Query(), "err", err)
		c.view.ShowError(s, errorMessage(err))
		return
	}

	plan, err := chart.Layout(size, values, s.Start)
	if err != nil {
		c.logger.Warn("chart layout failed", "query", s.Query(), "size", size, "err", err)
		c.view.ShowError(s, err.Error())
		return
	}

	c.view.ShowChart(s, plan)
}

func errorMessage(err error) string {
	var (
		loadErr    *climate.LoadError
		missingErr *climate.MissingYearsError
	)
	switch {
	case errors.As(err, &loadErr):
		return MsgLoadFailed
	case errors.As(err, &missingErr):
		return missingErr.Error()
	case errors.Is(err, climate.ErrInvalidRange), errors.Is(err, climate.ErrUnknownType):
		return MsgInvalidRange
	default:
		return err.Error()
	}
}
