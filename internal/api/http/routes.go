package httpapi

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/climate-chart/internal/chart"
	"github.com/i474232898/climate-chart/internal/chart/render"
	"github.com/i474232898/climate-chart/internal/climate"
	"github.com/i474232898/climate-chart/internal/session"
)

var validate = validator.New()

// Values is the part of climate.Service the handlers need.
type Values interface {
	Values(ctx context.Context, r climate.ChartRange) ([]float64, error)
}

// Options holds request defaults.
type Options struct {
	CanvasWidth  float64
	CanvasHeight float64
	Render       render.Options
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service Values, opts Options) {
	v1 := app.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		s := stateFromRequest(c)
		resp := fiber.Map{
			"state": s,
			"query": s.Query(),
			"valid": s.Valid(),
		}
		if err := climate.ValidateRange(s.Range()); err != nil {
			resp["message"] = err.Error()
		}
		return c.JSON(resp)
	})

	v1.Get("/series", func(c *fiber.Ctx) error {
		s := stateFromRequest(c)
		values, err := service.Values(c.UserContext(), s.Range())
		if err != nil {
			return respondError(c, err)
		}

		years := make([]int, len(values))
		formatted := make([]string, len(values))
		for i, v := range values {
			years[i] = s.Start + i
			formatted[i] = climate.FormatValue(v)
		}

		return c.JSON(fiber.Map{
			"type":      s.Type,
			"start":     s.Start,
			"end":       s.End,
			"query":     s.Query(),
			"years":     years,
			"values":    values,
			"formatted": formatted,
		})
	})

	v1.Get("/chart", func(c *fiber.Ctx) error {
		plan, _, err := buildPlan(c, service, opts)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(plan)
	})

	v1.Get("/chart.png", func(c *fiber.Ctx) error {
		plan, q, err := buildPlan(c, service, opts)
		if err != nil {
			return respondError(c, err)
		}

		ro := opts.Render
		if q.Scale > 0 {
			ro.Scale = q.Scale
		}

		var buf bytes.Buffer
		if err := render.PNG(&buf, plan, ro); err != nil {
			return respondError(c, err)
		}

		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(buf.Bytes())
	})
}

func stateFromRequest(c *fiber.Ctx) session.State {
	return session.FromQuery(string(c.Request().URI().QueryString()))
}

func buildPlan(c *fiber.Ctx, service Values, opts Options) (chart.RenderPlan, canvasQuery, error) {
	var q canvasQuery
	if err := q.bind(c, opts); err != nil {
		return chart.RenderPlan{}, q, err
	}

	s := stateFromRequest(c)
	values, err := service.Values(c.UserContext(), s.Range())
	if err != nil {
		return chart.RenderPlan{}, q, err
	}

	plan, err := chart.Layout(chart.CanvasSize{Width: q.Width, Height: q.Height}, values, s.Start)
	return plan, q, err
}

// canvasQuery holds the canvas parameters of the chart endpoints. The canvas
// is either given directly (width, height) or fitted to a page viewport
// (viewportHeight, headerWidth, headerHeight); explicit dimensions win.
type canvasQuery struct {
	Width  float64 `validate:"gt=0,lte=8192"`
	Height float64 `validate:"gt=0,lte=8192"`
	Scale  float64 `validate:"gte=0,lte=4"`

	ViewportHeight float64 `validate:"gte=0,required_with=HeaderWidth"`
	HeaderWidth    float64 `validate:"gte=0,required_with=ViewportHeight"`
	HeaderHeight   float64 `validate:"gte=0"`
}

var errBadCanvas = errors.New("canvas parameters must be numbers")

func (q *canvasQuery) bind(c *fiber.Ctx, opts Options) error {
	q.Width = opts.CanvasWidth
	q.Height = opts.CanvasHeight

	params := map[string]*float64{
		"width":          &q.Width,
		"height":         &q.Height,
		"scale":          &q.Scale,
		"viewportHeight": &q.ViewportHeight,
		"headerWidth":    &q.HeaderWidth,
		"headerHeight":   &q.HeaderHeight,
	}
	for key, dst := range params {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, errBadCanvas.Error())
		}
		*dst = v
	}

	if q.ViewportHeight > 0 && q.HeaderWidth > 0 {
		fit := chart.FitViewport(q.ViewportHeight, q.HeaderWidth, q.HeaderHeight)
		if c.Query("width") == "" {
			q.Width = fit.Width
		}
		if c.Query("height") == "" {
			q.Height = fit.Height
		}
	}

	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// respondError maps domain errors onto HTTP responses. Anything unknown is
// left to the app's ErrorHandler.
func respondError(c *fiber.Ctx, err error) error {
	var (
		fe         *fiber.Error
		missingErr *climate.MissingYearsError
		loadErr    *climate.LoadError
	)

	switch {
	case errors.As(err, &fe):
		return err
	case errors.As(err, &missingErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":        true,
			"message":      missingErr.Error(),
			"missingYears": missingErr.Years,
		})
	case errors.As(err, &loadErr):
		return fiber.NewError(fiber.StatusBadGateway, "failed to load data")
	case errors.Is(err, climate.ErrInvalidRange), errors.Is(err, climate.ErrUnknownType):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, chart.ErrInvalidCanvas), errors.Is(err, chart.ErrNonFiniteValue):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, render.ErrEmptyPlan):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return err
	}
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
