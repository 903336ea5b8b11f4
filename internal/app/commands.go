package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/i474232898/climate-chart/internal/chart"
	"github.com/i474232898/climate-chart/internal/climate"
	"github.com/i474232898/climate-chart/internal/session"
)

// ErrUnknownCommand is returned by ParseCommand for unrecognized input.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one line of interactive input: either a canvas resize
// ("1024x600") or a selection change ("type=precipitation", "start=1900",
// "end=1950").
type Command struct {
	Resize     *chart.CanvasSize
	Transition Transition
}

// ParseCommand parses a single input line. Blank lines yield a zero Command.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, nil
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return parseResize(line)
	}
	value = strings.TrimSpace(value)

	switch strings.TrimSpace(key) {
	case session.ParamType:
		t := climate.DataType(value)
		return Command{Transition: func(s session.State) session.State { return s.WithType(t) }}, nil
	case session.ParamStart, session.ParamEnd:
		year, err := strconv.Atoi(value)
		if err != nil {
			return Command{}, fmt.Errorf("invalid year %q: %w", value, err)
		}
		if strings.TrimSpace(key) == session.ParamStart {
			return Command{Transition: func(s session.State) session.State { return s.WithStart(year) }}, nil
		}
		return Command{Transition: func(s session.State) session.State { return s.WithEnd(year) }}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}
}

func parseResize(line string) (Command, error) {
	size, err := ParseSize(line)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}
	return Command{Resize: &size}, nil
}

// ParseSize parses "WIDTHxHEIGHT" in logical pixels.
func ParseSize(s string) (chart.CanvasSize, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(s), "x")
	if !ok {
		return chart.CanvasSize{}, fmt.Errorf("size %q: expected WIDTHxHEIGHT", s)
	}
	width, errW := strconv.ParseFloat(strings.TrimSpace(w), 64)
	height, errH := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err := errors.Join(errW, errH); err != nil {
		return chart.CanvasSize{}, fmt.Errorf("size %q: %w", s, err)
	}
	return chart.CanvasSize{Width: width, Height: height}, nil
}
