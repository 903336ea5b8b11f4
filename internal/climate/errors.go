package climate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownType is returned for data types other than temperature and precipitation.
	ErrUnknownType = errors.New("unknown data type")

	// ErrInvalidRange is returned when a ChartRange violates MinYear <= start < end <= MaxYear.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrMalformedTimestamp is returned when an observation does not start with a 4-digit year.
	ErrMalformedTimestamp = errors.New("malformed observation timestamp")
)

// MissingYearsError reports years inside a requested range that have no
// averaged value.
type MissingYearsError struct {
	Type  DataType
	Years []int
}

func (e *MissingYearsError) Error() string {
	years := make([]string, len(e.Years))
	for i, y := range e.Years {
		years[i] = strconv.Itoa(y)
	}
	if e.Type == "" {
		return fmt.Sprintf("missing years in range: %s", strings.Join(years, ", "))
	}
	return fmt.Sprintf("missing %s years in range: %s", e.Type, strings.Join(years, ", "))
}

// LoadError wraps a failure to fetch or decode the observations of a data type.
type LoadError struct {
	Type   DataType
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s from %s: %v", e.Type, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
