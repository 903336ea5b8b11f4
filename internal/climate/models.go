package climate

import (
	"fmt"
	"sort"
	"strconv"
)

// DataType identifies one of the observation arrays served to the chart.
type DataType string

const (
	TypeTemperature   DataType = "temperature"
	TypePrecipitation DataType = "precipitation"
)

// DataTypes lists every supported data type in display order.
var DataTypes = []DataType{TypeTemperature, TypePrecipitation}

// ParseDataType maps a raw query value onto a known DataType.
func ParseDataType(s string) (DataType, error) {
	switch DataType(s) {
	case TypeTemperature, TypePrecipitation:
		return DataType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Observation is a single dated measurement as it appears in the source JSON.
// T starts with a "YYYY-MM-DD" date.
type Observation struct {
	T string  `json:"t"`
	V float64 `json:"v"`
}

// YearSeries maps a calendar year to the averaged value of that year.
// Keys need not be contiguous.
type YearSeries map[int]float64

// Years returns the years present in the series in ascending order.
func (s YearSeries) Years() []int {
	years := make([]int, 0, len(s))
	for y := range s {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Clone returns an independent copy of the series.
func (s YearSeries) Clone() YearSeries {
	out := make(YearSeries, len(s))
	for y, v := range s {
		out[y] = v
	}
	return out
}

// Slice returns the values for every year in [start, end] in order.
// If any year is absent the result is nil and the error is a *MissingYearsError
// naming all of them; the series is never shifted or shortened.
func (s YearSeries) Slice(start, end int) ([]float64, error) {
	if start > end {
		return nil, fmt.Errorf("%w: start %d is after end %d", ErrInvalidRange, start, end)
	}

	values := make([]float64, 0, end-start+1)
	var missing []int
	for year := start; year <= end; year++ {
		v, ok := s[year]
		if !ok {
			missing = append(missing, year)
			continue
		}
		values = append(values, v)
	}

	if len(missing) > 0 {
		return nil, &MissingYearsError{Years: missing}
	}
	return values, nil
}

// FormatValue renders a value with the one-decimal precision shown in chart
// callouts and API responses, rounding halves away from zero like Aggregate.
func FormatValue(v float64) string {
	return strconv.FormatFloat(roundTenth(v), 'f', 1, 64)
}
