package climate

import (
	"fmt"
	"math"
	"sort"
)

// Aggregate groups observations by the year prefix of their timestamp and
// averages each group. Averages are rounded to one decimal place, halves away
// from zero (2.25 -> 2.3, -2.25 -> -2.3).
//
// The values of a year are summed in ascending order so that any permutation
// of the same input produces a bit-identical series. An empty input yields an
// empty, non-nil series.
func Aggregate(observations []Observation) (YearSeries, error) {
	grouped := make(map[int][]float64)

	for i, o := range observations {
		year, err := yearOf(o.T)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		grouped[year] = append(grouped[year], o.V)
	}

	series := make(YearSeries, len(grouped))
	for year, values := range grouped {
		series[year] = roundTenth(mean(values))
	}
	return series, nil
}

func yearOf(ts string) (int, error) {
	if len(ts) < 4 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	year := 0
	for _, c := range ts[:4] {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
		}
		year = year*10 + int(c-'0')
	}
	return year, nil
}

// mean sorts values in place before summing. When the plain sum overflows the
// values are scaled down first.
func mean(values []float64) float64 {
	sort.Float64s(values)

	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	if !math.IsInf(sum, 0) {
		return sum / n
	}

	sum = 0
	for _, v := range values {
		sum += v / n
	}
	return sum
}

// Above this magnitude a float64 has no fractional digits left to round.
const noFraction = 1 << 52

// roundTenth rounds halves away from zero and never returns negative zero.
// The result of a finite input is always finite.
func roundTenth(v float64) float64 {
	if math.Abs(v) >= noFraction || math.IsNaN(v) {
		return v
	}
	r := math.Round(v*10) / 10
	if r == 0 {
		return 0
	}
	return r
}
