// Package session holds the chart selection as an immutable value that the
// controller replaces on every user action and mirrors into the page address.
package session

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/climate-chart/internal/climate"
)

// Query parameter names.
const (
	ParamType  = "type"
	ParamStart = "start"
	ParamEnd   = "end"
)

// State is one snapshot of the selection. Transitions return a new State and
// leave the receiver untouched.
type State struct {
	Type  climate.DataType `json:"type"`
	Start int              `json:"start"`
	End   int              `json:"end"`
}

// Default is the selection shown when the address carries no parameters.
func Default() State {
	return State{
		Type:  climate.TypeTemperature,
		Start: climate.MinYear,
		End:   climate.MaxYear,
	}
}

// WithType returns a copy of s showing data type t.
func (s State) WithType(t climate.DataType) State {
	s.Type = t
	return s
}

// WithStart returns a copy of s starting at year.
func (s State) WithStart(year int) State {
	s.Start = year
	return s
}

// WithEnd returns a copy of s ending at year.
func (s State) WithEnd(year int) State {
	s.End = year
	return s
}

// Range converts the selection into a chart range.
func (s State) Range() climate.ChartRange {
	return climate.ChartRange{Type: s.Type, Start: s.Start, End: s.End}
}

// Valid reports whether the selection can be charted.
func (s State) Valid() bool {
	return climate.ValidateRange(s.Range()) == nil
}

// Query serializes s as "type=…&start=…&end=…".
func (s State) Query() string {
	var b strings.Builder
	b.WriteString(ParamType + "=" + url.QueryEscape(string(s.Type)))
	b.WriteString("&" + ParamStart + "=" + strconv.Itoa(s.Start))
	b.WriteString("&" + ParamEnd + "=" + strconv.Itoa(s.End))
	return b.String()
}

// FromQuery restores a selection from a query string or a full URL. Missing
// or unparsable values fall back to Default; the type is kept verbatim so an
// unknown type surfaces as an invalid selection rather than being replaced.
func FromQuery(raw string) State {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}

	values, _ := url.ParseQuery(raw)
	return FromValues(values)
}

// FromValues is FromQuery for already parsed parameters.
func FromValues(values url.Values) State {
	s := Default()
	if t := values.Get(ParamType); t != "" {
		s.Type = climate.DataType(t)
	}
	if start, ok := parseYear(values.Get(ParamStart)); ok {
		s.Start = start
	}
	if end, ok := parseYear(values.Get(ParamEnd)); ok {
		s.End = end
	}
	return s
}

// parseYear treats 0 like a missing value.
func parseYear(v string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
