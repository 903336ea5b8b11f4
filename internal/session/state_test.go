package session

import (
	"testing"

	"github.com/i474232898/climate-chart/internal/climate"
)

func TestFromQuery_Defaults(t *testing.T) {
	for _, raw := range []string{"", "?", "http://localhost/", "start=abc&end=", "start=0"} {
		if got := FromQuery(raw); got != Default() {
			t.Errorf("FromQuery(%q) = %+v; want defaults", raw, got)
		}
	}
}

func TestFromQuery_Values(t *testing.T) {
	got := FromQuery("http://localhost:8080/?type=precipitation&start=1900&end=1950#chart")
	want := State{Type: climate.TypePrecipitation, Start: 1900, End: 1950}
	if got != want {
		t.Fatalf("got %+v; want %+v", got, want)
	}
}

func TestQuery_RoundTrip(t *testing.T) {
	s := State{Type: climate.TypeTemperature, Start: 1881, End: 2006}
	if q := s.Query(); q != "type=temperature&start=1881&end=2006" {
		t.Fatalf("unexpected query %q", q)
	}
	if got := FromQuery(s.Query()); got != s {
		t.Fatalf("round trip: got %+v; want %+v", got, s)
	}

	odd := State{Type: "a&b", Start: 1900, End: 1901}
	if got := FromQuery(odd.Query()); got != odd {
		t.Fatalf("escaped round trip: got %+v; want %+v", got, odd)
	}
}

func TestTransitions_DoNotMutate(t *testing.T) {
	base := Default()

	next := base.WithType(climate.TypePrecipitation).WithStart(1950).WithEnd(1960)
	if base != Default() {
		t.Fatalf("transition mutated the receiver: %+v", base)
	}
	if next.Type != climate.TypePrecipitation || next.Start != 1950 || next.End != 1960 {
		t.Fatalf("unexpected state %+v", next)
	}
}

func TestValid(t *testing.T) {
	if !Default().Valid() {
		t.Fatal("default selection must be valid")
	}
	if Default().WithStart(2006).Valid() {
		t.Fatal("start == end must be invalid")
	}
	if Default().WithType("wind").Valid() {
		t.Fatal("unknown type must be invalid")
	}
}
