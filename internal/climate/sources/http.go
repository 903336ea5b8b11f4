package sources

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/climate-chart/internal/climate"
)

// HTTPSource fetches observation arrays from a static host serving
// <baseURL>/data/<type>.json.
type HTTPSource struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewHTTPSource(client *http.Client, baseURL string) *HTTPSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "observations",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &HTTPSource{
		name:    "http:" + baseURL,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

// WithBackoff overrides the retry policy.
func (s *HTTPSource) WithBackoff(b BackoffConfig) *HTTPSource {
	s.httpCfg.Backoff = b
	return s
}

func (s *HTTPSource) Name() string {
	return s.name
}

func (s *HTTPSource) Load(ctx context.Context, t climate.DataType) ([]climate.Observation, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u := s.baseURL + "/data/" + url.PathEscape(string(t)) + ".json"
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, s.httpCfg, s.circuit, buildRequest)
	if err != nil {
		return nil, &climate.LoadError{Type: t, Source: s.name, Err: err}
	}
	defer resp.Body.Close()

	observations, err := decodeObservations(resp.Body)
	if err != nil {
		return nil, &climate.LoadError{Type: t, Source: s.name, Err: err}
	}
	return observations, nil
}
