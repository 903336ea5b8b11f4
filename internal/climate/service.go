package climate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultLoadTimeout bounds one shared load of an observation array.
const DefaultLoadTimeout = time.Minute

// Service loads observation arrays once per data type, caches their yearly
// averages and slices them to chart ranges.
type Service struct {
	store  Store
	source Source
	logger *slog.Logger

	loadTimeout time.Duration
	loads       singleflight.Group
}

// NewService creates a new Service. A nil logger falls back to slog.Default.
func NewService(store Store, source Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:       store,
		source:      source,
		logger:      logger,
		loadTimeout: DefaultLoadTimeout,
	}
}

// WithLoadTimeout overrides the bound on a single load.
func (s *Service) WithLoadTimeout(d time.Duration) *Service {
	if d > 0 {
		s.loadTimeout = d
	}
	return s
}

// Series returns the yearly averages for t, loading and aggregating the
// observations on first use. Concurrent callers for the same type share one
// load. A failed load is not cached.
func (s *Service) Series(ctx context.Context, t DataType) (YearSeries, error) {
	if _, err := ParseDataType(string(t)); err != nil {
		return nil, err
	}

	if series, err := s.store.Get(t); err == nil {
		return series, nil
	}

	// The load outlives a cancelled caller so that others sharing it still
	// get the result; each caller stops waiting on its own context.
	ch := s.loads.DoChan(string(t), func() (interface{}, error) {
		// Another caller may have finished the load while we waited.
		if series, err := s.store.Get(t); err == nil {
			return series, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		return s.load(loadCtx, t)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		series := res.Val.(YearSeries)
		if res.Shared {
			series = series.Clone()
		}
		return series, nil
	}
}

func (s *Service) load(ctx context.Context, t DataType) (YearSeries, error) {
	s.logger.Debug("loading observations", "type", t, "source", s.source.Name())

	observations, err := s.source.Load(ctx, t)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, err
		}
		return nil, &LoadError{Type: t, Source: s.source.Name(), Err: err}
	}

	series, err := Aggregate(observations)
	if err != nil {
		return nil, &LoadError{Type: t, Source: s.source.Name(), Err: err}
	}

	s.store.Save(t, series)
	s.logger.Info("observations aggregated",
		"type", t,
		"observations", len(observations),
		"years", len(series),
	)
	return series, nil
}

// Values returns the averaged values of every year in r, in order.
func (s *Service) Values(ctx context.Context, r ChartRange) ([]float64, error) {
	if err := ValidateRange(r); err != nil {
		return nil, err
	}

	series, err := s.Series(ctx, r.Type)
	if err != nil {
		return nil, err
	}

	values, err := series.Slice(r.Start, r.End)
	if err != nil {
		var missing *MissingYearsError
		if errors.As(err, &missing) {
			missing.Type = r.Type
		}
		return nil, err
	}
	return values, nil
}

// Warm makes sure the series of t is cached.
func (s *Service) Warm(ctx context.Context, t DataType) error {
	_, err := s.Series(ctx, t)
	return err
}

// Loaded reports whether the series of t is already cached.
func (s *Service) Loaded(t DataType) bool {
	_, err := s.store.Get(t)
	return err == nil
}
