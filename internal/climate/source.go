package climate

import "context"

// Source abstracts where the raw observation arrays come from
// (a data directory, a static HTTP host).
type Source interface {
	Name() string
	Load(ctx context.Context, t DataType) ([]Observation, error)
}

// Store is the contract the in-memory series cache must satisfy.
type Store interface {
	Save(t DataType, series YearSeries)
	Get(t DataType) (YearSeries, error)
}
