package store

import (
	"errors"
	"sync"

	"github.com/i474232898/climate-chart/internal/climate"
)

var (
	// ErrNotFound is returned when no series has been cached for a data type.
	ErrNotFound = errors.New("no series for data type")
)

// MemoryStore is a concurrency-safe in-memory cache of yearly series.
// Entries live for the lifetime of the process.
type MemoryStore struct {
	mu sync.RWMutex

	// key: data type, value: yearly averages
	data map[climate.DataType]climate.YearSeries
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[climate.DataType]climate.YearSeries),
	}
}

// Save stores a copy of series for t, replacing any previous entry.
func (s *MemoryStore) Save(t climate.DataType, series climate.YearSeries) {
	cp := series.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[t] = cp
}

// Get returns a copy of the cached series for t.
func (s *MemoryStore) Get(t climate.DataType) (climate.YearSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.data[t]
	if !ok {
		return nil, ErrNotFound
	}
	return series.Clone(), nil
}
