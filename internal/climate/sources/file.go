package sources

import (
	"context"
	"os"
	"path/filepath"

	"github.com/i474232898/climate-chart/internal/climate"
)

// FileSource reads observation arrays from <dir>/<type>.json.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Name() string {
	return "file:" + s.dir
}

func (s *FileSource) Load(ctx context.Context, t climate.DataType) ([]climate.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, string(t)+".json"))
	if err != nil {
		return nil, &climate.LoadError{Type: t, Source: s.Name(), Err: err}
	}
	defer f.Close()

	observations, err := decodeObservations(f)
	if err != nil {
		return nil, &climate.LoadError{Type: t, Source: s.Name(), Err: err}
	}
	return observations, nil
}
