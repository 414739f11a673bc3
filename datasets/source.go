package datasets

import (
	"context"
	"fmt"
	"io/fs"
)

// Source loads a category dataset by locator. Implementations fetch fresh on every call.
type Source interface {
	Load(ctx context.Context, locator string) (Dataset, error)
}

// StatusError reports a non-success fetch outcome
type StatusError struct {
	Locator    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Locator, e.StatusCode)
}

// FSSource reads datasets from a filesystem, typically os.DirFS of the data folder.
type FSSource struct {
	fsys fs.FS
}

var _ Source = (*FSSource)(nil)

func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

func (s *FSSource) Load(ctx context.Context, locator string) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(locator) {
		return nil, fmt.Errorf("invalid dataset locator %q", locator)
	}

	f, err := s.fsys.Open(locator)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", locator, err)
	}
	defer f.Close()

	dataset, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", locator, err)
	}
	return dataset, nil
}
