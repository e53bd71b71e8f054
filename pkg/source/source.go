// Package source supplies per-floor vector documents to ingestion.
//
// A [Source] hands out one readable stream per floor number. Missing floors
// are normal: buildings are drawn incrementally, so a Source reports a missing
// floor with an error wrapping [ErrFloorMissing] and ingestion skips it.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPattern is the file name pattern of floor drawings. The single %d
// verb receives the floor number.
const DefaultPattern = "floor_%d.svg"

// ErrFloorMissing is returned (wrapped) when no document exists for a floor.
var ErrFloorMissing = errors.New("floor document missing")

// Source opens the vector document of a floor. Implementations must be safe for
// concurrent use: ingestion opens several floors at once.
type Source interface {
	// Open returns the document for floor. The caller closes the reader.
	Open(ctx context.Context, floor int) (io.ReadCloser, error)
	// Name describes the source for logs (a directory, "memory", ...).
	Name() string
}

// Dir reads floor documents from files in a directory.
type Dir struct {
	root    string
	pattern string
}

// NewDir creates a directory source. An empty pattern means DefaultPattern.
// The pattern must contain exactly one %d verb.
func NewDir(root, pattern string) (*Dir, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if strings.Count(pattern, "%d") != 1 || strings.Count(pattern, "%") != 1 {
		return nil, fmt.Errorf("pattern %q must contain exactly one %%d verb", pattern)
	}
	if strings.ContainsAny(fmt.Sprintf(pattern, 1), `/\`) {
		return nil, fmt.Errorf("pattern %q must be a file name, not a path", pattern)
	}
	return &Dir{root: root, pattern: pattern}, nil
}

// Path returns the file path used for floor.
func (d *Dir) Path(floor int) string {
	return filepath.Join(d.root, fmt.Sprintf(d.pattern, floor))
}

// Open opens the floor's file. A missing file yields ErrFloorMissing.
func (d *Dir) Open(ctx context.Context, floor int) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.Path(floor))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFloorMissing, d.Path(floor))
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Name returns the directory path.
func (d *Dir) Name() string { return d.root }

// Memory serves floor documents from memory. It is used by tests and by
// callers that already hold the drawings (embedded assets, uploads).
type Memory map[int][]byte

// Open returns a reader over the floor's bytes.
func (m Memory) Open(ctx context.Context, floor int) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := m[floor]
	if !ok {
		return nil, fmt.Errorf("%w: floor %d", ErrFloorMissing, floor)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Name returns "memory".
func (m Memory) Name() string { return "memory" }

var (
	_ Source = (*Dir)(nil)
	_ Source = Memory(nil)
)
