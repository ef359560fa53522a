package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// File reads captions from the local filesystem.
type File struct {
	Path  string
	Shape Shape
}

// Location implements Source.
func (f *File) Location() string { return f.Path }

// Fetch implements Source. A missing file yields ErrNoCaptions.
func (f *File) Fetch(ctx context.Context) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Batch{}, fmt.Errorf("%w: %s", ErrNoCaptions, f.Path)
		}
		return Batch{}, fmt.Errorf("read captions: %w", err)
	}
	return Decode(data, f.Shape)
}
