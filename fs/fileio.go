// Package fs holds the file system backed pieces: the schemes.csv repository, the retrying
// file helpers used to stage harness sources, and direct I/O access to benchmark devices.
package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sharedcode/lrc"
)

const permission os.FileMode = 0o644

// FileIO defines the file operations used by this package and the benchmark harness.
// The default implementation delegates to the os package with retry on transient errors.
type FileIO interface {
	WriteFile(ctx context.Context, name string, data []byte, perm os.FileMode) error
	ReadFile(ctx context.Context, name string) ([]byte, error)
	Remove(ctx context.Context, name string) error
	Exists(ctx context.Context, path string) bool
	MkdirAll(ctx context.Context, path string, perm os.FileMode) error
}

type defaultFileIO struct{}

// NewFileIO returns a FileIO that performs I/O via the os package.
func NewFileIO() FileIO {
	return &defaultFileIO{}
}

func (dio defaultFileIO) WriteFile(ctx context.Context, name string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := dio.MkdirAll(ctx, dir, 0o755); err != nil {
			return err
		}
	}
	return lrc.Retry(ctx, func(context.Context) error {
		return os.WriteFile(name, data, perm)
	}, nil)
}

func (dio defaultFileIO) ReadFile(ctx context.Context, name string) ([]byte, error) {
	var ba []byte
	err := lrc.Retry(ctx, func(context.Context) error {
		var err error
		ba, err = os.ReadFile(name)
		return err
	}, nil)
	return ba, err
}

func (dio defaultFileIO) Remove(ctx context.Context, name string) error {
	return lrc.Retry(ctx, func(context.Context) error {
		err := os.Remove(name)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}, nil)
}

func (dio defaultFileIO) MkdirAll(ctx context.Context, path string, perm os.FileMode) error {
	return lrc.Retry(ctx, func(context.Context) error {
		return os.MkdirAll(path, perm)
	}, nil)
}

func (dio defaultFileIO) Exists(ctx context.Context, path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
