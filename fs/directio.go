package fs

import (
	"context"
	"os"

	"github.com/ncw/directio"

	"github.com/sharedcode/lrc"
)

// DirectIO exposes unbuffered file operations using O_DIRECT semantics where supported.
// The benchmark meter uses it to time block-aligned writes and reads against a device or file.
// Buffers must come from AlignedBlock and offsets must be block aligned.
type DirectIO interface {
	Open(ctx context.Context, filename string, flag int, permission os.FileMode) (*os.File, error)
	WriteAt(ctx context.Context, file *os.File, block []byte, offset int64) (int, error)
	ReadAt(ctx context.Context, file *os.File, block []byte, offset int64) (int, error)
	Close(file *os.File) error
}

// BlockSize is the alignment required by the direct I/O implementation.
const BlockSize = directio.BlockSize

// AlignedBlock returns a buffer of size bytes aligned for direct I/O.
func AlignedBlock(size int) []byte {
	return directio.AlignedBlock(size)
}

type directIO struct{}

// NewDirectIO returns a DirectIO implementation backed by github.com/ncw/directio.
func NewDirectIO() DirectIO {
	return &directIO{}
}

// Open wraps directio.OpenFile, transient errors are retried.
func (dio directIO) Open(ctx context.Context, filename string, flag int, permission os.FileMode) (*os.File, error) {
	var f *os.File
	err := lrc.Retry(ctx, func(context.Context) error {
		var e error
		f, e = directio.OpenFile(filename, flag, permission)
		return e
	}, nil)
	return f, err
}

func (dio directIO) WriteAt(ctx context.Context, file *os.File, block []byte, offset int64) (int, error) {
	var i int
	err := lrc.Retry(ctx, func(context.Context) error {
		var e error
		i, e = file.WriteAt(block, offset)
		return e
	}, nil)
	return i, err
}

func (dio directIO) ReadAt(ctx context.Context, file *os.File, block []byte, offset int64) (int, error) {
	var i int
	err := lrc.Retry(ctx, func(context.Context) error {
		var e error
		i, e = file.ReadAt(block, offset)
		return e
	}, nil)
	return i, err
}

func (dio directIO) Close(file *os.File) error {
	return file.Close()
}
