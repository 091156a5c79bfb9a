package harness

import (
	"bytes"
	"context"
	"fmt"
	log "log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/fs"
)

// TableFileName is the device-mapper table read by run_up.
const TableFileName = "TABLE"

// Measurement is one benchmark point: a plan at one block size.
type Measurement struct {
	Plan      Plan
	BlockSize int
	Table     string
}

// Meter measures the throughput of one benchmark point and returns it as text for results.csv.
type Meter interface {
	Measure(ctx context.Context, m Measurement) (string, error)
}

// ScriptMeter writes TABLE into Dir and runs the run_up, results and clean scripts found there.
// The stdout of results is the measured speed.
type ScriptMeter struct {
	Dir    string
	fileIO fs.FileIO
}

// NewScriptMeter returns a ScriptMeter over the scripts in dir.
func NewScriptMeter(dir string) *ScriptMeter {
	return &ScriptMeter{
		Dir:    dir,
		fileIO: fs.NewFileIO(),
	}
}

func (s *ScriptMeter) run(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "./"+script)
	cmd.Dir = s.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", lrc.NewError(lrc.HarnessFailure, fmt.Errorf("%s failed, details: %w", script, err), stderr.String())
	}
	return stdout.String(), nil
}

func (s *ScriptMeter) Measure(ctx context.Context, m Measurement) (string, error) {
	if err := s.fileIO.WriteFile(ctx, filepath.Join(s.Dir, TableFileName), []byte(m.Table), 0o644); err != nil {
		return "", lrc.NewError(lrc.HarnessFailure, err, s.Dir)
	}
	if _, err := s.run(ctx, "run_up"); err != nil {
		return "", err
	}
	out, err := s.run(ctx, "results")
	// clean always runs so that the next point starts from torn down devices.
	if _, cerr := s.run(ctx, "clean"); cerr != nil {
		log.Warn("clean failed", "error", cerr)
		if err == nil {
			err = cerr
		}
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DirectIOMeter times O_DIRECT writes then reads of TotalBytes against Path, using
// the measurement's block size in KiB as the I/O size.
type DirectIOMeter struct {
	Path       string
	TotalBytes int64
	directIO   fs.DirectIO
}

// NewDirectIOMeter returns a meter writing totalBytes to path, a file or a block device.
func NewDirectIOMeter(path string, totalBytes int64) *DirectIOMeter {
	return &DirectIOMeter{
		Path:       path,
		TotalBytes: totalBytes,
		directIO:   fs.NewDirectIO(),
	}
}

// ioSize rounds blockSizeKiB up to the direct I/O alignment.
func ioSize(blockSizeKiB int) int {
	n := blockSizeKiB * 1024
	if r := n % fs.BlockSize; r != 0 || n == 0 {
		n += fs.BlockSize - r
	}
	return n
}

func (d *DirectIOMeter) Measure(ctx context.Context, m Measurement) (string, error) {
	size := ioSize(m.BlockSize)
	count := d.TotalBytes / int64(size)
	if count == 0 {
		count = 1
	}
	f, err := d.directIO.Open(ctx, d.Path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return "", lrc.NewError(lrc.HarnessFailure, err, d.Path)
	}
	defer d.directIO.Close(f)

	block := fs.AlignedBlock(size)
	for i := range block {
		block[i] = byte(i)
	}
	start := time.Now()
	for i := int64(0); i < count; i++ {
		if _, err := d.directIO.WriteAt(ctx, f, block, i*int64(size)); err != nil {
			return "", lrc.NewError(lrc.HarnessFailure, err, d.Path)
		}
	}
	for i := int64(0); i < count; i++ {
		if _, err := d.directIO.ReadAt(ctx, f, block, i*int64(size)); err != nil {
			return "", lrc.NewError(lrc.HarnessFailure, err, d.Path)
		}
	}
	elapsed := time.Since(start)
	return formatSpeed(2*count*int64(size), elapsed), nil
}

// formatSpeed renders n bytes over elapsed as MB/s with two decimals.
func formatSpeed(n int64, elapsed time.Duration) string {
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	return fmt.Sprintf("%.2f", float64(n)/(1024*1024)/elapsed.Seconds())
}
