package fs

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sharedcode/lrc"
)

// SchemeRepository stores scheme records in a headerless CSV file, one
// `groups,length,disks,global_s,scheme` row per record, appended in discovery order.
type SchemeRepository struct {
	filename string
	matcher  lrc.Matcher
}

// NewSchemeRepository returns a repository over filename. A nil matcher means plain field
// equality. The file is created lazily by the first Add.
func NewSchemeRepository(filename string, matcher lrc.Matcher) *SchemeRepository {
	if matcher == nil {
		matcher = lrc.NewFieldMatcher()
	}
	return &SchemeRepository{
		filename: filename,
		matcher:  matcher,
	}
}

// Lookup scans the file top to bottom and returns the first record matching q.
// A missing file is an empty repository.
func (sr *SchemeRepository) Lookup(ctx context.Context, q lrc.Query) (lrc.Record, bool, error) {
	records, err := sr.GetAll(ctx)
	if err != nil {
		return lrc.Record{}, false, err
	}
	return lrc.FirstMatch(records, q, sr.matcher)
}

// GetAll reads every record in file order.
func (sr *SchemeRepository) GetAll(ctx context.Context) ([]lrc.Record, error) {
	var records []lrc.Record
	err := lrc.Retry(ctx, func(context.Context) error {
		f, err := os.Open(sr.filename)
		if err != nil {
			if os.IsNotExist(err) {
				records = nil
				return nil
			}
			return err
		}
		defer f.Close()
		if err := lock(f, syscall.LOCK_SH); err != nil {
			return err
		}
		defer unlock(f)

		records, err = readRecords(f)
		return err
	}, nil)
	if err != nil {
		return nil, lrc.NewError(lrc.RepositoryFailure, fmt.Errorf("reading %s failed, details: %w", sr.filename, err), sr.filename)
	}
	return records, nil
}

// Add appends r as a new row under an exclusive lock.
func (sr *SchemeRepository) Add(ctx context.Context, r lrc.Record) error {
	if dir := filepath.Dir(sr.filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return lrc.NewError(lrc.RepositoryFailure, err, sr.filename)
		}
	}
	err := lrc.Retry(ctx, func(context.Context) error {
		f, err := os.OpenFile(sr.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, permission)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := lock(f, syscall.LOCK_EX); err != nil {
			return err
		}
		defer unlock(f)

		w := csv.NewWriter(f)
		if err := w.Write(r.Fields()); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	}, nil)
	if err != nil {
		return lrc.NewError(lrc.RepositoryFailure, fmt.Errorf("appending to %s failed, details: %w", sr.filename, err), r)
	}
	log.Debug("scheme record added", "file", sr.filename, "scheme", r.Scheme)
	return nil
}

// Close is a no-op, the file is opened per call.
func (sr *SchemeRepository) Close() error {
	return nil
}

func readRecords(r io.Reader) ([]lrc.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	var records []lrc.Record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		records = append(records, lrc.RecordFromFields(fields))
	}
	return records, nil
}

func lock(f *os.File, how int) error {
	for {
		err := syscall.Flock(int(f.Fd()), how)
		if !errors.Is(err, syscall.EINTR) {
			return err
		}
	}
}

func unlock(f *os.File) {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		log.Warn("unlocking scheme file failed", "file", f.Name(), "error", err)
	}
}
