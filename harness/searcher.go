package harness

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/fs"
)

// DefinesFileName is the header the searcher sources include for their search parameters.
const DefinesFileName = "defines.c"

// DefaultSearchTimeout bounds the search binary run, it is interrupted afterwards and
// reports the best scheme found so far.
const DefaultSearchTimeout = 20 * time.Second

// SchemeSearcher finds a scheme for a configuration that the repository doesn't know yet.
type SchemeSearcher interface {
	Search(ctx context.Context, disks, groups, length int) (string, error)
}

// Searcher builds and runs the brute-force stripe searcher found in Dir.
type Searcher struct {
	Dir     string
	Timeout time.Duration
	// BuildCommand defaults to `make all`.
	BuildCommand []string
	// SearchCommand defaults to `./main 1 1`.
	SearchCommand []string
	fileIO        fs.FileIO
}

// NewSearcher returns a Searcher with the default commands and timeout.
func NewSearcher(dir string) *Searcher {
	return &Searcher{
		Dir:           dir,
		Timeout:       DefaultSearchTimeout,
		BuildCommand:  []string{"make", "all"},
		SearchCommand: []string{"./main", "1", "1"},
		fileIO:        fs.NewFileIO(),
	}
}

// Defines returns the defines.c content for a search.
func Defines(disks, groups, length int) string {
	return fmt.Sprintf("#define disks_count %d\n#define groups_count %d\n#define group_len %d\n", disks, groups, length)
}

// Search writes defines.c, rebuilds the searcher and returns the scheme it reports.
func (s *Searcher) Search(ctx context.Context, disks, groups, length int) (string, error) {
	if s.fileIO == nil {
		s.fileIO = fs.NewFileIO()
	}
	if err := s.fileIO.WriteFile(ctx, filepath.Join(s.Dir, DefinesFileName), []byte(Defines(disks, groups, length)), 0o644); err != nil {
		return "", lrc.NewError(lrc.SearchFailure, err, s.Dir)
	}

	build := exec.CommandContext(ctx, s.BuildCommand[0], s.BuildCommand[1:]...)
	build.Dir = s.Dir
	if out, err := build.CombinedOutput(); err != nil {
		return "", lrc.NewError(lrc.SearchFailure, fmt.Errorf("%s failed, details: %w", strings.Join(s.BuildCommand, " "), err), string(out))
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultSearchTimeout
	}
	out, err := s.runInterruptible(ctx, timeout)
	if err != nil {
		return "", err
	}
	scheme := ExtractScheme(out)
	if scheme == "" {
		return "", lrc.Errorf(lrc.SearchFailure, "searcher printed no scheme line for disks=%d groups=%d length=%d", disks, groups, length)
	}
	log.Info("searcher found scheme", "disks", disks, "groups", groups, "length", length, "scheme", scheme)
	return scheme, nil
}

// runInterruptible runs the search command and sends it SIGINT once timeout expires.
func (s *Searcher) runInterruptible(ctx context.Context, timeout time.Duration) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(tctx, s.SearchCommand[0], s.SearchCommand[1:]...)
	cmd.Dir = s.Dir
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	// Escalate to SIGKILL if the searcher ignores the interrupt.
	cmd.WaitDelay = 5 * time.Second
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", lrc.NewError(lrc.SearchFailure, err, nil)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", lrc.NewError(lrc.SearchFailure, err, nil)
	}
	if err := cmd.Start(); err != nil {
		return "", lrc.NewError(lrc.SearchFailure, err, strings.Join(s.SearchCommand, " "))
	}

	// Both pipes have to be drained before Wait.
	var buf, errBuf bytes.Buffer
	eg := errgroup.Group{}
	eg.Go(func() error {
		_, err := io.Copy(&buf, stdout)
		return err
	})
	eg.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	copyErr := eg.Wait()
	waitErr := cmd.Wait()
	if errBuf.Len() > 0 {
		log.Debug("searcher stderr", "output", errBuf.String())
	}

	// Interrupted by our own timeout is the normal way the search ends.
	if waitErr != nil && ctx.Err() == nil && tctx.Err() == nil {
		var ee *exec.ExitError
		if !errors.As(waitErr, &ee) {
			return "", lrc.NewError(lrc.SearchFailure, waitErr, nil)
		}
		log.Warn("searcher exited with error", "error", waitErr)
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if copyErr != nil && !errors.Is(copyErr, os.ErrClosed) {
		return "", lrc.NewError(lrc.SearchFailure, copyErr, nil)
	}
	return buf.String(), nil
}

// ExtractScheme returns the scheme from the searcher output: on the first line containing
// 'G', the text after the last tab with all whitespace removed.
func ExtractScheme(output string) string {
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, "G") {
			continue
		}
		if i := strings.LastIndexByte(line, '\t'); i >= 0 {
			line = line[i+1:]
		}
		return strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, line)
	}
	return ""
}
