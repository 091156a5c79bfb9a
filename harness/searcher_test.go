package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sharedcode/lrc"
)

func TestExtractScheme(t *testing.T) {
	tests := []struct {
		out  string
		want string
	}{
		{"iteration 1\nGOOD\t11s1 22s2 eg\nGOOD\tother\n", "11s122s2eg"},
		{"a\tb\tG 1s1eg \n", "G1s1eg"},
		{"no match here\n", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := ExtractScheme(tc.out); got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.out, got, tc.want)
		}
	}
}

func newTestSearcher(t *testing.T, script string) *Searcher {
	s := NewSearcher(t.TempDir())
	s.BuildCommand = []string{"true"}
	s.SearchCommand = []string{"sh", "-c", script}
	return s
}

func TestSearcherWritesDefines(t *testing.T) {
	s := newTestSearcher(t, `printf 'start\nG\t11s1 22s2eg\n'`)
	got, err := s.Search(context.Background(), 8, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != "11s122s2eg" {
		t.Errorf("got %q", got)
	}
	ba, err := os.ReadFile(filepath.Join(s.Dir, DefinesFileName))
	if err != nil {
		t.Fatal(err)
	}
	if string(ba) != "#define disks_count 8\n#define groups_count 2\n#define group_len 2\n" {
		t.Errorf("got defines %q", ba)
	}
}

func TestSearcherInterruptsOnTimeout(t *testing.T) {
	s := newTestSearcher(t, `printf 'G\t1s1eg\n'; exec sleep 30`)
	s.Timeout = 200 * time.Millisecond
	start := time.Now()
	got, err := s.Search(context.Background(), 4, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != "1s1eg" {
		t.Errorf("got %q", got)
	}
	if time.Since(start) > 10*time.Second {
		t.Errorf("searcher was not interrupted")
	}
}

func TestSearcherFailures(t *testing.T) {
	s := newTestSearcher(t, `echo nothing`)
	if _, err := s.Search(context.Background(), 4, 1, 1); lrc.CodeOf(err) != lrc.SearchFailure {
		t.Errorf("expected SearchFailure on empty output, got %v", err)
	}
	s.BuildCommand = []string{"false"}
	if _, err := s.Search(context.Background(), 4, 1, 1); lrc.CodeOf(err) != lrc.SearchFailure {
		t.Errorf("expected SearchFailure on build error, got %v", err)
	}
}
