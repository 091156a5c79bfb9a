package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/emitter"
	"github.com/sharedcode/lrc/inmemory"
)

type fakeMeter struct {
	tables []string
}

func (f *fakeMeter) Measure(ctx context.Context, m Measurement) (string, error) {
	f.tables = append(f.tables, m.Table)
	return fmt.Sprintf("%d.0", m.BlockSize*10), nil
}

type fakePublisher struct {
	runIDs map[string]bool
	names  []string
}

func (f *fakePublisher) Publish(ctx context.Context, runID, name, contentType string, data []byte) (string, error) {
	f.runIDs[runID] = true
	f.names = append(f.names, name)
	return runID + "/" + name, nil
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	p, err := ParsePattern(strings.NewReader(pattern2))
	if err != nil {
		t.Fatal(err)
	}
	// The global_s=2 plan would need a two global scheme, drop it.
	p.Tests = p.Tests[:3]

	dir := t.TempDir()
	meter := &fakeMeter{}
	pub := &fakePublisher{runIDs: map[string]bool{}}
	h := &Harness{
		Pattern: p,
		Resolver: &Resolver{
			Repository: inmemory.NewSchemeRepository(nil),
			Searcher:   &fakeSearcher{scheme: "12s1s212eg"},
			Options:    lrc.LegacyCompilerOptions(),
		},
		Meter:     meter,
		WorkDir:   dir,
		Publisher: pub,
	}
	results, err := h.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[2].Source != FromSearch || results[2].Scheme != "12s1s212eg" {
		t.Errorf("got %+v", results[2])
	}
	if len(meter.tables) != 9 {
		t.Errorf("expected 9 measurements, got %d", len(meter.tables))
	}

	ba, err := os.ReadFile(filepath.Join(dir, ResultsFileName))
	if err != nil {
		t.Fatal(err)
	}
	want := ",4,8,16\n" +
		"raid6 8 ,40.0,80.0,160.0\n" +
		"lrc 8 11s122s2eg,40.0,80.0,160.0\n" +
		"lrc 8 12s1s212eg,40.0,80.0,160.0\n"
	if string(ba) != want {
		t.Errorf("got results %q, want %q", ba, want)
	}

	// lrc_config.c holds the last resolved scheme.
	cfg, err := os.ReadFile(filepath.Join(dir, emitter.ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(cfg), "#define SUBSTRIPES 2\n") {
		t.Errorf("unexpected config:\n%s", cfg)
	}

	if len(pub.runIDs) != 1 {
		t.Errorf("expected a single run id, got %v", pub.runIDs)
	}
	if got := strings.Join(pub.names, " "); got != "8_lrc_lrc_config.c 8_lrc_lrc_config.c results.csv" {
		t.Errorf("got published %s", got)
	}
}

func TestRunStopsOnPartitionShortage(t *testing.T) {
	p, _ := ParsePattern(strings.NewReader(pattern2))
	p.Tests = []string{"9 raid6"}
	h := &Harness{Pattern: p, Resolver: &Resolver{}, Meter: &fakeMeter{}, WorkDir: t.TempDir()}
	if _, err := h.Run(context.Background()); lrc.CodeOf(err) != lrc.HarnessFailure {
		t.Errorf("expected HarnessFailure, got %v", err)
	}
}
