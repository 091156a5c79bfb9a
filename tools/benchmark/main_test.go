package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sharedcode/lrc"
)

func TestRunWithScriptMeter(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"run_up":  "true",
		"results": "echo 42",
		"clean":   "true",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	pattern := filepath.Join(dir, "pattern2")
	content := "[devices]\n/dev/sdb /dev/sdc /dev/sdd /dev/sde\n[volume]\n1M\n[block_sizes]\n4 8\n[tests]\n4 raid6\n4 lrc scheme=1s02e3g\n"
	if err := os.WriteFile(pattern, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	config := filepath.Join(dir, "lrc.json")
	if err := os.WriteFile(config, []byte(`{"repository":{"type":"memory"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	err := run(context.Background(), runOptions{
		configFile: config,
		pattern:    pattern,
		workDir:    dir,
		meter:      "script",
		scriptsDir: dir,
	})
	if err != nil {
		t.Fatal(err)
	}
	ba, err := os.ReadFile(filepath.Join(dir, "results.csv"))
	if err != nil {
		t.Fatal(err)
	}
	want := ",4,8\nraid6 4 ,42,42\nlrc 4 1s02e3g,42,42\n"
	if string(ba) != want {
		t.Errorf("got %q, want %q", ba, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "lrc_config.c")); err != nil {
		t.Error("expected lrc_config.c")
	}
}

func TestRunRejectsUnknownMeter(t *testing.T) {
	dir := t.TempDir()
	pattern := filepath.Join(dir, "pattern2")
	os.WriteFile(pattern, []byte("[devices]\n/dev/sdb\n[volume]\n1M\n[block_sizes]\n4\n"), 0o644)
	t.Setenv("LRC_CONFIG", "")
	err := run(context.Background(), runOptions{pattern: pattern, meter: "stopwatch"})
	if !lrc.IsConfigurationConflict(err) {
		t.Errorf("expected ConfigurationConflict, got %v", err)
	}
}
