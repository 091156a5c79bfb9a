package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sharedcode/lrc"
)

func TestRunWritesLegacyConfig(t *testing.T) {
	t.Setenv("LRC_CONFIG", "")
	out := filepath.Join(t.TempDir(), "lrc_config.c")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-legacy", "-check", "-out", out, "111s1222s2333s3eg"}, strings.NewReader(""), &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile(filepath.Join("..", "..", "emitter", "testdata", "lrc_config.c"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestRunPromptsForScheme(t *testing.T) {
	t.Setenv("LRC_CONFIG", "")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-out", "-", "-single-global"}, strings.NewReader("1s02eg\n"), &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	s := stdout.String()
	if !strings.Contains(s, "Input the scheme: ") {
		t.Error("expected prompt")
	}
	if !strings.Contains(s, "const int lrc_gs = 4;") {
		t.Errorf("expected single global artifact, got\n%s", s)
	}
}

func TestRunErrors(t *testing.T) {
	t.Setenv("LRC_CONFIG", "")
	var stdout, stderr bytes.Buffer
	ctx := context.Background()
	if err := run(ctx, []string{"-out", "-", "1s"}, nil, &stdout, &stderr); !lrc.IsInvalidScheme(err) {
		t.Errorf("expected InvalidScheme, got %v", err)
	}
	if err := run(ctx, []string{"-out", "-", "-check", "1eg"}, nil, &stdout, &stderr); !lrc.IsInvalidScheme(err) {
		t.Errorf("expected unusable layout to fail with -check, got %v", err)
	}
	if err := run(ctx, []string{"-out", "-", "-publish", "11s122s2eg"}, nil, &stdout, &stderr); !lrc.IsConfigurationConflict(err) {
		t.Errorf("expected ConfigurationConflict without s3 config, got %v", err)
	}
}
