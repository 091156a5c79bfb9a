package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func freeAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().String()
}

func TestRunServesUntilCanceled(t *testing.T) {
	t.Setenv("LRC_ENV", "DEV")
	dir := t.TempDir()
	config := filepath.Join(dir, "lrc.json")
	os.WriteFile(config, []byte(`{"repository":{"type":"memory"}}`), 0o644)
	addr := freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, config, addr)
	}()

	url := fmt.Sprintf("http://%s/api/v1/schemes/compile", addr)
	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Post(url, "application/json", strings.NewReader(`{"scheme":"1s02eg"}`))
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("got %d: %s", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	config := filepath.Join(t.TempDir(), "lrc.json")
	os.WriteFile(config, []byte(`{"repository":{"type":"sqlite"}}`), 0o644)
	if err := run(context.Background(), config, "127.0.0.1:0"); err == nil {
		t.Error("expected configuration error")
	}
}
