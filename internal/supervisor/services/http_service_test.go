// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/masterfood/internal/logging"
)

var _ suture.Service = (*HTTPServerService)(nil)

// lockedBuffer collects log output written from several goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// freeAddr returns a loopback address with a port nothing listens on.
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func waitForStatus(t *testing.T, url string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode == want {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("GET %s never answered %d", url, want)
}

func TestHTTPServerService_ServesUntilCanceled(t *testing.T) {
	var logs lockedBuffer
	logging.Init(logging.Config{Level: "info", Format: "json", Output: &logs})
	defer logging.Init(logging.DefaultConfig())

	addr := freeAddr(t)
	server := &http.Server{
		Addr: addr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
		ReadHeaderTimeout: time.Second,
	}
	svc := NewHTTPServerService(server, addr, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitForStatus(t, "http://"+addr+"/api/health/live", http.StatusNoContent)

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if _, err := http.Get("http://" + addr + "/"); err == nil {
		t.Error("server still accepting connections after shutdown")
	}

	out := logs.String()
	if !strings.Contains(out, `"addr":"`+addr+`"`) || !strings.Contains(out, "HTTP server listening") {
		t.Errorf("startup log missing addr %s:\n%s", addr, out)
	}
	if !strings.Contains(out, "Shutting down HTTP server") {
		t.Errorf("shutdown not logged:\n%s", out)
	}
}

func TestHTTPServerService_ListenFailure(t *testing.T) {
	t.Parallel()

	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer taken.Close()

	addr := taken.Addr().String()
	svc := NewHTTPServerService(&http.Server{Addr: addr, ReadHeaderTimeout: time.Second}, addr, time.Second)

	select {
	case err := <-serveAsync(svc):
		if err == nil || errors.Is(err, context.Canceled) || !strings.Contains(err.Error(), "http server failed") {
			t.Errorf("Serve = %v, want wrapped listen error", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not report the listen failure")
	}
}

// stuckServer blocks in ListenAndServe and fails to shut down.
type stuckServer struct {
	release chan struct{}
}

func (s *stuckServer) ListenAndServe() error {
	<-s.release
	return http.ErrServerClosed
}

func (s *stuckServer) Shutdown(context.Context) error {
	close(s.release)
	return context.DeadlineExceeded
}

func TestHTTPServerService_ShutdownError(t *testing.T) {
	t.Parallel()

	svc := NewHTTPServerService(&stuckServer{release: make(chan struct{})}, "127.0.0.1:0", 0)
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("shutdownTimeout = %v, want 10s default", svc.shutdownTimeout)
	}
	if svc.String() != "http-server" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve = %v, want wrapped shutdown error", err)
	}
}
