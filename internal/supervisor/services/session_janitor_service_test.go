// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*SessionJanitorService)(nil)

type fakeCleaner struct {
	calls   atomic.Int32
	removed int
	err     error
}

func (f *fakeCleaner) CleanupExpired(context.Context) (int, error) {
	f.calls.Add(1)
	return f.removed, f.err
}

type fakeGC struct {
	runs atomic.Int32
}

func (f *fakeGC) RunGC() error {
	f.runs.Add(1)
	return errors.New("gc busy")
}

func TestNewSessionJanitorService_DefaultInterval(t *testing.T) {
	t.Parallel()

	svc := NewSessionJanitorService(&fakeCleaner{}, 0)
	if svc.interval != DefaultJanitorInterval {
		t.Errorf("interval = %v, want %v", svc.interval, DefaultJanitorInterval)
	}
	if svc.String() != "session-janitor" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestSessionJanitorService_SweepsUntilCanceled(t *testing.T) {
	t.Parallel()

	cleaner := &fakeCleaner{removed: 2}
	gc := &fakeGC{}
	svc := NewSessionJanitorService(cleaner, 5*time.Millisecond).WithGarbageCollector(gc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for cleaner.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d sweeps ran", cleaner.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	// A failing GC does not stop the janitor.
	if gc.runs.Load() < 3 {
		t.Errorf("gc runs = %d, want at least 3", gc.runs.Load())
	}
}

func TestSessionJanitorService_SkipsGCWhenNothingRemoved(t *testing.T) {
	t.Parallel()

	gc := &fakeGC{}
	svc := NewSessionJanitorService(&fakeCleaner{}, time.Minute).WithGarbageCollector(gc)
	if err := svc.sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if gc.runs.Load() != 0 {
		t.Errorf("gc ran %d times", gc.runs.Load())
	}
}

func TestSessionJanitorService_ReturnsCleanupError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("badger closed")
	svc := NewSessionJanitorService(&fakeCleaner{err: storeErr}, time.Millisecond)

	select {
	case err := <-serveAsync(svc):
		if !errors.Is(err, storeErr) {
			t.Errorf("Serve = %v, want wrapped store error", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return the cleanup error")
	}
}

func serveAsync(svc suture.Service) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(context.Background()) }()
	return errCh
}
