package engine

import (
	"errors"
	"testing"
	"time"
)

func TestCoordinatorWithLock(t *testing.T) {
	coord := NewCoordinator()

	want := errors.New("op failed")
	if err := coord.WithLock(func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("WithLock error = %v, want %v", err, want)
	}
	if err := coord.WithLock(func() error { return nil }); err != nil {
		t.Fatalf("WithLock error = %v, want nil", err)
	}
}

func TestCoordinatorGatedRunsWhenIdle(t *testing.T) {
	coord := NewCoordinator()

	ran := false
	if err := coord.Gated(func() error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("Gated error = %v", err)
	}
	if !ran {
		t.Fatal("Gated op did not run")
	}
}

func TestCoordinatorGatedWaitsForReorganization(t *testing.T) {
	coord := NewCoordinator()
	coord.beginReorganization(func() {})

	if !coord.Reorganizing() {
		t.Fatal("Reorganizing() = false after begin")
	}

	done := make(chan struct{})
	go func() {
		_ = coord.Gated(func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("gated op ran while reorganization in progress")
	case <-time.After(50 * time.Millisecond):
	}

	coord.endReorganization(func() {})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("gated op not released after reorganization ended")
	}

	if coord.Reorganizing() {
		t.Fatal("Reorganizing() = true after end")
	}
}
