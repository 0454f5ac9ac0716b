package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("Testing...")
	s.start()
	time.Sleep(100 * time.Millisecond)
	s.stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.start()

	// Stop multiple times should not panic
	s.stop()
	s.stop()
	s.stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner("Never started")
	s.stop()
}

func TestRunWithSpinnerSuccess(t *testing.T) {
	ran := false
	err := runWithSpinner(context.Background(), "Working...", func() error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("runWithSpinner() error: %v", err)
	}
	if !ran {
		t.Error("runWithSpinner() should invoke fn")
	}
}

func TestRunWithSpinnerError(t *testing.T) {
	want := errors.New("boom")
	err := runWithSpinner(context.Background(), "Working...", func() error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("runWithSpinner() error = %v, want %v", err, want)
	}
}

func TestRunWithSpinnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	err := runWithSpinner(ctx, "Working...", func() error {
		cancel()
		return errors.New("aborted mid-flight")
	})

	// The context error wins so interrupts map to exit 130 upstream.
	if !errors.Is(err, context.Canceled) {
		t.Errorf("runWithSpinner() error = %v, want context.Canceled", err)
	}
}

func TestIsTerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if isTerminal(f) {
		t.Error("isTerminal() = true for a regular file")
	}
}
