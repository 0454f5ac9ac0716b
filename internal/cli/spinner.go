package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// Spinner
// =============================================================================

// spinnerFrames are braille-pattern animation frames.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the delay between frames.
const spinnerInterval = 80 * time.Millisecond

// spinner renders an animated progress indicator on stderr while a
// long-running operation is in flight. It stays silent when stderr is
// not a terminal, so piped output and CI logs see nothing.
type spinner struct {
	message string

	mu     sync.Mutex
	active bool
	done   chan struct{}
}

func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		done:    make(chan struct{}),
	}
}

// start begins the animation. It is a no-op without a terminal.
func (s *spinner) start() {
	if !isTerminal(os.Stderr) {
		return
	}

	s.mu.Lock()
	s.active = true
	s.mu.Unlock()

	go s.run()
}

func (s *spinner) run() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.active {
				icon := styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)])
				fmt.Fprintf(os.Stderr, "\r%s %s", icon, s.message)
				frame++
			}
			s.mu.Unlock()
		}
	}
}

// stop halts the animation and clears the line. Safe to call more than
// once; only the first call has any effect.
func (s *spinner) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	s.active = false
	close(s.done)

	// Overwrite the frame and message with spaces, then return the cursor.
	width := len(s.message) + 2
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", width))
}

// isTerminal reports whether f is attached to a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// =============================================================================
// Helpers
// =============================================================================

// runWithSpinner runs fn while animating message on stderr. The spinner
// is cleared before returning regardless of outcome. When ctx is
// cancelled during fn, the context error takes precedence so interrupt
// handling upstream sees context.Canceled rather than a wrapped cause.
func runWithSpinner(ctx context.Context, message string, fn func() error) error {
	s := newSpinner(message)
	s.start()
	err := fn()
	s.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
