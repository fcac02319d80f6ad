package terminal

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
)

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a progress line while work runs. A disabled spinner
// writes nothing, for output that is not a terminal.
type Spinner struct {
	out     io.Writer
	enabled bool

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner creates a spinner drawing to out when enabled.
func NewSpinner(out io.Writer, enabled bool) *Spinner {
	return &Spinner{out: out, enabled: enabled}
}

// Start displays msg with the spinner, replacing any running one.
func (s *Spinner) Start(msg string) {
	if !s.enabled {
		return
	}
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	done := make(chan struct{})
	s.done = done
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i = (i + 1) % len(spinnerChars) {
			fmt.Fprintf(s.out, "\r%s%s %s%s", colorCyan, spinnerChars[i], msg, colorReset)
			select {
			case <-done:
				// Clear the spinner line
				fmt.Fprint(s.out, "\r\033[2K\r")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner and waits until its line is cleared.
func (s *Spinner) Stop() {
	s.mu.Lock()
	done := s.done
	s.done = nil
	s.mu.Unlock()

	if done != nil {
		close(done)
		s.wg.Wait()
	}
}
