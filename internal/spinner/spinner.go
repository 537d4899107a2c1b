// Package spinner draws a single-line progress indicator on a terminal.
package spinner

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const frameInterval = 80 * time.Millisecond

// Spinner animates a message on one line until stopped. The message can be
// replaced while it runs.
type Spinner struct {
	w        io.Writer
	mu       sync.Mutex
	message  string
	width    int
	done     chan struct{}
	cleared  chan struct{}
	stopOnce sync.Once
}

// Start displays an animated spinner with the given message on w.
// Call Stop to stop the spinner and clear the line.
func Start(w io.Writer, message string) *Spinner {
	s := &Spinner{
		w:       w,
		message: message,
		done:    make(chan struct{}),
		cleared: make(chan struct{}),
	}
	go s.run()
	return s
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop clears the line and waits for the animation to end. It is safe to
// call more than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	<-s.cleared
}

func (s *Spinner) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.done:
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width)) //nolint:errcheck
			close(s.cleared)
			return
		case <-ticker.C:
			s.mu.Lock()
			line := frames[i%len(frames)] + " " + s.message
			s.mu.Unlock()

			// Pad over the remains of a longer previous line.
			w := runewidth.StringWidth(line)
			pad := max(s.width-w, 0)
			s.width = max(s.width, w)
			fmt.Fprintf(s.w, "\r%s%s", line, strings.Repeat(" ", pad)) //nolint:errcheck
			i++
		}
	}
}
