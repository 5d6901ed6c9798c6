package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a progress indicator shown while a long running resize
// operation is in flight.
type Spinner struct {
	mu       sync.Mutex
	delay    time.Duration
	writer   io.Writer
	message  string
	StopMsg  string
	stopChan chan struct{}
	active   bool
}

// NewSpinner instantiates a new progress indicator with the provided
// message and refresh delay.
func NewSpinner(msg string, delay time.Duration) *Spinner {
	return &Spinner{
		delay:    delay,
		writer:   os.Stderr,
		message:  msg,
		stopChan: make(chan struct{}),
	}
}

// Start activates the progress indicator in a separate goroutine.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		for i := 0; ; i++ {
			select {
			case <-s.stopChan:
				return
			default:
				s.mu.Lock()
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(s.writer, "\r%s %s ", s.message, DecorateText(frame, StatusMessage))
				s.mu.Unlock()
				time.Sleep(s.delay)
			}
		}
	}()
}

// Stop terminates the progress indicator and clears the output line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	close(s.stopChan)

	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	if s.StopMsg != "" {
		fmt.Fprintln(s.writer, s.StopMsg)
	}
}
