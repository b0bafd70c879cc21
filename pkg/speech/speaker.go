// Package speech defines the Speaker abstraction the dispatcher uses for
// spoken confirmations.
//
// A Speaker is fire-and-forget: Speak must never block the caller on audio
// output, and its failure must never prevent the billing mutation that
// triggered it. When the runtime has no synthesis capability the dispatcher
// simply runs without feedback — see [Noop].
package speech

import (
	"io"
	"log/slog"
	"sync"
)

// Speaker sends one utterance to the speech synthesis layer.
//
// Implementations must be safe for concurrent use and must not block on
// playback.
type Speaker interface {
	// Speak enqueues text for synthesis. Errors are swallowed by the
	// implementation; confirmation speech is best effort.
	Speak(text string)
}

// Noop is a Speaker that discards all utterances. Used when speech synthesis
// is unavailable in the runtime environment.
type Noop struct{}

// Speak implements [Speaker].
func (Noop) Speak(string) {}

// Log is a Speaker that records utterances to the default structured logger.
// Useful headless, where the actual synthesis runs in the client.
type Log struct{}

// Speak implements [Speaker].
func (Log) Speak(text string) {
	slog.Info("speaking", "text", text)
}

// Writer is a Speaker that writes each utterance as a line to an io.Writer.
// Handy for terminal sessions and tests.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a [Writer] speaking onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Speak implements [Speaker]. Write errors are dropped — feedback is best
// effort.
func (s *Writer) Speak(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.w, text+"\n")
}
