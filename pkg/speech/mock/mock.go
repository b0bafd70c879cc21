// Package mock provides a recording Speaker for tests.
package mock

import "sync"

// Speaker records every utterance passed to Speak.
// Safe for concurrent use.
type Speaker struct {
	mu     sync.Mutex
	spoken []string
}

// Speak implements speech.Speaker.
func (s *Speaker) Speak(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
}

// Spoken returns a copy of all recorded utterances in order.
func (s *Speaker) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.spoken))
	copy(out, s.spoken)
	return out
}

// Reset clears the recorded utterances.
func (s *Speaker) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = nil
}
