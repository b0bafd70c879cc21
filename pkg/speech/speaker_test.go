package speech_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/rampradops28/final-app/pkg/speech"
)

func TestWriter_LinePerUtterance(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	s := speech.NewWriter(&b)

	s.Speak("Bill has been reset")
	s.Speak("Total amount is ₹145.50")

	want := "Bill has been reset\nTotal amount is ₹145.50\n"
	if got := b.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWriter_ConcurrentSpeak(t *testing.T) {
	t.Parallel()

	var b syncBuilder
	s := speech.NewWriter(&b)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Speak("line")
		}()
	}
	wg.Wait()

	if got := strings.Count(b.String(), "line\n"); got != 10 {
		t.Errorf("wrote %d lines, want 10", got)
	}
}

func TestNoop_Discards(t *testing.T) {
	t.Parallel()
	speech.Noop{}.Speak("anything")
}

type syncBuilder struct {
	mu sync.Mutex
	b  strings.Builder
}

func (s *syncBuilder) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuilder) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}
