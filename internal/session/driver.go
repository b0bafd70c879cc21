// Package session drives a voice recognition session: it receives final
// transcripts from the speech engine, throttles duplicate finals, hands each
// surviving transcript to the recognizer, and dispatches the classified
// command.
//
// Duplicate suppression lives here — never in the recognizer core. Browser
// speech engines re-emit the same final transcript when a continuous session
// restarts, so two identical texts inside a short window are treated as one
// command.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rampradops28/final-app/internal/dispatch"
	"github.com/rampradops28/final-app/internal/observe"
	"github.com/rampradops28/final-app/internal/recognizer"
)

// DefaultDuplicateWindow matches the throttle used by the web client:
// identical finals within this window are dropped.
const DefaultDuplicateWindow = 900 * time.Millisecond

// Option is a functional option for configuring a [Driver].
type Option func(*Driver)

// WithDuplicateWindow overrides the duplicate suppression window.
// A zero window disables suppression.
func WithDuplicateWindow(w time.Duration) Option {
	return func(d *Driver) {
		d.window = w
	}
}

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.now = now
	}
}

// WithMetrics attaches the application metrics. When nil, nothing is
// recorded.
func WithMetrics(m *observe.Metrics) Option {
	return func(d *Driver) {
		d.metrics = m
	}
}

// Driver is the per-session transcript loop. Safe for concurrent use,
// though transcripts are expected to arrive one at a time — each command is
// classified and dispatched to completion before the next is accepted.
type Driver struct {
	rec     *recognizer.Recognizer
	disp    *dispatch.Dispatcher
	metrics *observe.Metrics
	window  time.Duration
	now     func() time.Time

	mu       sync.Mutex
	lastText string
	lastAt   time.Time
	commands int64
	stopped  bool
}

// New creates a [Driver] over rec and disp. A new driver counts as one live
// session in the metrics until [Driver.Stop].
func New(rec *recognizer.Recognizer, disp *dispatch.Dispatcher, opts ...Option) *Driver {
	d := &Driver{
		rec:    rec,
		disp:   disp,
		window: DefaultDuplicateWindow,
		now:    time.Now,
	}
	for _, o := range opts {
		o(d)
	}
	if d.metrics != nil {
		d.metrics.ActiveSessions.Add(context.Background(), 1)
	}
	return d
}

// HandleTranscript processes one final transcript in the recognizer's
// configured language mode. It returns the recognition result and whether
// the transcript was actually processed — empty and duplicate finals are
// dropped with processed=false and no dispatch.
func (d *Driver) HandleTranscript(ctx context.Context, raw string) (recognizer.Result, bool) {
	return d.HandleTranscriptIn(ctx, raw, "")
}

// HandleTranscriptIn is [Driver.HandleTranscript] with a per-transcript
// language override. An empty lang keeps the recognizer's configured mode;
// callers must validate lang beforehand.
func (d *Driver) HandleTranscriptIn(ctx context.Context, raw string, lang recognizer.Language) (recognizer.Result, bool) {
	text := normalize(raw)
	if text == "" {
		return recognizer.Result{}, false
	}

	if d.isDuplicate(text) {
		slog.Debug("duplicate final dropped", "text", text)
		return recognizer.Result{}, false
	}

	d.mu.Lock()
	rec := d.rec
	d.mu.Unlock()
	rec = rec.ForLanguage(lang)

	ctx, span := observe.StartCommandSpan(ctx)
	start := d.now()
	res := rec.Parse(text)
	if d.metrics != nil {
		d.metrics.RecordCommand(ctx, string(res.Intent), res.Success, d.now().Sub(start))
		if res.Entities.FuzzyCorrected {
			d.metrics.FuzzyCorrections.Add(ctx, 1)
		}
	}

	slog.Info("voice command",
		"intent", res.Intent,
		"success", res.Success,
		"confidence", res.Confidence,
		"text", text,
	)

	dispStart := d.now()
	if err := d.disp.Dispatch(ctx, res); err != nil {
		slog.Error("dispatch failed", "intent", res.Intent, "err", err)
	}
	if d.metrics != nil {
		d.metrics.RecordDispatch(ctx, string(res.Intent), d.now().Sub(dispStart))
	}
	observe.EndCommandSpan(span, string(res.Intent), res.Success)

	d.mu.Lock()
	d.commands++
	d.mu.Unlock()

	return res, true
}

// SetRecognizer swaps the recognizer in flight. Used by config hot reload
// when the lexicon or language mode changes; in-progress commands finish on
// the recognizer they started with.
func (d *Driver) SetRecognizer(rec *recognizer.Recognizer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rec = rec
}

// SetDuplicateWindow changes the suppression window at runtime.
// A zero window disables suppression.
func (d *Driver) SetDuplicateWindow(w time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.window = w
}

// Commands returns the number of transcripts processed so far.
func (d *Driver) Commands() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commands
}

// Stop implements [dispatch.Listener]. It marks the session stopped; the
// transport layer polls [Driver.Stopped] to tear down its stream.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	if d.metrics != nil {
		d.metrics.ActiveSessions.Add(context.Background(), -1)
	}
}

// Stopped reports whether a stop_listening command ended the session.
func (d *Driver) Stopped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopped
}

// Resume clears the stopped flag so the session can listen again.
func (d *Driver) Resume() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.stopped {
		return
	}
	d.stopped = false
	if d.metrics != nil {
		d.metrics.ActiveSessions.Add(context.Background(), 1)
	}
}

// isDuplicate records text as the most recent final and reports whether it
// repeats the previous one inside the suppression window.
func (d *Driver) isDuplicate(text string) bool {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	dup := d.window > 0 && text == d.lastText && now.Sub(d.lastAt) < d.window
	if !dup {
		d.lastText = text
		d.lastAt = now
	}
	return dup
}

// normalize lower-cases and trims a final transcript, matching the speech
// engine convention the recognizer expects.
func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
