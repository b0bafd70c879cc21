// Package dispatch maps a classified voice command onto side-effecting
// operations against the billing, invoice, and session collaborators, and
// produces at most one spoken confirmation per command.
//
// Every error surfaced here is recoverable at the command level: a missing
// item, a failed invoice render, or an absent speech capability never
// corrupts bill state or blocks subsequent commands.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/rampradops28/final-app/internal/bill"
	"github.com/rampradops28/final-app/internal/observe"
	"github.com/rampradops28/final-app/internal/recognizer"
	"github.com/rampradops28/final-app/pkg/speech"
)

// summaryMaxLines caps how many itemized lines the spoken order summary
// reads out before collapsing the rest into an overflow count.
const summaryMaxLines = 5

// Bill is the billing capability consumed by the dispatcher.
//
// Implementations must be safe for concurrent use.
type Bill interface {
	// Add appends a line and returns it.
	Add(name, quantityRaw string, rate float64) bill.Item

	// Remove deletes the item with the given id.
	// Returns bill.ErrItemNotFound when absent.
	Remove(id string) error

	// RemoveByName deletes the first item whose name contains name as a
	// case-insensitive substring. Returns bill.ErrItemNotFound on a miss.
	RemoveByName(name string) (bill.Item, error)

	// Clear removes every item.
	Clear()

	// Items returns the bill lines in insertion order.
	Items() []bill.Item

	// Total returns the sum of line amounts.
	Total() decimal.Decimal
}

// InvoiceGenerator renders the current bill into an invoice document.
type InvoiceGenerator interface {
	Generate(ctx context.Context) error
}

// Listener is the recognition-session control surface.
type Listener interface {
	// Stop ends the listening session. Must not block.
	Stop()
}

// Option is a functional option for configuring a [Dispatcher].
type Option func(*Dispatcher)

// WithSpeaker sets the speech feedback sink. Default: [speech.Noop].
func WithSpeaker(s speech.Speaker) Option {
	return func(d *Dispatcher) {
		d.speaker = s
	}
}

// WithInvoiceGenerator wires the invoice collaborator. When nil,
// generate_invoice commands are acknowledged but render nothing.
func WithInvoiceGenerator(g InvoiceGenerator) Option {
	return func(d *Dispatcher) {
		d.invoices = g
	}
}

// WithListener wires the session control surface for stop_listening.
func WithListener(l Listener) Option {
	return func(d *Dispatcher) {
		d.listener = l
	}
}

// WithFeedback enables or disables spoken confirmations. Default: enabled.
// Disabling feedback never suppresses the underlying billing mutation.
func WithFeedback(enabled bool) Option {
	return func(d *Dispatcher) {
		d.muted.Store(!enabled)
	}
}

// WithMetrics wires the bill-items gauge. When nil, nothing is recorded.
func WithMetrics(m *observe.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// Dispatcher executes classified commands against the collaborators.
// It holds no bill state of its own and is safe for concurrent use.
type Dispatcher struct {
	bill     Bill
	invoices InvoiceGenerator
	listener Listener
	speaker  speech.Speaker
	metrics  *observe.Metrics
	muted    atomic.Bool
}

// New creates a [Dispatcher] over b with the supplied options.
func New(b Bill, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		bill:    b,
		speaker: speech.Noop{},
	}
	for _, o := range opts {
		o(d)
	}
	if d.speaker == nil {
		d.speaker = speech.Noop{}
	}
	return d
}

// SetFeedback enables or disables spoken confirmations at runtime. Used by
// config hot reload.
func (d *Dispatcher) SetFeedback(enabled bool) {
	d.muted.Store(!enabled)
}

// Dispatch performs exactly one side-effecting action matched to the result's
// intent and optionally speaks a confirmation. Referential misses and
// collaborator failures are logged and spoken but never returned as errors —
// the returned error is reserved for programming mistakes (currently always
// nil) so callers can treat dispatch as infallible at the command level.
func (d *Dispatcher) Dispatch(ctx context.Context, res recognizer.Result) error {
	switch res.Intent {
	case recognizer.IntentAddItem:
		d.addItem(ctx, res)

	case recognizer.IntentRemoveItem:
		d.removeItem(ctx, res)

	case recognizer.IntentResetBill:
		cleared := len(d.bill.Items())
		d.bill.Clear()
		d.trackItems(ctx, -int64(cleared))
		d.speak(res.Message + ". " + d.orderSummary())

	case recognizer.IntentGenerateInvoice:
		d.generateInvoice(ctx, res)

	case recognizer.IntentGetTotal:
		// Read-only: never mutates items or total.
		d.speak(fmt.Sprintf("Total amount is ₹%s", d.bill.Total().StringFixed(2)))

	case recognizer.IntentStopListening:
		if d.listener != nil {
			d.listener.Stop()
		}
		d.speak("Voice recognition stopped")

	case recognizer.IntentLearningMode:
		d.speak("Switching to learning assistant mode")

	case recognizer.IntentListItems:
		d.speak(res.Message + ". " + d.orderSummary())

	case recognizer.IntentRemoveLast:
		d.removeLast(ctx, res)

	case recognizer.IntentHelp:
		d.speak("Try: add potato 1 piece 50, remove potato, list items, clear bill, get total, generate invoice, stop listening.")

	default:
		d.speak("Command not recognized. Please try again.")
	}

	return nil
}

func (d *Dispatcher) addItem(ctx context.Context, res recognizer.Result) {
	e := res.Entities
	if e.Name == "" || e.QuantityRaw == "" || e.RateNumber == 0 {
		return
	}
	d.bill.Add(e.Name, e.QuantityRaw, e.RateNumber)
	d.trackItems(ctx, 1)
	d.speak(res.Message + ". " + d.orderSummary())
}

func (d *Dispatcher) removeItem(ctx context.Context, res recognizer.Result) {
	name := res.Entities.Name
	if name == "" {
		return
	}
	if _, err := d.bill.RemoveByName(name); err != nil {
		if errors.Is(err, bill.ErrItemNotFound) {
			slog.Warn("item not on bill", "name", name)
			d.speak(fmt.Sprintf("%s not found in bill", name))
			return
		}
		slog.Error("remove item failed", "name", name, "err", err)
		return
	}
	d.trackItems(ctx, -1)
	d.speak(res.Message + ". " + d.orderSummary())
}

func (d *Dispatcher) removeLast(ctx context.Context, res recognizer.Result) {
	items := d.bill.Items()
	if len(items) == 0 {
		d.speak("No items to remove")
		return
	}
	last := items[len(items)-1]
	if err := d.bill.Remove(last.ID); err != nil {
		slog.Warn("remove last failed", "id", last.ID, "err", err)
		return
	}
	d.trackItems(ctx, -1)
	d.speak(res.Message + ". " + d.orderSummary())
}

func (d *Dispatcher) generateInvoice(ctx context.Context, res recognizer.Result) {
	if d.invoices != nil {
		if err := d.invoices.Generate(ctx); err != nil {
			slog.Error("invoice generation failed", "err", err)
			d.speak("Could not generate invoice")
			return
		}
	}
	d.speak(res.Message)
}

// trackItems moves the bill-items gauge by delta line items.
func (d *Dispatcher) trackItems(ctx context.Context, delta int64) {
	if d.metrics == nil || delta == 0 {
		return
	}
	d.metrics.BillItems.Add(ctx, delta)
}

// speak forwards text to the speaker when feedback is enabled. Fire and
// forget: the dispatcher never waits for playback.
func (d *Dispatcher) speak(text string) {
	if d.muted.Load() || text == "" {
		return
	}
	d.speaker.Speak(text)
}

// orderSummary renders the spoken bill state: item count, up to five
// itemized lines, an overflow count, and the running total to two decimal
// places.
func (d *Dispatcher) orderSummary() string {
	items := d.bill.Items()
	if len(items) == 0 {
		return "Your order is empty."
	}

	var b strings.Builder
	n := len(items)
	if n == 1 {
		fmt.Fprintf(&b, "You now have 1 item: ")
	} else {
		fmt.Fprintf(&b, "You now have %d items: ", n)
	}

	shown := n
	if shown > summaryMaxLines {
		shown = summaryMaxLines
	}
	parts := make([]string, 0, shown)
	for i, it := range items[:shown] {
		parts = append(parts, fmt.Sprintf("%d) %s %s at ₹%s", i+1, it.Quantity, it.Name, it.Rate.String()))
	}
	b.WriteString(strings.Join(parts, ", "))
	if n > summaryMaxLines {
		fmt.Fprintf(&b, " and %d more items", n-summaryMaxLines)
	}
	fmt.Fprintf(&b, ". Total is ₹%s.", d.bill.Total().StringFixed(2))
	return b.String()
}
