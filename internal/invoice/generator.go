// Package invoice renders the current bill into a plain-text invoice
// document on disk and optionally sends a short summary over SMS.
//
// Invoices are written as one file per invoice into a configured output
// directory. The file name carries a UUID so that repeated generations of
// the same bill never overwrite each other.
package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rampradops28/final-app/internal/bill"
	"github.com/rampradops28/final-app/internal/observe"
)

// Sender delivers a short invoice summary out of band, typically via SMS.
// Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, body string) error
}

// Option configures a [Generator].
type Option func(*Generator)

// WithBusinessName sets the business name printed in the invoice header.
func WithBusinessName(name string) Option {
	return func(g *Generator) {
		g.businessName = name
	}
}

// WithSender wires an out-of-band summary delivery. When nil, generation
// only writes the file.
func WithSender(s Sender) Option {
	return func(g *Generator) {
		g.sender = s
	}
}

// WithMetrics wires the invoice and SMS delivery counters. When nil,
// nothing is recorded.
func WithMetrics(m *observe.Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// Generator renders bills into invoice files. Thread-safe as long as the
// underlying bill is.
type Generator struct {
	ledger       *bill.Ledger
	outputDir    string
	businessName string
	sender       Sender
	metrics      *observe.Metrics
	now          func() time.Time
}

// New creates a [Generator] that renders ledger into outputDir.
func New(ledger *bill.Ledger, outputDir string, opts ...Option) *Generator {
	g := &Generator{
		ledger:       ledger,
		outputDir:    outputDir,
		businessName: "VoiceBill",
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the current bill into a new invoice file. When a
// [Sender] is configured, a one-line summary is delivered afterwards;
// a delivery failure is logged but does not fail the generation.
func (g *Generator) Generate(ctx context.Context) error {
	items := g.ledger.Items()
	total := g.ledger.Total()

	id := uuid.NewString()
	doc := g.render(id, items, total)

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		g.record(ctx, "error")
		return fmt.Errorf("invoice: create output dir: %w", err)
	}

	path := filepath.Join(g.outputDir, "invoice-"+id+".txt")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		g.record(ctx, "error")
		return fmt.Errorf("invoice: write %s: %w", path, err)
	}
	g.record(ctx, "ok")

	slog.Info("invoice generated",
		slog.String("invoice_id", id),
		slog.String("path", path),
		slog.Int("items", len(items)),
		slog.String("total", total.StringFixed(2)),
	)

	if g.sender != nil {
		summary := fmt.Sprintf("%s invoice %s: %d item(s), total ₹%s",
			g.businessName, id[:8], len(items), total.StringFixed(2))
		if err := g.sender.Send(ctx, summary); err != nil {
			slog.Warn("invoice summary delivery failed", slog.String("error", err.Error()))
			g.recordSMS(ctx, "error")
		} else {
			g.recordSMS(ctx, "ok")
		}
	}

	return nil
}

// render produces the plain-text invoice document.
func (g *Generator) render(id string, items []bill.Item, total decimal.Decimal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", g.businessName)
	fmt.Fprintf(&b, "Invoice %s\n", id)
	fmt.Fprintf(&b, "Date: %s\n", g.now().UTC().Format("2006-01-02 15:04:05 UTC"))
	b.WriteString(strings.Repeat("-", 52) + "\n")

	if len(items) == 0 {
		b.WriteString("(no items)\n")
	}
	for i, it := range items {
		fmt.Fprintf(&b, "%2d. %-20s %10s  @ ₹%-8s ₹%s\n",
			i+1, it.Name, it.Quantity, it.Rate.StringFixed(2), it.Amount.StringFixed(2))
	}

	b.WriteString(strings.Repeat("-", 52) + "\n")
	fmt.Fprintf(&b, "%-36s ₹%s\n", "Total", total.StringFixed(2))

	return b.String()
}

func (g *Generator) record(ctx context.Context, status string) {
	if g.metrics != nil {
		g.metrics.RecordInvoice(ctx, status)
	}
}

func (g *Generator) recordSMS(ctx context.Context, status string) {
	if g.metrics != nil {
		g.metrics.RecordSMS(ctx, status)
	}
}
