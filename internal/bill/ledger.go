// Package bill implements the in-memory bill ledger the dispatcher mutates.
//
// The ledger owns the ordered item list and the running total; the voice
// command core never retains bill state of its own. Line amounts are fixed
// at creation time (amount = quantity × rate) and never recomputed.
package bill

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrItemNotFound is returned when a removal references an id or name with
// no matching item. It is a non-fatal, command-level signal.
var ErrItemNotFound = errors.New("bill: item not found")

// Item is a single bill line.
type Item struct {
	// ID is a generated unique identifier.
	ID string `json:"id"`

	// Name is the product display name.
	Name string `json:"name"`

	// Quantity is the raw display string, e.g. "2 kg".
	Quantity string `json:"quantity"`

	// QuantityNumber is the parsed numeric magnitude of Quantity.
	QuantityNumber float64 `json:"quantityNumber"`

	// Unit is the canonical unit token parsed from Quantity.
	Unit string `json:"unit"`

	// Rate is the unit price.
	Rate decimal.Decimal `json:"rate"`

	// Amount is QuantityNumber × Rate, computed once when the item is added.
	Amount decimal.Decimal `json:"amount"`

	// AddedAt records when the line was created.
	AddedAt time.Time `json:"addedAt"`
}

// Ledger is a thread-safe, in-memory bill. The zero value is ready to use.
type Ledger struct {
	mu    sync.RWMutex
	items []Item
}

// NewLedger returns an empty [Ledger].
func NewLedger() *Ledger {
	return &Ledger{}
}

// Add appends a line to the bill. quantityRaw is the display form
// ("2 kg"); its leading number becomes the quantity magnitude (1 when
// absent) and its second field the unit. The line amount is computed here
// and never again.
func (l *Ledger) Add(name, quantityRaw string, rate float64) Item {
	qty, unit := splitQuantity(quantityRaw)

	rateDec := decimal.NewFromFloat(rate)
	item := Item{
		ID:             uuid.NewString(),
		Name:           name,
		Quantity:       quantityRaw,
		QuantityNumber: qty,
		Unit:           unit,
		Rate:           rateDec,
		Amount:         decimal.NewFromFloat(qty).Mul(rateDec),
		AddedAt:        time.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
	return item
}

// Remove deletes the item with the given id.
// Returns [ErrItemNotFound] when no item carries that id.
func (l *Ledger) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, it := range l.items {
		if it.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveByName deletes the first item whose name contains name as a
// case-insensitive substring and returns it.
// Returns [ErrItemNotFound] without changing state when nothing matches.
func (l *Ledger) RemoveByName(name string) (Item, error) {
	needle := strings.ToLower(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	for i, it := range l.items {
		if strings.Contains(strings.ToLower(it.Name), needle) {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return it, nil
		}
	}
	return Item{}, ErrItemNotFound
}

// Clear removes every item.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

// Items returns a copy of the bill lines in insertion order.
func (l *Ledger) Items() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of bill lines.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Total returns the sum of all line amounts.
func (l *Ledger) Total() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := decimal.Zero
	for _, it := range l.items {
		total = total.Add(it.Amount)
	}
	return total
}

// splitQuantity parses a raw quantity display string. The leading field is
// the magnitude (default 1 when missing or unparsable), the second field the
// unit (may be empty).
func splitQuantity(raw string) (float64, string) {
	fields := strings.Fields(raw)
	qty := 1.0
	unit := ""
	if len(fields) > 0 {
		if n, err := strconv.ParseFloat(fields[0], 64); err == nil {
			qty = n
		}
	}
	if len(fields) > 1 {
		unit = fields[1]
	}
	return qty, unit
}
