package recognizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rampradops28/final-app/internal/lexicon"
)

// The add_item extractor tries a fixed cascade of structural patterns and
// stops at the first that yields both a resolvable quantity/unit and a
// resolvable numeric rate:
//
//  1. add <name> <qty><unit> <price>
//  2. add <name> <qty><unit> [for] [rs/₹] <price> [rupees]
//  3. add <name> [rs/₹] <price> <qty><unit>          (price first, marked)
//  4. add <name> <price> <qty><unit>                 (price first, bare)
//  5. add <name> [for] [rs/₹] <price> [rupees]       (defaults: 1 piece)
//
// Patterns 3 and 4 are disambiguated from 1 by the unit sitting adjacent to
// the second number rather than the first. When the price cannot be parsed —
// even after a generic currency scan over the whole phrase — the extraction
// fails and the overall result degrades to unknown; the classifier never
// retries later rules.
type addPatterns struct {
	qtyFirst       *regexp.Regexp // pattern 1
	qtyFirstMarked *regexp.Regexp // pattern 2
	priceMarked    *regexp.Regexp // pattern 3
	priceBare      *regexp.Regexp // pattern 4
	priceOnly      *regexp.Regexp // pattern 5
	currencyScan   *regexp.Regexp
}

const (
	numPat      = `(\d+(?:\.\d+)?)`
	currencyPat = `(?:(?:rs\.?|₹)\s*)?`
)

// compileAddPatterns builds the cascade with a unit alternation derived from
// the lexicon's surface forms, longest alias first so "liters" wins over "l".
func compileAddPatterns(lex *lexicon.Lexicon) *addPatterns {
	escaped := make([]string, 0, 16)
	for _, a := range lex.UnitAliases() {
		escaped = append(escaped, regexp.QuoteMeta(a))
	}
	unit := `(` + strings.Join(escaped, "|") + `)`

	return &addPatterns{
		qtyFirst: regexp.MustCompile(
			`add\s+(.+?)\s+` + numPat + `\s*` + unit + `\s+` + numPat),
		qtyFirstMarked: regexp.MustCompile(
			`add\s+(.+?)\s+` + numPat + `\s*` + unit + `\s+(?:for\s+)?` + currencyPat + numPat + `(?:\s*rupees?)?`),
		priceMarked: regexp.MustCompile(
			`add\s+(.+?)\s+(?:rs\.?|₹)\s*` + numPat + `\s+` + numPat + `\s*` + unit),
		priceBare: regexp.MustCompile(
			`add\s+(.+?)\s+` + numPat + `\s+` + numPat + `\s*` + unit),
		priceOnly: regexp.MustCompile(
			`add\s+(.+?)\s+(?:for\s+)?` + currencyPat + numPat + `(?:\s*rupees?)?`),
		currencyScan: regexp.MustCompile(
			`(?:rs\.?|₹)?\s*(\d+(?:\.\d+)?)(?:\s*rupees?)?`),
	}
}

// extractAddItem runs the cascade over text. Returns nil when no pattern
// yields a usable price.
func (r *Recognizer) extractAddItem(text string) *Entities {
	p := r.addPats

	if m := p.qtyFirst.FindStringSubmatch(text); m != nil {
		return r.buildAddEntities(text, m[1], m[2], m[3], m[4])
	}
	if m := p.qtyFirstMarked.FindStringSubmatch(text); m != nil {
		return r.buildAddEntities(text, m[1], m[2], m[3], m[4])
	}
	if m := p.priceMarked.FindStringSubmatch(text); m != nil {
		return r.buildAddEntities(text, m[1], m[3], m[4], m[2])
	}
	if m := p.priceBare.FindStringSubmatch(text); m != nil {
		return r.buildAddEntities(text, m[1], m[3], m[4], m[2])
	}
	if m := p.priceOnly.FindStringSubmatch(text); m != nil {
		rate, ok := parseNumber(m[2])
		if !ok || rate == 0 {
			return nil
		}
		name, corrected := r.resolveProduct(m[1])
		if name == "" {
			return nil
		}
		return &Entities{
			Name:           capitalize(name),
			QuantityRaw:    "1 piece",
			QuantityNumber: 1,
			Unit:           "piece",
			RateNumber:     rate,
			FuzzyCorrected: corrected,
			defaulted:      true,
		}
	}
	return nil
}

// buildAddEntities assembles entities from captured spans. rateStr may fail
// to parse; the generic currency scan over the whole phrase is the last
// resort before giving up.
func (r *Recognizer) buildAddEntities(text, nameSpan, qtyStr, unitRaw, rateStr string) *Entities {
	qty, ok := parseNumber(qtyStr)
	if !ok {
		qty = 1
	}
	unit := r.lex.NormalizeUnit(unitRaw)
	if unit == "" {
		unit = "piece"
	}

	rate, ok := parseNumber(rateStr)
	if !ok {
		rate, ok = r.scanPrice(text)
	}
	if !ok || rate == 0 {
		return nil
	}

	name, corrected := r.resolveProduct(nameSpan)
	if name == "" {
		return nil
	}

	return &Entities{
		Name:           capitalize(name),
		QuantityRaw:    fmt.Sprintf("%s %s", formatNumber(qty), unit),
		QuantityNumber: qty,
		Unit:           unit,
		RateNumber:     rate,
		FuzzyCorrected: corrected,
	}
}

// scanPrice is the generic currency-pattern fallback over the whole phrase:
// matches forms like "120", "120.50", "rs 120", "₹120", "120 rupees".
func (r *Recognizer) scanPrice(text string) (float64, bool) {
	m := r.addPats.currencyScan.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return parseNumber(m[1])
}
