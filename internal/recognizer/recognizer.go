// Package recognizer turns a noisy, bilingual (English/Tamil) transcript
// string into a structured billing intent with normalized entities.
//
// Classification is an ordered table of (trigger, extract) rules evaluated
// with early exit: the first trigger that matches the transcript commits the
// rule, even when its extractor then fails to produce entities — in that case
// the overall result degrades to [IntentUnknown] rather than falling through
// to later rules. This first-match-commits contract is deliberate and load
// bearing; callers rely on its reproducibility.
//
// The recognizer is stateless per call and performs no I/O. Duplicate
// suppression, speech synthesis, and billing mutations are the caller's
// concern (see internal/session and internal/dispatch).
package recognizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/rampradops28/final-app/internal/lexicon"
	"github.com/rampradops28/final-app/internal/recognizer/fuzzy"
)

// Intent is the classified action a transcript requests.
type Intent string

// The fixed intent enumeration. Rule order in [Recognizer.Parse] follows
// declaration order here and is part of the behavioural contract.
const (
	IntentAddItem         Intent = "add_item"
	IntentRemoveItem      Intent = "remove_item"
	IntentResetBill       Intent = "reset_bill"
	IntentGenerateInvoice Intent = "generate_invoice"
	IntentGetTotal        Intent = "get_total"
	IntentLearningMode    Intent = "learning_mode"
	IntentStopListening   Intent = "stop_listening"
	IntentListItems       Intent = "list_items"
	IntentRemoveLast      Intent = "remove_last"
	IntentHelp            Intent = "help"
	IntentUnknown         Intent = "unknown"
)

// Language selects which lexicon lookups participate in product resolution.
type Language string

const (
	// LangEnglish restricts product resolution to English lookups only.
	LangEnglish Language = "en-US"

	// LangTamil enables Tamil-script and transliteration lookups; English
	// canonical names remain included as fallback.
	LangTamil Language = "ta-IN"

	// LangMixed enables every lookup. This is the default.
	LangMixed Language = "mixed"
)

// IsValid reports whether l is a recognised language mode.
func (l Language) IsValid() bool {
	switch l {
	case LangEnglish, LangTamil, LangMixed:
		return true
	}
	return false
}

// Fixed confidence values. These are coarse discrete signals, not calibrated
// probabilities: every successful structured match reports 0.9, every
// unknown reports 0.2.
const (
	successConfidence = 0.9
	unknownConfidence = 0.2
)

// Entities holds the structured fields extracted from a transcript. Which
// fields are populated depends on the intent; the zero value means no
// entities were extracted.
type Entities struct {
	// Name is the resolved product name, capitalized for display.
	Name string `json:"name,omitempty"`

	// QuantityRaw is the display form of the quantity, e.g. "2 kg".
	QuantityRaw string `json:"quantityRaw,omitempty"`

	// QuantityNumber is the parsed numeric magnitude of the quantity.
	QuantityNumber float64 `json:"quantityNumber,omitempty"`

	// Unit is the canonical unit token ("kg", "g", "piece", "packet",
	// "box", "liter") or the lower-cased surface form when unrecognized.
	Unit string `json:"unit,omitempty"`

	// RateNumber is the parsed unit price.
	RateNumber float64 `json:"rateNumber,omitempty"`

	// FuzzyCorrected marks a name that the fuzzy matcher rewrote into a
	// lexicon product. Exact lookups leave it false. Consumed by the
	// session metrics; not part of the wire format.
	FuzzyCorrected bool `json:"-"`

	// defaulted marks an add_item extraction that fell back to the implicit
	// "1 piece" quantity (cascade pattern without quantity/unit). It only
	// affects the confirmation message wording.
	defaulted bool
}

// Result is the outcome of classifying one transcript.
type Result struct {
	// Intent is the classified action, or [IntentUnknown].
	Intent Intent `json:"intent"`

	// Entities carries the extracted fields. Empty for intents that need
	// none and for unknown results.
	Entities Entities `json:"entities"`

	// Success is true iff the matched rule's extractor produced usable
	// entities.
	Success bool `json:"success"`

	// Confidence is 0.9 for any successful match, 0.2 for unknown.
	Confidence float64 `json:"confidence"`

	// Message is the human-readable confirmation or error string; it doubles
	// as the text-to-speech payload.
	Message string `json:"message"`
}

// Option is a functional option for configuring a [Recognizer].
type Option func(*Recognizer)

// WithLanguage sets the language mode gating Tamil lookups. Default:
// [LangMixed].
func WithLanguage(lang Language) Option {
	return func(r *Recognizer) {
		r.lang = lang
	}
}

// WithFuzzyMatcher replaces the default fuzzy product matcher. Intended for
// tests that exercise threshold behaviour.
func WithFuzzyMatcher(m *fuzzy.Matcher) Option {
	return func(r *Recognizer) {
		r.matcher = m
	}
}

// Recognizer classifies transcripts against the fixed rule table. It is
// read-only after construction and safe for concurrent use.
type Recognizer struct {
	lex     *lexicon.Lexicon
	matcher *fuzzy.Matcher
	lang    Language
	rules   []rule
	addPats *addPatterns
}

// rule pairs an intent trigger predicate with its entity extractor.
// extract returns nil to signal that no usable entities were found.
type rule struct {
	intent  Intent
	trigger *regexp.Regexp
	extract func(r *Recognizer, text string) *Entities
}

// New builds a [Recognizer] over lex. The rule table and the add-item
// pattern cascade are compiled once here.
func New(lex *lexicon.Lexicon, opts ...Option) *Recognizer {
	r := &Recognizer{
		lex:     lex,
		matcher: fuzzy.New(),
		lang:    LangMixed,
	}
	for _, o := range opts {
		o(r)
	}
	r.addPats = compileAddPatterns(lex)
	r.rules = buildRules()
	return r
}

// ForLanguage returns a recognizer that classifies in lang. The rule table,
// pattern cascade, lexicon, and fuzzy matcher are shared with r, so the copy
// is cheap; everything shared is read-only after construction. An empty lang
// or r's own language returns r itself.
func (r *Recognizer) ForLanguage(lang Language) *Recognizer {
	if lang == "" || lang == r.lang {
		return r
	}
	clone := *r
	clone.lang = lang
	return &clone
}

// buildRules returns the ordered rule table. Order is significant: the
// classifier commits to the first matching trigger.
func buildRules() []rule {
	return []rule{
		{
			intent:  IntentAddItem,
			trigger: regexp.MustCompile(`\b(add|insert|put|include)\b`),
			extract: (*Recognizer).extractAddItem,
		},
		{
			intent:  IntentRemoveItem,
			trigger: regexp.MustCompile(`\b(remove|delete)\b`),
			extract: (*Recognizer).extractRemoveItem,
		},
		{
			intent:  IntentResetBill,
			trigger: regexp.MustCompile(`(reset|clear).*(bill|cart)`),
			extract: noEntities,
		},
		{
			intent:  IntentGenerateInvoice,
			trigger: regexp.MustCompile(`(generate|create|make).*(invoice|bill|pdf)`),
			extract: noEntities,
		},
		{
			intent:  IntentGetTotal,
			trigger: regexp.MustCompile(`(total|amount|sum|balance)`),
			extract: noEntities,
		},
		{
			intent:  IntentLearningMode,
			trigger: regexp.MustCompile(`(learn|study)`),
			extract: noEntities,
		},
		{
			intent:  IntentStopListening,
			trigger: regexp.MustCompile(`(stop|pause)(.*(listen|listening))?`),
			extract: noEntities,
		},
		{
			intent:  IntentListItems,
			trigger: regexp.MustCompile(`(list|show|display).*(items|bill|cart)`),
			extract: noEntities,
		},
		{
			intent:  IntentRemoveLast,
			trigger: regexp.MustCompile(`(remove|delete).*(last|previous)\s*(item)?`),
			extract: noEntities,
		},
		{
			intent:  IntentHelp,
			trigger: regexp.MustCompile(`(help|what can you do|commands)`),
			extract: noEntities,
		},
	}
}

// noEntities is the extractor for intents that succeed without entities;
// their confirmation text comes from [Recognizer.message].
func noEntities(*Recognizer, string) *Entities {
	return &Entities{}
}

// Parse classifies raw and returns exactly one [Result]. The transcript is
// lower-cased and trimmed before rule evaluation; the unknown message echoes
// raw as supplied by the caller.
func (r *Recognizer) Parse(raw string) Result {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return unknownResult(raw)
	}

	for _, rl := range r.rules {
		if !rl.trigger.MatchString(text) {
			continue
		}
		// First trigger match commits. A failed extraction degrades to
		// unknown — later rules are never consulted.
		ents := rl.extract(r, text)
		if ents == nil {
			return unknownResult(raw)
		}
		return Result{
			Intent:     rl.intent,
			Entities:   *ents,
			Success:    true,
			Confidence: successConfidence,
			Message:    r.message(rl.intent, text, ents),
		}
	}

	return unknownResult(raw)
}

// message resolves the confirmation text for a successful rule match.
func (r *Recognizer) message(intent Intent, text string, ents *Entities) string {
	switch intent {
	case IntentAddItem:
		if ents.defaulted {
			return fmt.Sprintf("Added 1 piece of %s for ₹%s", ents.Name, formatNumber(ents.RateNumber))
		}
		return fmt.Sprintf("Add %s %s %s ₹%s",
			ents.Name, formatNumber(ents.QuantityNumber), ents.Unit, formatNumber(ents.RateNumber))
	case IntentRemoveItem:
		return fmt.Sprintf("Removed %s from bill", ents.Name)
	case IntentResetBill:
		return "Bill has been reset"
	case IntentGenerateInvoice:
		return "Generating invoice"
	case IntentGetTotal:
		return "Getting total amount"
	case IntentLearningMode:
		return "Switching to learning mode"
	case IntentStopListening:
		return "Stopping voice recognition"
	case IntentListItems:
		return "Listing current bill items"
	case IntentRemoveLast:
		return "Removed last item"
	case IntentHelp:
		return "You can say: add item, remove item, list items, clear bill, get total, generate invoice."
	}
	return ""
}

// unknownResult is the degenerate outcome for unmatched or unextractable
// transcripts. The echoed text is the original, non-lower-cased input.
func unknownResult(raw string) Result {
	return Result{
		Intent:     IntentUnknown,
		Entities:   Entities{},
		Success:    false,
		Confidence: unknownConfidence,
		Message:    fmt.Sprintf("Command %q not recognized", raw),
	}
}

// extractRemoveItem captures the product reference after remove/delete. The
// name is not run through product resolution: removal matches against what
// is actually on the bill, which may contain items outside the lexicon.
func (r *Recognizer) extractRemoveItem(text string) *Entities {
	m := removeItemPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return nil
	}
	return &Entities{Name: capitalize(name)}
}

var removeItemPattern = regexp.MustCompile(`(?:remove|delete)\s+(.+)`)

// parseNumber parses a spoken number, tolerating thousands separators
// ("1,200" and "1 200"). Returns ok=false for unparsable or non-finite
// values.
func parseNumber(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// formatNumber renders a parsed number the way it was spoken: no trailing
// zeros, no exponent.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// capitalize upper-cases the first rune for display.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
