// Package lexicon holds the static vocabulary used by the voice command
// recognizer: canonical measurement units with their spoken aliases,
// canonical product names with Tamil-script and transliteration forms, and a
// small hand-curated table of known ASR mishearings.
//
// A [Lexicon] is immutable after construction and safe for concurrent use.
// It is built once at process start and shared by reference — the recognizer
// never mutates it.
package lexicon

import "strings"

// Option is a functional option for extending a [Lexicon] beyond the built-in
// vocabulary, e.g., from configuration.
type Option func(*builder)

// WithProducts adds extra canonical product names (English) to the product
// set. Names are stored lower-cased; duplicates are ignored.
func WithProducts(names ...string) Option {
	return func(b *builder) {
		b.extraProducts = append(b.extraProducts, names...)
	}
}

// WithCorrections adds extra mishearing corrections. Keys are the misheard
// surface forms, values the canonical product names they resolve to. Entries
// override built-in corrections with the same key.
func WithCorrections(corrections map[string]string) Option {
	return func(b *builder) {
		for k, v := range corrections {
			b.extraCorrections[strings.ToLower(k)] = strings.ToLower(v)
		}
	}
}

// WithTransliterations adds extra Tamil transliteration forms mapping to
// canonical English product names.
func WithTransliterations(forms map[string]string) Option {
	return func(b *builder) {
		for k, v := range forms {
			b.extraTranslit[strings.ToLower(k)] = strings.ToLower(v)
		}
	}
}

type builder struct {
	extraProducts    []string
	extraCorrections map[string]string
	extraTranslit    map[string]string
}

// Lexicon is the read-only vocabulary shared by the recognizer. All lookups
// are exact O(1) map accesses on lower-cased keys.
type Lexicon struct {
	unitAliases map[string]string // surface form → canonical unit
	units       []string          // canonical units, stable order

	products    []string            // canonical English names, lower-cased
	productSet  map[string]struct{} // membership index
	tamilScript map[string]string   // Tamil script form → canonical English
	translit    map[string]string   // transliteration form → canonical English
	tamilNames  []string            // canonical names that carry a Tamil mapping
	corrections map[string]string   // known mishearing → canonical English
}

// New builds a [Lexicon] from the built-in vocabulary plus any options.
func New(opts ...Option) *Lexicon {
	b := &builder{
		extraCorrections: make(map[string]string),
		extraTranslit:    make(map[string]string),
	}
	for _, o := range opts {
		o(b)
	}

	l := &Lexicon{
		unitAliases: make(map[string]string),
		productSet:  make(map[string]struct{}),
		tamilScript: make(map[string]string),
		translit:    make(map[string]string),
		corrections: make(map[string]string),
	}

	for _, u := range canonicalUnits {
		l.units = append(l.units, u.name)
		for _, alias := range u.aliases {
			l.unitAliases[alias] = u.name
		}
	}

	for _, p := range defaultProducts {
		l.addProduct(p.name)
		if p.tamil != "" {
			l.tamilScript[p.tamil] = p.name
		}
		if p.translit != "" {
			l.translit[p.translit] = p.name
		}
		if p.tamil != "" || p.translit != "" {
			l.tamilNames = append(l.tamilNames, p.name)
		}
	}
	for _, name := range b.extraProducts {
		l.addProduct(strings.ToLower(strings.TrimSpace(name)))
	}

	for k, v := range defaultCorrections {
		l.corrections[k] = v
	}
	for k, v := range b.extraCorrections {
		l.corrections[k] = v
	}
	for k, v := range b.extraTranslit {
		l.translit[k] = v
		if _, seen := l.productSet[v]; !seen {
			l.addProduct(v)
		}
		l.tamilNames = append(l.tamilNames, v)
	}

	return l
}

func (l *Lexicon) addProduct(name string) {
	if name == "" {
		return
	}
	if _, ok := l.productSet[name]; ok {
		return
	}
	l.productSet[name] = struct{}{}
	l.products = append(l.products, name)
}

// NormalizeUnit collapses a surface unit token to its canonical form.
// Unknown units pass through lower-cased unchanged — they are not rejected.
// An empty token normalizes to the empty string.
func (l *Lexicon) NormalizeUnit(unit string) string {
	s := strings.ToLower(strings.TrimSpace(unit))
	if s == "" {
		return ""
	}
	if canon, ok := l.unitAliases[s]; ok {
		return canon
	}
	return s
}

// Units returns the canonical unit names in stable order.
func (l *Lexicon) Units() []string {
	out := make([]string, len(l.units))
	copy(out, l.units)
	return out
}

// UnitAliases returns every known surface form, longest first, so that a
// regex alternation built from it matches greedily ("liters" before "l").
func (l *Lexicon) UnitAliases() []string {
	out := make([]string, 0, len(l.unitAliases))
	for alias := range l.unitAliases {
		out = append(out, alias)
	}
	// Insertion sort by descending length; the list is small.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && longerOrEqual(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func longerOrEqual(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a <= b
}

// Products returns all canonical English product names, lower-cased.
func (l *Lexicon) Products() []string {
	out := make([]string, len(l.products))
	copy(out, l.products)
	return out
}

// TamilProducts returns the canonical names that carry a Tamil-script or
// transliteration form.
func (l *Lexicon) TamilProducts() []string {
	out := make([]string, len(l.tamilNames))
	copy(out, l.tamilNames)
	return out
}

// Correction resolves a known mishearing to its canonical product name.
func (l *Lexicon) Correction(s string) (string, bool) {
	c, ok := l.corrections[strings.ToLower(s)]
	return c, ok
}

// FromTamilScript resolves a Tamil-script product form to its canonical
// English name.
func (l *Lexicon) FromTamilScript(s string) (string, bool) {
	c, ok := l.tamilScript[strings.TrimSpace(s)]
	return c, ok
}

// FromTransliteration resolves a Tamil transliteration form to its canonical
// English name.
func (l *Lexicon) FromTransliteration(s string) (string, bool) {
	c, ok := l.translit[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// IsProduct reports whether name is a known canonical product.
func (l *Lexicon) IsProduct(name string) bool {
	_, ok := l.productSet[strings.ToLower(name)]
	return ok
}
