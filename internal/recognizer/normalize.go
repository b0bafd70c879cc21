package recognizer

import "strings"

// normalizeSpan lower-cases and trims a captured name span.
func normalizeSpan(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// resolveProduct turns a raw captured product-name span into a canonical
// product name, tolerant of ASR noise and of mixed English/Tamil input.
//
// Resolution order:
//
//  1. Exact mishearing-correction lookup on the full lower-cased span.
//  2. Exact Tamil-script lookup (skipped in English-only mode).
//  3. Exact transliteration lookup (same gate).
//  4. Fuzzy nearest-neighbour over the language-gated candidate set.
//
// When the fuzzy score exceeds the acceptance threshold the span is returned
// unchanged (lower-cased) — an unknown product is not an error, it simply
// stays as spoken.
//
// The second return value reports whether the fuzzy matcher rewrote the span
// into a different candidate. Exact lookups and exact fuzzy hits (distance
// zero) do not count as corrections.
func (r *Recognizer) resolveProduct(span string) (string, bool) {
	name := normalizeSpan(span)
	if name == "" {
		return "", false
	}

	if c, ok := r.lex.Correction(name); ok {
		return c, false
	}

	if r.lang != LangEnglish {
		if c, ok := r.lex.FromTamilScript(name); ok {
			return c, false
		}
		if c, ok := r.lex.FromTransliteration(name); ok {
			return c, false
		}
	}

	candidates := r.lex.Products()
	if r.lang != LangEnglish {
		candidates = appendMissing(candidates, r.lex.TamilProducts())
	}

	if best, _, ok := r.matcher.Match(name, candidates); ok {
		return best, best != name
	}
	return name, false
}

// appendMissing appends the elements of extra not already present in base.
func appendMissing(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, s := range base {
		seen[s] = struct{}{}
	}
	for _, s := range extra {
		if _, ok := seen[s]; !ok {
			base = append(base, s)
			seen[s] = struct{}{}
		}
	}
	return base
}
