package newswatch

import "strings"

// MatchKeyword returns the first keyword (in keyword-list order) found
// in text, using case-insensitive substring containment. The second
// return value reports whether any keyword matched.
func MatchKeyword(keywords []string, text string) (string, bool) {
	if text == "" {
		return "", false
	}

	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return kw, true
		}
	}

	return "", false
}

// MatchEntry evaluates candidate text fields strictly in the order
// given (title, then summary, then content fragments) and returns the
// first keyword found in the first matching field. A later field never
// overrides an earlier field's match, even for a keyword that appears
// earlier in the keyword list.
func MatchEntry(keywords []string, fields []string) (string, bool) {
	for _, field := range fields {
		if kw, ok := MatchKeyword(keywords, field); ok {
			return kw, true
		}
	}

	return "", false
}
