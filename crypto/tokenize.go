package crypto

import (
	"strings"
	"unicode"
)

// Tokenize splits free text into normalized searchable terms: whitespace
// separated, lowercased, with non-alphanumeric characters stripped from each
// token. Empty results are discarded and duplicates removed, preserving
// first-appearance order so the output is deterministic for a given input.
func Tokenize(text string) []string {
	words := strings.Fields(text)
	seen := make(map[string]bool, len(words))
	terms := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := stripNonAlnum(strings.ToLower(word))
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		terms = append(terms, cleaned)
	}

	return terms
}

// stripNonAlnum removes every character that is not a letter or digit.
// "#19." becomes "19", matching how terms are hashed at index time.
func stripNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
