package identity

import (
	"strings"
	"unicode"
)

// NormalizeTokens lowercases, strips accents and punctuation, and
// tokenizes a name or title for overlap matching. "The Memorial
// Tournament pres. by Workday" and "memorial tournament" share the
// tokens {memorial, tournament}.
func NormalizeTokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(stripDiacritics(s)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "and" || f == "the" || f == "by" || f == "pres" {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// BestTokenMatch returns the index of the candidate sharing the most
// normalized tokens with target and the size of that overlap, or -1
// when no candidate overlaps at all. Ties break to the
// first-encountered candidate.
func BestTokenMatch(target string, candidates []string) (int, int) {
	targetSet := tokenSet(NormalizeTokens(target))

	best := -1
	bestOverlap := 0
	for i, candidate := range candidates {
		overlap := 0
		for _, tok := range NormalizeTokens(candidate) {
			if _, ok := targetSet[tok]; ok {
				overlap++
			}
		}
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = i
		}
	}
	return best, bestOverlap
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
