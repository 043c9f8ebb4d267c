// Package identity maps external provider records (numeric provider
// IDs, display names) onto canonical golfer rows, minting new short
// code IDs when nothing matches.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNameSplit is returned when a single display name cannot be split
// into first and last parts.
var ErrNameSplit = errors.New("cannot split display name into first and last name")

const idCounterLimit = 99

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NFD only decomposes letters that carry combining marks; these Latin
// letters have no decomposition and would otherwise be dropped by the
// a-z filter instead of folded.
var foldLatin = strings.NewReplacer(
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
	"ł", "l", "Ł", "L",
	"æ", "ae", "Æ", "Ae",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "Th",
	"ß", "ss",
)

// stripDiacritics folds a name fragment to plain Latin letters, so
// "Søren Kjeldsen" and "Soren Kjeldsen" compare equal downstream.
func stripDiacritics(s string) string {
	folded, _, err := transform.String(stripAccents, foldLatin.Replace(s))
	if err != nil {
		return s
	}
	return folded
}

// foldName lowercases a name fragment and drops accents and anything
// that is not a letter.
func foldName(s string) string {
	folded := stripDiacritics(s)
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GenerateGolferID synthesizes a canonical golfer ID from a name:
// last_name[0:5] + first_name[0:2], suffixed with a two digit counter
// incremented until the ID is free in taken. The caller owns taken and
// must register the returned ID in it; checking in memory keeps a
// single ingestion batch from racing its own uncommitted inserts.
func GenerateGolferID(firstName, lastName string, taken map[string]struct{}) (string, error) {
	last := foldName(lastName)
	first := foldName(firstName)
	if last == "" || first == "" {
		return "", fmt.Errorf("golfer id for %q %q: %w", firstName, lastName, ErrNameSplit)
	}
	if len(last) > 5 {
		last = last[:5]
	}
	if len(first) > 2 {
		first = first[:2]
	}

	base := last + first
	for counter := 1; counter <= idCounterLimit; counter++ {
		id := fmt.Sprintf("%s%02d", base, counter)
		if _, exists := taken[id]; !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("exhausted id counter for base %q", base)
}

// SplitDisplayName splits a provider display name into (first, last).
// Providers send "First Last" or "Last, First"; everything after the
// first space belongs to the last name.
func SplitDisplayName(name string) (string, string, error) {
	name = strings.TrimSpace(name)
	if left, right, ok := strings.Cut(name, ","); ok {
		first := strings.TrimSpace(right)
		last := strings.TrimSpace(left)
		if first == "" || last == "" {
			return "", "", fmt.Errorf("display name %q: %w", name, ErrNameSplit)
		}
		return first, last, nil
	}
	first, last, ok := strings.Cut(name, " ")
	if !ok || strings.TrimSpace(first) == "" || strings.TrimSpace(last) == "" {
		return "", "", fmt.Errorf("display name %q: %w", name, ErrNameSplit)
	}
	return strings.TrimSpace(first), strings.TrimSpace(last), nil
}
