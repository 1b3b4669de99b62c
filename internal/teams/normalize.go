package teams

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	genericTokens = regexp.MustCompile(`\b(university|college|state|st\.?|the)\b`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9 ]`)
	spaces        = regexp.MustCompile(`\s+`)
)

// Normalize folds diacritics, lowercases, drops generic tokens such as "university"
// and "state", strips punctuation and collapses whitespace.
func Normalize(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	out := strings.ToLower(folded)
	out = genericTokens.ReplaceAllString(out, "")
	out = nonAlnum.ReplaceAllString(out, "")
	out = spaces.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// Similarity is the Dice coefficient of two normalized names' token sets
func Similarity(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	overlap := 0
	for t := range tokensA {
		if _, ok := tokensB[t]; ok {
			overlap++
		}
	}
	return float64(overlap*2) / float64(len(tokensA)+len(tokensB))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}
