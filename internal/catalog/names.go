package catalog

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningMark matches the Combining Diacritical Marks block (U+0300..U+036F)
var combiningMark = runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
})

// NormalizeName folds a meteorite name for lookups: decomposed, stripped of
// accents and lower-cased. "Ãbëe" and "abee" share the same key.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(combiningMark))
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(folded)
}
