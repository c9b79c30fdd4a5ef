package analysis

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stopwords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`
		a about above after again against all also an and any are as at be because been
		before being below between both but by can could did do does doing down during each
		few for from further had has have having he her here hers herself him himself his how
		however i if in into is it its itself just may me might more most must my myself no nor
		not now of off on once only or other our ours ourselves out over own paper papers per
		propose proposed same she should show shows so some such than that the their theirs them
		themselves then there these they this those through thus to too under until up upon us
		use used uses using very via was we were what when where which while who whom why will with
		within without would you your yours yourself yourselves`) {
		stopwords[w] = true
	}
}

// Normalize folds text to lowercase and strips combining marks, so
// "Schrödinger" and "schrodinger" tokenize the same.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return strings.ToLower(out)
}

// Tokens splits normalized text on anything that is not a letter or digit and
// drops stopwords, pure numbers, and tokens shorter than three runes.
func Tokens(text string) []string {
	fields := strings.FieldsFunc(Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 || stopwords[f] || isNumber(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
