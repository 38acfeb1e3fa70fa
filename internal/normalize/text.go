package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)

	// featuringPattern trims featuring-artist markers and everything after them.
	featuringPattern = regexp.MustCompile(`\s*[(\[]?\s*\b(?:feat\.?|ft\.?|featuring)\s+[^)\]]*[)\]]?\s*`)

	// parentheticalPattern trims trailing parenthetical and bracketed suffixes
	// such as "(Official Video)" or "[HD]".
	parentheticalPattern = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]\s*$`)

	nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

	// foldTransformer decomposes accented characters and strips the combining
	// marks, so "Beyoncé" and "Beyonce" normalize identically.
	foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// CleanText collapses whitespace and trims a display text field. It leaves
// casing and punctuation intact; display text is never used for matching.
func CleanText(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// MatchText derives the normalized-for-matching variant of a text field:
// Unicode-folded, lowercased, stripped of featuring markers and trailing
// parentheticals, with punctuation collapsed to single spaces.
func MatchText(text string) string {
	folded, _, err := transform.String(foldTransformer, text)
	if err != nil {
		folded = text
	}
	lowered := strings.ToLower(folded)
	lowered = featuringPattern.ReplaceAllString(lowered, " ")
	for {
		stripped := parentheticalPattern.ReplaceAllString(lowered, "")
		if stripped == lowered {
			break
		}
		lowered = stripped
	}
	return strings.TrimSpace(nonAlnumPattern.ReplaceAllString(lowered, " "))
}
