package classify

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var markupExpr = regexp.MustCompile(`<[^>]*>`)

// DisplayTitle strips markup fragments and decodes HTML entities while
// keeping case and punctuation. This is the form stored in the sink.
func DisplayTitle(raw string) string {
	s := markupExpr.ReplaceAllString(raw, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// MatchText is the form token matching runs over: decoded, NFKC-folded so
// fullwidth variants collapse, lowercased, whitespace collapsed.
func MatchText(raw string) string {
	s := norm.NFKC.String(DisplayTitle(raw))
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// ComparisonKey reduces a title to its letters and digits. Works over any
// script; used only for duplicate comparison, never displayed.
func ComparisonKey(raw string) string {
	var b strings.Builder
	for _, r := range MatchText(raw) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeToken prepares a configured vocabulary token for matching
// against MatchText output.
func NormalizeToken(tok string) string {
	s := norm.NFKC.String(tok)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
