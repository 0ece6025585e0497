package dialogue

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	leadingArticle = regexp.MustCompile(`(?i)^(?:a|an|the)\s+`)
	placeNoise     = regexp.MustCompile(`(?i)\b(?:as|in the area|area|for|keywords?|working[- ]student|internship|radius|within)\b.*$`)
	keywordFiller  = regexp.MustCompile(`(?i)\b(?:or something like that|or something|or so|etc)\b\.?`)
	spaces         = regexp.MustCompile(`\s{2,}`)
)

// NormalizePlace cleans a raw place candidate: it drops leading articles and everything
// from the first noise marker on, keeps the part before the first comma and upper-cases
// the first letter. An empty result means there is no usable place.
func NormalizePlace(raw string) string {
	p := strings.TrimSpace(raw)
	p = leadingArticle.ReplaceAllString(p, "")
	p = strings.TrimSpace(placeNoise.ReplaceAllString(p, ""))
	p, _, _ = strings.Cut(p, ",")
	p = strings.TrimSpace(spaces.ReplaceAllString(p, " "))
	if p == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(p)
	return string(unicode.ToUpper(r)) + p[size:]
}

// NormalizeKeywords strips filler phrases and collapses whitespace.
func NormalizeKeywords(raw string) string {
	k := keywordFiller.ReplaceAllString(strings.TrimSpace(raw), "")
	return strings.TrimSpace(spaces.ReplaceAllString(k, " "))
}
