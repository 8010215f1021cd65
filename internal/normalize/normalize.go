// Package normalize canonicalises user-supplied palette text: names, tags and
// search queries.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonTagChars     = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
	folder          = cases.Fold()
)

// foldDiacritics decomposes s and drops combining marks: "Crème" -> "Creme".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// stripControl turns whitespace controls (tab, newline) into spaces and
// removes every other control character, including null bytes.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Name tidies a display name: NFC form, no control characters, single spaces.
// Case and accents are preserved.
func Name(s string) string {
	s = norm.NFC.String(stripControl(s))
	return strings.Join(strings.Fields(s), " ")
}

// Query converts a search query into the form matched against names and tags:
// accents folded, case folded, whitespace collapsed.
// "  Crème  BRÛLÉE " -> "creme brulee".
func Query(s string) string {
	s = foldDiacritics(stripControl(s))
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Tag converts free text into a lowercase hyphenated tag.
// "Sea Foam!" -> "sea-foam", "Pâtisserie" -> "patisserie".
func Tag(s string) string {
	s = strings.ToLower(foldDiacritics(s))
	s = nonTagChars.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Tags normalises each tag, dropping empties and duplicates while keeping order.
func Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = Tag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
