package catalog

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nonWordExpr    = regexp.MustCompile(`[^\w\s]`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

// canonicalByNormalized maps the folded form of every subcategory name back to the name.
var canonicalByNormalized = buildCanonicalLookup()

func buildCanonicalLookup() map[string]string {
	lookup := make(map[string]string, len(subcategoryNames))
	for _, name := range subcategoryNames {
		lookup[Normalize(name)] = name
	}
	return lookup
}

// Normalize folds case, punctuation and whitespace so spellings of one name compare equal.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWordExpr.ReplaceAllString(s, "")
	s = whitespaceExpr.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Canonical maps a subcategory spelling to its canonical table name.
// Unknown input is returned with surrounding commas and whitespace removed, casing intact.
func Canonical(s string) string {
	if name, ok := canonicalByNormalized[Normalize(s)]; ok {
		return name
	}
	return TrimEdges(s)
}

// TrimEdges strips leading and trailing commas and whitespace.
func TrimEdges(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
