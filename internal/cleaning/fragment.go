// Package cleaning drops rows that an upstream export produced by splitting multi-line
// text, and collapses duplicate projects.
package cleaning

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Reason names the rule that rejected a title.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonRawCSV         Reason = "raw-csv"
	ReasonShortFragment  Reason = "short-fragment"
	ReasonLowercaseStart Reason = "lowercase-start"
	ReasonTooShort       Reason = "too-short"
)

const (
	shortFragmentWords = 2
	shortFragmentLen   = 15
	minTitleLen        = 12
)

var (
	trailingCodeExpr   = regexp.MustCompile(`,\d+$`)
	lowercaseStartExpr = regexp.MustCompile(`^[a-z]`)
)

// Verdict is the result of inspecting one title.
type Verdict struct {
	Fragment bool
	Reason   Reason
}

// Inspect applies the fragment rules in order and reports the first one that matches.
func Inspect(name string) Verdict {
	if strings.Contains(name, ",,,") || strings.HasPrefix(name, ",") || trailingCodeExpr.MatchString(name) {
		return Verdict{Fragment: true, Reason: ReasonRawCSV}
	}

	length := utf8.RuneCountInString(name)
	allLower := name != "" && name == strings.ToLower(name)
	if len(strings.Fields(name)) <= shortFragmentWords && (allLower || length < shortFragmentLen) {
		return Verdict{Fragment: true, Reason: ReasonShortFragment}
	}

	if lowercaseStartExpr.MatchString(name) {
		return Verdict{Fragment: true, Reason: ReasonLowercaseStart}
	}

	if length < minTitleLen {
		return Verdict{Fragment: true, Reason: ReasonTooShort}
	}

	return Verdict{}
}

// IsFragment reports whether name looks like a split-off piece of text rather than a title.
func IsFragment(name string) bool {
	return Inspect(name).Fragment
}
