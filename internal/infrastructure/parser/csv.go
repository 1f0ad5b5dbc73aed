package parser

import (
	"errors"
	"regexp"
	"strings"
)

const byteOrderMark = "\uFEFF"

// ErrEmptyCSV is returned when the document has no data rows after blank lines are dropped.
var ErrEmptyCSV = errors.New("CSV is empty.")

var lineBreakExpr = regexp.MustCompile(`\r?\n`)

// ParseCSV splits text into rows of trimmed fields.
//
// Lines are split before tokenizing, so a quoted field holding a line break is cut in two
// and its tail shows up as a separate row. Downstream cleaning expects exactly that.
func ParseCSV(text string) ([][]string, error) {
	text = strings.TrimPrefix(text, byteOrderMark)

	lines := make([]string, 0)
	for _, line := range lineBreakExpr.Split(text, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) < 2 {
		return nil, ErrEmptyCSV
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, parseLine(line))
	}
	return rows, nil
}

func parseLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}
