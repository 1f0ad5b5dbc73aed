package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"ProjectCatalog/internal/catalog"
	"ProjectCatalog/internal/domain"
)

const (
	categoryPrefix    = "pcatid"
	subcategoryPrefix = "psubcatid"

	// maxClientTypeLen is the first rune count treated as a mis-parsed client type.
	maxClientTypeLen = 40
)

var (
	headerStripExpr = regexp.MustCompile(`[^a-z0-9]`)
	nonDigitExpr    = regexp.MustCompile(`[^0-9]`)
)

// field identifies the project attribute a column feeds.
type field int

const (
	fieldIgnored field = iota
	fieldCode
	fieldName
	fieldYear
	fieldClient
	fieldClientType
	fieldDescription
	fieldCategory
	fieldSubcategory
)

var exactHeaders = map[string]field{
	"projectcode":  fieldCode,
	"projecttitle": fieldName,
	"projectdate":  fieldYear,
	"clientname":   fieldClient,
	"clienttype":   fieldClientType,
	"description":  fieldDescription,
}

// Header is the resolved header row of one import.
type Header struct {
	names  []string
	fields []field
}

// NewHeader normalizes raw header cells and resolves the column each one feeds.
func NewHeader(raw []string) Header {
	h := Header{
		names:  make([]string, len(raw)),
		fields: make([]field, len(raw)),
	}
	for i, cell := range raw {
		name := NormalizeHeader(cell)
		h.names[i] = name
		h.fields[i] = classify(name)
	}
	return h
}

// Names returns the normalized header names in column order.
func (h Header) Names() []string {
	return append([]string{}, h.names...)
}

// NormalizeHeader lowercases a header cell and drops everything but ASCII letters and digits.
func NormalizeHeader(cell string) string {
	return headerStripExpr.ReplaceAllString(strings.ToLower(strings.TrimSpace(cell)), "")
}

func classify(name string) field {
	if f, ok := exactHeaders[name]; ok {
		return f
	}
	switch {
	case strings.HasPrefix(name, subcategoryPrefix):
		return fieldSubcategory
	case strings.HasPrefix(name, categoryPrefix):
		return fieldCategory
	default:
		return fieldIgnored
	}
}

// Build maps one data row onto a project candidate. Missing trailing values are empty.
// Rows are never rejected here; see the cleaning package.
func (h Header) Build(values []string, id string) domain.Project {
	project := domain.Project{ID: id}
	categories := newOrderedSet()
	subcategories := newOrderedSet()

	for i, f := range h.fields {
		if f == fieldIgnored || i >= len(values) {
			continue
		}
		value := strings.TrimSpace(values[i])
		if value == "" {
			continue
		}

		switch f {
		case fieldCode:
			project.Code = value
		case fieldName:
			project.Name = value
		case fieldYear:
			project.Year = value
		case fieldClient:
			project.Client = value
		case fieldClientType:
			if cleaned := catalog.TrimEdges(value); utf8.RuneCountInString(cleaned) < maxClientTypeLen {
				project.ClientType = cleaned
			}
		case fieldDescription:
			project.Description = value
		case fieldCategory:
			name := catalog.TrimEdges(resolveCode(value, catalog.CategoryName))
			if name != "" && !catalog.IsNoCategory(name) {
				categories.add(name)
			}
		case fieldSubcategory:
			if name := catalog.Canonical(resolveCode(value, catalog.SubcategoryName)); name != "" {
				subcategories.add(name)
			}
		}
	}

	project.Categories = categories.items()
	project.Subcategories = subcategories.items()
	return project
}

// resolveCode looks up the digits of value, keeping value itself when there are none or the
// code is unknown.
func resolveCode(value string, lookup func(string) (string, bool)) string {
	code := nonDigitExpr.ReplaceAllString(value, "")
	if code == "" {
		return value
	}
	if name, ok := lookup(code); ok {
		return name
	}
	return value
}

type orderedSet struct {
	seen  map[string]struct{}
	order []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}, order: []string{}}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *orderedSet) items() []string {
	return s.order
}
