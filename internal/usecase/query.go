package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ProjectCatalog/internal/catalog"
	"ProjectCatalog/internal/domain"
)

const (
	defaultMinYear = 1980
	defaultMaxYear = 2030
)

var yearExpr = regexp.MustCompile(`\d{4}`)

// ExtractYear returns the first four-digit run in a free-text date.
func ExtractYear(value string) (int, bool) {
	match := yearExpr.FindString(value)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

// Query filters and sorts projects. The input slice is not modified.
func Query(projects []domain.Project, filter domain.Filter, order domain.SortConfig) []domain.Project {
	search := strings.ToLower(filter.Search)
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if !matchesSearch(p, search) ||
			!matchesAny(p.Categories, filter.Categories, nil) ||
			!matchesAny(p.Subcategories, filter.Subcategories, catalog.Canonical) ||
			!matchesYears(p, filter.Years) {
			continue
		}
		out = append(out, p)
	}

	if order.Key != "" {
		sortProjects(out, order)
	}
	return out
}

func matchesSearch(p domain.Project, search string) bool {
	if search == "" {
		return true
	}
	for _, field := range []string{p.Name, p.Client, p.ClientType, p.Description} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func matchesAny(values, selected []string, fold func(string) string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, v := range values {
		if fold != nil {
			v = fold(v)
		}
		for _, s := range selected {
			if v == s {
				return true
			}
		}
	}
	return false
}

func matchesYears(p domain.Project, years *domain.YearRange) bool {
	if years == nil {
		return true
	}
	year, ok := ExtractYear(p.Year)
	if !ok {
		return true
	}
	return year >= years.From && year <= years.To
}

func sortProjects(projects []domain.Project, order domain.SortConfig) {
	less := func(a, b domain.Project) int {
		switch order.Key {
		case domain.SortByYear:
			ya, _ := ExtractYear(a.Year)
			yb, _ := ExtractYear(b.Year)
			return ya - yb
		case domain.SortByName:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case domain.SortByClient:
			return strings.Compare(strings.ToLower(a.Client), strings.ToLower(b.Client))
		default:
			return 0
		}
	}

	sort.SliceStable(projects, func(i, j int) bool {
		c := less(projects[i], projects[j])
		if order.Direction == domain.Ascending {
			return c < 0
		}
		return c > 0
	})
}

// Categories lists the distinct categories in use, sorted.
func Categories(projects []domain.Project) []string {
	set := map[string]struct{}{}
	for _, p := range projects {
		for _, c := range p.Categories {
			if c = strings.TrimSpace(c); c != "" {
				set[c] = struct{}{}
			}
		}
	}
	return sortedKeys(set)
}

// ClientTypes lists the distinct client types in use, sorted.
func ClientTypes(projects []domain.Project) []string {
	set := map[string]struct{}{}
	for _, p := range projects {
		if ct := strings.TrimSpace(p.ClientType); ct != "" {
			set[ct] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// AvailableSubcategories lists canonical subcategories in use. With categories selected,
// only subcategories whose parent is among them are listed.
func AvailableSubcategories(projects []domain.Project, selected []string) []string {
	wanted := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		wanted[c] = struct{}{}
	}

	set := map[string]struct{}{}
	for _, p := range projects {
		for _, s := range p.Subcategories {
			if s == "" {
				continue
			}
			name := catalog.Canonical(s)
			if len(wanted) > 0 {
				parent, ok := catalog.ParentCategory(name)
				if !ok {
					continue
				}
				if _, keep := wanted[parent]; !keep {
					continue
				}
			}
			set[name] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// YearBounds returns the span of plausible project years, or a fixed default span.
func YearBounds(projects []domain.Project) domain.YearRange {
	bounds := domain.YearRange{}
	found := false
	for _, p := range projects {
		year, ok := ExtractYear(p.Year)
		if !ok || year <= 1950 || year >= 2100 {
			continue
		}
		if !found || year < bounds.From {
			bounds.From = year
		}
		if !found || year > bounds.To {
			bounds.To = year
		}
		found = true
	}
	if !found {
		return domain.YearRange{From: defaultMinYear, To: defaultMaxYear}
	}
	return bounds
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
