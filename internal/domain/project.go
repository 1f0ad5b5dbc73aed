package domain

// Project is a single cleaned archive record produced by an import.
type Project struct {
	ID            string   `json:"id"`
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
	Year          string   `json:"year"`
	Client        string   `json:"client"`
	ClientType    string   `json:"clientType"`
}

// Clone returns a copy that shares no slices with p.
func (p Project) Clone() Project {
	p.Categories = append([]string{}, p.Categories...)
	p.Subcategories = append([]string{}, p.Subcategories...)
	return p
}

// YearRange bounds the project year inclusively.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Filter describes the active search and facet selection.
type Filter struct {
	Search        string     `json:"search"`
	Categories    []string   `json:"categories"`
	Subcategories []string   `json:"subcategories"`
	Years         *YearRange `json:"yearRange,omitempty"`
}

// FocusCategory narrows the filter to a single category and drops the subcategory selection.
func (f Filter) FocusCategory(category string) Filter {
	f.Categories = []string{category}
	f.Subcategories = nil
	return f
}

// FocusSubcategory narrows the filter to a single, already canonical, subcategory.
func (f Filter) FocusSubcategory(subcategory string) Filter {
	f.Subcategories = []string{subcategory}
	return f
}

// SortKey enumerates sortable columns.
type SortKey string

const (
	SortByName   SortKey = "name"
	SortByYear   SortKey = "year"
	SortByClient SortKey = "client"
)

// SortDirection is either ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortConfig is the active sort column and direction.
type SortConfig struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort orders the archive newest first.
func DefaultSort() SortConfig {
	return SortConfig{Key: SortByYear, Direction: Descending}
}

// Toggle flips the direction when key is already active, otherwise starts descending on key.
func (s SortConfig) Toggle(key SortKey) SortConfig {
	if s.Key == key {
		if s.Direction == Ascending {
			return SortConfig{Key: key, Direction: Descending}
		}
		return SortConfig{Key: key, Direction: Ascending}
	}
	return SortConfig{Key: key, Direction: Descending}
}

// ParseSortKey maps user input to a SortKey; ok is false for unknown keys.
func ParseSortKey(value string) (SortKey, bool) {
	switch SortKey(value) {
	case SortByName, SortByYear, SortByClient:
		return SortKey(value), true
	default:
		return "", false
	}
}
