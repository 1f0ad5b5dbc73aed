package cleaning

import (
	"strings"

	"ProjectCatalog/internal/domain"
)

const identifierSeparator = "-"

// Identifier is the duplicate-detection key: the project code, or name and client.
func Identifier(p domain.Project) string {
	id := p.Code
	if id == "" {
		id = p.Name + identifierSeparator + p.Client
	}
	return strings.TrimSpace(strings.ToLower(id))
}

// Dedupe keeps the first project per identifier and preserves input order.
// Projects with an empty identifier are dropped.
func Dedupe(projects []domain.Project) []domain.Project {
	seen := make(map[string]struct{}, len(projects))
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		id := Identifier(p)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, p)
	}
	return out
}
