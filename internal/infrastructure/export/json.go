package export

import (
	"encoding/json"
	"fmt"
	"io"

	"ProjectCatalog/internal/domain"
)

// DefaultFileName is the suggested download name for an export.
const DefaultFileName = "hagler_bailly_archive.json"

// WriteJSON dumps projects as an indented JSON array.
func WriteJSON(w io.Writer, projects []domain.Project) error {
	if projects == nil {
		projects = []domain.Project{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(projects); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// ReadJSON loads an export produced by WriteJSON.
func ReadJSON(r io.Reader) ([]domain.Project, error) {
	var projects []domain.Project
	if err := json.NewDecoder(r).Decode(&projects); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return projects, nil
}
