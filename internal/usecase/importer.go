package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ProjectCatalog/internal/cleaning"
	"ProjectCatalog/internal/domain"
	"ProjectCatalog/internal/infrastructure/parser"
	"ProjectCatalog/internal/ports"
)

// ImporterDeps wires the importer's collaborators.
type ImporterDeps struct {
	Source  *parser.CSVSource
	Store   ports.ProjectStore
	Catalog *Catalog
	Logger  *slog.Logger
	Now     func() time.Time
}

// ImportResult describes one completed import. Persisted is false when the store
// rejected the set; the catalog is replaced either way.
type ImportResult struct {
	Batch      string
	ImportedAt time.Time
	Projects   []domain.Project
	Persisted  bool
}

// Importer turns a CSV export into the cleaned, deduplicated project set.
type Importer struct {
	source  *parser.CSVSource
	store   ports.ProjectStore
	catalog *Catalog
	logger  *slog.Logger
	now     func() time.Time
}

// NewImporter constructs the import pipeline.
func NewImporter(deps ImporterDeps) *Importer {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	source := deps.Source
	if source == nil {
		source = parser.NewCSVSource(now, logger)
	}
	return &Importer{
		source:  source,
		store:   deps.Store,
		catalog: deps.Catalog,
		logger:  logger,
		now:     now,
	}
}

// Import reads r to the end and activates the new set, then persists it.
// A structural failure leaves both the store and the catalog untouched. A store
// failure is logged and reported through ImportResult.Persisted only.
func (i *Importer) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	batch := uuid.NewString()
	log := i.logger.With("batch", batch)

	candidates, err := i.source.Read(ctx, r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("parse import: %w", err)
	}
	log.Debug("header resolved", "columns", candidates.Header)

	accepted := make([]domain.Project, 0, len(candidates.Projects))
	for _, p := range candidates.Projects {
		if v := cleaning.Inspect(p.Name); v.Fragment {
			log.Debug("row dropped", "id", p.ID, "reason", v.Reason)
			continue
		}
		accepted = append(accepted, p)
	}
	projects := cleaning.Dedupe(accepted)

	if i.catalog != nil {
		i.catalog.Replace(projects)
	}

	persisted := false
	if i.store != nil {
		if err := i.store.Save(ctx, projects); err != nil {
			log.Warn("persist import failed", "error", err)
		} else {
			persisted = true
		}
	}

	log.Info("import complete", "rows", len(candidates.Projects), "projects", len(projects), "persisted", persisted)
	return ImportResult{Batch: batch, ImportedAt: i.now(), Projects: projects, Persisted: persisted}, nil
}
