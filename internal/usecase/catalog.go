package usecase

import (
	"context"
	"log/slog"
	"sync/atomic"

	"ProjectCatalog/internal/domain"
	"ProjectCatalog/internal/ports"
)

// Catalog holds the active project set. Readers always see a complete set.
type Catalog struct {
	current atomic.Pointer[[]domain.Project]
	store   ports.ProjectStore
	logger  *slog.Logger
}

// NewCatalog builds an empty catalog backed by store, which may be nil.
func NewCatalog(store ports.ProjectStore, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Catalog{store: store, logger: logger}
	empty := []domain.Project{}
	c.current.Store(&empty)
	return c
}

// Restore loads the last saved set. Missing or unreadable data leaves the catalog empty.
func (c *Catalog) Restore(ctx context.Context) {
	if c.store == nil {
		return
	}

	projects, found, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("stored catalog unreadable, starting empty", "error", err)
		return
	}
	if !found {
		c.logger.Debug("no stored catalog")
		return
	}

	c.Replace(projects)
	c.logger.Info("catalog restored", "projects", len(projects))
}

// Replace swaps in a new set. Concurrent callers race; the last one wins.
func (c *Catalog) Replace(projects []domain.Project) {
	snapshot := cloneAll(projects)
	c.current.Store(&snapshot)
}

// Snapshot returns a copy of the active set.
func (c *Catalog) Snapshot() []domain.Project {
	return cloneAll(*c.current.Load())
}

// Len reports the size of the active set.
func (c *Catalog) Len() int {
	return len(*c.current.Load())
}

func cloneAll(projects []domain.Project) []domain.Project {
	out := make([]domain.Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}
