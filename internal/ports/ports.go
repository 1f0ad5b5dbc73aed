package ports

import (
	"context"
	"time"

	"ProjectCatalog/internal/domain"
)

// ProjectStore persists the active project set under a single storage key.
type ProjectStore interface {
	// Load returns the stored set; found is false when nothing has been saved yet.
	Load(ctx context.Context) (projects []domain.Project, found bool, err error)
	Save(ctx context.Context, projects []domain.Project) error
}

// Watcher fires a job whenever the watched input changes.
type Watcher interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
