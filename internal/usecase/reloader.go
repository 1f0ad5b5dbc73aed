package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"ProjectCatalog/internal/ports"
)

// Reloader re-imports a CSV file each time the watcher reports a change.
type Reloader struct {
	driver   ports.Watcher
	importer *Importer
	path     string
	logger   *slog.Logger
}

// NewReloader binds a watcher to the importer for the given file.
func NewReloader(driver ports.Watcher, importer *Importer, path string, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reloader{driver: driver, importer: importer, path: path, logger: logger}
}

// Start registers the reload job with the watcher.
func (r *Reloader) Start(ctx context.Context) error {
	if r.driver == nil || r.importer == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := r.Reload(ctx); err != nil {
			r.logger.Error("reload failed", "path", r.path, "trigger", trigger, "error", err)
		}
	}

	return r.driver.Start(ctx, job)
}

// Reload imports the watched file once.
func (r *Reloader) Reload(ctx context.Context) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	res, err := r.importer.Import(ctx, f)
	if err != nil {
		return err
	}
	r.logger.Info("reloaded", "path", r.path, "projects", len(res.Projects))
	return nil
}

// Stop tears down the underlying watcher.
func (r *Reloader) Stop(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}

	return r.driver.Stop(ctx)
}
