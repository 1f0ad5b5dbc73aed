package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"ProjectCatalog/internal/config"
	"ProjectCatalog/internal/domain"
	"ProjectCatalog/internal/infrastructure/export"
	"ProjectCatalog/internal/infrastructure/httpapi"
	"ProjectCatalog/internal/infrastructure/parser"
	"ProjectCatalog/internal/infrastructure/storage"
	"ProjectCatalog/internal/infrastructure/watcher"
	"ProjectCatalog/internal/logging"
	"ProjectCatalog/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.SQLiteStore
	catalog  *usecase.Catalog
	importer *usecase.Importer
}

// New opens storage, restores the saved catalog and builds the import pipeline.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.OpenSQLite(ctx, cfg.Storage.Path, cfg.Storage.Key)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	catalog := usecase.NewCatalog(store, baseLogger.With("component", "catalog"))
	catalog.Restore(ctx)

	importer := usecase.NewImporter(usecase.ImporterDeps{
		Source:  parser.NewCSVSource(nil, baseLogger.With("component", "source")),
		Store:   store,
		Catalog: catalog,
		Logger:  baseLogger.With("component", "importer"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		catalog:  catalog,
		importer: importer,
	}, nil
}

// Close releases storage.
func (a *Application) Close() error {
	return a.store.Close()
}

// Import runs one CSV import.
func (a *Application) Import(ctx context.Context, r io.Reader) (usecase.ImportResult, error) {
	return a.importer.Import(ctx, r)
}

// Projects returns the filtered, sorted view of the active catalog.
func (a *Application) Projects(filter domain.Filter, order domain.SortConfig) []domain.Project {
	return usecase.Query(a.catalog.Snapshot(), filter, order)
}

// Facets summarizes the active catalog for filter controls.
func (a *Application) Facets(selected []string) httpapi.FacetsResponse {
	projects := a.catalog.Snapshot()
	return httpapi.FacetsResponse{
		Categories:    usecase.Categories(projects),
		Subcategories: usecase.AvailableSubcategories(projects, selected),
		ClientTypes:   usecase.ClientTypes(projects),
		Years:         usecase.YearBounds(projects),
	}
}

// Export writes the active catalog as indented JSON.
func (a *Application) Export(w io.Writer) error {
	return export.WriteJSON(w, a.catalog.Snapshot())
}

// Serve runs the HTTP API until ctx is cancelled. With watchPath set, the file is
// re-imported on every change.
func (a *Application) Serve(ctx context.Context, watchPath string) error {
	server, err := httpapi.NewServer(a.catalog, a.importer, a.logger.With("component", "http"), httpapi.Config{
		Host:           a.cfg.Server.Host,
		Port:           a.cfg.Server.Port,
		ExportFileName: a.cfg.Export.FileName,
		MaxUploadBytes: a.cfg.Server.MaxUploadBytes,
	})
	if err != nil {
		return err
	}

	if watchPath != "" {
		reloader := usecase.NewReloader(
			watcher.NewFileWatcher(watchPath, 0, a.logger.With("component", "watcher")),
			a.importer, watchPath, a.logger.With("component", "reloader"),
		)
		if err := reloader.Start(ctx); err != nil {
			return fmt.Errorf("watch %s: %w", watchPath, err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := reloader.Stop(stopCtx); err != nil {
				a.logger.Warn("stop watcher", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
