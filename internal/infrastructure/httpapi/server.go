// Package httpapi serves the archive viewer over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"ProjectCatalog/internal/domain"
	"ProjectCatalog/internal/infrastructure/export"
	"ProjectCatalog/internal/infrastructure/parser"
	"ProjectCatalog/internal/infrastructure/render"
	"ProjectCatalog/internal/usecase"
)

const defaultMaxUploadBytes = 32 << 20

// Config holds HTTP server configuration.
type Config struct {
	Host           string
	Port           int
	ExportFileName string
	MaxUploadBytes int64
}

// Server exposes import, query, facet and export endpoints.
type Server struct {
	echo     *echo.Echo
	catalog  *usecase.Catalog
	importer *usecase.Importer
	logger   *slog.Logger
	config   Config
}

// NewServer creates a new HTTP server.
func NewServer(catalog *usecase.Catalog, importer *usecase.Importer, logger *slog.Logger, cfg Config) (*Server, error) {
	if catalog == nil || importer == nil {
		return nil, fmt.Errorf("catalog and importer are required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ExportFileName == "" {
		cfg.ExportFileName = export.DefaultFileName
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"duration", time.Since(start),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return err
		}
	})

	s := &Server{
		echo:     e,
		catalog:  catalog,
		importer: importer,
		logger:   logger,
		config:   cfg,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/", s.handlePage)

	v1 := s.echo.Group("/api/v1")
	v1.GET("/projects", s.handleProjects)
	v1.GET("/facets", s.handleFacets)
	v1.POST("/import", s.handleImport, middleware.BodyLimit(strconv.FormatInt(s.config.MaxUploadBytes, 10)))
	v1.GET("/export", s.handleExport)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Projects int    `json:"projects"`
}

// ProjectsResponse is the response body for GET /api/v1/projects.
type ProjectsResponse struct {
	Total    int              `json:"total"`
	Projects []domain.Project `json:"projects"`
}

// FacetsResponse is the response body for GET /api/v1/facets.
type FacetsResponse struct {
	Categories    []string         `json:"categories"`
	Subcategories []string         `json:"subcategories"`
	ClientTypes   []string         `json:"clientTypes"`
	Years         domain.YearRange `json:"years"`
}

// ImportResponse is the response body for POST /api/v1/import.
type ImportResponse struct {
	Batch     string `json:"batch"`
	Projects  int    `json:"projects"`
	Persisted bool   `json:"persisted"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Projects: s.catalog.Len()})
}

func (s *Server) handleProjects(c echo.Context) error {
	filter, order, err := parseQuery(c)
	if err != nil {
		return err
	}
	projects := usecase.Query(s.catalog.Snapshot(), filter, order)
	return c.JSON(http.StatusOK, ProjectsResponse{Total: len(projects), Projects: projects})
}

func (s *Server) handleFacets(c echo.Context) error {
	projects := s.catalog.Snapshot()
	return c.JSON(http.StatusOK, FacetsResponse{
		Categories:    usecase.Categories(projects),
		Subcategories: usecase.AvailableSubcategories(projects, c.QueryParams()["category"]),
		ClientTypes:   usecase.ClientTypes(projects),
		Years:         usecase.YearBounds(projects),
	})
}

func (s *Server) handlePage(c echo.Context) error {
	filter, order, err := parseQuery(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	view := render.View{
		Projects: usecase.Query(s.catalog.Snapshot(), filter, order),
		Filter:   filter,
		Sort:     order,
	}
	if err := render.Table(&buf, view); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) handleImport(c echo.Context) error {
	body, err := uploadBody(c)
	if err != nil {
		return err
	}
	defer body.Close()

	res, err := s.importer.Import(c.Request().Context(), body)
	if err != nil {
		if tooLarge(err) {
			return echo.ErrStatusRequestEntityTooLarge
		}
		if errors.Is(err, parser.ErrEmptyCSV) {
			return echo.NewHTTPError(http.StatusBadRequest, parser.ErrEmptyCSV.Error())
		}
		s.logger.Error("import failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "import failed")
	}
	return c.JSON(http.StatusOK, ImportResponse{Batch: res.Batch, Projects: len(res.Projects), Persisted: res.Persisted})
}

func (s *Server) handleExport(c echo.Context) error {
	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, s.catalog.Snapshot()); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", s.config.ExportFileName))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, buf.Bytes())
}

// uploadBody accepts either a multipart "file" field or a raw request body.
// Non-multipart bodies are passed through unread, whatever their content type.
func uploadBody(c echo.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return c.Request().Body, nil
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			return nil, echo.ErrStatusRequestEntityTooLarge
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "missing upload field \"file\"")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "cannot open upload")
	}
	return f, nil
}

// tooLarge reports whether err came from reading past the upload limit.
func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.Is(err, echo.ErrStatusRequestEntityTooLarge) || errors.As(err, &maxErr)
}

func parseQuery(c echo.Context) (domain.Filter, domain.SortConfig, error) {
	params := c.QueryParams()
	filter := domain.Filter{
		Search:        c.QueryParam("search"),
		Categories:    params["category"],
		Subcategories: params["subcategory"],
	}

	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from != "" || to != "" {
		bounds := usecase.YearBounds(nil)
		var err error
		if from != "" {
			if bounds.From, err = strconv.Atoi(from); err != nil {
				return filter, domain.SortConfig{}, echo.NewHTTPError(http.StatusBadRequest, "invalid from year")
			}
		}
		if to != "" {
			if bounds.To, err = strconv.Atoi(to); err != nil {
				return filter, domain.SortConfig{}, echo.NewHTTPError(http.StatusBadRequest, "invalid to year")
			}
		}
		filter.Years = &bounds
	}

	order := domain.DefaultSort()
	if raw := c.QueryParam("sort"); raw != "" {
		key, ok := domain.ParseSortKey(raw)
		if !ok {
			return filter, order, echo.NewHTTPError(http.StatusBadRequest, "invalid sort key")
		}
		order = domain.SortConfig{Key: key, Direction: domain.Descending}
	}
	switch c.QueryParam("dir") {
	case "":
	case string(domain.Ascending):
		order.Direction = domain.Ascending
	case string(domain.Descending):
		order.Direction = domain.Descending
	default:
		return filter, order, echo.NewHTTPError(http.StatusBadRequest, "invalid sort direction")
	}

	return filter, order, nil
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
