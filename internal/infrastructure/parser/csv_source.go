package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"ProjectCatalog/internal/domain"
)

// Candidates is the raw outcome of reading one CSV document.
type Candidates struct {
	Header   []string
	Projects []domain.Project
}

// CSVSource turns a CSV document into project candidates.
type CSVSource struct {
	now    func() time.Time
	logger *slog.Logger
}

// NewCSVSource builds a source; a nil clock defaults to time.Now.
func NewCSVSource(now func() time.Time, log *slog.Logger) *CSVSource {
	if now == nil {
		now = time.Now
	}
	return &CSVSource{now: now, logger: log}
}

// Read consumes r fully and builds one candidate per data row, in file order.
func (s *CSVSource) Read(ctx context.Context, r io.Reader) (Candidates, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Candidates{}, fmt.Errorf("read csv: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Candidates{}, err
	}

	rows, err := ParseCSV(string(raw))
	if err != nil {
		return Candidates{}, err
	}

	header := NewHeader(rows[0])
	stamp := s.now().UnixMilli()
	s.debug("csv parsed", "rows", len(rows)-1, "columns", len(rows[0]))

	projects := make([]domain.Project, 0, len(rows)-1)
	for idx, values := range rows[1:] {
		projects = append(projects, header.Build(values, rowID(idx, stamp)))
	}

	return Candidates{Header: header.Names(), Projects: projects}, nil
}

func rowID(idx int, stamp int64) string {
	return fmt.Sprintf("p-%d-%d", idx, stamp)
}

func (s *CSVSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
