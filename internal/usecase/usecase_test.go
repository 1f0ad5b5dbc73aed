package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ProjectCatalog/internal/domain"
	"ProjectCatalog/internal/infrastructure/parser"
)

type memoryStore struct {
	mu       sync.Mutex
	projects []domain.Project
	saved    bool
	loadErr  error
	saveErr  error
	saves    int
}

func (m *memoryStore) Load(context.Context) ([]domain.Project, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	return m.projects, m.saved, nil
}

func (m *memoryStore) Save(_ context.Context, projects []domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.projects = projects
	m.saved = true
	m.saves++
	return nil
}

func newTestImporter(store *memoryStore) (*Importer, *Catalog) {
	cat := NewCatalog(store, nil)
	now := func() time.Time { return time.UnixMilli(1700000000000) }
	return NewImporter(ImporterDeps{Store: store, Catalog: cat, Now: now}), cat
}

const scenarioCSV = `ProjectCode,ProjectTitle,ProjectDate,ClientName,ClientType,PCatID1,PCatID2,PSubCatID1
,"Feasibility Study for Thar Coal Power Project",2015,"Government of Pakistan",Government,2,1,5
,",,,Private Sector Entity",2016,Someone,,2,,
,therefore,,,,,,
HB-204,"Environmental Baseline Survey of Keti Bandar",2009,WWF,"A client type description that is far too long",3,,"Environmental  and Baseline Surveys,"
HB-204,"Completely Different Project Name",2010,WWF,NGO,3,,
`

func TestImportScenarios(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	importer, cat := newTestImporter(store)

	res, err := importer.Import(context.Background(), strings.NewReader(scenarioCSV))
	require.NoError(t, err)
	require.NotEmpty(t, res.Batch)
	require.Len(t, res.Projects, 2)
	assert.True(t, res.Persisted)

	first := res.Projects[0]
	assert.Equal(t, "p-0-1700000000000", first.ID)
	assert.Equal(t, "Feasibility Study for Thar Coal Power Project", first.Name)
	assert.Equal(t, "2015", first.Year)
	assert.Equal(t, "Government of Pakistan", first.Client)
	assert.Equal(t, "Government", first.ClientType)
	assert.Equal(t, []string{"Energy"}, first.Categories)
	assert.Equal(t, []string{"Power Generation and Transformation"}, first.Subcategories)

	second := res.Projects[1]
	assert.Equal(t, "HB-204", second.Code)
	assert.Equal(t, "Environmental Baseline Survey of Keti Bandar", second.Name)
	assert.Empty(t, second.ClientType)
	assert.Equal(t, []string{"Environmental and Baseline Surveys"}, second.Subcategories)

	assert.Equal(t, res.Projects, store.projects)
	assert.Equal(t, res.Projects, cat.Snapshot())
}

func TestImportStructuralFailureKeepsPreviousSet(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	importer, cat := newTestImporter(store)

	_, err := importer.Import(context.Background(), strings.NewReader(scenarioCSV))
	require.NoError(t, err)
	before := cat.Snapshot()

	_, err = importer.Import(context.Background(), strings.NewReader("ProjectTitle,ClientName\n\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrEmptyCSV))
	assert.Equal(t, before, cat.Snapshot())
	assert.Equal(t, 1, store.saves)
}

func TestImportSaveFailureStillActivates(t *testing.T) {
	t.Parallel()

	store := &memoryStore{saveErr: errors.New("disk full")}
	importer, cat := newTestImporter(store)

	res, err := importer.Import(context.Background(), strings.NewReader(scenarioCSV))
	require.NoError(t, err)
	assert.False(t, res.Persisted)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, res.Projects, cat.Snapshot())
}

func TestImportLogsResolvedHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	importer := NewImporter(ImporterDeps{Catalog: NewCatalog(nil, nil), Logger: logger})

	_, err := importer.Import(context.Background(), strings.NewReader(scenarioCSV))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "header resolved")
	assert.Contains(t, buf.String(), "psubcatid1")
}

func TestImportReplacesWholeSet(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	importer, cat := newTestImporter(store)

	_, err := importer.Import(context.Background(), strings.NewReader(scenarioCSV))
	require.NoError(t, err)

	next := "ProjectTitle,ClientName\nGrid Code Compliance Review,NTDC\n"
	_, err = importer.Import(context.Background(), strings.NewReader(next))
	require.NoError(t, err)

	got := cat.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "Grid Code Compliance Review", got[0].Name)
}

func TestCatalogRestore(t *testing.T) {
	t.Parallel()

	stored := []domain.Project{{ID: "p-1", Name: "Stored Project Title", Categories: []string{}, Subcategories: []string{}}}

	cat := NewCatalog(&memoryStore{projects: stored, saved: true}, nil)
	cat.Restore(context.Background())
	assert.Equal(t, stored, cat.Snapshot())

	broken := NewCatalog(&memoryStore{loadErr: errors.New("corrupt")}, nil)
	broken.Restore(context.Background())
	assert.Equal(t, 0, broken.Len())

	missing := NewCatalog(&memoryStore{}, nil)
	missing.Restore(context.Background())
	assert.Equal(t, 0, missing.Len())
}

func TestCatalogSnapshotIsolation(t *testing.T) {
	t.Parallel()

	cat := NewCatalog(nil, nil)
	in := []domain.Project{{Name: "Isolated Project Title", Categories: []string{"Energy"}}}
	cat.Replace(in)
	in[0].Categories[0] = "Mutated"

	snap := cat.Snapshot()
	assert.Equal(t, "Energy", snap[0].Categories[0])
	snap[0].Name = "Changed"
	assert.Equal(t, "Isolated Project Title", cat.Snapshot()[0].Name)
}
