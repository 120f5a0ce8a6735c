package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
	metrics "github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/prometheus"
	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

type fakeRepo struct {
	rows      []SearchRow
	err       error
	calls     int
	lastQuery string
	lastLimit int
}

func (f *fakeRepo) Search(_ context.Context, query string, limit int) ([]SearchRow, error) {
	f.calls++
	f.lastQuery = query
	f.lastLimit = limit
	return f.rows, f.err
}

type fakeCache struct {
	entries map[string][]Result
	sets    int
}

func (f *fakeCache) Key(query string, limit int) string { return query }

func (f *fakeCache) Get(_ context.Context, key string, dest any) bool {
	cached, ok := f.entries[key]
	if !ok {
		return false
	}
	*dest.(*[]Result) = cached
	return true
}

func (f *fakeCache) Set(_ context.Context, key string, value any) {
	if f.entries == nil {
		f.entries = map[string][]Result{}
	}
	f.entries[key] = value.([]Result)
	f.sets++
}

func newTestService(repo Repository, cache Cache) *Service {
	return NewService(repo, cache, logging.NewNopLogger(), metrics.NewUnregistered())
}

func TestSearchRejectsShortQuery(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil)

	for _, q := range []string{"", "a", "  a  "} {
		_, err := svc.Search(context.Background(), q, 10)
		require.Error(t, err, "query %q", q)
		assert.Equal(t, appErrors.CodeSearchQueryInvalid, appErrors.GetCode(err))
	}
}

func TestSearchClampsLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	_, err := svc.Search(context.Background(), "solar", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, repo.lastLimit)

	_, err = svc.Search(context.Background(), "solar", 500)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, repo.lastLimit)

	_, err = svc.Search(context.Background(), "solar", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, repo.lastLimit)
}

func TestSearchAssemblesResults(t *testing.T) {
	repo := &fakeRepo{rows: []SearchRow{
		{
			ID:              "US123",
			Title:           "Solar panel",
			Abstract:        "A panel.",
			PublicationDate: "2024-03-15",
			CPCCodes:        "H02S20/00, H02S30/00",
			IPCCodes:        "H02S20/00",
			Assignee:        "Acme",
			Inventors:       []string{"Jane Doe"},
		},
		{ID: "US124"}, // everything absent, display fallbacks apply
	}}
	svc := newTestService(repo, nil)

	results, err := svc.Search(context.Background(), "solar panel", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "US123", first.Patent.ID)
	assert.Equal(t, []string{"H02S20/00", "H02S30/00"}, first.Patent.Classifications)
	assert.InDelta(t, 0.98, first.Score, 1e-9)
	assert.Equal(t, []string{"H02S20/00", "H02S30/00", "solar", "panel"}, first.Highlights)

	second := results[1]
	assert.Equal(t, "Untitled patent", second.Patent.Title)
	assert.Equal(t, "Unknown", second.Patent.PublicationDate)
	assert.Equal(t, "Unknown assignee", second.Patent.Assignee)
	assert.Equal(t, []string{"Unknown inventor"}, second.Patent.Inventors)
	assert.InDelta(t, 0.3, second.Score, 1e-9)
	assert.Equal(t, []string{"solar", "panel"}, second.Highlights)
}

func TestSearchEmptyMatchIsNotAnError(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil)
	results, err := svc.Search(context.Background(), "nothing here", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchCacheHitBypassesRepository(t *testing.T) {
	repo := &fakeRepo{rows: []SearchRow{{ID: "US123", Title: "Solar"}}}
	cache := &fakeCache{}
	svc := newTestService(repo, cache)

	first, err := svc.Search(context.Background(), "solar", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Search(context.Background(), "solar", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "second request must be served from cache")
	assert.Equal(t, first, second)
}

func TestSearchWrapsRepositoryError(t *testing.T) {
	svc := newTestService(&fakeRepo{err: assert.AnError}, nil)
	_, err := svc.Search(context.Background(), "solar", 10)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeSearchFailed, appErrors.GetCode(err))
}
