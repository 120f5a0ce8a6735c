package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/patent-prophet/internal/domain/patent"
	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
	metrics "github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/prometheus"
)

type fakeWriter struct {
	batches [][]*patent.NormalizedPatent
	err     error
}

func (f *fakeWriter) UpsertBatch(_ context.Context, batch []*patent.NormalizedPatent) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, batch)
	return nil
}

func newTestRunner(source Source, writer Writer) *Runner {
	return NewRunner(source, writer, logging.NewNopLogger(), metrics.NewUnregistered())
}

func TestRunnerIngestsAllPages(t *testing.T) {
	source := &fakeSource{records: makeRecords(12)}
	writer := &fakeWriter{}
	runner := newTestRunner(source, writer)

	result, err := runner.Run(context.Background(), Options{Limit: 50, PageSize: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 12, result.Fetched)
	assert.Equal(t, 12, result.Normalized)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 12, result.Upserted)
	assert.Len(t, writer.batches, 3)
}

func TestRunnerSkipsUnnormalizableRecords(t *testing.T) {
	source := &fakeSource{records: []RawRecord{
		{"publication_number": "US001", "publication_date": 20240101},
		{"publication_date": 20240102}, // no publication number
	}}
	writer := &fakeWriter{}
	runner := newTestRunner(source, writer)

	result, err := runner.Run(context.Background(), Options{Limit: 10, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 1, result.Normalized)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Upserted)
}

func TestRunnerAbortsOnWriteError(t *testing.T) {
	source := &fakeSource{records: makeRecords(5)}
	writer := &fakeWriter{err: assert.AnError}
	runner := newTestRunner(source, writer)

	result, err := runner.Run(context.Background(), Options{Limit: 10, PageSize: 5})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, result.Upserted)
}

func TestRunnerFromRecords(t *testing.T) {
	writer := &fakeWriter{}
	runner := newTestRunner(nil, writer)

	result, err := runner.RunFromRecords(context.Background(), []RawRecord{
		{"publication_number": "US001"},
		{"publication_number": "US002"},
		{"no_id": true},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 2, result.Upserted)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, writer.batches, 1)
	assert.Len(t, writer.batches[0], 2)
}
