package ingest

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

// fakeSource serves an in-memory record set sorted by (date, id), applying
// the same strictly-greater cursor filter a real source would.
type fakeSource struct {
	records []RawRecord
	calls   int
	err     error
}

func (f *fakeSource) FetchPage(_ context.Context, req PageRequest) ([]RawRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var page []RawRecord
	for _, record := range f.records {
		if req.Cursor != nil {
			date := DateToInt(NormalizeDate(record["publication_date"]))
			id := readString(record["publication_number"])
			if date < req.Cursor.Date || (date == req.Cursor.Date && id <= req.Cursor.PublicationNumber) {
				continue
			}
		}
		page = append(page, record)
		if len(page) == req.PageSize {
			break
		}
	}
	return page, nil
}

func makeRecords(n int) []RawRecord {
	records := make([]RawRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, RawRecord{
			// Several ids share a date so the secondary-key comparison is
			// actually exercised.
			"publication_number": fmt.Sprintf("US%03d", i),
			"publication_date":   20240101 + i/3,
		})
	}
	sort.Slice(records, func(a, b int) bool {
		da := records[a]["publication_date"].(int)
		db := records[b]["publication_date"].(int)
		if da != db {
			return da < db
		}
		return records[a]["publication_number"].(string) < records[b]["publication_number"].(string)
	})
	return records
}

func collectIDs(t *testing.T, source Source, pageSize, limit int) []string {
	t.Helper()
	walker := NewWalker(source, pageSize, limit, "", "", false)
	var ids []string
	fetched, err := walker.Walk(context.Background(), func(_ context.Context, page []RawRecord) error {
		for _, record := range page {
			ids = append(ids, record["publication_number"].(string))
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, len(ids), fetched)
	return ids
}

func TestWalkerVisitsEachRecordExactlyOnce(t *testing.T) {
	records := makeRecords(17)
	for _, pageSize := range []int{1, 3, 5, 17, 50} {
		t.Run(fmt.Sprintf("pageSize=%d", pageSize), func(t *testing.T) {
			ids := collectIDs(t, &fakeSource{records: records}, pageSize, 100)
			assert.Len(t, ids, 17)
			seen := map[string]int{}
			for _, id := range ids {
				seen[id]++
			}
			for id, count := range seen {
				assert.Equal(t, 1, count, "record %s visited more than once", id)
			}
		})
	}
}

func TestWalkerTruncatesFinalPageToLimit(t *testing.T) {
	ids := collectIDs(t, &fakeSource{records: makeRecords(20)}, 7, 10)
	assert.Len(t, ids, 10)
}

func TestWalkerStopsOnEmptySourceBelowLimit(t *testing.T) {
	source := &fakeSource{records: makeRecords(4)}
	ids := collectIDs(t, source, 10, 50)
	assert.Len(t, ids, 4)
	// First call returns the 4 records, second returns empty and stops.
	assert.Equal(t, 2, source.calls)
}

func TestWalkerStopsWhenCursorCannotAdvance(t *testing.T) {
	source := &fakeSource{records: []RawRecord{
		{"publication_number": "US001", "publication_date": 20240101},
		{"publication_number": "US002"}, // no date, cursor cannot advance
	}}
	ids := collectIDs(t, source, 2, 50)
	assert.Equal(t, []string{"US001", "US002"}, ids)
	assert.Equal(t, 1, source.calls, "walker must stop rather than re-query")
}

func TestWalkerPropagatesSourceError(t *testing.T) {
	source := &fakeSource{err: assert.AnError}
	walker := NewWalker(source, 5, 10, "", "", false)
	fetched, err := walker.Walk(context.Background(), func(context.Context, []RawRecord) error { return nil })
	assert.Equal(t, 0, fetched)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeSourceQueryFailed, appErrors.GetCode(err))
}

func TestWalkerPropagatesPageFuncError(t *testing.T) {
	walker := NewWalker(&fakeSource{records: makeRecords(5)}, 5, 10, "", "", false)
	_, err := walker.Walk(context.Background(), func(context.Context, []RawRecord) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
