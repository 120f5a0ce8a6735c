package ingest

import (
	"context"

	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

// Cursor is the composite pagination position: the (date, publication
// number) sort key of the last record seen. Queries built from it filter to
// records strictly greater than this position, so concurrent inserts into
// the source cannot cause skipped or duplicated records the way offset
// pagination does.
type Cursor struct {
	Date              int64
	PublicationNumber string
}

// PageRequest describes one bounded fetch against a source.
type PageRequest struct {
	PageSize         int
	StartDate        string
	EndDate          string
	IncludeCitations bool
	Cursor           *Cursor
}

// Source is a paginated provider of raw patent records. Implementations
// must return records ordered by (publication date ascending, publication
// number ascending) and apply the strictly-greater cursor filter when
// req.Cursor is set.
type Source interface {
	FetchPage(ctx context.Context, req PageRequest) ([]RawRecord, error)
}

// PageFunc consumes one fetched page. An error aborts the walk; pages
// already consumed stay consumed.
type PageFunc func(ctx context.Context, page []RawRecord) error

// Walker drives repeated fetches against a Source until the requested total
// is reached or the source runs dry.
type Walker struct {
	source           Source
	pageSize         int
	limit            int
	startDate        string
	endDate          string
	includeCitations bool
}

func NewWalker(source Source, pageSize, limit int, startDate, endDate string, includeCitations bool) *Walker {
	return &Walker{
		source:           source,
		pageSize:         pageSize,
		limit:            limit,
		startDate:        startDate,
		endDate:          endDate,
		includeCitations: includeCitations,
	}
}

// Walk fetches pages sequentially, handing each to fn before fetching the
// next. The final page is truncated so the total never exceeds the limit.
// The walk stops cleanly on an empty page, on reaching the limit, or when
// the last record of a page has no extractable date or publication number
// (the cursor cannot advance, so continuing would loop or re-query
// unbounded). Returns the number of records handed to fn.
func (w *Walker) Walk(ctx context.Context, fn PageFunc) (int, error) {
	fetched := 0
	var cursor *Cursor

	for fetched < w.limit {
		page, err := w.source.FetchPage(ctx, PageRequest{
			PageSize:         w.pageSize,
			StartDate:        w.startDate,
			EndDate:          w.endDate,
			IncludeCitations: w.includeCitations,
			Cursor:           cursor,
		})
		if err != nil {
			return fetched, appErrors.Wrap(err, appErrors.CodeSourceQueryFailed, "fetch page")
		}
		if len(page) == 0 {
			break
		}

		if remaining := w.limit - fetched; len(page) > remaining {
			page = page[:remaining]
		}
		if err := fn(ctx, page); err != nil {
			return fetched, err
		}
		fetched += len(page)

		next, ok := nextCursor(page[len(page)-1])
		if !ok {
			break
		}
		cursor = &next
	}
	return fetched, nil
}

// nextCursor extracts the cursor position from the last record of a page.
func nextCursor(record RawRecord) (Cursor, bool) {
	date := DateToInt(NormalizeDate(record["publication_date"]))
	number := readString(record["publication_number"])
	if date == 0 || number == "" {
		return Cursor{}, false
	}
	return Cursor{Date: date, PublicationNumber: number}, true
}
