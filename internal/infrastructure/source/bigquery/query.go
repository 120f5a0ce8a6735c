// Package bigquery implements the warehouse source integration against the
// public patent publications dataset.
package bigquery

import (
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"

	"github.com/turtacn/patent-prophet/internal/application/ingest"
)

// recordFields is the projection requested for every page. The citation
// column is appended only on request since it dominates scanned bytes.
var recordFields = []string{
	"publication_number",
	"publication_date",
	"filing_date",
	"priority_date",
	"title_localized",
	"abstract_localized",
	"assignee",
	"inventor",
	"cpc",
	"ipc",
	"assignee_harmonized",
	"inventor_harmonized",
}

type querySpec struct {
	query  string
	params []bigquery.QueryParameter
}

// buildQuerySpec renders the paginated page query: date-bounded, cursor
// filtered (strictly greater than the composite cursor position) and ordered
// by (publication_date ASC, publication_number ASC) so the cursor stays
// gap-free under concurrent source inserts.
func buildQuerySpec(tableID string, req ingest.PageRequest) querySpec {
	fields := recordFields
	if req.IncludeCitations {
		fields = append(append([]string{}, recordFields...), "citation")
	}

	whereParts := []string{}
	params := []bigquery.QueryParameter{
		{Name: "limit", Value: int64(req.PageSize)},
	}

	if start := ingest.DateToInt(req.StartDate); start != 0 {
		whereParts = append(whereParts, "publication_date >= @startDate")
		params = append(params, bigquery.QueryParameter{Name: "startDate", Value: start})
	}
	if end := ingest.DateToInt(req.EndDate); end != 0 {
		whereParts = append(whereParts, "publication_date <= @endDate")
		params = append(params, bigquery.QueryParameter{Name: "endDate", Value: end})
	}
	if req.Cursor != nil {
		whereParts = append(whereParts,
			"(publication_date > @cursorDate OR (publication_date = @cursorDate AND publication_number > @cursorNumber))")
		params = append(params,
			bigquery.QueryParameter{Name: "cursorDate", Value: req.Cursor.Date},
			bigquery.QueryParameter{Name: "cursorNumber", Value: req.Cursor.PublicationNumber},
		)
	}

	whereClause := "1=1"
	if len(whereParts) > 0 {
		whereClause = strings.Join(whereParts, " AND ")
	}

	query := fmt.Sprintf(`SELECT
  %s
FROM %s
WHERE %s
ORDER BY publication_date ASC, publication_number ASC
LIMIT @limit`,
		strings.Join(fields, ",\n  "),
		"`"+tableID+"`",
		whereClause,
	)

	return querySpec{query: query, params: params}
}
