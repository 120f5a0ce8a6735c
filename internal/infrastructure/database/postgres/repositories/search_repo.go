package repositories

import (
	"context"

	"github.com/turtacn/patent-prophet/internal/application/search"
	"github.com/turtacn/patent-prophet/internal/infrastructure/database/postgres"
	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

// SearchRepository implements the keyword read path over the persisted
// patent tables.
type SearchRepository struct {
	conn *postgres.Connection
	log  logging.Logger
}

func NewSearchRepository(conn *postgres.Connection, log logging.Logger) *SearchRepository {
	return &SearchRepository{conn: conn, log: log.Named("search_repo")}
}

const searchPatentsSQL = `
	SELECT
		p.id,
		COALESCE(p.title, ''),
		COALESCE(p.abstract, ''),
		COALESCE(p.publication_date::text, ''),
		COALESCE(p.ipc, ''),
		COALESCE(p.cpc, ''),
		COALESCE((
			SELECT a.name
			FROM assignees a
			JOIN patent_assignees pa ON pa.assignee_id = a.id
			WHERE pa.patent_id = p.id
			ORDER BY a.name
			LIMIT 1
		), '')
	FROM patents p
	WHERE p.title ILIKE $1 OR p.abstract ILIKE $1
	ORDER BY p.publication_date DESC NULLS LAST, p.id ASC
	LIMIT $2`

const patentInventorsSQL = `
	SELECT COALESCE(i.first_name, ''), COALESCE(i.last_name, '')
	FROM inventors i
	JOIN patent_inventors pi ON pi.inventor_id = i.id
	WHERE pi.patent_id = $1
	ORDER BY i.last_name, i.first_name`

// Search returns patents whose title or abstract contains the query text,
// case-insensitively, newest first.
func (r *SearchRepository) Search(ctx context.Context, query string, limit int) ([]search.SearchRow, error) {
	pattern := "%" + query + "%"
	rows, err := r.conn.DB().QueryContext(ctx, searchPatentsSQL, pattern, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "search patents")
	}
	defer rows.Close()

	var results []search.SearchRow
	for rows.Next() {
		var row search.SearchRow
		if err := rows.Scan(
			&row.ID, &row.Title, &row.Abstract, &row.PublicationDate,
			&row.IPCCodes, &row.CPCCodes, &row.Assignee,
		); err != nil {
			return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "scan search row")
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "iterate search rows")
	}

	for i := range results {
		inventors, err := r.patentInventors(ctx, results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].Inventors = inventors
	}
	return results, nil
}

func (r *SearchRepository) patentInventors(ctx context.Context, patentID string) ([]string, error) {
	rows, err := r.conn.DB().QueryContext(ctx, patentInventorsSQL, patentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "load inventors")
	}
	defer rows.Close()

	// Distinct inventor ids can render to the same display string; keep
	// each rendered name once.
	var names []string
	seen := make(map[string]struct{})
	for rows.Next() {
		var first, last string
		if err := rows.Scan(&first, &last); err != nil {
			return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "scan inventor row")
		}
		name := first
		if last != "" {
			if name != "" {
				name += " "
			}
			name += last
		}
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "iterate inventor rows")
	}
	return names, nil
}
