// Package repositories provides the PostgreSQL-backed persistence for the
// ingestion pipeline and the search read path.
package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/turtacn/patent-prophet/internal/domain/patent"
	"github.com/turtacn/patent-prophet/internal/infrastructure/database/postgres"
	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

// queryExecutor matches the subset of sql.DB and sql.Tx the repositories
// use, so statements run identically inside and outside a transaction.
type queryExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// IngestRepository implements the upsert writer over the six patent tables.
type IngestRepository struct {
	conn *postgres.Connection
	log  logging.Logger
}

func NewIngestRepository(conn *postgres.Connection, log logging.Logger) *IngestRepository {
	return &IngestRepository{conn: conn, log: log.Named("ingest_repo")}
}

// UpsertBatch persists each patent in its own transaction, in order. A
// failure rolls back only the failing patent's writes; earlier patents stay
// committed and the error aborts the rest of the batch.
func (r *IngestRepository) UpsertBatch(ctx context.Context, batch []*patent.NormalizedPatent) error {
	for _, p := range batch {
		if err := r.upsertPatent(ctx, p); err != nil {
			return appErrors.Wrap(err, appErrors.CodeIngestFailed, "upsert patent "+p.ID)
		}
	}
	return nil
}

func (r *IngestRepository) upsertPatent(ctx context.Context, p *patent.NormalizedPatent) error {
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDBConnectionError, "begin transaction")
	}
	defer tx.Rollback()

	if err := upsertPatentRow(ctx, tx, p); err != nil {
		return err
	}
	if err := upsertAssignees(ctx, tx, p); err != nil {
		return err
	}
	if err := upsertInventors(ctx, tx, p); err != nil {
		return err
	}
	if err := upsertClassifications(ctx, tx, p); err != nil {
		return err
	}
	if err := insertCitations(ctx, tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.CodeDBQueryError, "commit transaction")
	}
	return nil
}

const upsertPatentSQL = `
	INSERT INTO patents (id, title, abstract, claims, ipc, cpc, publication_date, priority_date, filing_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		abstract = EXCLUDED.abstract,
		claims = EXCLUDED.claims,
		ipc = EXCLUDED.ipc,
		cpc = EXCLUDED.cpc,
		publication_date = EXCLUDED.publication_date,
		priority_date = EXCLUDED.priority_date,
		filing_date = EXCLUDED.filing_date,
		updated_at = NOW()`

func upsertPatentRow(ctx context.Context, tx queryExecutor, p *patent.NormalizedPatent) error {
	_, err := tx.ExecContext(ctx, upsertPatentSQL,
		p.ID,
		nullString(p.Title),
		nullString(p.Abstract),
		nullString(p.Claims),
		strings.Join(p.IPCCodes, ", "),
		strings.Join(p.CPCCodes, ", "),
		nullString(p.PublicationDate),
		nullString(p.PriorityDate),
		nullString(p.FilingDate),
	)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDBQueryError, "upsert patent row")
	}
	return nil
}

const upsertAssigneeSQL = `
	INSERT INTO assignees (id, name, country, state, city)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		country = EXCLUDED.country,
		state = EXCLUDED.state,
		city = EXCLUDED.city,
		updated_at = NOW()`

const linkAssigneeSQL = `
	INSERT INTO patent_assignees (patent_id, assignee_id)
	VALUES ($1, $2)
	ON CONFLICT DO NOTHING`

func upsertAssignees(ctx context.Context, tx queryExecutor, p *patent.NormalizedPatent) error {
	for _, a := range p.Assignees {
		if _, err := tx.ExecContext(ctx, upsertAssigneeSQL,
			a.ID.Value, a.Name, nullString(a.Country), nullString(a.State), nullString(a.City),
		); err != nil {
			return appErrors.Wrap(err, appErrors.CodeDBQueryError, "upsert assignee")
		}
		if _, err := tx.ExecContext(ctx, linkAssigneeSQL, p.ID, a.ID.Value); err != nil {
			return appErrors.Wrap(err, appErrors.CodeDBQueryError, "link assignee")
		}
	}
	return nil
}

const upsertInventorSQL = `
	INSERT INTO inventors (id, first_name, last_name, country, state, city)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		country = EXCLUDED.country,
		state = EXCLUDED.state,
		city = EXCLUDED.city,
		updated_at = NOW()`

const linkInventorSQL = `
	INSERT INTO patent_inventors (patent_id, inventor_id)
	VALUES ($1, $2)
	ON CONFLICT DO NOTHING`

func upsertInventors(ctx context.Context, tx queryExecutor, p *patent.NormalizedPatent) error {
	for _, inv := range p.Inventors {
		if _, err := tx.ExecContext(ctx, upsertInventorSQL,
			inv.ID.Value, nullString(inv.FirstName), nullString(inv.LastName),
			nullString(inv.Country), nullString(inv.State), nullString(inv.City),
		); err != nil {
			return appErrors.Wrap(err, appErrors.CodeDBQueryError, "upsert inventor")
		}
		if _, err := tx.ExecContext(ctx, linkInventorSQL, p.ID, inv.ID.Value); err != nil {
			return appErrors.Wrap(err, appErrors.CodeDBQueryError, "link inventor")
		}
	}
	return nil
}

const upsertClassificationSQL = `
	INSERT INTO classifications (code, scheme, description)
	VALUES ($1, $2, $3)
	ON CONFLICT (code, scheme) DO UPDATE SET
		description = EXCLUDED.description,
		updated_at = NOW()
	RETURNING id`

const linkClassificationSQL = `
	INSERT INTO patent_classifications (patent_id, classification_id)
	VALUES ($1, $2)
	ON CONFLICT DO NOTHING`

func upsertClassifications(ctx context.Context, tx queryExecutor, p *patent.NormalizedPatent) error {
	for _, c := range p.Classifications {
		var id int64
		err := tx.QueryRowContext(ctx, upsertClassificationSQL,
			c.Code, string(c.Scheme), nullString(c.Description),
		).Scan(&id)
		if err != nil {
			return appErrors.Wrap(err, appErrors.CodeDBQueryError, "upsert classification")
		}
		if _, err := tx.ExecContext(ctx, linkClassificationSQL, p.ID, id); err != nil {
			return appErrors.Wrap(err, appErrors.CodeDBQueryError, "link classification")
		}
	}
	return nil
}

const insertCitationSQL = `
	INSERT INTO citations (patent_id, cited_patent_id, citation_type)
	VALUES ($1, $2, $3)
	ON CONFLICT (patent_id, cited_patent_id, citation_type) DO NOTHING`

func insertCitations(ctx context.Context, tx queryExecutor, p *patent.NormalizedPatent) error {
	for _, c := range p.Citations {
		// An unresolved cited id is stored as NULL: still a fact worth
		// keeping, never synthesized.
		if _, err := tx.ExecContext(ctx, insertCitationSQL,
			p.ID, nullString(c.CitedPatentID), nullString(c.Type),
		); err != nil {
			return appErrors.Wrap(err, appErrors.CodeDBQueryError, "insert citation")
		}
	}
	return nil
}

// nullString converts the empty string into SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
