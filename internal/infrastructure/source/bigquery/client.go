package bigquery

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/turtacn/patent-prophet/internal/application/ingest"
	"github.com/turtacn/patent-prophet/internal/config"
	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

// Client fetches raw patent pages from the warehouse. It satisfies
// ingest.Source and additionally supports dry-run byte estimation for
// operator pre-flight checks.
type Client struct {
	bq             *bigquery.Client
	tableID        string
	location       string
	maxBytesBilled int64
	logger         logging.Logger
}

// NewClient connects to the warehouse. An empty project id falls back to
// ambient credential detection. maxBytesBilled of zero means no cap.
func NewClient(ctx context.Context, cfg config.BigQueryConfig, maxBytesBilled int64, logger logging.Logger) (*Client, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = bigquery.DetectProjectID
	}
	bq, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeSourceUnavailable, "create bigquery client")
	}
	return &Client{
		bq:             bq,
		tableID:        cfg.TableID(),
		location:       cfg.Location,
		maxBytesBilled: maxBytesBilled,
		logger:         logger.Named("bigquery"),
	}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.bq.Close()
}

func (c *Client) newQuery(req ingest.PageRequest) *bigquery.Query {
	spec := buildQuerySpec(c.tableID, req)
	q := c.bq.Query(spec.query)
	q.Parameters = spec.params
	q.Location = c.location
	q.DisableQueryCache = true
	if c.maxBytesBilled > 0 {
		q.MaxBytesBilled = c.maxBytesBilled
	}
	return q
}

// FetchPage runs the page query and converts each row into a RawRecord.
func (c *Client) FetchPage(ctx context.Context, req ingest.PageRequest) ([]ingest.RawRecord, error) {
	start := time.Now()
	it, err := c.newQuery(req).Read(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeSourceQueryFailed, "run page query")
	}

	var records []ingest.RawRecord
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.CodeSourceParseError, "read result row")
		}
		records = append(records, toRawRecord(row))
	}

	c.logger.Debug("page fetched",
		logging.Int("records", len(records)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}

// EstimateBytes runs the page query in dry-run mode and returns the bytes
// the real query would scan. Nothing is executed or billed.
func (c *Client) EstimateBytes(ctx context.Context, req ingest.PageRequest) (int64, error) {
	q := c.newQuery(req)
	q.DryRun = true
	job, err := q.Run(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.CodeSourceQueryFailed, "run dry-run query")
	}
	status := job.LastStatus()
	if status == nil || status.Statistics == nil {
		return 0, nil
	}
	return status.Statistics.TotalBytesProcessed, nil
}

// toRawRecord converts one warehouse row into the loosely typed shape the
// normalizer works with. Nested records and repeated fields arrive as
// map[string]bigquery.Value and []bigquery.Value respectively.
func toRawRecord(row map[string]bigquery.Value) ingest.RawRecord {
	record := make(ingest.RawRecord, len(row))
	for key, value := range row {
		record[key] = toRawValue(value)
	}
	return record
}

func toRawValue(value bigquery.Value) any {
	switch v := value.(type) {
	case map[string]bigquery.Value:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = toRawValue(item)
		}
		return out
	case []bigquery.Value:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, toRawValue(item))
		}
		return out
	case civil.Date:
		return v.String()
	default:
		return v
	}
}
