package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/patent-prophet/internal/domain/patent"
	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
	metrics "github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/prometheus"
)

// Writer persists a batch of normalized patents idempotently. Implemented by
// the postgres ingest repository; a failure means the failing patent's
// writes rolled back while earlier patents in the batch stay committed.
type Writer interface {
	UpsertBatch(ctx context.Context, batch []*patent.NormalizedPatent) error
}

// Options carries the operator-facing knobs for one ingestion run.
type Options struct {
	Limit            int
	PageSize         int
	StartDate        string
	EndDate          string
	IncludeCitations bool
}

// Result summarizes a completed run.
type Result struct {
	RunID      string
	Fetched    int
	Normalized int
	Skipped    int
	Upserted   int
}

// Runner wires the cursor walker, the record normalizer and the upsert
// writer into one sequential batch job. Each page is normalized and
// persisted before the next page is fetched.
type Runner struct {
	source  Source
	writer  Writer
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewRunner(source Source, writer Writer, logger logging.Logger, m *metrics.Metrics) *Runner {
	return &Runner{
		source:  source,
		writer:  writer,
		logger:  logger.Named("ingest"),
		metrics: m,
	}
}

// Run executes one ingestion run. Source and write errors abort the run;
// batches committed before the failure remain committed.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	logger := r.logger.With(logging.String("run_id", result.RunID))
	logger.Info("starting ingestion run",
		logging.Int("limit", opts.Limit),
		logging.Int("page_size", opts.PageSize),
		logging.String("start_date", opts.StartDate),
		logging.String("end_date", opts.EndDate),
		logging.Bool("include_citations", opts.IncludeCitations),
	)

	walker := NewWalker(r.source, opts.PageSize, opts.Limit, opts.StartDate, opts.EndDate, opts.IncludeCitations)
	fetched, err := walker.Walk(ctx, func(ctx context.Context, page []RawRecord) error {
		r.metrics.PagesFetched.Inc()
		return r.ingestPage(ctx, logger, page, result)
	})
	result.Fetched = fetched
	if err != nil {
		logger.Error("ingestion run failed", logging.Err(err), logging.Int("fetched", result.Fetched))
		return result, err
	}

	logger.Info("ingestion run complete",
		logging.Int("fetched", result.Fetched),
		logging.Int("normalized", result.Normalized),
		logging.Int("skipped", result.Skipped),
		logging.Int("upserted", result.Upserted),
	)
	return result, nil
}

// RunFromRecords ingests an in-memory record set, bypassing the walker. Used
// for the local-file source where the whole batch is already loaded.
func (r *Runner) RunFromRecords(ctx context.Context, records []RawRecord) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	logger := r.logger.With(logging.String("run_id", result.RunID))
	logger.Info("starting ingestion run from local records", logging.Int("records", len(records)))

	result.Fetched = len(records)
	if err := r.ingestPage(ctx, logger, records, result); err != nil {
		logger.Error("ingestion run failed", logging.Err(err))
		return result, err
	}

	logger.Info("ingestion run complete",
		logging.Int("fetched", result.Fetched),
		logging.Int("normalized", result.Normalized),
		logging.Int("skipped", result.Skipped),
		logging.Int("upserted", result.Upserted),
	)
	return result, nil
}

func (r *Runner) ingestPage(ctx context.Context, logger logging.Logger, page []RawRecord, result *Result) error {
	start := time.Now()

	batch := make([]*patent.NormalizedPatent, 0, len(page))
	for _, record := range page {
		p := Normalize(record)
		if p == nil {
			result.Skipped++
			r.metrics.RecordsSkipped.Inc()
			continue
		}
		batch = append(batch, p)
	}
	result.Normalized += len(batch)
	r.metrics.RecordsNormalized.Add(float64(len(batch)))

	if len(batch) == 0 {
		logger.Warn("page produced no normalizable records", logging.Int("raw_records", len(page)))
		return nil
	}

	if err := r.writer.UpsertBatch(ctx, batch); err != nil {
		return err
	}
	result.Upserted += len(batch)
	r.metrics.PatentsUpserted.Add(float64(len(batch)))
	r.metrics.BatchDuration.Observe(time.Since(start).Seconds())

	logger.Debug("page ingested",
		logging.Int("records", len(page)),
		logging.Int("upserted", len(batch)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}
