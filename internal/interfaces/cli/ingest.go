package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/patent-prophet/internal/application/ingest"
	"github.com/turtacn/patent-prophet/internal/infrastructure/database/postgres"
	"github.com/turtacn/patent-prophet/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
	metrics "github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/prometheus"
	bqsource "github.com/turtacn/patent-prophet/internal/infrastructure/source/bigquery"
	filesource "github.com/turtacn/patent-prophet/internal/infrastructure/source/file"
)

const (
	costPerTBUSD = 6.25
	bytesPerTB   = 1_000_000_000_000
	bytesPerGiB  = 1 << 30
)

// IngestOptions holds the ingest subcommand flags.
type IngestOptions struct {
	Limit            int
	PageSize         int
	StartDate        string
	EndDate          string
	SourceFile       string
	IncludeCitations bool
	DryRun           bool
	MaxBytesBilled   int64
}

// NewIngestCmd creates the ingest subcommand.
func NewIngestCmd() *cobra.Command {
	opts := &IngestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch, normalize and persist patent records",
		Long: "Pages through the configured warehouse (or a local JSON file),\n" +
			"normalizes each record and upserts the result into PostgreSQL.\n" +
			"Re-running over the same records is safe.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.Limit, "limit", 0, "total records to ingest (default from config)")
	f.IntVar(&opts.PageSize, "page-size", 0, "records per page (default from config)")
	f.StringVar(&opts.StartDate, "start-date", "", "publication date lower bound, YYYY-MM-DD (default from config)")
	f.StringVar(&opts.EndDate, "end-date", "", "publication date upper bound, YYYY-MM-DD")
	f.StringVar(&opts.SourceFile, "source-file", "", "read records from a local JSON array instead of the warehouse")
	f.BoolVar(&opts.IncludeCitations, "include-citations", false, "also fetch and persist citation lists")
	f.BoolVar(&opts.DryRun, "dry-run", false, "estimate query cost without fetching or writing")
	f.Int64Var(&opts.MaxBytesBilled, "max-bytes-billed", 0, "warehouse billing cap in bytes (0 = no cap)")

	return cmd
}

func runIngest(cmd *cobra.Command, opts *IngestOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg, logger := cliCtx.Config, cliCtx.Logger
	ctx := cmd.Context()

	// Flags override config; unset flags inherit configured defaults.
	if !cmd.Flags().Changed("limit") {
		opts.Limit = cfg.Ingest.Limit
	}
	if !cmd.Flags().Changed("page-size") {
		opts.PageSize = cfg.Ingest.PageSize
	}
	if !cmd.Flags().Changed("start-date") {
		opts.StartDate = cfg.Ingest.StartDate
	}

	if opts.DryRun {
		return runDryRun(cmd, opts, cliCtx)
	}

	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		return err
	}

	writer := repositories.NewIngestRepository(conn, logger)
	runner := ingest.NewRunner(nil, writer, logger, metrics.NewUnregistered())

	var result *ingest.Result
	if opts.SourceFile != "" {
		records, err := filesource.ReadRecords(opts.SourceFile)
		if err != nil {
			return err
		}
		result, err = runner.RunFromRecords(ctx, records)
		if err != nil {
			return err
		}
	} else {
		client, err := bqsource.NewClient(ctx, cfg.BigQuery, opts.MaxBytesBilled, logger)
		if err != nil {
			return err
		}
		defer client.Close()

		runner = ingest.NewRunner(client, writer, logger, metrics.NewUnregistered())
		result, err = runner.Run(ctx, ingest.Options{
			Limit:            opts.Limit,
			PageSize:         opts.PageSize,
			StartDate:        opts.StartDate,
			EndDate:          opts.EndDate,
			IncludeCitations: opts.IncludeCitations,
		})
		if err != nil {
			return err
		}
	}

	if result.Upserted == 0 {
		cmd.Println("No patent records to ingest.")
		return nil
	}
	cmd.Printf("Ingested %d patents (%d fetched, %d skipped).\n",
		result.Upserted, result.Fetched, result.Skipped)
	return nil
}

// runDryRun estimates the bytes the first page query would scan and prints
// the projected cost. No records are fetched and nothing is written.
func runDryRun(cmd *cobra.Command, opts *IngestOptions, cliCtx *CLIContext) error {
	client, err := bqsource.NewClient(cmd.Context(), cliCtx.Config.BigQuery, opts.MaxBytesBilled, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	bytes, err := client.EstimateBytes(cmd.Context(), ingest.PageRequest{
		PageSize:         opts.PageSize,
		StartDate:        opts.StartDate,
		EndDate:          opts.EndDate,
		IncludeCitations: opts.IncludeCitations,
	})
	if err != nil {
		return err
	}

	gib := float64(bytes) / float64(bytesPerGiB)
	cost := float64(bytes) / bytesPerTB * costPerTBUSD
	cmd.Printf("Dry run estimate: %d bytes (%.2f GiB, ~$%.4f)\n", bytes, gib, cost)

	cliCtx.Logger.Info("dry run complete",
		logging.Int64("bytes", bytes),
		logging.Float64("estimated_cost_usd", cost),
	)
	return nil
}
