package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"migration-reconciler/feature/clients"
	"migration-reconciler/feature/generator"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the generate command
	generateRecords int
	generateRate    float64
	generateSeed    uint64
	generateStartID int64
	generateSource  string
	generateTarget  string
)

// generateCmd writes a synthetic source and target snapshot.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic source and target snapshots",
	Long: `Generate a source snapshot of fake clients and a target copy with induced
discrepancies: status changes, dropped records, phone format changes, corrupted
emails and brand-new records.

Examples:
  # 1000 records, 10% anomalies, into the configured locations
  generate

  # A small reproducible pair in a database
  generate --records 50 --rate 0.2 --seed 7 --source db://source_clients --target db://target_clients`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&generateRecords, "records", 0, "Number of source records (defaults to GENERATOR_RECORDS)")
	generateCmd.Flags().Float64Var(&generateRate, "rate", 0, "Share of records with an anomaly (defaults to GENERATOR_RATE)")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "Random seed (defaults to GENERATOR_SEED)")
	generateCmd.Flags().Int64Var(&generateStartID, "start-id", 0, "First client id (defaults to GENERATOR_START_ID)")
	generateCmd.Flags().StringVar(&generateSource, "source", "", "Source snapshot location (defaults to RECONCILE_SOURCE)")
	generateCmd.Flags().StringVar(&generateTarget, "target", "", "Target snapshot location (defaults to RECONCILE_TARGET)")

	RootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	opts := generator.OptionsFromConfig(a.cfg.Generator)
	flags := cmd.Flags()
	if flags.Changed("records") {
		opts.Records = generateRecords
	}
	if flags.Changed("rate") {
		opts.Rate = generateRate
	}
	if flags.Changed("seed") {
		opts.Seed = generateSeed
	}
	if flags.Changed("start-id") {
		opts.StartID = generateStartID
	}
	opts.Now = time.Now()

	source := firstNonEmpty(generateSource, a.cfg.Reconcile.Source)
	target := firstNonEmpty(generateTarget, a.cfg.Reconcile.Target)

	deps, err := a.clientDependencies(source, target)
	if err != nil {
		return err
	}
	defer closeDB(deps.DB)

	codec, err := clients.NewCodec(a.cfg.Reconcile.Delimiter)
	if err != nil {
		return err
	}
	store := clients.NewStore(deps.Storage, deps.Bucket, deps.Region, deps.DB, codec)

	result, err := generator.NewService(store, a.metrics, a.logger).Run(ctx, opts, source, target)
	if err != nil {
		return err
	}

	a.logger.Info("Mock data generation complete",
		zap.Int("anomalies", len(result.Anomalies)),
		zap.String("next", "run 'migration-reconciler reconcile' to generate the analysis"),
	)
	return nil
}
