package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"migration-reconciler/core/reconcile"
	"migration-reconciler/feature/clients"
	"migration-reconciler/feature/clients/models"

	"github.com/spf13/cobra"
)

var (
	// Flags for the reconcile command
	reconcileSource     string
	reconcileTarget     string
	reconcileOutput     string
	reconcileDuplicates string
	reconcileJSON       bool
)

// reconcileCmd compares the source and target snapshots.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the source and target client snapshots",
	Long: `Reconcile the source and target snapshots to detect missing records and
field mismatches, and write a discrepancy report.

No report is written when the snapshots match.

Examples:
  # Reconcile the configured snapshots
  reconcile

  # Reconcile objects in S3 and store the report in a table
  reconcile --source s3://snapshots/source.csv --target s3://snapshots/target.csv --output db://discrepancies

  # Fail on duplicate client ids and print the report as JSON
  reconcile --duplicates reject --json`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileSource, "source", "", "Source snapshot location (defaults to RECONCILE_SOURCE)")
	reconcileCmd.Flags().StringVar(&reconcileTarget, "target", "", "Target snapshot location (defaults to RECONCILE_TARGET)")
	reconcileCmd.Flags().StringVar(&reconcileOutput, "output", "", "Report location (defaults to RECONCILE_OUTPUT)")
	reconcileCmd.Flags().StringVar(&reconcileDuplicates, "duplicates", "", "Duplicate key policy: report or reject")
	reconcileCmd.Flags().BoolVar(&reconcileJSON, "json", false, "Print the report as JSON to stdout")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	req := clients.RunRequest{
		Source:     firstNonEmpty(reconcileSource, a.cfg.Reconcile.Source),
		Target:     firstNonEmpty(reconcileTarget, a.cfg.Reconcile.Target),
		Output:     firstNonEmpty(reconcileOutput, a.cfg.Reconcile.Output),
		Duplicates: reconcile.DuplicatePolicy(reconcileDuplicates),
	}

	deps, err := a.clientDependencies(req.Source, req.Target, req.Output)
	if err != nil {
		return err
	}
	defer closeDB(deps.DB)

	svc, err := clients.NewServiceFromConfig(a.cfg.Reconcile, deps)
	if err != nil {
		return err
	}

	result, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	if reconcileJSON {
		return printJSON(result)
	}
	return nil
}

func printJSON(result *clients.RunResult) error {
	issues := make([]models.Issue, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, models.NewIssue(issue))
	}

	out := models.ReconcileReport{
		RunID:   result.RunID,
		Source:  result.Source,
		Target:  result.Target,
		Summary: result.Report.Summary,
		Entries: result.Report.Entries,
		Issues:  issues,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
