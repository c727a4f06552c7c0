package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"onlinefdr/adapters/excel"
	"onlinefdr/adapters/postgres"
	"onlinefdr/adapters/report"
	"onlinefdr/app"
	"onlinefdr/domain/stream"
	"onlinefdr/internal/lord"
	"onlinefdr/internal/testkit"
	"onlinefdr/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "onlinefdr-cli",
		Short: "Online FDR screening over p-value streams",
	}

	rootCmd.AddCommand(
		newRunCmd(stream.RunAsync),
		newRunCmd(stream.RunDependent),
		newRunCmd(stream.RunBatch),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd(kind stream.RunKind) *cobra.Command {
	var w0, alpha float64
	var exportPath, databaseURL string
	var quiet bool

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [stream-file]", kind),
		Short: fmt.Sprintf("Run the %s screening variant over a stream file", kind),
		Long: fmt.Sprintf(`Run the %s screening variant over a .csv or .xlsx p-value stream.

The file needs a pvalue column; horizon, lag and batch columns feed the
matching variant and default to immediate visibility when absent.

Example: onlinefdr-cli %s stream.csv --alpha 0.05 --export results.xlsx`, kind, kind),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreening(cmd.Context(), kind, args[0], stream.Spending{W0: w0, Alpha: alpha}, exportPath, databaseURL, quiet)
		},
	}

	cmd.Flags().Float64Var(&w0, "w0", 0, "Initial significance budget (default 0.005)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Target FDR level (default 0.05)")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write results to this .xlsx file")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Persist the run to this PostgreSQL database")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress progress output")

	return cmd
}

func runScreening(ctx context.Context, kind stream.RunKind, path string, spending stream.Spending, exportPath, databaseURL string, quiet bool) error {
	var reader ports.StreamReader = excel.NewStreamReader()
	input, err := reader.ReadStream(path)
	if err != nil {
		return err
	}

	var runs ports.RunRepository = testkit.NewInMemoryRunRepository()
	if databaseURL != "" {
		db, err := sqlx.Connect("postgres", databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		runs = postgres.NewRunRepository(db)
	}

	service := app.NewScreeningService(runs, excel.NewResultExporter(), lord.DefaultParams())

	var progress lord.ProgressFunc
	if !quiet {
		progress = stderrProgress()
	}

	var artifact *stream.RunArtifact
	switch kind {
	case stream.RunAsync:
		horizons := input.Horizons
		if horizons == nil {
			horizons = testkit.ImmediateHorizons(len(input.PValues))
		}
		artifact, err = service.RunAsync(ctx, stream.AsyncRequest{
			PValues:  input.PValues,
			Horizons: horizons,
			Spending: spending,
		}, progress)
	case stream.RunDependent:
		lags := input.Lags
		if lags == nil {
			lags = testkit.ConstantLags(len(input.PValues), 0)
		}
		artifact, err = service.RunDependent(ctx, stream.DependentRequest{
			PValues:  input.PValues,
			Lags:     lags,
			Spending: spending,
		}, progress)
	case stream.RunBatch:
		sizes := input.BatchSizes
		if sizes == nil {
			sizes = testkit.EvenBatches(len(input.PValues), 1)
		}
		artifact, err = service.RunBatch(ctx, stream.BatchRequest{
			PValues:    input.PValues,
			BatchSizes: sizes,
			Spending:   spending,
		}, progress)
	}
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintln(os.Stderr)
	}

	fmt.Print(report.BuildMarkdown(artifact))

	if exportPath != "" {
		if err := service.Export(artifact, exportPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "results written to %s\n", exportPath)
	}
	return nil
}

// stderrProgress prints coarse progress to stderr, at most one line per
// whole percent.
func stderrProgress() lord.ProgressFunc {
	lastPct := int64(-1)
	return func(completed, total int64) {
		if total == 0 {
			return
		}
		pct := completed * 100 / total
		if pct != lastPct {
			fmt.Fprintf(os.Stderr, "\rscreening: %d%%", pct)
			lastPct = pct
		}
	}
}
