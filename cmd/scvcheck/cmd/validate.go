package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scvtools/scvcheck/internal/audit"
	"github.com/scvtools/scvcheck/internal/batch"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate every submission workbook in a directory",
	Long: `Validates each .xlsx/.xls file in the directory (default: current
directory) against the rule catalog and writes a <name>-result.xlsx
workbook per input. Files with an EX token in their name are validated
in exclusion mode. One file's failure never stops the batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openRunStore(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	runner := &batch.Runner{
		Catalog:   catalog,
		Workers:   cfg.Validate.Workers,
		ResultDir: cfg.Validate.ResultDir,
	}
	results, err := runner.Run(ctx, dir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no submission workbooks found in %s", dir)
	}

	failed := 0
	for _, res := range results {
		name := filepath.Base(res.File)
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL  %s: %v\n", name, res.Err)
			continue
		}
		mode := "standard"
		if res.Exclusion {
			mode = "exclusion"
		}
		fmt.Printf("OK    %s: %d records, %d failed fields, %s mode -> %s\n",
			name, res.Records, res.FailedFields, mode, filepath.Base(res.ResultFile))

		if store != nil {
			insertErr := store.Insert(ctx, audit.RunRecord{
				ID:            res.RunID,
				FileName:      name,
				ExclusionFile: res.Exclusion,
				Records:       res.Records,
				FailedFields:  res.FailedFields,
				Duration:      res.Duration,
			})
			if insertErr != nil {
				slog.Warn("record run history", "file", name, "error", insertErr)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to validate", failed, len(results))
	}
	return nil
}

// openRunStore connects the run-history store when configured; a missing
// DATABASE_URL just disables history.
func openRunStore(ctx context.Context) (*audit.RunStore, error) {
	if !cfg.Database.HistoryEnabled() {
		return nil, nil
	}
	store, err := audit.NewRunStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
