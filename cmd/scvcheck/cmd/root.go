// Package cmd implements the scvcheck command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scvtools/scvcheck/internal/config"
	"github.com/scvtools/scvcheck/internal/logging"
	"github.com/scvtools/scvcheck/internal/scv"
	"github.com/scvtools/scvcheck/internal/xlsxio"
)

var (
	cfg       *config.Config
	rulesPath string
)

var rootCmd = &cobra.Command{
	Use:   "scvcheck",
	Short: "Validate Single Customer View submission files",
	Long: `scvcheck validates SCV submission workbooks against a rule catalog
and writes annotated result workbooks interleaving each record with a
per-field verdict row.

Commands:
  validate  - validate every submission workbook in a directory
  serve     - run the validation HTTP API
  rules     - print the loaded rule catalog
  version   - print build information`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env if present (Overload overwrites existing env vars).
		if err := godotenv.Overload(); err == nil {
			slog.Info("loaded .env file (overwriting existing env vars)")
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if rulesPath != "" {
			cfg.Rules.Workbook = rulesPath
		}

		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

// Execute runs the CLI. Errors are printed here so main stays trivial.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scvcheck: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "rules workbook path (overrides RULES_WORKBOOK)")
}

// loadCatalog reads the configured rules workbook.
func loadCatalog() (*scv.Catalog, error) {
	f, err := os.Open(cfg.Rules.Workbook)
	if err != nil {
		return nil, fmt.Errorf("open rules workbook: %w", err)
	}
	defer f.Close()

	cat, err := xlsxio.ReadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("load rules from %s: %w", cfg.Rules.Workbook, err)
	}
	slog.Info("rule catalog loaded", "workbook", cfg.Rules.Workbook, "fields", cat.Len())
	return cat, nil
}
