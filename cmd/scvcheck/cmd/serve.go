package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scvtools/scvcheck/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the validation HTTP API",
	Long: `Starts the HTTP server. Submission workbooks are validated via
POST /api/validate; the loaded catalog is exposed at GET /api/rules and
run history at GET /api/runs when a database is configured.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openRunStore(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		slog.Info("run history store connected")
	} else {
		slog.Info("run history store disabled")
	}

	server := web.NewServer(cfg, catalog, store)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}
