package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"file-categorizer/internal/handlers"
	"file-categorizer/internal/logging"
	"file-categorizer/internal/memory"
	"file-categorizer/internal/middleware"
	"file-categorizer/internal/ops"
	"file-categorizer/internal/store"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Serve the file database over a REST API, including scan and cleanup
operation control and Server-Sent Events progress streams.

Examples:
  filecat serve
  filecat serve --port 9090 --host 0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, a)
		},
	}

	cmd.Flags().StringP("host", "H", "", "Host to bind (default from config)")
	cmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, a *app) error {
	memory.ConfigureFromEnv()

	host := a.cfg.Web.Host
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		host = v
	}
	port := a.cfg.Web.Port
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		port = v
	}

	st, err := store.New(cmd.Context(), a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	scanSvc := ops.NewScanService(st)
	cleanupSvc := ops.NewCleanupService(st)
	h := handlers.New(st, scanSvc, cleanupSvc)

	router := h.Router()

	loggedHandler := middleware.Logger(middleware.DefaultLoggingConfig())(router)
	meteredHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	handler := meteredHandler
	if a.cfg.Web.Compression {
		handler = middleware.Compression(middleware.DefaultCompressionConfig())(meteredHandler)
	}

	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", host, port),
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout stays zero so SSE progress streams are not cut off.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, scanSvc, cleanupSvc)

	logging.Info("Serving on http://%s (database %s)", srv.Addr, a.cfg.Database.Path)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleShutdown stops in-flight operations and drains the server on
// SIGINT or SIGTERM.
func handleShutdown(srv *http.Server, scanSvc *ops.ScanService, cleanupSvc *ops.CleanupService) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if scanSvc.Coordinator().Cancel() {
		logging.Info("Cancelled in-flight scan")
	}
	if cleanupSvc.Coordinator().Cancel() {
		logging.Info("Cancelled in-flight cleanup")
	}

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		logging.Info("Server stopped")
	}
}
