package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/clausewise/clausewise/internal/events"
	"github.com/clausewise/clausewise/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the JSON HTTP API.

Endpoints:
  POST /api/analyze         Analyze a ToS document (tosUrl or tosText)
  POST /api/diff            Diff a URL against its stored snapshot
  GET  /api/profile         Read the caller's risk profile
  POST /api/profile         Save risk preferences
  GET  /api/history/search  Search archived analyses (requires Elasticsearch)
  GET  /health

Example:
  clausewise serve --config config/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	p, archiveClient, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	// Archive worker: analyses index to ES off the request path.
	done := make(chan struct{})
	if archiveClient != nil {
		if err := archiveClient.CreateIndex(ctx); err != nil {
			return fmt.Errorf("failed to create archive index: %w", err)
		}

		analysisEvents := make(chan events.AnalysisCompleteEvent, 64)
		p.SetEvents(analysisEvents)

		go func() {
			defer close(done)
			for event := range analysisEvents {
				if err := archiveClient.IndexAnalysis(ctx, event.Analysis); err != nil {
					slog.Warn("failed to archive analysis", "id", event.Analysis.ID, "error", err)
				}
			}
		}()
		defer func() {
			close(analysisEvents)
			<-done
		}()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(p, archiveClient).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // Analysis holds the connection through LLM calls
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
