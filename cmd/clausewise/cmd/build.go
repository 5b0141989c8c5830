package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clausewise/clausewise/internal/archive"
	"github.com/clausewise/clausewise/internal/config"
	"github.com/clausewise/clausewise/internal/fetcher"
	"github.com/clausewise/clausewise/internal/llm"
	"github.com/clausewise/clausewise/internal/pipeline"
	"github.com/clausewise/clausewise/internal/store"
	"github.com/clausewise/clausewise/internal/summarizer"
	"github.com/clausewise/clausewise/internal/tagger"
)

// buildPipeline assembles the analysis pipeline from configuration.
// The archive client is nil when Elasticsearch is not configured.
func buildPipeline(ctx context.Context, cfg config.Config) (*pipeline.Pipeline, *archive.Client, error) {
	var userStore store.Store
	if cfg.Storage.Endpoint != "" {
		s3, err := store.NewS3(store.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Bucket:          cfg.Storage.Bucket,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UseSSL:          cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create store: %w", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to ensure bucket: %w", err)
		}
		userStore = s3
		slog.Info("using S3 store", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
	} else {
		userStore = store.NewMemory()
		slog.Info("no storage endpoint configured, using in-memory store")
	}

	// Optionally create the LLM capability; fallbacks apply when disabled.
	var capability *llm.Client
	if cfg.LLM.Enabled {
		var err error
		capability, err = llm.New(llm.Config{
			BaseURL:    cfg.LLM.BaseURL,
			SocketPath: cfg.LLM.SocketPath,
			Model:      cfg.LLM.Model,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		slog.Info("LLM capability enabled", "model", cfg.LLM.Model)
	}

	// A nil *llm.Client must become a nil interface for the fallbacks.
	var tagCap tagger.Capability
	var sumCap summarizer.Capability
	if capability != nil {
		tagCap = capability
		sumCap = capability
	}

	p := pipeline.New(
		pipeline.Config{
			MaxChunkChars: cfg.Pipeline.MaxChunkChars,
			MaxChunks:     cfg.Pipeline.MaxChunks,
			TopClauses:    cfg.Pipeline.TopClauses,
		},
		fetcher.New(fetcher.Config{
			Timeout:   cfg.Fetcher.Timeout,
			UserAgent: cfg.Fetcher.UserAgent,
		}),
		tagger.New(tagCap),
		summarizer.New(sumCap),
		userStore,
	)

	var archiveClient *archive.Client
	if len(cfg.Elasticsearch.Addresses) > 0 {
		var err error
		archiveClient, err = archive.New(archive.Config{
			Addresses: cfg.Elasticsearch.Addresses,
			Index:     cfg.Elasticsearch.Index,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create archive client: %w", err)
		}
		slog.Info("analysis archive enabled", "index", cfg.Elasticsearch.Index)
	}

	return p, archiveClient, nil
}
