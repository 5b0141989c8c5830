package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clausewise/clausewise/internal/chunker"
	"github.com/clausewise/clausewise/internal/differ"
	"github.com/clausewise/clausewise/internal/events"
	"github.com/clausewise/clausewise/internal/fetcher"
	"github.com/clausewise/clausewise/internal/scorer"
	"github.com/clausewise/clausewise/internal/store"
	"github.com/clausewise/clausewise/internal/summarizer"
	"github.com/clausewise/clausewise/internal/tagger"
	"github.com/clausewise/clausewise/pkg/models"
)

// ErrNoUsableText means neither a text body nor a fetchable URL yielded
// document text. Surfaced to callers as an input error, not a crash.
var ErrNoUsableText = errors.New("no usable text source")

// Config holds pipeline bounds.
type Config struct {
	MaxChunkChars int
	MaxChunks     int
	TopClauses    int
}

// Pipeline orchestrates acquisition, chunking, tagging, scoring,
// summarizing, and snapshot diffing. It holds no cross-request mutable
// state; all persistence goes through the per-identity store.
type Pipeline struct {
	config     Config
	fetcher    *fetcher.Fetcher
	tagger     *tagger.Tagger
	summarizer *summarizer.Summarizer
	store      store.Store
	events     chan<- events.AnalysisCompleteEvent // nil: no archive worker
}

// New creates a Pipeline with the given collaborators.
func New(config Config, f *fetcher.Fetcher, t *tagger.Tagger, s *summarizer.Summarizer, st store.Store) *Pipeline {
	return &Pipeline{
		config:     config,
		fetcher:    f,
		tagger:     t,
		summarizer: s,
		store:      st,
	}
}

// SetEvents attaches the channel analysis-complete events are sent on.
// Sends never block: events are dropped when the worker falls behind.
func (p *Pipeline) SetEvents(ch chan<- events.AnalysisCompleteEvent) {
	p.events = ch
}

// AnalyzeRequest is the analyze operation's input. TosText wins when both
// sources are supplied; TosURL is still used as the snapshot key.
type AnalyzeRequest struct {
	TosURL  string          `json:"tosUrl"`
	TosText string          `json:"tosText"`
	Prefs   json.RawMessage `json:"prefs"`
}

// AnalyzeResult is the analyze operation's output.
type AnalyzeResult struct {
	Clauses    []models.Clause   `json:"clauses"`
	Comparison models.Comparison `json:"comparison"`
	Summary    string            `json:"summary"`
}

// Analyze runs the full clause analysis for one identity. Capability
// failures degrade to fewer clauses or fallback text; only an unusable
// text source (ErrNoUsableText) or a storage failure aborts the request.
func (p *Pipeline) Analyze(ctx context.Context, identity string, req AnalyzeRequest) (*AnalyzeResult, error) {
	text, ok := p.acquire(req.TosURL, req.TosText)
	if !ok {
		return nil, ErrNoUsableText
	}

	// Persist preferences first when supplied, then analyze under them.
	var profile models.RiskProfile
	if len(req.Prefs) > 0 {
		var err error
		profile, err = p.SaveProfile(ctx, identity, req.Prefs)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		profile, err = p.GetProfile(ctx, identity)
		if err != nil {
			return nil, err
		}
	}

	clauses := p.tagAll(ctx, text)
	comparison := scorer.Compare(clauses, profile, p.config.TopClauses)
	summary := p.summarizer.Summarize(ctx, text, comparison)

	slog.Debug("analysis complete",
		"text_len", len(text),
		"clauses", len(clauses),
		"top", len(comparison.Top),
		"summary_len", len(summary))

	hash := differ.HashText(text)
	if req.TosURL != "" {
		snap := models.Snapshot{
			URL:     req.TosURL,
			TS:      time.Now().UnixMilli(),
			Hash:    hash,
			Text:    text,
			Clauses: clauses,
			Summary: summary,
		}
		if err := p.putSnapshot(ctx, identity, snap); err != nil {
			return nil, err
		}
	}

	p.emit(identity, req.TosURL, hash, clauses, summary)

	return &AnalyzeResult{
		Clauses:    clauses,
		Comparison: comparison,
		Summary:    summary,
	}, nil
}

// Diff re-analyzes the document at url and compares it against the stored
// snapshot, then replaces the snapshot with the current state.
func (p *Pipeline) Diff(ctx context.Context, identity, url string) (*models.Diff, error) {
	text, ok := p.fetcher.FetchText(url)
	if !ok {
		return nil, ErrNoUsableText
	}

	clauses := p.tagAll(ctx, text)

	prev, err := p.getSnapshot(ctx, identity, url)
	if err != nil {
		return nil, err
	}

	diff := differ.BuildDiff(prev, text, clauses)

	snap := models.Snapshot{
		URL:     url,
		TS:      time.Now().UnixMilli(),
		Hash:    diff.CurrHash,
		Text:    text,
		Clauses: clauses,
	}
	if err := p.putSnapshot(ctx, identity, snap); err != nil {
		return nil, err
	}

	return &diff, nil
}

// GetProfile loads the identity's risk profile, defaulted when unset.
func (p *Pipeline) GetProfile(ctx context.Context, identity string) (models.RiskProfile, error) {
	data, ok, err := p.store.Get(ctx, identity, store.ProfileKey)
	if err != nil {
		return models.RiskProfile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	if !ok {
		return models.DefaultProfile(), nil
	}
	var profile models.RiskProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		slog.Warn("stored profile unreadable, using defaults", "identity", identity, "error", err)
		return models.DefaultProfile(), nil
	}
	return profile, nil
}

// SaveProfile sanitizes a raw preferences payload (partial or full) and
// persists the clamped result.
func (p *Pipeline) SaveProfile(ctx context.Context, identity string, raw []byte) (models.RiskProfile, error) {
	profile := models.SanitizeProfile(raw)
	data, err := json.Marshal(profile)
	if err != nil {
		return models.RiskProfile{}, fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := p.store.Put(ctx, identity, store.ProfileKey, data); err != nil {
		return models.RiskProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// acquire resolves the text source: pasted text wins over the URL.
func (p *Pipeline) acquire(tosURL, tosText string) (string, bool) {
	if tosText != "" {
		return fetcher.NormalizeRaw(tosText)
	}
	if tosURL != "" {
		return p.fetcher.FetchText(tosURL)
	}
	return "", false
}

// tagAll chunks the text and tags each segment sequentially, one blocking
// round-trip per segment, concatenating results in segment order.
func (p *Pipeline) tagAll(ctx context.Context, text string) []models.Clause {
	chunks := chunker.Chunk(text, p.config.MaxChunkChars, p.config.MaxChunks)
	slog.Debug("chunked document", "text_len", len(text), "chunks", len(chunks))

	var all []models.Clause
	for i, chunk := range chunks {
		clauses := p.tagger.Tag(ctx, chunk)
		slog.Debug("tagged chunk", "chunk", i, "clauses", len(clauses))
		all = append(all, clauses...)
	}
	return all
}

func (p *Pipeline) getSnapshot(ctx context.Context, identity, url string) (*models.Snapshot, error) {
	data, ok, err := p.store.Get(ctx, identity, store.SnapshotKey(url))
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("stored snapshot unreadable, treating as absent", "url", url, "error", err)
		return nil, nil
	}
	return &snap, nil
}

func (p *Pipeline) putSnapshot(ctx context.Context, identity string, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := p.store.Put(ctx, identity, store.SnapshotKey(snap.URL), data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// emit sends an analysis-complete event without blocking the request.
func (p *Pipeline) emit(identity, url, hash string, clauses []models.Clause, summary string) {
	if p.events == nil {
		return
	}

	source := url
	if source == "" {
		source = "text:" + hash
	}

	tags := make([]string, 0, len(clauses))
	titles := make([]string, 0, len(clauses))
	for _, c := range clauses {
		tags = append(tags, string(c.Tag))
		titles = append(titles, c.Title)
	}

	event := events.AnalysisCompleteEvent{
		Analysis: models.Analysis{
			ID:       models.GenerateAnalysisID(identity, source),
			Identity: identity,
			URL:      url,
			Hash:     hash,
			Tags:     tags,
			Titles:   titles,
			Summary:  summary,
			Analyzed: time.Now().UTC(),
		},
		Timestamp: time.Now(),
	}

	select {
	case p.events <- event:
	default:
		slog.Debug("archive worker behind, dropping event", "id", event.Analysis.ID)
	}
}
