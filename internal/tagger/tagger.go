package tagger

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/clausewise/clausewise/pkg/models"
)

// Capability is the external labeling service the tagger delegates to.
// A nil capability selects the deterministic fallback.
type Capability interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

const systemPrompt = `You identify and label Terms of Service clauses. Return concise JSON only with the shape: { "clauses": [{"title": string, "tag": one of ["privacy_data","auto_renewal","arbitration","unilateral_changes","termination","liability","payment","jurisdiction","other"], "severity": 0-100, "snippet": string }] }. Severity is risk from user perspective.`

// Tagger extracts clause records from text segments.
type Tagger struct {
	capability Capability // nil: keyword fallback
}

// New creates a Tagger. Pass nil to run without a labeling capability.
func New(capability Capability) *Tagger {
	return &Tagger{capability: capability}
}

// Tag labels the clauses found in one text segment. A capability failure
// or unparseable output degrades to zero clauses, never an error: the
// pipeline treats fewer clauses as the only partial-success signal.
func (t *Tagger) Tag(ctx context.Context, segment string) []models.Clause {
	if t.capability == nil {
		return fallbackTag(segment)
	}

	user := "Text:\n" + segment + "\n\nExtract and label clauses as specified."
	raw, err := t.capability.Complete(ctx, systemPrompt, user, 0.2)
	if err != nil {
		slog.Warn("clause tagging failed", "error", err)
		return nil
	}

	candidate := extractJSONObject(raw)
	if candidate == nil {
		slog.Debug("no JSON object in tagger output", "len", len(raw))
		return nil
	}
	return decodeClauses(candidate)
}

// taggedOutput is the expected shape of the capability's JSON object.
// Entries decode individually so one malformed clause does not discard
// the batch.
type taggedOutput struct {
	Clauses []json.RawMessage `json:"clauses"`
}

type candidateClause struct {
	Title    string   `json:"title"`
	Tag      string   `json:"tag"`
	Severity *float64 `json:"severity"`
	Snippet  string   `json:"snippet"`
}

func decodeClauses(data []byte) []models.Clause {
	var out taggedOutput
	if err := json.Unmarshal(data, &out); err != nil {
		slog.Debug("tagger output not decodable", "error", err)
		return nil
	}

	var clauses []models.Clause
	for _, raw := range out.Clauses {
		var c candidateClause
		if err := json.Unmarshal(raw, &c); err != nil {
			slog.Debug("dropping malformed clause entry", "error", err)
			continue
		}
		if c.Title == "" && c.Snippet == "" {
			continue
		}
		tag := models.ClauseTag(c.Tag)
		if !models.ValidTag(tag) {
			tag = models.TagOther
		}
		clauses = append(clauses, models.Clause{
			Title:    c.Title,
			Tag:      tag,
			Severity: clampSeverity(c.Severity),
			Snippet:  c.Snippet,
		})
	}
	return clauses
}

func clampSeverity(v *float64) int {
	if v == nil || math.IsNaN(*v) {
		return 50
	}
	n := int(math.Round(*v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Fallback trigger patterns, checked against the lowercased segment.
var (
	reDataCollection = regexp.MustCompile(`(collect|share).*(data|information)`)
	reAutoRenewal    = regexp.MustCompile(`(auto[- ]?renew|renewal)`)
	reArbitration    = regexp.MustCompile(`(arbitration|binding arbitration)`)
)

func fallbackTag(segment string) []models.Clause {
	if strings.TrimSpace(segment) == "" {
		return nil
	}
	lower := strings.ToLower(segment)

	var clauses []models.Clause
	if reDataCollection.MatchString(lower) {
		clauses = append(clauses, models.Clause{
			Title: "Data collection", Tag: models.TagPrivacyData,
			Severity: 70, Snippet: snippet(segment, 80),
		})
	}
	if reAutoRenewal.MatchString(lower) {
		clauses = append(clauses, models.Clause{
			Title: "Auto-renewal", Tag: models.TagAutoRenewal,
			Severity: 60, Snippet: snippet(segment, 80),
		})
	}
	if reArbitration.MatchString(lower) {
		clauses = append(clauses, models.Clause{
			Title: "Binding arbitration", Tag: models.TagArbitration,
			Severity: 80, Snippet: snippet(segment, 80),
		})
	}
	if len(clauses) == 0 {
		clauses = append(clauses, models.Clause{
			Title: "General terms", Tag: models.TagOther,
			Severity: 30, Snippet: snippet(segment, 80),
		})
	}
	return clauses
}

// snippet returns the leading max bytes of text with a truncation marker.
func snippet(text string, max int) string {
	s := strings.TrimSpace(text)
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
