package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clausewise/clausewise/pkg/models"
)

// Capability is the external narrative-generation service. A nil
// capability selects the deterministic fallback.
type Capability interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

const systemPrompt = "You write crisp consumer-facing summaries."

// Summarizer turns ranked findings into a human-readable narrative.
type Summarizer struct {
	capability Capability // nil: deterministic fallback
}

// New creates a Summarizer. Pass nil to run without a narrative capability.
func New(capability Capability) *Summarizer {
	return &Summarizer{capability: capability}
}

// Summarize produces a markdown-flavored narrative over the top-ranked
// clauses: a short summary, key risks, and three vendor-directed
// questions. A capability failure degrades to the fallback text.
func (s *Summarizer) Summarize(ctx context.Context, fullText string, comparison models.Comparison) string {
	if s.capability == nil {
		return fallbackSummary(comparison)
	}

	var bullets strings.Builder
	for _, c := range comparison.Top {
		fmt.Fprintf(&bullets, "- [%s] %s: %s\n", c.Tag, c.Title, c.Snippet)
	}
	user := fmt.Sprintf("User risk highlights based on preferences. Produce: short summary, key risks, and 3 questions to ask the vendor.\n\nFindings:\n%s", bullets.String())

	out, err := s.capability.Complete(ctx, systemPrompt, user, 0.3)
	if err != nil {
		slog.Warn("summary generation failed", "error", err)
		return fallbackSummary(comparison)
	}
	return out
}

// fallbackSummary composes the same structure without a model: intro
// sentence, bulleted risk list, and three fixed vendor questions.
func fallbackSummary(comparison models.Comparison) string {
	var bullets strings.Builder
	for _, c := range comparison.Top {
		fmt.Fprintf(&bullets, "- [%s] %s (risk %d)\n", c.Tag, c.Title, c.RiskScore)
	}
	return fmt.Sprintf(`Summary: Based on your preferences, we highlighted the clauses with the highest risk.

Key risks:
%s
Questions to ask:
1) Can I opt out of data sharing?
2) How do I disable auto-renewal?
3) Is there an option to resolve disputes in small claims court instead of arbitration?`,
		bullets.String())
}
