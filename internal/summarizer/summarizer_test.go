package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/clausewise/clausewise/pkg/models"
)

type fakeCapability struct {
	response string
	err      error
	lastUser string
}

func (f *fakeCapability) Complete(_ context.Context, _, user string, _ float64) (string, error) {
	f.lastUser = user
	return f.response, f.err
}

func sampleComparison() models.Comparison {
	return models.Comparison{
		Top: []models.Clause{
			{Title: "Binding arbitration", Tag: models.TagArbitration, Severity: 80, Snippet: "all disputes", RiskScore: 64},
			{Title: "Auto-renewal", Tag: models.TagAutoRenewal, Severity: 60, Snippet: "renews yearly", RiskScore: 42},
		},
		Counts: map[models.ClauseTag]int{
			models.TagArbitration: 1,
			models.TagAutoRenewal: 1,
		},
	}
}

func TestSummarize_FallbackStructure(t *testing.T) {
	s := New(nil)

	summary := s.Summarize(t.Context(), "full text", sampleComparison())

	for _, want := range []string{
		"Summary:",
		"Key risks:",
		"- [arbitration] Binding arbitration (risk 64)",
		"- [auto_renewal] Auto-renewal (risk 42)",
		"Questions to ask:",
		"opt out of data sharing",
		"disable auto-renewal",
		"small claims court",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("fallback summary missing %q:\n%s", want, summary)
		}
	}

	// Exactly three vendor questions.
	for _, q := range []string{"1)", "2)", "3)"} {
		if !strings.Contains(summary, q) {
			t.Errorf("fallback summary missing question marker %q", q)
		}
	}
	if strings.Contains(summary, "4)") {
		t.Error("fallback summary should have exactly three questions")
	}
}

func TestSummarize_CapabilityReceivesBullets(t *testing.T) {
	cap := &fakeCapability{response: "A crisp summary."}
	s := New(cap)

	summary := s.Summarize(t.Context(), "full text", sampleComparison())

	if summary != "A crisp summary." {
		t.Errorf("summary = %q, want capability output", summary)
	}
	if !strings.Contains(cap.lastUser, "- [arbitration] Binding arbitration: all disputes") {
		t.Errorf("prompt missing clause bullet:\n%s", cap.lastUser)
	}
	if !strings.Contains(cap.lastUser, "3 questions to ask the vendor") {
		t.Errorf("prompt missing instruction:\n%s", cap.lastUser)
	}
}

func TestSummarize_CapabilityErrorFallsBack(t *testing.T) {
	s := New(&fakeCapability{err: errors.New("model unavailable")})

	summary := s.Summarize(t.Context(), "full text", sampleComparison())

	if !strings.Contains(summary, "Questions to ask:") {
		t.Errorf("capability failure should degrade to fallback, got:\n%s", summary)
	}
}

func TestSummarize_EmptyComparison(t *testing.T) {
	s := New(nil)

	summary := s.Summarize(t.Context(), "text", models.Comparison{})

	if !strings.Contains(summary, "Summary:") {
		t.Errorf("empty comparison should still produce the structure, got:\n%s", summary)
	}
}
