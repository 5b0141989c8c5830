package chunker

import (
	"strings"
	"testing"
)

func TestChunk_PacksSentencesUpToBound(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here."

	segments := Chunk(text, 50, 8)

	if len(segments) < 2 {
		t.Fatalf("expected multiple segments, got %d: %v", len(segments), segments)
	}
	for i, seg := range segments {
		if len(seg) > 50 {
			t.Errorf("segment %d exceeds bound: %d bytes", i, len(seg))
		}
	}
}

func TestChunk_SplitsOnBlankLines(t *testing.T) {
	text := "Paragraph one\n\nParagraph two\n\nParagraph three"

	segments := Chunk(text, 20, 8)

	want := []string{"Paragraph one", "Paragraph two", "Paragraph three"}
	if len(segments) != len(want) {
		t.Fatalf("expected %d segments, got %d: %v", len(want), len(segments), segments)
	}
	for i, seg := range segments {
		if seg != want[i] {
			t.Errorf("segment %d = %q, want %q", i, seg, want[i])
		}
	}
}

func TestChunk_NeverExceedsBoundExceptAtomicPiece(t *testing.T) {
	oversized := strings.Repeat("x", 300)
	text := "short piece\n\n" + oversized + "\n\nanother short piece"

	segments := Chunk(text, 100, 8)

	found := false
	for _, seg := range segments {
		if seg == oversized {
			found = true
			continue
		}
		if len(seg) > 100 {
			t.Errorf("non-atomic segment exceeds bound: %d bytes", len(seg))
		}
	}
	if !found {
		t.Error("oversized atomic piece should be kept whole as its own segment")
	}
}

func TestChunk_TruncatesToMaxChunks(t *testing.T) {
	var paras []string
	for i := 0; i < 12; i++ {
		paras = append(paras, strings.Repeat("a", 30))
	}
	text := strings.Join(paras, "\n\n")

	segments := Chunk(text, 30, 8)

	if len(segments) != 8 {
		t.Errorf("expected exactly 8 segments after truncation, got %d", len(segments))
	}
}

func TestChunk_ReconcatenationMatchesNormalizedInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"sentences", "One sentence. Two sentences. Three sentences here at last."},
		{"paragraphs", "First paragraph text\n\nSecond paragraph text\n\nThird"},
		{"mixed", "Intro sentence. More detail follows.\n\nNew paragraph. Final words."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := Chunk(tt.text, 25, 100)

			joined := strings.Join(segments, " ")
			normalized := strings.Join(strings.Fields(tt.text), " ")
			if joined != normalized {
				t.Errorf("reconcatenation = %q, want %q", joined, normalized)
			}
		})
	}
}

func TestChunk_EmptyAndWhitespaceInput(t *testing.T) {
	if segments := Chunk("", 1800, 8); len(segments) != 0 {
		t.Errorf("empty input should yield no segments, got %v", segments)
	}
	if segments := Chunk("   \n\n  \n\n ", 1800, 8); len(segments) != 0 {
		t.Errorf("whitespace-only input should yield no segments, got %v", segments)
	}
}

func TestChunk_TrailingPunctuationProducesNoEmptySegment(t *testing.T) {
	// A trailing period plus whitespace could leave an empty final piece;
	// empty pieces are skipped, never emitted as segments.
	segments := Chunk("Only sentence. ", 1800, 8)

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d: %v", len(segments), segments)
	}
	if segments[0] != "Only sentence." {
		t.Errorf("segment = %q, want %q", segments[0], "Only sentence.")
	}
}

func TestChunk_DefaultsApplied(t *testing.T) {
	text := strings.Repeat("word ", 100)

	segments := Chunk(text, 0, 0)

	if len(segments) != 1 {
		t.Fatalf("500 bytes should fit one default-bound segment, got %d", len(segments))
	}
}
