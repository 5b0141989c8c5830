package chunker

import (
	"regexp"
	"strings"
)

// Defaults bound segment size and count. The chunk cap is a cost control,
// not an error: documents longer than MaxChunks*MaxChunkChars are only
// partially analyzed and trailing segments are dropped silently.
const (
	DefaultMaxChars  = 1800
	DefaultMaxChunks = 8
)

// boundary marks a split position: a blank-line run, or the whitespace
// immediately after a sentence-ending period (the period stays with the
// preceding piece).
var boundary = regexp.MustCompile(`\n{2,}|\.\s+`)

// Chunk splits normalized text into at most maxChunks segments of roughly
// maxChars each. Pieces are packed greedily: when appending the next piece
// (with a separating space) would exceed the bound, the buffer flushes and
// the piece starts a new segment. A single piece longer than the bound is
// kept whole rather than split further.
func Chunk(text string, maxChars, maxChunks int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}

	var segments []string
	var buf strings.Builder
	for _, piece := range split(text) {
		if buf.Len()+1+len(piece) > maxChars {
			if buf.Len() > 0 {
				segments = append(segments, buf.String())
				buf.Reset()
			}
			buf.WriteString(piece)
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(piece)
	}
	if buf.Len() > 0 {
		segments = append(segments, buf.String())
	}

	if len(segments) > maxChunks {
		segments = segments[:maxChunks]
	}
	return segments
}

// split cuts text at boundaries, skipping empty pieces.
func split(text string) []string {
	var pieces []string
	last := 0
	for _, m := range boundary.FindAllStringIndex(text, -1) {
		cut := m[0]
		if text[cut] == '.' {
			cut++ // keep the period with its sentence
		}
		if p := strings.TrimSpace(text[last:cut]); p != "" {
			pieces = append(pieces, p)
		}
		last = m[1]
	}
	if p := strings.TrimSpace(text[last:]); p != "" {
		pieces = append(pieces, p)
	}
	return pieces
}
