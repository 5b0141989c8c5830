package tagger

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The labeling capability is not guaranteed to return pure JSON: responses
// arrive wrapped in prose, fenced code blocks, or with trailing commentary.
// extractJSONObject recovers the first JSON object from such output.

var fencedBlock = regexp.MustCompile("(?s)^```[a-zA-Z]*\n(.*?)\n```$")

// extractJSONObject strips a single fenced code block wrapper if present,
// then scans from the first '{' tracking brace depth to find the matching
// close. If that span does not parse, it retries from the first '{' to the
// end of the string. Returns nil when no valid object can be recovered.
func extractJSONObject(s string) []byte {
	s = strings.TrimSpace(s)
	if m := fencedBlock.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				span := []byte(s[start : i+1])
				if json.Valid(span) {
					return span
				}
			}
		}
	}

	// Unbalanced or invalid span: last resort, parse to end of string.
	tail := []byte(s[start:])
	if json.Valid(tail) {
		return tail
	}
	return nil
}
