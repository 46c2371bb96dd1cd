// Package sanitize strips encoding artifacts from recovered payload
// candidates and determines the true payload boundaries.
package sanitize

import (
	"bytes"
	"strings"
	"unicode"

	"qsrescue/internal/model"
)

// Sanitizer cleans raw candidate bytes from either extraction strategy.
// Cleaning is tried in priority order: JSON brace matching, then XML tag
// matching, then printable-text trimming.
type Sanitizer struct {
	heur model.HeuristicsConfig
}

// New creates a sanitizer with the given thresholds
func New(heur model.HeuristicsConfig) *Sanitizer {
	return &Sanitizer{heur: heur}
}

// Clean returns the payload with term-encoding artifacts removed
func (s *Sanitizer) Clean(raw []byte) []byte {
	if start := bytes.IndexByte(raw, '{'); start >= 0 {
		return raw[start:jsonEnd(raw, start)]
	}

	if start := bytes.IndexByte(raw, '<'); start >= 0 {
		if end := bytes.LastIndexByte(raw, '>'); end > start {
			return raw[start : end+1]
		}
	}

	return s.cleanText(raw)
}

// jsonEnd finds the boundary of the JSON object opening at start by depth
// counting, respecting double-quoted strings and backslash escapes. It
// returns the index just past the closing brace, or len(data) when the
// object never closes (the remainder of the buffer is kept rather than
// discarded). This matcher is authoritative: unlike the marker strategy's
// last-"}}" heuristic it cannot be fooled by braces inside strings or by
// nested objects.
func jsonEnd(data []byte, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(data); i++ {
		b := data[i]

		if escaped {
			escaped = false
			continue
		}
		if b == '\\' && inString {
			escaped = true
			continue
		}
		if b == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch b {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}

	return len(data)
}

// cleanText trims a candidate with no JSON or XML shape down to its
// printable core: whitespace trimmed, trailing term-format artifacts (the
// NIL/tuple tag pair, "jt") removed when they appear near the end, invalid
// UTF-8 dropped, and trailing non-printable characters cut back to the last
// printable (or newline, carriage return, tab).
func (s *Sanitizer) cleanText(raw []byte) []byte {
	content := bytes.TrimSpace(raw)

	window := content
	if len(window) > s.heur.TailWindow {
		window = window[len(window)-s.heur.TailWindow:]
	}
	artifact := []byte(s.heur.TailArtifact)
	if len(artifact) > 0 && bytes.Contains(window, artifact) {
		content = content[:bytes.LastIndex(content, artifact)]
	}

	decoded := strings.ToValidUTF8(string(content), "")

	runes := []rune(decoded)
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			return []byte(string(runes[:i+1]))
		}
	}

	return []byte(decoded)
}
