package extract

import (
	"bytes"

	"qsrescue/internal/model"
	"qsrescue/internal/segment"
)

// RawScanner recovers payloads by pattern-matching raw bytes, with no
// structural decoding. It looks for the 4-byte tag patterns that bracket
// message blocks in segment files: a start tag (the BINARY_EXT byte followed
// by three zero bytes) and an end tag (the end-marker byte followed by three
// zero bytes), then carves a JSON-shaped slice out of each bracketed window.
//
// Known limitation: the end of the JSON slice is found by taking the LAST
// "}}" before the end tag, not by depth counting. A payload with a nested
// object after its true end can be mis-sliced. This is deliberate fidelity to
// the observed on-disk layout; the sanitizer's depth-counting matcher later
// re-derives the authoritative boundary.
type RawScanner struct {
	heur model.HeuristicsConfig
}

// NewRawScanner creates the marker-based strategy
func NewRawScanner(heur model.HeuristicsConfig) *RawScanner {
	return &RawScanner{heur: heur}
}

// Name implements Strategy
func (s *RawScanner) Name() string { return StrategyMarkers }

// Extract implements Strategy. The 64-byte segment header is skipped
// unconditionally and never validated.
func (s *RawScanner) Extract(data []byte, emit func(Candidate) bool) (skipped int) {
	if len(data) <= segment.LeadingHeaderSize {
		return 0
	}
	body := data[segment.LeadingHeaderSize:]

	starts := tagPositions(body, segment.TagBinaryExt)
	ends := tagPositions(body, segment.TagEndMarker)

	nextEnd := 0
	for _, start := range starts {
		// Nearest end tag strictly after this start
		for nextEnd < len(ends) && ends[nextEnd] <= start {
			nextEnd++
		}
		if nextEnd == len(ends) {
			skipped++
			continue
		}
		end := ends[nextEnd]

		jsonStart := bytes.IndexByte(body[start:end], '{')
		if jsonStart < 0 {
			skipped++
			continue
		}
		jsonStart += start

		rel := bytes.LastIndex(body[jsonStart:end], []byte("}}"))
		if rel < 0 {
			skipped++
			continue
		}
		jsonEnd := jsonStart + rel + 2

		ok := emit(Candidate{
			Bytes:  body[jsonStart:jsonEnd],
			Offset: segment.LeadingHeaderSize + jsonStart,
			Lossy:  true,
		})
		if !ok {
			return skipped
		}
	}

	return skipped
}

// tagPositions records every offset where tag is followed by three zero
// bytes. The tag bytes double as ASCII letters ('m', 't'), so no separate
// text-variant check is needed.
func tagPositions(data []byte, tag byte) []int {
	var positions []int
	for i := 0; i+4 <= len(data); i++ {
		if data[i] == tag && data[i+1] == 0 && data[i+2] == 0 && data[i+3] == 0 {
			positions = append(positions, i)
		}
	}
	return positions
}
