package extract

import (
	"fmt"

	"qsrescue/internal/model"
)

// Strategy names accepted by Select.
const (
	StrategyMarkers = "markers"
	StrategyEntries = "entries"
)

// Candidate is one payload candidate found in a segment file image.
// Lossy indicates the candidate may contain invalid UTF-8 that should be
// replaced rather than treated as a decode failure.
type Candidate struct {
	Bytes  []byte
	Offset int // Byte offset within the file image
	Lossy  bool
}

// Strategy extracts payload candidates from one complete segment file image.
// The two variants are never reconciled against each other: which one applies
// to a given file is an explicit run parameter, not something the tool
// guesses. Extract calls emit for each candidate in file order; emit
// returning false stops the scan early. The returned count is the number of
// windows or entries that produced no usable candidate.
type Strategy interface {
	Name() string
	Extract(data []byte, emit func(Candidate) bool) (skipped int)
}

// Select returns the strategy for the given name. There is no default: the
// caller must choose explicitly.
func Select(name string, heur model.HeuristicsConfig) (Strategy, error) {
	switch name {
	case StrategyMarkers:
		return NewRawScanner(heur), nil
	case StrategyEntries:
		return NewEntryDecoder(heur), nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy %q (want %q or %q)", name, StrategyMarkers, StrategyEntries)
	}
}
