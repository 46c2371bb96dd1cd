package extract

import (
	"encoding/binary"

	"qsrescue/internal/model"
	"qsrescue/internal/segment"
)

// TermExtractor isolates the user payload inside an entry body encoded in
// the broker's External Term Format. Rather than decoding the full term
// structure (whose outer shape varies between broker versions), it scans for
// BINARY_EXT terms and keeps the largest one that looks like text.
//
// This assumes exactly one genuine payload binary per entry. An entry that
// legitimately carries several independent binaries loses all but the
// largest; the segment corpora this was calibrated against never contained
// such entries, so the behavior for them is an open gap.
type TermExtractor struct {
	heur model.HeuristicsConfig
}

// NewTermExtractor creates a term extractor with the given thresholds
func NewTermExtractor(heur model.HeuristicsConfig) *TermExtractor {
	return &TermExtractor{heur: heur}
}

// Payload returns the largest plausible payload binary in body and its byte
// offset within body, or an empty slice if none is found.
//
// A leading format version byte (0x83) is stripped when present; its absence
// is tolerated and decoding proceeds regardless. At each position, a
// BINARY_EXT tag followed by an in-range 4-byte big-endian length that fits
// the remaining buffer is a structural candidate: the scan jumps past its
// tag, length and body. Anything else advances the scan by a single byte.
// A structural candidate only replaces the best one so far when it is larger
// and its leading bytes pass the printable probe.
func (e *TermExtractor) Payload(body []byte) ([]byte, int) {
	pos := 0
	if len(body) > 0 && body[0] == segment.TagVersion {
		pos = 1
	}

	var best []byte
	bestOff := 0

	for pos+5 < len(body) {
		if body[pos] == segment.TagBinaryExt {
			length := int(binary.BigEndian.Uint32(body[pos+1 : pos+5]))
			if length >= e.heur.MinBinaryLen && length <= e.heur.MaxBinaryLen && pos+5+length <= len(body) {
				bin := body[pos+5 : pos+5+length]
				if len(bin) > len(best) && e.looksPrintable(bin) {
					best = bin
					bestOff = pos + 5
				}
				pos += 5 + length
				continue
			}
		}
		pos++
	}

	return best, bestOff
}

// looksPrintable reports whether the leading probe window of bin holds more
// than the configured minimum of printable ASCII bytes.
func (e *TermExtractor) looksPrintable(bin []byte) bool {
	probe := bin
	if len(probe) > e.heur.BinaryProbeLen {
		probe = probe[:e.heur.BinaryProbeLen]
	}
	printable := 0
	for _, b := range probe {
		if b >= 0x20 && b <= 0x7e {
			printable++
		}
	}
	return printable > e.heur.MinPrintable
}
