package extract

import (
	"encoding/binary"

	"qsrescue/internal/model"
	"qsrescue/internal/segment"
)

// EntryHeader is the fixed 8-byte record header preceding each entry body
type EntryHeader struct {
	Size     uint32 // Entry body length, big-endian
	Flags    uint8
	Checksum uint16 // CRC16 over the body; recorded, not verified
	Reserved uint8
}

// parseEntryHeader decodes the header at data[pos:]. The caller guarantees
// at least EntryHeaderSize bytes remain.
func parseEntryHeader(data []byte, pos int) EntryHeader {
	return EntryHeader{
		Size:     binary.BigEndian.Uint32(data[pos : pos+4]),
		Flags:    data[pos+4],
		Checksum: binary.BigEndian.Uint16(data[pos+5 : pos+7]),
		Reserved: data[pos+7],
	}
}

// EntryDecoder walks the structured entry layout of a segment file: an
// 8-byte header carrying a big-endian body size, then that many body bytes,
// repeated until the file ends. Each body is handed to the term extractor to
// isolate the payload binary.
//
// Corrupt headers (size zero, or larger than the entry cap) advance the
// cursor by the header width only, so the scan resynchronizes on the next
// plausible header instead of skipping real data. A body that would run past
// the end of the file stops the scan (truncated file).
type EntryDecoder struct {
	heur  model.HeuristicsConfig
	terms *TermExtractor
}

// NewEntryDecoder creates the structured-entry strategy
func NewEntryDecoder(heur model.HeuristicsConfig) *EntryDecoder {
	return &EntryDecoder{heur: heur, terms: NewTermExtractor(heur)}
}

// Name implements Strategy
func (d *EntryDecoder) Name() string { return StrategyEntries }

// Extract implements Strategy
func (d *EntryDecoder) Extract(data []byte, emit func(Candidate) bool) (skipped int) {
	pos := segment.LeadingHeaderSize

	for pos+segment.EntryHeaderSize <= len(data) {
		hdr := parseEntryHeader(data, pos)

		if hdr.Size == 0 || int(hdr.Size) > d.heur.MaxEntrySize {
			// Corrupt header: resynchronize past the header bytes only
			pos += segment.EntryHeaderSize
			continue
		}
		pos += segment.EntryHeaderSize

		size := int(hdr.Size)
		if pos+size > len(data) {
			// Truncated file: the advertised body extends past the end
			break
		}
		body := data[pos : pos+size]
		entryStart := pos
		pos += size

		payload, off := d.terms.Payload(body)
		if len(payload) == 0 {
			skipped++
			continue
		}

		ok := emit(Candidate{
			Bytes:  payload,
			Offset: entryStart + off,
		})
		if !ok {
			return skipped
		}
	}

	return skipped
}
