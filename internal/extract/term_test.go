package extract

import (
	"bytes"
	"encoding/binary"
	"testing"

	"qsrescue/internal/model"
	"qsrescue/internal/segment"
)

func binaryExt(payload []byte) []byte {
	out := []byte{segment.TagBinaryExt, 0, 0, 0, 0}
	binary.BigEndian.PutUint32(out[1:5], uint32(len(payload)))
	return append(out, payload...)
}

func printableBytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte('a' + i%26)
	}
	return out
}

func TestTermExtractor_LargestCandidateWins(t *testing.T) {
	small := printableBytes(15)
	large := printableBytes(40)

	var body []byte
	body = append(body, segment.TagVersion)
	body = append(body, 0x68, 0x02) // unrelated term bytes
	body = append(body, binaryExt(small)...)
	body = append(body, 0x6a)
	body = append(body, binaryExt(large)...)

	payload, _ := NewTermExtractor(model.DefaultConfig().Heuristics).Payload(body)
	if !bytes.Equal(payload, large) {
		t.Errorf("Expected the 40-byte candidate, got %d bytes", len(payload))
	}
}

func TestTermExtractor_VersionMarkerOptional(t *testing.T) {
	payload := []byte(`{"hello":"world"}`)
	extractor := NewTermExtractor(model.DefaultConfig().Heuristics)

	with := append([]byte{segment.TagVersion}, binaryExt(payload)...)
	got, off := extractor.Payload(with)
	if !bytes.Equal(got, payload) {
		t.Errorf("With marker: expected payload, got %q", got)
	}
	if off != 6 {
		t.Errorf("With marker: expected offset 6, got %d", off)
	}

	without := binaryExt(payload)
	got, off = extractor.Payload(without)
	if !bytes.Equal(got, payload) {
		t.Errorf("Without marker: expected payload, got %q", got)
	}
	if off != 5 {
		t.Errorf("Without marker: expected offset 5, got %d", off)
	}
}

func TestTermExtractor_RejectsUnprintableCandidate(t *testing.T) {
	noise := make([]byte, 50) // all zero bytes, nothing printable
	body := binaryExt(noise)

	payload, _ := NewTermExtractor(model.DefaultConfig().Heuristics).Payload(body)
	if len(payload) != 0 {
		t.Errorf("Expected no candidate, got %d bytes", len(payload))
	}
}

func TestTermExtractor_LengthBounds(t *testing.T) {
	extractor := NewTermExtractor(model.DefaultConfig().Heuristics)

	// Below the minimum plausible length
	payload, _ := extractor.Payload(binaryExt(printableBytes(5)))
	if len(payload) != 0 {
		t.Errorf("Expected short candidate rejected, got %d bytes", len(payload))
	}

	// Length field claims more than the buffer holds
	truncated := []byte{segment.TagBinaryExt, 0, 0, 0, 200}
	truncated = append(truncated, printableBytes(20)...)
	payload, _ = extractor.Payload(truncated)
	if len(payload) != 0 {
		t.Errorf("Expected out-of-bounds candidate rejected, got %d bytes", len(payload))
	}
}

func TestTermExtractor_EmptyBody(t *testing.T) {
	extractor := NewTermExtractor(model.DefaultConfig().Heuristics)

	for _, body := range [][]byte{nil, {}, {segment.TagVersion}, {segment.TagBinaryExt, 0, 0}} {
		if payload, _ := extractor.Payload(body); len(payload) != 0 {
			t.Errorf("Body %v: expected no candidate", body)
		}
	}
}
