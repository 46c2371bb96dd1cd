package extract

import (
	"bytes"
	"encoding/binary"
	"testing"

	"qsrescue/internal/model"
	"qsrescue/internal/segment"
)

// segmentImage builds a synthetic file image: a zeroed 64-byte leading
// header followed by the given bytes.
func segmentImage(rest ...[]byte) []byte {
	out := make([]byte, segment.LeadingHeaderSize)
	for _, r := range rest {
		out = append(out, r...)
	}
	return out
}

// entry builds an entry header plus body
func entry(body []byte) []byte {
	out := make([]byte, segment.EntryHeaderSize)
	binary.BigEndian.PutUint32(out[0:4], uint32(len(body)))
	return append(out, body...)
}

func collect(t *testing.T, s Strategy, data []byte) ([]Candidate, int) {
	t.Helper()
	var out []Candidate
	skipped := s.Extract(data, func(c Candidate) bool {
		out = append(out, c)
		return true
	})
	return out, skipped
}

func TestEntryDecoder_SingleEntry(t *testing.T) {
	payload := []byte(`{"order_id":42,"state":"paid"}`)
	body := append([]byte{segment.TagVersion}, binaryExt(payload)...)
	data := segmentImage(entry(body))

	got, _ := collect(t, NewEntryDecoder(model.DefaultConfig().Heuristics), data)
	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(got))
	}
	if !bytes.Equal(got[0].Bytes, payload) {
		t.Errorf("Expected payload, got %q", got[0].Bytes)
	}
	wantOff := segment.LeadingHeaderSize + segment.EntryHeaderSize + 1 + 5
	if got[0].Offset != wantOff {
		t.Errorf("Expected offset %d, got %d", wantOff, got[0].Offset)
	}
	if got[0].Lossy {
		t.Error("Entry candidates must not be lossy")
	}
}

func TestEntryDecoder_ZeroSizeHeaderResynchronizes(t *testing.T) {
	payload := []byte(`{"after":"resync","ok":true}`)
	zeroHeader := make([]byte, segment.EntryHeaderSize)
	body := append([]byte{segment.TagVersion}, binaryExt(payload)...)
	data := segmentImage(zeroHeader, entry(body))

	got, _ := collect(t, NewEntryDecoder(model.DefaultConfig().Heuristics), data)
	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate after resync, got %d", len(got))
	}
	if !bytes.Equal(got[0].Bytes, payload) {
		t.Errorf("Expected payload, got %q", got[0].Bytes)
	}
}

func TestEntryDecoder_OversizedHeaderResynchronizes(t *testing.T) {
	payload := []byte(`{"after":"oversized"}`)
	huge := make([]byte, segment.EntryHeaderSize)
	binary.BigEndian.PutUint32(huge[0:4], 0xFFFFFFFF)
	body := append([]byte{segment.TagVersion}, binaryExt(payload)...)
	data := segmentImage(huge, entry(body))

	got, _ := collect(t, NewEntryDecoder(model.DefaultConfig().Heuristics), data)
	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate after resync, got %d", len(got))
	}
}

func TestEntryDecoder_TruncatedFileStops(t *testing.T) {
	// Header claims 100 body bytes, only 10 follow
	hdr := make([]byte, segment.EntryHeaderSize)
	binary.BigEndian.PutUint32(hdr[0:4], 100)
	data := segmentImage(hdr, make([]byte, 10))

	got, _ := collect(t, NewEntryDecoder(model.DefaultConfig().Heuristics), data)
	if len(got) != 0 {
		t.Errorf("Expected no candidates from truncated file, got %d", len(got))
	}
}

func TestEntryDecoder_NeverReadsPastBuffer(t *testing.T) {
	heur := model.DefaultConfig().Heuristics
	decoder := NewEntryDecoder(heur)

	// Hostile inputs: every prefix of a valid image, plus headers claiming
	// sizes around the buffer boundary. A panic here is a bounds bug.
	valid := segmentImage(entry(append([]byte{segment.TagVersion}, binaryExt(printableBytes(20))...)))
	for cut := 0; cut <= len(valid); cut++ {
		decoder.Extract(valid[:cut], func(Candidate) bool { return true })
	}

	for _, size := range []uint32{0, 1, 7, 8, 9, 0xFFFFFFFF} {
		hdr := make([]byte, segment.EntryHeaderSize)
		binary.BigEndian.PutUint32(hdr[0:4], size)
		decoder.Extract(segmentImage(hdr), func(Candidate) bool { return true })
	}
}

func TestEntryDecoder_ShortFileNoPanic(t *testing.T) {
	decoder := NewEntryDecoder(model.DefaultConfig().Heuristics)
	for _, n := range []int{0, 1, 63, 64, 65, 71} {
		got, _ := collect(t, decoder, make([]byte, n))
		if len(got) != 0 {
			t.Errorf("%d-byte file: expected no candidates", n)
		}
	}
}

func TestEntryDecoder_EmitStopsEarly(t *testing.T) {
	body := append([]byte{segment.TagVersion}, binaryExt([]byte(`{"n":1,"pad":"xx"}`))...)
	data := segmentImage(entry(body), entry(body), entry(body))

	seen := 0
	NewEntryDecoder(model.DefaultConfig().Heuristics).Extract(data, func(Candidate) bool {
		seen++
		return seen < 2
	})
	if seen != 2 {
		t.Errorf("Expected extraction to stop after 2 candidates, got %d", seen)
	}
}
