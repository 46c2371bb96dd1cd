package extract

import (
	"bytes"
	"testing"

	"qsrescue/internal/model"
	"qsrescue/internal/segment"
)

var (
	startTag = []byte{segment.TagBinaryExt, 0, 0, 0}
	endTag   = []byte{segment.TagEndMarker, 0, 0, 0}
)

func TestRawScanner_ExtractsBracketedJSON(t *testing.T) {
	payload := []byte(`{"a":1,"b":{"c":2}}`)
	data := segmentImage(startTag, []byte{0x00, 0x13}, payload, []byte{0x01}, endTag)

	got, skipped := collect(t, NewRawScanner(model.DefaultConfig().Heuristics), data)
	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(got))
	}
	if !bytes.Equal(got[0].Bytes, payload) {
		t.Errorf("Expected %q, got %q", payload, got[0].Bytes)
	}
	if !got[0].Lossy {
		t.Error("Marker candidates must be lossy")
	}
	if skipped != 0 {
		t.Errorf("Expected 0 skipped, got %d", skipped)
	}
	wantOff := segment.LeadingHeaderSize + len(startTag) + 2
	if got[0].Offset != wantOff {
		t.Errorf("Expected offset %d, got %d", wantOff, got[0].Offset)
	}
}

func TestRawScanner_MultipleBlocks(t *testing.T) {
	first := []byte(`{"seq":1,"v":{"x":1}}`)
	second := []byte(`{"seq":2,"v":{"y":2}}`)
	data := segmentImage(
		startTag, first, endTag,
		[]byte{0xde, 0xad},
		startTag, second, endTag,
	)

	got, _ := collect(t, NewRawScanner(model.DefaultConfig().Heuristics), data)
	if len(got) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(got))
	}
	if !bytes.Equal(got[0].Bytes, first) || !bytes.Equal(got[1].Bytes, second) {
		t.Errorf("Unexpected candidates: %q, %q", got[0].Bytes, got[1].Bytes)
	}
}

// The scanner takes the LAST "}}" before the end tag, not a depth-matched
// boundary. A nested object after the true end is therefore over-captured.
// This mirrors the observed segment layout; the sanitizer re-derives the
// exact boundary afterwards.
func TestRawScanner_LastBracePairHeuristic(t *testing.T) {
	window := []byte(`{"a":1} trailing {"b":{"c":2}}`)
	data := segmentImage(startTag, window, endTag)

	got, _ := collect(t, NewRawScanner(model.DefaultConfig().Heuristics), data)
	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(got))
	}
	// Everything up to and including the final "}}"
	if !bytes.Equal(got[0].Bytes, window) {
		t.Errorf("Expected %q, got %q", window, got[0].Bytes)
	}
}

func TestRawScanner_WindowWithoutJSONSkipped(t *testing.T) {
	data := segmentImage(startTag, []byte("no braces here"), endTag)

	got, skipped := collect(t, NewRawScanner(model.DefaultConfig().Heuristics), data)
	if len(got) != 0 {
		t.Fatalf("Expected no candidates, got %d", len(got))
	}
	if skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", skipped)
	}
}

func TestRawScanner_StartWithoutEndSkipped(t *testing.T) {
	data := segmentImage(startTag, []byte(`{"a":1}}`))

	got, skipped := collect(t, NewRawScanner(model.DefaultConfig().Heuristics), data)
	if len(got) != 0 {
		t.Fatalf("Expected no candidates without an end tag, got %d", len(got))
	}
	if skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", skipped)
	}
}

func TestRawScanner_ShortFileNoPanic(t *testing.T) {
	scanner := NewRawScanner(model.DefaultConfig().Heuristics)
	for _, n := range []int{0, 1, 63, 64, 66} {
		got, _ := collect(t, scanner, make([]byte, n))
		if len(got) != 0 {
			t.Errorf("%d-byte file: expected no candidates", n)
		}
	}
}
