package util

import (
	"fmt"
	"strings"
)

// HexDump renders data as 16-byte rows of hex plus an ASCII gutter, with
// offsets counted from base so a dump lines up with positions in the source
// file rather than in the slice.
func HexDump(data []byte, base int, limit int) string {
	if limit > len(data) {
		limit = len(data)
	}

	var b strings.Builder
	for i := 0; i < limit; i += 16 {
		end := i + 16
		if end > limit {
			end = limit
		}
		chunk := data[i:end]

		var hexPart strings.Builder
		var asciiPart strings.Builder
		for j, c := range chunk {
			if j > 0 {
				hexPart.WriteByte(' ')
			}
			fmt.Fprintf(&hexPart, "%02x", c)
			if c >= 0x20 && c <= 0x7e {
				asciiPart.WriteByte(c)
			} else {
				asciiPart.WriteByte('.')
			}
		}

		fmt.Fprintf(&b, "%08x  %-48s | %s\n", base+i, hexPart.String(), asciiPart.String())
	}
	return b.String()
}
