package segment

// On-disk layout of a quorum-queue segment file, as observed from recovered
// disks rather than from any published format document:
//
//	bytes 0..63   : segment header ("RCQS" magic plus unknown fields).
//	                Opaque to this tool; skipped, never validated.
//	bytes 64..    : a sequence of entries, each
//	                  size     : uint32 BE (4 bytes) - entry body length
//	                  flags    : uint8   (1 byte)
//	                  checksum : uint16 BE (2 bytes) - CRC16, not verified here
//	                  reserved : uint8   (1 byte)
//	                followed by size bytes of entry body. The body is usually
//	                an Erlang External Term Format document (leading version
//	                byte 0x83) with the user payload stored under a BINARY_EXT
//	                term.
const (
	// LeadingHeaderSize is the fixed segment header skipped before scanning.
	LeadingHeaderSize = 64

	// EntryHeaderSize is the fixed width of one entry header.
	EntryHeaderSize = 8

	// TagVersion is the External Term Format version marker that may prefix
	// an entry body.
	TagVersion = 0x83

	// TagBinaryExt is the External Term Format BINARY_EXT tag ('m'): a
	// 4-byte big-endian length follows, then that many payload bytes.
	TagBinaryExt = 0x6d

	// TagEndMarker ('t') is the byte observed to follow message blocks in
	// segment files; the marker strategy uses it as an end-of-block anchor.
	TagEndMarker = 0x74

	// Extension is the segment filename extension.
	Extension = ".qs"
)
