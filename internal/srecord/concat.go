package srecord

import "github.com/xyproto/fwpeel/internal/obuf"

// ConcatBinary implements spec.md §4.7: drop records until the first one
// whose raw header byte is the binary-form marker (0x30) is reached
// (inclusive), keep only Type-Three records from that point on,
// concatenate their payloads, then strip the 0x40 bytes of per-page
// out-of-band data from every 0x840-byte chunk, keeping only the leading
// 0x800 useful bytes of each.
func ConcatBinary(records []Record) []byte {
	const (
		pageSize    = 0x840
		usefulBytes = 0x800
	)

	start := 0
	for start < len(records) && records[start].Header != 0x30 {
		start++
	}

	var concatenated []byte
	for _, r := range records[start:] {
		if r.Type == TypeThree {
			concatenated = append(concatenated, r.Data...)
		}
	}

	out := obuf.New()
	for off := 0; off+pageSize <= len(concatenated); off += pageSize {
		out.Write(concatenated[off : off+usefulBytes])
	}
	out.Commit()
	return out.MustBytes()
}
