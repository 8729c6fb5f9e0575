// Package lzss implements the vendor's LZSS variant: a 4096-byte sliding
// window, a control-byte-prefixed token stream consumed LSB-first, 12-bit
// offsets and 4-bit lengths (stored value + 3). Ported line-for-line from
// original_source/unpacker/src/lzss.rs, which is the authority on the
// window-wraparound lookup (spec.md's prose compresses this detail away —
// see SPEC_FULL.md "Supplemented features").
//
// Decompress is total: it never errors or panics, no matter how garbled
// the input is. Garbage in yields garbage out.
package lzss

import "github.com/xyproto/fwpeel/internal/obuf"

const (
	windowSize        = 0x1000
	initialWindowSize = 4078
	minMatchLength    = 3
)

// Decompress decodes src under the vendor LZSS scheme and returns the
// reconstructed byte sequence.
func Decompress(src []byte) []byte {
	dst := make([]byte, 0, len(src)*2)

	windowStart := -initialWindowSize
	windowCounter := initialWindowSize
	srcIdx := 0
	var control uint32

	for {
		if srcIdx == len(src) {
			break
		}
		if srcIdx == len(src)-1 {
			// Orphan final byte: emitted verbatim.
			dst = append(dst, src[srcIdx])
			break
		}

		data := src[srcIdx]

		switch {
		case control&0x100 == 0:
			// Control byte exhausted; load the next one, flagging bit 8
			// so the "control&0x100 == 0" branch only fires once every 8
			// tokens.
			control = 0xff00 | uint32(data)
			srcIdx++

		case control&1 == 1:
			// Literal.
			control >>= 1
			dst = append(dst, data)
			if windowCounter+1 >= windowSize {
				windowStart += windowSize
			}
			windowCounter = (windowCounter + 1) & 0xfff
			srcIdx++

		default:
			// Match: offset+length token.
			control >>= 1

			offsetUpper := uint32(src[srcIdx+1]>>4) & 0xf
			offsetLower := uint32(data)
			offset := int((offsetUpper << 8) | offsetLower)
			length := int(src[srcIdx+1]&0xf) + minMatchLength

			if windowCounter+length >= windowSize {
				windowStart += windowSize
			}

			lookup := offset + windowStart
			for lookup >= len(dst) {
				lookup -= windowSize
			}

			srcIdx += 2

			for i := 0; i < length; i++ {
				target := lookup + i
				if target >= 0 {
					dst = append(dst, dst[target])
				} else {
					dst = append(dst, 0x00)
				}
			}
			windowCounter = (windowCounter + length) & 0xfff
		}
	}

	// The match-copy loop above needs random-access reads into the bytes
	// already produced (self-referential copies), which a write-only
	// obuf.Builder can't give it; dst is built directly, then handed off
	// through a Builder so callers still only ever see a committed buffer.
	out := obuf.New()
	out.Write(dst)
	out.Commit()
	return out.MustBytes()
}
