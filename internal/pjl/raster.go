package pjl

import "github.com/xyproto/fwpeel/internal/fwerr"

const seedRowSize = 16384

// DecompressRaster decompresses one raster Data payload under the given
// compression mode, threading seedRow through mode 3's delta-row state
// per spec.md §9 "Mutable seed-row across iterations" (modeled here as an
// explicit value passed in and returned, not a hidden global).
//
// transportMethod is the byte method of the AsteriskB command carrying
// this payload ('V' or 'W'); only 'V' gets zero-padded to seedRowSize.
func DecompressRaster(mode uint8, transportMethod byte, blob, seedRow []byte) ([]byte, error) {
	switch mode {
	case 0:
		return padForV(append([]byte(nil), blob...), transportMethod), nil

	case 2:
		out, err := decompressPackBits(blob)
		if err != nil {
			return nil, err
		}
		return padForV(out, transportMethod), nil

	case 3:
		return decompressDeltaRow(blob, seedRow)

	default:
		// Unknown compression mode: leave as-is, matching the original's
		// "Could not decompress. Leaving as-is." fallback.
		return append([]byte(nil), blob...), nil
	}
}

func padForV(buf []byte, transportMethod byte) []byte {
	if transportMethod == 'V' && len(buf) < seedRowSize {
		padded := make([]byte, seedRowSize)
		copy(padded, buf)
		return padded
	}
	return buf
}

// decompressPackBits implements mode 2: TIFF PackBits-style run-length
// decoding with a signed 8-bit control byte.
//
//	c == 0:        copy next 1 byte literally
//	1 <= c <= 127:  copy next c+1 bytes literally
//	c == -128:     no-op
//	-127 <= c <= -1: replicate next byte |c|+1 times
func decompressPackBits(blob []byte) ([]byte, error) {
	var out []byte
	index := 0
	for index < len(blob) {
		control := int8(blob[index])
		index++
		switch {
		case control == 0:
			if index >= len(blob) {
				return nil, fwerr.New(fwerr.Truncation, index, "packbits literal-1 runs past end")
			}
			out = append(out, blob[index])
			index++
		case control >= 1 && control <= 127:
			n := int(control) + 1
			if index+n > len(blob) {
				return nil, fwerr.New(fwerr.Truncation, index, "packbits literal-run of %d bytes runs past end", n)
			}
			out = append(out, blob[index:index+n]...)
			index += n
		case control == -128:
			// No-op.
		default: // -127 <= control <= -1
			if index >= len(blob) {
				return nil, fwerr.New(fwerr.Truncation, index, "packbits replicate byte missing")
			}
			n := -int(control) + 1
			b := blob[index]
			index++
			for i := 0; i < n; i++ {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

// decompressDeltaRow implements mode 3: a persistent 16384-byte seed row
// patched in place by each command, per spec.md §4.4.
func decompressDeltaRow(blob, seedRow []byte) ([]byte, error) {
	row := append([]byte(nil), seedRow...)
	index := 0
	position := 0
	for index < len(blob) {
		control := blob[index]
		index++

		replaceCount := int((control>>5)&0b111) + 1
		offsetSeed := int(control & 0b11111)
		if offsetSeed == 0b11111 {
			for {
				if index >= len(blob) {
					return nil, fwerr.New(fwerr.Truncation, index, "delta-row extended offset runs past end")
				}
				next := int(blob[index])
				index++
				offsetSeed += next
				if next != 0xFF {
					break
				}
			}
		}

		position += offsetSeed
		if index+replaceCount > len(blob) {
			return nil, fwerr.New(fwerr.Truncation, index, "delta-row replace data runs past end")
		}
		if position+replaceCount > len(row) {
			return nil, fwerr.New(fwerr.Truncation, index, "delta-row cursor %d runs past seed row", position)
		}
		copy(row[position:position+replaceCount], blob[index:index+replaceCount])
		index += replaceCount
		position += replaceCount
	}
	return row, nil
}
