// Package numeric implements the lowest-level helpers in the pipeline:
// reading big/little-endian integers out of a byte slice, and converting
// a run of ASCII digits to an integer. Every other stage is built on top
// of these. Ported from original_source/unpacker/src/lib.rs
// (hex_to_ascii, bytes_to_int_be, bytes_to_int_le) — spec.md §4.1 only
// describes these in prose, so the Rust is the literal reference.
package numeric

// ReadDigits consumes leading bytes of b that belong to the active digit
// set ('0'-'9' always; 'A'-'F' additionally when base is 16) and returns
// the accumulated value along with the number of bytes consumed. A
// non-digit byte — including 'A'-'F' when base is 10 — terminates
// consumption without contributing to the value.
func ReadDigits(b []byte, base int) (value int, consumed int) {
	var digits []int
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, int(c-'0'))
		case base == 16 && c >= 'A' && c <= 'F':
			digits = append(digits, int(c-'A')+10)
		default:
			goto done
		}
	}
done:
	consumed = len(digits)
	value = 0
	power := 1
	for i := len(digits) - 1; i >= 0; i-- {
		value += digits[i] * power
		power *= base
	}
	return value, consumed
}

// ReadIntBE reduces the first size bytes of b (size in 1..=4) to an
// unsigned integer, most-significant byte first.
func ReadIntBE(b []byte, size int) uint32 {
	var result uint32
	for i := 0; i < size && i < len(b); i++ {
		result = (result << 8) | uint32(b[i])
	}
	return result
}

// ReadIntLE reduces the first size bytes of b (size in 1..=4) to an
// unsigned integer, least-significant byte first.
func ReadIntLE(b []byte, size int) uint32 {
	var result uint32
	for i := 0; i < size && i < len(b); i++ {
		result |= uint32(b[i]) << (8 * uint(i))
	}
	return result
}
