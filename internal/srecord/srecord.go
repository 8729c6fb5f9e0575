// Package srecord tokenizes the decompressed bitmap payload into Motorola
// S-Records, in both the standard ASCII-text encoding and the vendor's
// binary encoding, and strips the page-alignment out-of-band bytes from
// the concatenated binary records. Ported from
// original_source/unpacker/src/srecord.rs.
package srecord

import (
	"github.com/xyproto/fwpeel/internal/fwerr"
	"github.com/xyproto/fwpeel/internal/numeric"
)

// Type is the S-Record variant, read from the byte following the 'S' in
// the text form, or from the low nibble of the header byte in binary
// form.
type Type int

const (
	TypeZero  Type = 0
	TypeThree Type = 3
	TypeSeven Type = 7
	TypeA     Type = 0xA
)

// Record is one parsed S-Record.
type Record struct {
	Header   byte // the raw first byte: 'S' (0x53) for text, 0x30|type for binary
	Type     Type
	Length   int // declared data length (bytes after the length field)
	Address  uint32
	Data     []byte
	Checksum byte
}

// addressSize returns the address field width in bytes for a record type,
// per spec.md §3/§4.6: 0/1/5/9 -> 2, 2/6/8 -> 3, 3/7 -> 4, A -> 0.
func addressSize(rawType int) int {
	switch rawType {
	case 0, 1, 5, 9:
		return 2
	case 2, 6, 8:
		return 3
	case 3, 7:
		return 4
	default:
		return 0
	}
}

// verifyChecksum implements the one's-complement checksum law: the sum of
// the length byte plus every address and payload byte, mod 256, one's
// complemented, must equal the trailing checksum byte.
func verifyChecksum(length int, addressAndData []byte, checksum byte) error {
	sum := uint16(length)
	for _, b := range addressAndData {
		sum += uint16(b)
	}
	computed := byte(sum&0xFF) ^ 0xFF
	if computed != checksum {
		return fwerr.New(fwerr.ChecksumMismatch, -1,
			"computed checksum 0x%02x, record declares 0x%02x", computed, checksum)
	}
	return nil
}

func typeFromRaw(raw int) (Type, bool) {
	switch raw {
	case 0:
		return TypeZero, true
	case 3:
		return TypeThree, true
	case 7:
		return TypeSeven, true
	case 0xA:
		return TypeA, true
	default:
		return 0, false
	}
}

// Parse tokenizes bytes into S-Records, per spec.md §4.6.
//
// A record type the parser does not recognize (fwerr.UnknownRecordType)
// stops parsing cleanly: the records already parsed are returned along
// with a non-fatal error. Every other failure (truncation, checksum
// mismatch) is fatal and returned immediately.
func Parse(bytes []byte) ([]Record, error) {
	var records []Record
	index := 0

	findNL := func(b []byte) int {
		for i, c := range b {
			if c == '\n' {
				return i
			}
		}
		return len(b)
	}

	for index < len(bytes) {
		recordCat := bytes[index]

		switch {
		case recordCat == 0x53: // 'S': text S-Record
			if index+4 > len(bytes) {
				return records, fwerr.New(fwerr.Truncation, index, "text S-Record header runs past end")
			}
			rawType, n := numeric.ReadDigits(bytes[index+1:index+2], 16)
			sType, ok := typeFromRaw(rawType)
			if n == 0 || !ok {
				return records, fwerr.New(fwerr.UnknownRecordType, index, "unrecognized text record type %q", bytes[index+1])
			}

			length, _ := numeric.ReadDigits(bytes[index+2:index+4], 16)
			if length == 0 {
				return records, fwerr.New(fwerr.Truncation, index, "text S-Record declares zero length, leaving no checksum byte")
			}

			asciiStart := index + 4
			if asciiStart+length*2 > len(bytes) {
				return records, fwerr.New(fwerr.Truncation, index, "text S-Record data runs past end")
			}
			data := make([]byte, length)
			for i := 0; i < length; i++ {
				pair := bytes[asciiStart+i*2 : asciiStart+i*2+2]
				v, _ := numeric.ReadDigits(pair, 16)
				data[i] = byte(v)
			}
			checksum := data[len(data)-1]
			data = data[:len(data)-1]

			addrSize := addressSize(rawType)
			if addrSize > len(data) {
				return records, fwerr.New(fwerr.Truncation, index, "text S-Record address wider than data")
			}
			if err := verifyChecksum(length, data, checksum); err != nil {
				return records, err
			}
			address := numeric.ReadIntBE(data[:addrSize], addrSize)
			payload := data[addrSize:]

			records = append(records, Record{
				Header: recordCat, Type: sType, Length: length,
				Address: address, Data: payload, Checksum: checksum,
			})
			index += length*2 + 5

		case recordCat >= 0x30 && recordCat <= 0x3F: // binary S-Record
			rawType := int(recordCat & 0xF)
			sType, ok := typeFromRaw(rawType)
			if !ok {
				return records, fwerr.New(fwerr.UnknownRecordType, index, "unrecognized binary record type nibble %x", rawType)
			}
			if index+2 > len(bytes) {
				return records, fwerr.New(fwerr.Truncation, index, "binary S-Record length byte missing")
			}
			length := int(bytes[index+1])
			if length == 0 {
				return records, fwerr.New(fwerr.Truncation, index, "binary S-Record declares zero length, leaving no checksum byte")
			}
			if index+1+length >= len(bytes) {
				return records, fwerr.New(fwerr.Truncation, index, "binary S-Record runs past end")
			}
			data := bytes[index+2 : index+1+length]
			checksum := bytes[index+1+length]

			addrSize := addressSize(rawType)
			if addrSize > len(data) {
				return records, fwerr.New(fwerr.Truncation, index, "binary S-Record address wider than data")
			}
			if err := verifyChecksum(length, data, checksum); err != nil {
				return records, err
			}
			address := numeric.ReadIntBE(data[:addrSize], addrSize)
			payload := data[addrSize:]

			records = append(records, Record{
				Header: recordCat, Type: sType, Length: length,
				Address: address, Data: append([]byte(nil), payload...), Checksum: checksum,
			})
			index += length + 2

		case recordCat == 'F' || recordCat == 'P':
			endl := findNL(bytes[index:])
			index += endl + 1

		default:
			// Not a valid record type: stop parsing cleanly, reporting a
			// non-fatal UnknownRecordType alongside the records so far.
			return records, fwerr.New(fwerr.UnknownRecordType, index, "unrecognized record header byte 0x%02x, parsing stopped", recordCat)
		}
	}

	return records, nil
}
