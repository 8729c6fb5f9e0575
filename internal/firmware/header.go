// Package firmware interprets the page-stripped S-Record payload as a
// flash image: it locates the fixed-layout header, carves the firmware
// region out of the surrounding boot-splash pages, and walks the
// in-memory segment linked list. Ported from original_source/unpacker/src/main.rs's
// Firmware::parse_header / parse_data / parse_segments.
package firmware

import (
	"github.com/xyproto/fwpeel/internal/addr"
	"github.com/xyproto/fwpeel/internal/fwerr"
	"github.com/xyproto/fwpeel/internal/numeric"
)

const headerMagic = 0xBAD2BFED

// Header is the fixed-layout record at offset 0 of the reconstructed
// flash image (spec.md §3).
type Header struct {
	Magic      uint32
	HeaderSize uint32
	PageSize   uint32
	BmpSize    uint32
	LoadAddr   addr.VirtualAddr
	LoadSize   uint32
	ExecAddr   addr.VirtualAddr
}

// ParseHeader reads the fixed big-endian 32-bit fields and checks the
// magic. A mismatch is fatal (fwerr.BadMagic).
func ParseHeader(data []byte) (Header, error) {
	if len(data) < 0x40 {
		return Header{}, fwerr.New(fwerr.Truncation, 0, "firmware header runs past end of buffer")
	}
	field := func(off int) uint32 {
		return numeric.ReadIntBE(data[off:off+4], 4)
	}

	h := Header{
		Magic:      field(0x00),
		HeaderSize: field(0x08),
		PageSize:   field(0x10),
		BmpSize:    field(0x1C),
		LoadAddr:   addr.VirtualAddr(field(0x30)),
		LoadSize:   field(0x34),
		ExecAddr:   addr.VirtualAddr(field(0x3C)),
	}
	if h.Magic != headerMagic {
		return Header{}, fwerr.New(fwerr.BadMagic, 0, "firmware magic %#x, want %#x", h.Magic, uint32(headerMagic))
	}
	return h, nil
}
