// Package bootloader locates the vendor application header embedded in
// the carved firmware image, resolves its protected ranges and its three
// triplet tables, and replays every triplet into an address-keyed
// artifact map. Unlike the other pipeline stages this one has no
// original_source counterpart; it is grounded directly on spec.md §3/§4.9,
// styled after the teacher's address_types.go and errors.go.
package bootloader

import (
	"github.com/xyproto/fwpeel/internal/addr"
	"github.com/xyproto/fwpeel/internal/fwerr"
	"github.com/xyproto/fwpeel/internal/numeric"
)

const appHeaderMagic = 0x3CA55A3C

// Header is the application header located by magic scan (spec.md §3).
// Every field below is named relative to the magic offset M.
type Header struct {
	Magic               addr.BufferOffset // buffer offset of the magic itself
	ProtectedCount      uint32            // M-4
	Size                uint32            // M+4
	EntryPoint          addr.VirtualAddr  // M+52
	ProtectedAddr       addr.VirtualAddr  // M+60
	SectionLinkedList   addr.VirtualAddr  // M+64
	MemsetListStart     addr.VirtualAddr  // M+72
	MemsetListEnd       addr.VirtualAddr  // M+76
	CopyListStart       addr.VirtualAddr  // M+80
	CopyListEnd         addr.VirtualAddr  // M+84
	UncompressListStart addr.VirtualAddr  // M+92
	UncompressListEnd   addr.VirtualAddr  // M+96
}

// Locate scans the firmware buffer in 4-byte steps for the application
// header magic. Exactly one match is expected; zero or more than one is
// fatal (fwerr.BadMagic / fwerr.DuplicateHeaderMagic).
func Locate(fw []byte) (Header, error) {
	var offsets []int
	for i := 0; i+4 <= len(fw); i += 4 {
		if numeric.ReadIntBE(fw[i:i+4], 4) == appHeaderMagic {
			offsets = append(offsets, i)
		}
	}
	if len(offsets) == 0 {
		return Header{}, fwerr.New(fwerr.BadMagic, 0, "application header magic %#x not found", uint32(appHeaderMagic))
	}
	if len(offsets) > 1 {
		return Header{}, fwerr.New(fwerr.DuplicateHeaderMagic, offsets[1], "application header magic appears %d times", len(offsets))
	}

	m := offsets[0]
	field := func(rel int) uint32 {
		return numeric.ReadIntBE(fw[m+rel:m+rel+4], 4)
	}
	if m-4 < 0 || m+100 > len(fw) {
		return Header{}, fwerr.New(fwerr.Truncation, m, "application header fields run past buffer bounds")
	}

	return Header{
		Magic:               addr.BufferOffset(m),
		ProtectedCount:      field(-4),
		Size:                field(4),
		EntryPoint:          addr.VirtualAddr(field(52)),
		ProtectedAddr:       addr.VirtualAddr(field(60)),
		SectionLinkedList:   addr.VirtualAddr(field(64)),
		MemsetListStart:     addr.VirtualAddr(field(72)),
		MemsetListEnd:       addr.VirtualAddr(field(76)),
		CopyListStart:       addr.VirtualAddr(field(80)),
		CopyListEnd:         addr.VirtualAddr(field(84)),
		UncompressListStart: addr.VirtualAddr(field(92)),
		UncompressListEnd:   addr.VirtualAddr(field(96)),
	}, nil
}
