// Package addr gives virtual addresses and buffer offsets distinct types
// so the two can never be mixed by accident, and so the one arithmetic
// operation that can fail (converting a virtual address below the load
// address) reports a typed error instead of silently wrapping around a
// uint32. Adapted from the teacher's address_types.go, which keeps
// FileOffset/VirtualAddr/TextOffset distinct for the same reason in a
// different domain (ELF section layout rather than firmware images).
package addr

import (
	"fmt"

	"github.com/xyproto/fwpeel/internal/fwerr"
)

// VirtualAddr is an address in the firmware's runtime address space, as
// it appears in segment pointers, triplet fields, and header fields.
type VirtualAddr uint32

// BufferOffset is an index into an in-memory firmware buffer.
type BufferOffset uint32

func (v VirtualAddr) String() string {
	return fmt.Sprintf("0x%08x", uint32(v))
}

func (o BufferOffset) String() string {
	return fmt.Sprintf("buf+0x%x", uint32(o))
}

// ToBufferOffset converts a virtual address to a buffer index relative to
// load. It fails with fwerr.UnderflowedAddress when v is below load,
// rather than wrapping to a huge unsigned value.
func (v VirtualAddr) ToBufferOffset(load VirtualAddr) (BufferOffset, error) {
	if v < load {
		return 0, fwerr.New(fwerr.UnderflowedAddress, -1,
			"address %s is below load address %s", v, load)
	}
	return BufferOffset(v - load), nil
}

// Add returns the buffer offset advanced by n bytes.
func (o BufferOffset) Add(n uint32) BufferOffset {
	return o + BufferOffset(n)
}

// Range is an inclusive virtual-address interval, e.g. a protected range
// or the [dst, dst+len) window a triplet writes.
type Range struct {
	Start VirtualAddr
	End   VirtualAddr
}

// Overlaps reports whether two inclusive ranges intersect. Symmetric:
// Overlaps(a, b) == Overlaps(b, a).
func Overlaps(a, b Range) bool {
	lo := a.Start
	if b.Start > lo {
		lo = b.Start
	}
	hi := a.End
	if b.End < hi {
		hi = b.End
	}
	return lo <= hi
}
