package bootloader

import (
	"github.com/xyproto/fwpeel/internal/addr"
	"github.com/xyproto/fwpeel/internal/fwerr"
	"github.com/xyproto/fwpeel/internal/numeric"
)

// ReadProtectedRanges reads h.ProtectedCount (start, end) pairs of
// big-endian 32-bit virtual addresses, beginning at
// h.ProtectedAddr - loadAddr.
func ReadProtectedRanges(fw []byte, h Header, loadAddr addr.VirtualAddr) ([]addr.Range, error) {
	base, err := h.ProtectedAddr.ToBufferOffset(loadAddr)
	if err != nil {
		return nil, err
	}

	ranges := make([]addr.Range, 0, h.ProtectedCount)
	for i := uint32(0); i < h.ProtectedCount; i++ {
		off := int(base) + int(i)*8
		if off+8 > len(fw) {
			return nil, fwerr.New(fwerr.Truncation, off, "protected range table runs past buffer end")
		}
		start := numeric.ReadIntBE(fw[off:off+4], 4)
		end := numeric.ReadIntBE(fw[off+4:off+8], 4)
		ranges = append(ranges, addr.Range{Start: addr.VirtualAddr(start), End: addr.VirtualAddr(end)})
	}
	return ranges, nil
}

// overlapsAny reports whether r overlaps any of the given protected
// ranges.
func overlapsAny(r addr.Range, protected []addr.Range) bool {
	for _, p := range protected {
		if addr.Overlaps(r, p) {
			return true
		}
	}
	return false
}
