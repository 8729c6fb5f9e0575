package bootloader

import (
	"github.com/xyproto/fwpeel/internal/addr"
	"github.com/xyproto/fwpeel/internal/fwerr"
	"github.com/xyproto/fwpeel/internal/numeric"
)

// Triplet is one 12-byte (a, b, c) descriptor. Its meaning depends on
// which table it came from: memset (dst, value, size), memcpy (dst, src,
// size), or uncompress (dst, src, compressed_size).
type Triplet struct {
	A uint32
	B uint32
	C uint32
}

// readTripletList decodes the span [start, end) of a triplet table into
// a slice of Triplet, 12 bytes each.
func readTripletList(fw []byte, start, end addr.VirtualAddr, loadAddr addr.VirtualAddr) ([]Triplet, error) {
	startOff, err := start.ToBufferOffset(loadAddr)
	if err != nil {
		return nil, err
	}
	endOff, err := end.ToBufferOffset(loadAddr)
	if err != nil {
		return nil, err
	}
	if int(endOff) > len(fw) {
		return nil, fwerr.New(fwerr.Truncation, int(startOff), "triplet table runs past buffer end")
	}

	var triplets []Triplet
	for off := int(startOff); off+12 <= int(endOff); off += 12 {
		triplets = append(triplets, Triplet{
			A: numeric.ReadIntBE(fw[off:off+4], 4),
			B: numeric.ReadIntBE(fw[off+4:off+8], 4),
			C: numeric.ReadIntBE(fw[off+8:off+12], 4),
		})
	}
	return triplets, nil
}

// MemsetList, CopyList and UncompressList decode the three triplet
// tables named in the application header.
func MemsetList(fw []byte, h Header, loadAddr addr.VirtualAddr) ([]Triplet, error) {
	return readTripletList(fw, h.MemsetListStart, h.MemsetListEnd, loadAddr)
}

func CopyList(fw []byte, h Header, loadAddr addr.VirtualAddr) ([]Triplet, error) {
	return readTripletList(fw, h.CopyListStart, h.CopyListEnd, loadAddr)
}

func UncompressList(fw []byte, h Header, loadAddr addr.VirtualAddr) ([]Triplet, error) {
	return readTripletList(fw, h.UncompressListStart, h.UncompressListEnd, loadAddr)
}
