package bootloader

import (
	"github.com/xyproto/fwpeel/internal/addr"
	"github.com/xyproto/fwpeel/internal/diag"
	"github.com/xyproto/fwpeel/internal/fwerr"
	"github.com/xyproto/fwpeel/internal/lzss"
)

// Replay executes every triplet from the memset, copy and uncompress
// lists, in that order, against the firmware buffer, producing an
// address-keyed artifact map. A triplet whose written range overlaps any
// protected range is skipped with a warning through logger, recorded as
// non-fatal in the returned collector; a triplet with size 0 is skipped
// silently. Triplets execute in table order, but artifacts are keyed by
// destination, so a later write to the same address replaces an earlier
// one regardless of which table produced it.
func Replay(fw []byte, h Header, loadAddr addr.VirtualAddr, protected []addr.Range, logger diag.Logger) (map[addr.VirtualAddr][]byte, *fwerr.Collector, error) {
	memset, err := MemsetList(fw, h, loadAddr)
	if err != nil {
		return nil, nil, err
	}
	memcpy, err := CopyList(fw, h, loadAddr)
	if err != nil {
		return nil, nil, err
	}
	uncompress, err := UncompressList(fw, h, loadAddr)
	if err != nil {
		return nil, nil, err
	}

	artifacts := make(map[addr.VirtualAddr][]byte)
	collector := &fwerr.Collector{}

	apply := func(dst addr.VirtualAddr, buf []byte) {
		if len(buf) == 0 {
			return
		}
		r := addr.Range{Start: dst, End: dst + addr.VirtualAddr(len(buf)-1)}
		if overlapsAny(r, protected) {
			w := fwerr.New(fwerr.ProtectedOverlap, -1, "triplet writing %d bytes at %s overlaps a protected range, skipped", len(buf), dst)
			collector.Add(w)
			logger.Warnf("%s", w.Error())
			return
		}
		artifacts[dst] = buf
	}

	for _, t := range memset {
		if t.C == 0 {
			continue
		}
		dst := addr.VirtualAddr(t.A)
		buf := make([]byte, t.C)
		value := byte(t.B & 0xFF)
		for i := range buf {
			buf[i] = value
		}
		apply(dst, buf)
	}

	for _, t := range memcpy {
		if t.C == 0 {
			continue
		}
		dst := addr.VirtualAddr(t.A)
		src := addr.VirtualAddr(t.B)
		srcOff, err := src.ToBufferOffset(loadAddr)
		if err != nil {
			return nil, nil, err
		}
		end := int(srcOff) + int(t.C)
		if end > len(fw) {
			return nil, nil, fwerr.New(fwerr.Truncation, int(srcOff), "memcpy triplet source runs past buffer end")
		}
		buf := append([]byte(nil), fw[srcOff:end]...)
		apply(dst, buf)
	}

	for _, t := range uncompress {
		if t.C == 0 {
			continue
		}
		dst := addr.VirtualAddr(t.A)
		src := addr.VirtualAddr(t.B)
		srcOff, err := src.ToBufferOffset(loadAddr)
		if err != nil {
			return nil, nil, err
		}
		end := int(srcOff) + int(t.C)
		if end > len(fw) {
			return nil, nil, fwerr.New(fwerr.Truncation, int(srcOff), "uncompress triplet source runs past buffer end")
		}
		buf := lzss.Decompress(fw[srcOff:end])
		apply(dst, buf)
	}

	return artifacts, collector, nil
}
