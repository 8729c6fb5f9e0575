package firmware

import (
	"github.com/xyproto/fwpeel/internal/fwerr"
	"github.com/xyproto/fwpeel/internal/obuf"
)

func ceilDiv(n, d uint32) uint32 {
	if d == 0 {
		return 0
	}
	pages := n / d
	if n%d > 0 {
		pages++
	}
	return pages
}

// Carve extracts the firmware region from the paged flash stream, per
// spec.md §4.8. The boot-splash bitmap occupies the leading
// ceil(bmp_size/page_size) pages plus one page of padding; the firmware
// region follows for ceil(load_size/page_size) pages.
//
// This fixes the source's bug (recomputing the page count from
// page_size % page_size, which is always zero) per Open Question 1:
// the number of firmware pages is ceil(load_size / page_size).
func Carve(data []byte, h Header) ([]byte, error) {
	numBmpPages := ceilDiv(h.BmpSize, h.PageSize)
	numFirmwarePages := ceilDiv(h.LoadSize, h.PageSize)

	start := (numBmpPages + 1) * h.PageSize
	end := start + numFirmwarePages*h.PageSize

	if int(end) > len(data) {
		return nil, fwerr.New(fwerr.Truncation, int(start), "firmware carve range %#x..%#x exceeds buffer of length %#x", start, end, len(data))
	}

	builder := obuf.New()
	builder.Write(data[start:end])
	builder.Commit()
	firmware := builder.MustBytes()

	want := numFirmwarePages * h.PageSize
	if uint32(len(firmware)) != want {
		return nil, fwerr.New(fwerr.Truncation, int(start), "carved firmware length %#x, want %#x", len(firmware), want)
	}
	return firmware, nil
}
