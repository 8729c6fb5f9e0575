package pjl

import (
	"github.com/xyproto/fwpeel/internal/fwerr"
	"github.com/xyproto/fwpeel/internal/obuf"
)

// ExtractBitmap finds the bracketing AsteriskR('A')/AsteriskR('C') pair,
// decompresses every raster Data payload between them under the running
// compression mode, and concatenates the results into the bitmap
// payload the S-Record stage consumes next.
func ExtractBitmap(cmds []Command) ([]byte, error) {
	start := -1
	end := -1
	for i, c := range cmds {
		if ar, ok := c.(AsteriskR); ok {
			if ar.Method == 'A' && start == -1 {
				start = i
			}
			if ar.Method == 'C' && end == -1 {
				end = i
			}
		}
	}
	if start == -1 {
		return nil, fwerr.New(fwerr.Truncation, 0, "no AsteriskR('A') bitmap start command found")
	}
	if end == -1 {
		return nil, fwerr.New(fwerr.Truncation, 0, "no AsteriskR('C') bitmap end command found")
	}

	result := obuf.New()
	seedRow := make([]byte, seedRowSize)
	mode := uint8(0)

	for _, part := range cmds[start+1 : end] {
		var params []Param
		var transportMethod byte
		switch c := part.(type) {
		case AsteriskB:
			params = c.Params
			transportMethod = c.Method
		default:
			continue
		}

		for _, p := range params {
			switch v := p.(type) {
			case Compression:
				mode = v.Level
			case Data:
				decompressed, err := DecompressRaster(mode, transportMethod, v.Bytes, seedRow)
				if err != nil {
					return nil, err
				}
				seedRow = decompressed
				result.Write(decompressed)
			}
		}
	}

	result.Commit()
	return result.MustBytes(), nil
}
