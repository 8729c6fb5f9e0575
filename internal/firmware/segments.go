package firmware

import (
	"github.com/xyproto/fwpeel/internal/addr"
	"github.com/xyproto/fwpeel/internal/numeric"
)

// Segment is one flattened node of the firmware's in-memory segment
// linked list (spec.md §9: "flatten it into an ordered vector of segment
// records keyed by node offset").
type Segment struct {
	Name  string
	Start addr.VirtualAddr
	Size  uint32
	Flags uint32
	Dst   addr.VirtualAddr
}

// WalkSegments walks the segment linked list embedded in the firmware
// buffer starting at tableBase, following next-pointers (converted from
// virtual addresses to buffer offsets) until a next of zero, or an
// underflowing subtraction, terminates the walk.
func WalkSegments(data []byte, h Header, tableBase addr.BufferOffset) ([]Segment, error) {
	var segments []Segment

	next := tableBase
	for {
		if int(next)+24 > len(data) {
			break
		}
		node := data[next:]

		nameAddr := addr.VirtualAddr(numeric.ReadIntBE(node[4:8], 4))
		start := addr.VirtualAddr(numeric.ReadIntBE(node[8:12], 4))
		size := numeric.ReadIntBE(node[12:16], 4)
		flags := numeric.ReadIntBE(node[16:20], 4)
		dst := addr.VirtualAddr(numeric.ReadIntBE(node[20:24], 4))

		nameOffset, err := nameAddr.ToBufferOffset(h.LoadAddr)
		if err != nil {
			break
		}
		name := readCString(data, nameOffset)

		segments = append(segments, Segment{
			Name:  name,
			Start: start,
			Size:  size,
			Flags: flags,
			Dst:   dst,
		})

		rawNext := addr.VirtualAddr(numeric.ReadIntBE(node[0:4], 4))
		if rawNext == 0 {
			break
		}
		nextOffset, err := rawNext.ToBufferOffset(h.LoadAddr)
		if err != nil {
			break
		}
		next = nextOffset
	}

	return segments, nil
}

func readCString(data []byte, start addr.BufferOffset) string {
	i := int(start)
	if i > len(data) {
		return ""
	}
	end := i
	for end < len(data) && data[end] != 0x00 {
		end++
	}
	return string(data[i:end])
}
