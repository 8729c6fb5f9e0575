package firmware

import (
	"bytes"
	"testing"

	"github.com/xyproto/fwpeel/internal/addr"
)

func putBE(buf []byte, off int, v uint32) {
	buf[off] = byte(v >> 24)
	buf[off+1] = byte(v >> 16)
	buf[off+2] = byte(v >> 8)
	buf[off+3] = byte(v)
}

func TestParseHeader(t *testing.T) {
	data := make([]byte, 0x40)
	putBE(data, 0x00, 0xBAD2BFED)
	putBE(data, 0x08, 0x40)
	putBE(data, 0x10, 0x1000)
	putBE(data, 0x1C, 0x2000)
	putBE(data, 0x30, 0x80000000)
	putBE(data, 0x34, 0x4000)
	putBE(data, 0x3C, 0x80000100)

	h, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.PageSize != 0x1000 || h.BmpSize != 0x2000 || h.LoadSize != 0x4000 {
		t.Fatalf("unexpected header: %+v", h)
	}
	if h.LoadAddr != addr.VirtualAddr(0x80000000) || h.ExecAddr != addr.VirtualAddr(0x80000100) {
		t.Fatalf("unexpected addresses: %+v", h)
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	data := make([]byte, 0x40)
	putBE(data, 0x00, 0xDEADBEEF)
	if _, err := ParseHeader(data); err == nil {
		t.Fatal("expected bad-magic error")
	}
}

func TestCarveRoundsUpPageCounts(t *testing.T) {
	// invariant 7: firmware.len() == ceil(load_size/page_size) * page_size
	h := Header{
		PageSize: 0x10,
		BmpSize:  0x05, // -> 1 page
		LoadSize: 0x11, // -> 2 pages
	}
	// start = (1+1)*0x10 = 0x20; end = 0x20 + 2*0x10 = 0x40
	data := bytes.Repeat([]byte{0x00}, 0x20)
	data = append(data, bytes.Repeat([]byte{0xCD}, 0x20)...)

	fw, err := Carve(data, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fw) != 0x20 {
		t.Fatalf("len(fw) = %#x, want 0x20", len(fw))
	}
	for _, b := range fw {
		if b != 0xCD {
			t.Fatal("carved region does not line up with expected offset")
		}
	}
}

func TestCarveTruncatedBuffer(t *testing.T) {
	h := Header{PageSize: 0x10, BmpSize: 0x10, LoadSize: 0x100}
	if _, err := Carve(make([]byte, 4), h); err == nil {
		t.Fatal("expected truncation error")
	}
}

func TestWalkSegmentsFollowsLinkedListToTerminator(t *testing.T) {
	const loadAddr = 0x1000
	h := Header{LoadAddr: addr.VirtualAddr(loadAddr)}

	data := make([]byte, 0x100)
	// name string "seg0" at buffer offset 0x80 (virtual 0x1080)
	copy(data[0x80:], []byte("seg0\x00"))

	const nodeA = 0x00
	putBE(data, nodeA+0, 0) // next = 0 -> terminator
	putBE(data, nodeA+4, loadAddr+0x80)
	putBE(data, nodeA+8, loadAddr+0x10)
	putBE(data, nodeA+12, 0x20)
	putBE(data, nodeA+16, 0x7)
	putBE(data, nodeA+20, loadAddr+0x30)

	segs, err := WalkSegments(data, h, addr.BufferOffset(nodeA))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Name != "seg0" {
		t.Fatalf("name = %q", segs[0].Name)
	}
	if segs[0].Size != 0x20 {
		t.Fatalf("size = %#x, want 0x20", segs[0].Size)
	}
}

func TestWalkSegmentsStopsOnUnderflow(t *testing.T) {
	const loadAddr = 0x1000
	h := Header{LoadAddr: addr.VirtualAddr(loadAddr)}

	data := make([]byte, 0x100)
	copy(data[0x80:], []byte("x\x00"))
	putBE(data, 0, 0x10) // next pointer below load_addr -> underflow, stop
	putBE(data, 4, loadAddr+0x80)
	putBE(data, 8, loadAddr)
	putBE(data, 12, 4)
	putBE(data, 16, 0)
	putBE(data, 20, loadAddr)

	segs, err := WalkSegments(data, h, addr.BufferOffset(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1 (node parsed before the underflowing next halts the walk)", len(segs))
	}
}
