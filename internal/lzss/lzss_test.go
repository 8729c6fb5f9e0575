package lzss

import (
	"bytes"
	"testing"
)

// S1: one control byte with all eight literal bits set, eight literal bytes.
func TestDecompressAllLiterals(t *testing.T) {
	src := []byte{0xFF, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48}
	got := Decompress(src)
	want := []byte{0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

// S2: control bit0=1 (literal 'A'), bit1=0 (match, offset 0xF00, length 3);
// the match source is below zero so it reads as 0x00 each time.
func TestDecompressNegativeWindowYieldsZero(t *testing.T) {
	src := []byte{0x01, 0x41, 0x00, 0xF0}
	got := Decompress(src)
	want := []byte{0x41, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestDecompressEmptyInput(t *testing.T) {
	if got := Decompress(nil); len(got) != 0 {
		t.Fatalf("expected empty output, got %x", got)
	}
}

func TestDecompressOrphanFinalByte(t *testing.T) {
	// Odd-length input: a lone trailing byte is emitted verbatim.
	got := Decompress([]byte{0x99})
	want := []byte{0x99}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestDecompressSelfReferentialRun(t *testing.T) {
	// One literal 'A', then a match whose offset cancels the initial
	// negative window start exactly, copying dst[0], dst[1], dst[2] where
	// the last two are bytes the copy itself just wrote (self-referential
	// copy): run-length behavior producing AAAA.
	src := []byte{0x01, 0x41, 0xEE, 0xF0}
	got := Decompress(src)
	want := []byte{0x41, 0x41, 0x41, 0x41}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestDecompressTotalOnArbitraryInput(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 100, 4097} {
		src := make([]byte, n)
		for i := range src {
			src[i] = byte(i * 37)
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Decompress panicked on %d-byte input: %v", n, r)
				}
			}()
			Decompress(src)
		}()
	}
}
