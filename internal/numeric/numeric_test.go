package numeric

import "testing"

func TestReadDigitsDecimal(t *testing.T) {
	v, n := ReadDigits([]byte("123m"), 10)
	if v != 123 || n != 3 {
		t.Fatalf("got (%d, %d), want (123, 3)", v, n)
	}
}

func TestReadDigitsHexTerminatesOnNonHex(t *testing.T) {
	v, n := ReadDigits([]byte("1Fg"), 16)
	if v != 0x1F || n != 2 {
		t.Fatalf("got (%d, %d), want (31, 2)", v, n)
	}
}

func TestReadDigitsHexLetterIgnoredUnderBase10(t *testing.T) {
	v, n := ReadDigits([]byte("7A"), 10)
	if v != 7 || n != 1 {
		t.Fatalf("got (%d, %d), want (7, 1)", v, n)
	}
}

func TestReadIntBE(t *testing.T) {
	if got := ReadIntBE([]byte{0xBA, 0xD2, 0xBF, 0xED}, 4); got != 0xBAD2BFED {
		t.Fatalf("ReadIntBE = %#x", got)
	}
	if got := ReadIntBE([]byte{0x01, 0x02}, 2); got != 0x0102 {
		t.Fatalf("ReadIntBE(2) = %#x", got)
	}
}

func TestReadIntLE(t *testing.T) {
	if got := ReadIntLE([]byte{0xED, 0xBF, 0xD2, 0xBA}, 4); got != 0xBAD2BFED {
		t.Fatalf("ReadIntLE = %#x", got)
	}
}
