package pjl

import (
	"bytes"
	"testing"
)

func TestParseUEL(t *testing.T) {
	blob := append([]byte{esc}, []byte("%-12345Xhello")...)
	cmds, err := Parse(blob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	uel, ok := cmds[0].(UEL)
	if !ok {
		t.Fatalf("got %T, want UEL", cmds[0])
	}
	msg := uel.Params[0].(Message)
	if msg.Text != "hello" {
		t.Fatalf("message = %q", msg.Text)
	}
}

func TestParseAsteriskRCommand(t *testing.T) {
	// ESC *r A  (no parameter area, method 'A')
	blob := []byte{esc, '*', 'r', 'A'}
	cmds, err := Parse(blob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ar, ok := cmds[0].(AsteriskR)
	if !ok {
		t.Fatalf("got %T, want AsteriskR", cmds[0])
	}
	if ar.Method != 'A' {
		t.Fatalf("method = %c, want A", ar.Method)
	}
}

func TestParseAsteriskBWithLengthAndData(t *testing.T) {
	// ESC *b 5m 3W <3 data bytes>
	var blob bytes.Buffer
	blob.WriteByte(esc)
	blob.WriteString("*b5m3W")
	blob.Write([]byte{0x11, 0x22, 0x33})

	cmds, err := Parse(blob.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	ab := cmds[0].(AsteriskB)
	if ab.Method != 'W' {
		t.Fatalf("method = %c, want W", ab.Method)
	}

	var gotCompression, gotLength, gotData bool
	for _, p := range ab.Params {
		switch v := p.(type) {
		case Compression:
			gotCompression = true
			if v.Level != 5 {
				t.Fatalf("compression level = %d, want 5", v.Level)
			}
		case Length:
			gotLength = true
			if v.Count != 3 {
				t.Fatalf("length = %d, want 3", v.Count)
			}
		case Data:
			gotData = true
			if !bytes.Equal(v.Bytes, []byte{0x11, 0x22, 0x33}) {
				t.Fatalf("data = %x", v.Bytes)
			}
		}
	}
	if !gotCompression || !gotLength || !gotData {
		t.Fatalf("missing expected params: compression=%v length=%v data=%v", gotCompression, gotLength, gotData)
	}
}

func TestParseResetCommand(t *testing.T) {
	blob := append([]byte{esc}, []byte("Ereset-message")...)
	blob = append(blob, esc)
	blob = append(blob, []byte("%-12345X")...)
	cmds, err := Parse(blob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cmds[0].(Reset); !ok {
		t.Fatalf("got %T, want Reset", cmds[0])
	}
}

func TestParseUnknownFamilyIsFatal(t *testing.T) {
	blob := []byte{esc, 'Z'}
	_, err := Parse(blob)
	if err == nil {
		t.Fatal("expected error for unrecognized command family")
	}
}

func TestParseUnknownAsteriskCommandNameIsFatal(t *testing.T) {
	blob := []byte{esc, '*', 'q', 'A'}
	_, err := Parse(blob)
	if err == nil {
		t.Fatal("expected error for unrecognized *-command name")
	}
}
