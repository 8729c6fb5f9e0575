// Package pjl parses the escape-prefixed Printer Job Language command
// stream (§4.3), decompresses raster transfers under the three
// compression modes (§4.4), and extracts the concatenated bitmap payload
// those transfers carry (§4.5). Ported from
// original_source/unpacker/src/pjl.rs.
//
// Commands and parameters are a closed set, represented here as small Go
// interfaces with an unexported tag method rather than a class hierarchy,
// per spec.md §9 "Tagged unions over inheritance."
package pjl

import (
	"github.com/xyproto/fwpeel/internal/fwerr"
	"github.com/xyproto/fwpeel/internal/numeric"
)

const esc = 0x1B

// Param is the closed set of parameter kinds a command can carry.
type Param interface {
	isParam()
}

// Compression sets the raster compression level (mode) for subsequent
// transfers.
type Compression struct{ Level uint8 }

// Length declares the byte count of an upcoming raster Data payload.
type Length struct{ Count int }

// Data is a raw raster payload, always paired with a Length of equal size.
type Data struct{ Bytes []byte }

// Message is free-form text following a UEL or soft-reset command.
type Message struct{ Text string }

// Unknown is a parameter token the parser could not classify; it is
// reported through the diagnostic interface by the caller, not dropped
// silently.
type Unknown struct{ Bytes []byte }

func (Compression) isParam() {}
func (Length) isParam()      {}
func (Data) isParam()        {}
func (Message) isParam()     {}
func (Unknown) isParam()     {}

// Command is the closed set of PJL commands.
type Command interface {
	isCommand()
	// Offset is the byte offset in the original stream this command
	// begins at, kept purely for diagnostics.
	Offset() int
}

type base struct{ offset int }

func (b base) Offset() int { return b.offset }

// UEL is the Universal Exit Language session introducer.
type UEL struct {
	base
	Params []Param
}

// Reset is the "E" soft-reset command.
type Reset struct {
	base
	Params []Param
}

// AsteriskB is a raster-data-transfer command ("*b...V" or "*b...W").
type AsteriskB struct {
	base
	Method byte
	Params []Param
}

// AsteriskR is a raster-dictionary-control command ("*r...A" or "*r...C").
type AsteriskR struct {
	base
	Method byte
	Params []Param
}

func (UEL) isCommand()       {}
func (Reset) isCommand()     {}
func (AsteriskB) isCommand() {}
func (AsteriskR) isCommand() {}

// Parse tokenizes blob into an ordered list of PJL commands.
func Parse(blob []byte) ([]Command, error) {
	var cmds []Command
	index := 0

	findNextEsc := func(b []byte) int {
		for i, c := range b {
			if c == esc {
				return i
			}
		}
		return len(b)
	}

	for index < len(blob) {
		offset := index
		if blob[index] != esc {
			return cmds, fwerr.New(fwerr.Truncation, index, "expected ESC, found 0x%02x", blob[index])
		}
		index++
		if index >= len(blob) {
			return cmds, fwerr.New(fwerr.Truncation, index, "stream ends right after ESC")
		}

		if blob[index] == '%' {
			if index+8 > len(blob) || string(blob[index:index+8]) != "%-12345X" {
				return cmds, fwerr.New(fwerr.UnknownPJLCommand, index, "malformed UEL introducer")
			}
			index += 8
			endl := findNextEsc(blob[index:])
			msg := string(blob[index : index+endl])
			index += endl
			cmds = append(cmds, UEL{base: base{offset}, Params: []Param{Message{msg}}})
			continue
		}

		// Scan to the first uppercase ASCII letter: that is the method.
		// The byte right after ESC (cmdline[0]) is the family.
		pos := 0
		for index+pos < len(blob) && !(blob[index+pos] >= 'A' && blob[index+pos] <= 'Z') {
			pos++
		}
		if index+pos >= len(blob) {
			return cmds, fwerr.New(fwerr.Truncation, index, "no method letter found before stream end")
		}
		cmdLen := pos + 1
		cmdline := blob[index : index+cmdLen]
		index += cmdLen

		switch cmdline[0] {
		case 'E':
			endl := findNextEsc(blob[index:])
			msg := string(blob[index : index+endl])
			index += endl
			cmds = append(cmds, Reset{base: base{offset}, Params: []Param{Message{msg}}})

		case '*':
			if len(cmdline) < 3 {
				return cmds, fwerr.New(fwerr.Truncation, offset, "*-command too short to carry a command name and method")
			}
			cmdName := cmdline[1]
			method := cmdline[len(cmdline)-1]
			params := parseParams(cmdline[2 : len(cmdline)-1])

			switch cmdName {
			case 'r':
				cmds = append(cmds, AsteriskR{base: base{offset}, Method: method, Params: params})

			case 'b':
				readLength, ok := findLength(params)
				if !ok {
					return cmds, fwerr.New(fwerr.Truncation, index, "*b command missing Length parameter")
				}
				switch method {
				case 'V', 'W':
					if index+readLength > len(blob) {
						return cmds, fwerr.New(fwerr.Truncation, index, "raster payload of %d bytes runs past stream end", readLength)
					}
					payload := blob[index : index+readLength]
					index += readLength
					params = append(params, Data{Bytes: payload})
					cmds = append(cmds, AsteriskB{base: base{offset}, Method: method, Params: params})
				default:
					endl := findNextEsc(blob[index:])
					index += endl
					cmds = append(cmds, AsteriskB{base: base{offset}, Method: method, Params: params})
				}

			default:
				return cmds, fwerr.New(fwerr.UnknownPJLCommand, offset, "unrecognized *%c command", cmdName)
			}

		default:
			return cmds, fwerr.New(fwerr.UnknownPJLCommand, offset, "unrecognized command family %q", cmdline[0])
		}
	}

	return cmds, nil
}

// parseParams splits a command's parameter area the way the original
// Rust's split_inclusive(is_ascii_lowercase) does: each token runs up to
// and including the next lowercase ASCII letter, except a final leftover
// chunk (if the area doesn't end in a lowercase letter) which carries no
// delimiter of its own — e.g. a bare "*b100W" leaves "100" as that
// leftover, still classified as a Length by its trailing digit.
func parseParams(area []byte) []Param {
	var params []Param
	start := 0
	for i, c := range area {
		if c >= 'a' && c <= 'z' {
			params = append(params, classifyToken(area[start:i+1]))
			start = i + 1
		}
	}
	if start < len(area) {
		params = append(params, classifyToken(area[start:]))
	}
	return params
}

func classifyToken(token []byte) Param {
	if len(token) == 0 {
		return Unknown{Bytes: token}
	}
	last := token[len(token)-1]
	switch {
	case last == 'm':
		level, _ := numeric.ReadDigits(token[:len(token)-1], 10)
		return Compression{Level: uint8(level)}
	case last >= '0' && last <= '9':
		count, _ := numeric.ReadDigits(token, 10)
		return Length{Count: count}
	default:
		return Unknown{Bytes: token}
	}
}

func findLength(params []Param) (int, bool) {
	for _, p := range params {
		if l, ok := p.(Length); ok {
			return l.Count, true
		}
	}
	return 0, false
}
