// Package fwerr defines the error kinds raised by the unwrap pipeline and
// a small collector for the kinds that are not immediately fatal.
package fwerr

import "fmt"

// Kind is a closed set of error categories raised while unwrapping a
// firmware delivery file.
type Kind int

const (
	// Truncation is raised by any stage that reads past the end of its input.
	Truncation Kind = iota
	// BadMagic is raised when a firmware or application header magic mismatches.
	BadMagic
	// ChecksumMismatch is raised by the S-Record parser.
	ChecksumMismatch
	// UnknownRecordType stops the S-Record parser cleanly; already-parsed
	// records are still returned to the caller.
	UnknownRecordType
	// UnknownPJLCommand is raised by the PJL parser for unsupported command
	// families, or for an `*` command with an unrecognized command name. An
	// `*b` command with an unrecognized method is skipped, not raised.
	UnknownPJLCommand
	// ProtectedOverlap is raised when a boot-loader triplet's destination
	// window overlaps a protected range.
	ProtectedOverlap
	// UnderflowedAddress is raised when a source address is below the
	// firmware's load address.
	UnderflowedAddress
	// DuplicateHeaderMagic is raised when the application header magic
	// appears more than once in the firmware buffer.
	DuplicateHeaderMagic
)

func (k Kind) String() string {
	switch k {
	case Truncation:
		return "truncation"
	case BadMagic:
		return "bad magic"
	case ChecksumMismatch:
		return "checksum mismatch"
	case UnknownRecordType:
		return "unknown record type"
	case UnknownPJLCommand:
		return "unknown PJL command"
	case ProtectedOverlap:
		return "protected range overlap"
	case UnderflowedAddress:
		return "underflowed address"
	case DuplicateHeaderMagic:
		return "duplicate header magic"
	default:
		return "unknown error kind"
	}
}

// Fatal reports whether an error of this kind must abort the pipeline.
// Only UnknownRecordType (parser stops cleanly, keeping what it already
// parsed) and ProtectedOverlap (triplet skipped, warning emitted) are
// non-fatal; every other kind propagates up to the driver.
func (k Kind) Fatal() bool {
	switch k {
	case UnknownRecordType, ProtectedOverlap:
		return false
	default:
		return true
	}
}

// Error is the concrete error type raised by every stage in the pipeline.
type Error struct {
	Kind    Kind
	Offset  int // byte offset into the stage's input, -1 if not applicable
	Message string
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%x: %s", e.Kind, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a fatal-or-not Error for the given kind.
func New(kind Kind, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// Collector accumulates the non-fatal errors a stage produces (currently
// ProtectedOverlap warnings from the boot-loader replay) so a caller can
// inspect them after the fact without the stage returning early.
type Collector struct {
	warnings []*Error
}

// Add records a non-fatal error. Fatal kinds should be returned directly
// by the caller instead of being collected.
func (c *Collector) Add(err *Error) {
	c.warnings = append(c.warnings, err)
}

// Warnings returns every non-fatal error collected so far.
func (c *Collector) Warnings() []*Error {
	return c.warnings
}
