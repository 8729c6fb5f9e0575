// Package config resolves the pipeline's one configuration constant —
// the vendor segment-table base offset — along with diagnostic toggles,
// through environment variables layered over hard-coded defaults.
// Adapted from the teacher's dependencies.go, which resolves a function's
// source repository through a FLAPC_<NAME> environment override before
// falling back to a static map.
package config

import (
	"github.com/xyproto/env/v2"

	"github.com/xyproto/fwpeel/internal/addr"
)

// DefaultSegmentTableBase is the vendor constant: the fixed byte offset
// into the firmware buffer where the segment linked list begins. Spec
// notes this is "the one hard-coded segment-table base... kept as a
// configuration constant" rather than discovered from the data.
const DefaultSegmentTableBase = addr.BufferOffset(0x68690)

// Config holds every environment-overridable knob the pipeline reads.
type Config struct {
	// SegmentTableBase is the firmware-buffer offset the segment walk
	// starts from. Override with FWPEEL_SEGMENT_TABLE_BASE.
	SegmentTableBase addr.BufferOffset
	// Verbose enables extra diagnostic logging. Override with
	// FWPEEL_VERBOSE.
	Verbose bool
	// NoColor disables ANSI coloring in diagnostic output. Override with
	// FWPEEL_NO_COLOR.
	NoColor bool
}

// Load resolves a Config from the environment, falling back to the
// documented defaults for anything unset.
func Load() Config {
	return Config{
		SegmentTableBase: addr.BufferOffset(env.Int("FWPEEL_SEGMENT_TABLE_BASE", int(DefaultSegmentTableBase))),
		Verbose:          env.Bool("FWPEEL_VERBOSE"),
		NoColor:          env.Bool("FWPEEL_NO_COLOR"),
	}
}
