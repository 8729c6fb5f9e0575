// Package obuf provides a committed-buffer builder: write freely, then
// Commit once and the result becomes immutable. Adapted from the
// teacher's SafeBuffer (safe_buffer.go), trimmed to what the pipeline
// needs — every stage produces exactly one owned buffer and hands it
// downstream, per spec's "no stage mutates input; each produces a fresh
// owned buffer" invariant.
package obuf

import (
	"bytes"
	"fmt"
)

// Builder accumulates bytes for a single stage output. Writing to a
// committed Builder panics: that is a programming error in the pipeline,
// not a data-shaped error a caller should handle. Builder has no reset.
type Builder struct {
	buf       bytes.Buffer
	committed bool
}

// New returns an empty, writable Builder.
func New() *Builder {
	return &Builder{}
}

// Write appends p to the buffer.
func (b *Builder) Write(p []byte) (int, error) {
	if b.committed {
		panic("obuf: write to committed buffer")
	}
	return b.buf.Write(p)
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) {
	if b.committed {
		panic("obuf: write to committed buffer")
	}
	b.buf.WriteByte(c)
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int {
	return b.buf.Len()
}

// Commit freezes the buffer. After Commit, Bytes returns the final,
// immutable result.
func (b *Builder) Commit() {
	b.committed = true
}

// Bytes returns the buffer's contents. Safe to call before or after
// Commit, but callers must not mutate the returned slice once committed.
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

// MustBytes panics if the builder was never committed; use at the end of
// a stage to assert the "produced once" invariant holds.
func (b *Builder) MustBytes() []byte {
	if !b.committed {
		panic(fmt.Sprintf("obuf: Bytes read before Commit (%d bytes buffered)", b.buf.Len()))
	}
	return b.buf.Bytes()
}
