// Package binwriter provides a growable byte buffer with typed little-endian
// write primitives, used by the binary format encoders.
//
// The writer appends at the current position and grows its capacity on
// demand. Growth doubles the capacity in a loop until the pending write fits:
// a single doubling is not enough when one value is larger than the remaining
// free space. Previously written bytes survive growth byte-for-byte.
//
// # Usage
//
//	w := binwriter.New()
//	w.WriteInt16(2)
//	w.WriteString("STRUCTURE")
//	w.WriteFloat64(25.4)
//	data := w.Build() // trimmed to exactly the bytes written
package binwriter

import (
	"encoding/binary"
	"math"
	"time"
)

// DefaultCapacity is the initial buffer capacity in bytes.
const DefaultCapacity = 1024

// Writer is a growable little-endian byte buffer. The zero value is not
// usable; create writers with [New] or [NewWithCapacity].
//
// Each encode operation owns its own Writer, so no synchronization is needed.
type Writer struct {
	buf []byte
	pos int
}

// New creates a writer with [DefaultCapacity].
func New() *Writer {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity creates a writer with the given initial capacity.
// Capacities below 1 are raised to 1 so the doubling loop always progresses.
func NewWithCapacity(capacity int) *Writer {
	if capacity < 1 {
		capacity = 1
	}
	return &Writer{buf: make([]byte, capacity)}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.pos }

// ensure grows the buffer until size more bytes fit after pos.
// Doubling runs in a loop: one value can exceed the post-doubling capacity.
func (w *Writer) ensure(size int) {
	capacity := len(w.buf)
	if w.pos+size <= capacity {
		return
	}
	for w.pos+size > capacity {
		capacity *= 2
	}
	grown := make([]byte, capacity)
	copy(grown, w.buf[:w.pos])
	w.buf = grown
}

// WriteInt8 appends a signed byte.
func (w *Writer) WriteInt8(v int8) {
	w.ensure(1)
	w.buf[w.pos] = byte(v)
	w.pos++
}

// WriteUint8 appends an unsigned byte.
func (w *Writer) WriteUint8(v uint8) {
	w.ensure(1)
	w.buf[w.pos] = v
	w.pos++
}

// WriteInt16 appends a little-endian int16.
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteUint16 appends a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	w.ensure(2)
	binary.LittleEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
}

// WriteInt32 appends a little-endian int32.
func (w *Writer) WriteInt32(v int32) {
	w.ensure(4)
	binary.LittleEndian.PutUint32(w.buf[w.pos:], uint32(v))
	w.pos += 4
}

// WriteFloat32 appends a little-endian IEEE-754 float32.
func (w *Writer) WriteFloat32(v float32) {
	w.ensure(4)
	binary.LittleEndian.PutUint32(w.buf[w.pos:], math.Float32bits(v))
	w.pos += 4
}

// WriteFloat64 appends a little-endian IEEE-754 float64.
func (w *Writer) WriteFloat64(v float64) {
	w.ensure(8)
	binary.LittleEndian.PutUint64(w.buf[w.pos:], math.Float64bits(v))
	w.pos += 8
}

// WriteString appends a uint16 byte-length prefix followed by the UTF-8
// bytes of s. Strings longer than 65535 bytes are truncated at the limit.
func (w *Writer) WriteString(s string) {
	b := []byte(s)
	if len(b) > math.MaxUint16 {
		b = b[:math.MaxUint16]
	}
	w.WriteUint16(uint16(len(b)))
	w.WriteBytes(b)
}

// WriteBytes appends a raw byte run with no prefix.
func (w *Writer) WriteBytes(b []byte) {
	w.ensure(len(b))
	copy(w.buf[w.pos:], b)
	w.pos += len(b)
}

// WriteTimestamp appends t as a little-endian float64 of Unix seconds with
// millisecond precision.
func (w *Writer) WriteTimestamp(t time.Time) {
	w.WriteFloat64(float64(t.UnixMilli()) / 1000.0)
}

// Build returns a copy of the buffer trimmed to exactly the bytes written.
// The writer remains usable afterwards; the returned slice is independent of
// any further writes.
func (w *Writer) Build() []byte {
	out := make([]byte, w.pos)
	copy(out, w.buf[:w.pos])
	return out
}
