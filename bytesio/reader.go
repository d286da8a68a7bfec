// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package bytesio provides a random-access, endian-aware byte reader
// over a file, transparently backed by a memory map for small files and
// by seek-and-read streaming for large ones (spec.md §4.1). The choice
// is made once in Open and is invisible to callers afterward, the same
// "loader doesn't care how the bytes got there" separation the teacher
// keeps between load.Loader and its locator (load/locator.go).
package bytesio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Endian selects the byte order for a multi-byte typed read.
type Endian int

// The two endiannesses spec.md requires: PLY/3DS/STL are little-endian
// except PLY's binary_big_endian mode, and the custom binary v2 format
// is big-endian throughout (spec.md §4.8).
const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) order() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// rawIO is the minimal primitive each backing implementation (mmap or
// stream) must provide; Reader builds every typed read on top of it so
// the two backings share one implementation of the wider contract.
type rawIO interface {
	readExact(buf []byte) error
	seek(pos int64) error
	position() int64
	remaining() int64
	size() int64
	close() error
}

// Reader is the random-access, endian-aware byte reader spec.md §4.1
// describes. It is exclusively owned by the loader that opened it
// (spec.md §5): no concurrent use of one Reader from multiple
// goroutines is supported.
type Reader struct {
	raw    rawIO
	closed bool
}

func newReader(raw rawIO) *Reader { return &Reader{raw: raw} }

// Close releases the underlying file or mapping. Reads after Close fail
// with IoError, matching spec.md §5's "closing the reader... causes the
// next I/O to fail with IoError."
func (r *Reader) Close() error {
	r.closed = true
	return r.raw.close()
}

// Seek repositions the reader to an absolute byte offset.
func (r *Reader) Seek(pos int64) error {
	if r.closed {
		return ioErr(fmt.Errorf("seek on closed reader"))
	}
	if pos < 0 || pos > r.raw.size() {
		return ioErr(fmt.Errorf("seek %d out of range [0,%d]", pos, r.raw.size()))
	}
	return r.raw.seek(pos)
}

// Position returns the current absolute byte offset.
func (r *Reader) Position() int64 { return r.raw.position() }

// Remaining returns the number of bytes between the current position
// and the end of the underlying data.
func (r *Reader) Remaining() int64 { return r.raw.remaining() }

// Size returns the total size of the underlying data.
func (r *Reader) Size() int64 { return r.raw.size() }

// ReadExact reads exactly len(buf) bytes, advancing the position.
// A short read fails with IoError.
func (r *Reader) ReadExact(buf []byte) error {
	if r.closed {
		return ioErr(fmt.Errorf("read on closed reader"))
	}
	if err := r.raw.readExact(buf); err != nil {
		return ioErr(err)
	}
	return nil
}

func ioErr(cause error) error {
	return &ReadError{Cause: cause}
}

// ReadError wraps an I/O failure (short read, invalid seek, closed
// reader) so callers can distinguish it from a format-level ParseError.
// Package meshio's Kind taxonomy classifies this as IoError at the
// boundary where bytesio is consumed.
type ReadError struct{ Cause error }

func (e *ReadError) Error() string { return fmt.Sprintf("bytesio: %v", e.Cause) }
func (e *ReadError) Unwrap() error { return e.Cause }

// The scalar typed reads. Each allocates a small fixed buffer and reuses
// ReadExact, matching the width table spec.md §4.2 defines for PLY and
// reused verbatim by 3DS/STL/binfmt.

func (r *Reader) ReadU8() (uint8, error) {
	var buf [1]byte
	if err := r.ReadExact(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadU16(e Endian) (uint16, error) {
	var buf [2]byte
	if err := r.ReadExact(buf[:]); err != nil {
		return 0, err
	}
	return e.order().Uint16(buf[:]), nil
}

func (r *Reader) ReadI16(e Endian) (int16, error) {
	v, err := r.ReadU16(e)
	return int16(v), err
}

func (r *Reader) ReadU32(e Endian) (uint32, error) {
	var buf [4]byte
	if err := r.ReadExact(buf[:]); err != nil {
		return 0, err
	}
	return e.order().Uint32(buf[:]), nil
}

func (r *Reader) ReadI32(e Endian) (int32, error) {
	v, err := r.ReadU32(e)
	return int32(v), err
}

func (r *Reader) ReadU64(e Endian) (uint64, error) {
	var buf [8]byte
	if err := r.ReadExact(buf[:]); err != nil {
		return 0, err
	}
	return e.order().Uint64(buf[:]), nil
}

func (r *Reader) ReadI64(e Endian) (int64, error) {
	v, err := r.ReadU64(e)
	return int64(v), err
}

func (r *Reader) ReadF32(e Endian) (float32, error) {
	v, err := r.ReadU32(e)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) ReadF64(e Endian) (float64, error) {
	v, err := r.ReadU64(e)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}
