// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bytesio

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestOpenNonPositiveThresholdStreams(t *testing.T) {
	path := writeTemp(t, []byte{1, 2, 3, 4})
	r, err := Open(path, 0) // threshold <= 0 always streams.
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	if r.Size() != 4 {
		t.Errorf("Size() = %d, want 4", r.Size())
	}
}

func TestReadExactScalarTypes(t *testing.T) {
	// u8=0x7F, i16 LE=-1, u32 BE=0x01020304, f32 LE bits for 1.5.
	data := []byte{0x7F, 0xFF, 0xFF, 0x01, 0x02, 0x03, 0x04, 0x00, 0x00, 0xC0, 0x3F}
	path := writeTemp(t, data)
	r, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	u8, err := r.ReadU8()
	if err != nil || u8 != 0x7F {
		t.Fatalf("ReadU8() = %d, %v, want 0x7F, nil", u8, err)
	}
	i16, err := r.ReadI16(LittleEndian)
	if err != nil || i16 != -1 {
		t.Fatalf("ReadI16() = %d, %v, want -1, nil", i16, err)
	}
	u32, err := r.ReadU32(BigEndian)
	if err != nil || u32 != 0x01020304 {
		t.Fatalf("ReadU32() = %#x, %v, want 0x01020304, nil", u32, err)
	}
	f32, err := r.ReadF32(LittleEndian)
	if err != nil || f32 != 1.5 {
		t.Fatalf("ReadF32() = %v, %v, want 1.5, nil", f32, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestReadExactShortReadFails(t *testing.T) {
	path := writeTemp(t, []byte{1, 2})
	r, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	var buf [4]byte
	if err := r.ReadExact(buf[:]); err == nil {
		t.Error("ReadExact() past EOF succeeded, want error")
	}
}

func TestSeekOutOfRange(t *testing.T) {
	path := writeTemp(t, []byte{1, 2, 3})
	r, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	if err := r.Seek(4); err == nil {
		t.Error("Seek(4) on a 3-byte reader succeeded, want error")
	}
	if err := r.Seek(1); err != nil {
		t.Errorf("Seek(1): %v", err)
	}
	if r.Position() != 1 {
		t.Errorf("Position() = %d, want 1", r.Position())
	}
}

func TestReadAfterCloseFails(t *testing.T) {
	path := writeTemp(t, []byte{1, 2, 3, 4})
	r, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	var buf [1]byte
	if err := r.ReadExact(buf[:]); err == nil {
		t.Error("ReadExact() after Close succeeded, want error")
	}
}
