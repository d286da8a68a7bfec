// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build windows

package bytesio

import "unsafe"

// unsafeSlice views the memory at addr as a []byte of the given length.
// MapViewOfFile hands back a raw uintptr; this is the one place that
// pointer needs reinterpreting as Go-visible bytes.
func unsafeSlice(addr uintptr, length int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
}
