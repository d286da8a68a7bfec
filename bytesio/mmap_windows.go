// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build windows

package bytesio

import (
	"os"

	"golang.org/x/sys/windows"
)

// openMmap memory-maps path read-only via CreateFileMapping/MapViewOfFile,
// the Windows counterpart to mmap_unix.go's unix.Mmap.
func openMmap(path string) (*mmapReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &mmapReader{data: nil, unmap: func() error { return nil }}, nil
	}

	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READONLY, 0, 0, nil)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(h)

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		return nil, err
	}

	data := unsafeSlice(addr, int(size))
	return &mmapReader{
		data: data,
		unmap: func() error {
			return windows.UnmapViewOfFile(addr)
		},
	}, nil
}
