// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build unix

package bytesio

import (
	"os"

	"golang.org/x/sys/unix"
)

// openMmap memory-maps path read-only. The teacher used golang.org/x/sys
// to talk to OpenGL/Vulkan/ALSA device handles (load/iqm.go's buffer
// upload path); here the same dependency maps a file's pages directly
// into the process instead of streaming them through read(2).
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

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &mmapReader{
		data: data,
		unmap: func() error {
			return unix.Munmap(data)
		},
	}, nil
}
