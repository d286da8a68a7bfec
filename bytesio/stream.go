// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bytesio

import (
	"fmt"
	"io"
	"os"
)

// streamReader is the rawIO backing used for files at or above the mmap
// threshold: plain seek-and-read over an *os.File, tracking the logical
// position itself so Position/Remaining never need a syscall.
type streamReader struct {
	f        *os.File
	pos      int64
	fileSize int64
}

func openStream(path string) (*streamReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &streamReader{f: f, fileSize: info.Size()}, nil
}

func (s *streamReader) readExact(buf []byte) error {
	n, err := io.ReadFull(s.f, buf)
	s.pos += int64(n)
	if err != nil {
		return fmt.Errorf("short read at %d: %w", s.pos, err)
	}
	return nil
}

func (s *streamReader) seek(pos int64) error {
	if _, err := s.f.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	s.pos = pos
	return nil
}

func (s *streamReader) position() int64 { return s.pos }
func (s *streamReader) remaining() int64 { return s.fileSize - s.pos }
func (s *streamReader) size() int64      { return s.fileSize }
func (s *streamReader) close() error     { return s.f.Close() }
