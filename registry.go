// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshio

import "os"

// FormatLoader constructs a ChunkIterator for a file a Sniff function has
// already claimed.
type FormatLoader func(path string, cfg Config, callbacks LoaderCallbacks) (ChunkIterator, error)

// Sniff reports whether a file belongs to this format, given its
// filename (extension is often decisive for text formats with no magic
// bytes, e.g. OBJ) and up to its first 64 bytes (fewer at EOF).
type Sniff func(path string, head []byte) bool

type registeredFormat struct {
	name  string
	sniff Sniff
	load  FormatLoader
}

var formats []registeredFormat

// RegisterFormat makes a format loader available to Open. Format
// packages (ply, objfmt, threeds, stl, binfmt) call this from an init
// function, the same registration-by-import pattern the standard
// library's image package uses for image.RegisterFormat -- it is how
// Open can dispatch to a sibling package's loader without that package
// needing to import meshio's Open (which would cycle back to it).
func RegisterFormat(name string, sniff Sniff, load FormatLoader) {
	formats = append(formats, registeredFormat{name: name, sniff: sniff, load: load})
}

const sniffHeadSize = 64

// Open detects the format of the file at path from its name and leading
// bytes, and returns a ChunkIterator over it (spec.md §11 "meshio.Open").
// Formats are tried in registration order; the first Sniff match wins.
func Open(path string, cfg Config, callbacks LoaderCallbacks) (ChunkIterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newIoError(err, "opening %s", path)
	}
	head := make([]byte, sniffHeadSize)
	n, _ := f.Read(head)
	f.Close()
	head = head[:n]

	for _, fmt := range formats {
		if fmt.sniff(path, head) {
			return fmt.load(path, cfg.normalize(), callbacks)
		}
	}
	return nil, newError(ParseError, nil, "unrecognized format for %s", path)
}
