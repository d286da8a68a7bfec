// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bytesio

import (
	"fmt"
	"os"
)

// Open returns a Reader over path, memory-mapping files smaller than
// threshold bytes and streaming everything else (spec.md §4.1). A
// threshold of zero or less always streams.
//
// On platforms with no mapping implementation, Open always streams
// regardless of threshold rather than failing.
func Open(path string, threshold int64) (*Reader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ioErr(fmt.Errorf("stat %s: %w", path, err))
	}

	if mmapSupported && threshold > 0 && info.Size() < threshold {
		raw, err := openMmap(path)
		if err == nil {
			return newReader(raw), nil
		}
		// Fall through to streaming: a mapping failure (e.g. resource
		// limits) should not be fatal when the file can still be read.
	}

	raw, err := openStream(path)
	if err != nil {
		return nil, ioErr(fmt.Errorf("open %s: %w", path, err))
	}
	return newReader(raw), nil
}
