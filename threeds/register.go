// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package threeds

import (
	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

func init() {
	meshio.RegisterFormat("3ds", sniff, open)
}

// sniff recognizes a 3DS file by its root chunk magic, 0x4D4D stored
// little-endian as the file's first two bytes.
func sniff(path string, head []byte) bool {
	return len(head) >= 2 && head[0] == 0x4D && head[1] == 0x4D
}

func open(path string, cfg meshio.Config, callbacks meshio.LoaderCallbacks) (meshio.ChunkIterator, error) {
	r, err := bytesio.Open(path, cfg.MmapThresholdBytes)
	if err != nil {
		return nil, err
	}
	if callbacks.OnLoadStart != nil {
		callbacks.OnLoadStart()
	}
	loader, err := NewLoader(r, callbacks)
	if err != nil {
		r.Close()
		return nil, err
	}
	if callbacks.OnLoadEnd != nil {
		callbacks.OnLoadEnd()
	}
	return loader, nil
}
