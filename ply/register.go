// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package ply

import (
	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

func init() {
	meshio.RegisterFormat("ply", sniff, open)
}

// sniff recognizes a PLY file by its mandatory first line, "ply".
func sniff(path string, head []byte) bool {
	if len(head) < 3 {
		return false
	}
	return head[0] == 'p' && head[1] == 'l' && head[2] == 'y'
}

func open(path string, cfg meshio.Config, callbacks meshio.LoaderCallbacks) (meshio.ChunkIterator, error) {
	r, err := bytesio.Open(path, cfg.MmapThresholdBytes)
	if err != nil {
		return nil, err
	}
	if callbacks.OnLoadStart != nil {
		callbacks.OnLoadStart()
	}
	loader, err := NewLoader(r, cfg.ReadLineCharset, callbacks)
	if err != nil {
		r.Close()
		return nil, err
	}
	loader.closer = r
	if callbacks.OnLoadEnd != nil {
		callbacks.OnLoadEnd()
	}
	return loader, nil
}
