// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package stl

import (
	"strings"

	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

func init() {
	meshio.RegisterFormat("stl", sniff, open)
}

// sniff relies on the .stl extension: binary STL has no reliable magic
// (its 80-byte header is free-form text), and an ASCII file only starts
// "solid" the way several other text formats might.
func sniff(path string, head []byte) bool {
	return strings.HasSuffix(strings.ToLower(path), ".stl")
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
	loader.closer = r
	if callbacks.OnLoadEnd != nil {
		callbacks.OnLoadEnd()
	}
	return loader, nil
}
