// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package objfmt

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/galvanizedlogic/meshio"
)

func init() {
	meshio.RegisterFormat("obj", sniff, open)
}

// sniff recognizes OBJ files by extension: OBJ has no magic bytes, the
// same limitation the teacher's own loader works around by dispatching
// on filename suffix (load/load.go's Obj/Mtl/Iqm methods).
func sniff(path string, head []byte) bool {
	return strings.EqualFold(filepath.Ext(path), ".obj")
}

func open(path string, cfg meshio.Config, callbacks meshio.LoaderCallbacks) (meshio.ChunkIterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, meshio.NewIoError(err, "opening %s", path)
	}
	loader := NewLoader(f, callbacks, meshio.MaterialCallbacks{}, cfg.TextureValidationEnabled)
	loader.closer = f
	return loader, nil
}
