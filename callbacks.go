// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshio

import "io"

// LoaderCallbacks is the observation/extension surface for a format
// loader (spec.md §6, §9 "Callbacks over inheritance"). Any field may be
// left nil; a nil callback is simply not invoked.
type LoaderCallbacks struct {
	OnLoadStart func()
	OnLoadEnd   func()

	// OnLoadProgressChange fires at most once per 1% of cumulative
	// progress (spec.md §4.7).
	OnLoadProgressChange func(progress float64)

	// OnMaterialLoaderRequested resolves an MTL file referenced by an
	// OBJ's mtllib directive. A nil return (with nil error) means "skip
	// material loading for this file".
	OnMaterialLoaderRequested func(path string) (io.Reader, error)
}

// MaterialCallbacks governs texture validation during MTL/3DS material
// parsing (spec.md §4.4, §6).
type MaterialCallbacks struct {
	// OnValidateTexture is invoked once per map_* directive when texture
	// validation is enabled. A false return fails the load with
	// InvalidTextureError.
	OnValidateTexture func(t *Texture) bool
}

// BinaryLoaderCallbacks governs texture materialization while reading a
// custom binary v2 stream (spec.md §6).
type BinaryLoaderCallbacks struct {
	OnTextureReceived      func(id int64, width, height int) (io.Writer, error)
	OnTextureDataAvailable func(file io.Writer, id int64, width, height int) (io.Writer, error)
}

// WriterCallbacks is the observation/extension surface for a MeshWriter
// (spec.md §6). Both binfmt and jsonfmt writers accept one of these.
type WriterCallbacks struct {
	OnWriteStart          func()
	OnWriteEnd            func()
	OnWriteProgressChange func(progress float64)
	OnChunkAvailable      func(chunk *DataChunk)

	OnMaterialFileRequested func(path string) (io.Reader, error)
	OnValidateTexture       func(t *Texture) (io.Reader, error)
	OnDidValidateTexture    func(file io.Reader)

	OnTextureReceived      func(width, height int) (io.Writer, error)
	OnTextureDataAvailable func(file io.Writer, width, height int) (io.Writer, error)
	OnTextureDataProcessed func(file io.Writer, width, height int)
}
