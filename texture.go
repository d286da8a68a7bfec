// Copyright © 2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshio

import (
	"io"
	"sync/atomic"
)

// textureIDSeq hands out globally unique texture identifiers, the same
// "sequential identity" role as the teacher's stringHash-derived tag
// (vu.texture.tag) but a plain counter since textures here are looked up
// by identifier, not by name-derived hash.
var textureIDSeq int64

// Texture is a reference to an image file with an integer identifier.
// Validity is asserted externally through the texture-validation
// callback (spec.md §6); meshio never decodes image data itself -- that
// is delegated to callers, optionally through package texcheck.
type Texture struct {
	ID       int64
	FileName string    // the name hint as it appeared in the source file.
	File     io.Reader // resolved file handle, nil until a callback opens it.

	Width, Height int // negative = unknown.
	Valid         bool

	// MimeHint is populated by texcheck's sniffing helpers. It is purely
	// advisory and never required for round-tripping.
	MimeHint string
}

// NewTexture allocates a texture with a freshly assigned sequential
// identifier and unknown dimensions, mirroring the teacher's
// newTexture (vu.newTexture) construction pattern.
func NewTexture(fileName string) *Texture {
	return &Texture{
		ID:       atomic.AddInt64(&textureIDSeq, 1),
		FileName: fileName,
		Width:    -1,
		Height:   -1,
	}
}
