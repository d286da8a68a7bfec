// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package texcheck is a ready-made, optional implementation of the
// texture-validation and dimension-sniffing callbacks spec.md §6
// describes as caller-supplied: a caller of mtl.Parse (directly or
// through objfmt.NewLoader) can wire texcheck.Validate directly into
// meshio.MaterialCallbacks.OnValidateTexture instead of writing its own.
//
// BMP, TIFF and TGA decoding are registered with the standard image
// package purely for their side effect (image.RegisterFormat, the same
// blank-import convention the teacher's load.go uses for the stdlib's own
// png/jpeg decoders): image.DecodeConfig then recognizes all three
// without texcheck naming their decoders explicitly. WebP has no
// standard-library decoder to register into, so nativewebp is called
// directly.
package texcheck

import (
	"bytes"
	"image"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/HugoSmits86/nativewebp"
	_ "github.com/ftrvxmtrx/tga"

	"github.com/galvanizedlogic/meshio"
)

// Validate reads t.File fully, sniffs its dimensions and format, and
// reports whether it decoded as a recognizable image. It rewinds t.File
// to a fresh in-memory reader over the same bytes before returning, so
// the caller's subsequent read (embedding the texture in binfmt/jsonfmt
// output) still sees the full payload.
func Validate(t *meshio.Texture) bool {
	if t.File == nil {
		return false
	}
	data, err := io.ReadAll(t.File)
	if err != nil {
		return false
	}
	t.File = bytes.NewReader(data)

	if cfg, err := nativewebp.DecodeConfig(bytes.NewReader(data)); err == nil {
		t.Width, t.Height = cfg.Width, cfg.Height
		t.MimeHint = "image/webp"
		t.Valid = true
		return true
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Valid = false
		return false
	}
	t.Width, t.Height = cfg.Width, cfg.Height
	t.MimeHint = "image/" + format
	t.Valid = true
	return true
}
