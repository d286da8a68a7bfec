// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package texcheck

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/galvanizedlogic/meshio"
)

func encodedPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture png: %v", err)
	}
	return buf.Bytes()
}

func TestValidateRecognizesPNG(t *testing.T) {
	data := encodedPNG(t, 8, 4)
	tex := &meshio.Texture{File: bytes.NewReader(data)}
	if !Validate(tex) {
		t.Fatal("Validate() = false, want true for a well-formed png")
	}
	if tex.Width != 8 || tex.Height != 4 {
		t.Errorf("dimensions = %dx%d, want 8x4", tex.Width, tex.Height)
	}
	if tex.MimeHint != "image/png" {
		t.Errorf("MimeHint = %q, want image/png", tex.MimeHint)
	}
	if !tex.Valid {
		t.Error("Valid = false, want true")
	}
}

func TestValidateRewindsFileForReuse(t *testing.T) {
	data := encodedPNG(t, 2, 2)
	tex := &meshio.Texture{File: bytes.NewReader(data)}
	Validate(tex)
	replay, err := io.ReadAll(tex.File)
	if err != nil {
		t.Fatalf("reading rewound file: %v", err)
	}
	if len(replay) != len(data) {
		t.Errorf("len(replay) = %d, want %d (full original payload)", len(replay), len(data))
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	tex := &meshio.Texture{File: bytes.NewReader([]byte("not an image"))}
	if Validate(tex) {
		t.Error("Validate() = true for garbage input, want false")
	}
	if tex.Valid {
		t.Error("Valid = true for garbage input, want false")
	}
}

func TestValidateNilFile(t *testing.T) {
	tex := &meshio.Texture{}
	if Validate(tex) {
		t.Error("Validate() with a nil File succeeded, want false")
	}
}
