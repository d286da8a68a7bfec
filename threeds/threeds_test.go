// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package threeds

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

func chunkBytes(id uint16, payload []byte) []byte {
	buf := make([]byte, 0, 6+len(payload))
	buf = binary.LittleEndian.AppendUint16(buf, id)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(6+len(payload)))
	return append(buf, payload...)
}

func cstringBytes(s string) []byte { return append([]byte(s), 0) }

func f32leBytes(v float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return buf
}

func u16leBytes(v uint16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, v)
	return buf
}

// buildSampleFile constructs a minimal 3DS tree: one MAT_ENTRY ("red",
// diffuse red) and one N_TRI_OBJECT holding a single triangle, matching
// the nested (id,length) chunk layout threeds.go's walk expects.
func buildSampleFile(t *testing.T) string {
	t.Helper()

	colorChunk := chunkBytes(color24, []byte{255, 0, 0})
	matDiffuseChunk := chunkBytes(matDiffuse, colorChunk)
	matNameChunk := chunkBytes(matName, cstringBytes("red"))
	matEntryChunk := chunkBytes(matEntry, append(append([]byte{}, matNameChunk...), matDiffuseChunk...))

	var points []byte
	points = append(points, u16leBytes(3)...)
	for _, p := range [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}} {
		points = append(points, f32leBytes(p[0])...)
		points = append(points, f32leBytes(p[1])...)
		points = append(points, f32leBytes(p[2])...)
	}
	pointArrayChunk := chunkBytes(pointArray, points)

	var faces []byte
	faces = append(faces, u16leBytes(1)...)
	faces = append(faces, u16leBytes(0)...)
	faces = append(faces, u16leBytes(1)...)
	faces = append(faces, u16leBytes(2)...)
	faces = append(faces, u16leBytes(0)...) // flags, unused.
	faceArrayChunk := chunkBytes(faceArray, faces)

	triObjChunk := chunkBytes(nTriObject, append(append([]byte{}, pointArrayChunk...), faceArrayChunk...))
	namedObjectChunk := chunkBytes(namedObject, append(cstringBytes("obj"), triObjChunk...))
	mdataChunk := chunkBytes(mdata, append(append([]byte{}, matEntryChunk...), namedObjectChunk...))
	rootChunk := chunkBytes(m3dMagic, mdataChunk)

	path := filepath.Join(t.TempDir(), "sample.3ds")
	if err := os.WriteFile(path, rootChunk, 0o644); err != nil {
		t.Fatalf("writing sample 3ds file: %v", err)
	}
	return path
}

func TestNewLoaderParsesMaterialAndTriangle(t *testing.T) {
	path := buildSampleFile(t)
	r, err := bytesio.Open(path, 0)
	if err != nil {
		t.Fatalf("bytesio.Open: %v", err)
	}
	l, err := NewLoader(r, meshio.LoaderCallbacks{})
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()

	mats := l.Materials().All()
	if len(mats) != 1 || mats[0].Name != "red" {
		t.Fatalf("Materials().All() = %+v, want one material named red", mats)
	}
	if mats[0].Diffuse.R != 255 || mats[0].Diffuse.G != 0 {
		t.Errorf("Diffuse = %+v, want R=255 G=0", mats[0].Diffuse)
	}

	if !l.HasNext() {
		t.Fatal("HasNext() = false, want true")
	}
	chunk, err := l.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(chunk.Coords) != 9 {
		t.Errorf("len(Coords) = %d, want 9", len(chunk.Coords))
	}
	if len(chunk.Indices) != 3 {
		t.Errorf("len(Indices) = %d, want 3", len(chunk.Indices))
	}
	if l.HasNext() {
		t.Error("HasNext() = true after draining the only chunk")
	}
}

func TestNewLoaderRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.3ds")
	if err := os.WriteFile(path, []byte{0x00, 0x00, 0x06, 0x00, 0x00, 0x00}, 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	r, err := bytesio.Open(path, 0)
	if err != nil {
		t.Fatalf("bytesio.Open: %v", err)
	}
	if _, err := NewLoader(r, meshio.LoaderCallbacks{}); err == nil {
		t.Error("NewLoader() with a bad root magic succeeded, want error")
	}
}
