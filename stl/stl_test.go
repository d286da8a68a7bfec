// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package stl

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

func openFixture(t *testing.T, data []byte) *bytesio.Reader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.stl")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	r, err := bytesio.Open(path, 0)
	if err != nil {
		t.Fatalf("bytesio.Open: %v", err)
	}
	return r
}

const asciiSingleTriangle = `solid cube
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 0 0
vertex 0 1 0
endloop
endfacet
endsolid cube
`

func TestAsciiSingleTriangle(t *testing.T) {
	r := openFixture(t, []byte(asciiSingleTriangle))
	l, err := NewLoader(r, meshio.LoaderCallbacks{})
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()

	if !l.HasNext() {
		t.Fatal("HasNext() = false, want true")
	}
	chunk, err := l.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(chunk.Coords) != 9 || len(chunk.Indices) != 3 || len(chunk.Normals) != 9 {
		t.Fatalf("chunk = %+v, want 9 coords, 3 indices, 9 normals", chunk)
	}
	if chunk.Normals[2] != 1 {
		t.Errorf("normal z = %v, want 1", chunk.Normals[2])
	}
}

func f32le(buf []byte, v float32) []byte {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return buf
}

func buildBinaryTriangle() []byte {
	data := make([]byte, 80+4+50)
	binary.LittleEndian.PutUint32(data[80:84], 1) // triangle count.
	rec := data[84:]
	f32le(rec[0:4], 0)
	f32le(rec[4:8], 0)
	f32le(rec[8:12], 1) // normal.
	verts := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	off := 12
	for _, v := range verts {
		f32le(rec[off:off+4], v[0])
		f32le(rec[off+4:off+8], v[1])
		f32le(rec[off+8:off+12], v[2])
		off += 12
	}
	// trailing 2-byte attribute count, left as zero.
	return data
}

func TestBinarySingleTriangle(t *testing.T) {
	r := openFixture(t, buildBinaryTriangle())
	l, err := NewLoader(r, meshio.LoaderCallbacks{})
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()

	if !l.HasNext() {
		t.Fatal("HasNext() = false, want true")
	}
	chunk, err := l.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(chunk.Coords) != 9 || len(chunk.Indices) != 3 {
		t.Fatalf("chunk = %+v, want 9 coords, 3 indices", chunk)
	}
	if l.HasNext() {
		t.Error("HasNext() = true after draining the only chunk")
	}
}

func TestNoDedupBetweenFacets(t *testing.T) {
	const twoFacets = `solid shared
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 0 0
vertex 0 1 0
endloop
endfacet
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 0 0
vertex 1 1 0
endloop
endfacet
endsolid shared
`
	r := openFixture(t, []byte(twoFacets))
	l, err := NewLoader(r, meshio.LoaderCallbacks{})
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()
	chunk, err := l.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(chunk.Coords) != 18 {
		t.Errorf("len(Coords) = %d, want 18 (no dedup across 2 facets sharing a vertex)", len(chunk.Coords))
	}
}
