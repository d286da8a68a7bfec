// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package objfmt

import (
	"io"
	"strings"
	"testing"

	"github.com/galvanizedlogic/meshio"
)

func drainChunks(t *testing.T, l *Loader) []*meshio.DataChunk {
	t.Helper()
	var chunks []*meshio.DataChunk
	for l.HasNext() {
		c, err := l.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		chunks = append(chunks, c)
	}
	return chunks
}

func TestTetrahedronSingleChunk(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 2 3
f 1 2 4
f 2 3 4
f 1 3 4
`
	l := NewLoader(strings.NewReader(src), meshio.LoaderCallbacks{}, meshio.MaterialCallbacks{}, false)
	chunks := drainChunks(t, l)
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	c := chunks[0]
	if len(c.Coords) != 12 {
		t.Errorf("len(Coords) = %d, want 12 (4 verts)", len(c.Coords))
	}
	if len(c.Indices) != 12 {
		t.Errorf("len(Indices) = %d, want 12 (4 triangles)", len(c.Indices))
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestUsemtlSplitsIntoTwoChunks(t *testing.T) {
	const mtlSrc = `
newmtl red
Kd 1 0 0
newmtl blue
Kd 0 0 1
`
	const objSrc = `
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
mtllib materials.mtl
usemtl red
f 1 2 3
usemtl blue
f 1 2 4
`
	callbacks := meshio.LoaderCallbacks{
		OnMaterialLoaderRequested: func(name string) (io.Reader, error) {
			return strings.NewReader(mtlSrc), nil
		},
	}
	l := NewLoader(strings.NewReader(objSrc), callbacks, meshio.MaterialCallbacks{}, false)
	chunks := drainChunks(t, l)
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2", len(chunks))
	}
	if chunks[0].Material == nil || chunks[0].Material.Name != "red" {
		t.Errorf("chunks[0].Material = %+v, want red", chunks[0].Material)
	}
	if chunks[1].Material == nil || chunks[1].Material.Name != "blue" {
		t.Errorf("chunks[1].Material = %+v, want blue", chunks[1].Material)
	}
}

func TestNegativeFaceIndices(t *testing.T) {
	const src = `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	l := NewLoader(strings.NewReader(src), meshio.LoaderCallbacks{}, meshio.MaterialCallbacks{}, false)
	chunks := drainChunks(t, l)
	if len(chunks) != 1 || len(chunks[0].Coords) != 9 {
		t.Fatalf("unexpected chunk output: %+v", chunks)
	}
}

func TestFaceIndexOutOfRangeFails(t *testing.T) {
	const src = "v 0 0 0\nf 1 2 3\n"
	l := NewLoader(strings.NewReader(src), meshio.LoaderCallbacks{}, meshio.MaterialCallbacks{}, false)
	if _, err := l.Next(); err == nil {
		t.Error("parsing a face referencing a missing vertex succeeded, want error")
	}
}
