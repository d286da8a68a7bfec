// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package ply

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

func openFixture(t *testing.T, contents string) *bytesio.Reader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.ply")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	r, err := bytesio.Open(path, 0)
	if err != nil {
		t.Fatalf("bytesio.Open: %v", err)
	}
	return r
}

const asciiTriangle = `ply
format ascii 1.0
comment single triangle, no color
element vertex 3
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
0 1 0
3 0 1 2
`

func TestAsciiTriangleOneChunk(t *testing.T) {
	r := openFixture(t, asciiTriangle)
	l, err := NewLoader(r, "", meshio.LoaderCallbacks{})
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
	if len(chunk.Coords) != 9 {
		t.Errorf("len(Coords) = %d, want 9", len(chunk.Coords))
	}
	if len(chunk.Indices) != 3 {
		t.Errorf("len(Indices) = %d, want 3", len(chunk.Indices))
	}
	if chunk.Coords[3] != 1 || chunk.Coords[4] != 0 {
		t.Errorf("second vertex = %v, want (1,0,0)", chunk.Coords[3:6])
	}
	if l.HasNext() {
		t.Error("HasNext() = true after draining the only chunk")
	}
}

const asciiPointCloud = `ply
format ascii 1.0
element vertex 2
property float x
property float y
property float z
end_header
0 0 0
1 1 1
`

func TestAsciiPointCloudFallback(t *testing.T) {
	r := openFixture(t, asciiPointCloud)
	l, err := NewLoader(r, "", meshio.LoaderCallbacks{})
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
	if len(chunk.Coords) != 6 {
		t.Errorf("len(Coords) = %d, want 6", len(chunk.Coords))
	}
	if len(chunk.Indices) != 0 {
		t.Errorf("len(Indices) = %d, want 0 for a point cloud", len(chunk.Indices))
	}
}

func TestFaceBeforeVertexElementFails(t *testing.T) {
	const src = `ply
format ascii 1.0
element face 1
property list uchar int vertex_indices
end_header
3 0 1 2
`
	r := openFixture(t, src)
	if _, err := NewLoader(r, "", meshio.LoaderCallbacks{}); err == nil {
		t.Error("NewLoader() with a face element before any vertex element succeeded, want error")
	}
}

func TestLoadProgressReachesCompletion(t *testing.T) {
	var reports []float64
	callbacks := meshio.LoaderCallbacks{
		OnLoadProgressChange: func(fraction float64) { reports = append(reports, fraction) },
	}
	r := openFixture(t, asciiTriangle)
	l, err := NewLoader(r, "", callbacks)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()

	if len(reports) == 0 {
		t.Fatal("no progress reports fired")
	}
	if last := reports[len(reports)-1]; last != 1.0 {
		t.Errorf("final progress report = %v, want 1.0", last)
	}
}
