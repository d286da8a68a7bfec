// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package geom32 is meshio's float32-native vector/bbox arithmetic,
// operating directly on the flat coordinate slices a DataChunk carries
// rather than boxing each point into a struct. Kept internal since its
// only job is backing package meshio's own BoundingBox computation.
package geom32

import "github.com/chewxy/math32"

// Box is an axis-aligned bounding box over float32 coordinates.
type Box struct {
	MinX, MinY, MinZ float32
	MaxX, MaxY, MaxZ float32
}

// NewBox returns a box initialized to ±∞ in the appropriate direction,
// ready to be widened by Extend.
func NewBox() Box {
	return Box{
		MinX: math32.Inf(1), MinY: math32.Inf(1), MinZ: math32.Inf(1),
		MaxX: math32.Inf(-1), MaxY: math32.Inf(-1), MaxZ: math32.Inf(-1),
	}
}

// Extend widens b, if necessary, to include the point (x,y,z).
func (b *Box) Extend(x, y, z float32) {
	b.MinX = math32.Min(b.MinX, x)
	b.MinY = math32.Min(b.MinY, y)
	b.MinZ = math32.Min(b.MinZ, z)
	b.MaxX = math32.Max(b.MaxX, x)
	b.MaxY = math32.Max(b.MaxY, y)
	b.MaxZ = math32.Max(b.MaxZ, z)
}

// ComputeBox returns the tight box over coords, a flat x,y,z-triple
// slice. An empty or malformed (non-multiple-of-3) input yields an
// all-±∞ box, same as an unextended NewBox.
func ComputeBox(coords []float32) Box {
	box := NewBox()
	for i := 0; i+2 < len(coords); i += 3 {
		box.Extend(coords[i], coords[i+1], coords[i+2])
	}
	return box
}
