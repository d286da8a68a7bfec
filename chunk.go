// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package meshio is a streaming reader/transcoder for 3D mesh files.
// It ingests PLY, Wavefront OBJ (with its companion MTL material file),
// 3D Studio (3DS), and STL, and produces a uniform, format-independent
// stream of mesh chunks that writers in package binfmt and jsonfmt
// transcode into a custom binary format or a JSON-like text format.
package meshio

import "github.com/galvanizedlogic/meshio/internal/geom32"

// DataChunk is the lingua franca between format loaders and writers.
// It is a self-contained, boundable slice of geometry: a loader's
// iterator yields a sequence of chunks that together partition the
// full mesh, each indexable using only its own local tables.
//
// Per-chunk index i in Indices addresses position i into each of
// Coords, Colors, Normals and TextureCoords independently -- a single
// flat, shared index space, regardless of how the source format
// represented per-corner attribute sharing.
type DataChunk struct {
	Coords        []float32 // x,y,z triples. Optional.
	Indices       []uint32  // triangle fan layout, groups of 3.
	Colors        []uint8   // stride = ColorComponents.
	TextureCoords []float32 // u,v pairs. Optional.
	Normals       []float32 // x,y,z triples. Optional.

	ColorComponents int // 1, 3 or 4. Meaningless if len(Colors) == 0.

	Box BoundingBox

	// Material is a reference into the parse-global material table,
	// or nil if the chunk carries no material.
	Material *Material
}

// BoundingBox is an axis-aligned box, tight over the coordinates of the
// chunk it was computed for (spec invariant: computed when the parser
// knows the full chunk).
type BoundingBox struct {
	MinX, MinY, MinZ float32
	MaxX, MaxY, MaxZ float32
}

// NewBoundingBox returns a box initialized to ±∞ in the appropriate
// direction, ready to be widened by Extend.
func NewBoundingBox() BoundingBox {
	b := geom32.NewBox()
	return BoundingBox(b)
}

// Extend widens the box, if necessary, to include the point (x,y,z).
func (b *BoundingBox) Extend(x, y, z float32) {
	g := geom32.Box(*b)
	g.Extend(x, y, z)
	*b = BoundingBox(g)
}

// RecomputeBox replaces c.Box with the tight box over c.Coords. Formats
// that don't know the whole chunk up front (streaming emitters) call this
// right before the chunk is handed to the caller.
func (c *DataChunk) RecomputeBox() {
	c.Box = BoundingBox(geom32.ComputeBox(c.Coords))
}

// NewDataChunk returns an empty chunk with its box initialized to ±∞,
// ready for incremental population by a format parser.
func NewDataChunk() *DataChunk {
	return &DataChunk{Box: NewBoundingBox()}
}

// Validate checks the structural invariants spec'd for a DataChunk
// (P1/P2 in the testable-properties list): array lengths divisible by
// their stride, and every index within range of the vertex tables.
func (c *DataChunk) Validate() error {
	if len(c.Coords)%3 != 0 {
		return newParseError("coords length %d not divisible by 3", len(c.Coords))
	}
	if len(c.Indices)%3 != 0 {
		return newParseError("indices length %d not divisible by 3", len(c.Indices))
	}
	if len(c.TextureCoords)%2 != 0 {
		return newParseError("textureCoords length %d not divisible by 2", len(c.TextureCoords))
	}
	if len(c.Colors) > 0 {
		if c.ColorComponents != 1 && c.ColorComponents != 3 && c.ColorComponents != 4 {
			return newParseError("invalid colorComponents %d", c.ColorComponents)
		}
		if len(c.Colors)%c.ColorComponents != 0 {
			return newParseError("colors length %d not divisible by colorComponents %d", len(c.Colors), c.ColorComponents)
		}
	}
	vertexCount := len(c.Coords) / 3
	for _, idx := range c.Indices {
		if int(idx) >= vertexCount {
			return newParseError("index %d out of range for %d vertices", idx, vertexCount)
		}
	}
	return nil
}
