// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package threeds

import (
	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

type matGroup struct {
	material string
	faces    []uint16
}

// triObject accumulates one N_TRI_OBJECT's data as it is encountered;
// sub-chunks can arrive in any order so nothing is converted to a
// DataChunk until the whole object has been walked.
type triObject struct {
	name      string
	points    [][3]float32
	texVerts  [][2]float32
	faces     [][3]uint16
	matrix    *affine3
	matGroups []matGroup
}

func (l *Loader) parseNamedObject(end int64) error {
	name, err := l.readCString()
	if err != nil {
		return err
	}
	obj := &triObject{name: name}
	err = l.walk(end, func(id uint16, start, chunkEnd int64) error {
		if id == nTriObject {
			return l.walk(chunkEnd, obj.onTriObjectChunk(l))
		}
		return nil // e.g. N_CAMERA, N_LIGHT, unrecognised sibling chunks.
	})
	if err != nil {
		return err
	}
	if len(obj.points) == 0 {
		return nil // object carried no mesh (camera/light placeholder).
	}
	l.pending = append(l.pending, obj.toChunks(l.table)...)
	return nil
}

func (o *triObject) onTriObjectChunk(l *Loader) func(id uint16, start, chunkEnd int64) error {
	return func(id uint16, start, chunkEnd int64) error {
		switch id {
		case pointArray:
			return o.readPoints(l.r)
		case faceArray:
			return o.readFaces(l, chunkEnd)
		case texVerts:
			return o.readTexVerts(l.r)
		case meshMatrix:
			return o.readMatrix(l.r)
		}
		return nil
	}
}

func (o *triObject) readPoints(r *bytesio.Reader) error {
	count, err := r.ReadU16(bytesio.LittleEndian)
	if err != nil {
		return meshio.NewIoError(err, "reading POINT_ARRAY count")
	}
	o.points = make([][3]float32, count)
	for i := range o.points {
		x, e1 := r.ReadF32(bytesio.LittleEndian)
		y, e2 := r.ReadF32(bytesio.LittleEndian)
		z, e3 := r.ReadF32(bytesio.LittleEndian)
		if e1 != nil || e2 != nil || e3 != nil {
			return meshio.NewIoError(e1, "reading POINT_ARRAY entry %d", i)
		}
		o.points[i] = [3]float32{x, y, z}
	}
	return nil
}

func (o *triObject) readTexVerts(r *bytesio.Reader) error {
	count, err := r.ReadU16(bytesio.LittleEndian)
	if err != nil {
		return meshio.NewIoError(err, "reading TEX_VERTS count")
	}
	o.texVerts = make([][2]float32, count)
	for i := range o.texVerts {
		u, e1 := r.ReadF32(bytesio.LittleEndian)
		v, e2 := r.ReadF32(bytesio.LittleEndian)
		if e1 != nil || e2 != nil {
			return meshio.NewIoError(e1, "reading TEX_VERTS entry %d", i)
		}
		o.texVerts[i] = [2]float32{u, v}
	}
	return nil
}

func (o *triObject) readMatrix(r *bytesio.Reader) error {
	var m affine3
	for i := range m {
		v, err := r.ReadF32(bytesio.LittleEndian)
		if err != nil {
			return meshio.NewIoError(err, "reading MESH_MATRIX entry %d", i)
		}
		m[i] = v
	}
	o.matrix = &m
	return nil
}

// readFaces reads FACE_ARRAY's triangle list, then walks any nested
// MSH_MAT_GROUP chunks describing which faces use which material.
func (o *triObject) readFaces(l *Loader, end int64) error {
	count, err := l.r.ReadU16(bytesio.LittleEndian)
	if err != nil {
		return meshio.NewIoError(err, "reading FACE_ARRAY count")
	}
	o.faces = make([][3]uint16, count)
	for i := range o.faces {
		a, e1 := l.r.ReadU16(bytesio.LittleEndian)
		b, e2 := l.r.ReadU16(bytesio.LittleEndian)
		c, e3 := l.r.ReadU16(bytesio.LittleEndian)
		_, e4 := l.r.ReadU16(bytesio.LittleEndian) // flags, unused.
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
			return meshio.NewIoError(e1, "reading FACE_ARRAY entry %d", i)
		}
		o.faces[i] = [3]uint16{a, b, c}
	}

	return l.walk(end, func(id uint16, start, chunkEnd int64) error {
		if id != meshMatGroup {
			return nil
		}
		name, err := l.readCString()
		if err != nil {
			return err
		}
		n, err := l.r.ReadU16(bytesio.LittleEndian)
		if err != nil {
			return meshio.NewIoError(err, "reading MSH_MAT_GROUP face count")
		}
		idxs := make([]uint16, n)
		for i := range idxs {
			v, err := l.r.ReadU16(bytesio.LittleEndian)
			if err != nil {
				return meshio.NewIoError(err, "reading MSH_MAT_GROUP face index %d", i)
			}
			idxs[i] = v
		}
		o.matGroups = append(o.matGroups, matGroup{material: name, faces: idxs})
		return nil
	})
}

// toChunks converts the accumulated object into one DataChunk per
// material group, or a single materialless DataChunk when the object has
// no MSH_MAT_GROUP chunks (spec.md §4.5: "the object's material groups
// are split into sub-chunks when multiple materials apply").
func (o *triObject) toChunks(table *meshio.MaterialTable) []*meshio.DataChunk {
	if len(o.matGroups) == 0 {
		return []*meshio.DataChunk{o.buildChunk(nil, allFaceIndices(len(o.faces)))}
	}
	chunks := make([]*meshio.DataChunk, 0, len(o.matGroups))
	for _, g := range o.matGroups {
		m, _ := table.Lookup(g.material)
		chunks = append(chunks, o.buildChunk(m, g.faces))
	}
	return chunks
}

func allFaceIndices(n int) []uint16 {
	idxs := make([]uint16, n)
	for i := range idxs {
		idxs[i] = uint16(i)
	}
	return idxs
}

// buildChunk emits a DataChunk covering exactly the given subset of
// faces, remapping point/texcoord data into a local, chunk-scoped index
// space (DataChunk's flat shared-index model, spec.md §3).
func (o *triObject) buildChunk(material *meshio.Material, faceIdxs []uint16) *meshio.DataChunk {
	chunk := meshio.NewDataChunk()
	chunk.Material = material
	localIndex := map[uint16]uint32{}
	hasTex := len(o.texVerts) > 0

	addVertex := func(pointIdx uint16) uint32 {
		if idx, ok := localIndex[pointIdx]; ok {
			return idx
		}
		p := o.points[pointIdx]
		x, y, z := p[0], p[1], p[2]
		if o.matrix != nil {
			x, y, z = o.matrix.apply(x, y, z)
		}
		chunk.Coords = append(chunk.Coords, x, y, z)
		if hasTex {
			u, v := float32(0), float32(0)
			if int(pointIdx) < len(o.texVerts) {
				u, v = o.texVerts[pointIdx][0], o.texVerts[pointIdx][1]
			}
			chunk.TextureCoords = append(chunk.TextureCoords, u, v)
		}
		idx := uint32(len(chunk.Coords)/3 - 1)
		localIndex[pointIdx] = idx
		return idx
	}

	for _, fi := range faceIdxs {
		face := o.faces[fi]
		chunk.Indices = append(chunk.Indices,
			addVertex(face[0]), addVertex(face[1]), addVertex(face[2]))
	}
	chunk.RecomputeBox()
	return chunk
}
