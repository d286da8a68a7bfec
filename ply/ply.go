// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package ply

import (
	"log"

	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

// DefaultVertexBudget caps a chunk's local vertex table (spec.md §4.2).
const DefaultVertexBudget = 65535

// Loader parses a whole PLY file up front into a queue of DataChunks and
// exposes it through the standard ChunkIterator pull interface. The
// vertex element must be decoded in full before face indices can be
// resolved (they address it by absolute position), so there is no
// benefit to deferring the element-to-chunk conversion the way objfmt
// defers face-by-face: by the time any chunk can be built, the file has
// already been read to the point that building the rest is free.
type Loader struct {
	meshio.Locker

	table   *meshio.MaterialTable
	pending []*meshio.DataChunk
	idx     int
	closer  interface{ Close() error }
}

// vertexTable is the fully decoded "vertex" element, addressed by
// absolute position as PLY face indices require.
type vertexTable struct {
	coords          []float32
	normals         []float32
	texcoords       []float32
	colors          []uint8
	colorComponents int
	count           int
}

// NewLoader parses r (already positioned at the start of a PLY file) and
// returns a Loader ready to iterate its DataChunks. charset governs
// header line decoding (bytesio.Reader.ReadLine). Progress is reported
// per record across all header-declared elements through
// callbacks.OnLoadProgressChange.
func NewLoader(r *bytesio.Reader, charset string, callbacks meshio.LoaderCallbacks) (*Loader, error) {
	hdr, err := parseHeader(r, charset)
	if err != nil {
		return nil, err
	}

	totalRecords := 0
	for _, elem := range hdr.Elements {
		totalRecords += int(elem.Count)
	}
	progress := meshio.NewProgressTracker(totalRecords, callbacks.OnLoadProgressChange)

	l := &Loader{table: meshio.NewMaterialTable()}
	var verts *vertexTable

	for _, elem := range hdr.Elements {
		switch elem.Name {
		case "vertex":
			verts, err = decodeVertexElement(r, hdr.Mode, elem, charset, progress)
			if err != nil {
				return nil, err
			}
		case "face":
			if verts == nil {
				return nil, meshio.NewParseError("ply: face element before vertex element")
			}
			chunks, err := decodeFaceElement(r, hdr.Mode, elem, charset, verts, progress)
			if err != nil {
				return nil, err
			}
			l.pending = append(l.pending, chunks...)
		default:
			if err := skipElement(r, hdr.Mode, elem, charset, progress); err != nil {
				return nil, err
			}
			log.Printf("ply: discarding unrecognised element %q", elem.Name)
		}
	}

	if len(l.pending) == 0 && verts != nil && verts.count > 0 {
		// Point cloud with no faces: emit the vertex table as one chunk.
		l.pending = append(l.pending, vertexTableChunk(verts, nil))
	}
	// Advisory lock held until the iterator is exhausted or closed.
	l.Lock()
	return l, nil
}

func (l *Loader) Materials() *meshio.MaterialTable { return l.table }
func (l *Loader) HasNext() bool                    { return l.idx < len(l.pending) }

func (l *Loader) Next() (*meshio.DataChunk, error) {
	if !l.HasNext() {
		return nil, meshio.NewError(meshio.NotAvailableError, nil, "ply: no more chunks")
	}
	c := l.pending[l.idx]
	l.idx++
	if !l.HasNext() {
		l.Unlock()
	}
	return c, nil
}

func (l *Loader) Close() error {
	l.Unlock()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func recordReaderFor(r *bytesio.Reader, mode StorageMode, charset string) (func() (recordReader, error), error) {
	if mode == ASCII {
		return func() (recordReader, error) {
			line, err := r.ReadLine(charset)
			if err != nil {
				return nil, meshio.NewIoError(err, "reading ply ascii record")
			}
			return &asciiRecord{tokens: fields(line)}, nil
		}, nil
	}
	br := &binaryRecord{r: r, endian: mode.endian()}
	return func() (recordReader, error) { return br, nil }, nil
}

func decodeVertexElement(r *bytesio.Reader, mode StorageMode, elem ElementPLY, charset string, progress *meshio.ProgressTracker) (*vertexTable, error) {
	next, err := recordReaderFor(r, mode, charset)
	if err != nil {
		return nil, err
	}
	vt := &vertexTable{count: int(elem.Count)}

	hasColor, hasAlpha := false, false
	for _, p := range elem.Properties {
		switch canonicalName(p.Name) {
		case "red", "r", "green", "g", "blue", "b":
			hasColor = true
		case "alpha", "a":
			hasAlpha = true
		}
	}
	if hasColor {
		vt.colorComponents = 3
		if hasAlpha {
			vt.colorComponents = 4
		}
	}

	for i := uint64(0); i < elem.Count; i++ {
		rr, err := next()
		if err != nil {
			return nil, err
		}
		var x, y, z, nx, ny, nz, s, t float32
		var r8, g8, b8, a8 uint8
		haveX, haveN, haveT := false, false, false

		for _, p := range elem.Properties {
			vals, err := readProperty(rr, p)
			if err != nil {
				return nil, err
			}
			v := float32(0)
			if len(vals) > 0 {
				v = float32(vals[0])
			}
			switch canonicalName(p.Name) {
			case "x":
				x, haveX = v, true
			case "y":
				y = v
			case "z":
				z = v
			case "nx":
				nx, haveN = v, true
			case "ny":
				ny = v
			case "nz":
				nz = v
			case "s", "u":
				s, haveT = v, true
			case "t", "v":
				t = v
			case "red", "r":
				r8 = uint8(v)
			case "green", "g":
				g8 = uint8(v)
			case "blue", "b":
				b8 = uint8(v)
			case "alpha", "a":
				a8 = uint8(v)
			default:
				// consumed, discarded: keeps the stream aligned.
			}
		}
		if haveX {
			vt.coords = append(vt.coords, x, y, z)
		}
		if haveN {
			vt.normals = append(vt.normals, nx, ny, nz)
		}
		if haveT {
			vt.texcoords = append(vt.texcoords, s, t)
		}
		if hasColor {
			vt.colors = append(vt.colors, r8, g8, b8)
			if hasAlpha {
				vt.colors = append(vt.colors, a8)
			}
		}
		progress.Advance(1)
	}
	return vt, nil
}

// decodeFaceElement streams the face element's index lists into
// budget-capped DataChunks, fan-triangulating any face with more than 3
// corners and re-interning vertices into a fresh local table on every
// flush (spec.md §4.2's chunked emission).
func decodeFaceElement(r *bytesio.Reader, mode StorageMode, elem ElementPLY, charset string, verts *vertexTable, progress *meshio.ProgressTracker) ([]*meshio.DataChunk, error) {
	next, err := recordReaderFor(r, mode, charset)
	if err != nil {
		return nil, err
	}

	indexProp := -1
	for i, p := range elem.Properties {
		if p.Kind == List {
			indexProp = i
			break
		}
	}
	if indexProp < 0 {
		return nil, meshio.NewParseError("ply: face element has no list property")
	}

	var chunks []*meshio.DataChunk
	chunk := meshio.NewDataChunk()
	localIndex := map[int]uint32{}

	flush := func() {
		if len(chunk.Coords) > 0 {
			chunk.RecomputeBox()
			chunks = append(chunks, chunk)
		}
		chunk = meshio.NewDataChunk()
		localIndex = map[int]uint32{}
	}

	intern := func(globalIdx int) (uint32, error) {
		if idx, ok := localIndex[globalIdx]; ok {
			return idx, nil
		}
		if globalIdx < 0 || globalIdx >= verts.count {
			return 0, meshio.NewParseError("ply: face index %d out of range (%d vertices)", globalIdx, verts.count)
		}
		appendVertex(chunk, verts, globalIdx)
		idx := uint32(len(chunk.Coords)/3 - 1)
		localIndex[globalIdx] = idx
		return idx, nil
	}

	for i := uint64(0); i < elem.Count; i++ {
		rr, err := next()
		if err != nil {
			return nil, err
		}
		var faceIdxs []int
		for pi, p := range elem.Properties {
			vals, err := readProperty(rr, p)
			if err != nil {
				return nil, err
			}
			if pi == indexProp {
				faceIdxs = make([]int, len(vals))
				for j, v := range vals {
					faceIdxs[j] = int(v)
				}
			}
		}
		if len(faceIdxs) < 3 {
			return nil, meshio.NewParseError("ply: face with %d indices, need at least 3", len(faceIdxs))
		}

		for t := 1; t < len(faceIdxs)-1; t++ {
			tri := [3]int{faceIdxs[0], faceIdxs[t], faceIdxs[t+1]}
			for _, gi := range tri {
				li, err := intern(gi)
				if err != nil {
					return nil, err
				}
				chunk.Indices = append(chunk.Indices, li)
			}
		}
		if len(chunk.Coords)/3 >= DefaultVertexBudget {
			flush()
		}
		progress.Advance(1)
	}
	flush()
	return chunks, nil
}

func appendVertex(chunk *meshio.DataChunk, verts *vertexTable, i int) {
	if len(verts.coords) > 0 {
		chunk.Coords = append(chunk.Coords, verts.coords[i*3], verts.coords[i*3+1], verts.coords[i*3+2])
	}
	if len(verts.normals) > 0 {
		chunk.Normals = append(chunk.Normals, verts.normals[i*3], verts.normals[i*3+1], verts.normals[i*3+2])
	}
	if len(verts.texcoords) > 0 {
		chunk.TextureCoords = append(chunk.TextureCoords, verts.texcoords[i*2], verts.texcoords[i*2+1])
	}
	if len(verts.colors) > 0 {
		cc := verts.colorComponents
		chunk.Colors = append(chunk.Colors, verts.colors[i*cc:i*cc+cc]...)
		chunk.ColorComponents = cc
	}
}

func vertexTableChunk(verts *vertexTable, material *meshio.Material) *meshio.DataChunk {
	chunk := meshio.NewDataChunk()
	chunk.Material = material
	chunk.Coords = append(chunk.Coords, verts.coords...)
	chunk.Normals = append(chunk.Normals, verts.normals...)
	chunk.TextureCoords = append(chunk.TextureCoords, verts.texcoords...)
	chunk.Colors = append(chunk.Colors, verts.colors...)
	chunk.ColorComponents = verts.colorComponents
	chunk.RecomputeBox()
	return chunk
}

// skipElement consumes (and discards) every record of an element whose
// name the parser does not recognise, keeping the stream aligned for
// whatever follows (spec.md §4.2/§7: unknown properties are tolerated).
func skipElement(r *bytesio.Reader, mode StorageMode, elem ElementPLY, charset string, progress *meshio.ProgressTracker) error {
	next, err := recordReaderFor(r, mode, charset)
	if err != nil {
		return err
	}
	for i := uint64(0); i < elem.Count; i++ {
		rr, err := next()
		if err != nil {
			return err
		}
		for _, p := range elem.Properties {
			if _, err := readProperty(rr, p); err != nil {
				return err
			}
		}
		progress.Advance(1)
	}
	return nil
}

func fields(line string) []string {
	var out []string
	start := -1
	for i, r := range line {
		if r == ' ' || r == '\t' || r == '\r' {
			if start >= 0 {
				out = append(out, line[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, line[start:])
	}
	return out
}
