// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package stl parses STL ("stereolithography") triangle-soup meshes, in
// both their ASCII and binary encodings (spec.md §4.6). STL carries no
// shared-vertex index buffer on disk -- every triangle repeats its three
// corners in full -- so, unlike objfmt/ply/threeds, no interning map is
// needed: each facet simply appends three fresh vertices.
package stl

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

// readerAdapter presents a bytesio.Reader's remaining bytes as an
// io.Reader so bufio.Scanner can tokenize the ASCII STL grammar line by
// line, mirroring the teacher's bufio.Scanner-over-a-file convention
// (load/obj.go, load/mtl.go) instead of hand-rolling line splitting here.
type readerAdapter struct{ r *bytesio.Reader }

func streamAll(r *bytesio.Reader) io.Reader { return readerAdapter{r} }

func (a readerAdapter) Read(p []byte) (int, error) {
	n := len(p)
	if remaining := a.r.Remaining(); int64(n) > remaining {
		n = int(remaining)
	}
	if n == 0 {
		return 0, io.EOF
	}
	if err := a.r.ReadExact(p[:n]); err != nil {
		return 0, err
	}
	return n, nil
}

// DefaultVertexBudget caps a chunk's vertex table, the same per-chunk
// flush convention objfmt and ply use (spec.md §4.2).
const DefaultVertexBudget = 65535

// Loader walks a fully-read STL file's triangle list into a queue of
// DataChunks. STL has no material or texture model, so Materials always
// returns an empty table.
type Loader struct {
	meshio.Locker

	table   *meshio.MaterialTable
	pending []*meshio.DataChunk
	idx     int
	closer  interface{ Close() error }
}

// NewLoader parses r, already positioned at the start of an STL file.
// Detection: read the leading bytes, and if they spell "solid"
// (case-insensitive), attempt an ASCII parse first (some binary files
// legitimately begin with the word "solid"). Any ASCII parse failure,
// wherever in the file it occurs, rewinds and re-parses the file as
// binary; a fallback is not limited to the first triangle.
// Binary parsing reports per-triangle progress through
// callbacks.OnLoadProgressChange; the ASCII grammar has no declared
// facet count to report against.
func NewLoader(r *bytesio.Reader, callbacks meshio.LoaderCallbacks) (*Loader, error) {
	head := make([]byte, 5)
	if err := r.ReadExact(head); err != nil {
		return nil, err
	}
	if err := r.Seek(0); err != nil {
		return nil, err
	}

	l := &Loader{table: meshio.NewMaterialTable()}
	looksASCII := strings.EqualFold(string(head), "solid")

	if looksASCII {
		chunks, err := parseASCII(r)
		if err == nil {
			l.pending = chunks
			l.Lock()
			return l, nil
		}
		if err := r.Seek(0); err != nil {
			return nil, err
		}
	}

	chunks, err := parseBinary(r, callbacks.OnLoadProgressChange)
	if err != nil {
		return nil, err
	}
	l.pending = chunks
	// Advisory lock held until the iterator is exhausted or closed.
	l.Lock()
	return l, nil
}

func (l *Loader) Materials() *meshio.MaterialTable { return l.table }
func (l *Loader) HasNext() bool                    { return l.idx < len(l.pending) }

func (l *Loader) Next() (*meshio.DataChunk, error) {
	if !l.HasNext() {
		return nil, meshio.NewError(meshio.NotAvailableError, nil, "stl: no more chunks")
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

// chunkBuilder accumulates facets into budget-capped DataChunks. Every
// facet appends three fresh vertices: STL carries no shared-index buffer
// to dedup against.
type chunkBuilder struct {
	chunks []*meshio.DataChunk
	chunk  *meshio.DataChunk
}

func newChunkBuilder() *chunkBuilder {
	return &chunkBuilder{chunk: meshio.NewDataChunk()}
}

func (b *chunkBuilder) addFacet(nx, ny, nz float32, v [3][3]float32) {
	base := uint32(len(b.chunk.Coords) / 3)
	for _, p := range v {
		b.chunk.Coords = append(b.chunk.Coords, p[0], p[1], p[2])
		b.chunk.Normals = append(b.chunk.Normals, nx, ny, nz)
	}
	b.chunk.Indices = append(b.chunk.Indices, base, base+1, base+2)
	if len(b.chunk.Coords)/3 >= DefaultVertexBudget {
		b.flush()
	}
}

func (b *chunkBuilder) flush() {
	if len(b.chunk.Coords) > 0 {
		b.chunk.RecomputeBox()
		b.chunks = append(b.chunks, b.chunk)
	}
	b.chunk = meshio.NewDataChunk()
}

func (b *chunkBuilder) finish() []*meshio.DataChunk {
	b.flush()
	return b.chunks
}

// parseBinary reads the 80-byte header, u32 triangle count, and that many
// 50-byte records (3×f32 normal, 3×3×f32 vertices, u16 attribute byte
// count, all little-endian), per spec.md §4.6/§8(P7).
func parseBinary(r *bytesio.Reader, onProgress func(float64)) ([]*meshio.DataChunk, error) {
	header := make([]byte, 80)
	if err := r.ReadExact(header); err != nil {
		return nil, err
	}
	count, err := r.ReadU32(bytesio.LittleEndian)
	if err != nil {
		return nil, meshio.NewIoError(err, "reading stl binary triangle count")
	}

	progress := meshio.NewProgressTracker(int(count), onProgress)
	b := newChunkBuilder()
	for i := uint32(0); i < count; i++ {
		nx, ny, nz, err := readVec3(r)
		if err != nil {
			return nil, meshio.NewIoError(err, "reading stl facet %d normal", i)
		}
		var verts [3][3]float32
		for j := 0; j < 3; j++ {
			x, y, z, err := readVec3(r)
			if err != nil {
				return nil, meshio.NewIoError(err, "reading stl facet %d vertex %d", i, j)
			}
			verts[j] = [3]float32{x, y, z}
		}
		if _, err := r.ReadU16(bytesio.LittleEndian); err != nil {
			return nil, meshio.NewIoError(err, "reading stl facet %d attribute byte count", i)
		}
		b.addFacet(nx, ny, nz, verts)
		progress.Advance(1)
	}
	return b.finish(), nil
}

func readVec3(r *bytesio.Reader) (x, y, z float32, err error) {
	if x, err = r.ReadF32(bytesio.LittleEndian); err != nil {
		return
	}
	if y, err = r.ReadF32(bytesio.LittleEndian); err != nil {
		return
	}
	z, err = r.ReadF32(bytesio.LittleEndian)
	return
}

// parseASCII scans the `solid`/`facet normal`/`outer loop`/`vertex`×3/
// `endloop`/`endfacet`/`endsolid` token grammar (spec.md §4.6), returning
// an error at the first token mismatch so NewLoader can fall back to
// binary.
func parseASCII(r *bytesio.Reader) ([]*meshio.DataChunk, error) {
	sc := bufio.NewScanner(streamAll(r))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newChunkBuilder()
	if !sc.Scan() {
		return nil, meshio.NewParseError("stl: empty ascii input")
	}
	if !strings.HasPrefix(strings.Fields(sc.Text())[0], "solid") {
		return nil, meshio.NewParseError("stl: expected solid")
	}

	for sc.Scan() {
		tokens := strings.Fields(sc.Text())
		if len(tokens) == 0 {
			continue
		}
		switch tokens[0] {
		case "endsolid":
			return b.finish(), nil
		case "facet":
			if len(tokens) != 5 || tokens[1] != "normal" {
				return nil, meshio.NewParseError("stl: malformed facet normal line")
			}
			nx, e1 := strconv.ParseFloat(tokens[2], 32)
			ny, e2 := strconv.ParseFloat(tokens[3], 32)
			nz, e3 := strconv.ParseFloat(tokens[4], 32)
			if e1 != nil || e2 != nil || e3 != nil {
				return nil, meshio.NewParseError("stl: bad facet normal %v", tokens[2:5])
			}
			if !sc.Scan() || strings.TrimSpace(sc.Text()) != "outer loop" {
				return nil, meshio.NewParseError("stl: expected outer loop")
			}
			var verts [3][3]float32
			for i := 0; i < 3; i++ {
				if !sc.Scan() {
					return nil, meshio.NewParseError("stl: truncated vertex list")
				}
				vt := strings.Fields(sc.Text())
				if len(vt) != 4 || vt[0] != "vertex" {
					return nil, meshio.NewParseError("stl: expected vertex line, got %q", sc.Text())
				}
				x, e1 := strconv.ParseFloat(vt[1], 32)
				y, e2 := strconv.ParseFloat(vt[2], 32)
				z, e3 := strconv.ParseFloat(vt[3], 32)
				if e1 != nil || e2 != nil || e3 != nil {
					return nil, meshio.NewParseError("stl: bad vertex %v", vt[1:4])
				}
				verts[i] = [3]float32{float32(x), float32(y), float32(z)}
			}
			if !sc.Scan() || strings.TrimSpace(sc.Text()) != "endloop" {
				return nil, meshio.NewParseError("stl: expected endloop")
			}
			if !sc.Scan() || strings.TrimSpace(sc.Text()) != "endfacet" {
				return nil, meshio.NewParseError("stl: expected endfacet")
			}
			b.addFacet(float32(nx), float32(ny), float32(nz), verts)
		default:
			return nil, meshio.NewParseError("stl: unexpected token %q", tokens[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, meshio.NewIoError(err, "scanning stl ascii body")
	}
	return nil, meshio.NewParseError("stl: missing endsolid")
}
