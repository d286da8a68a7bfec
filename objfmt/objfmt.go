// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package objfmt parses Wavefront OBJ files into a stream of
// meshio.DataChunk values, resolving per-corner vertex/texture/normal
// triples into the flat shared-index layout DataChunk requires and
// bridging mtllib/usemtl directives to package mtl (spec.md §4.3).
//    https://en.wikipedia.org/wiki/Wavefront_.obj_file#File_format
//    http://www.martinreddy.net/gfx/3d/OBJ.spec
package objfmt

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/mtl"
)

// DefaultVertexBudget is the per-chunk vertex cap (spec.md §4.2's cap,
// reused here): large enough to keep a 16-bit-index output viable.
const DefaultVertexBudget = 65535

type point3 struct{ x, y, z float32 }
type point2 struct{ u, v float32 }

// corner identifies one OBJ face corner: (position, texcoord, normal)
// pool indices, -1 meaning "omitted in the source".
type corner struct{ pos, tex, norm int }

// Loader streams DataChunks out of a Wavefront OBJ file. It is not safe
// for concurrent use (spec.md §5): only one goroutine may drive Next at
// a time.
type Loader struct {
	meshio.Locker

	sc        *bufio.Scanner
	callbacks meshio.LoaderCallbacks
	matCB     meshio.MaterialCallbacks
	validate  bool

	table *meshio.MaterialTable

	verts []point3
	norms []point3
	texs  []point2

	active       *meshio.Material
	localIndex   map[corner]uint32
	chunk        *meshio.DataChunk
	vertexBudget int

	pending []*meshio.DataChunk
	lineNo  int
	done    bool
	err     error

	// closer, when set by the registry-driven open(), is the file Close
	// releases. NewLoader callers that pass their own io.Reader manage
	// its lifetime themselves (spec.md §4.3).
	closer io.Closer
}

// NewLoader returns a Loader reading from r. r is expected to be opened
// and closed by the caller. callbacks.OnMaterialLoaderRequested resolves
// mtllib references; matCB drives texture validation for map_* directives
// found in resolved MTL files.
func NewLoader(r io.Reader, callbacks meshio.LoaderCallbacks, matCB meshio.MaterialCallbacks, validateTextures bool) *Loader {
	l := &Loader{
		sc:           bufio.NewScanner(r),
		callbacks:    callbacks,
		matCB:        matCB,
		validate:     validateTextures,
		table:        meshio.NewMaterialTable(),
		vertexBudget: DefaultVertexBudget,
	}
	l.sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	l.resetChunk()
	return l
}

func (l *Loader) resetChunk() {
	l.chunk = meshio.NewDataChunk()
	l.chunk.Material = l.active
	l.localIndex = map[corner]uint32{}
}

// Materials returns the table populated so far (materials are published
// as mtllib files are resolved, ahead of the chunks that reference them).
func (l *Loader) Materials() *meshio.MaterialTable { return l.table }

// HasNext reports whether another chunk is available, scanning as many
// lines as it takes to complete one or to reach EOF.
func (l *Loader) HasNext() bool {
	if len(l.pending) > 0 {
		return true
	}
	if l.done {
		return false
	}
	l.scanUntilChunkOrEOF()
	return len(l.pending) > 0
}

// Next returns the next chunk, or a NotAvailableError if HasNext is false.
func (l *Loader) Next() (*meshio.DataChunk, error) {
	if !l.HasNext() {
		if l.err != nil {
			return nil, l.err
		}
		return nil, meshio.NewError(meshio.NotAvailableError, nil, "objfmt: no more chunks")
	}
	c := l.pending[0]
	l.pending = l.pending[1:]
	return c, nil
}

// Close stops further scanning and unlocks the loader. It closes the
// underlying file only when the loader came from the registry's open;
// a reader passed to NewLoader stays owned by its caller.
func (l *Loader) Close() error {
	l.done = true
	l.Unlock()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func (l *Loader) scanUntilChunkOrEOF() {
	l.Lock()
	if l.callbacks.OnLoadStart != nil && l.lineNo == 0 {
		l.callbacks.OnLoadStart()
	}
	for l.sc.Scan() {
		l.lineNo++
		line := strings.TrimSpace(l.sc.Text())
		if err := l.processLine(line); err != nil {
			l.err = err
			l.done = true
			l.Unlock()
			return
		}
		if len(l.pending) > 0 {
			return
		}
	}
	if err := l.sc.Err(); err != nil {
		l.err = meshio.NewIoError(err, "reading obj stream")
		l.done = true
		l.Unlock()
		return
	}
	l.flushChunk()
	l.done = true
	l.Unlock()
	if l.callbacks.OnLoadEnd != nil {
		l.callbacks.OnLoadEnd()
	}
}

func (l *Loader) processLine(line string) error {
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	tokens := strings.Fields(line)
	switch tokens[0] {
	case "v":
		p, err := parsePoint3(tokens)
		if err != nil {
			return err
		}
		l.verts = append(l.verts, p)
	case "vn":
		p, err := parsePoint3(tokens)
		if err != nil {
			return err
		}
		l.norms = append(l.norms, p)
	case "vt":
		p, err := parsePoint2(tokens)
		if err != nil {
			return err
		}
		l.texs = append(l.texs, p)
	case "f":
		return l.processFace(tokens[1:])
	case "mtllib":
		return l.processMtllib(tokens)
	case "usemtl":
		return l.processUsemtl(tokens)
	case "g", "o", "s":
		// Grouping/smoothing directives: no chunk-boundary effect of
		// their own (material change already forces one).
	default:
		log.Printf("objfmt: unknown directive %q at line %d", tokens[0], l.lineNo)
	}
	return nil
}

func (l *Loader) processMtllib(tokens []string) error {
	if len(tokens) < 2 || l.callbacks.OnMaterialLoaderRequested == nil {
		return nil
	}
	r, err := l.callbacks.OnMaterialLoaderRequested(tokens[1])
	if err != nil {
		return meshio.NewIoError(err, "resolving mtllib %s", tokens[1])
	}
	if r == nil {
		return nil
	}
	return mtl.Parse(r, l.table, l.validate, l.matCB)
}

func (l *Loader) processUsemtl(tokens []string) error {
	if len(tokens) < 2 {
		return nil
	}
	m, ok := l.table.Lookup(tokens[1])
	if !ok {
		m = l.table.GetOrCreate(tokens[1])
	}
	if l.active == m {
		return nil
	}
	l.flushChunk()
	l.active = m
	l.chunk.Material = l.active
	return nil
}

// flushChunk hands the current chunk to the pending queue if it carries
// any geometry, then starts a fresh one sharing the active material.
func (l *Loader) flushChunk() {
	if len(l.chunk.Coords) > 0 {
		l.chunk.RecomputeBox()
		l.pending = append(l.pending, l.chunk)
	}
	l.resetChunk()
}

func (l *Loader) processFace(fields []string) error {
	if len(fields) < 3 {
		return meshio.NewParseError("face with %d corners, need at least 3", len(fields))
	}
	corners := make([]corner, len(fields))
	for i, f := range fields {
		c, err := l.parseCorner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	// Fan triangulation: (0,1,2),(0,2,3),...
	for i := 1; i < len(corners)-1; i++ {
		tri := [3]corner{corners[0], corners[i], corners[i+1]}
		for _, c := range tri {
			idx, err := l.internCorner(c)
			if err != nil {
				return err
			}
			l.chunk.Indices = append(l.chunk.Indices, idx)
		}
	}

	if len(l.chunk.Coords)/3 >= l.vertexBudget {
		l.flushChunk()
	}
	return nil
}

func (l *Loader) internCorner(c corner) (uint32, error) {
	if idx, ok := l.localIndex[c]; ok {
		return idx, nil
	}
	if c.pos < 0 || c.pos >= len(l.verts) {
		return 0, meshio.NewParseError("face position index %d out of range (%d vertices)", c.pos, len(l.verts))
	}
	v := l.verts[c.pos]
	l.chunk.Coords = append(l.chunk.Coords, v.x, v.y, v.z)

	if c.norm >= 0 {
		if c.norm >= len(l.norms) {
			return 0, meshio.NewParseError("face normal index %d out of range (%d normals)", c.norm, len(l.norms))
		}
		n := l.norms[c.norm]
		l.chunk.Normals = append(l.chunk.Normals, n.x, n.y, n.z)
	}
	if c.tex >= 0 {
		if c.tex >= len(l.texs) {
			return 0, meshio.NewParseError("face texcoord index %d out of range (%d texcoords)", c.tex, len(l.texs))
		}
		t := l.texs[c.tex]
		l.chunk.TextureCoords = append(l.chunk.TextureCoords, t.u, t.v)
	}

	idx := uint32(len(l.chunk.Coords)/3 - 1)
	l.localIndex[c] = idx
	return idx, nil
}

// parseCorner decodes one face-vertex specifier: "v", "v/t", "v/t/n" or
// "v//n". Indices are 1-based, or negative and relative to the current
// pool length (spec.md §4.3), resolved the way
// scottlawsonbc-raytrace/obj/obj.go's resolveIndex does.
func (l *Loader) parseCorner(spec string) (corner, error) {
	parts := strings.Split(spec, "/")
	c := corner{pos: -1, tex: -1, norm: -1}

	pos, err := strconv.Atoi(parts[0])
	if err != nil {
		return c, meshio.NewParseError("bad face corner %q", spec)
	}
	c.pos = resolveIndex(pos, len(l.verts))

	if len(parts) >= 2 && parts[1] != "" {
		tex, err := strconv.Atoi(parts[1])
		if err != nil {
			return c, meshio.NewParseError("bad face corner %q", spec)
		}
		c.tex = resolveIndex(tex, len(l.texs))
	}
	if len(parts) >= 3 && parts[2] != "" {
		norm, err := strconv.Atoi(parts[2])
		if err != nil {
			return c, meshio.NewParseError("bad face corner %q", spec)
		}
		c.norm = resolveIndex(norm, len(l.norms))
	}
	return c, nil
}

// resolveIndex converts a 1-based or negative-relative OBJ index into a
// 0-based pool index.
func resolveIndex(raw, poolLen int) int {
	if raw < 0 {
		return poolLen + raw
	}
	return raw - 1
}

func parsePoint3(tokens []string) (point3, error) {
	if len(tokens) < 4 {
		return point3{}, meshio.NewParseError("want 3 components: %q", strings.Join(tokens, " "))
	}
	x, e1 := strconv.ParseFloat(tokens[1], 32)
	y, e2 := strconv.ParseFloat(tokens[2], 32)
	z, e3 := strconv.ParseFloat(tokens[3], 32)
	if e1 != nil || e2 != nil || e3 != nil {
		return point3{}, meshio.NewParseError("bad float in %q", strings.Join(tokens, " "))
	}
	return point3{float32(x), float32(y), float32(z)}, nil
}

func parsePoint2(tokens []string) (point2, error) {
	if len(tokens) < 3 {
		return point2{}, meshio.NewParseError("want 2 components: %q", strings.Join(tokens, " "))
	}
	u, e1 := strconv.ParseFloat(tokens[1], 32)
	v, e2 := strconv.ParseFloat(tokens[2], 32)
	if e1 != nil || e2 != nil {
		return point2{}, meshio.NewParseError("bad float in %q", strings.Join(tokens, " "))
	}
	return point2{float32(u), float32(v)}, nil
}
