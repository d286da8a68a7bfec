// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package threeds parses 3D Studio (3DS) files: a tree of tagged binary
// chunks (2-byte id, 4-byte length including the 6-byte header) walked
// depth-first (spec.md §4.5). Recognised chunks are decoded; everything
// else is skipped by seeking to its end.
package threeds

import (
	"log"

	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

// Chunk3DS is a single node of the tagged-chunk tree: its id and the
// stream range [Start, End) its header and payload occupy, End = Start +
// length (spec.md §3).
type Chunk3DS struct {
	ID    uint16
	Start int64
	End   int64
}

// Loader parses an entire 3DS file eagerly into a queue of DataChunks:
// the format's tree has one N_TRI_OBJECT per mesh and the file sizes
// this applies to are small enough that a single depth-first pass up
// front is simpler than a resumable streaming walk, the same eager
// approach ply.Loader takes.
type Loader struct {
	meshio.Locker

	r        *bytesio.Reader
	table    *meshio.MaterialTable
	progress *meshio.ProgressTracker

	pending []*meshio.DataChunk
	idx     int
	err     error
}

// NewLoader parses the 3DS tree rooted at r and returns a Loader ready
// to iterate its DataChunks. r is closed by Close. Progress is reported
// by bytes consumed of the mesh-data section's children through
// callbacks.OnLoadProgressChange.
func NewLoader(r *bytesio.Reader, callbacks meshio.LoaderCallbacks) (*Loader, error) {
	l := &Loader{
		r:        r,
		table:    meshio.NewMaterialTable(),
		progress: meshio.NewProgressTracker(int(r.Size()), callbacks.OnLoadProgressChange),
	}
	// Advisory lock held until the iterator is exhausted or closed.
	l.Lock()
	if err := l.parse(); err != nil {
		l.Unlock()
		return nil, err
	}
	return l, nil
}

func (l *Loader) Materials() *meshio.MaterialTable { return l.table }

func (l *Loader) HasNext() bool { return l.idx < len(l.pending) }

func (l *Loader) Next() (*meshio.DataChunk, error) {
	if !l.HasNext() {
		return nil, meshio.NewError(meshio.NotAvailableError, nil, "threeds: no more chunks")
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
	return l.r.Close()
}

func (l *Loader) parse() error {
	id, length, err := l.readHeader()
	if err != nil {
		return err
	}
	if id != m3dMagic {
		return meshio.NewParseError("3ds: bad root magic %#x", id)
	}
	rootEnd := int64(length)
	return l.walk(rootEnd, l.onRootChunk)
}

// readHeader reads the (id, length) pair at the reader's current
// position. The caller's position after this call is the chunk's
// payload start, i.e. start+6.
func (l *Loader) readHeader() (id uint16, length uint32, err error) {
	id, err = l.r.ReadU16(bytesio.LittleEndian)
	if err != nil {
		return 0, 0, meshio.NewIoError(err, "reading chunk id")
	}
	length, err = l.r.ReadU32(bytesio.LittleEndian)
	if err != nil {
		return 0, 0, meshio.NewIoError(err, "reading chunk length")
	}
	return id, length, nil
}

// walk reads chunks until the reader reaches end, dispatching each one
// to onChunk. It enforces spec.md §4.5/§8(P6): after onChunk returns,
// the reader must land exactly on the chunk's start+length, whether the
// chunk was recognised or skipped.
func (l *Loader) walk(end int64, onChunk func(id uint16, start, chunkEnd int64) error) error {
	for l.r.Position() < end {
		start := l.r.Position()
		id, length, err := l.readHeader()
		if err != nil {
			return err
		}
		if length < 6 {
			return meshio.NewParseError("3ds: chunk %#x length %d smaller than header", id, length)
		}
		chunkEnd := start + int64(length)
		if chunkEnd > end {
			return meshio.NewParseError("3ds: chunk %#x overruns parent bound", id)
		}
		if err := onChunk(id, start, chunkEnd); err != nil {
			return err
		}
		if l.r.Position() != chunkEnd {
			if err := l.r.Seek(chunkEnd); err != nil {
				return meshio.NewIoError(err, "seeking past chunk %#x", id)
			}
		}
	}
	if l.r.Position() != end {
		return meshio.NewParseError("3ds: chunk walk overran its bound")
	}
	return nil
}

func (l *Loader) onRootChunk(id uint16, start, end int64) error {
	if id == mdata {
		return l.walk(end, l.onMDataChunk)
	}
	log.Printf("threeds: skipping root-level chunk %#x", id)
	return nil
}

func (l *Loader) onMDataChunk(id uint16, start, end int64) error {
	defer l.progress.Advance(int(end - start))
	switch id {
	case matEntry:
		return l.parseMaterial(end)
	case namedObject:
		return l.parseNamedObject(end)
	default:
		return nil // unrecognised mesh-data child, skipped by walk.
	}
}

func (l *Loader) readCString() (string, error) {
	var buf []byte
	for {
		b, err := l.r.ReadU8()
		if err != nil {
			return "", meshio.NewIoError(err, "reading 3ds string")
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf), nil
}
