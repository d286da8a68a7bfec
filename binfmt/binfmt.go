// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package binfmt writes and reads meshio's custom compact binary format
// (version 2, spec.md §4.8): a version byte, a sentinel-terminated
// texture section, then one length-prefixed record per chunk. Every
// multi-byte scalar is big-endian, the same field-order/binary.Write
// discipline the teacher's load/iqm.go uses for IQM's fixed header,
// generalized here from a single fixed struct to a variable, presence-
// flagged record.
package binfmt

import (
	"encoding/binary"
	"io"
	"math"
	"runtime"

	"github.com/galvanizedlogic/meshio"
)

// Version is the only format version this package writes or reads.
const Version = 2

// MaxChunkVertices is the widest a single chunk's vertex table can be
// and still index it with the format's 16-bit indices (spec.md §9(b)).
const MaxChunkVertices = 65536

// Write encodes textures followed by every chunk it yields into w, in
// the v2 layout. callbacks fire the writer notifications spec.md §6
// lists; any of its fields may be nil.
func Write(w io.Writer, it meshio.ChunkIterator, textures []*meshio.Texture, callbacks meshio.WriterCallbacks) error {
	if w == nil || it == nil {
		return meshio.NewError(meshio.NotReadyError, nil, "binfmt: writer and iterator must be set before Write")
	}
	if callbacks.OnWriteStart != nil {
		callbacks.OnWriteStart()
	}
	defer func() {
		if callbacks.OnWriteEnd != nil {
			callbacks.OnWriteEnd()
		}
	}()

	bw := &byteWriter{w: w}
	bw.writeU8(Version)

	for _, tex := range textures {
		texFile := tex.File
		if callbacks.OnValidateTexture != nil {
			resolved, err := callbacks.OnValidateTexture(tex)
			if err != nil {
				return meshio.NewError(meshio.InvalidTextureError, err, "validating texture %d", tex.ID)
			}
			if resolved == nil {
				continue // caller rejected this texture.
			}
			texFile = resolved
		}
		data, err := io.ReadAll(texFile)
		if err != nil {
			return meshio.NewIoError(err, "reading texture %d payload", tex.ID)
		}
		bw.writeBool(true)
		bw.writeU32(uint32(tex.ID))
		bw.writeU32(uint32(tex.Width))
		bw.writeU32(uint32(tex.Height))
		bw.writeU64(uint64(len(data)))
		bw.writeBytes(data)
		if callbacks.OnDidValidateTexture != nil {
			callbacks.OnDidValidateTexture(texFile)
		}
		if bw.err != nil {
			return meshio.NewIoError(bw.err, "writing texture %d", tex.ID)
		}
	}
	bw.writeBool(false)
	if bw.err != nil {
		return meshio.NewIoError(bw.err, "writing texture sentinel")
	}

	chunksWritten := 0
	for it.HasNext() {
		chunk, err := it.Next()
		if err != nil {
			return err
		}
		if err := writeChunk(bw, chunk); err != nil {
			return err
		}
		chunksWritten++
		if callbacks.OnChunkAvailable != nil {
			callbacks.OnChunkAvailable(chunk)
		}
		if callbacks.OnWriteProgressChange != nil {
			// The writer consumes a one-pass pull iterator with no
			// advertised total, so unlike the loader side (spec.md
			// §4.7's 1%-delta threshold over a known total) there is no
			// fraction to report; report chunk count as a running total
			// instead, the same way the teacher's runLoader reports
			// batches completed rather than a percentage (loader.go).
			callbacks.OnWriteProgressChange(float64(chunksWritten))
		}
		runtime.GC()
	}
	return bw.err
}

func writeChunk(bw *byteWriter, c *meshio.DataChunk) error {
	if vc := len(c.Coords) / 3; vc > MaxChunkVertices {
		return meshio.NewParseError("binfmt: chunk has %d vertices, exceeds %d-vertex budget and cannot flush", vc, MaxChunkVertices)
	}

	payload := &byteWriter{w: nil, buf: make([]byte, 0, 256)}
	payload.buffered = true

	payload.writeBool(c.Material != nil)
	if c.Material != nil {
		writeMaterial(payload, c.Material)
	}

	payload.writeU32(uint32(len(c.Coords) * 4))
	for _, v := range c.Coords {
		payload.writeF32(v)
	}

	payload.writeU32(uint32(len(c.Colors)))
	payload.writeBytes(c.Colors)
	if len(c.Colors) > 0 {
		payload.writeU32(uint32(c.ColorComponents))
	}

	payload.writeU32(uint32(len(c.Indices) * 2))
	for _, idx := range c.Indices {
		payload.writeU16(uint16(idx))
	}

	payload.writeU32(uint32(len(c.TextureCoords) * 4))
	for _, v := range c.TextureCoords {
		payload.writeF32(v)
	}

	payload.writeU32(uint32(len(c.Normals) * 4))
	for _, v := range c.Normals {
		payload.writeF32(v)
	}

	payload.writeF32(c.Box.MinX)
	payload.writeF32(c.Box.MinY)
	payload.writeF32(c.Box.MinZ)
	payload.writeF32(c.Box.MaxX)
	payload.writeF32(c.Box.MaxY)
	payload.writeF32(c.Box.MaxZ)

	if payload.err != nil {
		return meshio.NewIoError(payload.err, "encoding chunk payload")
	}

	bw.writeU32(uint32(len(payload.buf)))
	bw.writeBytes(payload.buf)
	if bw.err != nil {
		return meshio.NewIoError(bw.err, "writing chunk")
	}
	return nil
}

func writeMaterial(bw *byteWriter, m *meshio.Material) {
	bw.writeU32(uint32(m.ID))
	bw.writeU32(uint32(len(m.Name)))
	bw.writeBytes([]byte(m.Name))

	writeRGB := func(present bool, c meshio.RGB) {
		bw.writeBool(present)
		if present {
			bw.writeU8(uint8(c.R))
			bw.writeU8(uint8(c.G))
			bw.writeU8(uint8(c.B))
		}
	}
	writeRGB(!m.Ambient.IsUnset(), m.Ambient)
	writeRGB(!m.Diffuse.IsUnset(), m.Diffuse)
	writeRGB(!m.Specular.IsUnset(), m.Specular)

	bw.writeBool(m.SpecularCoefficient != nil)
	if m.SpecularCoefficient != nil {
		bw.writeF32(*m.SpecularCoefficient)
	}
	bw.writeBool(m.Transparency != nil)
	if m.Transparency != nil {
		bw.writeU8(*m.Transparency)
	}
	bw.writeBool(m.Illumination != nil)
	if m.Illumination != nil {
		bw.writeU8(uint8(*m.Illumination))
	}

	writeTex := func(t *meshio.Texture) {
		bw.writeBool(t != nil)
		if t != nil {
			bw.writeU32(uint32(t.ID))
		}
	}
	writeTex(m.AmbientTexture)
	writeTex(m.DiffuseTexture)
	writeTex(m.SpecularTexture)
	writeTex(m.AlphaTexture)
	writeTex(m.BumpTexture)
}

// byteWriter accumulates big-endian scalar writes, either straight to an
// io.Writer or (when buffered) into an in-memory slice so writeChunk can
// learn the encoded payload's length before framing it.
type byteWriter struct {
	w        io.Writer
	buf      []byte
	buffered bool
	err      error
}

func (b *byteWriter) emit(p []byte) {
	if b.err != nil {
		return
	}
	if b.buffered {
		b.buf = append(b.buf, p...)
		return
	}
	_, b.err = b.w.Write(p)
}

func (b *byteWriter) writeBool(v bool) {
	if v {
		b.emit([]byte{1})
	} else {
		b.emit([]byte{0})
	}
}

func (b *byteWriter) writeU8(v uint8) { b.emit([]byte{v}) }

func (b *byteWriter) writeU16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	b.emit(buf[:])
}

func (b *byteWriter) writeU32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	b.emit(buf[:])
}

func (b *byteWriter) writeU64(v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	b.emit(buf[:])
}

func (b *byteWriter) writeF32(v float32) {
	b.writeU32(math.Float32bits(v))
}

func (b *byteWriter) writeBytes(p []byte) { b.emit(p) }
