// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package binfmt

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/galvanizedlogic/meshio"
)

// Read decodes a v2 binfmt stream written by Write, back into its
// textures and chunks. This is a supplemented feature: spec.md §4.8 only
// specifies the writer, but a round-trip format is only useful with a
// matching reader, so Read mirrors Write's field order exactly.
func Read(r io.Reader, callbacks meshio.BinaryLoaderCallbacks) ([]*meshio.Texture, []*meshio.DataChunk, error) {
	br := &byteReader{r: r}

	version := br.readU8()
	if br.err != nil {
		return nil, nil, meshio.NewIoError(br.err, "reading binfmt version")
	}
	if version != Version {
		return nil, nil, meshio.NewParseError("binfmt: unsupported version %d", version)
	}

	var textures []*meshio.Texture
	for {
		more := br.readBool()
		if br.err != nil {
			return nil, nil, meshio.NewIoError(br.err, "reading texture sentinel")
		}
		if !more {
			break
		}
		id := br.readU32()
		width := br.readU32()
		height := br.readU32()
		byteLen := br.readU64()
		data := br.readBytes(int(byteLen))
		if br.err != nil {
			return nil, nil, meshio.NewIoError(br.err, "reading texture %d", id)
		}
		tex := meshio.NewTexture("")
		tex.ID = int64(id)
		tex.Width, tex.Height = int(width), int(height)
		tex.Valid = true
		if callbacks.OnTextureReceived != nil {
			w, err := callbacks.OnTextureReceived(tex.ID, tex.Width, tex.Height)
			if err != nil {
				return nil, nil, meshio.NewError(meshio.InvalidTextureError, err, "receiving texture %d", tex.ID)
			}
			if w != nil {
				if _, err := w.Write(data); err != nil {
					return nil, nil, meshio.NewIoError(err, "writing texture %d payload", tex.ID)
				}
				if callbacks.OnTextureDataAvailable != nil {
					if _, err := callbacks.OnTextureDataAvailable(w, tex.ID, tex.Width, tex.Height); err != nil {
						return nil, nil, meshio.NewIoError(err, "processing texture %d payload", tex.ID)
					}
				}
			}
		}
		textures = append(textures, tex)
	}

	var chunks []*meshio.DataChunk
	for {
		size, ok := br.tryReadU32()
		if !ok {
			if br.err != nil && br.err != io.EOF {
				return nil, nil, meshio.NewIoError(br.err, "reading chunk size")
			}
			break
		}
		payload := br.readBytes(int(size))
		if br.err != nil {
			return nil, nil, meshio.NewIoError(br.err, "reading chunk payload")
		}
		chunk, err := decodeChunk(payload)
		if err != nil {
			return nil, nil, err
		}
		chunks = append(chunks, chunk)
	}
	return textures, chunks, nil
}

func decodeChunk(payload []byte) (*meshio.DataChunk, error) {
	br := &byteReader{r: bytes.NewReader(payload)}
	chunk := meshio.NewDataChunk()

	if br.readBool() {
		m := decodeMaterial(br)
		chunk.Material = m
	}

	coordsLen := br.readU32()
	chunk.Coords = make([]float32, coordsLen/4)
	for i := range chunk.Coords {
		chunk.Coords[i] = br.readF32()
	}

	colorsLen := br.readU32()
	chunk.Colors = br.readBytes(int(colorsLen))
	if colorsLen > 0 {
		chunk.ColorComponents = int(br.readU32())
	}

	indicesLen := br.readU32()
	chunk.Indices = make([]uint32, indicesLen/2)
	for i := range chunk.Indices {
		chunk.Indices[i] = uint32(br.readU16())
	}

	texLen := br.readU32()
	chunk.TextureCoords = make([]float32, texLen/4)
	for i := range chunk.TextureCoords {
		chunk.TextureCoords[i] = br.readF32()
	}

	normLen := br.readU32()
	chunk.Normals = make([]float32, normLen/4)
	for i := range chunk.Normals {
		chunk.Normals[i] = br.readF32()
	}

	chunk.Box.MinX = br.readF32()
	chunk.Box.MinY = br.readF32()
	chunk.Box.MinZ = br.readF32()
	chunk.Box.MaxX = br.readF32()
	chunk.Box.MaxY = br.readF32()
	chunk.Box.MaxZ = br.readF32()

	if br.err != nil && br.err != io.EOF {
		return nil, meshio.NewIoError(br.err, "decoding chunk payload")
	}
	return chunk, nil
}

func decodeMaterial(br *byteReader) *meshio.Material {
	id := int(br.readU32())
	nameLen := br.readU32()
	name := string(br.readBytes(int(nameLen)))

	m := &meshio.Material{ID: id, Name: name}
	readRGB := func() meshio.RGB {
		if !br.readBool() {
			return meshio.RGB{R: -1, G: -1, B: -1}
		}
		return meshio.RGB{R: int16(br.readU8()), G: int16(br.readU8()), B: int16(br.readU8())}
	}
	m.Ambient = readRGB()
	m.Diffuse = readRGB()
	m.Specular = readRGB()

	if br.readBool() {
		v := br.readF32()
		m.SpecularCoefficient = &v
	}
	if br.readBool() {
		v := br.readU8()
		m.Transparency = &v
	}
	if br.readBool() {
		v := meshio.Illum(br.readU8())
		m.Illumination = &v
	}

	readTex := func() *meshio.Texture {
		if !br.readBool() {
			return nil
		}
		id := br.readU32()
		t := meshio.NewTexture("")
		t.ID = int64(id)
		return t
	}
	m.AmbientTexture = readTex()
	m.DiffuseTexture = readTex()
	m.SpecularTexture = readTex()
	m.AlphaTexture = readTex()
	m.BumpTexture = readTex()
	return m
}

// byteReader is the mirror image of byteWriter: it reads big-endian
// scalars off an io.Reader, latching the first error so call sites can
// chain reads without individually checking each one.
type byteReader struct {
	r   io.Reader
	err error
}

func (b *byteReader) fill(n int) []byte {
	buf := make([]byte, n)
	if b.err != nil {
		return buf
	}
	if _, err := io.ReadFull(b.r, buf); err != nil {
		b.err = err
	}
	return buf
}

func (b *byteReader) readU8() uint8 {
	return b.fill(1)[0]
}

func (b *byteReader) readBool() bool { return b.readU8() != 0 }

func (b *byteReader) readU16() uint16 { return binary.BigEndian.Uint16(b.fill(2)) }
func (b *byteReader) readU32() uint32 { return binary.BigEndian.Uint32(b.fill(4)) }
func (b *byteReader) readU64() uint64 { return binary.BigEndian.Uint64(b.fill(8)) }
func (b *byteReader) readF32() float32 {
	return math.Float32frombits(b.readU32())
}
func (b *byteReader) readBytes(n int) []byte { return b.fill(n) }

// tryReadU32 reports whether a u32 could be read at all; used at the top
// of the chunk loop to distinguish a clean end-of-stream from a
// truncated record.
func (b *byteReader) tryReadU32() (uint32, bool) {
	var buf [4]byte
	n, err := io.ReadFull(b.r, buf[:])
	if n == 0 && err != nil {
		b.err = err
		return 0, false
	}
	if err != nil {
		b.err = err
		return 0, false
	}
	return binary.BigEndian.Uint32(buf[:]), true
}
