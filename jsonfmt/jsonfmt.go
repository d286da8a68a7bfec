// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package jsonfmt writes meshio's JSON-like transcoder output (spec.md
// §4.9): one object with a "textures" array, a "chunks" array, and the
// overall mesh's min/max corners. The encoder is hand-rolled rather than
// encoding/json.Marshal because the format needs two behaviors outside
// what Marshal does automatically: escaping "/" inside base64 texture
// payloads, and substituting the binary32 max for non-finite floats
// instead of erroring -- consistent with the teacher's general
// preference for manual tokenizing/formatting over reflection-based
// encoding (load/obj.go, load/mtl.go).
package jsonfmt

import (
	"encoding/base64"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/galvanizedlogic/meshio"
)

// Write encodes textures followed by every chunk it yields into w as a
// single JSON object.
func Write(w io.Writer, it meshio.ChunkIterator, textures []*meshio.Texture, cfg meshio.Config, callbacks meshio.WriterCallbacks) error {
	if w == nil || it == nil {
		return meshio.NewError(meshio.NotReadyError, nil, "jsonfmt: writer and iterator must be set before Write")
	}
	if callbacks.OnWriteStart != nil {
		callbacks.OnWriteStart()
	}
	defer func() {
		if callbacks.OnWriteEnd != nil {
			callbacks.OnWriteEnd()
		}
	}()

	var b strings.Builder
	b.WriteByte('{')

	b.WriteString(`"textures":[`)
	for i, tex := range textures {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeTexture(&b, tex, cfg, callbacks); err != nil {
			return err
		}
	}
	b.WriteString("],")

	b.WriteString(`"chunks":[`)
	first := true
	box := meshio.NewBoundingBox()
	for it.HasNext() {
		chunk, err := it.Next()
		if err != nil {
			return err
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		writeChunk(&b, chunk)
		box.Extend(chunk.Box.MinX, chunk.Box.MinY, chunk.Box.MinZ)
		box.Extend(chunk.Box.MaxX, chunk.Box.MaxY, chunk.Box.MaxZ)
		if callbacks.OnChunkAvailable != nil {
			callbacks.OnChunkAvailable(chunk)
		}
	}
	b.WriteString("],")

	b.WriteString(`"minCorner":`)
	writeVec3(&b, box.MinX, box.MinY, box.MinZ)
	b.WriteByte(',')
	b.WriteString(`"maxCorner":`)
	writeVec3(&b, box.MaxX, box.MaxY, box.MaxZ)
	b.WriteByte('}')

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return meshio.NewIoError(err, "writing json output")
	}
	return nil
}

func writeTexture(b *strings.Builder, tex *meshio.Texture, cfg meshio.Config, callbacks meshio.WriterCallbacks) error {
	b.WriteByte('{')
	b.WriteString(`"id":`)
	b.WriteString(strconv.FormatInt(tex.ID, 10))
	b.WriteString(`,"width":`)
	b.WriteString(strconv.Itoa(tex.Width))
	b.WriteString(`,"height":`)
	b.WriteString(strconv.Itoa(tex.Height))

	if cfg.JSONRemoteTextureURLEnabled {
		b.WriteString(`,"remoteUrl":`)
		writeString(b, tex.FileName)
	}
	if cfg.JSONRemoteTextureIDEnabled {
		b.WriteString(`,"remoteId":`)
		b.WriteString(strconv.FormatInt(tex.ID, 10))
	}
	if cfg.JSONEmbedTextures && tex.File != nil {
		texFile := tex.File
		if callbacks.OnValidateTexture != nil {
			resolved, err := callbacks.OnValidateTexture(tex)
			if err != nil {
				return meshio.NewError(meshio.InvalidTextureError, err, "validating texture %d", tex.ID)
			}
			if resolved != nil {
				texFile = resolved
			}
		}
		data, err := io.ReadAll(texFile)
		if err != nil {
			return meshio.NewIoError(err, "reading texture %d for embedding", tex.ID)
		}
		if callbacks.OnDidValidateTexture != nil {
			callbacks.OnDidValidateTexture(texFile)
		}
		encoded := base64.StdEncoding.EncodeToString(data)
		encoded = strings.ReplaceAll(encoded, "/", `\/`)
		b.WriteString(`,"data":"`)
		b.WriteString(encoded)
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return nil
}

func writeChunk(b *strings.Builder, c *meshio.DataChunk) {
	b.WriteByte('{')
	wrote := false
	field := func(name string) {
		if wrote {
			b.WriteByte(',')
		}
		wrote = true
		b.WriteByte('"')
		b.WriteString(name)
		b.WriteString(`":`)
	}

	if c.Material != nil {
		field("material")
		writeMaterial(b, c.Material)
	}
	if len(c.Indices) > 0 {
		field("indices")
		writeUintArray(b, c.Indices)
	}
	if len(c.Normals) > 0 {
		field("vertexNormals")
		writeFloatArray(b, c.Normals)
	}
	if len(c.Coords) > 0 {
		field("vertexPositions")
		writeFloatArray(b, c.Coords)
	}
	if len(c.TextureCoords) > 0 {
		field("vertexTextureCoords")
		writeFloatArray(b, c.TextureCoords)
	}
	field("minCorner")
	writeVec3(b, c.Box.MinX, c.Box.MinY, c.Box.MinZ)
	field("maxCorner")
	writeVec3(b, c.Box.MaxX, c.Box.MaxY, c.Box.MaxZ)
	if len(c.Colors) > 0 {
		field("vertexColors")
		writeByteArray(b, c.Colors)
		field("colorComponents")
		b.WriteString(strconv.Itoa(c.ColorComponents))
	}
	b.WriteByte('}')
}

func writeMaterial(b *strings.Builder, m *meshio.Material) {
	b.WriteByte('{')
	b.WriteString(`"id":`)
	b.WriteString(strconv.Itoa(m.ID))
	b.WriteString(`,"name":`)
	writeString(b, m.Name)
	if !m.Ambient.IsUnset() {
		b.WriteString(`,"ambient":[`)
		writeRGB(b, m.Ambient)
		b.WriteByte(']')
	}
	if !m.Diffuse.IsUnset() {
		b.WriteString(`,"diffuse":[`)
		writeRGB(b, m.Diffuse)
		b.WriteByte(']')
	}
	if !m.Specular.IsUnset() {
		b.WriteString(`,"specular":[`)
		writeRGB(b, m.Specular)
		b.WriteByte(']')
	}
	if m.SpecularCoefficient != nil {
		b.WriteString(`,"specularCoefficient":`)
		b.WriteString(formatFloat(*m.SpecularCoefficient))
	}
	if m.Transparency != nil {
		b.WriteString(`,"transparency":`)
		b.WriteString(strconv.Itoa(int(*m.Transparency)))
	}
	if m.Illumination != nil {
		b.WriteString(`,"illum":`)
		b.WriteString(strconv.Itoa(int(*m.Illumination)))
	}
	b.WriteByte('}')
}

func writeRGB(b *strings.Builder, c meshio.RGB) {
	b.WriteString(strconv.Itoa(int(c.R)))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(c.G)))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(c.B)))
}

func writeVec3(b *strings.Builder, x, y, z float32) {
	b.WriteByte('[')
	b.WriteString(formatFloat(x))
	b.WriteByte(',')
	b.WriteString(formatFloat(y))
	b.WriteByte(',')
	b.WriteString(formatFloat(z))
	b.WriteByte(']')
}

func writeFloatArray(b *strings.Builder, vals []float32) {
	b.WriteByte('[')
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatFloat(v))
	}
	b.WriteByte(']')
}

func writeUintArray(b *strings.Builder, vals []uint32) {
	b.WriteByte('[')
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	b.WriteByte(']')
}

func writeByteArray(b *strings.Builder, vals []uint8) {
	b.WriteByte('[')
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	b.WriteByte(']')
}

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '/':
			b.WriteString(`\/`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

// formatFloat replaces non-finite values with the binary32 max so the
// output stays valid JSON (spec.md §4.9), otherwise formats with the
// shortest round-tripping representation for a float32.
func formatFloat(v float32) string {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		v = math.MaxFloat32
	}
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
