// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package threeds

import (
	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

// parseMaterial walks one MAT_ENTRY block, collecting its name and color
// sub-chunks, and publishes the result into the material table once the
// whole block has been read (the name may arrive before or after the
// colors, so publication is deferred to the end).
func (l *Loader) parseMaterial(end int64) error {
	var name string
	var ambient, diffuse, specular *meshio.RGB
	var shininess, transparency *float32

	err := l.walk(end, func(id uint16, start, chunkEnd int64) error {
		switch id {
		case matName:
			s, err := l.readCString()
			if err != nil {
				return err
			}
			name = s
		case matAmbient:
			c, err := l.readColorChunk(chunkEnd)
			if err != nil {
				return err
			}
			ambient = c
		case matDiffuse:
			c, err := l.readColorChunk(chunkEnd)
			if err != nil {
				return err
			}
			diffuse = c
		case matSpecular:
			c, err := l.readColorChunk(chunkEnd)
			if err != nil {
				return err
			}
			specular = c
		case matShininess:
			v, err := l.readPercentageChunk(chunkEnd)
			if err != nil {
				return err
			}
			shininess = &v
		case matTransparency:
			v, err := l.readPercentageChunk(chunkEnd)
			if err != nil {
				return err
			}
			transparency = &v
		}
		return nil
	})
	if err != nil {
		return err
	}

	m := l.table.GetOrCreate(name)
	if ambient != nil {
		m.Ambient = *ambient
	}
	if diffuse != nil {
		m.Diffuse = *diffuse
	}
	if specular != nil {
		m.Specular = *specular
	}
	if shininess != nil {
		m.SpecularCoefficient = shininess
	}
	if transparency != nil {
		t := uint8(*transparency)
		m.Transparency = &t
	}
	return nil
}

// readColorChunk reads the single COLOR_24 or COLOR_F sub-chunk expected
// inside a MAT_AMBIENT/MAT_DIFFUSE/MAT_SPECULAR wrapper.
func (l *Loader) readColorChunk(end int64) (*meshio.RGB, error) {
	var rgb *meshio.RGB
	err := l.walk(end, func(id uint16, start, chunkEnd int64) error {
		switch id {
		case color24:
			r, err := l.r.ReadU8()
			if err != nil {
				return meshio.NewIoError(err, "reading COLOR_24")
			}
			g, err := l.r.ReadU8()
			if err != nil {
				return meshio.NewIoError(err, "reading COLOR_24")
			}
			b, err := l.r.ReadU8()
			if err != nil {
				return meshio.NewIoError(err, "reading COLOR_24")
			}
			c := meshio.RGB{R: int16(r), G: int16(g), B: int16(b)}
			rgb = &c
		case colorF:
			r, err := l.r.ReadF32(bytesio.LittleEndian)
			if err != nil {
				return meshio.NewIoError(err, "reading COLOR_F")
			}
			g, err := l.r.ReadF32(bytesio.LittleEndian)
			if err != nil {
				return meshio.NewIoError(err, "reading COLOR_F")
			}
			b, err := l.r.ReadF32(bytesio.LittleEndian)
			if err != nil {
				return meshio.NewIoError(err, "reading COLOR_F")
			}
			c := meshio.RGB{R: int16(clamp01(r) * 255), G: int16(clamp01(g) * 255), B: int16(clamp01(b) * 255)}
			rgb = &c
		}
		return nil
	})
	return rgb, err
}

// readPercentageChunk reads the single INT_PERCENTAGE or FLOAT_PERCENTAGE
// sub-chunk inside a MAT_SHININESS/MAT_TRANSPARENCY wrapper, normalized
// to 0..100.
func (l *Loader) readPercentageChunk(end int64) (float32, error) {
	var pct float32
	err := l.walk(end, func(id uint16, start, chunkEnd int64) error {
		switch id {
		case intPercentage:
			v, err := l.r.ReadI16(bytesio.LittleEndian)
			if err != nil {
				return meshio.NewIoError(err, "reading INT_PERCENTAGE")
			}
			pct = float32(v)
		case floatPercentage:
			v, err := l.r.ReadF32(bytesio.LittleEndian)
			if err != nil {
				return meshio.NewIoError(err, "reading FLOAT_PERCENTAGE")
			}
			pct = v * 100
		}
		return nil
	})
	return pct, err
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
