// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package mtl parses Wavefront MTL material files, publishing each
// material into a meshio.MaterialTable and invoking a texture-validation
// callback for every map_* directive (spec.md §4.4).
//    https://en.wikipedia.org/wiki/Wavefront_.obj_file#File_format
//    http://paulbourke.net/dataformats/mtl/
package mtl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/galvanizedlogic/meshio"
)

// Parse reads a Wavefront MTL stream and publishes every newmtl block it
// finds into table, invoking callbacks.OnValidateTexture for each map_*
// directive when validation is enabled. The Reader is expected to be
// opened and closed by the caller.
func Parse(r io.Reader, table *meshio.MaterialTable, validate bool, callbacks meshio.MaterialCallbacks) error {
	scanner := bufio.NewScanner(r)
	var current *meshio.Material

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Fields(line)
		directive := tokens[0]

		switch strings.ToLower(directive) {
		case "newmtl":
			if len(tokens) < 2 {
				return meshio.NewParseError("newmtl missing a name: %q", line)
			}
			current = table.GetOrCreate(tokens[1])
		case "ka", "kd", "ks":
			if current == nil {
				return meshio.NewParseError("%s before newmtl", directive)
			}
			rgb, err := parseRGB(line)
			if err != nil {
				return err
			}
			switch strings.ToLower(directive) {
			case "ka":
				current.Ambient = rgb
			case "kd":
				current.Diffuse = rgb
			case "ks":
				current.Specular = rgb
			}
		case "ns":
			if current == nil {
				return meshio.NewParseError("Ns before newmtl")
			}
			v, err := parseFloatField(tokens)
			if err != nil {
				return meshio.NewParseError("bad Ns value: %q", line)
			}
			current.SpecularCoefficient = &v
		case "ni":
			// Optical density: not modeled in DataChunk/Material; consumed
			// to keep the scanner aligned.
		case "d", "tr":
			if current == nil {
				return meshio.NewParseError("%s before newmtl", directive)
			}
			v, err := parseFloatField(tokens)
			if err != nil {
				return meshio.NewParseError("bad %s value: %q", directive, line)
			}
			transparency := v // Tr: 0 = opaque.
			if strings.ToLower(directive) == "d" {
				transparency = 1 - v // d is dissolve, the inverse of Tr.
			}
			t := uint8(clamp(transparency, 0, 1) * 100)
			current.Transparency = &t
		case "illum":
			if current == nil {
				return meshio.NewParseError("illum before newmtl")
			}
			if len(tokens) < 2 {
				return meshio.NewParseError("illum missing a value: %q", line)
			}
			n, err := strconv.Atoi(tokens[1])
			if err != nil || n < 0 || n > 10 {
				return meshio.NewParseError("bad illum value: %q", line)
			}
			illum := meshio.Illum(n)
			current.Illumination = &illum
		case "map_ka", "map_kd", "map_ks", "map_d", "map_bump", "bump":
			if current == nil {
				return meshio.NewParseError("%s before newmtl", directive)
			}
			if len(tokens) < 2 {
				return meshio.NewParseError("%s missing a filename: %q", directive, line)
			}
			tex := meshio.NewTexture(tokens[len(tokens)-1])
			if validate && callbacks.OnValidateTexture != nil {
				tex.Valid = callbacks.OnValidateTexture(tex)
				if !tex.Valid {
					return meshio.NewError(meshio.InvalidTextureError, nil, "texture rejected: %s", tex.FileName)
				}
			} else {
				tex.Valid = true
			}
			assignTexture(current, strings.ToLower(directive), tex)
		default:
			// Unknown directives (g, vp, Ke, sharpness, ...) are tolerated.
		}
	}
	if err := scanner.Err(); err != nil {
		return meshio.NewIoError(err, "reading mtl stream")
	}
	return nil
}

func assignTexture(m *meshio.Material, directive string, tex *meshio.Texture) {
	switch directive {
	case "map_ka":
		m.AmbientTexture = tex
	case "map_kd":
		m.DiffuseTexture = tex
	case "map_ks":
		m.SpecularTexture = tex
	case "map_d":
		m.AlphaTexture = tex
	case "map_bump", "bump":
		m.BumpTexture = tex
	}
}

func parseRGB(line string) (meshio.RGB, error) {
	var r, g, b float32
	if _, err := fmt.Sscanf(line, "%s %f %f %f", new(string), &r, &g, &b); err != nil {
		return meshio.RGB{}, meshio.NewParseError("could not parse color values: %q", line)
	}
	return meshio.RGB{
		R: int16(clamp(r, 0, 1) * 255),
		G: int16(clamp(g, 0, 1) * 255),
		B: int16(clamp(b, 0, 1) * 255),
	}, nil
}

func parseFloatField(tokens []string) (float32, error) {
	if len(tokens) < 2 {
		return 0, fmt.Errorf("missing value")
	}
	v, err := strconv.ParseFloat(tokens[len(tokens)-1], 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
