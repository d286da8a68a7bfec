// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package ply parses the PLY ("Polygon File Format" / Stanford Triangle
// Format) header grammar and body encodings -- ASCII, and binary in
// either endianness -- and streams the vertex/face elements out as
// meshio.DataChunks (spec.md §4.2). Property dispatch follows the
// tagged-variant design spec.md §9 recommends: each PropertyPLY carries
// its own {name, kind, valueType[, lenType]} rather than a per-property
// read-from-buffer closure.
package ply

import (
	"strconv"
	"strings"

	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

// ValueType is one of PLY's eight scalar data types.
type ValueType int

const (
	Int8 ValueType = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

// width returns the encoded byte width of a binary-mode scalar value
// (spec.md §4.2's width table).
func (v ValueType) width() int {
	switch v {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32:
		return 4
	case Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

// parseValueType resolves a PLY type token, including its classical C
// aliases (spec.md §3).
func parseValueType(token string) (ValueType, error) {
	switch strings.ToLower(token) {
	case "int8", "char":
		return Int8, nil
	case "uint8", "uchar":
		return Uint8, nil
	case "int16", "short":
		return Int16, nil
	case "uint16", "ushort":
		return Uint16, nil
	case "int32", "int":
		return Int32, nil
	case "uint32", "uint":
		return Uint32, nil
	case "float32", "float":
		return Float32, nil
	case "float64", "double":
		return Float64, nil
	}
	return 0, meshio.NewParseError("unknown ply data type %q", token)
}

// PropertyKind distinguishes a fixed-width scalar property from a
// variable-length list property.
type PropertyKind int

const (
	Scalar PropertyKind = iota
	List
)

// PropertyPLY is one field of an ElementPLY's record layout.
type PropertyPLY struct {
	Name      string
	Kind      PropertyKind
	ValueType ValueType
	LenType   ValueType // meaningful only when Kind == List.
}

// ElementPLY is a named, counted record type declared in the header; the
// order of Properties fixes the record's on-disk layout.
type ElementPLY struct {
	Name       string
	Count      uint64
	Properties []PropertyPLY
}

// StorageMode selects how element bodies are encoded.
type StorageMode int

const (
	ASCII StorageMode = iota
	BinaryLittleEndian
	BinaryBigEndian
)

func (m StorageMode) endian() bytesio.Endian {
	if m == BinaryBigEndian {
		return bytesio.BigEndian
	}
	return bytesio.LittleEndian
}

// HeaderPLY is the fully parsed header: storage mode, ordered elements,
// and the comment/obj_info lines the format allows anywhere after
// `format`.
type HeaderPLY struct {
	Mode     StorageMode
	Elements []ElementPLY
	Comments []string
	ObjInfo  []string
}

// parseHeader reads the line-oriented PLY header grammar (spec.md §4.2)
// from r. On return, r's position is the first byte of element data.
func parseHeader(r *bytesio.Reader, charset string) (*HeaderPLY, error) {
	first, err := r.ReadLine(charset)
	if err != nil {
		return nil, meshio.NewIoError(err, "reading ply magic line")
	}
	if strings.TrimSpace(first) != "ply" {
		return nil, meshio.NewParseError("not a ply file: first line is %q", first)
	}

	hdr := &HeaderPLY{}
	haveFormat := false
	var current *ElementPLY

	for {
		line, err := r.ReadLine(charset)
		if err != nil {
			return nil, meshio.NewIoError(err, "reading ply header")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)

		switch tokens[0] {
		case "format":
			if len(tokens) < 2 {
				return nil, meshio.NewParseError("malformed format line: %q", line)
			}
			mode, err := parseStorageMode(tokens[1])
			if err != nil {
				return nil, err
			}
			hdr.Mode = mode
			haveFormat = true
		case "comment":
			hdr.Comments = append(hdr.Comments, strings.TrimPrefix(line, "comment "))
		case "obj_info":
			hdr.ObjInfo = append(hdr.ObjInfo, strings.TrimPrefix(line, "obj_info "))
		case "element":
			if !haveFormat {
				return nil, meshio.NewParseError("element before format: %q", line)
			}
			if len(tokens) < 3 {
				return nil, meshio.NewParseError("malformed element line: %q", line)
			}
			count, err := strconv.ParseUint(tokens[2], 10, 64)
			if err != nil {
				return nil, meshio.NewParseError("bad element count: %q", line)
			}
			hdr.Elements = append(hdr.Elements, ElementPLY{Name: tokens[1], Count: count})
			current = &hdr.Elements[len(hdr.Elements)-1]
		case "property":
			if current == nil {
				return nil, meshio.NewParseError("property before any element: %q", line)
			}
			prop, err := parseProperty(tokens)
			if err != nil {
				return nil, err
			}
			current.Properties = append(current.Properties, prop)
		case "end_header":
			if !haveFormat {
				return nil, meshio.NewParseError("end_header without format")
			}
			return hdr, nil
		default:
			// Unknown header directive: tolerated (spec.md §4.2).
		}
	}
}

func parseStorageMode(token string) (StorageMode, error) {
	switch token {
	case "ascii":
		return ASCII, nil
	case "binary_little_endian":
		return BinaryLittleEndian, nil
	case "binary_big_endian":
		return BinaryBigEndian, nil
	}
	return 0, meshio.NewParseError("unknown ply format %q", token)
}

func parseProperty(tokens []string) (PropertyPLY, error) {
	if len(tokens) >= 2 && tokens[1] == "list" {
		if len(tokens) < 5 {
			return PropertyPLY{}, meshio.NewParseError("malformed list property: %q", strings.Join(tokens, " "))
		}
		lenType, err := parseValueType(tokens[2])
		if err != nil {
			return PropertyPLY{}, err
		}
		valType, err := parseValueType(tokens[3])
		if err != nil {
			return PropertyPLY{}, err
		}
		return PropertyPLY{Name: tokens[4], Kind: List, ValueType: valType, LenType: lenType}, nil
	}
	if len(tokens) < 3 {
		return PropertyPLY{}, meshio.NewParseError("malformed scalar property: %q", strings.Join(tokens, " "))
	}
	valType, err := parseValueType(tokens[1])
	if err != nil {
		return PropertyPLY{}, err
	}
	return PropertyPLY{Name: tokens[2], Kind: Scalar, ValueType: valType}, nil
}
