// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package ply

import (
	"strconv"
	"strings"

	"github.com/galvanizedlogic/meshio"
	"github.com/galvanizedlogic/meshio/bytesio"
)

// recordReader reads one record's worth of scalar/list values, hiding
// whether the source is a whitespace-tokenized ASCII line or a run of
// fixed-width binary fields (spec.md §4.2's two body encodings).
type recordReader interface {
	scalar(vt ValueType) (float64, error)
	listLen(lenType ValueType) (uint64, error)
}

// asciiRecord reads from the whitespace-split tokens of one ASCII body
// line. Excess tokens are tolerated (ignored); running out fails.
type asciiRecord struct {
	tokens []string
	pos    int
}

func (a *asciiRecord) next() (string, error) {
	if a.pos >= len(a.tokens) {
		return "", meshio.NewParseError("ply: ran out of tokens in ascii record")
	}
	tok := a.tokens[a.pos]
	a.pos++
	return tok, nil
}

func (a *asciiRecord) scalar(vt ValueType) (float64, error) {
	tok, err := a.next()
	if err != nil {
		return 0, err
	}
	return parseASCIIValue(tok, vt)
}

func (a *asciiRecord) listLen(lenType ValueType) (uint64, error) {
	tok, err := a.next()
	if err != nil {
		return 0, err
	}
	v, err := parseASCIIValue(tok, lenType)
	if err != nil {
		return 0, err
	}
	return uint64(v), nil
}

func parseASCIIValue(tok string, vt ValueType) (float64, error) {
	switch vt {
	case Float32, Float64:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, meshio.NewParseError("ply: bad float token %q", tok)
		}
		return v, nil
	default:
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			// Some producers write integer list/scalar fields with a
			// trailing ".0"; tolerate by falling back to float parsing.
			f, ferr := strconv.ParseFloat(tok, 64)
			if ferr != nil {
				return 0, meshio.NewParseError("ply: bad integer token %q", tok)
			}
			return f, nil
		}
		return float64(v), nil
	}
}

// binaryRecord reads fixed-width fields directly off the shared
// bytesio.Reader in the header-declared endianness.
type binaryRecord struct {
	r      *bytesio.Reader
	endian bytesio.Endian
}

func (b *binaryRecord) scalar(vt ValueType) (float64, error) {
	switch vt {
	case Int8:
		v, err := b.r.ReadI8()
		return float64(v), wrap(err)
	case Uint8:
		v, err := b.r.ReadU8()
		return float64(v), wrap(err)
	case Int16:
		v, err := b.r.ReadI16(b.endian)
		return float64(v), wrap(err)
	case Uint16:
		v, err := b.r.ReadU16(b.endian)
		return float64(v), wrap(err)
	case Int32:
		v, err := b.r.ReadI32(b.endian)
		return float64(v), wrap(err)
	case Uint32:
		v, err := b.r.ReadU32(b.endian)
		return float64(v), wrap(err)
	case Float32:
		v, err := b.r.ReadF32(b.endian)
		return float64(v), wrap(err)
	case Float64:
		v, err := b.r.ReadF64(b.endian)
		return v, wrap(err)
	}
	return 0, meshio.NewParseError("ply: unhandled value type %v", vt)
}

func (b *binaryRecord) listLen(lenType ValueType) (uint64, error) {
	v, err := b.scalar(lenType)
	return uint64(v), err
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return meshio.NewIoError(err, "ply: binary record read")
}

// readProperty consumes one property's value(s) from rr according to
// prop's kind. Scalars return a single-element slice; lists return their
// full decoded value list.
func readProperty(rr recordReader, prop PropertyPLY) ([]float64, error) {
	if prop.Kind == Scalar {
		v, err := rr.scalar(prop.ValueType)
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	}
	n, err := rr.listLen(prop.LenType)
	if err != nil {
		return nil, err
	}
	values := make([]float64, n)
	for i := range values {
		v, err := rr.scalar(prop.ValueType)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// canonicalName lower-cases a PLY property name for matching: spec.md
// §9(a) resolves the source's case-sensitive convention to
// case-insensitive, documented as a deliberate deviation.
func canonicalName(name string) string { return strings.ToLower(name) }
