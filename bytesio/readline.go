// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bytesio

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

const lineFeed = 0x0A

// ReadLine reads bytes up to and including the next LF (0x0A), and
// returns the bytes before the LF decoded as text using the named
// charset (an IANA name such as "utf-8" or "windows-1252"; empty
// defaults to UTF-8). Used by the PLY, OBJ and MTL line-oriented
// grammars (spec.md §4.1).
//
// Hitting EOF before any LF, after at least one byte, returns the bytes
// read so far with no error, so a file lacking a trailing newline on its
// last line still parses; hitting EOF with zero bytes read returns the
// short-read failure as a *ReadError.
func (r *Reader) ReadLine(charset string) (string, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return "", err
	}

	var line []byte
	for {
		b, err := r.ReadU8()
		if err != nil {
			if len(line) == 0 {
				return "", err
			}
			break
		}
		if b == lineFeed {
			break
		}
		line = append(line, b)
	}

	if enc == nil {
		return string(line), nil
	}
	decoded, err := enc.NewDecoder().Bytes(line)
	if err != nil {
		return "", ioErr(fmt.Errorf("decoding line as %s: %w", charset, err))
	}
	return string(decoded), nil
}

func lookupCharset(name string) (encoding.Encoding, error) {
	if name == "" || name == "utf-8" || name == "UTF-8" {
		return nil, nil // identity: raw bytes already are UTF-8/ASCII.
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, ioErr(fmt.Errorf("unknown charset %q: %w", name, err))
	}
	return enc, nil
}
