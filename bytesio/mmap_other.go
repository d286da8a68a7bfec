// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build !unix && !windows

package bytesio

// openMmap has no mapping implementation on this platform; Open falls
// back to streaming unconditionally when this build is used (see the
// mmapSupported constant in platform_other.go, checked by Open).
func openMmap(path string) (*mmapReader, error) {
	return nil, errMmapUnsupported
}
