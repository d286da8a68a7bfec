// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build !unix && !windows

package bytesio

import "errors"

const mmapSupported = false

var errMmapUnsupported = errors.New("bytesio: memory mapping not supported on this platform")
