// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package threeds

// Chunk id constants for the 3D Studio (3DS) file format (spec.md §4.5).
// The full id table is the kind of external lookup table spec.md §1 calls
// out of scope; this is the small subset the parser actually recognises,
// the rest are walked and skipped by length.
const (
	m3dMagic        = 0x4D4D // root chunk.
	mdata           = 0x3D3D // mesh data section.
	matEntry        = 0xAFFF // one material definition.
	matName         = 0xA000
	matAmbient      = 0xA010
	matDiffuse      = 0xA020
	matSpecular     = 0xA030
	matShininess    = 0xA040
	matTransparency = 0xA050

	namedObject  = 0x4000
	nTriObject   = 0x4100
	pointArray   = 0x4110
	faceArray    = 0x4120
	meshMatGroup = 0x4130
	texVerts     = 0x4140
	meshMatrix   = 0x4160

	color24         = 0x0011
	colorF          = 0x0010
	intPercentage   = 0x0030
	floatPercentage = 0x0031
)
