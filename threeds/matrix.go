// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package threeds

// affine3 is the 12-float MESH_MATRIX payload: a row-major 3x3
// rotation/scale block followed by a translation row, 3DS's convention
// for placing an object's local points into its parent's space.
type affine3 [12]float32

// apply transforms point (x,y,z) by m, matching 3DS's
// output = point * rotScale + translate row convention.
func (m affine3) apply(x, y, z float32) (float32, float32, float32) {
	rx := x*m[0] + y*m[3] + z*m[6] + m[9]
	ry := x*m[1] + y*m[4] + z*m[7] + m[10]
	rz := x*m[2] + y*m[5] + z*m[8] + m[11]
	return rx, ry, rz
}
