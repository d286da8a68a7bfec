// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshio

import "testing"

func TestMaterialTableGetOrCreateAssignsSequentialIDs(t *testing.T) {
	table := NewMaterialTable()
	a := table.GetOrCreate("red")
	b := table.GetOrCreate("blue")
	again := table.GetOrCreate("red")
	if a.ID != 0 || b.ID != 1 {
		t.Errorf("IDs = %d, %d, want 0, 1", a.ID, b.ID)
	}
	if again != a {
		t.Error("GetOrCreate on an existing name returned a different material")
	}
	if len(table.All()) != 2 {
		t.Errorf("len(All()) = %d, want 2", len(table.All()))
	}
}

func TestMaterialTableLookup(t *testing.T) {
	table := NewMaterialTable()
	table.GetOrCreate("plastic")
	if _, ok := table.Lookup("plastic"); !ok {
		t.Error("Lookup(\"plastic\") = false, want true")
	}
	if _, ok := table.Lookup("missing"); ok {
		t.Error("Lookup(\"missing\") = true, want false")
	}
}

func TestNewMaterialColorsUnset(t *testing.T) {
	m := newMaterial(0, "default")
	if !m.Ambient.IsUnset() || !m.Diffuse.IsUnset() || !m.Specular.IsUnset() {
		t.Error("newMaterial did not leave all colors unset")
	}
}
