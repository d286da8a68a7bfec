// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package mtl

import (
	"strings"
	"testing"

	"github.com/galvanizedlogic/meshio"
)

const sampleMTL = `# comment
newmtl red
Ka 0.1 0.0 0.0
Kd 1.0 0.0 0.0
Ks 0.5 0.5 0.5
Ns 96.0
d 1.0
illum 2

newmtl glass
Kd 0.8 0.8 1.0
Tr 0.7
`

func TestParsePublishesMaterials(t *testing.T) {
	table := meshio.NewMaterialTable()
	if err := Parse(strings.NewReader(sampleMTL), table, false, meshio.MaterialCallbacks{}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(table.All()) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(table.All()))
	}

	red, ok := table.Lookup("red")
	if !ok {
		t.Fatal("table missing \"red\"")
	}
	if red.Diffuse.R != 255 || red.Diffuse.G != 0 {
		t.Errorf("red.Diffuse = %+v, want R=255 G=0", red.Diffuse)
	}
	if red.SpecularCoefficient == nil || *red.SpecularCoefficient != 96.0 {
		t.Errorf("red.SpecularCoefficient = %v, want 96.0", red.SpecularCoefficient)
	}
	if red.Illumination == nil || *red.Illumination != meshio.IllumDiffuseSpecular {
		t.Errorf("red.Illumination = %v, want IllumDiffuseSpecular", red.Illumination)
	}
	if red.Transparency == nil || *red.Transparency != 0 {
		t.Errorf("red.Transparency = %v, want 0 (d 1.0 is opaque)", red.Transparency)
	}

	glass, ok := table.Lookup("glass")
	if !ok {
		t.Fatal("table missing \"glass\"")
	}
	if glass.Transparency == nil || *glass.Transparency != 70 {
		t.Errorf("glass.Transparency = %v, want 70 (Tr 0.7 scaled)", glass.Transparency)
	}
}

func TestParseDirectiveBeforeNewmtlFails(t *testing.T) {
	err := Parse(strings.NewReader("Kd 1 1 1\n"), meshio.NewMaterialTable(), false, meshio.MaterialCallbacks{})
	if err == nil {
		t.Error("Parse() with Kd before newmtl succeeded, want error")
	}
}

func TestParseTextureValidationRejection(t *testing.T) {
	src := "newmtl m\nmap_kd brick.png\n"
	callbacks := meshio.MaterialCallbacks{
		OnValidateTexture: func(tex *meshio.Texture) bool { return false },
	}
	err := Parse(strings.NewReader(src), meshio.NewMaterialTable(), true, callbacks)
	if err == nil {
		t.Error("Parse() with a rejecting validator succeeded, want error")
	}
}

func TestParseTextureValidationAccepted(t *testing.T) {
	src := "newmtl m\nmap_kd brick.png\n"
	callbacks := meshio.MaterialCallbacks{
		OnValidateTexture: func(tex *meshio.Texture) bool { return true },
	}
	table := meshio.NewMaterialTable()
	if err := Parse(strings.NewReader(src), table, true, callbacks); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m, _ := table.Lookup("m")
	if m.DiffuseTexture == nil || m.DiffuseTexture.FileName != "brick.png" {
		t.Errorf("DiffuseTexture = %+v, want FileName brick.png", m.DiffuseTexture)
	}
}
