// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.MmapThresholdBytes != defaultMmapThreshold {
		t.Errorf("MmapThresholdBytes = %d, want %d", c.MmapThresholdBytes, defaultMmapThreshold)
	}
	if !c.JSONEmbedTextures {
		t.Error("JSONEmbedTextures = false, want true by default")
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "mmapThresholdBytes: 1024\njsonEmbedTextures: false\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MmapThresholdBytes != 1024 {
		t.Errorf("MmapThresholdBytes = %d, want 1024", cfg.MmapThresholdBytes)
	}
	if cfg.JSONEmbedTextures {
		t.Error("JSONEmbedTextures = true, want false (overridden)")
	}
	if cfg.ReadLineCharset != "utf-8" {
		t.Errorf("ReadLineCharset = %q, want default utf-8 for an unset field", cfg.ReadLineCharset)
	}
}

func TestLoadConfigMissingFileFails(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() on a missing file succeeded, want error")
	}
}
