// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable knobs spec.md §6 names. All fields have
// documented zero-value defaults so a Config file is optional, the same
// convention the teacher uses for its YAML-described shader attributes
// (load/shd.go): an external file overrides an otherwise-working set of
// defaults rather than being required for the library to function.
type Config struct {
	// MmapThresholdBytes is the file-size threshold below which Open
	// memory-maps the file rather than streaming it. Zero defaults to
	// 50 MiB (spec.md §4.1).
	MmapThresholdBytes int64 `yaml:"mmapThresholdBytes"`

	// ReadLineCharset names the golang.org/x/text encoding used by
	// bytesio.Reader.ReadLine. Empty defaults to UTF-8 (no transform).
	ReadLineCharset string `yaml:"readLineCharset"`

	// TextureValidationEnabled is handed by objfmt's registry open to
	// mtl.Parse as its validate flag. The 3DS loader and the binfmt and
	// jsonfmt writers do not read it.
	TextureValidationEnabled bool `yaml:"textureValidationEnabled"`

	// JSON writer options (spec.md §6).
	JSONCharset                 string `yaml:"jsonCharset"`
	JSONEmbedTextures           bool   `yaml:"jsonEmbedTextures"`
	JSONRemoteTextureURLEnabled bool   `yaml:"jsonRemoteTextureUrlEnabled"`
	JSONRemoteTextureIDEnabled  bool   `yaml:"jsonRemoteTextureIdEnabled"`
}

const defaultMmapThreshold = 50 << 20 // 50 MiB

// DefaultConfig returns the documented zero-value defaults (spec.md §6):
// 50 MiB mmap threshold, UTF-8 charset, texture validation off, JSON
// writer with embedTextures=true and both remote-texture options off.
func DefaultConfig() Config {
	return Config{
		MmapThresholdBytes:       defaultMmapThreshold,
		ReadLineCharset:          "utf-8",
		TextureValidationEnabled: false,
		JSONCharset:              "utf-8",
		JSONEmbedTextures:        true,
	}
}

// normalize fills zero-valued fields with the documented defaults,
// leaving everything else caller-supplied untouched.
func (c Config) normalize() Config {
	if c.MmapThresholdBytes == 0 {
		c.MmapThresholdBytes = defaultMmapThreshold
	}
	if c.ReadLineCharset == "" {
		c.ReadLineCharset = "utf-8"
	}
	if c.JSONCharset == "" {
		c.JSONCharset = "utf-8"
	}
	return c
}

// LoadConfig reads a YAML configuration file, the same way the teacher's
// load/shd.go reads a shader description with yaml.Unmarshal. Missing
// fields keep DefaultConfig's values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, newIoError(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, newError(ParseError, err, "parsing config %s", path)
	}
	return cfg.normalize(), nil
}

// String implements fmt.Stringer for debug logging of an active Config.
func (c Config) String() string {
	return fmt.Sprintf("Config{mmapThreshold=%d charset=%s textureValidation=%v json={embed=%v url=%v id=%v}}",
		c.MmapThresholdBytes, c.ReadLineCharset, c.TextureValidationEnabled,
		c.JSONEmbedTextures, c.JSONRemoteTextureURLEnabled, c.JSONRemoteTextureIDEnabled)
}
