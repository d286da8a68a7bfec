// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshio

import (
	"os"
	"path/filepath"
	"testing"
)

type stubIterator struct{}

func (stubIterator) HasNext() bool             { return false }
func (stubIterator) Next() (*DataChunk, error) { return nil, nil }
func (stubIterator) Materials() *MaterialTable { return NewMaterialTable() }
func (stubIterator) Close() error              { return nil }

func TestOpenDispatchesToFirstMatchingFormat(t *testing.T) {
	RegisterFormat("stub-registry-test", func(path string, head []byte) bool {
		return len(head) > 0 && head[0] == 'Z'
	}, func(path string, cfg Config, callbacks LoaderCallbacks) (ChunkIterator, error) {
		return stubIterator{}, nil
	})

	path := filepath.Join(t.TempDir(), "sample.stub")
	if err := os.WriteFile(path, []byte("Zabc"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	it, err := Open(path, Config{}, LoaderCallbacks{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := it.(stubIterator); !ok {
		t.Errorf("Open() returned %T, want stubIterator", it)
	}
}

func TestOpenUnrecognizedFormatFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unknown.bin")
	if err := os.WriteFile(path, []byte("not a registered magic"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Open(path, Config{}, LoaderCallbacks{}); err == nil {
		t.Error("Open() on an unrecognized file succeeded, want error")
	}
}
