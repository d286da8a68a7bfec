// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package binfmt

import (
	"os"

	"github.com/galvanizedlogic/meshio"
)

func init() {
	meshio.RegisterFormat("binv2", sniff, open)
}

// sniff recognizes a binfmt v2 stream by its single version byte.
func sniff(path string, head []byte) bool {
	return len(head) >= 1 && head[0] == Version
}

// loader adapts Read's eager (textures, chunks) pair to the pull-based
// meshio.ChunkIterator contract every other format package exposes.
type loader struct {
	meshio.Locker
	table   *meshio.MaterialTable
	chunks  []*meshio.DataChunk
	idx     int
	closer  interface{ Close() error }
}

func open(path string, cfg meshio.Config, callbacks meshio.LoaderCallbacks) (meshio.ChunkIterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, meshio.NewIoError(err, "opening %s", path)
	}
	if callbacks.OnLoadStart != nil {
		callbacks.OnLoadStart()
	}
	_, chunks, err := Read(f, meshio.BinaryLoaderCallbacks{})
	if err != nil {
		f.Close()
		return nil, err
	}

	table := meshio.NewMaterialTable()
	for _, c := range chunks {
		if c.Material != nil {
			table.Add(c.Material)
		}
	}
	if callbacks.OnLoadEnd != nil {
		callbacks.OnLoadEnd()
	}
	l := &loader{table: table, chunks: chunks, closer: f}
	l.Lock()
	return l, nil
}

func (l *loader) Materials() *meshio.MaterialTable { return l.table }
func (l *loader) HasNext() bool                    { return l.idx < len(l.chunks) }

func (l *loader) Next() (*meshio.DataChunk, error) {
	if !l.HasNext() {
		return nil, meshio.NewError(meshio.NotAvailableError, nil, "binfmt: no more chunks")
	}
	c := l.chunks[l.idx]
	l.idx++
	if !l.HasNext() {
		l.Unlock()
	}
	return c, nil
}

func (l *loader) Close() error {
	l.Unlock()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
