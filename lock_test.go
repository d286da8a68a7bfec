// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshio

import (
	"errors"
	"testing"
)

func TestLockerGuard(t *testing.T) {
	var l Locker
	if l.Locked() {
		t.Fatal("new Locker reports Locked() = true")
	}
	if err := l.Guard(); err != nil {
		t.Errorf("Guard() on unlocked Locker = %v, want nil", err)
	}
	l.Lock()
	if !l.Locked() {
		t.Error("Locked() = false after Lock()")
	}
	if err := l.Guard(); !errors.Is(err, LockedError) {
		t.Errorf("Guard() on locked Locker = %v, want LockedError", err)
	}
	l.Unlock()
	if l.Locked() {
		t.Error("Locked() = true after Unlock()")
	}
}
