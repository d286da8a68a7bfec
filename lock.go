// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshio

// Locker implements the advisory, single-threaded lock spec.md §5
// describes: a loader is locked from the first entry into its load call
// until its iterator is exhausted or closed. It is advisory rather than
// preemptive -- nothing stops a caller from ignoring Locked -- but it is
// readable, which is all back-pressure needs.
//
// Each format package's Loader type embeds a Locker rather than
// duplicating this bookkeeping, the same shared-base role the teacher's
// load.Loader interface plays for its concrete asset loaders.
type Locker struct {
	locked bool
}

// Locked reports whether the loader is mid-parse.
func (l *Locker) Locked() bool { return l.locked }

// Lock marks the loader as mid-parse. Callers needing to guard a setter
// use Guard instead.
func (l *Locker) Lock() { l.locked = true }

// Unlock releases the loader, called once its iterator is exhausted or
// closed.
func (l *Locker) Unlock() { l.locked = false }

// Guard returns a LockedError if the loader is currently locked,
// otherwise nil. Setters call this before mutating loader configuration.
func (l *Locker) Guard() error {
	if l.locked {
		return newError(LockedError, nil, "loader is locked")
	}
	return nil
}
