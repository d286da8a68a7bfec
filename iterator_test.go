// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package meshio

import "testing"

func TestProgressTrackerThrottlesToOnePercent(t *testing.T) {
	var reports []float64
	tr := NewProgressTracker(1000, func(f float64) { reports = append(reports, f) })
	for i := 0; i < 1000; i++ {
		tr.Advance(1)
	}
	if len(reports) == 0 {
		t.Fatal("no reports fired")
	}
	if len(reports) > 101 {
		t.Errorf("%d reports fired, want at most ~100 (1%% threshold)", len(reports))
	}
	if last := reports[len(reports)-1]; last != 1.0 {
		t.Errorf("final report = %v, want 1.0", last)
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] <= reports[i-1] {
			t.Fatalf("reports not strictly increasing at %d: %v <= %v", i, reports[i], reports[i-1])
		}
	}
}

func TestProgressTrackerNilCallback(t *testing.T) {
	tr := NewProgressTracker(10, nil)
	tr.Advance(10) // must not panic.
}

func TestProgressFraction(t *testing.T) {
	p := Progress{Done: 25, Total: 100}
	if p.Fraction() != 0.25 {
		t.Errorf("Fraction() = %v, want 0.25", p.Fraction())
	}
	if (Progress{}).Fraction() != 0 {
		t.Error("Fraction() with zero total should be 0")
	}
}
