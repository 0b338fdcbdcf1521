package dedup

import (
	"math/rand"
	"testing"

	"github.com/jaskij/vampire/internal/numeric"
)

func TestInsertDedupsAndCounts(t *testing.T) {
	tr := New(0)
	tr.Insert(10)
	tr.Insert(10)
	tr.Insert(20)

	entries := tr.Drain(0, 1, nil)
	want := map[numeric.Vamp]uint32{10: 2, 20: 1}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if want[e.Value] != e.FangPairs {
			t.Errorf("value %d: got %d fang pairs, want %d", e.Value, e.FangPairs, want[e.Value])
		}
	}
}

func TestDrainThresholdZeroEmptiesTree(t *testing.T) {
	tr := New(0)
	for _, v := range []numeric.Vamp{5, 3, 9, 1, 7} {
		tr.Insert(v)
	}
	entries := tr.Drain(0, 1, nil)
	if len(entries) != 5 {
		t.Fatalf("expected full drain of 5 entries, got %d", len(entries))
	}
	if tr.Len() != 0 {
		t.Fatalf("tree should be empty after unconditional drain, len=%d", tr.Len())
	}
}

func TestDrainAscendingOrder(t *testing.T) {
	tr := New(0)
	values := []numeric.Vamp{50, 30, 70, 20, 40, 60, 80, 10, 90, 5, 100}
	for _, v := range values {
		tr.Insert(v)
	}
	entries := tr.Drain(0, 1, nil)
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Value >= entries[i].Value {
			t.Fatalf("drain not strictly ascending at index %d: %v", i, entries)
		}
	}
	if len(entries) != len(values) {
		t.Fatalf("expected %d entries, got %d", len(values), len(entries))
	}
}

func TestDrainPartialKeepsBelowThreshold(t *testing.T) {
	tr := New(0)
	for _, v := range []numeric.Vamp{10, 20, 30, 40, 50} {
		tr.Insert(v)
	}
	entries := tr.Drain(30, 1, nil)
	// 30,40,50 >= threshold: drained; 10,20 remain.
	if len(entries) != 3 {
		t.Fatalf("expected 3 drained entries, got %d: %v", len(entries), entries)
	}
	if entries[0].Value != 30 || entries[1].Value != 40 || entries[2].Value != 50 {
		t.Fatalf("unexpected drained order: %v", entries)
	}
	if tr.Len() != 2 {
		t.Fatalf("expected 2 remaining entries, got %d", tr.Len())
	}
	rest := tr.Drain(0, 1, nil)
	if len(rest) != 2 || rest[0].Value != 10 || rest[1].Value != 20 {
		t.Fatalf("unexpected remaining drain: %v", rest)
	}
}

func TestDrainMinPairsFilters(t *testing.T) {
	tr := New(0)
	tr.Insert(10)
	tr.Insert(20)
	tr.Insert(20)
	tr.Insert(20)
	entries := tr.Drain(0, 2, nil)
	if len(entries) != 1 || entries[0].Value != 20 {
		t.Fatalf("expected only value 20 (3 pairs >= min 2), got %v", entries)
	}
}

func TestRandomizedAgainstReferenceMap(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := New(0)
	ref := map[numeric.Vamp]uint32{}
	for i := 0; i < 2000; i++ {
		v := numeric.Vamp(rng.Intn(500))
		tr.Insert(v)
		ref[v]++
	}
	entries := tr.Drain(0, 1, nil)
	if len(entries) != len(ref) {
		t.Fatalf("got %d distinct entries, want %d", len(entries), len(ref))
	}
	for i, e := range entries {
		if i > 0 && entries[i-1].Value >= e.Value {
			t.Fatalf("not strictly ascending at %d", i)
		}
		if ref[e.Value] != e.FangPairs {
			t.Fatalf("value %d: got count %d, want %d", e.Value, e.FangPairs, ref[e.Value])
		}
	}
}
