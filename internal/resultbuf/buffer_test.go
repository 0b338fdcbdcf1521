package resultbuf

import (
	"testing"

	"github.com/jaskij/vampire/internal/dedup"
)

func TestPrependBuildsAscendingOrderFromDescendingBatches(t *testing.T) {
	b := New()
	// Simulate three drains arriving in the order scan.Scan issues them:
	// highest threshold (and so highest values) first.
	b.Prepend([]dedup.Entry{{Value: 50, FangPairs: 1}, {Value: 60, FangPairs: 1}})
	b.Prepend([]dedup.Entry{{Value: 20, FangPairs: 1}, {Value: 30, FangPairs: 1}})
	b.Prepend([]dedup.Entry{{Value: 10, FangPairs: 1}})

	entries := b.Entries()
	want := []uint64{10, 20, 30, 50, 60}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].Value != w {
			t.Fatalf("entry %d: got %d, want %d (full: %v)", i, entries[i].Value, w, entries)
		}
	}
}

func TestPrependEmptyBatchIsNoop(t *testing.T) {
	b := New()
	b.Prepend([]dedup.Entry{{Value: 5, FangPairs: 1}})
	b.Prepend(nil)
	if b.Len() != 1 {
		t.Fatalf("expected len 1, got %d", b.Len())
	}
}
