package sink

import (
	"strings"
	"testing"

	"github.com/jaskij/vampire/internal/search"
	"github.com/jaskij/vampire/internal/signature"
)

var _ search.Sink = (*CountPairs)(nil)
var _ search.Sink = (*DumpPairs)(nil)
var _ search.Sink = (*CountVampires)(nil)
var _ search.Sink = (*EnumerateVampires)(nil)

func TestEnumerateVampiresFindsFourDigitVampires(t *testing.T) {
	cache := signature.Build(9999)
	s := NewEnumerateVampires(1)
	search.Scan(1000, 9999, 99, cache, s)

	entries := s.Buf.Entries()
	if len(entries) != 7 {
		t.Fatalf("expected 7 distinct 4-digit vampire numbers, got %d: %v", len(entries), entries)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Value >= entries[i].Value {
			t.Fatalf("entries not ascending at %d: %v", i, entries)
		}
	}
}

func TestCountVampiresMatchesEnumerateVampires(t *testing.T) {
	cache := signature.Build(9999)

	enum := NewEnumerateVampires(1)
	search.Scan(1000, 9999, 99, cache, enum)

	count := NewCountVampires(1)
	search.Scan(1000, 9999, 99, cache, count)

	if count.Count != uint64(enum.Buf.Len()) {
		t.Fatalf("count-vampires (%d) disagrees with enumerate-vampires (%d)", count.Count, enum.Buf.Len())
	}
}

func TestCountPairsCountsEveryFangPair(t *testing.T) {
	cache := signature.Build(9999)
	cp := &CountPairs{}
	search.Scan(1000, 9999, 99, cache, cp)
	if cp.Count == 0 {
		t.Fatal("expected at least one fang pair in [1000, 9999]")
	}
}

func TestDumpPairsWritesOneLinePerPair(t *testing.T) {
	cache := signature.Build(9999)
	var sb strings.Builder
	d := &DumpPairs{W: &sb}
	search.Scan(1000, 9999, 99, cache, d)
	if d.Err != nil {
		t.Fatalf("unexpected write error: %v", d.Err)
	}
	if sb.Len() == 0 {
		t.Fatal("expected dump-pairs to write something")
	}
	if !strings.Contains(sb.String(), "1260 = ") {
		t.Fatalf("expected 1260's fang pair in dump, got:\n%s", sb.String())
	}
}
