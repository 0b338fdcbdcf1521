package workerpool

import (
	"sync"
	"testing"

	"github.com/jaskij/vampire/internal/numeric"
	"github.com/jaskij/vampire/internal/tile"
)

func TestRunCommitsInMatrixOrder(t *testing.T) {
	m := tile.NewMatrix(1000, 9999, 1, numeric.VampMax)
	if m.Size() < 4 {
		t.Fatal("test expects several tiles")
	}

	var mu sync.Mutex
	var committedOrder []numeric.Vamp

	Run(m, 4, func(tl *tile.Tile) {
		// no work to simulate, just mark ready
	}, func(tl *tile.Tile) {
		mu.Lock()
		committedOrder = append(committedOrder, tl.Lmin)
		mu.Unlock()
	})

	if len(committedOrder) != m.Size() {
		t.Fatalf("expected %d commits, got %d", m.Size(), len(committedOrder))
	}
	for i := 1; i < len(committedOrder); i++ {
		if committedOrder[i] <= committedOrder[i-1] {
			t.Fatalf("commits out of order at %d: %v", i, committedOrder)
		}
	}
}
