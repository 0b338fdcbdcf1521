// Copyright (C) 2024 The vampire authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package workerpool runs a fixed set of goroutines against one tile.Matrix,
// claiming and committing tiles under two separate locks: a claim lock held
// only across the read of the next tile index, and a commit lock held
// across marking a tile complete and draining zero or more now-ready tiles
// in matrix order. The two locks are
// never held at once, so a worker blocked waiting to commit never stalls
// another worker trying to claim the next tile.
package workerpool

import (
	"sync"

	"github.com/jaskij/vampire/internal/tile"
)

// Run spawns threads workers against m. scan is called once per claimed
// tile, outside of any lock, and must leave the tile ready to commit
// (populate its Result and leave Complete for Run to set). onCommit is
// called, in ascending tile order, once per tile as it becomes committable;
// it runs under the commit lock, so it must not block on other workers.
func Run(m *tile.Matrix, threads int, scan func(*tile.Tile), onCommit func(*tile.Tile)) {
	var claimMu, commitMu sync.Mutex
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for {
			claimMu.Lock()
			t, ok := m.Claim()
			claimMu.Unlock()
			if !ok {
				return
			}

			scan(t)

			commitMu.Lock()
			t.Complete = true
			for m.ReadyToCommit() {
				onCommit(m.Commit())
			}
			commitMu.Unlock()
		}
	}

	wg.Add(threads)
	for i := 0; i < threads; i++ {
		go worker()
	}
	wg.Wait()
}
