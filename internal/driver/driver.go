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

// Package driver wires config, checkpoint, signature.Cache, tile.Matrix,
// workerpool, search.Scan and sink together: one band at a time, in
// increasing length order, each band fully committed (and checkpointed)
// before the next band's matrix is built.
package driver

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jaskij/vampire/internal/checkpoint"
	"github.com/jaskij/vampire/internal/checksum"
	"github.com/jaskij/vampire/internal/config"
	"github.com/jaskij/vampire/internal/numeric"
	"github.com/jaskij/vampire/internal/search"
	"github.com/jaskij/vampire/internal/signature"
	"github.com/jaskij/vampire/internal/sink"
	"github.com/jaskij/vampire/internal/tile"
	"github.com/jaskij/vampire/internal/workerpool"
)

// Driver runs a configured scan over [min, max] to completion. There is no
// cancellation: Run returns only once the whole range is scanned or an
// error occurs.
type Driver struct {
	Cfg    config.Config
	Out    io.Writer
	Logger *log.Logger
}

// Result summarizes one run for the final report.
type Result struct {
	VampirePairs   uint64 // count-pairs / dump-pairs: every reported pair
	DistinctVamps  uint64 // count-vampires / enumerate-vampires
	ChecksumDigest string
	Elapsed        time.Duration
}

// Run executes the configured scan, band by band, from either cfg.Min or a
// resumed checkpoint's ResumeAt, through cfg.Max.
func (d *Driver) Run() (Result, error) {
	start := time.Now()

	min := numeric.NormalizeMin(d.Cfg.Min, d.Cfg.Max)
	max := numeric.NormalizeMax(min, d.Cfg.Max)

	var result Result
	var hasher checksum.Hasher
	switch d.Cfg.Checksum {
	case "fast":
		hasher = checksum.NewFast()
	case "strong":
		hasher = checksum.NewStrong()
	}

	scanFrom := min
	var runID uuid.UUID
	if d.Cfg.Checkpoint != "" && d.Cfg.Resume {
		st, err := checkpoint.Load(d.Cfg.Checkpoint)
		if err != nil {
			return Result{}, fmt.Errorf("resume: %w", err)
		}
		if !st.Matches(min, max) {
			return Result{}, fmt.Errorf("checkpoint at %s is for a different range [%d, %d], not [%d, %d]", d.Cfg.Checkpoint, st.Min, st.Max, min, max)
		}
		scanFrom = st.ResumeAt
		runID = st.RunID
		result.DistinctVamps = st.Count
		result.VampirePairs = st.Count
		d.logf("resuming from %d (already have %d)", scanFrom, st.Count)
	} else if d.Cfg.Checkpoint != "" {
		id, err := checkpoint.Touch(d.Cfg.Checkpoint, min, max)
		if err != nil {
			return Result{}, fmt.Errorf("checkpoint: %w", err)
		}
		runID = id
	}

	cache := signature.Build(max)

	lmin := scanFrom
	if lmin <= max {
		lmin = numeric.NormalizeMin(lmin, max)
	}
	for lmin <= max {
		lmax := numeric.BandMax(lmin, max)
		if err := d.runBand(lmin, lmax, cache, hasher, &result); err != nil {
			return Result{}, err
		}
		if d.Cfg.Checkpoint != "" && lmax < numeric.VampMax {
			st := checkpoint.State{RunID: runID, Min: min, Max: max, ResumeAt: lmax + 1, Count: d.runningCount(&result)}
			if err := checkpoint.Save(d.Cfg.Checkpoint, st); err != nil {
				return Result{}, fmt.Errorf("checkpoint: %w", err)
			}
		}
		if lmax == max {
			break
		}
		// The next value up often starts an odd-length band (100 after 99),
		// which can hold no vampire numbers and is skipped entirely.
		lmin = numeric.NormalizeMin(lmax+1, max)
	}

	if hasher != nil {
		result.ChecksumDigest = hasher.Sum()
	}
	result.Elapsed = time.Since(start)
	return result, nil
}

func (d *Driver) runBand(lmin, lmax numeric.Vamp, cache *signature.Cache, hasher checksum.Hasher, result *Result) error {
	matrix := tile.NewMatrix(lmin, lmax, d.Cfg.Threads, maxTileSize(lmax-lmin))

	scanOne := func(t *tile.Tile) {
		d.scanTile(t, matrix.Fmax, cache)
	}

	onCommit := func(t *tile.Tile) {
		lo, hi := t.Lmin, t.Lmax
		d.commitTile(t, hasher, result)
		if d.Cfg.Progress {
			d.logf("%d,%d %d/%d", lo, hi, matrix.Cleanup, matrix.Size())
		}
	}

	workerpool.Run(matrix, d.Cfg.Threads, scanOne, onCommit)

	if d.Cfg.Progress {
		d.logf("band [%d, %d] done", lmin, lmax)
	}
	return nil
}

// maxTileSize caps a single tile at a size that keeps its dedup tree's
// arena from growing unreasonably large; for a band narrower than the
// limit the cap is the band width itself, so only tile.NewMatrix's 4T+2
// split decides the tile size there.
func maxTileSize(bandWidth numeric.Vamp) numeric.Vamp {
	const limit = 50_000_000
	if bandWidth < limit {
		return bandWidth
	}
	return limit
}

func (d *Driver) scanTile(t *tile.Tile, fmax numeric.Fang, cache *signature.Cache) {
	switch d.Cfg.Mode {
	case config.ModeCountPairs:
		s := &sink.CountPairs{}
		search.Scan(t.Lmin, t.Lmax, fmax, cache, s)
		t.CountPairs = s.Count

	case config.ModeDumpPairs:
		// Collected rather than written directly, so dump-pairs output
		// still lands in tile-commit order despite concurrent workers.
		rec := &collectPairs{}
		search.Scan(t.Lmin, t.Lmax, fmax, cache, rec)
		t.Pairs = rec.pairs

	case config.ModeCountVampires:
		s := sink.NewCountVampires(d.Cfg.MinPairs)
		search.Scan(t.Lmin, t.Lmax, fmax, cache, s)
		t.CountVamps = s.Count

	default: // ModeEnumerateVampires
		s := sink.NewEnumerateVampires(d.Cfg.MinPairs)
		search.Scan(t.Lmin, t.Lmax, fmax, cache, s)
		t.Result = s.Buf
	}
}

func (d *Driver) commitTile(t *tile.Tile, hasher checksum.Hasher, result *Result) {
	switch d.Cfg.Mode {
	case config.ModeCountPairs:
		result.VampirePairs += t.CountPairs

	case config.ModeDumpPairs:
		for _, p := range t.Pairs {
			fmt.Fprintf(d.Out, "%d = %d x %d\n", p.Product, p.Multiplier, p.Multiplicand)
			if hasher != nil {
				checksum.WritePair(hasher, p.Product, p.Multiplier, p.Multiplicand)
			}
		}
		result.VampirePairs += uint64(len(t.Pairs))

	case config.ModeCountVampires:
		result.DistinctVamps += t.CountVamps

	default: // ModeEnumerateVampires
		if t.Result == nil {
			return
		}
		for _, e := range t.Result.Entries() {
			result.DistinctVamps++
			fmt.Fprintf(d.Out, "%d %d\n", result.DistinctVamps, e.Value)
			if hasher != nil {
				checksum.WritePair(hasher, e.Value, 0, 0)
			}
		}
	}
}

// runningCount is the total the active mode is accumulating; it is what a
// checkpoint persists and what a resumed run starts from.
func (d *Driver) runningCount(result *Result) uint64 {
	switch d.Cfg.Mode {
	case config.ModeCountPairs, config.ModeDumpPairs:
		return result.VampirePairs
	default:
		return result.DistinctVamps
	}
}

func (d *Driver) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}

// collectPairs is a search.Sink that records every reported pair for
// dump-pairs mode.
type collectPairs struct {
	pairs []tile.Pair
}

func (c *collectPairs) Report(product numeric.Vamp, multiplier, multiplicand numeric.Fang) {
	c.pairs = append(c.pairs, tile.Pair{Product: product, Multiplier: multiplier, Multiplicand: multiplicand})
}

func (c *collectPairs) Drain(numeric.Vamp) {}
