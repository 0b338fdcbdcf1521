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

// Package checkpoint saves and restores scan progress so a run that's
// killed partway through a band can resume instead of starting over. The
// file records the [min, max] it was written for, so Matches can reject a
// resume over a different range, and the run ID stamped by Touch. The run
// ID is carried from save to save but not compared on resume, and nothing
// in the file identifies which build of the program wrote it.
package checkpoint

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jaskij/vampire/internal/numeric"
)

// State is the on-disk checkpoint contents.
type State struct {
	RunID    uuid.UUID
	Min, Max numeric.Vamp
	ResumeAt numeric.Vamp
	Count    uint64
}

// Touch writes a fresh checkpoint for [min, max] (replacing any existing
// one) with a new run ID, ResumeAt = min and Count 0, so a run that's interrupted before
// its first save still leaves behind a file a later -resume can detect
// rather than silently acting like no checkpoint exists.
func Touch(path string, min, max numeric.Vamp) (uuid.UUID, error) {
	runID := uuid.New()
	st := State{RunID: runID, Min: min, Max: max, ResumeAt: min}
	return runID, Save(path, st)
}

// Save atomically overwrites the checkpoint file at path with st, via a
// temp file in the same directory renamed into place, so a crash or kill
// mid-write never leaves a half-written checkpoint behind.
func Save(path string, st State) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	_, err = fmt.Fprintf(w, "%s\n%d\n%d\n%d\n%d\n", st.RunID, st.Min, st.Max, st.ResumeAt, st.Count)
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		err = tmp.Sync()
	}
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Load reads a checkpoint file written by Save or Touch.
func Load(path string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		return State{}, err
	}
	defer f.Close()

	lines := make([]string, 0, 5)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return State{}, err
	}
	if len(lines) != 5 {
		return State{}, fmt.Errorf("malformed checkpoint %s: expected 5 lines, got %d", path, len(lines))
	}

	var st State
	st.RunID, err = uuid.Parse(lines[0])
	if err != nil {
		return State{}, fmt.Errorf("malformed checkpoint %s: bad run id: %w", path, err)
	}
	fields := []*numeric.Vamp{&st.Min, &st.Max, &st.ResumeAt}
	for i, dst := range fields {
		v, err := numeric.ParseVamp(lines[i+1])
		if err != nil {
			return State{}, fmt.Errorf("malformed checkpoint %s: %w", path, err)
		}
		*dst = v
	}
	count, err := numeric.ParseVamp(lines[4])
	if err != nil {
		return State{}, fmt.Errorf("malformed checkpoint %s: %w", path, err)
	}
	st.Count = uint64(count)
	return st, nil
}

// Matches reports whether a loaded checkpoint applies to the requested
// [min, max]: resuming across a different range would silently skip or
// duplicate work, so the driver must reject a mismatch rather than use it.
func (st State) Matches(min, max numeric.Vamp) bool {
	return st.Min == min && st.Max == max
}
