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

// Package config parses the command line and an optional YAML settings
// file into one Config, the way the query engine's CLI layers -flag
// package vars ahead of a plan.Env: flags always win, the file only fills
// in what wasn't passed on the command line.
package config

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/cpu"
	"sigs.k8s.io/yaml"

	"github.com/jaskij/vampire/internal/numeric"
)

// Mode selects what the scan kernel's findings are reduced to.
type Mode int

const (
	// ModeEnumerateVampires lists every distinct vampire number found, in
	// ascending order. This is the default.
	ModeEnumerateVampires Mode = iota
	// ModeCountVampires only counts distinct vampire numbers.
	ModeCountVampires
	// ModeDumpPairs lists every fang pair found, including duplicates
	// across multiple pairs for the same product.
	ModeDumpPairs
	// ModeCountPairs only counts fang pairs, including duplicates.
	ModeCountPairs
)

// Profile is the optional YAML settings file shape: anything a flag can
// also set, so a saved profile can be checked into a repo and reused
// without retyping a long flag invocation.
type Profile struct {
	Min        string `json:"min,omitempty"`
	Max        string `json:"max,omitempty"`
	Threads    int    `json:"threads,omitempty"`
	MinPairs   uint32 `json:"minPairs,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Checkpoint string `json:"checkpoint,omitempty"`
	Checksum   string `json:"checksum,omitempty"`
	Stats      bool   `json:"stats,omitempty"`
	Progress   bool   `json:"progress,omitempty"`
}

// Config is the fully resolved set of knobs the driver needs.
type Config struct {
	Min, Max   numeric.Vamp
	Threads    int
	MinPairs   uint32
	Mode       Mode
	Checkpoint string
	Resume     bool
	Checksum   string // "", "fast", or "strong"
	Stats      bool
	Progress   bool
}

var (
	dashMin        string
	dashMax        string
	dashProfile    string
	dashThreads    int
	dashMinPairs   uint
	dashMode       string
	dashCheckpoint string
	dashResume     bool
	dashChecksum   string
	dashStats      bool
	dashProgress   bool
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] [<min> <max>]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.StringVar(&dashMin, "min", "", "lower bound of the search interval (default 10)")
	flag.StringVar(&dashMax, "max", "", "upper bound of the search interval (required unless -profile sets it)")
	flag.StringVar(&dashProfile, "profile", "", "YAML file providing defaults for any flag not given on the command line")
	flag.IntVar(&dashThreads, "threads", 0, "worker goroutines (default: number of CPUs)")
	flag.UintVar(&dashMinPairs, "pairs", 1, "minimum fang pairs a product needs to count, in count-vampires/enumerate-vampires modes")
	flag.StringVar(&dashMode, "mode", "enumerate-vampires", "one of: enumerate-vampires, count-vampires, dump-pairs, count-pairs")
	flag.StringVar(&dashCheckpoint, "checkpoint", "", "checkpoint file path (enables resumable scans)")
	flag.BoolVar(&dashResume, "resume", false, "resume from -checkpoint instead of starting a fresh scan")
	flag.StringVar(&dashChecksum, "checksum", "", "print a digest of the output stream: fast, strong, or empty to disable")
	flag.BoolVar(&dashStats, "stats", false, "print the total elapsed time to stderr when done")
	flag.BoolVar(&dashProgress, "progress", false, "print periodic progress to stderr")
}

// Parse parses os.Args (via flag.Parse) and an optional -profile file into
// a Config, logging an informational note about AVX support the way
// the query engine's CLI reports its own SIMD requirements.
func Parse() (Config, error) {
	flag.Parse()

	prof, err := loadProfile(dashProfile)
	if err != nil {
		return Config{}, err
	}

	// The bounds can also be given positionally: vampire <min> <max>.
	var posMin, posMax string
	switch flag.NArg() {
	case 0:
	case 2:
		posMin, posMax = flag.Arg(0), flag.Arg(1)
	default:
		return Config{}, fmt.Errorf("expected no positional arguments or exactly <min> <max>, got %d", flag.NArg())
	}

	minStr := firstNonEmpty(dashMin, posMin, prof.Min, "10")
	maxStr := firstNonEmpty(dashMax, posMax, prof.Max)
	if maxStr == "" {
		return Config{}, fmt.Errorf("-max is required (directly, positionally, or via -profile)")
	}

	min, err := numeric.ParseVamp(minStr)
	if err != nil {
		return Config{}, fmt.Errorf("-min: %w", err)
	}
	max, err := numeric.ParseVamp(maxStr)
	if err != nil {
		return Config{}, fmt.Errorf("-max: %w", err)
	}
	if min > max {
		return Config{}, fmt.Errorf("-min (%d) must not exceed -max (%d)", min, max)
	}

	threads := dashThreads
	if threads == 0 {
		threads = prof.Threads
	}
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	minPairs := uint32(dashMinPairs)
	if !flagPassed("pairs") && prof.MinPairs != 0 {
		minPairs = prof.MinPairs
	}
	if minPairs == 0 {
		minPairs = 1
	}

	modeStr := dashMode
	if !flagPassed("mode") && prof.Mode != "" {
		modeStr = prof.Mode
	}
	mode, err := parseMode(modeStr)
	if err != nil {
		return Config{}, err
	}

	checkpointPath := firstNonEmpty(dashCheckpoint, prof.Checkpoint)
	checksum := firstNonEmpty(dashChecksum, prof.Checksum)
	if checksum != "" && checksum != "fast" && checksum != "strong" {
		return Config{}, fmt.Errorf("-checksum must be %q, %q, or empty, got %q", "fast", "strong", checksum)
	}

	logCPUFeatures()

	return Config{
		Min:        min,
		Max:        max,
		Threads:    threads,
		MinPairs:   minPairs,
		Mode:       mode,
		Checkpoint: checkpointPath,
		Resume:     dashResume,
		Checksum:   checksum,
		Stats:      dashStats || prof.Stats,
		Progress:   dashProgress || prof.Progress,
	}, nil
}

func parseMode(s string) (Mode, error) {
	switch s {
	case "enumerate-vampires":
		return ModeEnumerateVampires, nil
	case "count-vampires":
		return ModeCountVampires, nil
	case "dump-pairs":
		return ModeDumpPairs, nil
	case "count-pairs":
		return ModeCountPairs, nil
	default:
		return 0, fmt.Errorf("unrecognized -mode %q", s)
	}
}

func loadProfile(path string) (Profile, error) {
	if path == "" {
		return Profile{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("-profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("-profile: %w", err)
	}
	return p, nil
}

func flagPassed(name string) (found bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// logCPUFeatures prints an informational line about AVX support; unlike
// the query engine, this module has no AVX-dependent code path and never
// refuses to run on a CPU lacking it.
func logCPUFeatures() {
	if cpu.X86.HasAVX512 {
		fmt.Fprintln(os.Stderr, "cpu: AVX-512 available (not required)")
	} else if cpu.X86.HasAVX2 {
		fmt.Fprintln(os.Stderr, "cpu: AVX2 available (not required)")
	}
}
