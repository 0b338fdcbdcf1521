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

package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/jaskij/vampire/internal/config"
	"github.com/jaskij/vampire/internal/driver"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		exit(err)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	logger := log.New(os.Stderr, "", log.Ltime)

	d := &driver.Driver{Cfg: cfg, Out: out, Logger: logger}
	result, err := d.Run()
	if err != nil {
		exit(err)
	}
	out.Flush()

	switch cfg.Mode {
	case config.ModeCountPairs, config.ModeDumpPairs:
		fmt.Fprintf(os.Stderr, "Found: %d valid fang pairs.\n", result.VampirePairs)
	default:
		fmt.Fprintf(os.Stderr, "Found: %d vampire numbers.\n", result.DistinctVamps)
	}
	if result.ChecksumDigest != "" {
		fmt.Fprintf(os.Stderr, "Checksum: %s\n", result.ChecksumDigest)
	}
	if cfg.Stats {
		fmt.Fprintf(os.Stderr, "Elapsed: %s\n", result.Elapsed)
	}
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
