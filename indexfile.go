/*
 * indexfile.go, part of oxdna-trajectory-reader.
 *
 * Copyright 2023 The oxdna-trajectory-reader developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package oxdna

import (
	"encoding/json"
	"os"
)

// A fully built configuration index is persisted next to the trajectory as a
// "<name>.idx" sidecar, so later opens of a large file skip the indexing scan
// entirely. The sidecar holds a JSON array of [start, length, ordinal]
// triples, one per configuration, in file order.

func indexFilePath(name string) string {
	return name + ".idx"
}

// readIndexFile loads and validates the index sidecar of the trajectory file
// name. size must be the current byte size of the trajectory. It returns the
// configuration end offsets, or nil when there is no sidecar or the sidecar
// does not describe the file as it is now: the entries must be contiguous
// from offset zero and their last end offset must equal size, which rejects
// an index left behind by an older version of the file.
func readIndexFile(name string, size int64) []int64 {
	data, err := os.ReadFile(indexFilePath(name))
	if err != nil {
		return nil
	}
	var entries [][3]int64
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	if len(entries) == 0 {
		return nil
	}
	offsets := make([]int64, 0, len(entries))
	var prev int64
	for i, e := range entries {
		start, length, ordinal := e[0], e[1], e[2]
		if ordinal != int64(i) || start != prev || length <= 0 {
			return nil
		}
		prev = start + length
		offsets = append(offsets, prev)
	}
	if prev != size {
		return nil
	}
	return offsets
}

// writeIndexFile saves the end offsets of a fully indexed trajectory to its
// sidecar, in the same triple format readIndexFile expects.
func writeIndexFile(name string, offsets []int64) error {
	entries := make([][3]int64, len(offsets))
	var prev int64
	for i, end := range offsets {
		entries[i] = [3]int64{prev, end - prev, int64(i)}
		prev = end
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(indexFilePath(name), data, 0644)
}
