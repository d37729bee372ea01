/*
 * topology.go, part of oxdna-trajectory-reader.
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
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Strand is one molecular chain of the system: a contiguous, ordered range
// of nucleotide indexes plus its base sequence.
type Strand struct {
	ID       int
	Start    int //index of the first nucleotide, inclusive
	End      int //index of the last nucleotide, inclusive
	Sequence string
}

// Len returns the number of nucleotides in the strand.
func (S *Strand) Len() int { return len(S.Sequence) }

// Slice projects a configuration onto the strand's nucleotides, returning a
// new Configuration that shares no storage with the input.
func (S *Strand) Slice(conf *Configuration) (*Configuration, error) {
	N, err := conf.Slice(S.Start, S.End+1)
	if err != nil {
		return nil, errDecorate(err, "Strand.Slice")
	}
	return N, nil
}

func (S *Strand) String() string {
	return fmt.Sprintf("<Strand id=%d start=%d end=%d>", S.ID, S.Start, S.End)
}

// Topology groups the nucleotide indexes of a system into named strands, as
// read from an oxDNA topology file. The first line of the file gives the
// total nucleotide and strand counts; each following line describes one
// nucleotide as "strandID base 3'neighbor 5'neighbor", with -1 marking a
// strand terminus.
type Topology struct {
	strands   map[int]*Strand
	nMonomers int
}

// TopologyFileRead parses a topology file, validating that every strand is a
// contiguous run of nucleotides and that the counts announced in the first
// line match what the file contains.
func TopologyFileRead(name string) (*Topology, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, newGeneralError(UnableToOpen+": "+err.Error(), name, "TopologyFileRead")
	}
	defer f.Close()
	T := &Topology{strands: make(map[int]*Strand)}
	bad := func(format string, args ...interface{}) error {
		return newGeneralError(WrongFormat+": "+fmt.Sprintf(format, args...), name, "TopologyFileRead")
	}
	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, bad("missing the counts line")
	}
	counts := strings.Fields(scanner.Text())
	if len(counts) != 2 {
		return nil, bad("counts line must hold 2 fields, got %d", len(counts))
	}
	nMonomers, err1 := strconv.Atoi(counts[0])
	nStrands, err2 := strconv.Atoi(counts[1])
	if err1 != nil || err2 != nil {
		return nil, bad("invalid counts line %q", scanner.Text())
	}
	nexts := make(map[int]int) //per strand, the announced index of the next nucleotide
	index := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, bad("nucleotide line %d must hold 4 fields, got %d", index, len(fields))
		}
		strandID, err1 := strconv.Atoi(fields[0])
		base := fields[1]
		prev, err2 := strconv.Atoi(fields[2])
		next, err3 := strconv.Atoi(fields[3])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, bad("invalid nucleotide line %q", line)
		}
		if prev == -1 {
			if _, dup := T.strands[strandID]; dup {
				return nil, bad("strand %d starts twice, at nucleotide %d", strandID, index)
			}
			T.strands[strandID] = &Strand{ID: strandID, Start: index, End: index, Sequence: base}
			nexts[strandID] = next
		} else {
			S, ok := T.strands[strandID]
			if !ok || prev != index-1 || S.End != prev || nexts[strandID] != index {
				return nil, bad("nucleotide %d does not continue strand %d", index, strandID)
			}
			S.End = index
			S.Sequence += base
			nexts[strandID] = next
		}
		index++
	}
	if err := scanner.Err(); err != nil {
		return nil, newGeneralError(err.Error(), name, "TopologyFileRead")
	}
	if len(T.strands) != nStrands {
		return nil, bad("announced %d strands, found %d", nStrands, len(T.strands))
	}
	if index != nMonomers {
		return nil, bad("announced %d nucleotides, found %d", nMonomers, index)
	}
	for id, S := range T.strands {
		if nexts[id] != -1 {
			return nil, bad("strand %d is not terminated", S.ID)
		}
	}
	T.nMonomers = nMonomers
	return T, nil
}

// Len returns the number of strands.
func (T *Topology) Len() int { return len(T.strands) }

// NMonomers returns the total nucleotide count of the system.
func (T *Topology) NMonomers() int { return T.nMonomers }

// Strand returns the strand with the given ID from the topology file
// (oxDNA numbers strands from 1).
func (T *Topology) Strand(id int) (*Strand, error) {
	S, ok := T.strands[id]
	if !ok {
		return nil, newIndexOutOfRange(id, len(T.strands), "", "Strand")
	}
	return S, nil
}

// Strands returns all strands, sorted by ID.
func (T *Topology) Strands() []*Strand {
	out := make([]*Strand, 0, len(T.strands))
	for _, S := range T.strands {
		out = append(out, S)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (T *Topology) String() string {
	return fmt.Sprintf("<Topology strands=%d monomers=%d>", len(T.strands), T.nMonomers)
}
