/*
 * topology_test.go, part of oxdna-trajectory-reader.
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
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const testTop = "test/traj.top"

func TestTopologyFileRead(Te *testing.T) {
	fmt.Println("Topology test!")
	T, err := TopologyFileRead(testTop)
	if err != nil {
		Te.Fatal(err)
	}
	if T.Len() != 2 || T.NMonomers() != 5 {
		Te.Fatalf("topology %v, want 2 strands and 5 monomers", T)
	}
	S1, err := T.Strand(1)
	if err != nil {
		Te.Fatal(err)
	}
	if S1.Sequence != "ACG" || S1.Start != 0 || S1.End != 2 {
		Te.Errorf("strand 1: %v sequence %q", S1, S1.Sequence)
	}
	S2, err := T.Strand(2)
	if err != nil {
		Te.Fatal(err)
	}
	if S2.Sequence != "TA" || S2.Start != 3 || S2.End != 4 || S2.Len() != 2 {
		Te.Errorf("strand 2: %v sequence %q", S2, S2.Sequence)
	}
	if _, err := T.Strand(3); err == nil {
		Te.Error("Strand(3) should fail on a 2-strand topology")
	}
	strands := T.Strands()
	if len(strands) != 2 || strands[0].ID != 1 || strands[1].ID != 2 {
		Te.Error("Strands() not in ID order")
	}
}

func TestStrandSlice(Te *testing.T) {
	fmt.Println("Strand slice test!")
	T, err := TopologyFileRead(testTop)
	if err != nil {
		Te.Fatal(err)
	}
	C := synthConf(Te, 0, 5)
	S2, err := T.Strand(2)
	if err != nil {
		Te.Fatal(err)
	}
	sub, err := S2.Slice(C)
	if err != nil {
		Te.Fatal(err)
	}
	if sub.Len() != 2 {
		Te.Fatalf("strand slice has %d particles, want 2", sub.Len())
	}
	if sub.Positions().At(0, 2) != C.Positions().At(3, 2) {
		Te.Error("strand slice picked the wrong rows")
	}
	if sub.Time != C.Time || sub.Box != C.Box {
		Te.Error("strand slice lost the header fields")
	}
	//a strand can not slice a configuration that is too small
	small := synthConf(Te, 0, 3)
	if _, err := S2.Slice(small); err == nil {
		Te.Error("slicing past the configuration length should fail")
	}
}

func TestTopologyBadFiles(Te *testing.T) {
	fmt.Println("Malformed topology test!")
	cases := []string{
		"",                                     //no counts line
		"5 1\n1 A -1 1\n1 C 0 -1\n",            //monomer count mismatch
		"2 2\n1 A -1 1\n1 C 0 -1\n",            //strand count mismatch
		"2 1\n1 A -1 1\n1 C 1 -1\n",            //broken 3' linkage
		"2 1\n1 A -1 1\n1 C 0 5\n",             //strand never terminated
		"3 2\n1 A -1 1\n1 C 0 -1\n1 G -1 -1\n", //strand restarted
	}
	dir := Te.TempDir()
	for i, data := range cases {
		name := filepath.Join(dir, fmt.Sprintf("top%d.top", i))
		if err := os.WriteFile(name, []byte(data), 0644); err != nil {
			Te.Fatal(err)
		}
		if _, err := TopologyFileRead(name); err == nil {
			Te.Errorf("case %d parsed without error: %q", i, data)
		}
	}
}
