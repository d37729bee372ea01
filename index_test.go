/*
 * index_test.go, part of oxdna-trajectory-reader.
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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const testTraj = "test/traj.dat"

// expectedEnds derives configuration end offsets the slow, independent way:
// every header line start after the first closes the previous configuration,
// and the file size closes the last one.
func expectedEnds(data []byte) []int64 {
	var ends []int64
	var offset int64
	sawHeader := false
	for _, line := range bytes.SplitAfter(data, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if isHeaderLine(line) {
			if sawHeader {
				ends = append(ends, offset)
			}
			sawHeader = true
		}
		offset += int64(len(line))
	}
	if sawHeader {
		ends = append(ends, int64(len(data)))
	}
	return ends
}

func sameOffsets(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestIndexConfigurations(Te *testing.T) {
	fmt.Println("Index test!")
	data, err := os.ReadFile(testTraj)
	if err != nil {
		Te.Fatal(err)
	}
	want := expectedEnds(data)
	if len(want) != 2 {
		Te.Fatalf("fixture should hold 2 configurations, derived %d", len(want))
	}
	got, err := IndexConfigurations(testTraj, 0, 0)
	if err != nil {
		Te.Error(err)
	}
	if !sameOffsets(got, want) {
		Te.Errorf("end offsets %v, want %v", got, want)
	}
	if got[len(got)-1] != int64(len(data)) {
		Te.Errorf("last end offset %d should be the file size %d", got[len(got)-1], len(data))
	}
}

func TestIndexLimitAndResume(Te *testing.T) {
	fmt.Println("Index limit/resume test!")
	data, err := os.ReadFile(testTraj)
	if err != nil {
		Te.Fatal(err)
	}
	want := expectedEnds(data)
	first, err := IndexConfigurations(testTraj, 0, 1)
	if err != nil {
		Te.Error(err)
	}
	if len(first) != 1 || first[0] != want[0] {
		Te.Errorf("limit=1 gave %v, want [%d]", first, want[0])
	}
	//resuming from the last returned offset is the cancellation story of
	//the package, so it must pick up exactly where the first call stopped.
	rest, err := IndexConfigurations(testTraj, first[0], 0)
	if err != nil {
		Te.Error(err)
	}
	if !sameOffsets(rest, want[1:]) {
		Te.Errorf("resumed offsets %v, want %v", rest, want[1:])
	}
}

func TestIndexEmptyFile(Te *testing.T) {
	fmt.Println("Empty file test!")
	name := filepath.Join(Te.TempDir(), "empty.dat")
	if err := os.WriteFile(name, nil, 0644); err != nil {
		Te.Fatal(err)
	}
	offsets, err := IndexConfigurations(name, 0, 0)
	if err != nil {
		Te.Error(err)
	}
	if len(offsets) != 0 {
		Te.Errorf("empty file indexed %d configurations", len(offsets))
	}
}

func TestIndexMalformedHeader(Te *testing.T) {
	fmt.Println("Malformed header test!")
	good := "t = 0\nb = 1 1 1\nE = 0 0 0\n0.5 0.5 0.5 1 0 0 0 0 1\n"
	bad := "t = 1\nb = 1 1 1\nE = x y z\n"
	name := filepath.Join(Te.TempDir(), "bad.dat")
	if err := os.WriteFile(name, []byte(good+bad), 0644); err != nil {
		Te.Fatal(err)
	}
	offsets, err := IndexConfigurations(name, 0, 0)
	if err == nil {
		Te.Fatal("expected a MalformedHeaderError")
	}
	merr, ok := err.(MalformedHeaderError)
	if !ok {
		Te.Fatalf("expected a MalformedHeaderError, got %T: %v", err, err)
	}
	if merr.Offset() != int64(len(good)) {
		Te.Errorf("error offset %d, want %d", merr.Offset(), len(good))
	}
	//the configuration indexed before the failure must be preserved
	if len(offsets) != 1 || offsets[0] != int64(len(good)) {
		Te.Errorf("partial offsets %v, want [%d]", offsets, len(good))
	}
}

func TestIndexTruncated(Te *testing.T) {
	fmt.Println("Truncation test!")
	good := "t = 0\nb = 1 1 1\nE = 0 0 0\n0.5 0.5 0.5 1 0 0 0 0 1\n"
	cases := []string{
		"t = 1\nb = 1 1 1\n",                     //header cut before the E line
		"t = 1\nb = 1 1",                         //header line with no newline at EOF
		"t = 1\nb = 1 1 1\nE = 0 0 0\n0.5 0.5 0", //particle line cut mid-record
	}
	for i, tail := range cases {
		name := filepath.Join(Te.TempDir(), fmt.Sprintf("trunc%d.dat", i))
		if err := os.WriteFile(name, []byte(good+tail), 0644); err != nil {
			Te.Fatal(err)
		}
		offsets, err := IndexConfigurations(name, 0, 0)
		terr, ok := err.(TruncatedConfigurationError)
		if !ok {
			Te.Fatalf("case %d: expected a TruncatedConfigurationError, got %T: %v", i, err, err)
		}
		if terr.Offset() != int64(len(good)) {
			Te.Errorf("case %d: error offset %d, want %d", i, terr.Offset(), len(good))
		}
		if len(offsets) != 1 || offsets[0] != int64(len(good)) {
			Te.Errorf("case %d: partial offsets %v, want [%d]", i, offsets, len(good))
		}
	}
}

func TestIndexUnterminatedLastLine(Te *testing.T) {
	fmt.Println("Unterminated last line test!")
	//the final particle line carries all its fields but no newline; the
	//configuration is complete and its end offset is the file size.
	data := "t = 0\nb = 1 1 1\nE = 0 0 0\n0.5 0.5 0.5 1 0 0 0 0 1"
	name := filepath.Join(Te.TempDir(), "nonewline.dat")
	if err := os.WriteFile(name, []byte(data), 0644); err != nil {
		Te.Fatal(err)
	}
	offsets, err := IndexConfigurations(name, 0, 0)
	if err != nil {
		Te.Error(err)
	}
	if len(offsets) != 1 || offsets[0] != int64(len(data)) {
		Te.Errorf("offsets %v, want [%d]", offsets, len(data))
	}
}

func TestIndexZeroParticleTail(Te *testing.T) {
	fmt.Println("Zero-particle configuration test!")
	data := "t = 0\nb = 1 1 1\nE = 0 0 0\n"
	name := filepath.Join(Te.TempDir(), "zero.dat")
	if err := os.WriteFile(name, []byte(data), 0644); err != nil {
		Te.Fatal(err)
	}
	offsets, err := IndexConfigurations(name, 0, 0)
	if err != nil {
		Te.Error(err)
	}
	if len(offsets) != 1 || offsets[0] != int64(len(data)) {
		Te.Errorf("offsets %v, want [%d]", offsets, len(data))
	}
}

// synthTrajectory writes nconf configurations with varying particle counts
// and returns the file name.
func synthTrajectory(Te *testing.T, dir string, nconf int) string {
	confs := make([]*Configuration, 0, nconf)
	for i := 0; i < nconf; i++ {
		confs = append(confs, synthConf(Te, int64(i*1000), 2+i%4))
	}
	name := filepath.Join(dir, "synth.dat")
	if err := WriteConfigurations(name, confs); err != nil {
		Te.Fatal(err)
	}
	return name
}

func TestIndexConcurrent(Te *testing.T) {
	fmt.Println("Concurrent index test!")
	name := synthTrajectory(Te, Te.TempDir(), 60)
	want, err := IndexConfigurations(name, 0, 0)
	if err != nil {
		Te.Fatal(err)
	}
	if len(want) != 60 {
		Te.Fatalf("sequential index found %d configurations, want 60", len(want))
	}
	for _, nworkers := range []int{1, 2, 4, 7} {
		got, err := IndexConfigurationsConcurrent(name, nworkers)
		if err != nil {
			Te.Error(err)
		}
		if !sameOffsets(got, want) {
			Te.Errorf("%d workers: offsets differ from sequential scan", nworkers)
		}
	}
}
