/*
 * scanner_test.go, part of oxdna-trajectory-reader.
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
	"strings"
	"testing"
)

func TestLineReaderOffsets(Te *testing.T) {
	fmt.Println("Line reader test!")
	lr := newLineReader(strings.NewReader("ab\ncdef\n\nxy"), 100)
	steps := []struct {
		line       string
		start      int64
		terminated bool
	}{
		{"ab\n", 100, true},
		{"cdef\n", 103, true},
		{"\n", 108, true},
		{"xy", 109, false},
	}
	for i, want := range steps {
		if err := lr.readLine(); err != nil {
			Te.Fatal(err)
		}
		if string(lr.line) != want.line || lr.lineStart != want.start {
			Te.Errorf("step %d: line %q at %d, want %q at %d", i, lr.line, lr.lineStart, want.line, want.start)
		}
		if lr.terminated() != want.terminated {
			Te.Errorf("step %d: terminated=%v", i, lr.terminated())
		}
	}
	if err := lr.readLine(); err != nil {
		Te.Fatal(err)
	}
	if !lr.reachedEnd {
		Te.Error("reader should have reached the end")
	}
	if lr.lineStart != 111 {
		Te.Errorf("end offset %d, want 111", lr.lineStart)
	}
}

func TestHeaderHelpers(Te *testing.T) {
	fmt.Println("Header helper test!")
	if !isHeaderLine([]byte("t = 100\n")) || isHeaderLine([]byte("0.5 0.1 1\n")) || isHeaderLine(nil) {
		Te.Error("isHeaderLine misclassified a line")
	}
	if !isBlankLine([]byte(" \t\n")) || isBlankLine([]byte(" x\n")) {
		Te.Error("isBlankLine misclassified a line")
	}
	v, ok := headerValue([]byte("b = 10 20 30\n"))
	if !ok || v != "10 20 30" {
		Te.Errorf("headerValue gave %q/%v", v, ok)
	}
	if _, ok := headerValue([]byte("b 10 20 30\n")); ok {
		Te.Error("headerValue accepted a line without =")
	}
	vec, err := parseFloat3("1.5 -2 3e4")
	if err != nil || vec != [3]float64{1.5, -2, 3e4} {
		Te.Errorf("parseFloat3 gave %v (%v)", vec, err)
	}
	if _, err := parseFloat3("1 2"); err == nil {
		Te.Error("parseFloat3 accepted 2 fields")
	}
	if _, err := parseFloat3("1 2 x"); err == nil {
		Te.Error("parseFloat3 accepted a non-numeric field")
	}
}
