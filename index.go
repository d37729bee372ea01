/*
 * index.go, part of oxdna-trajectory-reader.
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
	"io"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// confBlock is one configuration as delimited by the boundary scanner. The
// header fields are always decoded; the particle lines and their start
// offsets are retained only when the scanner was asked to keep them, which
// is what separates cheap indexing from full parsing.
type confBlock struct {
	start, end  int64
	time        int64
	box, energy [3]float64
	nparticles  int
	lines       [][]byte
	lineOffsets []int64
}

// confScanner walks a byte range of a trajectory file configuration by
// configuration. A configuration starts at a header line (prefix "t") and
// runs to the next header line or the end of the range. Particle lines are
// located by finding the next newline; their fields are only split when a
// final unterminated line has to be checked for completeness.
type confScanner struct {
	lr        *lineReader
	filename  string
	keepLines bool
	primed    bool
}

func newConfScanner(src *source, offset, stop int64, keepLines bool) *confScanner {
	return &confScanner{
		lr:        src.cursorAt(offset, stop),
		filename:  src.name,
		keepLines: keepLines,
	}
}

// headerLine reads and validates one of the three header lines. prefix is
// the expected first byte ("t", "b" or "E"); what names the line in error
// messages.
func (sc *confScanner) headerLine(start int64, prefix byte, what string) (string, error) {
	lr := sc.lr
	if lr.reachedEnd {
		return "", newTruncated(fmt.Sprintf("file ends before the %s header line", what), sc.filename, start, "confScanner")
	}
	if !lr.terminated() {
		return "", newTruncated(fmt.Sprintf("%s header line cut off at end of file", what), sc.filename, start, "confScanner")
	}
	if len(lr.line) == 0 || lr.line[0] != prefix {
		return "", newMalformedHeader(fmt.Sprintf("expected %s header line starting with %q, got %q", what, string(prefix), string(lr.line)), sc.filename, lr.lineStart, "confScanner")
	}
	value, ok := headerValue(lr.line)
	if !ok {
		return "", newMalformedHeader(fmt.Sprintf("%s header line has no \"=\": %q", what, string(lr.line)), sc.filename, lr.lineStart, "confScanner")
	}
	return value, nil
}

// next delimits the next configuration in the range. It returns io.EOF once
// the range holds no further configuration. Whitespace-only lines between
// configurations are skipped; inside a block they are tolerated as block
// separators and not counted as particles.
func (sc *confScanner) next() (*confBlock, error) {
	lr := sc.lr
	if !sc.primed {
		sc.primed = true
		if err := lr.readLine(); err != nil {
			return nil, newGeneralError(err.Error(), sc.filename, "confScanner")
		}
	}
	for !lr.reachedEnd && !isHeaderLine(lr.line) {
		if err := lr.readLine(); err != nil {
			return nil, newGeneralError(err.Error(), sc.filename, "confScanner")
		}
	}
	if lr.reachedEnd {
		return nil, io.EOF
	}
	b := &confBlock{start: lr.lineStart}

	value, err := sc.headerLine(b.start, 't', "time")
	if err != nil {
		return nil, err
	}
	b.time, err = strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, newMalformedHeader(fmt.Sprintf("invalid time header value %q", value), sc.filename, b.start, "confScanner")
	}

	if err := lr.readLine(); err != nil {
		return nil, newGeneralError(err.Error(), sc.filename, "confScanner")
	}
	value, err = sc.headerLine(b.start, 'b', "box")
	if err != nil {
		return nil, err
	}
	b.box, err = parseFloat3(value)
	if err != nil {
		return nil, newMalformedHeader(fmt.Sprintf("invalid box header values %q", value), sc.filename, b.start, "confScanner")
	}

	if err := lr.readLine(); err != nil {
		return nil, newGeneralError(err.Error(), sc.filename, "confScanner")
	}
	value, err = sc.headerLine(b.start, 'E', "energy")
	if err != nil {
		return nil, err
	}
	b.energy, err = parseFloat3(value)
	if err != nil {
		return nil, newMalformedHeader(fmt.Sprintf("invalid energy header values %q", value), sc.filename, b.start, "confScanner")
	}

	for {
		if err := lr.readLine(); err != nil {
			return nil, newGeneralError(err.Error(), sc.filename, "confScanner")
		}
		if lr.reachedEnd || isHeaderLine(lr.line) {
			break
		}
		if isBlankLine(lr.line) {
			continue
		}
		//a last line missing its newline still counts when it carries a full
		//particle record; files written without a final newline are common.
		if !lr.terminated() && len(bytes.Fields(lr.line)) < particleFields {
			return nil, newTruncated("particle line cut off at end of file", sc.filename, b.start, "confScanner")
		}
		b.nparticles++
		if sc.keepLines {
			b.lines = append(b.lines, append([]byte(nil), lr.line...))
			b.lineOffsets = append(b.lineOffsets, lr.lineStart)
		}
	}
	b.end = lr.lineStart
	return b, nil
}

// IndexConfigurations locates configuration boundaries in the trajectory file
// name, starting at the given byte offset, which must point at the first byte
// of a configuration header (or at the end of the file). It returns the byte
// offset following each configuration, which is also the start of the next
// one. At most limit configurations are indexed; limit <= 0 means all of
// them. Headers are validated but particle lines are only skipped over, so
// indexing is much cheaper than parsing.
//
// On error, the offsets indexed before the failing configuration are still
// returned together with the error.
func IndexConfigurations(name string, offset int64, limit int) ([]int64, error) {
	src, err := openSource(name)
	if err != nil {
		return nil, errDecorate(err, "IndexConfigurations")
	}
	defer src.Close()
	offsets, err := indexFrom(src, offset, limit)
	if err != nil {
		return offsets, errDecorate(err, "IndexConfigurations")
	}
	return offsets, nil
}

func indexFrom(src *source, offset int64, limit int) ([]int64, error) {
	if err := src.checkOffset(offset, "indexFrom"); err != nil {
		return nil, err
	}
	sc := newConfScanner(src, offset, src.size, false)
	var offsets []int64
	for limit <= 0 || len(offsets) < limit {
		b, err := sc.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return offsets, err
		}
		offsets = append(offsets, b.end)
	}
	return offsets, nil
}

// IndexConfigurationsConcurrent indexes the whole file with nworkers
// goroutines scanning disjoint byte ranges. Range boundaries are candidate
// header lines; each candidate is validated by parsing the full three-line
// header at that offset before the partition is trusted. If any candidate
// fails validation, the file is indexed sequentially instead, so the result
// always equals IndexConfigurations(name, 0, 0).
func IndexConfigurationsConcurrent(name string, nworkers int) ([]int64, error) {
	src, err := openSource(name)
	if err != nil {
		return nil, errDecorate(err, "IndexConfigurationsConcurrent")
	}
	defer src.Close()
	if nworkers <= 1 || src.size == 0 {
		offsets, err := indexFrom(src, 0, 0)
		if err != nil {
			return offsets, errDecorate(err, "IndexConfigurationsConcurrent")
		}
		return offsets, nil
	}
	bounds := []int64{0}
	for k := 1; k < nworkers; k++ {
		guess := src.size * int64(k) / int64(nworkers)
		if guess <= bounds[len(bounds)-1] {
			continue
		}
		cand, found, err := nextHeaderCandidate(src, guess)
		if err != nil {
			return nil, errDecorate(err, "IndexConfigurationsConcurrent")
		}
		if !found {
			break
		}
		if cand > bounds[len(bounds)-1] && validHeaderAt(src, cand) {
			bounds = append(bounds, cand)
		} else if !validHeaderAt(src, cand) {
			//a false header candidate means the partition can not be
			//trusted, so we fall back to the sequential scan.
			offsets, err := indexFrom(src, 0, 0)
			if err != nil {
				return offsets, errDecorate(err, "IndexConfigurationsConcurrent")
			}
			return offsets, nil
		}
	}
	bounds = append(bounds, src.size)
	parts := make([][]int64, len(bounds)-1)
	var g errgroup.Group
	for i := 0; i < len(bounds)-1; i++ {
		i := i
		g.Go(func() error {
			sc := newConfScanner(src, bounds[i], bounds[i+1], false)
			for {
				b, err := sc.next()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				parts[i] = append(parts[i], b.end)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errDecorate(err, "IndexConfigurationsConcurrent")
	}
	var offsets []int64
	for _, p := range parts {
		offsets = append(offsets, p...)
	}
	return offsets, nil
}

// nextHeaderCandidate finds the first line at or after guess whose first
// byte is the header prefix, returning its start offset. guess may point
// into the middle of a line, which is skipped.
func nextHeaderCandidate(src *source, guess int64) (int64, bool, error) {
	lr := src.cursorAt(guess, src.size)
	if err := lr.readLine(); err != nil { //partial line, discarded
		return 0, false, newGeneralError(err.Error(), src.name, "nextHeaderCandidate")
	}
	for {
		if err := lr.readLine(); err != nil {
			return 0, false, newGeneralError(err.Error(), src.name, "nextHeaderCandidate")
		}
		if lr.reachedEnd {
			return 0, false, nil
		}
		if isHeaderLine(lr.line) {
			return lr.lineStart, true, nil
		}
	}
}

// validHeaderAt confirms that a candidate boundary really is a configuration
// header, not a stray line that happens to start with the header prefix.
func validHeaderAt(src *source, offset int64) bool {
	sc := newConfScanner(src, offset, src.size, false)
	if err := sc.lr.readLine(); err != nil {
		return false
	}
	sc.primed = true
	if !isHeaderLine(sc.lr.line) || sc.lr.lineStart != offset {
		return false
	}
	value, err := sc.headerLine(offset, 't', "time")
	if err != nil {
		return false
	}
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return false
	}
	if err := sc.lr.readLine(); err != nil {
		return false
	}
	value, err = sc.headerLine(offset, 'b', "box")
	if err != nil {
		return false
	}
	if _, err := parseFloat3(value); err != nil {
		return false
	}
	if err := sc.lr.readLine(); err != nil {
		return false
	}
	value, err = sc.headerLine(offset, 'E', "energy")
	if err != nil {
		return false
	}
	_, err = parseFloat3(value)
	return err == nil
}
