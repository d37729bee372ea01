/*
 * scanner.go, part of oxdna-trajectory-reader.
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
	"bytes"
	"io"
	"strconv"
)

// lineReader is a forward cursor over a byte range of a trajectory file. It
// yields newline-delimited lines while keeping track of the byte offset at
// which each line starts. The line buffer is reused between calls, so callers
// that keep a line past the next readLine must copy it first.
type lineReader struct {
	r          *bufio.Reader
	line       []byte
	reachedEnd bool
	cursor     int64 //offset right after the last byte consumed
	lineStart  int64 //offset of the first byte of the current line
}

func newLineReader(r io.Reader, offset int64) *lineReader {
	return &lineReader{
		r:         bufio.NewReaderSize(r, 1<<16),
		cursor:    offset,
		lineStart: offset,
	}
}

// readLine advances the cursor to the next line, which stays available in
// lr.line, including its terminating newline if one was present, until the
// next call. When there is nothing left to read it sets lr.reachedEnd and
// leaves lr.line empty.
func (lr *lineReader) readLine() error {
	lr.lineStart = lr.cursor
	lr.line = lr.line[:0]
	for {
		frag, err := lr.r.ReadSlice('\n')
		lr.line = append(lr.line, frag...)
		lr.cursor += int64(len(frag))
		if err == nil {
			return nil
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF {
			if len(lr.line) == 0 {
				lr.reachedEnd = true
			}
			return nil
		}
		return err
	}
}

// terminated reports whether the current line carries its newline, i.e.
// whether it was not cut off by the end of the file.
func (lr *lineReader) terminated() bool {
	return len(lr.line) > 0 && lr.line[len(lr.line)-1] == '\n'
}

// isHeaderLine reports whether a line opens a configuration header. Particle
// lines start with a digit, a sign or a dot, so the prefix is unambiguous in
// a well-formed file.
func isHeaderLine(line []byte) bool {
	return len(line) > 0 && line[0] == 't'
}

// isBlankLine reports whether a line contains only whitespace. Serialized
// blocks may be joined with an extra newline separator, which must not be
// counted as a particle line.
func isBlankLine(line []byte) bool {
	return len(bytes.TrimSpace(line)) == 0
}

// headerValue extracts the part of a header line after the "=" sign,
// trimmed, with ok=false if the line has no "=".
func headerValue(line []byte) (string, bool) {
	i := bytes.IndexByte(line, '=')
	if i < 0 {
		return "", false
	}
	return string(bytes.TrimSpace(line[i+1:])), true
}

// parseFloat3 parses exactly three whitespace-separated floats, the shape of
// the box and energy header vectors.
func parseFloat3(value string) ([3]float64, error) {
	var out [3]float64
	fields := bytes.Fields([]byte(value))
	if len(fields) != 3 {
		return out, strconv.ErrSyntax
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(string(f), 64)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}
