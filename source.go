/*
 * source.go, part of oxdna-trajectory-reader.
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
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// source is a byte-addressable view of a trajectory file. Plain files are
// read in place through the os.File ReaderAt; gzip (.gz) and z-standard
// (.zst, .zstd) files are inflated to memory on open, so that the byte
// offsets handed out by the indexer stay valid for random access.
// ReaderAt reads do not share a file position, so independent cursors over
// one source never race each other.
type source struct {
	name string
	ra   io.ReaderAt
	size int64
	f    *os.File //nil when the data lives in memory
}

// openSource opens name for offset-addressed reading, decompressing first if
// the file extension asks for it. Any extension other than the compressed
// ones is assumed to be plain text.
func openSource(name string) (*source, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, newGeneralError(UnableToOpen+": "+err.Error(), name, "openSource")
	}
	parts := strings.Split(name, ".")
	ext := strings.ToLower(parts[len(parts)-1])
	switch ext {
	case "gz":
		gz, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, newGeneralError(WrongFormat+": "+err.Error(), name, "openSource")
		}
		data, err := io.ReadAll(gz)
		gz.Close()
		f.Close()
		if err != nil {
			return nil, newGeneralError(WrongFormat+": "+err.Error(), name, "openSource")
		}
		return &source{name: name, ra: bytes.NewReader(data), size: int64(len(data))}, nil
	case "zst", "zstd":
		dec, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, newGeneralError(WrongFormat+": "+err.Error(), name, "openSource")
		}
		data, err := io.ReadAll(dec)
		dec.Close()
		f.Close()
		if err != nil {
			return nil, newGeneralError(WrongFormat+": "+err.Error(), name, "openSource")
		}
		return &source{name: name, ra: bytes.NewReader(data), size: int64(len(data))}, nil
	default:
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, newGeneralError(UnableToOpen+": "+err.Error(), name, "openSource")
		}
		return &source{name: name, ra: f, size: info.Size(), f: f}, nil
	}
}

// cursorAt returns a fresh line cursor positioned at offset. stop bounds the
// readable range; pass src.size to read to the end of the file.
func (src *source) cursorAt(offset, stop int64) *lineReader {
	return newLineReader(io.NewSectionReader(src.ra, offset, stop-offset), offset)
}

// checkOffset validates a caller-supplied starting offset.
func (src *source) checkOffset(offset int64, caller string) error {
	if offset < 0 || offset > src.size {
		return newGeneralError(OffsetOutOfBounds, src.name, caller)
	}
	return nil
}

func (src *source) Close() error {
	if src.f != nil {
		return src.f.Close()
	}
	return nil
}
