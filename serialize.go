/*
 * serialize.go, part of oxdna-trajectory-reader.
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
	"compress/gzip"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// formatFloat writes v with the shortest decimal representation that parses
// back to exactly the same float64, which is the round-trip guarantee of the
// on-disk format.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// SerializeConfigurations encodes each configuration as one text block in
// the trajectory file format. Every block is newline-terminated and
// independently valid, so the blocks can be concatenated, with or without an
// extra newline separator, to form a valid trajectory file.
//
// A nil configuration, or one whose particle arrays disagree in shape, makes
// the call fail before producing any output.
func SerializeConfigurations(confs []*Configuration) ([]string, error) {
	for _, C := range confs {
		if C == nil {
			return nil, newInconsistentLength("nil Configuration", "SerializeConfigurations")
		}
		if err := C.checkShape("SerializeConfigurations"); err != nil {
			return nil, err
		}
	}
	blocks := make([]string, 0, len(confs))
	for _, C := range confs {
		blocks = append(blocks, serializeConf(C))
	}
	return blocks, nil
}

func serializeConf(C *Configuration) string {
	var b strings.Builder
	b.WriteString("t = ")
	b.WriteString(strconv.FormatInt(C.Time, 10))
	b.WriteString("\nb = ")
	writeVec3(&b, C.Box)
	b.WriteString("\nE = ")
	writeVec3(&b, C.Energy)
	b.WriteByte('\n')
	n := C.Len()
	for i := 0; i < n; i++ {
		writeRow(&b, C.positions, i)
		b.WriteByte(' ')
		writeRow(&b, C.a1s, i)
		b.WriteByte(' ')
		writeRow(&b, C.a3s, i)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeVec3(b *strings.Builder, v [3]float64) {
	b.WriteString(formatFloat(v[0]))
	b.WriteByte(' ')
	b.WriteString(formatFloat(v[1]))
	b.WriteByte(' ')
	b.WriteString(formatFloat(v[2]))
}

func writeRow(b *strings.Builder, m interface{ At(i, j int) float64 }, i int) {
	b.WriteString(formatFloat(m.At(i, 0)))
	b.WriteByte(' ')
	b.WriteString(formatFloat(m.At(i, 1)))
	b.WriteByte(' ')
	b.WriteString(formatFloat(m.At(i, 2)))
}

// WriteConfigurations serializes confs and writes them to the file name,
// compressing the output if the extension asks for it: .gz for gzip, .zst or
// .zstd for z-standard, anything else for plain text. The result can be read
// back with ParseConfigurations or a Trajectory.
func WriteConfigurations(name string, confs []*Configuration) error {
	blocks, err := SerializeConfigurations(confs)
	if err != nil {
		return errDecorate(err, "WriteConfigurations")
	}
	f, err := os.Create(name)
	if err != nil {
		return newGeneralError(UnableToOpen+": "+err.Error(), name, "WriteConfigurations")
	}
	buf := bufio.NewWriter(f)
	var w io.Writer = buf
	var compressor io.Closer
	parts := strings.Split(name, ".")
	switch strings.ToLower(parts[len(parts)-1]) {
	case "gz":
		gz := gzip.NewWriter(buf)
		w = gz
		compressor = gz
	case "zst", "zstd":
		zw, err := zstd.NewWriter(buf, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return newGeneralError(err.Error(), name, "WriteConfigurations")
		}
		w = zw
		compressor = zw
	}
	for _, block := range blocks {
		if _, err := io.WriteString(w, block); err != nil {
			f.Close()
			return newGeneralError(err.Error(), name, "WriteConfigurations")
		}
	}
	if compressor != nil {
		if err := compressor.Close(); err != nil {
			f.Close()
			return newGeneralError(err.Error(), name, "WriteConfigurations")
		}
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return newGeneralError(err.Error(), name, "WriteConfigurations")
	}
	if err := f.Close(); err != nil {
		return newGeneralError(err.Error(), name, "WriteConfigurations")
	}
	return nil
}
