/*
 * parse.go, part of oxdna-trajectory-reader.
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

	"gonum.org/v1/gonum/mat"
)

// particleFields is the number of per-particle values retained: three each
// for position, a1 and a3. Trajectory files written with velocities carry
// more fields per line; those are skipped.
const particleFields = 9

// ParseConfigurations fully decodes up to limit configurations (limit <= 0
// means all of them) from the trajectory file name, starting at the given
// byte offset, which must point at the first byte of a configuration header.
// It returns the same end offsets as IndexConfigurations over the same range,
// so the caller can reuse them for later random access, plus the decoded
// configurations in file order.
//
// On error, the configurations decoded before the failing one are still
// returned together with the error.
func ParseConfigurations(name string, offset int64, limit int) ([]int64, []*Configuration, error) {
	src, err := openSource(name)
	if err != nil {
		return nil, nil, errDecorate(err, "ParseConfigurations")
	}
	defer src.Close()
	offsets, confs, err := parseFrom(src, offset, limit)
	if err != nil {
		return offsets, confs, errDecorate(err, "ParseConfigurations")
	}
	return offsets, confs, nil
}

func parseFrom(src *source, offset int64, limit int) ([]int64, []*Configuration, error) {
	if err := src.checkOffset(offset, "parseFrom"); err != nil {
		return nil, nil, err
	}
	sc := newConfScanner(src, offset, src.size, true)
	var offsets []int64
	var confs []*Configuration
	for limit <= 0 || len(confs) < limit {
		b, err := sc.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return offsets, confs, err
		}
		conf, err := decodeBlock(b, src.name)
		if err != nil {
			return offsets, confs, err
		}
		offsets = append(offsets, b.end)
		confs = append(confs, conf)
	}
	return offsets, confs, nil
}

// decodeBlock turns a delimited configuration block into a Configuration,
// parsing the first nine fields of every particle line and discarding the
// rest.
func decodeBlock(b *confBlock, filename string) (*Configuration, error) {
	n := b.nparticles
	var positions, a1s, a3s *mat.Dense
	if n > 0 {
		positions = mat.NewDense(n, 3, nil)
		a1s = mat.NewDense(n, 3, nil)
		a3s = mat.NewDense(n, 3, nil)
	}
	for i, line := range b.lines {
		fields := bytes.Fields(line)
		if len(fields) < particleFields {
			msg := fmt.Sprintf("particle line has %d fields, expected at least %d", len(fields), particleFields)
			return nil, newNumericParse(msg, filename, "", b.lineOffsets[i], "decodeBlock")
		}
		var vals [particleFields]float64
		for j := 0; j < particleFields; j++ {
			v, err := strconv.ParseFloat(string(fields[j]), 64)
			if err != nil {
				msg := fmt.Sprintf("invalid particle value %q", string(fields[j]))
				return nil, newNumericParse(msg, filename, string(fields[j]), b.lineOffsets[i], "decodeBlock")
			}
			vals[j] = v
		}
		for k := 0; k < 3; k++ {
			positions.Set(i, k, vals[k])
			a1s.Set(i, k, vals[3+k])
			a3s.Set(i, k, vals[6+k])
		}
	}
	conf, err := NewConfiguration(b.time, b.box, b.energy, positions, a1s, a3s)
	if err != nil {
		return nil, errDecorate(err, "decodeBlock")
	}
	return conf, nil
}
