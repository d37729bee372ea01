/*
 * doc.go, part of oxdna-trajectory-reader.
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

/*
Package oxdna reads and writes oxDNA trajectory files: line-oriented text
files holding a sequence of independent configurations (simulation
snapshots).

The package is built around three layers:

    IndexConfigurations locates configuration boundaries as byte offsets,
    skipping over particle data without decoding it, which is what makes
    random access into multi-gigabyte trajectories cheap.

    ParseConfigurations decodes configurations into typed values, and
    SerializeConfigurations/WriteConfigurations encode them back into the
    exact on-disk text form.

    Trajectory is a sequence-like view over a file that grows its offset
    index lazily and answers Len/At/Slice queries with the minimum amount
    of additional indexing and decoding.

TopologyFileRead reads the companion topology file, whose strands can
project a configuration down to one chain's nucleotides.

Files with a .gz, .zst or .zstd extension are decompressed transparently on
open (into memory, so that byte offsets stay valid), and WriteConfigurations
compresses by the same extension rules.


 ******************** Format Specification ********************

A trajectory file is ASCII text made of configuration blocks, one after the
other, with no file-level header or footer. Concatenating well-formed blocks
(with or without an extra blank line between them) yields a well-formed file.

Each block starts with a three-line header:

    t = <time>
    b = <box.x> <box.y> <box.z>
    E = <energy.x> <energy.y> <energy.z>

where time is an integer and the other six values are floats. The header is
followed by one line per nucleotide, holding whitespace-separated decimal
floats: three for the center of mass position, three for the base vector a1
and three for the base normal vector a3. Files written by oxDNA with
velocities carry six further fields per line; this package reads past them
and does not retain them, and never writes them back: serialized particle
lines always hold exactly nine fields.

A configuration's particle count is not declared anywhere: it is however
many particle lines sit between its header and the next header line (a line
whose first byte is 't') or the end of the file. The count may therefore
differ between configurations in the same file.

Floats are written with the shortest decimal representation that re-parses
to the identical IEEE-754 double, so a parse/serialize round trip is exact.
*/
package oxdna
