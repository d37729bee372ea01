/*
 * interfaces.go, part of oxdna-trajectory-reader.
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

// Error is the interface implemented by every error produced in this package.
// The Decorate method allows adding and retrieving information from the error
// without changing its type or wrapping it around something else. Each call
// appends the caller's name (plus, optionally, extra info in the format
// "FunctionName: Extra info") and returns the resulting decoration slice.
// If passed an empty string, it only returns the current value.
type Error interface {
	Error() string
	Decorate(string) []string
}

// TrajError is the interface for errors tied to a trajectory or topology file.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// OffsetError is implemented by errors that can point at the byte in the
// file where the problem was found.
type OffsetError interface {
	TrajError
	Offset() int64
}

// LastFrameError is implemented by the harmless error returned when an
// iteration over a trajectory runs past its last configuration, so it can be
// filtered in a type switch that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination()
}
