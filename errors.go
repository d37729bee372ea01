/*
 * errors.go, part of oxdna-trajectory-reader.
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

import "fmt"

// trajError carries the fields shared by every error type in this package.
// It is embedded, not used directly.
type trajError struct {
	message  string
	filename string
	offset   int64
	deco     []string
	critical bool
}

func (err trajError) Error() string {
	return fmt.Sprintf("oxDNA file %s error: %s", err.filename, err.message)
}

func (E trajError) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (err trajError) FileName() string { return err.filename }

func (err trajError) Format() string { return "oxDNA" }

func (err trajError) Critical() bool { return err.critical }

func (err trajError) Offset() int64 { return err.offset }

// GeneralError covers conditions outside the parsing taxonomy, such as a file
// that can not be opened, or an invalid argument to a geometry operation.
type GeneralError struct {
	trajError
}

func newGeneralError(message, filename, caller string) GeneralError {
	return GeneralError{trajError{message, filename, 0, []string{caller}, true}}
}

// MalformedHeaderError signals that the three-line configuration header
// expected at Offset() is present but can not be parsed: a line with the
// wrong prefix, a missing "=" field, or header values that fail to parse.
type MalformedHeaderError struct {
	trajError
}

func newMalformedHeader(message, filename string, offset int64, caller string) MalformedHeaderError {
	return MalformedHeaderError{trajError{message, filename, offset, []string{caller}, true}}
}

// NumericParseError signals a particle-line token that fails to parse as a
// float, or a particle line with fewer than the nine required fields.
// Offset() points at the start of the offending line.
type NumericParseError struct {
	trajError
	token string
}

// Token returns the offending token, or an empty string if the problem was
// a short line rather than a bad token.
func (err NumericParseError) Token() string { return err.token }

func newNumericParse(message, filename, token string, offset int64, caller string) NumericParseError {
	return NumericParseError{trajError{message, filename, offset, []string{caller}, true}, token}
}

// TruncatedConfigurationError signals that the file ends before the
// configuration starting at Offset() is complete: either inside the
// three-line header, or on a final line cut off with no newline terminator.
type TruncatedConfigurationError struct {
	trajError
}

func newTruncated(message, filename string, offset int64, caller string) TruncatedConfigurationError {
	return TruncatedConfigurationError{trajError{message, filename, offset, []string{caller}, true}}
}

// InconsistentArrayLengthError signals a Configuration whose positions, a1s
// and a3s arrays do not agree in shape. It is a contract violation on the
// caller's side, so it is always critical.
type InconsistentArrayLengthError struct {
	trajError
}

func newInconsistentLength(message, caller string) InconsistentArrayLengthError {
	return InconsistentArrayLengthError{trajError{message, "", 0, []string{caller}, true}}
}

// IndexOutOfRangeError signals random access past the end of a trajectory,
// a strand, or a configuration's particle axis.
type IndexOutOfRangeError struct {
	trajError
	index  int
	length int
}

// Index returns the requested position.
func (err IndexOutOfRangeError) Index() int { return err.index }

// Length returns the length of the indexed sequence, as known at the time
// of the access.
func (err IndexOutOfRangeError) Length() int { return err.length }

func newIndexOutOfRange(index, length int, filename, caller string) IndexOutOfRangeError {
	message := fmt.Sprintf("index %d out of range for length %d", index, length)
	return IndexOutOfRangeError{trajError{message, filename, 0, []string{caller}, true}, index, length}
}

//Some messages for GeneralError, to keep them uniform.
const (
	UnableToOpen       = "Unable to open file"
	WrongFormat        = "Wrong format in the trajectory or topology file"
	WrongRotation      = "Invalid rotation matrix"
	TrajClosed         = "Trajectory has been closed"
	OffsetOutOfBounds  = "Offset outside the file"
	NotEnoughParticles = "Not enough particle lines"
)

// lastFrameError implements LastFrameError.
type lastFrameError struct {
	deco     []string
	fileName string
}

// NormalLastFrameTermination does nothing, it only marks the type.
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "oxDNA" }

func (E lastFrameError) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) lastFrameError {
	return lastFrameError{fileName: filename, deco: []string{caller}}
}

// errDecorate asserts that err implements Error, decorates it with the
// caller's name and returns it. Calling it with any other error type is a
// programming mistake and panics.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}
