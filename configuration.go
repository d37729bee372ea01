/*
 * configuration.go, part of oxdna-trajectory-reader.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

// Geometry models for the backbone repulsion site.
const (
	OxDNA1 = "oxDNA1"
	OxDNA2 = "oxDNA2"
	RNA    = "RNA"
)

// Configuration is one snapshot of the simulated system: a timestamp, the
// box vector, the energy vector (total, potential and kinetic, as written by
// oxDNA) and three parallel Nx3 arrays with, per nucleotide, the center of
// mass position, the base vector a1 and the base normal vector a3. A
// Configuration owns its arrays exclusively: nothing else aliases them, and
// the matrices handed to NewConfiguration must not be kept by the caller.
//
// Trailing per-particle fields present in trajectory files (velocities and
// angular velocities) are not modeled. They are skipped on parsing and
// omitted, not zero-filled, on serialization.
type Configuration struct {
	Time      int64
	Box       [3]float64
	Energy    [3]float64
	positions *mat.Dense //nil when the configuration has no particles
	a1s       *mat.Dense
	a3s       *mat.Dense
}

// NewConfiguration builds a Configuration from its parts, taking ownership
// of the matrices. positions, a1s and a3s must all be Nx3 with the same N;
// for an empty configuration all three are nil. Anything else returns an
// InconsistentArrayLengthError.
func NewConfiguration(time int64, box, energy [3]float64, positions, a1s, a3s *mat.Dense) (*Configuration, error) {
	C := &Configuration{Time: time, Box: box, Energy: energy, positions: positions, a1s: a1s, a3s: a3s}
	if err := C.checkShape("NewConfiguration"); err != nil {
		return nil, err
	}
	return C, nil
}

func (C *Configuration) checkShape(caller string) error {
	nilcount := 0
	for _, m := range []*mat.Dense{C.positions, C.a1s, C.a3s} {
		if m == nil {
			nilcount++
		}
	}
	if nilcount == 3 {
		return nil
	}
	if nilcount != 0 {
		return newInconsistentLength("positions, a1s and a3s must either all be set or all be nil", caller)
	}
	pr, pc := C.positions.Dims()
	ar, ac := C.a1s.Dims()
	br, bc := C.a3s.Dims()
	if pc != 3 || ac != 3 || bc != 3 {
		return newInconsistentLength(fmt.Sprintf("particle arrays must have 3 columns, got %d/%d/%d", pc, ac, bc), caller)
	}
	if pr != ar || pr != br {
		return newInconsistentLength(fmt.Sprintf("positions, a1s and a3s differ in length: %d/%d/%d", pr, ar, br), caller)
	}
	return nil
}

// Len returns the number of nucleotides in the configuration.
func (C *Configuration) Len() int {
	if C.positions == nil {
		return 0
	}
	r, _ := C.positions.Dims()
	return r
}

// Positions returns the Nx3 array of nucleotide centers of mass, or nil for
// an empty configuration. The returned matrix is the configuration's own
// storage: mutating it mutates the configuration.
func (C *Configuration) Positions() *mat.Dense { return C.positions }

// A1s returns the Nx3 array of base vectors, with the same ownership rules
// as Positions.
func (C *Configuration) A1s() *mat.Dense { return C.a1s }

// A3s returns the Nx3 array of base normal vectors, with the same ownership
// rules as Positions.
func (C *Configuration) A3s() *mat.Dense { return C.a3s }

// A2s returns a freshly allocated Nx3 array with the third base axis,
// the cross product a3 x a1, per nucleotide.
func (C *Configuration) A2s() *mat.Dense {
	n := C.Len()
	if n == 0 {
		return nil
	}
	out := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		ax, ay, az := C.a3s.At(i, 0), C.a3s.At(i, 1), C.a3s.At(i, 2)
		bx, by, bz := C.a1s.At(i, 0), C.a1s.At(i, 1), C.a1s.At(i, 2)
		out.Set(i, 0, ay*bz-az*by)
		out.Set(i, 1, az*bx-ax*bz)
		out.Set(i, 2, ax*by-ay*bx)
	}
	return out
}

// Copy returns a deep copy of the configuration.
func (C *Configuration) Copy() *Configuration {
	N := &Configuration{Time: C.Time, Box: C.Box, Energy: C.Energy}
	if C.positions != nil {
		N.positions = mat.DenseCopyOf(C.positions)
		N.a1s = mat.DenseCopyOf(C.a1s)
		N.a3s = mat.DenseCopyOf(C.a3s)
	}
	return N
}

// Select returns a new Configuration holding only the nucleotides at the
// given indexes, in the given order. The result shares no storage with C.
func (C *Configuration) Select(indexes []int) (*Configuration, error) {
	n := C.Len()
	for _, i := range indexes {
		if i < 0 || i >= n {
			return nil, newIndexOutOfRange(i, n, "", "Select")
		}
	}
	N := &Configuration{Time: C.Time, Box: C.Box, Energy: C.Energy}
	if len(indexes) == 0 {
		return N, nil
	}
	N.positions = mat.NewDense(len(indexes), 3, nil)
	N.a1s = mat.NewDense(len(indexes), 3, nil)
	N.a3s = mat.NewDense(len(indexes), 3, nil)
	for j, i := range indexes {
		for k := 0; k < 3; k++ {
			N.positions.Set(j, k, C.positions.At(i, k))
			N.a1s.Set(j, k, C.a1s.At(i, k))
			N.a3s.Set(j, k, C.a3s.At(i, k))
		}
	}
	return N, nil
}

// Slice returns a new Configuration with the nucleotides in [start, stop),
// by delegating to Select.
func (C *Configuration) Slice(start, stop int) (*Configuration, error) {
	n := C.Len()
	if start < 0 || start > n {
		return nil, newIndexOutOfRange(start, n, "", "Slice")
	}
	if stop < start || stop > n {
		return nil, newIndexOutOfRange(stop, n, "", "Slice")
	}
	indexes := make([]int, 0, stop-start)
	for i := start; i < stop; i++ {
		indexes = append(indexes, i)
	}
	N, err := C.Select(indexes)
	if err != nil {
		return nil, errDecorate(err, "Slice")
	}
	return N, nil
}

const rotationTol = 1e-4

// Rotate rotates the configuration in place with the given 3x3 rotation
// matrix, around center (nil means the origin). The matrix must be a proper
// rotation: determinant 1 and orthogonal, within a tolerance of 1e-4.
func (C *Configuration) Rotate(rotation *mat.Dense, center []float64) error {
	if err := checkRotationMatrix(rotation); err != nil {
		return errDecorate(err, "Rotate")
	}
	if center == nil {
		center = []float64{0, 0, 0}
	}
	if len(center) != 3 {
		return newGeneralError(fmt.Sprintf(WrongRotation+": center must have 3 elements, got %d", len(center)), "", "Rotate")
	}
	n := C.Len()
	if n == 0 {
		return nil
	}
	//p' = R(p - c) + c, computed row-wise as (P-c) R^T + c.
	shifted := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			shifted.Set(i, k, C.positions.At(i, k)-center[k])
		}
	}
	shifted.Mul(shifted, rotation.T())
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			C.positions.Set(i, k, shifted.At(i, k)+center[k])
		}
	}
	C.a1s.Mul(C.a1s, rotation.T())
	C.a3s.Mul(C.a3s, rotation.T())
	return nil
}

func checkRotationMatrix(rotation *mat.Dense) error {
	if rotation == nil {
		return newGeneralError(WrongRotation+": nil matrix", "", "checkRotationMatrix")
	}
	r, c := rotation.Dims()
	if r != 3 || c != 3 {
		return newGeneralError(fmt.Sprintf(WrongRotation+": shape must be 3x3, not %dx%d", r, c), "", "checkRotationMatrix")
	}
	if math.Abs(mat.Det(rotation)-1.0) > rotationTol {
		return newGeneralError(WrongRotation+": determinant must be 1", "", "checkRotationMatrix")
	}
	var prod mat.Dense
	prod.Mul(rotation, rotation.T())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(prod.At(i, j)-want) > rotationTol {
				return newGeneralError(WrongRotation+": matrix is not orthogonal", "", "checkRotationMatrix")
			}
		}
	}
	return nil
}

// site returns positions + f1*a1s + f2*other, the common shape of the oxDNA
// interaction-site formulas.
func (C *Configuration) site(f1 float64, f2 float64, other *mat.Dense) *mat.Dense {
	n := C.Len()
	if n == 0 {
		return nil
	}
	out := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			v := C.positions.At(i, k) + f1*C.a1s.At(i, k)
			if other != nil {
				v += f2 * other.At(i, k)
			}
			out.Set(i, k, v)
		}
	}
	return out
}

// BaseEndPositions returns the nucleotide ends at the base direction,
// positions + 0.6 a1.
func (C *Configuration) BaseEndPositions() *mat.Dense {
	return C.site(0.6, 0, nil)
}

// BaseCenterPositions returns the base centroids (the hydrogen-bonding /
// repulsion site), positions + 0.4 a1.
func (C *Configuration) BaseCenterPositions() *mat.Dense {
	return C.site(0.4, 0, nil)
}

// BackboneCenterPositions returns the backbone centroids (the backbone
// repulsion site) for the given geometry model: OxDNA1, OxDNA2 or RNA.
// An unknown model returns an error.
func (C *Configuration) BackboneCenterPositions(model string) (*mat.Dense, error) {
	switch model {
	case OxDNA2:
		return C.site(-0.34, 0.3408, C.A2s()), nil
	case RNA:
		return C.site(-0.4, 0.2, C.a3s), nil
	case OxDNA1:
		return C.site(-0.4, 0, nil), nil
	}
	return nil, newGeneralError(fmt.Sprintf("unknown backbone model %q", model), "", "BackboneCenterPositions")
}

func (C *Configuration) String() string {
	return fmt.Sprintf("<Configuration time=%d len=%d>", C.Time, C.Len())
}

// Nucleotide is a read-only view of a single particle of a Configuration.
// It holds no data of its own: it reads through to the configuration it came
// from, so it stays current if the configuration is rotated, and it must not
// outlive it.
type Nucleotide struct {
	conf  *Configuration
	index int
}

// Nucleotide returns a view of the i-th particle.
func (C *Configuration) Nucleotide(i int) (*Nucleotide, error) {
	if i < 0 || i >= C.Len() {
		return nil, newIndexOutOfRange(i, C.Len(), "", "Nucleotide")
	}
	return &Nucleotide{conf: C, index: i}, nil
}

// Index returns the particle's position within its configuration.
func (N *Nucleotide) Index() int { return N.index }

func (N *Nucleotide) row(m *mat.Dense) [3]float64 {
	return [3]float64{m.At(N.index, 0), m.At(N.index, 1), m.At(N.index, 2)}
}

// Position returns the nucleotide's center of mass.
func (N *Nucleotide) Position() [3]float64 { return N.row(N.conf.positions) }

// A1 returns the base vector.
func (N *Nucleotide) A1() [3]float64 { return N.row(N.conf.a1s) }

// A3 returns the base normal vector.
func (N *Nucleotide) A3() [3]float64 { return N.row(N.conf.a3s) }

// A2 returns the third base axis, a3 x a1.
func (N *Nucleotide) A2() [3]float64 {
	a, b := N.A3(), N.A1()
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (N *Nucleotide) site(f1 float64, f2 float64, other [3]float64) [3]float64 {
	p, a1 := N.Position(), N.A1()
	var out [3]float64
	for k := 0; k < 3; k++ {
		out[k] = p[k] + f1*a1[k] + f2*other[k]
	}
	return out
}

// BaseEndPosition returns the nucleotide end at the base direction,
// position + 0.6 a1.
func (N *Nucleotide) BaseEndPosition() [3]float64 {
	return N.site(0.6, 0, [3]float64{})
}

// BaseCenterPosition returns the base centroid, position + 0.4 a1.
func (N *Nucleotide) BaseCenterPosition() [3]float64 {
	return N.site(0.4, 0, [3]float64{})
}

// BackboneCenterPosition returns the backbone centroid for the given
// geometry model, with the same formulas as BackboneCenterPositions.
func (N *Nucleotide) BackboneCenterPosition(model string) ([3]float64, error) {
	switch model {
	case OxDNA2:
		return N.site(-0.34, 0.3408, N.A2()), nil
	case RNA:
		return N.site(-0.4, 0.2, N.A3()), nil
	case OxDNA1:
		return N.site(-0.4, 0, [3]float64{}), nil
	}
	return [3]float64{}, newGeneralError(fmt.Sprintf("unknown backbone model %q", model), "", "BackboneCenterPosition")
}

func (N *Nucleotide) String() string {
	return fmt.Sprintf("<Nucleotide time=%d index=%d>", N.conf.Time, N.index)
}
