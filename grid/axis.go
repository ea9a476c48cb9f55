/*
Copyright © 2026 the eqgrid authors.
This file is part of eqgrid.

eqgrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

eqgrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with eqgrid.  If not, see <http://www.gnu.org/licenses/>.
*/

package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Tolerances used when checking that coordinate values are equidistant.
const (
	equidistantAbsTol = 1e-8
	equidistantRelTol = 1e-5
)

// AxisSpec specifies a single grid axis, either by its coordinate
// values or by its start, spacing and number of points. If Values is
// not nil, the other fields are ignored. A zero Dx or N means that the
// value was not provided.
type AxisSpec struct {
	Values []float64 `toml:"values"`
	X0     float64   `toml:"x0"`
	Dx     float64   `toml:"dx"`
	N      int       `toml:"n"`
}

// Axis is an increasing, equidistant axis. The coordinate of point i
// is X0 + i*Dx.
type Axis struct {
	X0 float64 // coordinate of the first point
	Dx float64 // spacing, always positive
	N  int     // number of points, at least 1
}

// ParseAxis validates s and returns the corresponding axis.
// name is used in error messages, e.g. "x" gives "nx must be provided".
func ParseAxis(name string, s AxisSpec) (Axis, error) {
	if s.Values != nil {
		return axisFromValues(name, s.Values)
	}
	if s.N <= 0 {
		return Axis{}, geometryErrorf("n%s must be provided", name)
	}
	if s.Dx == 0 {
		return Axis{}, geometryErrorf("d%s must be provided", name)
	}
	if !(s.Dx > 0) || math.IsInf(s.Dx, 1) {
		return Axis{}, geometryErrorf("d%s must be positive, got %g", name, s.Dx)
	}
	return Axis{X0: s.X0, Dx: s.Dx, N: s.N}, nil
}

func axisFromValues(name string, x []float64) (Axis, error) {
	switch len(x) {
	case 0:
		return Axis{}, geometryErrorf("%s values must not be empty", name)
	case 1:
		return Axis{X0: x[0], Dx: 1, N: 1}, nil
	}
	if !isEquidistant(x) {
		return Axis{}, geometryErrorf("%s values must be equidistant", name)
	}
	if !(x[0] < x[len(x)-1]) {
		return Axis{}, geometryErrorf("%s values must be increasing", name)
	}
	return Axis{X0: x[0], Dx: x[1] - x[0], N: len(x)}, nil
}

// isEquidistant reports whether all consecutive differences in x are
// equal to the first one.
func isEquidistant(x []float64) bool {
	if len(x) < 3 {
		return true
	}
	d0 := x[1] - x[0]
	for i := 2; i < len(x); i++ {
		if !scalar.EqualWithinAbsOrRel(x[i]-x[i-1], d0, equidistantAbsTol, equidistantRelTol) {
			return false
		}
	}
	return true
}

// uniformStride returns the common difference of idx. ok is false if
// idx is not strictly increasing with a constant step. A single index
// has stride 1.
func uniformStride(idx []int) (stride int, ok bool) {
	if len(idx) < 2 {
		return 1, true
	}
	stride = idx[1] - idx[0]
	if stride < 1 {
		return stride, false
	}
	for i := 2; i < len(idx); i++ {
		if idx[i]-idx[i-1] != stride {
			return stride, false
		}
	}
	return stride, true
}

// Values returns the coordinates of the axis points.
func (a Axis) Values() []float64 {
	if a.N <= 0 {
		return nil
	}
	v := make([]float64, a.N)
	if a.N == 1 {
		v[0] = a.X0
		return v
	}
	return floats.Span(v, a.X0, a.End())
}

// At returns the coordinate of point i.
func (a Axis) At(i int) float64 { return a.X0 + float64(i)*a.Dx }

// End returns the coordinate of the last point.
func (a Axis) End() float64 { return a.At(a.N - 1) }

func (a Axis) String() string {
	return fmt.Sprintf("n=%d points from %g to %g with d=%g", a.N, a.X0, a.End(), a.Dx)
}

// take returns the coordinates of v at idx, checking the bounds.
func take(v []float64, idx []int) ([]float64, error) {
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: empty index selection", ErrIndex)
	}
	o := make([]float64, len(idx))
	for k, i := range idx {
		if err := checkIndex(i, len(v)); err != nil {
			return nil, err
		}
		o[k] = v[i]
	}
	return o, nil
}

// offset adds c to every element of v in place and returns v.
func offset(v []float64, c float64) []float64 {
	floats.AddConst(c, v)
	return v
}

// nearest returns the index of the value in v closest to x, choosing
// the lowest index on ties.
func nearest(v []float64, x float64) int {
	d := make([]float64, len(v))
	for i, vi := range v {
		d[i] = (vi - x) * (vi - x)
	}
	return floats.MinIdx(d)
}
