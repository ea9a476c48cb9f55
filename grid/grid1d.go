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

	"github.com/ctessum/sparse"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// DefaultProjection is the projection of grids created without one.
const DefaultProjection = "NON-UTM"

// Grid1D is an equidistant, node-based 1D grid. When the axis was cut
// out of a 2D or 3D grid it remembers the position of each node in the
// parent space.
type Grid1D struct {
	axis        Axis
	projection  string
	origin      r2.Point
	orientation float64
	axisName    string

	nodes    []r3.Vector
	nodeDims int // 2 or 3 if nodes is set
}

// Grid1DOptions holds the optional attributes of a Grid1D.
type Grid1DOptions struct {
	Projection  string   // defaults to DefaultProjection
	Origin      r2.Point // offset in the parent 2D space
	Orientation float64  // degrees
	AxisName    string   // defaults to "x"

	// NodeCoordinates holds the position of every node in the parent
	// space. Each entry must have 2 or 3 values and all entries must
	// have the same length.
	NodeCoordinates [][]float64
}

// NewGrid1D creates a new 1D grid along axis x.
func NewGrid1D(x AxisSpec, o Grid1DOptions) (*Grid1D, error) {
	name := o.AxisName
	if name == "" {
		name = "x"
	}
	a, err := ParseAxis(name, x)
	if err != nil {
		return nil, err
	}
	nodes, dims, err := parseNodeCoordinates(o.NodeCoordinates, a.N)
	if err != nil {
		return nil, err
	}
	return newGrid1D(a, o.Projection, o.Origin, o.Orientation, o.AxisName, nodes, dims), nil
}

func newGrid1D(a Axis, projection string, origin r2.Point, orientation float64, axisName string, nodes []r3.Vector, nodeDims int) *Grid1D {
	if projection == "" {
		projection = DefaultProjection
	}
	if axisName == "" {
		axisName = "x"
	}
	return &Grid1D{
		axis:        a,
		projection:  projection,
		origin:      origin,
		orientation: orientation,
		axisName:    axisName,
		nodes:       nodes,
		nodeDims:    nodeDims,
	}
}

func parseNodeCoordinates(nc [][]float64, n int) ([]r3.Vector, int, error) {
	if nc == nil {
		return nil, 0, nil
	}
	if len(nc) != n {
		return nil, 0, geometryErrorf("length of node coordinates (%d) must be n (%d)", len(nc), n)
	}
	dims := len(nc[0])
	nodes := make([]r3.Vector, n)
	for i, c := range nc {
		if len(c) != dims || (dims != 2 && dims != 3) {
			return nil, 0, geometryErrorf("node coordinate %d has %d values; all must have 2 or all 3", i, len(c))
		}
		nodes[i] = r3.Vector{X: c[0], Y: c[1]}
		if dims == 3 {
			nodes[i].Z = c[2]
		}
	}
	return nodes, dims, nil
}

// Dims returns 1.
func (g *Grid1D) Dims() int { return 1 }

func (g *Grid1D) geometry() {}

// Axis returns the grid axis.
func (g *Grid1D) Axis() Axis { return g.axis }

// X returns the node coordinates along the axis.
func (g *Grid1D) X() []float64 { return g.axis.Values() }

// Dx returns the grid spacing.
func (g *Grid1D) Dx() float64 { return g.axis.Dx }

// Nx returns the number of grid points.
func (g *Grid1D) Nx() int { return g.axis.N }

// Projection returns the projection string.
func (g *Grid1D) Projection() string { return g.projection }

// Origin returns the offset of the axis in its parent space.
func (g *Grid1D) Origin() r2.Point { return g.origin }

// Orientation returns the orientation in degrees.
func (g *Grid1D) Orientation() float64 { return g.orientation }

// AxisName returns the name of the axis, e.g. "x" or "y".
func (g *Grid1D) AxisName() string { return g.axisName }

// NodeCoordinates returns the position of each node in the parent
// space, or nil if the grid is not embedded in one.
func (g *Grid1D) NodeCoordinates() [][]float64 {
	if g.nodes == nil {
		return nil
	}
	o := make([][]float64, len(g.nodes))
	for i, n := range g.nodes {
		if g.nodeDims == 3 {
			o[i] = []float64{n.X, n.Y, n.Z}
		} else {
			o[i] = []float64{n.X, n.Y}
		}
	}
	return o
}

// FindIndex returns the index of the node closest to x. If two nodes
// are equally close, the lower index is returned.
func (g *Grid1D) FindIndex(x float64) int {
	return nearest(g.X(), x)
}

// FindIndices is the batched form of FindIndex.
func (g *Grid1D) FindIndices(xs []float64) []int {
	v := g.X()
	o := make([]int, len(xs))
	for i, x := range xs {
		o[i] = nearest(v, x)
	}
	return o
}

// SpatialInterpolant returns the indices of the two nodes closest to x,
// nearest first, and their linear interpolation weights. x must lie
// between the two nodes, otherwise ErrOutsideGrid is returned.
func (g *Grid1D) SpatialInterpolant(x float64) (ids [2]int, weights [2]float64, err error) {
	if g.axis.N < 2 {
		return ids, weights, fmt.Errorf("%w: interpolation needs at least 2 nodes", ErrOutsideGrid)
	}
	v := g.X()
	d := make([]float64, len(v))
	for i, vi := range v {
		d[i] = math.Abs(vi - x)
	}
	inds := make([]int, len(d))
	floats.ArgsortStable(d, inds)
	for k := range ids {
		ids[k] = inds[k]
		weights[k] = 1 - d[k]/g.axis.Dx
	}
	if !scalar.EqualWithinAbsOrRel(weights[0]+weights[1], 1, equidistantAbsTol, equidistantRelTol) {
		return ids, weights, fmt.Errorf("%w: %g is not between two nodes", ErrOutsideGrid, x)
	}
	return ids, weights, nil
}

// Interp returns the weighted sum of data at ids along its last axis,
// which must have length Nx. The result has the shape of data without
// its last axis, or shape [1] if data is 1D.
func (g *Grid1D) Interp(data *sparse.DenseArray, ids []int, weights []float64) (*sparse.DenseArray, error) {
	if len(ids) != len(weights) {
		return nil, fmt.Errorf("grid: %d ids but %d weights", len(ids), len(weights))
	}
	nd := len(data.Shape)
	if nd == 0 || data.Shape[nd-1] != g.axis.N {
		return nil, fmt.Errorf("grid: data shape %v does not end with grid length %d", data.Shape, g.axis.N)
	}
	for _, id := range ids {
		if err := checkIndex(id, g.axis.N); err != nil {
			return nil, err
		}
	}
	shape := append([]int{}, data.Shape[:nd-1]...)
	if len(shape) == 0 {
		shape = []int{1}
	}
	o := sparse.ZerosDense(shape...)
	n := g.axis.N
	for r := range o.Elements {
		row := data.Elements[r*n : (r+1)*n]
		var v float64
		for k, id := range ids {
			v += row[id] * weights[k]
		}
		o.Elements[r] = v
	}
	return o, nil
}

// Isel selects the single node i. The result is a Point2D or Point3D
// at the node's position in the parent space, or Undefined if the grid
// has no node coordinates.
func (g *Grid1D) Isel(i int) (Geometry, error) {
	if err := checkIndex(i, g.axis.N); err != nil {
		return nil, err
	}
	if g.nodes == nil {
		return Undefined{}, nil
	}
	n := g.nodes[i]
	if g.nodeDims == 3 {
		return Point3D{Vector: n}, nil
	}
	return Point2D{Point: r2.Point{X: n.X, Y: n.Y}}, nil
}

// IselRange returns a new grid holding the nodes at idx. The selected
// coordinates must be increasing and equidistant.
func (g *Grid1D) IselRange(idx []int) (*Grid1D, error) {
	x, err := take(g.X(), idx)
	if err != nil {
		return nil, err
	}
	a, err := ParseAxis(g.axisName, AxisSpec{Values: x})
	if err != nil {
		return nil, err
	}
	var nodes []r3.Vector
	if g.nodes != nil {
		nodes = make([]r3.Vector, len(idx))
		for k, i := range idx {
			nodes[k] = g.nodes[i]
		}
	}
	return newGrid1D(a, g.projection, g.origin, g.orientation, g.axisName, nodes, g.nodeDims), nil
}

func (g *Grid1D) String() string {
	return fmt.Sprintf("Grid1D (n=%d, dx=%.4g)", g.axis.N, g.axis.Dx)
}
