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

	"github.com/golang/geo/r2"
	"github.com/sirupsen/logrus"
)

// Grid3D is an equidistant 3D grid. The origin applies to the x and y
// axes only; z is vertical.
type Grid3D struct {
	x, y, z     Axis
	projection  string
	origin      r2.Point
	orientation float64
}

// Grid3DOptions holds the optional attributes of a Grid3D.
type Grid3DOptions struct {
	Projection  string // defaults to DefaultProjection
	Origin      r2.Point
	Orientation float64 // degrees
}

// NewGrid3D creates a new 3D grid from three independent axes.
func NewGrid3D(x, y, z AxisSpec, o Grid3DOptions) (*Grid3D, error) {
	xa, err := ParseAxis("x", x)
	if err != nil {
		return nil, err
	}
	ya, err := ParseAxis("y", y)
	if err != nil {
		return nil, err
	}
	za, err := ParseAxis("z", z)
	if err != nil {
		return nil, err
	}
	if o.Projection == "" {
		o.Projection = DefaultProjection
	}
	return &Grid3D{x: xa, y: ya, z: za, projection: o.Projection, origin: o.Origin, orientation: o.Orientation}, nil
}

// Dims returns 3.
func (g *Grid3D) Dims() int { return 3 }

func (g *Grid3D) geometry() {}

// X returns the local x coordinates; the origin is not applied.
func (g *Grid3D) X() []float64 { return g.x.Values() }

// Y returns the local y coordinates; the origin is not applied.
func (g *Grid3D) Y() []float64 { return g.y.Values() }

// Z returns the z coordinates.
func (g *Grid3D) Z() []float64 { return g.z.Values() }

// XAxis returns the x axis.
func (g *Grid3D) XAxis() Axis { return g.x }

// YAxis returns the y axis.
func (g *Grid3D) YAxis() Axis { return g.y }

// ZAxis returns the z axis.
func (g *Grid3D) ZAxis() Axis { return g.z }

// Projection returns the projection string.
func (g *Grid3D) Projection() string { return g.projection }

// Origin returns the horizontal origin.
func (g *Grid3D) Origin() r2.Point { return g.origin }

// Orientation returns the orientation in degrees.
func (g *Grid3D) Orientation() float64 { return g.orientation }

// FindIndex is not supported for 3D grids.
func (g *Grid3D) FindIndex() error {
	return notSupportedf("find index is not available for Grid3D")
}

// axisOf returns the axis selected by an Isel axis number: 0 is z, 1 is
// y and 2 is x.
func (g *Grid3D) axisOf(axis int) (*Axis, error) {
	switch axis {
	case 0:
		return &g.z, nil
	case 1:
		return &g.y, nil
	case 2:
		return &g.x, nil
	default:
		return nil, fmt.Errorf("%w: axis %d; must be 0 (z), 1 (y) or 2 (x)", ErrIndex, axis)
	}
}

// Isel removes one dimension by selecting index i along axis, where
// axis 0 is z, 1 is y and 2 is x. The result is a Grid2D in global
// horizontal coordinates that records the removed coordinate in Fixed.
func (g *Grid3D) Isel(i, axis int) (Geometry, error) {
	a, err := g.axisOf(axis)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(i, a.N); err != nil {
		return nil, err
	}
	xg := Axis{X0: g.x.X0 + g.origin.X, Dx: g.x.Dx, N: g.x.N}
	yg := Axis{X0: g.y.X0 + g.origin.Y, Dx: g.y.Dx, N: g.y.N}
	o := Grid2DOptions{Projection: g.projection}
	var g2 *Grid2D
	switch axis {
	case 0:
		g2 = newGrid2D(xg, yg, o)
		g2.fixed = &FixedCoordinate{Axis: "z", Value: g.z.At(i)}
	case 1:
		o.AxisNames = [2]string{"x", "z"}
		g2 = newGrid2D(xg, g.z, o)
		g2.fixed = &FixedCoordinate{Axis: "y", Value: yg.At(i)}
	default:
		o.AxisNames = [2]string{"y", "z"}
		g2 = newGrid2D(yg, g.z, o)
		g2.fixed = &FixedCoordinate{Axis: "x", Value: xg.At(i)}
	}
	return g2, nil
}

// IselRange selects the indices idx along axis (0 for z, 1 for y, 2
// for x). If idx does not have a constant step the selection is not
// equidistant and Undefined is returned with a warning.
func (g *Grid3D) IselRange(idx []int, axis int) (Geometry, error) {
	a, err := g.axisOf(axis)
	if err != nil {
		return nil, err
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: empty index selection", ErrIndex)
	}
	for _, i := range idx {
		if err := checkIndex(i, a.N); err != nil {
			return nil, err
		}
	}
	stride, ok := uniformStride(idx)
	if !ok {
		return degrade("grid: axis not equidistant; returning undefined geometry",
			logrus.Fields{"axis": axis, "index": idx}), nil
	}
	c := *g
	sub, _ := c.axisOf(axis)
	*sub = subAxis(*a, idx[0], stride, len(idx))
	return &c, nil
}

// GeometryForLayers returns the geometry of the vertical layers. A nil
// selection returns g, a single layer a horizontal Grid2D, and several
// layers a Grid3D if their z values are increasing and equidistant.
// Otherwise Undefined is returned with a warning.
func (g *Grid3D) GeometryForLayers(layers []int) (Geometry, error) {
	switch len(layers) {
	case 0:
		if layers == nil {
			return g, nil
		}
		return nil, fmt.Errorf("%w: empty layer selection", ErrIndex)
	case 1:
		return g.Isel(layers[0], 0)
	}
	z, err := take(g.Z(), layers)
	if err != nil {
		return nil, err
	}
	if !isEquidistant(z) {
		return degrade("grid: layers are not equidistant; returning undefined geometry",
			logrus.Fields{"layers": layers}), nil
	}
	for k := 1; k < len(z); k++ {
		if !(z[k] > z[k-1]) {
			return degrade("grid: layers are not increasing; returning undefined geometry",
				logrus.Fields{"layers": layers}), nil
		}
	}
	c := *g
	c.z = Axis{X0: z[0], Dx: z[1] - z[0], N: len(z)}
	return &c, nil
}

func (g *Grid3D) String() string {
	return fmt.Sprintf("Grid3D (nz=%d, ny=%d, nx=%d)", g.z.N, g.y.N, g.x.N)
}
