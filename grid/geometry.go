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

/*
Package grid holds rectilinear, equidistant 1D, 2D and 3D grids for
georeferencing raster and time series data, and the operations to query,
slice and mesh them.

Grid values are immutable once constructed. Operations that select a
subset of a grid return a Geometry, which is one of *Grid1D, *Grid2D,
*Grid3D, Point2D, Point3D or Undefined. Undefined is returned (and a
warning logged) when a selection cannot be represented as an equidistant
grid, so callers must type-switch on the result:

	g, err := g2.IselRange([]int{0, 2, 5}, 1)
	if err != nil {
		return err
	}
	switch g := g.(type) {
	case *grid.Grid2D:
		...
	case grid.Undefined:
		// skip
	}
*/
package grid

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/sirupsen/logrus"
)

// Geometry describes the spatial layout of a data array.
type Geometry interface {
	// Dims returns the number of spatial dimensions of the geometry.
	// Points and Undefined have zero dimensions.
	Dims() int

	String() string

	geometry()
}

// Make sure all geometries fulfill the interface.
var (
	_ Geometry = &Grid1D{}
	_ Geometry = &Grid2D{}
	_ Geometry = &Grid3D{}
	_ Geometry = Point2D{}
	_ Geometry = Point3D{}
	_ Geometry = Undefined{}
)

// Point2D is a single point in 2D space.
type Point2D struct{ r2.Point }

// Dims returns 0.
func (Point2D) Dims() int { return 0 }

func (p Point2D) String() string { return fmt.Sprintf("Point2D(x=%g, y=%g)", p.X, p.Y) }

func (Point2D) geometry() {}

// Point3D is a single point in 3D space.
type Point3D struct{ r3.Vector }

// Dims returns 0.
func (Point3D) Dims() int { return 0 }

func (p Point3D) String() string {
	return fmt.Sprintf("Point3D(x=%g, y=%g, z=%g)", p.X, p.Y, p.Z)
}

func (Point3D) geometry() {}

// Undefined is the geometry of a selection that cannot be described by
// an equidistant grid or a point.
type Undefined struct{}

// Dims returns 0.
func (Undefined) Dims() int { return 0 }

func (Undefined) String() string { return "Undefined geometry" }

func (Undefined) geometry() {}

// FixedCoordinate is the position along an axis that was removed by
// slicing, e.g. the z value of a horizontal layer taken from a Grid3D.
type FixedCoordinate struct {
	Axis  string
	Value float64
}

func (f FixedCoordinate) String() string { return fmt.Sprintf("%s=%g", f.Axis, f.Value) }

// degrade logs why a selection could not keep its grid and returns
// Undefined.
func degrade(msg string, fields logrus.Fields) Geometry {
	log().WithFields(fields).Warn(msg)
	return Undefined{}
}
