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

	"github.com/ctessum/geom"
	"github.com/golang/geo/r2"
)

// BoundingBox is an axis-aligned rectangle.
// Left <= Right and Bottom <= Top.
type BoundingBox struct {
	Left, Bottom, Right, Top float64
}

// NewBoundingBox returns a bounding box, or an error if left > right or
// bottom > top.
func NewBoundingBox(left, bottom, right, top float64) (BoundingBox, error) {
	b := BoundingBox{Left: left, Bottom: bottom, Right: right, Top: top}
	if err := b.validate(); err != nil {
		return BoundingBox{}, err
	}
	return b, nil
}

// BoundingBoxFromBounds converts a geom.Bounds to a BoundingBox.
func BoundingBoxFromBounds(b *geom.Bounds) BoundingBox {
	return BoundingBox{Left: b.Min.X, Bottom: b.Min.Y, Right: b.Max.X, Top: b.Max.Y}
}

func (b BoundingBox) validate() error {
	if b.Left > b.Right {
		return geometryErrorf("invalid x axis, left: %g must be smaller than right: %g", b.Left, b.Right)
	}
	if b.Bottom > b.Top {
		return geometryErrorf("invalid y axis, bottom: %g must be smaller than top: %g", b.Bottom, b.Top)
	}
	return nil
}

// Width returns Right - Left.
func (b BoundingBox) Width() float64 { return b.Right - b.Left }

// Height returns Top - Bottom.
func (b BoundingBox) Height() float64 { return b.Top - b.Bottom }

// Contains reports whether p is within b. Points on the edges are
// considered within.
func (b BoundingBox) Contains(p r2.Point) bool {
	return b.Left <= p.X && p.X <= b.Right && b.Bottom <= p.Y && p.Y <= b.Top
}

// Overlaps reports whether b and o share any point, including edges.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return b.Left <= o.Right && o.Left <= b.Right && b.Bottom <= o.Top && o.Bottom <= b.Top
}

// Bounds returns b as a geom.Bounds.
func (b BoundingBox) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: b.Left, Y: b.Bottom},
		Max: geom.Point{X: b.Right, Y: b.Top},
	}
}

// Polygon returns b as a closed, counter-clockwise polygon.
func (b BoundingBox) Polygon() geom.Polygon {
	return geom.Polygon([]geom.Path{{
		{X: b.Left, Y: b.Bottom}, {X: b.Right, Y: b.Bottom},
		{X: b.Right, Y: b.Top}, {X: b.Left, Y: b.Top}, {X: b.Left, Y: b.Bottom}}})
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("BoundingBox(left=%g, bottom=%g, right=%g, top=%g)", b.Left, b.Bottom, b.Right, b.Top)
}
