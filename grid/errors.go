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
	"errors"
	"fmt"
)

var (
	// ErrGeometry is returned when a geometry cannot be constructed from
	// the given arguments: non-equidistant or decreasing axes, missing or
	// non-positive spacing, inverted bounding boxes, and conflicting
	// arguments.
	ErrGeometry = errors.New("grid: invalid geometry")

	// ErrNotSupported is returned by operations that are not defined for
	// the receiver, for example the bounding box of a rotated grid.
	ErrNotSupported = errors.New("grid: operation not supported")

	// ErrOutsideGrid is returned when a point cannot be interpolated
	// because it does not lie between two grid nodes.
	ErrOutsideGrid = errors.New("grid: point outside grid")

	// ErrIndex is returned for out of range indices and axes.
	ErrIndex = errors.New("grid: index out of range")
)

func geometryErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrGeometry, fmt.Sprintf(format, args...))
}

func notSupportedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotSupported, fmt.Sprintf(format, args...))
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: index %d, length %d", ErrIndex, i, n)
	}
	return nil
}
