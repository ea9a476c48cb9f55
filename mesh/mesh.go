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
Package mesh defines quadrilateral meshes built from rectilinear grids and
the interface used to hand them to a mesh writer.
*/
package mesh

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Boundary codes assigned to mesh nodes.
const (
	Interior = 0
	West     = 2
	South    = 3
	East     = 4
	North    = 5
)

// Quantity is the physical quantity and unit of the node z values.
type Quantity struct {
	Name string
	Unit string
}

func (q Quantity) String() string { return fmt.Sprintf("%s [%s]", q.Name, q.Unit) }

// Bathymetry is the quantity of mesh node elevations.
var Bathymetry = Quantity{Name: "Bathymetry", Unit: "meter"}

// Quad is a mesh of quadrilateral elements.
type Quad struct {
	Nodes []r3.Vector
	Codes []int // boundary code of each node

	// Elements holds the node indices of each element, counter-clockwise
	// from the bottom-left corner. Indices start at IndexBase.
	Elements  [][4]int
	IndexBase int

	Projection string
	Quantity   Quantity
}

// Writer persists a mesh.
type Writer interface {
	WriteMesh(*Quad) error
}

// WriterFunc adapts a function to the Writer interface.
type WriterFunc func(*Quad) error

// WriteMesh calls f(m).
func (f WriterFunc) WriteMesh(m *Quad) error { return f(m) }

// ElementTable returns the elements of a structured grid of nx by ny
// nodes, where node (ix, iy) has index iy*nx+ix+indexBase. Elements are
// ordered column by column.
func ElementTable(nx, ny, indexBase int) [][4]int {
	if nx < 2 || ny < 2 {
		return nil
	}
	o := make([][4]int, 0, (nx-1)*(ny-1))
	for ix := 0; ix < nx-1; ix++ {
		for iy := 0; iy < ny-1; iy++ {
			n1 := iy*nx + ix + indexBase
			n2 := (iy+1)*nx + ix + indexBase
			o = append(o, [4]int{n1, n1 + 1, n2 + 1, n2})
		}
	}
	return o
}

// BoundaryCode returns the boundary code of node (ix, iy) in a
// structured grid of nx by ny nodes. Corners take the code of the edge
// that follows them counter-clockwise, except the north-west corner,
// which is North.
func BoundaryCode(ix, iy, nx, ny int) int {
	code := Interior
	if iy == ny-1 {
		code = North
	}
	if ix == nx-1 {
		code = East
	}
	if iy == 0 {
		code = South
	}
	if ix == 0 {
		code = West
	}
	if ix == 0 && iy == ny-1 {
		code = North
	}
	return code
}

// Validate checks that every element refers to existing nodes and that
// there is one code per node.
func (m *Quad) Validate() error {
	if len(m.Codes) != len(m.Nodes) {
		return fmt.Errorf("mesh: %d codes for %d nodes", len(m.Codes), len(m.Nodes))
	}
	for i, e := range m.Elements {
		for _, n := range e {
			if n < m.IndexBase || n-m.IndexBase >= len(m.Nodes) {
				return fmt.Errorf("mesh: element %d refers to node %d; valid range is [%d, %d)",
					i, n, m.IndexBase, len(m.Nodes)+m.IndexBase)
			}
		}
	}
	return nil
}

// Dims returns 2.
func (m *Quad) Dims() int { return 2 }

// Len returns the number of elements.
func (m *Quad) Len() int { return len(m.Elements) }

// Element returns the corner nodes of element i.
func (m *Quad) Element(i int) [4]r3.Vector {
	var o [4]r3.Vector
	for k, n := range m.Elements[i] {
		o[k] = m.Nodes[n-m.IndexBase]
	}
	return o
}

// Centroid returns the mean of the corner nodes of element i.
func (m *Quad) Centroid(i int) r3.Vector {
	var c r3.Vector
	for _, n := range m.Element(i) {
		c = c.Add(n)
	}
	return c.Mul(0.25)
}

// Boundary returns the indices of all nodes with a boundary code,
// starting at IndexBase.
func (m *Quad) Boundary() []int {
	var o []int
	for i, c := range m.Codes {
		if c != Interior {
			o = append(o, i+m.IndexBase)
		}
	}
	return o
}
