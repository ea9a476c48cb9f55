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

// Package plot renders grid meshes.
package plot

import (
	"fmt"

	"github.com/spatialmodel/eqgrid/mesh"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// XYs implements the gonum.org/v1/plot/plotter.XYer interface.
type XYs []XY

// XY is an x and y value.
type XY struct{ X, Y float64 }

// Len returns the number of X,Y pairs.
func (xys XYs) Len() int {
	return len(xys)
}

// XY return the x and y values at index i, where i < Len()
func (xys XYs) XY(i int) (float64, float64) {
	return xys[i].X, xys[i].Y
}

// MeshEdges returns the outline of each element of m as a closed ring.
func MeshEdges(m *mesh.Quad) []XYs {
	o := make([]XYs, m.Len())
	for i := range o {
		corners := m.Element(i)
		ring := make(XYs, 0, len(corners)+1)
		for _, c := range corners {
			ring = append(ring, XY{X: c.X, Y: c.Y})
		}
		ring = append(ring, ring[0])
		o[i] = ring
	}
	return o
}

// BoundaryNodes returns the positions of the nodes of m that have the
// given boundary code.
func BoundaryNodes(m *mesh.Quad, code int) XYs {
	var o XYs
	for i, c := range m.Codes {
		if c == code {
			o = append(o, XY{X: m.Nodes[i].X, Y: m.Nodes[i].Y})
		}
	}
	return o
}

var codeNames = map[int]string{
	mesh.West:  "west",
	mesh.South: "south",
	mesh.East:  "east",
	mesh.North: "north",
}

// Mesh returns a plot of the element outlines and boundary nodes of m.
func Mesh(m *mesh.Quad) (*gplot.Plot, error) {
	p := gplot.New()
	p.Title.Text = fmt.Sprintf("%d elements (%s)", m.Len(), m.Projection)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	for _, ring := range MeshEdges(m) {
		l, err := plotter.NewLine(ring)
		if err != nil {
			return nil, err
		}
		p.Add(l)
	}
	for _, code := range []int{mesh.West, mesh.South, mesh.East, mesh.North} {
		xys := BoundaryNodes(m, code)
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		p.Add(s)
		p.Legend.Add(codeNames[code], s)
	}
	return p, nil
}

// SaveMesh plots m and saves it to filename. The format is chosen by
// the file extension, e.g. ".png" or ".svg".
func SaveMesh(m *mesh.Quad, width, height vg.Length, filename string) error {
	p, err := Mesh(m)
	if err != nil {
		return err
	}
	return p.Save(width, height, filename)
}
