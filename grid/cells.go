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
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// Cell is the polygon of a single Grid2D cell.
type Cell struct {
	geom.Polygonal
	Row, Col int // y and x index of the cell
}

// Cells returns the polygons of all cells of g, with x varying fastest.
// Cell edges are the node coordinates of g.
func (g *Grid2D) Cells() ([]*Cell, error) {
	if g.IsRotated() {
		return nil, notSupportedf("cell polygons are only available if orientation = 0")
	}
	xn := centersToNodes(g.X())
	yn := centersToNodes(g.Y())
	cells := make([]*Cell, 0, g.x.N*g.y.N)
	for iy := 0; iy < g.y.N; iy++ {
		for ix := 0; ix < g.x.N; ix++ {
			b := BoundingBox{Left: xn[ix], Bottom: yn[iy], Right: xn[ix+1], Top: yn[iy+1]}
			cells = append(cells, &Cell{Polygonal: b.Polygon(), Row: iy, Col: ix})
		}
	}
	return cells, nil
}

// CellIndex is a spatial index of the cells of a Grid2D.
type CellIndex struct {
	cells []*Cell
	nx    int
	rtree *rtree.Rtree
}

// NewCellIndex indexes the cells of g.
func NewCellIndex(g *Grid2D) (*CellIndex, error) {
	cells, err := g.Cells()
	if err != nil {
		return nil, err
	}
	idx := &CellIndex{cells: cells, nx: g.x.N, rtree: rtree.NewTree(25, 50)}
	for _, c := range cells {
		idx.rtree.Insert(c)
	}
	return idx, nil
}

// Len returns the number of indexed cells.
func (idx *CellIndex) Len() int { return len(idx.cells) }

// Cell returns the cell at row and col.
func (idx *CellIndex) Cell(row, col int) (*Cell, error) {
	if err := checkIndex(col, idx.nx); err != nil {
		return nil, err
	}
	if err := checkIndex(row, len(idx.cells)/idx.nx); err != nil {
		return nil, err
	}
	return idx.cells[row*idx.nx+col], nil
}

// Overlap returns the row and column indices of the cells that b
// overlaps, sorted by row and then column, and the fraction of the area
// of b that lies in each of them. inGrid is false if b does not overlap
// any cell, and coveredByGrid is true if the fractions sum to 1.
//
// If b has no area, e.g. because it is a point, all cells that it
// touches are returned and share it equally. A point on an edge shared
// by several cells therefore returns all of them.
func (idx *CellIndex) Overlap(b BoundingBox) (rows, cols []int, fracs []float64, inGrid, coveredByGrid bool) {
	p := b.Polygon()
	area := b.Width() * b.Height()
	var hits []*Cell
	var hitFracs []float64
	var areaSum float64
	for _, cI := range idx.rtree.SearchIntersect(b.Bounds()) {
		c := cI.(*Cell)
		if area == 0 {
			hits = append(hits, c)
			continue
		}
		cellArea := c.Intersection(p).Area()
		if cellArea == 0 {
			continue // shares only an edge
		}
		hits = append(hits, c)
		hitFracs = append(hitFracs, cellArea/area)
		areaSum += cellArea
	}
	if len(hits) == 0 {
		return nil, nil, nil, false, false
	}
	if area == 0 {
		hitFracs = make([]float64, len(hits))
		for i := range hitFracs {
			hitFracs[i] = 1 / float64(len(hits))
		}
	}
	order := make([]int, len(hits))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, c := hits[order[i]], hits[order[j]]
		if a.Row != c.Row {
			return a.Row < c.Row
		}
		return a.Col < c.Col
	})
	rows = make([]int, len(hits))
	cols = make([]int, len(hits))
	fracs = make([]float64, len(hits))
	for k, i := range order {
		rows[k], cols[k], fracs[k] = hits[i].Row, hits[i].Col, hitFracs[i]
	}
	coveredByGrid = area == 0 || areaSum/area > 0.9999
	return rows, cols, fracs, true, coveredByGrid
}
