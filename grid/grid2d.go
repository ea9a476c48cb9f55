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
	"sync"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/eqgrid/mesh"
)

// rotationTol is the smallest orientation, in degrees, at which a grid
// is considered rotated.
const rotationTol = 1e-5

// OriginMode specifies how a Grid2D treats its origin when a sub-grid
// is selected from it.
type OriginMode int

const (
	// DefaultOrigin means the origin was not chosen by the user. Slicing
	// an unrotated, non-spectral grid moves the start of the selection
	// into the origin so that the local axes of the result start at 0.
	DefaultOrigin OriginMode = iota

	// ExplicitOrigin means the origin was given by the user and is kept
	// unchanged by slicing; the start of the selection stays in the
	// axis start coordinates.
	ExplicitOrigin
)

func (m OriginMode) String() string {
	switch m {
	case DefaultOrigin:
		return "default"
	case ExplicitOrigin:
		return "explicit"
	default:
		return fmt.Sprintf("OriginMode(%d)", int(m))
	}
}

// Grid2D is an equidistant, cell-centered 2D grid. X and Y return the
// coordinates of the cell centers; the cell with index (i, j) is
// centered at (X()[i], Y()[j]).
//
// Grids are created with NewGrid2D, NewGrid2DInBBox or Grid2DConfig.Build.
// The zero value is an empty grid without cell centers.
type Grid2D struct {
	x, y        Axis
	projection  string
	origin      r2.Point
	originMode  OriginMode
	orientation float64
	spectral    bool
	axisNames   [2]string
	fixed       *FixedCoordinate

	mesh *meshgrid
}

// meshgrid holds the lazily computed cell center coordinates.
type meshgrid struct {
	once sync.Once
	xy   []r2.Point
}

// Grid2DOptions holds the optional attributes of a Grid2D.
type Grid2DOptions struct {
	Projection  string // defaults to DefaultProjection
	Origin      r2.Point
	OriginMode  OriginMode
	Orientation float64 // degrees

	// Spectral specifies that the x axis is a logarithmic frequency
	// axis. X0 is then the first frequency and Dx the ratio between
	// consecutive frequencies.
	Spectral bool

	AxisNames [2]string // defaults to "x" and "y"
}

// BBoxSpacing holds the optional spacing and number of cells used to
// fill a bounding box. Zero values are inferred.
type BBoxSpacing struct {
	Dx, Dy float64
	Nx, Ny int
}

// NewGrid2D creates a new 2D grid from two independent axes. If y has
// neither values nor spacing, it uses the spacing of x.
func NewGrid2D(x, y AxisSpec, o Grid2DOptions) (*Grid2D, error) {
	names := axisNames(o.AxisNames)
	xa, err := ParseAxis(names[0], x)
	if err != nil {
		return nil, err
	}
	if y.Values == nil && y.Dx == 0 {
		y.Dx = xa.Dx
	}
	ya, err := ParseAxis(names[1], y)
	if err != nil {
		return nil, err
	}
	return newGrid2D(xa, ya, o), nil
}

// NewGrid2DInBBox creates a new 2D grid whose cells fill bounding box b.
// The bounding box is the outer edge of the cells, not the cell centers.
//
// If neither spacing nor number of cells is given, the shorter side of
// b gets 10 cells and the longer side gets proportionally more. If only
// the number of cells along one axis is given, the other is inferred
// from the aspect ratio of b. Dy defaults to Dx. When a spacing is given
// the number of cells is rounded up and the box is enlarged around its
// center to fit a whole number of cells.
func NewGrid2DInBBox(b BoundingBox, s BBoxSpacing, o Grid2DOptions) (*Grid2D, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if o.Spectral {
		return nil, geometryErrorf("spectral grids cannot be created in a bounding box")
	}
	if s.Nx < 0 || s.Ny < 0 {
		return nil, geometryErrorf("number of cells must not be negative (nx=%d, ny=%d)", s.Nx, s.Ny)
	}
	xr, yr := b.Width(), b.Height()
	nx, ny := s.Nx, s.Ny
	if s.Dx == 0 && s.Dy == 0 && nx == 0 && ny == 0 {
		if xr <= 0 || yr <= 0 {
			return nil, geometryErrorf("cannot infer cells of %v with zero extent", b)
		}
		if xr <= yr {
			nx = 10
			ny = ceilInt(float64(nx) * yr / xr)
		} else {
			ny = 10
			nx = ceilInt(float64(ny) * xr / yr)
		}
	}
	if nx == 0 && ny != 0 && yr > 0 {
		nx = ceilInt(float64(ny) * xr / yr)
	}
	if ny == 0 && nx != 0 && xr > 0 {
		ny = ceilInt(float64(nx) * yr / xr)
	}
	dx, dy := s.Dx, s.Dy
	if dy == 0 {
		dy = dx
	}
	names := axisNames(o.AxisNames)
	xa, err := axisInBBox(names[0], b.Left, b.Right, dx, nx)
	if err != nil {
		return nil, err
	}
	ya, err := axisInBBox(names[1], b.Bottom, b.Top, dy, ny)
	if err != nil {
		return nil, err
	}
	return newGrid2D(xa, ya, o), nil
}

// axisInBBox returns the cell-centered axis that covers [left, right]
// with spacing dx or, if dx is zero, with n cells.
func axisInBBox(name string, left, right, dx float64, n int) (Axis, error) {
	xr := right - left
	switch {
	case dx < 0:
		return Axis{}, geometryErrorf("d%s must be positive, got %g", name, dx)
	case dx > 0:
		n = ceilInt(xr / dx)
		center := left + xr/2
		left = center - dx*float64(n)/2
	case n > 0:
		dx = xr / float64(n)
	default:
		return Axis{}, geometryErrorf("provide either d%s or n%s", name, name)
	}
	if n < 1 || !(dx > 0) {
		return Axis{}, geometryErrorf("bounding box has zero extent along %s", name)
	}
	return Axis{X0: left + dx/2, Dx: dx, N: n}, nil
}

// ceilInt rounds v up, ignoring floating point noise just above an
// integer. Any positive v gives at least 1.
func ceilInt(v float64) int {
	if !(v > 0) {
		return 0
	}
	n := int(math.Ceil(v))
	if r := math.Round(v); math.Abs(v-r) <= 1e-9*math.Max(1, v) {
		n = int(r)
	}
	if n < 1 {
		return 1
	}
	return n
}

func axisNames(n [2]string) [2]string {
	if n[0] == "" {
		n[0] = "x"
	}
	if n[1] == "" {
		n[1] = "y"
	}
	return n
}

func newGrid2D(x, y Axis, o Grid2DOptions) *Grid2D {
	if o.Projection == "" {
		o.Projection = DefaultProjection
	}
	return &Grid2D{
		x:           x,
		y:           y,
		projection:  o.Projection,
		origin:      o.Origin,
		originMode:  o.OriginMode,
		orientation: o.Orientation,
		spectral:    o.Spectral,
		axisNames:   axisNames(o.AxisNames),
		mesh:        new(meshgrid),
	}
}

// clone returns a copy of g with an empty meshgrid cache.
func (g *Grid2D) clone() *Grid2D {
	c := *g
	c.mesh = new(meshgrid)
	return &c
}

// Dims returns 2.
func (g *Grid2D) Dims() int { return 2 }

func (g *Grid2D) geometry() {}

// XAxis returns the x axis in local coordinates.
func (g *Grid2D) XAxis() Axis { return g.x }

// YAxis returns the y axis in local coordinates.
func (g *Grid2D) YAxis() Axis { return g.y }

// Dx returns the x spacing.
func (g *Grid2D) Dx() float64 { return g.x.Dx }

// Dy returns the y spacing.
func (g *Grid2D) Dy() float64 { return g.y.Dx }

// Nx returns the number of cells along x.
func (g *Grid2D) Nx() int { return g.x.N }

// Ny returns the number of cells along y.
func (g *Grid2D) Ny() int { return g.y.N }

// Projection returns the projection string.
func (g *Grid2D) Projection() string { return g.projection }

// Origin returns the grid origin.
func (g *Grid2D) Origin() r2.Point { return g.origin }

// OriginMode returns whether the origin was chosen by the user.
func (g *Grid2D) OriginMode() OriginMode { return g.originMode }

// Orientation returns the grid orientation in degrees.
func (g *Grid2D) Orientation() float64 { return g.orientation }

// IsRotated reports whether the orientation is not zero.
func (g *Grid2D) IsRotated() bool { return math.Abs(g.orientation) > rotationTol }

// IsSpectral reports whether the x axis is a logarithmic frequency axis.
func (g *Grid2D) IsSpectral() bool { return g.spectral }

// AxisNames returns the names of the x and y axes.
func (g *Grid2D) AxisNames() [2]string { return g.axisNames }

// Fixed returns the coordinate that was removed when g was sliced out
// of a Grid3D.
func (g *Grid2D) Fixed() (FixedCoordinate, bool) {
	if g.fixed == nil {
		return FixedCoordinate{}, false
	}
	return *g.fixed, true
}

// WithSpectral returns a copy of g with the spectral mode set to on.
func (g *Grid2D) WithSpectral(on bool) *Grid2D {
	c := g.clone()
	c.spectral = on
	return c
}

// X returns the x coordinates of the cell centers. The origin is added
// unless the grid is rotated, in which case the coordinates are local
// to the rotated frame. For spectral grids X returns the frequencies.
func (g *Grid2D) X() []float64 {
	if g.spectral {
		return LogarithmicF(g.x.N, g.x.X0, g.x.Dx)
	}
	v := g.x.Values()
	if g.IsRotated() {
		return v
	}
	return offset(v, g.origin.X)
}

// Y returns the y coordinates of the cell centers.
func (g *Grid2D) Y() []float64 {
	v := g.y.Values()
	if g.IsRotated() {
		return v
	}
	return offset(v, g.origin.Y)
}

// LogarithmicF returns n logarithmically spaced frequencies starting
// at f0, each freqFactor times the previous one.
func LogarithmicF(n int, f0, freqFactor float64) []float64 {
	f := make([]float64, n)
	for i := range f {
		f[i] = f0 * math.Pow(freqFactor, float64(i))
	}
	return f
}

// XY returns the coordinates of all cell centers, with x varying
// fastest.
func (g *Grid2D) XY() []r2.Point {
	if g.mesh == nil {
		return meshgridPoints(g.X(), g.Y())
	}
	g.mesh.once.Do(func() {
		g.mesh.xy = meshgridPoints(g.X(), g.Y())
	})
	return append([]r2.Point(nil), g.mesh.xy...)
}

func meshgridPoints(x, y []float64) []r2.Point {
	o := make([]r2.Point, 0, len(x)*len(y))
	for _, yj := range y {
		for _, xi := range x {
			o = append(o, r2.Point{X: xi, Y: yj})
		}
	}
	return o
}

// BBox returns the outer edges of the grid cells. It returns
// ErrNotSupported for rotated and spectral grids.
func (g *Grid2D) BBox() (BoundingBox, error) {
	if g.IsRotated() {
		return BoundingBox{}, notSupportedf("bounding box is only available if orientation = 0")
	}
	if g.spectral {
		return BoundingBox{}, notSupportedf("bounding box is not available for spectral grids")
	}
	return BoundingBox{
		Left:   g.origin.X + g.x.X0 - g.x.Dx/2,
		Bottom: g.origin.Y + g.y.X0 - g.y.Dx/2,
		Right:  g.origin.X + g.x.End() + g.x.Dx/2,
		Top:    g.origin.Y + g.y.End() + g.y.Dx/2,
	}, nil
}

// FoldOrigin returns a copy of g whose local axes start at 0, with the
// previous axis starts added to the origin. X and Y are unchanged.
func (g *Grid2D) FoldOrigin() (*Grid2D, error) {
	if g.IsRotated() {
		return nil, notSupportedf("origin can only be shifted if orientation = 0")
	}
	if g.spectral {
		return nil, notSupportedf("origin cannot be shifted for spectral grids")
	}
	c := g.clone()
	c.origin = r2.Point{X: g.origin.X + g.x.X0, Y: g.origin.Y + g.y.X0}
	c.x.X0, c.y.X0 = 0, 0
	return c, nil
}

// Contains reports for each point whether it lies within the bounding
// box of g, edges included.
func (g *Grid2D) Contains(points []r2.Point) ([]bool, error) {
	b, err := g.BBox()
	if err != nil {
		return nil, err
	}
	o := make([]bool, len(points))
	for i, p := range points {
		o[i] = b.Contains(p)
	}
	return o, nil
}

// FindIndexX returns the index of the cell center nearest to x.
func (g *Grid2D) FindIndexX(x float64) int { return nearest(g.X(), x) }

// FindIndexY returns the index of the cell center nearest to y.
func (g *Grid2D) FindIndexY(y float64) int { return nearest(g.Y(), y) }

// FindIndexXY returns the indices (ii[k], jj[k]) of the cell nearest to
// each point. Points outside the grid get index (-1, -1).
func (g *Grid2D) FindIndexXY(points []r2.Point) (ii, jj []int, err error) {
	inside, err := g.Contains(points)
	if err != nil {
		return nil, nil, err
	}
	x, y := g.X(), g.Y()
	ii = make([]int, len(points))
	jj = make([]int, len(points))
	for k, p := range points {
		if !inside[k] {
			ii[k], jj[k] = -1, -1
			continue
		}
		ii[k] = nearest(x, p.X)
		jj[k] = nearest(y, p.Y)
	}
	return ii, jj, nil
}

// IndexRange is the half-open range of indices [Start, Stop).
type IndexRange struct {
	Start, Stop int
}

// Len returns the number of indices in r.
func (r IndexRange) Len() int { return r.Stop - r.Start }

// Indices returns the indices in r.
func (r IndexRange) Indices() []int {
	o := make([]int, 0, r.Len())
	for i := r.Start; i < r.Stop; i++ {
		o = append(o, i)
	}
	return o
}

// FindIndexArea returns the ranges of x and y indices of all cells whose
// centers lie within b. If no cell center lies within b, ok is false
// and a warning is logged.
func (g *Grid2D) FindIndexArea(b BoundingBox) (xr, yr IndexRange, ok bool) {
	x, y := g.X(), g.Y()
	if b.Left > x[len(x)-1] || b.Bottom > y[len(y)-1] || b.Right < x[0] || b.Top < y[0] {
		log().WithField("area", b.String()).Warn("grid: no elements in area")
		return IndexRange{}, IndexRange{}, false
	}
	xr, okx := rangeWithin(x, b.Left, b.Right)
	yr, oky := rangeWithin(y, b.Bottom, b.Top)
	if !okx || !oky {
		log().WithField("area", b.String()).Warn("grid: no elements in area")
		return IndexRange{}, IndexRange{}, false
	}
	return xr, yr, true
}

// rangeWithin returns the range of the increasing values v that lie in
// [lo, hi].
func rangeWithin(v []float64, lo, hi float64) (IndexRange, bool) {
	r := IndexRange{Start: -1}
	for i, vi := range v {
		if vi < lo || vi > hi {
			continue
		}
		if r.Start < 0 {
			r.Start = i
		}
		r.Stop = i + 1
	}
	return r, r.Start >= 0
}

// Query selects one way of looking up indices in a Grid2D. Exactly one
// of the following must be set: X alone, Y alone, X and Y together,
// Coords, or Area.
type Query struct {
	X, Y   *float64
	Coords []r2.Point
	Area   *BoundingBox
}

// Index is the result of a Query. I holds x indices and J y indices;
// an axis that was not queried is nil. Both are nil when an Area query
// does not overlap the grid.
type Index struct {
	I, J []int
}

// FindIndex looks up the indices selected by q.
//
//   - X only: the nearest x index.
//   - Y only: the nearest y index.
//   - X and Y, or Coords: the nearest (i, j) of each point, (-1, -1)
//     for points outside the grid.
//   - Area: all indices of the cells whose centers lie in the area.
func (g *Grid2D) FindIndex(q Query) (Index, error) {
	conflict := func() (Index, error) {
		return Index{}, geometryErrorf("x, y, coords and area cannot be given at the same time")
	}
	switch {
	case q.X != nil || q.Y != nil:
		if q.Coords != nil || q.Area != nil {
			return conflict()
		}
		switch {
		case q.X != nil && q.Y != nil:
			ii, jj, err := g.FindIndexXY([]r2.Point{{X: *q.X, Y: *q.Y}})
			return Index{I: ii, J: jj}, err
		case q.X != nil:
			return Index{I: []int{g.FindIndexX(*q.X)}}, nil
		default:
			return Index{J: []int{g.FindIndexY(*q.Y)}}, nil
		}
	case q.Coords != nil:
		if q.Area != nil {
			return conflict()
		}
		ii, jj, err := g.FindIndexXY(q.Coords)
		return Index{I: ii, J: jj}, err
	case q.Area != nil:
		xr, yr, ok := g.FindIndexArea(*q.Area)
		if !ok {
			return Index{}, nil
		}
		return Index{I: xr.Indices(), J: yr.Indices()}, nil
	default:
		return Index{}, geometryErrorf("one of x, y, coords or area must be given")
	}
}

// Isel removes one dimension by selecting index i along axis, where
// axis 0 is y and axis 1 is x. Selecting a y row returns a Grid1D along
// x and selecting an x column returns a Grid1D along y; each node of the
// result remembers its 2D position. A spectral x axis cannot form a
// Grid1D, so selecting a row of a spectral grid returns Undefined.
func (g *Grid2D) Isel(i, axis int) (Geometry, error) {
	switch axis {
	case 0:
		if err := checkIndex(i, g.y.N); err != nil {
			return nil, err
		}
		if g.spectral {
			return degrade("grid: spectral axis is not equidistant; returning undefined geometry",
				logrus.Fields{"axis": axis, "index": i}), nil
		}
		x, yi := g.X(), g.Y()[i]
		nodes := make([]r3.Vector, len(x))
		for k, xk := range x {
			nodes[k] = r3.Vector{X: xk, Y: yi}
		}
		a := Axis{X0: x[0], Dx: g.x.Dx, N: g.x.N}
		return newGrid1D(a, g.projection, r2.Point{}, 0, g.axisNames[0], nodes, 2), nil
	case 1:
		if err := checkIndex(i, g.x.N); err != nil {
			return nil, err
		}
		xi, y := g.X()[i], g.Y()
		nodes := make([]r3.Vector, len(y))
		for k, yk := range y {
			nodes[k] = r3.Vector{X: xi, Y: yk}
		}
		a := Axis{X0: y[0], Dx: g.y.Dx, N: g.y.N}
		return newGrid1D(a, g.projection, r2.Point{}, 0, g.axisNames[1], nodes, 2), nil
	default:
		return nil, fmt.Errorf("%w: axis %d; must be 0 (y) or 1 (x)", ErrIndex, axis)
	}
}

// IselRange selects the indices idx along axis (0 for y, 1 for x). idx
// must be increasing with a constant step; otherwise the selection is
// not equidistant and Undefined is returned with a warning. The
// coordinates of the resulting grid equal the selected coordinates of g.
//
// For an unrotated, non-spectral grid with DefaultOrigin, the start of
// the selection is moved into the origin so the local axes start at 0.
// Otherwise the origin is kept and the start stays in the local axes.
func (g *Grid2D) IselRange(idx []int, axis int) (Geometry, error) {
	var n int
	switch axis {
	case 0:
		n = g.y.N
	case 1:
		n = g.x.N
	default:
		return nil, fmt.Errorf("%w: axis %d; must be 0 (y) or 1 (x)", ErrIndex, axis)
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: empty index selection", ErrIndex)
	}
	for _, i := range idx {
		if err := checkIndex(i, n); err != nil {
			return nil, err
		}
	}
	stride, ok := uniformStride(idx)
	if !ok {
		return degrade("grid: axis not equidistant; returning undefined geometry",
			logrus.Fields{"axis": axis, "index": idx}), nil
	}
	c := g.clone()
	if axis == 1 {
		if g.spectral {
			c.x = Axis{
				X0: g.x.X0 * math.Pow(g.x.Dx, float64(idx[0])),
				Dx: math.Pow(g.x.Dx, float64(stride)),
				N:  len(idx),
			}
		} else {
			c.x = subAxis(g.x, idx[0], stride, len(idx))
		}
	} else {
		c.y = subAxis(g.y, idx[0], stride, len(idx))
	}
	if c.originMode == DefaultOrigin && !c.IsRotated() && !c.spectral {
		c.origin = r2.Point{X: c.origin.X + c.x.X0, Y: c.origin.Y + c.y.X0}
		c.x.X0, c.y.X0 = 0, 0
	}
	return c, nil
}

func subAxis(a Axis, start, stride, n int) Axis {
	return Axis{X0: a.At(start), Dx: a.Dx * float64(stride), N: n}
}

// centersToNodes returns the cell edges of cells centered at x. Inner
// edges are placed midway between centers and the outer edges half a
// cell beyond the first and last centers. A single center gets edges
// at ±0.5.
func centersToNodes(x []float64) []float64 {
	n := len(x)
	if n == 1 {
		return []float64{x[0] - 0.5, x[0] + 0.5}
	}
	o := make([]float64, n+1)
	o[0] = x[0] - (x[1]-x[0])/2
	for i := 1; i < n; i++ {
		o[i] = (x[i-1] + x[i]) / 2
	}
	o[n] = x[n-1] + (x[n-1]-x[n-2])/2
	return o
}

// NodeCoordinates returns the coordinates of the cell corners, with x
// varying fastest. There are (Nx+1)*(Ny+1) nodes.
func (g *Grid2D) NodeCoordinates() []r2.Point {
	return meshgridPoints(centersToNodes(g.X()), centersToNodes(g.Y()))
}

// MeshOptions holds the options for converting a Grid2D to a mesh.
type MeshOptions struct {
	// Projection of the mesh; defaults to "LONG/LAT".
	Projection string

	// Z holds the bathymetry of every node. If nil, all nodes get Z0.
	Z  []float64
	Z0 float64
}

// DefaultMeshProjection is the projection of meshes created without one.
const DefaultMeshProjection = "LONG/LAT"

// ToMesh returns a quadrilateral mesh with a node at each cell corner
// and an element for each cell. Spectral grids have no equidistant nodes
// along x and return ErrNotSupported.
func (g *Grid2D) ToMesh(o MeshOptions) (*mesh.Quad, error) {
	if g.spectral {
		return nil, notSupportedf("mesh is not available for spectral grids")
	}
	xn := centersToNodes(g.X())
	yn := centersToNodes(g.Y())
	nx, ny := len(xn), len(yn)
	n := nx * ny
	if o.Z != nil && len(o.Z) != n {
		return nil, geometryErrorf("z must either be scalar or have length of nodes ((nx+1)*(ny+1) = %d), got %d", n, len(o.Z))
	}
	if o.Projection == "" {
		o.Projection = DefaultMeshProjection
	}
	m := &mesh.Quad{
		Nodes:      make([]r3.Vector, n),
		Codes:      make([]int, n),
		Elements:   mesh.ElementTable(nx, ny, 1),
		IndexBase:  1,
		Projection: o.Projection,
		Quantity:   mesh.Bathymetry,
	}
	for j, y := range yn {
		for i, x := range xn {
			k := j*nx + i
			z := o.Z0
			if o.Z != nil {
				z = o.Z[k]
			}
			m.Nodes[k] = r3.Vector{X: x, Y: y, Z: z}
			m.Codes[k] = mesh.BoundaryCode(i, j, nx, ny)
		}
	}
	return m, nil
}

// WriteMesh converts g to a mesh and hands it to w.
func (g *Grid2D) WriteMesh(w mesh.Writer, o MeshOptions) error {
	m, err := g.ToMesh(o)
	if err != nil {
		return err
	}
	return w.WriteMesh(m)
}

func (g *Grid2D) String() string {
	return fmt.Sprintf("Grid2D (ny=%d, nx=%d)", g.y.N, g.x.N)
}
