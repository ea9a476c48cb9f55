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
	"reflect"
	"sync"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spatialmodel/eqgrid/mesh"
	"gonum.org/v1/gonum/floats"
)

// captureWarnings routes the package logger to a test hook for the
// duration of the test.
func captureWarnings(t *testing.T) *test.Hook {
	t.Helper()
	l, hook := test.NewNullLogger()
	SetLogger(l)
	t.Cleanup(func() { SetLogger(nil) })
	return hook
}

func expectWarning(t *testing.T, hook *test.Hook) {
	t.Helper()
	e := hook.LastEntry()
	if e == nil || e.Level != logrus.WarnLevel {
		t.Errorf("expected a warning, got %v", e)
	}
	hook.Reset()
}

// bboxGrid returns the 5x5 grid with cell size 2 covering [0,10]x[0,10].
func bboxGrid(t *testing.T) *Grid2D {
	t.Helper()
	g, err := NewGrid2DInBBox(BoundingBox{Left: 0, Bottom: 0, Right: 10, Top: 10}, BBoxSpacing{Dx: 2}, Grid2DOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewGrid2DInBBox(t *testing.T) {
	tests := []struct {
		name   string
		b      BoundingBox
		s      BBoxSpacing
		x, y   []float64
		bounds BoundingBox
	}{
		{
			name:   "dx",
			b:      BoundingBox{Left: 0, Bottom: 0, Right: 10, Top: 10},
			s:      BBoxSpacing{Dx: 2},
			x:      []float64{1, 3, 5, 7, 9},
			y:      []float64{1, 3, 5, 7, 9},
			bounds: BoundingBox{Left: 0, Bottom: 0, Right: 10, Top: 10},
		},
		{
			name:   "dx does not fit",
			b:      BoundingBox{Left: 0, Bottom: 0, Right: 10, Top: 3},
			s:      BBoxSpacing{Dx: 3},
			x:      []float64{0.5, 3.5, 6.5, 9.5},
			y:      []float64{1.5},
			bounds: BoundingBox{Left: -1, Bottom: 0, Right: 11, Top: 3},
		},
		{
			name:   "dx and dy",
			b:      BoundingBox{Left: 0, Bottom: 0, Right: 4, Top: 2},
			s:      BBoxSpacing{Dx: 2, Dy: 1},
			x:      []float64{1, 3},
			y:      []float64{0.5, 1.5},
			bounds: BoundingBox{Left: 0, Bottom: 0, Right: 4, Top: 2},
		},
		{
			name:   "nx and ny",
			b:      BoundingBox{Left: 0, Bottom: 0, Right: 4, Top: 2},
			s:      BBoxSpacing{Nx: 4, Ny: 1},
			x:      []float64{0.5, 1.5, 2.5, 3.5},
			y:      []float64{1},
			bounds: BoundingBox{Left: 0, Bottom: 0, Right: 4, Top: 2},
		},
		{
			name:   "nx only",
			b:      BoundingBox{Left: 0, Bottom: 0, Right: 10, Top: 5},
			s:      BBoxSpacing{Nx: 4},
			x:      []float64{1.25, 3.75, 6.25, 8.75},
			y:      []float64{1.25, 3.75},
			bounds: BoundingBox{Left: 0, Bottom: 0, Right: 10, Top: 5},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g, err := NewGrid2DInBBox(test.b, test.s, Grid2DOptions{})
			if err != nil {
				t.Fatal(err)
			}
			if !floats.EqualApprox(g.X(), test.x, 1e-12) || len(g.X()) != len(test.x) {
				t.Errorf("x: %v != %v", g.X(), test.x)
			}
			if !floats.EqualApprox(g.Y(), test.y, 1e-12) || len(g.Y()) != len(test.y) {
				t.Errorf("y: %v != %v", g.Y(), test.y)
			}
			b, err := g.BBox()
			if err != nil {
				t.Fatal(err)
			}
			if !floats.EqualApprox([]float64{b.Left, b.Bottom, b.Right, b.Top},
				[]float64{test.bounds.Left, test.bounds.Bottom, test.bounds.Right, test.bounds.Top}, 1e-12) {
				t.Errorf("bbox: %v != %v", b, test.bounds)
			}
		})
	}
}

func TestNewGrid2DInBBoxInference(t *testing.T) {
	tests := []struct {
		b      BoundingBox
		nx, ny int
	}{
		{b: BoundingBox{Left: 0, Bottom: 0, Right: 20, Top: 10}, nx: 20, ny: 10},
		{b: BoundingBox{Left: 0, Bottom: 0, Right: 10, Top: 25}, nx: 10, ny: 25},
		{b: BoundingBox{Left: 0, Bottom: 0, Right: 1, Top: 1}, nx: 10, ny: 10},
	}
	for _, test := range tests {
		g, err := NewGrid2DInBBox(test.b, BBoxSpacing{}, Grid2DOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if g.Nx() != test.nx || g.Ny() != test.ny {
			t.Errorf("%v: nx=%d, ny=%d; want %d, %d", test.b, g.Nx(), g.Ny(), test.nx, test.ny)
		}
	}
}

func TestNewGrid2DInBBoxTinyExtent(t *testing.T) {
	g, err := NewGrid2DInBBox(BoundingBox{Left: 0, Bottom: 0, Right: 5e-10, Top: 1}, BBoxSpacing{Dx: 1}, Grid2DOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if g.Nx() != 1 || g.Ny() != 1 {
		t.Errorf("nx=%d, ny=%d", g.Nx(), g.Ny())
	}
	if !floats.EqualApprox(g.X(), []float64{2.5e-10}, 1e-15) {
		t.Errorf("x: %v", g.X())
	}
}

func TestCeilInt(t *testing.T) {
	for v, want := range map[float64]int{
		0: 0, -1: 0, 5e-10: 1, 0.3: 1, 1: 1, 3.0000000001: 3, 3.01: 4, 1e12: 1e12,
	} {
		if n := ceilInt(v); n != want {
			t.Errorf("ceilInt(%g): %d != %d", v, n, want)
		}
	}
}

func TestNewGrid2DInBBoxErrors(t *testing.T) {
	tests := []struct {
		name string
		b    BoundingBox
		s    BBoxSpacing
		o    Grid2DOptions
	}{
		{name: "inverted", b: BoundingBox{Left: 1, Bottom: 0, Right: 0, Top: 1}},
		{name: "zero extent", b: BoundingBox{Left: 0, Bottom: 0, Right: 0, Top: 10}},
		{name: "zero extent with dx", b: BoundingBox{Left: 0, Bottom: 0, Right: 0, Top: 10}, s: BBoxSpacing{Dx: 1}},
		{name: "negative dx", b: BoundingBox{Left: 0, Bottom: 0, Right: 1, Top: 1}, s: BBoxSpacing{Dx: -1}},
		{name: "negative nx", b: BoundingBox{Left: 0, Bottom: 0, Right: 1, Top: 1}, s: BBoxSpacing{Nx: -1}},
		{name: "spectral", b: BoundingBox{Left: 0, Bottom: 0, Right: 1, Top: 1}, o: Grid2DOptions{Spectral: true}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewGrid2DInBBox(test.b, test.s, test.o); !errors.Is(err, ErrGeometry) {
				t.Errorf("error: %v", err)
			}
		})
	}
}

func TestNewGrid2D(t *testing.T) {
	g, err := NewGrid2D(AxisSpec{X0: 0, Dx: 0.5, N: 3}, AxisSpec{N: 2}, Grid2DOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if g.Dy() != 0.5 {
		t.Errorf("dy defaults to dx: %g", g.Dy())
	}
	if !floats.Equal(g.Y(), []float64{0, 0.5}) {
		t.Errorf("y: %v", g.Y())
	}
	if g.AxisNames() != [2]string{"x", "y"} {
		t.Errorf("axis names: %v", g.AxisNames())
	}
	if s := g.String(); s != "Grid2D (ny=2, nx=3)" {
		t.Errorf("string: %s", s)
	}

	if _, err := NewGrid2D(AxisSpec{Values: []float64{0, 1, 3}}, AxisSpec{N: 2}, Grid2DOptions{}); !errors.Is(err, ErrGeometry) {
		t.Errorf("non-equidistant x: %v", err)
	}
	if _, err := NewGrid2D(AxisSpec{Dx: 1, N: 2}, AxisSpec{}, Grid2DOptions{}); !errors.Is(err, ErrGeometry) {
		t.Errorf("missing ny: %v", err)
	}
}

func TestLogarithmicF(t *testing.T) {
	if f := LogarithmicF(3, 1, 2); !floats.Equal(f, []float64{1, 2, 4}) {
		t.Errorf("frequencies: %v", f)
	}
}

func TestGrid2DSpectral(t *testing.T) {
	g, err := NewGrid2D(AxisSpec{X0: 1, Dx: 2, N: 4}, AxisSpec{Dx: 1, N: 2}, Grid2DOptions{Spectral: true})
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(g.X(), []float64{1, 2, 4, 8}) {
		t.Errorf("x: %v", g.X())
	}
	if _, err := g.BBox(); !errors.Is(err, ErrNotSupported) {
		t.Errorf("bbox: %v", err)
	}
	if _, err := g.FoldOrigin(); !errors.Is(err, ErrNotSupported) {
		t.Errorf("fold origin: %v", err)
	}

	lin := g.WithSpectral(false)
	if !floats.Equal(lin.X(), []float64{1, 3, 5, 7}) {
		t.Errorf("linear x: %v", lin.X())
	}
	if !g.IsSpectral() || lin.IsSpectral() {
		t.Error("WithSpectral must not modify the receiver")
	}
	if !floats.Equal(g.X(), []float64{1, 2, 4, 8}) {
		t.Errorf("x after WithSpectral: %v", g.X())
	}
}

func TestGrid2DRotated(t *testing.T) {
	g, err := NewGrid2D(AxisSpec{Dx: 1, N: 3}, AxisSpec{Dx: 1, N: 2},
		Grid2DOptions{Origin: r2.Point{X: 100, Y: 200}, OriginMode: ExplicitOrigin, Orientation: 30})
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsRotated() {
		t.Fatal("grid should be rotated")
	}
	if !floats.Equal(g.X(), []float64{0, 1, 2}) || !floats.Equal(g.Y(), []float64{0, 1}) {
		t.Errorf("local coordinates: %v, %v", g.X(), g.Y())
	}
	if _, err := g.BBox(); !errors.Is(err, ErrNotSupported) {
		t.Errorf("bbox: %v", err)
	}
	if _, err := g.FoldOrigin(); !errors.Is(err, ErrNotSupported) {
		t.Errorf("fold origin: %v", err)
	}
	if _, err := g.Contains([]r2.Point{{X: 0, Y: 0}}); !errors.Is(err, ErrNotSupported) {
		t.Errorf("contains: %v", err)
	}

	small, err := NewGrid2D(AxisSpec{Dx: 1, N: 3}, AxisSpec{Dx: 1, N: 2}, Grid2DOptions{Orientation: 1e-6})
	if err != nil {
		t.Fatal(err)
	}
	if small.IsRotated() {
		t.Error("orientation below tolerance should not count as rotated")
	}
}

func TestGrid2DXY(t *testing.T) {
	g, err := NewGrid2D(AxisSpec{Dx: 1, N: 2}, AxisSpec{X0: 10, Dx: 1, N: 2}, Grid2DOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []r2.Point{{X: 0, Y: 10}, {X: 1, Y: 10}, {X: 0, Y: 11}, {X: 1, Y: 11}}
	xy := g.XY()
	if !reflect.DeepEqual(xy, want) {
		t.Errorf("xy: %v != %v", xy, want)
	}
	xy[0] = r2.Point{X: -1, Y: -1}
	if !reflect.DeepEqual(g.XY(), want) {
		t.Error("modifying the result must not change the cache")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if len(g.XY()) != 4 {
				t.Error("concurrent XY")
			}
		}()
	}
	wg.Wait()
}

func TestGrid2DFoldOrigin(t *testing.T) {
	g, err := NewGrid2D(AxisSpec{X0: 1, Dx: 2, N: 3}, AxisSpec{X0: 3, Dx: 1, N: 2},
		Grid2DOptions{Origin: r2.Point{X: 10, Y: 20}})
	if err != nil {
		t.Fatal(err)
	}
	f, err := g.FoldOrigin()
	if err != nil {
		t.Fatal(err)
	}
	if f.Origin() != (r2.Point{X: 11, Y: 23}) {
		t.Errorf("origin: %v", f.Origin())
	}
	if f.XAxis().X0 != 0 || f.YAxis().X0 != 0 {
		t.Errorf("local start: %g, %g", f.XAxis().X0, f.YAxis().X0)
	}
	if !floats.Equal(f.X(), g.X()) || !floats.Equal(f.Y(), g.Y()) {
		t.Errorf("coordinates changed: %v %v; %v %v", f.X(), f.Y(), g.X(), g.Y())
	}
	if g.Origin() != (r2.Point{X: 10, Y: 20}) {
		t.Error("FoldOrigin must not modify the receiver")
	}
}

func TestGrid2DFindIndex(t *testing.T) {
	g := bboxGrid(t)
	if i := g.FindIndexX(4.1); i != 2 {
		t.Errorf("x index: %d", i)
	}
	if j := g.FindIndexY(-100); j != 0 {
		t.Errorf("y index: %d", j)
	}

	ii, jj, err := g.FindIndexXY([]r2.Point{{X: 1.5, Y: 9.5}, {X: 11, Y: 5}, {X: 10, Y: 0}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ii, []int{0, -1, 4}) || !reflect.DeepEqual(jj, []int{4, -1, 0}) {
		t.Errorf("indices: %v, %v", ii, jj)
	}

	x, y := 7.0, 2.0
	tests := []struct {
		name string
		q    Query
		want Index
	}{
		{name: "x", q: Query{X: &x}, want: Index{I: []int{3}}},
		{name: "y", q: Query{Y: &y}, want: Index{J: []int{0}}},
		{name: "xy", q: Query{X: &x, Y: &y}, want: Index{I: []int{3}, J: []int{0}}},
		{name: "coords", q: Query{Coords: []r2.Point{{X: 5, Y: 5}, {X: -1, Y: 5}}}, want: Index{I: []int{2, -1}, J: []int{2, -1}}},
		{name: "area", q: Query{Area: &BoundingBox{Left: 2, Bottom: 2, Right: 6, Top: 6}}, want: Index{I: []int{1, 2}, J: []int{1, 2}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			idx, err := g.FindIndex(test.q)
			if err != nil {
				t.Fatal(err)
			}
			if diff := pretty.Diff(idx, test.want); len(diff) > 0 {
				t.Errorf("index: %v", diff)
			}
		})
	}

	for name, q := range map[string]Query{
		"empty":       {},
		"x and area":  {X: &x, Area: &BoundingBox{Right: 1, Top: 1}},
		"y and coord": {Y: &y, Coords: []r2.Point{{}}},
		"coord, area": {Coords: []r2.Point{{}}, Area: &BoundingBox{Right: 1, Top: 1}},
	} {
		if _, err := g.FindIndex(q); !errors.Is(err, ErrGeometry) {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestGrid2DFindIndexArea(t *testing.T) {
	hook := captureWarnings(t)
	g := bboxGrid(t)

	xr, yr, ok := g.FindIndexArea(BoundingBox{Left: 0, Bottom: 4, Right: 10, Top: 5})
	if !ok {
		t.Fatal("area should overlap")
	}
	if xr != (IndexRange{Start: 0, Stop: 5}) || yr != (IndexRange{Start: 2, Stop: 3}) {
		t.Errorf("ranges: %v, %v", xr, yr)
	}

	if _, _, ok := g.FindIndexArea(BoundingBox{Left: 20, Bottom: 20, Right: 30, Top: 30}); ok {
		t.Error("area outside the grid")
	}
	expectWarning(t, hook)

	if _, _, ok := g.FindIndexArea(BoundingBox{Left: 3.5, Bottom: 3.5, Right: 4.5, Top: 4.5}); ok {
		t.Error("area between cell centers")
	}
	expectWarning(t, hook)

	idx, err := g.FindIndex(Query{Area: &BoundingBox{Left: 20, Bottom: 20, Right: 30, Top: 30}})
	if err != nil || idx.I != nil || idx.J != nil {
		t.Errorf("area query outside the grid: %v, %v", idx, err)
	}
	expectWarning(t, hook)
}

func TestGrid2DContains(t *testing.T) {
	g := bboxGrid(t)
	in, err := g.Contains([]r2.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		{X: 5, Y: 5}, {X: 10.1, Y: 5}, {X: 5, Y: -0.1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, []bool{true, true, true, true, true, false, false}) {
		t.Errorf("contains: %v", in)
	}
}

func TestGrid2DIsel(t *testing.T) {
	g := bboxGrid(t)

	row, err := g.Isel(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	r, ok := row.(*Grid1D)
	if !ok {
		t.Fatalf("row: %T", row)
	}
	if !floats.Equal(r.X(), g.X()) || r.AxisName() != "x" {
		t.Errorf("row x: %v (%s)", r.X(), r.AxisName())
	}
	p, err := r.Isel(2)
	if err != nil {
		t.Fatal(err)
	}
	if p != (Point2D{Point: r2.Point{X: 5, Y: 3}}) {
		t.Errorf("row node: %v", p)
	}

	col, err := g.Isel(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	c := col.(*Grid1D)
	if !floats.Equal(c.X(), g.Y()) || c.AxisName() != "y" {
		t.Errorf("column: %v (%s)", c.X(), c.AxisName())
	}
	p, err = c.Isel(0)
	if err != nil {
		t.Fatal(err)
	}
	if p != (Point2D{Point: r2.Point{X: 9, Y: 1}}) {
		t.Errorf("column node: %v", p)
	}

	if _, err := g.Isel(5, 0); !errors.Is(err, ErrIndex) {
		t.Errorf("index: %v", err)
	}
	if _, err := g.Isel(0, 2); !errors.Is(err, ErrIndex) {
		t.Errorf("axis: %v", err)
	}
}

func TestGrid2DIselSpectral(t *testing.T) {
	hook := captureWarnings(t)
	g, err := NewGrid2D(AxisSpec{X0: 1, Dx: 2, N: 4}, AxisSpec{Dx: 1, N: 2}, Grid2DOptions{Spectral: true})
	if err != nil {
		t.Fatal(err)
	}
	row, err := g.Isel(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := row.(Undefined); !ok {
		t.Errorf("spectral row: %v", row)
	}
	expectWarning(t, hook)

	col, err := g.Isel(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := col.(*Grid1D).Isel(1); p != (Point2D{Point: r2.Point{X: 4, Y: 1}}) {
		t.Errorf("spectral column node: %v", p)
	}
}

func TestGrid2DIselRange(t *testing.T) {
	g := bboxGrid(t)

	s, err := g.IselRange([]int{1, 2, 3}, 1)
	if err != nil {
		t.Fatal(err)
	}
	sub := s.(*Grid2D)
	if !floats.EqualApprox(sub.X(), []float64{3, 5, 7}, 1e-12) {
		t.Errorf("x: %v", sub.X())
	}
	if !floats.EqualApprox(sub.Y(), g.Y(), 1e-12) {
		t.Errorf("y: %v", sub.Y())
	}
	if sub.Origin() != (r2.Point{X: 3, Y: 1}) || sub.XAxis().X0 != 0 || sub.YAxis().X0 != 0 {
		t.Errorf("origin not folded: %v, x0=%g, y0=%g", sub.Origin(), sub.XAxis().X0, sub.YAxis().X0)
	}
	if sub.OriginMode() != DefaultOrigin {
		t.Errorf("origin mode: %v", sub.OriginMode())
	}

	s, err = g.IselRange([]int{0, 2, 4}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sub := s.(*Grid2D); sub.Dy() != 4 || !floats.EqualApprox(sub.Y(), []float64{1, 5, 9}, 1e-12) {
		t.Errorf("strided y: %v, dy=%g", sub.Y(), sub.Dy())
	}

	if _, err := g.IselRange([]int{0, 5}, 1); !errors.Is(err, ErrIndex) {
		t.Errorf("out of range: %v", err)
	}
	if _, err := g.IselRange(nil, 1); !errors.Is(err, ErrIndex) {
		t.Errorf("empty: %v", err)
	}
}

func TestGrid2DIselRangeReproducesCoordinates(t *testing.T) {
	grids := map[string]*Grid2D{"bbox": bboxGrid(t)}
	var err error
	grids["explicit origin"], err = NewGrid2D(AxisSpec{X0: 0.5, Dx: 0.25, N: 9}, AxisSpec{X0: -3, Dx: 1.5, N: 7},
		Grid2DOptions{Origin: r2.Point{X: 100, Y: 50}, OriginMode: ExplicitOrigin})
	if err != nil {
		t.Fatal(err)
	}
	grids["rotated"], err = NewGrid2D(AxisSpec{X0: 1, Dx: 1, N: 6}, AxisSpec{X0: 2, Dx: 2, N: 6},
		Grid2DOptions{Origin: r2.Point{X: 100, Y: 50}, Orientation: 45})
	if err != nil {
		t.Fatal(err)
	}
	grids["spectral"], err = NewGrid2D(AxisSpec{X0: 0.1, Dx: 1.5, N: 8}, AxisSpec{Dx: 1, N: 4},
		Grid2DOptions{Spectral: true})
	if err != nil {
		t.Fatal(err)
	}
	selections := [][]int{{0}, {1}, {0, 1}, {1, 3}, {0, 2, 4}, {2, 3}}
	for name, g := range grids {
		for _, idx := range selections {
			for axis, full := range [][]float64{g.Y(), g.X()} {
				if idx[len(idx)-1] >= len(full) {
					continue
				}
				s, err := g.IselRange(idx, axis)
				if err != nil {
					t.Fatal(err)
				}
				sub := s.(*Grid2D)
				got := [][]float64{sub.Y(), sub.X()}[axis]
				want, _ := take(full, idx)
				if !floats.EqualApprox(got, want, 1e-9) || len(got) != len(want) {
					t.Errorf("%s axis %d %v: %v != %v", name, axis, idx, got, want)
				}
				if sub.Projection() != g.Projection() || sub.Orientation() != g.Orientation() || sub.IsSpectral() != g.IsSpectral() {
					t.Errorf("%s axis %d %v: attributes not kept", name, axis, idx)
				}
				if g.OriginMode() == ExplicitOrigin || g.IsRotated() {
					if sub.Origin() != g.Origin() {
						t.Errorf("%s axis %d %v: origin %v != %v", name, axis, idx, sub.Origin(), g.Origin())
					}
				}
			}
		}
	}
}

func TestGrid2DIselRangeUndefined(t *testing.T) {
	hook := captureWarnings(t)
	g := bboxGrid(t)
	for _, idx := range [][]int{{0, 1, 3}, {3, 1}} {
		s, err := g.IselRange(idx, 1)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := s.(Undefined); !ok {
			t.Errorf("%v: %v", idx, s)
		}
		e := hook.LastEntry()
		if e == nil || e.Data["axis"] != 1 {
			t.Errorf("%v: warning %v", idx, e)
		}
		expectWarning(t, hook)
	}
}

func TestCentersToNodes(t *testing.T) {
	tests := []struct {
		x, want []float64
	}{
		{x: []float64{1, 3, 5}, want: []float64{0, 2, 4, 6}},
		{x: []float64{7}, want: []float64{6.5, 7.5}},
		{x: []float64{0, 0.5}, want: []float64{-0.25, 0.25, 0.75}},
	}
	for _, test := range tests {
		if n := centersToNodes(test.x); !floats.Equal(n, test.want) {
			t.Errorf("%v: %v != %v", test.x, n, test.want)
		}
	}
}

func TestGrid2DNodeCoordinates(t *testing.T) {
	g, err := NewGrid2D(AxisSpec{X0: 0.5, Dx: 1, N: 2}, AxisSpec{X0: 0.5, Dx: 1, N: 1}, Grid2DOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}}
	if nc := g.NodeCoordinates(); !reflect.DeepEqual(nc, want) {
		t.Errorf("nodes: %v != %v", nc, want)
	}
}

// meshGrid returns the 2x2 cell grid whose nodes span [0,2]x[0,2].
func meshGrid(t *testing.T) *Grid2D {
	t.Helper()
	g, err := NewGrid2D(AxisSpec{X0: 0.5, Dx: 1, N: 2}, AxisSpec{X0: 0.5, Dx: 1, N: 2}, Grid2DOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGrid2DToMesh(t *testing.T) {
	g := meshGrid(t)
	m, err := g.ToMesh(MeshOptions{Z0: -3})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(m.Nodes) != 9 {
		t.Fatalf("nodes: %d", len(m.Nodes))
	}
	if m.Nodes[5] != (r3.Vector{X: 2, Y: 1, Z: -3}) {
		t.Errorf("node 5: %v", m.Nodes[5])
	}
	wantCodes := []int{
		mesh.West, mesh.South, mesh.South,
		mesh.West, mesh.Interior, mesh.East,
		mesh.North, mesh.North, mesh.East,
	}
	if diff := pretty.Diff(m.Codes, wantCodes); len(diff) > 0 {
		t.Errorf("codes: %v", diff)
	}
	wantElements := [][4]int{{1, 2, 5, 4}, {4, 5, 8, 7}, {2, 3, 6, 5}, {5, 6, 9, 8}}
	if diff := pretty.Diff(m.Elements, wantElements); len(diff) > 0 {
		t.Errorf("elements: %v", diff)
	}
	if m.IndexBase != 1 || m.Projection != DefaultMeshProjection || m.Quantity != mesh.Bathymetry {
		t.Errorf("attributes: base %d, projection %s, quantity %v", m.IndexBase, m.Projection, m.Quantity)
	}
}

func TestGrid2DToMeshZ(t *testing.T) {
	g := meshGrid(t)
	z := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	m, err := g.ToMesh(MeshOptions{Z: z, Projection: "UTM-33"})
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range m.Nodes {
		if n.Z != z[i] {
			t.Errorf("node %d: z=%g", i, n.Z)
		}
	}
	if m.Projection != "UTM-33" {
		t.Errorf("projection: %s", m.Projection)
	}
	if _, err := g.ToMesh(MeshOptions{Z: z[:4]}); !errors.Is(err, ErrGeometry) {
		t.Errorf("z length: %v", err)
	}
}

func TestGrid2DToMeshSpectral(t *testing.T) {
	g, err := NewGrid2D(AxisSpec{X0: 1, Dx: 2, N: 4}, AxisSpec{Dx: 1, N: 2}, Grid2DOptions{Spectral: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.ToMesh(MeshOptions{}); !errors.Is(err, ErrNotSupported) {
		t.Errorf("spectral mesh: %v", err)
	}
	if err := g.WriteMesh(mesh.WriterFunc(func(*mesh.Quad) error { return nil }), MeshOptions{}); !errors.Is(err, ErrNotSupported) {
		t.Errorf("spectral write: %v", err)
	}
	if _, err := g.WithSpectral(false).ToMesh(MeshOptions{}); err != nil {
		t.Errorf("linear mesh: %v", err)
	}
}

func TestGrid2DZeroValue(t *testing.T) {
	var g Grid2D
	if xy := g.XY(); len(xy) != 0 {
		t.Errorf("xy: %v", xy)
	}
	if x := g.X(); len(x) != 0 {
		t.Errorf("x: %v", x)
	}
}

func TestGrid2DWriteMesh(t *testing.T) {
	g := bboxGrid(t)
	var got *mesh.Quad
	err := g.WriteMesh(mesh.WriterFunc(func(m *mesh.Quad) error {
		got = m
		return nil
	}), MeshOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got.Nodes) != 36 || got.Len() != 25 {
		t.Fatalf("mesh: %+v", got)
	}
	writeErr := errors.New("disk full")
	if err := g.WriteMesh(mesh.WriterFunc(func(*mesh.Quad) error { return writeErr }), MeshOptions{}); err != writeErr {
		t.Errorf("writer error: %v", err)
	}
}
