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
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/golang/geo/r2"
)

// Config holds grid definitions read from a TOML file, for example:
//
//	[grid2d]
//	bbox = [0.0, 0.0, 10.0, 10.0]
//	dx = 2.0
//	projection = "LONG/LAT"
//
//	[grid3d]
//	x = {x0 = 0.0, dx = 1.0, n = 4}
//	y = {x0 = 0.0, dx = 1.0, n = 3}
//	z = {values = [0.0, 1.0, 2.0]}
//
// Sections that are not present are nil.
type Config struct {
	Grid1D *Grid1DConfig `toml:"grid1d"`
	Grid2D *Grid2DConfig `toml:"grid2d"`
	Grid3D *Grid3DConfig `toml:"grid3d"`
}

// Grid1DConfig is the [grid1d] section of a Config.
type Grid1DConfig struct {
	X               AxisSpec    `toml:"x"`
	Projection      string      `toml:"projection"`
	Origin          []float64   `toml:"origin"`
	Orientation     float64     `toml:"orientation"`
	AxisName        string      `toml:"axis_name"`
	NodeCoordinates [][]float64 `toml:"node_coordinates"`
}

// Grid2DConfig is the [grid2d] section of a Config. The grid is given
// either by its x and y axes or by a bounding box [left, bottom, right,
// top] with optional spacing and number of cells.
type Grid2DConfig struct {
	X *AxisSpec `toml:"x"`
	Y *AxisSpec `toml:"y"`

	BBox []float64 `toml:"bbox"`
	Dx   float64   `toml:"dx"`
	Dy   float64   `toml:"dy"`
	Nx   int       `toml:"nx"`
	Ny   int       `toml:"ny"`

	Projection  string    `toml:"projection"`
	Origin      []float64 `toml:"origin"`
	Orientation float64   `toml:"orientation"`
	Spectral    bool      `toml:"is_spectral"`
	AxisNames   []string  `toml:"axis_names"`
}

// Grid3DConfig is the [grid3d] section of a Config.
type Grid3DConfig struct {
	X           AxisSpec  `toml:"x"`
	Y           AxisSpec  `toml:"y"`
	Z           AxisSpec  `toml:"z"`
	Projection  string    `toml:"projection"`
	Origin      []float64 `toml:"origin"`
	Orientation float64   `toml:"orientation"`
}

// DecodeConfig reads a Config from r. Keys that do not belong to the
// configuration are logged and ignored.
func DecodeConfig(r io.Reader) (*Config, error) {
	c := new(Config)
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, fmt.Errorf("grid: decoding configuration: %w", err)
	}
	for _, k := range md.Undecoded() {
		log().WithField("key", k.String()).Warn("grid: ignoring unknown configuration key")
	}
	return c, nil
}

// LoadConfig reads a Config from the TOML file at path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("grid: loading configuration: %w", err)
	}
	defer f.Close()
	c, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return c, nil
}

// Geometries builds the grids of all sections present in c, in the
// order 1D, 2D, 3D.
func (c *Config) Geometries() ([]Geometry, error) {
	var o []Geometry
	if c.Grid1D != nil {
		g, err := c.Grid1D.Build()
		if err != nil {
			return nil, err
		}
		o = append(o, g)
	}
	if c.Grid2D != nil {
		g, err := c.Grid2D.Build()
		if err != nil {
			return nil, err
		}
		o = append(o, g)
	}
	if c.Grid3D != nil {
		g, err := c.Grid3D.Build()
		if err != nil {
			return nil, err
		}
		o = append(o, g)
	}
	if len(o) == 0 {
		return nil, geometryErrorf("configuration has no [grid1d], [grid2d] or [grid3d] section")
	}
	return o, nil
}

func parseOrigin(v []float64) (r2.Point, OriginMode, error) {
	switch len(v) {
	case 0:
		return r2.Point{}, DefaultOrigin, nil
	case 2:
		return r2.Point{X: v[0], Y: v[1]}, ExplicitOrigin, nil
	default:
		return r2.Point{}, DefaultOrigin, geometryErrorf("origin must have 2 values, got %d", len(v))
	}
}

// Build creates the Grid1D described by c.
func (c *Grid1DConfig) Build() (*Grid1D, error) {
	origin, _, err := parseOrigin(c.Origin)
	if err != nil {
		return nil, err
	}
	return NewGrid1D(c.X, Grid1DOptions{
		Projection:      c.Projection,
		Origin:          origin,
		Orientation:     c.Orientation,
		AxisName:        c.AxisName,
		NodeCoordinates: c.NodeCoordinates,
	})
}

// Build creates the Grid2D described by c.
func (c *Grid2DConfig) Build() (*Grid2D, error) {
	origin, mode, err := parseOrigin(c.Origin)
	if err != nil {
		return nil, err
	}
	o := Grid2DOptions{
		Projection:  c.Projection,
		Origin:      origin,
		OriginMode:  mode,
		Orientation: c.Orientation,
		Spectral:    c.Spectral,
	}
	switch len(c.AxisNames) {
	case 0:
	case 2:
		o.AxisNames = [2]string{c.AxisNames[0], c.AxisNames[1]}
	default:
		return nil, geometryErrorf("axis_names must have 2 values, got %d", len(c.AxisNames))
	}
	if c.BBox != nil {
		if c.X != nil || c.Y != nil {
			return nil, geometryErrorf("bbox cannot be combined with x or y")
		}
		if len(c.BBox) != 4 {
			return nil, geometryErrorf("bbox must have 4 values (left, bottom, right, top), got %d", len(c.BBox))
		}
		b, err := NewBoundingBox(c.BBox[0], c.BBox[1], c.BBox[2], c.BBox[3])
		if err != nil {
			return nil, err
		}
		return NewGrid2DInBBox(b, BBoxSpacing{Dx: c.Dx, Dy: c.Dy, Nx: c.Nx, Ny: c.Ny}, o)
	}
	if c.Dx != 0 || c.Dy != 0 || c.Nx != 0 || c.Ny != 0 {
		return nil, geometryErrorf("dx, dy, nx and ny are only used with bbox; give them in the x and y axes instead")
	}
	if c.X == nil {
		return nil, geometryErrorf("either x or bbox must be given")
	}
	var y AxisSpec
	if c.Y != nil {
		y = *c.Y
	}
	return NewGrid2D(*c.X, y, o)
}

// Build creates the Grid3D described by c.
func (c *Grid3DConfig) Build() (*Grid3D, error) {
	origin, _, err := parseOrigin(c.Origin)
	if err != nil {
		return nil, err
	}
	return NewGrid3D(c.X, c.Y, c.Z, Grid3DOptions{
		Projection:  c.Projection,
		Origin:      origin,
		Orientation: c.Orientation,
	})
}
