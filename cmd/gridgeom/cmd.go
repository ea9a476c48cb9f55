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

package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/eqgrid/grid"
	"github.com/spatialmodel/eqgrid/mesh"
	"github.com/spatialmodel/eqgrid/plot"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

type options struct {
	configFile string
	logLevel   string

	layer      int
	projection string
	z0         float64

	out           string
	width, height float64 // inches
}

func newRootCmd() *cobra.Command {
	o := new(options)
	root := &cobra.Command{
		Use:   "gridgeom",
		Short: "Inspect equidistant grids and build meshes from them.",
		Long: `gridgeom reads the grids defined in the [grid1d], [grid2d] and [grid3d]
sections of a TOML configuration file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logrus.ParseLevel(o.logLevel)
			if err != nil {
				return err
			}
			logrus.SetOutput(cmd.ErrOrStderr())
			logrus.SetLevel(lvl)
			grid.SetLogger(logrus.StandardLogger())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&o.configFile, "config", "grid.toml", "path to the grid configuration file")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "info", "logging level (debug, info, warn, error)")

	info := &cobra.Command{
		Use:   "info",
		Short: "Print a description of each configured grid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := grid.LoadConfig(o.configFile)
			if err != nil {
				return err
			}
			gs, err := c.Geometries()
			if err != nil {
				return err
			}
			for _, g := range gs {
				describe(cmd.OutOrStdout(), g)
			}
			return nil
		},
	}

	meshCmd := &cobra.Command{
		Use:   "mesh",
		Short: "Build a quadrilateral mesh from the configured 2D grid and summarize it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrid2D(o)
			if err != nil {
				return err
			}
			w := mesh.WriterFunc(func(m *mesh.Quad) error {
				if err := m.Validate(); err != nil {
					return err
				}
				summarize(cmd.OutOrStdout(), m)
				return nil
			})
			return g.WriteMesh(w, grid.MeshOptions{Projection: o.projection, Z0: o.z0})
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot the mesh of the configured 2D grid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrid2D(o)
			if err != nil {
				return err
			}
			m, err := g.ToMesh(grid.MeshOptions{Projection: o.projection, Z0: o.z0})
			if err != nil {
				return err
			}
			if err := plot.SaveMesh(m, vg.Length(o.width)*vg.Inch, vg.Length(o.height)*vg.Inch, o.out); err != nil {
				return err
			}
			logrus.WithField("file", filepath.Clean(o.out)).Info("saved mesh plot")
			return nil
		},
	}

	for _, c := range []*cobra.Command{meshCmd, plotCmd} {
		c.Flags().IntVar(&o.layer, "layer", 0, "z layer to use when the configuration holds a 3D grid")
		c.Flags().StringVar(&o.projection, "projection", "", "mesh projection (default LONG/LAT)")
		c.Flags().Float64Var(&o.z0, "z", 0, "bathymetry of all mesh nodes")
	}
	plotCmd.Flags().StringVar(&o.out, "out", "mesh.png", "output file; the extension selects the format")
	plotCmd.Flags().Float64Var(&o.width, "width", 6, "plot width in inches")
	plotCmd.Flags().Float64Var(&o.height, "height", 6, "plot height in inches")

	root.AddCommand(info, meshCmd, plotCmd)
	return root
}

// loadGrid2D returns the [grid2d] grid of the configuration, or a
// horizontal layer of the [grid3d] grid if there is no 2D grid.
func loadGrid2D(o *options) (*grid.Grid2D, error) {
	c, err := grid.LoadConfig(o.configFile)
	if err != nil {
		return nil, err
	}
	switch {
	case c.Grid2D != nil:
		return c.Grid2D.Build()
	case c.Grid3D != nil:
		g3, err := c.Grid3D.Build()
		if err != nil {
			return nil, err
		}
		g, err := g3.Isel(o.layer, 0)
		if err != nil {
			return nil, err
		}
		return g.(*grid.Grid2D), nil
	default:
		return nil, fmt.Errorf("gridgeom: %s has no [grid2d] or [grid3d] section", o.configFile)
	}
}

func describe(w io.Writer, g grid.Geometry) {
	fmt.Fprintln(w, g)
	switch g := g.(type) {
	case *grid.Grid1D:
		fmt.Fprintf(w, "  %s: %v\n", g.AxisName(), g.Axis())
		fmt.Fprintf(w, "  projection: %s\n", g.Projection())
	case *grid.Grid2D:
		names := g.AxisNames()
		fmt.Fprintf(w, "  %s: %v\n", names[0], g.XAxis())
		fmt.Fprintf(w, "  %s: %v\n", names[1], g.YAxis())
		fmt.Fprintf(w, "  origin: (%g, %g) %v\n", g.Origin().X, g.Origin().Y, g.OriginMode())
		if g.IsRotated() {
			fmt.Fprintf(w, "  orientation: %g\n", g.Orientation())
		}
		if g.IsSpectral() {
			fmt.Fprintln(w, "  spectral")
		}
		if b, err := g.BBox(); err == nil {
			fmt.Fprintf(w, "  bbox: %v\n", b)
		}
		fmt.Fprintf(w, "  projection: %s\n", g.Projection())
	case *grid.Grid3D:
		fmt.Fprintf(w, "  x: %v\n", g.XAxis())
		fmt.Fprintf(w, "  y: %v\n", g.YAxis())
		fmt.Fprintf(w, "  z: %v\n", g.ZAxis())
		fmt.Fprintf(w, "  origin: (%g, %g)\n", g.Origin().X, g.Origin().Y)
		fmt.Fprintf(w, "  projection: %s\n", g.Projection())
	}
}

func summarize(w io.Writer, m *mesh.Quad) {
	fmt.Fprintf(w, "nodes: %d\n", len(m.Nodes))
	fmt.Fprintf(w, "elements: %d\n", m.Len())
	fmt.Fprintf(w, "boundary nodes: %d\n", len(m.Boundary()))
	fmt.Fprintf(w, "projection: %s\n", m.Projection)
	fmt.Fprintf(w, "quantity: %v\n", m.Quantity)
}
