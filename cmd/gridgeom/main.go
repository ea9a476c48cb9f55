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

// Command gridgeom inspects the grids defined in a TOML configuration
// file and builds meshes from them.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
