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
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logMu  sync.RWMutex
	logger logrus.FieldLogger = logrus.StandardLogger()
)

// SetLogger sets the logger that receives warnings about degraded
// results, such as slices that return Undefined. A nil logger restores
// the logrus standard logger.
func SetLogger(l logrus.FieldLogger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}

func log() logrus.FieldLogger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}
