// seehuhn.de/go/pagerender - render PDF operator lists to raster surfaces
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package render

import (
	"log/slog"

	"seehuhn.de/go/pagerender/internal/logger"
)

// SetLogger configures the logger for the render package and all its
// sub-packages.  By default nothing is logged.  Pass nil to restore the
// silent default.  SetLogger is safe for concurrent use.
//
// Log levels used:
//   - [slog.LevelDebug]: skipped operators, cache and pool events
//   - [slog.LevelInfo]: backend selection, task lifecycle
//   - [slog.LevelWarn]: recoverable content problems, GPU fallback
//
// Example:
//
//	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Logger returns the logger currently in use.
func Logger() *slog.Logger {
	return logger.Get()
}
