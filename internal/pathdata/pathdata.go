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

// Package pathdata stores paths as flat slices of commands and points.
//
// The commands are those of seehuhn.de/go/geom/path.  A Data value can be
// built incrementally and converted to a [path.Path] iterator.
package pathdata

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Data is a mutable path.  Coords holds the points of all commands in
// order: one for CmdMoveTo and CmdLineTo, two for CmdQuadTo, three for
// CmdCubeTo and none for CmdClose.
type Data struct {
	Cmds   []path.Command
	Coords []vec.Vec2
}

// NumPoints returns the number of points used by cmd.
func NumPoints(cmd path.Command) int {
	switch cmd {
	case path.CmdMoveTo, path.CmdLineTo:
		return 1
	case path.CmdQuadTo:
		return 2
	case path.CmdCubeTo:
		return 3
	default:
		return 0
	}
}

// MoveTo starts a new subpath.
func (d *Data) MoveTo(p vec.Vec2) *Data {
	d.Cmds = append(d.Cmds, path.CmdMoveTo)
	d.Coords = append(d.Coords, p)
	return d
}

// LineTo adds a straight segment.
func (d *Data) LineTo(p vec.Vec2) *Data {
	d.Cmds = append(d.Cmds, path.CmdLineTo)
	d.Coords = append(d.Coords, p)
	return d
}

// QuadTo adds a quadratic Bézier segment.
func (d *Data) QuadTo(ctrl, end vec.Vec2) *Data {
	d.Cmds = append(d.Cmds, path.CmdQuadTo)
	d.Coords = append(d.Coords, ctrl, end)
	return d
}

// CubeTo adds a cubic Bézier segment.
func (d *Data) CubeTo(ctrl1, ctrl2, end vec.Vec2) *Data {
	d.Cmds = append(d.Cmds, path.CmdCubeTo)
	d.Coords = append(d.Coords, ctrl1, ctrl2, end)
	return d
}

// Close closes the current subpath.
func (d *Data) Close() *Data {
	d.Cmds = append(d.Cmds, path.CmdClose)
	return d
}

// IsBlank reports whether the path draws nothing: it has no commands
// other than MoveTo.
func (d *Data) IsBlank() bool {
	if d == nil {
		return true
	}
	for _, cmd := range d.Cmds {
		if cmd != path.CmdMoveTo {
			return false
		}
	}
	return true
}

// Iter returns an iterator over the segments of the path.
func (d *Data) Iter() path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		k := 0
		for _, cmd := range d.Cmds {
			n := NumPoints(cmd)
			if !yield(cmd, d.Coords[k:k+n]) {
				return
			}
			k += n
		}
	}
}

// FromPath collects the segments of p.
func FromPath(p path.Path) *Data {
	d := &Data{}
	for cmd, pts := range p {
		d.Cmds = append(d.Cmds, cmd)
		d.Coords = append(d.Coords, pts...)
	}
	return d
}
