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

// Package shape builds paths from path construction operators and paints
// them onto surfaces.
package shape

import (
	"fmt"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/internal/pathdata"
	"seehuhn.de/go/pagerender/oplist"
)

// Builder accumulates the current path.  Coordinates are in user space.
type Builder struct {
	p pathdata.Data

	cur, start vec.Vec2
	hasCur     bool
}

// MoveTo starts a new subpath.
func (b *Builder) MoveTo(x, y float64) {
	pt := vec.Vec2{X: x, Y: y}
	b.p.MoveTo(pt)
	b.cur, b.start = pt, pt
	b.hasCur = true
}

// LineTo appends a straight line.  Without a current point, LineTo acts
// like MoveTo.
func (b *Builder) LineTo(x, y float64) {
	if !b.hasCur {
		b.MoveTo(x, y)
		return
	}
	pt := vec.Vec2{X: x, Y: y}
	b.p.LineTo(pt)
	b.cur = pt
}

// CurveTo appends a cubic Bézier curve.
func (b *Builder) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	if !b.hasCur {
		b.MoveTo(x1, y1)
	}
	pt := vec.Vec2{X: x3, Y: y3}
	b.p.CubeTo(vec.Vec2{X: x1, Y: y1}, vec.Vec2{X: x2, Y: y2}, pt)
	b.cur = pt
}

// CurveTo2 appends a cubic Bézier curve whose first control point is the
// current point (the "v" operator).
func (b *Builder) CurveTo2(x2, y2, x3, y3 float64) {
	if !b.hasCur {
		b.MoveTo(x2, y2)
	}
	b.CurveTo(b.cur.X, b.cur.Y, x2, y2, x3, y3)
}

// CurveTo3 appends a cubic Bézier curve whose second control point is
// the end point (the "y" operator).
func (b *Builder) CurveTo3(x1, y1, x3, y3 float64) {
	b.CurveTo(x1, y1, x3, y3, x3, y3)
}

// Rect appends a closed rectangle.
func (b *Builder) Rect(x, y, w, h float64) {
	b.MoveTo(x, y)
	b.LineTo(x+w, y)
	b.LineTo(x+w, y+h)
	b.LineTo(x, y+h)
	b.ClosePath()
}

// ClosePath closes the current subpath.
func (b *Builder) ClosePath() {
	if !b.hasCur {
		return
	}
	b.p.Close()
	b.cur = b.start
}

// Construct appends the path segments encoded in a constructPath
// operator.  ops lists path operators; their operands are taken in order
// from args.
func (b *Builder) Construct(ops []oplist.OpCode, args []float64) error {
	j := 0
	for _, op := range ops {
		n := operandCount(op)
		if n < 0 {
			return fmt.Errorf("constructPath: unexpected operator %s", op)
		}
		if j+n > len(args) {
			return fmt.Errorf("constructPath: %s: missing operands", op)
		}
		a := args[j : j+n]
		j += n
		switch op {
		case oplist.MoveTo:
			b.MoveTo(a[0], a[1])
		case oplist.LineTo:
			b.LineTo(a[0], a[1])
		case oplist.CurveTo:
			b.CurveTo(a[0], a[1], a[2], a[3], a[4], a[5])
		case oplist.CurveTo2:
			b.CurveTo2(a[0], a[1], a[2], a[3])
		case oplist.CurveTo3:
			b.CurveTo3(a[0], a[1], a[2], a[3])
		case oplist.Rectangle:
			b.Rect(a[0], a[1], a[2], a[3])
		case oplist.ClosePath:
			b.ClosePath()
		}
	}
	return nil
}

func operandCount(op oplist.OpCode) int {
	switch op {
	case oplist.ClosePath:
		return 0
	case oplist.MoveTo, oplist.LineTo:
		return 2
	case oplist.CurveTo2, oplist.CurveTo3, oplist.Rectangle:
		return 4
	case oplist.CurveTo:
		return 6
	default:
		return -1
	}
}

// Path returns the current path.  The result is only valid until the
// next call to a method of b.
func (b *Builder) Path() *pathdata.Data {
	return &b.p
}

// Empty reports whether the current path has no segments.
func (b *Builder) Empty() bool {
	return len(b.p.Cmds) == 0
}

// CurrentPoint returns the current point, if there is one.
func (b *Builder) CurrentPoint() (vec.Vec2, bool) {
	return b.cur, b.hasCur
}

// Reset clears the path.  Storage is kept for reuse.
func (b *Builder) Reset() {
	b.p.Cmds = b.p.Cmds[:0]
	b.p.Coords = b.p.Coords[:0]
	b.hasCur = false
}
