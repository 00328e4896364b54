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

package testcases

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/internal/pathdata"
	"seehuhn.de/go/pagerender/oplist"
)

// OperatorList converts the test case into an operator list which draws
// the same scene in black.
func (tc *TestCase) OperatorList() *oplist.List {
	b := &oplist.Builder{}
	if tc.CTM != (matrix.Matrix{}) {
		m := tc.CTM
		b.Transform(m[0], m[1], m[2], m[3], m[4], m[5])
	}

	if s, ok := tc.Op.(Stroke); ok {
		b.SetLineWidth(s.Width)
		b.Add(oplist.SetLineCap, float64(s.Cap))
		b.Add(oplist.SetLineJoin, float64(s.Join))
		b.Add(oplist.SetMiterLimit, s.MiterLimit)
		if s.Dash != nil {
			b.Add(oplist.SetDash, s.Dash, s.DashPhase)
		}
		b.SetStrokeRGB(0, 0, 0)
	} else {
		b.SetFillRGB(0, 0, 0)
	}

	addPath(b, tc.Path)

	switch op := tc.Op.(type) {
	case Fill:
		if op.Rule == EvenOdd {
			b.EOFill()
		} else {
			b.Fill()
		}
	case Stroke:
		b.Stroke()
	}
	return b.List()
}

// addPath emits the path construction operators for p.  Quadratic
// segments are raised to cubic degree.
func addPath(b *oplist.Builder, p *pathdata.Data) {
	var cur vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			cur = p.Coords[k]
			b.MoveTo(cur.X, cur.Y)
			k++
		case path.CmdLineTo:
			cur = p.Coords[k]
			b.LineTo(cur.X, cur.Y)
			k++
		case path.CmdQuadTo:
			c, q := p.Coords[k], p.Coords[k+1]
			c1 := cur.Add(c.Sub(cur).Mul(2.0 / 3.0))
			c2 := q.Add(c.Sub(q).Mul(2.0 / 3.0))
			b.CurveTo(c1.X, c1.Y, c2.X, c2.Y, q.X, q.Y)
			cur = q
			k += 2
		case path.CmdCubeTo:
			c1, c2, q := p.Coords[k], p.Coords[k+1], p.Coords[k+2]
			b.CurveTo(c1.X, c1.Y, c2.X, c2.Y, q.X, q.Y)
			cur = q
			k += 3
		case path.CmdClose:
			b.ClosePath()
		}
	}
}
