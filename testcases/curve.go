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
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/pagerender/internal/pathdata"
)

var curveCases = []TestCase{
	{
		Name:   "quadratic",
		Path:   (&pathdata.Data{}).MoveTo(pt(8, 56)).QuadTo(pt(32, 0), pt(56, 56)).Close(),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "cubic",
		Path:   (&pathdata.Data{}).MoveTo(pt(8, 56)).CubeTo(pt(8, 8), pt(56, 8), pt(56, 56)).Close(),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "cubic_loop",
		Path:   (&pathdata.Data{}).MoveTo(pt(10, 50)).CubeTo(pt(70, 0), pt(-6, 0), pt(54, 50)).Close(),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
	},
	{
		Name:   "circle",
		Path:   circle(32, 32, 24),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "circle_stroked",
		Path:   circle(32, 32, 20),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 3, Cap: graphics.LineCapButt, Join: graphics.LineJoinRound, MiterLimit: 10},
	},
	{
		Name:   "cubic_scurve_stroked",
		Path:   (&pathdata.Data{}).MoveTo(pt(8, 32)).CubeTo(pt(24, -8), pt(40, 72), pt(56, 32)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 4, Cap: graphics.LineCapRound, Join: graphics.LineJoinRound, MiterLimit: 10},
	},
}

// kappa places the control points of a cubic Bézier approximating a
// quarter circle.
const kappa = 0.5522847498

// circle returns a closed circle made of four cubic Bézier segments.
func circle(cx, cy, r float64) *pathdata.Data {
	k := kappa * r
	p := &pathdata.Data{}
	p.MoveTo(pt(cx+r, cy))
	p.CubeTo(pt(cx+r, cy+k), pt(cx+k, cy+r), pt(cx, cy+r))
	p.CubeTo(pt(cx-k, cy+r), pt(cx-r, cy+k), pt(cx-r, cy))
	p.CubeTo(pt(cx-r, cy-k), pt(cx-k, cy-r), pt(cx, cy-r))
	p.CubeTo(pt(cx+k, cy-r), pt(cx+r, cy-k), pt(cx+r, cy))
	return p.Close()
}
