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

import "seehuhn.de/go/pdf/graphics"

var strokeCases = []TestCase{
	{
		Name:   "line_butt",
		Path:   polyline(pt(10, 32), pt(54, 32)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 8, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10},
	},
	{
		Name:   "line_round",
		Path:   polyline(pt(10, 32), pt(54, 32)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 8, Cap: graphics.LineCapRound, Join: graphics.LineJoinMiter, MiterLimit: 10},
	},
	{
		Name:   "line_square",
		Path:   polyline(pt(10, 32), pt(54, 32)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 8, Cap: graphics.LineCapSquare, Join: graphics.LineJoinMiter, MiterLimit: 10},
	},
	{
		Name:   "corner_miter",
		Path:   polyline(pt(10, 50), pt(32, 14), pt(54, 50)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 6, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10},
	},
	{
		Name:   "corner_round",
		Path:   polyline(pt(10, 50), pt(32, 14), pt(54, 50)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 6, Cap: graphics.LineCapButt, Join: graphics.LineJoinRound, MiterLimit: 10},
	},
	{
		Name:   "corner_bevel",
		Path:   polyline(pt(10, 50), pt(32, 14), pt(54, 50)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 6, Cap: graphics.LineCapButt, Join: graphics.LineJoinBevel, MiterLimit: 10},
	},
	{
		Name:   "sharp_miter_limited",
		Path:   polyline(pt(8, 56), pt(32, 8), pt(40, 56)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 4, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 2},
	},
	{
		Name:   "closed_square",
		Path:   rectangle(12, 12, 52, 52),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 5, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10},
	},
	{
		Name:   "hairline",
		Path:   polyline(pt(4, 20.5), pt(60, 40.5)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 0, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10},
	},
}
