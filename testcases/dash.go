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

var dashCases = []TestCase{
	{
		Name:   "dash_equal",
		Path:   polyline(pt(5, 32), pt(59, 32)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 4, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10, Dash: []float64{6, 6}},
	},
	{
		Name:   "dash_single_element",
		Path:   polyline(pt(5, 32), pt(59, 32)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 4, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10, Dash: []float64{5}},
	},
	{
		Name:   "dash_phase_negative",
		Path:   polyline(pt(5, 32), pt(59, 32)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 4, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10, Dash: []float64{8, 4}, DashPhase: -3},
	},
	{
		Name:   "dash_zero_round",
		Path:   polyline(pt(8, 32), pt(56, 32)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 6, Cap: graphics.LineCapRound, Join: graphics.LineJoinRound, MiterLimit: 10, Dash: []float64{0, 12}},
	},
	{
		Name:   "dash_corner_in_dash",
		Path:   polyline(pt(8, 56), pt(32, 8), pt(56, 56)),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 4, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10, Dash: []float64{30, 10}, DashPhase: 20},
	},
	{
		Name:   "dash_closed_square",
		Path:   rectangle(12, 12, 52, 52),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 4, Cap: graphics.LineCapSquare, Join: graphics.LineJoinMiter, MiterLimit: 10, Dash: []float64{10, 6}},
	},
}
