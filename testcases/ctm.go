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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics"
)

var ctmCases = []TestCase{
	{
		Name:   "scale_2x",
		Path:   rectangle(0, 0, 20, 20),
		Width:  128,
		Height: 128,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Scale(2, 2).Mul(matrix.Translate(24, 24)),
	},
	{
		Name:   "scale_half",
		Path:   rectangle(0, 0, 80, 80),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Scale(0.5, 0.5).Mul(matrix.Translate(12, 12)),
	},
	{
		Name:   "rotate_45",
		Path:   rectangle(-16, -16, 16, 16),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    rotate(math.Pi / 4).Mul(matrix.Translate(32, 32)),
	},
	{
		Name:   "skew_x",
		Path:   rectangle(0, 0, 30, 30),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Matrix{1, 0, 0.5, 1, 10, 16},
	},
	{
		Name:   "flip_y",
		Path:   polygon(pt(0, 0), pt(40, 0), pt(20, 40)),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Matrix{1, 0, 0, -1, 12, 52},
	},
	{
		Name:   "anisotropic_stroke",
		Path:   circle(0, 0, 10),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 2, Cap: graphics.LineCapButt, Join: graphics.LineJoinRound, MiterLimit: 10},
		CTM:    matrix.Scale(2.5, 1).Mul(matrix.Translate(32, 32)),
	},
	{
		Name:   "thin_stroke_scaled_down",
		Path:   rectangle(10, 10, 110, 110),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 0.5, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10},
		CTM:    matrix.Scale(0.5, 0.5),
	},
}

func rotate(phi float64) matrix.Matrix {
	s, c := math.Sincos(phi)
	return matrix.Matrix{c, s, -s, c, 0, 0}
}
