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

var subpathCases = []TestCase{
	{
		Name: "two_triangles",
		Path: join(
			polygon(pt(4, 40), pt(16, 10), pt(28, 40)),
			polygon(pt(36, 40), pt(48, 10), pt(60, 40)),
		),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "overlapping_rect_nonzero",
		Path:   join(rectangle(8, 8, 40, 40), rectangle(24, 24, 56, 56)),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "overlapping_rect_evenodd",
		Path:   join(rectangle(8, 8, 40, 40), rectangle(24, 24, 56, 56)),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
	},
	{
		Name:   "ring_shape",
		Path:   join(circle(32, 32, 26), circle(32, 32, 14)),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
	},
}
