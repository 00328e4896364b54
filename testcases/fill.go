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

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/internal/pathdata"
)

var fillCases = []TestCase{
	{
		Name:   "triangle_nonzero",
		Path:   polygon(pt(10, 50), pt(32, 10), pt(54, 50)),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "triangle_evenodd",
		Path:   polygon(pt(10, 50), pt(32, 10), pt(54, 50)),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
	},
	{
		Name:   "star_nonzero",
		Path:   fivePointStar(32, 32, 25),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "star_evenodd",
		Path:   fivePointStar(32, 32, 25),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
	},
	{
		Name:   "rectangle",
		Path:   rectangle(10, 10, 44, 44),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "bowtie",
		Path:   polygon(pt(8, 8), pt(56, 56), pt(56, 8), pt(8, 56)),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "bowtie_overlap_nonzero",
		Path:   Bowtie(),
		Width:  6,
		Height: 6,
		Op:     Fill{Rule: NonZero},
	},
	{
		Name:   "bowtie_overlap_evenodd",
		Path:   Bowtie(),
		Width:  6,
		Height: 6,
		Op:     Fill{Rule: EvenOdd},
	},
}

// Bowtie returns a self-intersecting path made of two square lobes which
// overlap in the pixel square [2,4)×[2,4).  Both lobes run in the same
// direction, so the overlap has winding number two.
func Bowtie() *pathdata.Data {
	p := &pathdata.Data{}
	p.MoveTo(pt(0, 0)).LineTo(pt(4, 0)).LineTo(pt(4, 4)).LineTo(pt(0, 4)).LineTo(pt(0, 0))
	p.LineTo(pt(2, 2)).LineTo(pt(6, 2)).LineTo(pt(6, 6)).LineTo(pt(2, 6)).LineTo(pt(2, 2))
	return p.LineTo(pt(0, 0)).Close()
}

// fivePointStar builds a five-pointed star (self-intersecting).
func fivePointStar(cx, cy, r float64) *pathdata.Data {
	pts := make([]vec.Vec2, 5)
	for i := range 5 {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		pts[i] = pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	// connect every second point: 0 -> 2 -> 4 -> 1 -> 3 -> 0
	return polygon(pts[0], pts[2], pts[4], pts[1], pts[3])
}
