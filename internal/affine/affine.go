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

// Package affine has small helpers for the affine maps of the geom
// module.
package affine

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/internal/pathdata"
)

// Apply maps the point (x, y) through m.
func Apply(m matrix.Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyVec maps v through m.
func ApplyVec(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	x, y := Apply(m, v.X, v.Y)
	return vec.Vec2{X: x, Y: y}
}

// Delta maps the vector (dx, dy) through the linear part of m.
func Delta(m matrix.Matrix, dx, dy float64) (float64, float64) {
	return m[0]*dx + m[2]*dy, m[1]*dx + m[3]*dy
}

// Invert returns the inverse of m.  The second return value is false if
// m is singular.
func Invert(m matrix.Matrix) (matrix.Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return matrix.Matrix{}, false
	}
	a := m[3] / det
	b := -m[1] / det
	c := -m[2] / det
	d := m[0] / det
	return matrix.Matrix{
		a, b,
		c, d,
		-(m[4]*a + m[5]*c), -(m[4]*b + m[5]*d),
	}, true
}

// BBox returns the axis-aligned bounding box of the image of r under m.
func BBox(r rect.Rect, m matrix.Matrix) rect.Rect {
	xs := [4]float64{r.LLx, r.URx, r.URx, r.LLx}
	ys := [4]float64{r.LLy, r.LLy, r.URy, r.URy}
	res := rect.Rect{
		LLx: math.Inf(1), LLy: math.Inf(1),
		URx: math.Inf(-1), URy: math.Inf(-1),
	}
	for i := range 4 {
		x, y := Apply(m, xs[i], ys[i])
		res.LLx = min(res.LLx, x)
		res.LLy = min(res.LLy, y)
		res.URx = max(res.URx, x)
		res.URy = max(res.URy, y)
	}
	return res
}

// Normalize returns r with LL and UR ordered.
func Normalize(r rect.Rect) rect.Rect {
	return rect.Rect{
		LLx: min(r.LLx, r.URx), LLy: min(r.LLy, r.URy),
		URx: max(r.LLx, r.URx), URy: max(r.LLy, r.URy),
	}
}

// AxisAligned reports whether m maps horizontal lines to horizontal lines
// and vertical lines to vertical lines.
func AxisAligned(m matrix.Matrix) bool {
	return (m[1] == 0 && m[2] == 0) || (m[0] == 0 && m[3] == 0)
}

// Path returns a copy of p with all points mapped through m.
func Path(p *pathdata.Data, m matrix.Matrix) *pathdata.Data {
	res := &pathdata.Data{
		Cmds:   slices.Clone(p.Cmds),
		Coords: make([]vec.Vec2, len(p.Coords)),
	}
	for i, q := range p.Coords {
		res.Coords[i] = ApplyVec(m, q)
	}
	return res
}

// Append adds the subpaths of q to p.
func Append(p, q *pathdata.Data) {
	p.Cmds = append(p.Cmds, q.Cmds...)
	p.Coords = append(p.Coords, q.Coords...)
}
