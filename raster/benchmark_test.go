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

package raster

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/internal/pathdata"
)

// BenchmarkRasterizerO fills an "O" shape at several sizes.
func BenchmarkRasterizerO(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			clip := rect.Rect{URx: float64(size), URy: float64(size)}
			r := NewRasterizer(clip)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))

			c := float64(size) / 2
			oPath := &pathdata.Data{}
			addCircle(oPath, c, c, float64(size)*0.45, false)
			addCircle(oPath, c, c, float64(size)*0.30, true)

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(clip, matrix.Identity)
				r.FillEvenOdd(oPath, func(y, xMin int, coverage []float32) {
					row := dst.Pix[y*dst.Stride+xMin:]
					for i, c := range coverage {
						row[i] = uint8(c * 255)
					}
				})
			}
		})
	}
}

// BenchmarkVectorO draws the same shape with x/image/vector, for comparison.
func BenchmarkVectorO(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			z := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{255})

			c := float32(size) / 2
			outerR := float32(size) * 0.45
			innerR := float32(size) * 0.30

			b.ReportAllocs()
			for b.Loop() {
				z.Reset(size, size)
				addVectorCircle(z, c, c, outerR, false)
				addVectorCircle(z, c, c, innerR, true)
				z.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}

// BenchmarkStrokeDashed strokes a dashed circle with round joins.
func BenchmarkStrokeDashed(b *testing.B) {
	clip := rect.Rect{URx: 400, URy: 400}
	r := NewRasterizer(clip)
	circle := &pathdata.Data{}
	addCircle(circle, 200, 200, 150, false)

	b.ReportAllocs()
	for b.Loop() {
		r.Reset(clip, matrix.Identity)
		r.SetStroke(StrokeStyle{Width: 6, MiterLimit: 10, Dash: []float64{12, 4}})
		r.Stroke(circle, func(y, xMin int, coverage []float32) {})
	}
}

// kappa places the control points of a cubic Bézier approximating a
// quarter circle.
const kappa = 0.5522847498

func addCircle(p *pathdata.Data, cx, cy, r float64, clockwise bool) {
	kr := kappa * r
	s := 1.0
	if clockwise {
		s = -1
	}
	p.MoveTo(vec.Vec2{X: cx, Y: cy - r})
	p.CubeTo(vec.Vec2{X: cx + s*kr, Y: cy - r}, vec.Vec2{X: cx + s*r, Y: cy - kr}, vec.Vec2{X: cx + s*r, Y: cy})
	p.CubeTo(vec.Vec2{X: cx + s*r, Y: cy + kr}, vec.Vec2{X: cx + s*kr, Y: cy + r}, vec.Vec2{X: cx, Y: cy + r})
	p.CubeTo(vec.Vec2{X: cx - s*kr, Y: cy + r}, vec.Vec2{X: cx - s*r, Y: cy + kr}, vec.Vec2{X: cx - s*r, Y: cy})
	p.CubeTo(vec.Vec2{X: cx - s*r, Y: cy - kr}, vec.Vec2{X: cx - s*kr, Y: cy - r}, vec.Vec2{X: cx, Y: cy - r})
	p.Close()
}

func addVectorCircle(z *vector.Rasterizer, cx, cy, r float32, clockwise bool) {
	kr := float32(kappa) * r
	s := float32(1)
	if clockwise {
		s = -1
	}
	z.MoveTo(cx, cy-r)
	z.CubeTo(cx+s*kr, cy-r, cx+s*r, cy-kr, cx+s*r, cy)
	z.CubeTo(cx+s*r, cy+kr, cx+s*kr, cy+r, cx, cy+r)
	z.CubeTo(cx-s*kr, cy+r, cx-s*r, cy+kr, cx-s*r, cy)
	z.CubeTo(cx-s*r, cy-kr, cx-s*kr, cy-r, cx, cy-r)
	z.ClosePath()
}
