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

package surface

import (
	"image"
	"image/color"
)

// Paint describes how coverage is turned into colour on a surface.
type Paint struct {
	Source Source
	Alpha  float64      // constant opacity in [0, 1]
	Blend  BlendMode    // colour blending with the backdrop
	Clip   *image.Alpha // device space clip mask, nil for none
}

// FillSpan composites one row of coverage values onto the surface.
// cov[i] is the coverage of pixel (x0+i, y).  The Source of p is ignored
// by Draw but required here.
func (s *Surface) FillSpan(y, x0 int, cov []float32, p *Paint) {
	if y < 0 || y >= s.Rect.Dy() {
		return
	}
	alpha := clamp01(p.Alpha)
	if alpha == 0 {
		return
	}
	w := s.Rect.Dx()
	solid, isSolid := p.Source.(Solid)
	row := s.Pix[y*s.Stride : y*s.Stride+4*w]

	start := max(0, -x0)
	end := min(len(cov), w-x0)
	for i := start; i < end; i++ {
		f := float64(cov[i]) * alpha
		x := x0 + i
		if p.Clip != nil {
			f *= float64(ClipAt(p.Clip, x, y)) / 255
		}
		k := coverageByte(f)
		if k == 0 {
			continue
		}

		var c color.RGBA
		if isSolid {
			c = solid.C
		} else {
			c = p.Source.ColorAt(x, y)
		}
		compose(row[4*x:4*x+4:4*x+4], Scale(c, k), p.Blend)
	}
}

// Draw composites the premultiplied image src onto s, placing the origin
// of src's bounds at device pixel (dx, dy).  The Source field of p is
// not used.
func (s *Surface) Draw(src *image.RGBA, dx, dy int, p *Paint) {
	alpha := clamp01(p.Alpha)
	if alpha == 0 {
		return
	}
	sb := src.Rect
	dst := image.Rect(dx, dy, dx+sb.Dx(), dy+sb.Dy()).Intersect(s.Rect)
	if dst.Empty() {
		return
	}
	k0 := coverageByte(alpha)
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		sy := sb.Min.Y + y - dy
		srow := src.Pix[(sy-sb.Min.Y)*src.Stride:]
		drow := s.Pix[y*s.Stride:]
		for x := dst.Min.X; x < dst.Max.X; x++ {
			sx := x - dx
			sp := srow[4*sx : 4*sx+4 : 4*sx+4]
			if sp[3] == 0 && p.Blend == BlendNormal {
				continue
			}
			k := k0
			if p.Clip != nil {
				k = mul8(k, ClipAt(p.Clip, x, y))
				if k == 0 {
					continue
				}
			}
			c := color.RGBA{R: sp[0], G: sp[1], B: sp[2], A: sp[3]}
			compose(drow[4*x:4*x+4:4*x+4], Scale(c, k), p.Blend)
		}
	}
}

// ClipAt returns the clip mask value at device pixel (x, y).  A nil mask
// lets everything through; pixels outside the mask bounds are clipped.
func ClipAt(m *image.Alpha, x, y int) uint8 {
	if m == nil {
		return 255
	}
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return 0
	}
	return m.Pix[(y-m.Rect.Min.Y)*m.Stride+(x-m.Rect.Min.X)]
}

// compose blends the premultiplied source colour c over the pixel d.
func compose(d []uint8, c color.RGBA, mode BlendMode) {
	if mode == BlendNormal || d[3] == 0 {
		if c.A == 255 {
			d[0], d[1], d[2], d[3] = c.R, c.G, c.B, 255
			return
		}
		inv := 255 - c.A
		d[0] = c.R + mul8(d[0], inv)
		d[1] = c.G + mul8(d[1], inv)
		d[2] = c.B + mul8(d[2], inv)
		d[3] = c.A + mul8(d[3], inv)
		return
	}
	if c.A == 0 {
		return
	}

	as := float64(c.A) / 255
	ab := float64(d[3]) / 255
	src := [3]uint8{c.R, c.G, c.B}
	for i := range 3 {
		sp := float64(src[i]) / 255
		bp := float64(d[i]) / 255
		cs := sp / as
		cb := bp / ab
		v := sp*(1-ab) + bp*(1-as) + as*ab*mode.blendChannel(cb, cs)
		d[i] = toByte(v)
	}
	d[3] = toByte(as + ab - as*ab)
}

// coverageByte converts a coverage value in [0, 1] to a byte.
func coverageByte(f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}

func toByte(v float64) uint8 {
	return coverageByte(v)
}

func clamp01(x float64) float64 {
	if x < 0 || x != x {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
