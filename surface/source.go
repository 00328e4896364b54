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
	"math"

	"seehuhn.de/go/geom/matrix"
)

// Source provides the colour of a paint at every device pixel.
type Source interface {
	// ColorAt returns the premultiplied colour at device pixel (x, y).
	ColorAt(x, y int) color.RGBA
}

// Solid is a paint with the same colour everywhere.
type Solid struct {
	C color.RGBA // premultiplied
}

// ColorAt implements the Source interface.
func (s Solid) ColorAt(int, int) color.RGBA {
	return s.C
}

// Black is the initial fill and stroke paint.
var Black = Solid{C: color.RGBA{A: 255}}

// ImageSource paints with the pixels of an image.  Sampling is nearest
// neighbour at pixel centres.
type ImageSource struct {
	Img *image.RGBA

	// ToImage maps device coordinates to image pixel coordinates.
	ToImage matrix.Matrix

	// Repeat tiles the image over the plane.  Otherwise points outside the
	// image are transparent.
	Repeat bool

	// Extend clamps points outside the image to the nearest edge pixel.
	// Repeat takes precedence.
	Extend bool
}

// ColorAt implements the Source interface.
func (s *ImageSource) ColorAt(x, y int) color.RGBA {
	m := s.ToImage
	fx := float64(x) + 0.5
	fy := float64(y) + 0.5
	u := m[0]*fx + m[2]*fy + m[4]
	v := m[1]*fx + m[3]*fy + m[5]

	b := s.Img.Rect
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return color.RGBA{}
	}
	i := int(math.Floor(u))
	j := int(math.Floor(v))
	switch {
	case s.Repeat:
		i %= w
		if i < 0 {
			i += w
		}
		j %= h
		if j < 0 {
			j += h
		}
	case s.Extend:
		i = min(max(i, 0), w-1)
		j = min(max(j, 0), h-1)
	case i < 0 || j < 0 || i >= w || j >= h:
		return color.RGBA{}
	}
	off := j*s.Img.Stride + 4*i
	p := s.Img.Pix[off : off+4 : off+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Premultiply converts a straight-alpha colour to premultiplied form.
func Premultiply(r, g, b, a uint8) color.RGBA {
	if a == 255 {
		return color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return color.RGBA{
		R: mul8(r, a),
		G: mul8(g, a),
		B: mul8(b, a),
		A: a,
	}
}

// Scale multiplies all components of the premultiplied colour c by
// k/255.
func Scale(c color.RGBA, k uint8) color.RGBA {
	if k == 255 {
		return c
	}
	return color.RGBA{R: mul8(c.R, k), G: mul8(c.G, k), B: mul8(c.B, k), A: mul8(c.A, k)}
}

// mul8 computes round(a*b/255).
func mul8(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 128
	return uint8((t + t>>8) >> 8)
}
