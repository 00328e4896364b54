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

// Package surface implements raster surfaces and the paint operations on
// them.
//
// A Surface stores premultiplied RGBA pixels.  Coverage produced by the
// raster package is combined with a paint Source, a constant alpha, an
// optional clip mask and a blend mode, and composited onto the surface
// one span at a time.
package surface

import (
	"image"
	"image/color"
)

// Surface is a raster surface with premultiplied 8-bit RGBA pixels.
// Device pixel (x, y) is stored at (x, y) of the embedded image; the
// image bounds always start at the origin.
type Surface struct {
	*image.RGBA
}

// New allocates a transparent surface of the given size.
func New(width, height int) *Surface {
	return &Surface{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the width of the surface in pixels.
func (s *Surface) Width() int {
	return s.Rect.Dx()
}

// Height returns the height of the surface in pixels.
func (s *Surface) Height() int {
	return s.Rect.Dy()
}

// Clear makes all pixels transparent.
func (s *Surface) Clear() {
	clear(s.Pix)
}

// Fill sets every pixel to the premultiplied colour c.
func (s *Surface) Fill(c color.RGBA) {
	if c == (color.RGBA{}) {
		s.Clear()
		return
	}
	n := len(s.Pix)
	for i := 0; i < n; i += 4 {
		s.Pix[i] = c.R
		s.Pix[i+1] = c.G
		s.Pix[i+2] = c.B
		s.Pix[i+3] = c.A
	}
}

// resize changes the dimensions, reusing the pixel buffer where its
// capacity allows.  The surface is cleared.
func (s *Surface) resize(width, height int) {
	n := 4 * width * height
	if cap(s.Pix) >= n {
		s.Pix = s.Pix[:n]
		clear(s.Pix)
	} else {
		s.Pix = make([]uint8, n)
	}
	s.Stride = 4 * width
	s.Rect = image.Rect(0, 0, width, height)
}
