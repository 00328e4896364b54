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

package imaging

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pagerender/internal/affine"
	"seehuhn.de/go/pagerender/surface"
)

// Draw paints the part sr of src onto dst.  The image is mapped to the
// unit square, with the first row at the top, and m maps the unit square
// to device space.  The Source of p is not used.  An empty sr selects
// the whole image.
func Draw(dst *surface.Surface, src *image.RGBA, sr image.Rectangle, m matrix.Matrix, p *surface.Paint, interpolate bool) {
	if sr.Empty() {
		sr = src.Rect
	}
	s2d, r, ok := placement(dst, sr, m, p.Clip)
	if !ok {
		return
	}
	scratch := image.NewRGBA(r)
	transformer(interpolate).Transform(scratch, s2d, src, sr, xdraw.Src, maskOptions(p.Clip))
	dst.Draw(scratch, r.Min.X, r.Min.Y, &surface.Paint{Alpha: p.Alpha, Blend: p.Blend})
}

// DrawMask paints the paint source of p through mask.  The mask is
// placed like an image in [Draw].
func DrawMask(dst *surface.Surface, mask *image.Alpha, m matrix.Matrix, p *surface.Paint, interpolate bool) {
	s2d, r, ok := placement(dst, mask.Rect, m, p.Clip)
	if !ok {
		return
	}
	scratch := image.NewAlpha(r)
	transformer(interpolate).Transform(scratch, s2d, mask, mask.Rect, xdraw.Src, maskOptions(p.Clip))

	paint := &surface.Paint{Source: p.Source, Alpha: p.Alpha, Blend: p.Blend}
	cov := make([]float32, r.Dx())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := scratch.Pix[(y-r.Min.Y)*scratch.Stride:]
		for i := range cov {
			cov[i] = float32(row[i]) / 255
		}
		dst.FillSpan(y, r.Min.X, cov, paint)
	}
}

// placement computes the map from image pixels in sr to device pixels
// and the device rectangle covered by the image.
func placement(dst *surface.Surface, sr image.Rectangle, m matrix.Matrix, clip *image.Alpha) (f64.Aff3, image.Rectangle, bool) {
	if sr.Empty() {
		return f64.Aff3{}, image.Rectangle{}, false
	}
	if _, ok := affine.Invert(m); !ok {
		return f64.Aff3{}, image.Rectangle{}, false
	}
	w, h := float64(sr.Dx()), float64(sr.Dy())
	toUnit := matrix.Matrix{
		1 / w, 0,
		0, -1 / h,
		-float64(sr.Min.X) / w, 1 + float64(sr.Min.Y)/h,
	}
	s := toUnit.Mul(m)

	bb := affine.BBox(rect.Rect{URx: 1, URy: 1}, m)
	dw, dh := float64(dst.Width()), float64(dst.Height())
	r := image.Rect(
		int(math.Floor(clamp(bb.LLx, dw))), int(math.Floor(clamp(bb.LLy, dh))),
		int(math.Ceil(clamp(bb.URx, dw))), int(math.Ceil(clamp(bb.URy, dh))),
	)
	if clip != nil {
		r = r.Intersect(clip.Rect)
	}
	if r.Empty() {
		return f64.Aff3{}, image.Rectangle{}, false
	}
	return f64.Aff3{s[0], s[2], s[4], s[1], s[3], s[5]}, r, true
}

func clamp(x, limit float64) float64 {
	return math.Min(math.Max(x, 0), limit)
}

func transformer(interpolate bool) xdraw.Transformer {
	if interpolate {
		return xdraw.BiLinear
	}
	return xdraw.NearestNeighbor
}

func maskOptions(clip *image.Alpha) *xdraw.Options {
	if clip == nil {
		return nil
	}
	return &xdraw.Options{DstMask: clip}
}
