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

package shape

import (
	"image"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pagerender/internal/pathdata"
	"seehuhn.de/go/pagerender/raster"
	"seehuhn.de/go/pagerender/surface"
)

// StrokeStyle holds the line parameters of a stroke.
type StrokeStyle = raster.StrokeStyle

// Painter fills and strokes paths.  A Painter is not safe for concurrent
// use.
type Painter struct {
	r *raster.Rasterizer
}

// NewPainter returns a new Painter.
func NewPainter() *Painter {
	return &Painter{r: raster.NewRasterizer(rect.Rect{})}
}

func (p *Painter) setup(w, h int, ctm matrix.Matrix, clip *image.Alpha) bool {
	bounds := image.Rect(0, 0, w, h)
	if clip != nil {
		bounds = bounds.Intersect(clip.Rect)
	}
	if bounds.Empty() {
		return false
	}
	p.r.Reset(rect.Rect{
		LLx: float64(bounds.Min.X),
		LLy: float64(bounds.Min.Y),
		URx: float64(bounds.Max.X),
		URy: float64(bounds.Max.Y),
	}, ctm)
	return true
}

// Fill fills the user space path pth onto dst.
func (p *Painter) Fill(dst *surface.Surface, pth *pathdata.Data, rule raster.FillRule, ctm matrix.Matrix, paint *surface.Paint) {
	if len(pth.Cmds) == 0 || !p.setup(dst.Width(), dst.Height(), ctm, paint.Clip) {
		return
	}
	p.r.Fill(pth, rule, func(y, x int, cov []float32) {
		dst.FillSpan(y, x, cov, paint)
	})
}

// Stroke strokes the user space path pth onto dst.
func (p *Painter) Stroke(dst *surface.Surface, pth *pathdata.Data, st *StrokeStyle, ctm matrix.Matrix, paint *surface.Paint) {
	if len(pth.Cmds) == 0 || !p.setup(dst.Width(), dst.Height(), ctm, paint.Clip) {
		return
	}
	p.r.SetStroke(*st)
	p.r.Stroke(pth, func(y, x int, cov []float32) {
		dst.FillSpan(y, x, cov, paint)
	})
}

// ClipMask intersects the clip mask prev with the area inside pth.  The
// result is a new mask of size w×h; prev is not modified.  A nil prev
// does not clip.
func (p *Painter) ClipMask(pth *pathdata.Data, rule raster.FillRule, ctm matrix.Matrix, w, h int, prev *image.Alpha) *image.Alpha {
	res := image.NewAlpha(image.Rect(0, 0, w, h))
	if len(pth.Cmds) == 0 || !p.setup(w, h, ctm, prev) {
		return res
	}
	p.r.Fill(pth, rule, func(y, x int, cov []float32) {
		if y < 0 || y >= h {
			return
		}
		row := res.Pix[y*res.Stride:]
		for i, c := range cov {
			xi := x + i
			if xi < 0 || xi >= w {
				continue
			}
			v := coverage(c)
			if prev != nil {
				v = uint8((uint32(v)*uint32(surface.ClipAt(prev, xi, y)) + 127) / 255)
			}
			row[xi] = v
		}
	})
	return res
}

func coverage(c float32) uint8 {
	switch {
	case c <= 0:
		return 0
	case c >= 1:
		return 255
	default:
		return uint8(c*255 + 0.5)
	}
}
