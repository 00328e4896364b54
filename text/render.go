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

package text

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/pagerender/internal/affine"
	"seehuhn.de/go/pagerender/internal/logger"
	"seehuhn.de/go/pagerender/internal/pathdata"
	"seehuhn.de/go/pagerender/oplist"
)

// Device is the drawing surface seen by the text renderer.
type Device interface {
	// CTM returns the current transformation matrix.
	CTM() matrix.Matrix

	// FillPath fills a user space path with the current fill paint,
	// using the nonzero winding rule.
	FillPath(p *pathdata.Data)

	// StrokePath strokes a user space path with the current stroke
	// parameters and paint.
	StrokePath(p *pathdata.Data)

	// DirectTarget returns the destination image and the premultiplied
	// fill colour, if glyph outlines may be drawn onto the destination
	// directly.  This requires a solid fill, no clip mask and normal
	// blending.
	DirectTarget() (*image.RGBA, color.RGBA, bool)

	// ShowType3 runs the glyph program of a Type3 glyph.  m maps glyph
	// space to user space.
	ShowType3(proc *oplist.List, m matrix.Matrix) error
}

// Renderer paints text strings.  A Renderer is used by one render task
// at a time.
type Renderer struct {
	clip     *pathdata.Data // device space outlines for the clipping modes
	clipping bool

	z vector.Rasterizer
}

// BeginText starts a new text object.
func (r *Renderer) BeginText() {
	r.clip = nil
	r.clipping = false
}

// EndText ends the text object.  If a clipping mode was used, the glyph
// outlines in device space are returned together with true; the caller
// intersects the clip region with them.
func (r *Renderer) EndText() (*pathdata.Data, bool) {
	p, ok := r.clip, r.clipping
	r.clip = nil
	r.clipping = false
	if ok && p == nil {
		p = &pathdata.Data{}
	}
	return p, ok
}

// NextLineShowText moves to the next line and shows a string.
func (r *Renderer) NextLineShowText(st *State, items []Item, dev Device) error {
	st.NextLine()
	return r.ShowText(st, items, dev)
}

// NextLineSetSpacingShowText sets word and character spacing, moves to
// the next line and shows a string.
func (r *Renderer) NextLineSetSpacingShowText(st *State, wordSpacing, charSpacing float64, items []Item, dev Device) error {
	st.WordSpacing = wordSpacing
	st.CharSpacing = charSpacing
	return r.NextLineShowText(st, items, dev)
}

// ShowText paints a string and advances the text position.
func (r *Renderer) ShowText(st *State, items []Item, dev Device) error {
	font := st.Font
	if font == nil {
		logger.Get().Warn("text shown without a font")
		return nil
	}
	size := st.FontSize
	if size == 0 {
		return nil
	}
	if font.IsType3 {
		return r.showType3(st, items, dev)
	}

	dir := st.Direction
	if dir == 0 {
		dir = 1
	}
	hsd := st.HScale * dir
	fm := font.matrix()
	widthScale := size * fm[0]
	spacingDir := -1.0
	if font.Vertical {
		spacingDir = 1
	}
	ctm := dev.CTM()

	x := 0.0
	for _, it := range items {
		g := it.Glyph
		if g == nil {
			x += spacingDir * it.Adjust * size / 1000
			continue
		}

		spacing := st.CharSpacing
		if g.IsSpace {
			spacing += st.WordSpacing
		}
		width := g.Width

		var ox, oy float64
		if font.Vertical {
			vm := g.VMetric
			if vm == nil {
				vm = font.DefaultVMetric
			}
			var vx, vy float64
			if g.VMetric != nil {
				vx = -g.VMetric[1] * widthScale
			} else {
				vx = -width * 0.5 * widthScale
			}
			if vm != nil {
				vy = vm[2] * widthScale
				width = -vm[0]
			}
			ox, oy = vx, x+vy
		} else {
			ox = x
		}

		if st.RenderMode != ModeInvisible {
			m := matrix.Matrix{hsd * size, 0, 0, dir * size, st.X + hsd*ox, st.Y + st.Rise - dir*oy}
			m = m.Mul(st.Matrix)
			r.paintGlyph(font, g.GID, g.Unicode, g.IsInFont, width*fm[0], m, ctm, st.RenderMode, dev)

			if a := g.Accent; a != nil {
				ax := ox + size*a.Offset.X
				ay := oy - size*a.Offset.Y
				ma := matrix.Matrix{hsd * size, 0, 0, dir * size, st.X + hsd*ax, st.Y + st.Rise - dir*ay}
				ma = ma.Mul(st.Matrix)
				r.paintGlyph(font, a.GID, a.Unicode, true, 0, ma, ctm, st.RenderMode, dev)
			}
		}

		var advance float64
		if font.Vertical {
			advance = width*widthScale - spacing*dir
		} else {
			advance = width*widthScale + spacing*dir
		}
		x += advance
	}

	if font.Vertical {
		st.Y -= x
	} else {
		st.X += x * hsd
	}
	return nil
}

// paintGlyph draws one glyph.  m maps em units to user space; width is
// the advance in em units, used for the missing glyph box.  Glyphs which
// are not in the font are looked up by their text content.
func (r *Renderer) paintGlyph(font *Font, gid uint16, unicode string, inFont bool, width float64, m, ctm matrix.Matrix, mode RenderMode, dev Device) {
	if !inFont {
		gid = 0
	}
	outline := font.Outline(gid, unicode)
	if outline == nil {
		if (unicode != "" && strings.TrimSpace(unicode) == "") || width == 0 {
			return
		}
		logger.Get().Debug("glyph outline missing",
			"font", font.LoadedName, "gid", gid, "text", unicode)
		outline = missingGlyph(width)
	}

	toDevice := m.Mul(ctm)
	if mode.fills() {
		dst, col, ok := dev.DirectTarget()
		if ok && !mode.strokes() && !mode.clips() && affine.AxisAligned(toDevice) {
			r.drawDirect(dst, affine.Path(outline, toDevice), col)
		} else {
			dev.FillPath(affine.Path(outline, m))
		}
	}
	if mode.strokes() {
		dev.StrokePath(affine.Path(outline, m))
	}
	if mode.clips() {
		r.clipping = true
		if r.clip == nil {
			r.clip = &pathdata.Data{}
		}
		affine.Append(r.clip, affine.Path(outline, toDevice))
	}
}

// drawDirect fills a device space outline with a solid colour.
func (r *Renderer) drawDirect(dst *image.RGBA, p *pathdata.Data, c color.RGBA) {
	if len(p.Coords) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, q := range p.Coords {
		minX = min(minX, q.X)
		minY = min(minY, q.Y)
		maxX = max(maxX, q.X)
		maxY = max(maxY, q.Y)
	}
	b := dst.Rect
	x0 := max(int(math.Floor(minX)), b.Min.X)
	y0 := max(int(math.Floor(minY)), b.Min.Y)
	x1 := min(int(math.Ceil(maxX)), b.Max.X)
	y1 := min(int(math.Ceil(maxY)), b.Max.Y)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	z := &r.z
	z.Reset(x1-x0, y1-y0)
	z.DrawOp = draw.Over
	ox, oy := float64(x0), float64(y0)
	pt := func(i int) (float32, float32) {
		return float32(p.Coords[i].X - ox), float32(p.Coords[i].Y - oy)
	}
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			z.MoveTo(pt(k))
			k++
		case path.CmdLineTo:
			z.LineTo(pt(k))
			k++
		case path.CmdQuadTo:
			ax, ay := pt(k)
			bx, by := pt(k + 1)
			z.QuadTo(ax, ay, bx, by)
			k += 2
		case path.CmdCubeTo:
			ax, ay := pt(k)
			bx, by := pt(k + 1)
			cx, cy := pt(k + 2)
			z.CubeTo(ax, ay, bx, by, cx, cy)
			k += 3
		case path.CmdClose:
			z.ClosePath()
		}
	}
	z.ClosePath()
	z.Draw(dst, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{})
}

// showType3 runs the glyph programs of a Type3 font.
func (r *Renderer) showType3(st *State, items []Item, dev Device) error {
	font := st.Font
	size := st.FontSize
	dir := st.Direction
	if dir == 0 {
		dir = 1
	}
	hsd := st.HScale * dir
	fm := font.matrix()

	x := 0.0
	for _, it := range items {
		g := it.Glyph
		if g == nil {
			x -= it.Adjust * 0.001 * size
			continue
		}

		spacing := st.CharSpacing
		if g.IsSpace {
			spacing += st.WordSpacing
		}

		proc := font.CharProcs[g.ProcID]
		if proc == nil {
			logger.Get().Warn("missing Type3 glyph program",
				"font", font.LoadedName, "proc", g.ProcID)
		} else if st.RenderMode != ModeInvisible {
			m := fm.Mul(matrix.Matrix{hsd * size, 0, 0, dir * size, st.X + hsd*x, st.Y + st.Rise})
			if err := dev.ShowType3(proc, m.Mul(st.Matrix)); err != nil {
				return err
			}
		}

		x += fm[0]*g.Width*size + spacing
	}
	st.X += x * hsd
	return nil
}
