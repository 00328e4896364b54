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

package render

import (
	"errors"
	"image"
	"image/color"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagerender/internal/affine"
	"seehuhn.de/go/pagerender/internal/logger"
	"seehuhn.de/go/pagerender/internal/pathdata"
	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/pattern"
	"seehuhn.de/go/pagerender/raster"
	"seehuhn.de/go/pagerender/surface"
	"seehuhn.de/go/pagerender/text"
)

// textDevice connects the text renderer to the interpreter.
type textDevice struct {
	in *Interpreter
}

func (in *Interpreter) device() text.Device {
	return textDevice{in: in}
}

func (d textDevice) CTM() matrix.Matrix {
	return d.in.gs().CTM
}

func (d textDevice) FillPath(p *pathdata.Data) {
	in := d.in
	if !in.contentVisible() {
		return
	}
	gs := in.gs()
	in.painter.Fill(in.target, p, raster.NonZero, gs.CTM, gs.FillPaintParams())
}

func (d textDevice) StrokePath(p *pathdata.Data) {
	if !d.in.contentVisible() {
		return
	}
	d.in.strokePath(p)
}

func (d textDevice) DirectTarget() (*image.RGBA, color.RGBA, bool) {
	in := d.in
	gs := in.gs()
	solid, ok := gs.FillPaint.(surface.Solid)
	if !ok || !in.contentVisible() || gs.Clip != nil ||
		gs.BlendMode != surface.BlendNormal || gs.FillAlpha != 1 {
		return nil, color.RGBA{}, false
	}
	return in.target.RGBA, solid.C, true
}

// ShowType3 runs a Type3 glyph program with m prepended to the CTM.
func (d textDevice) ShowType3(proc *oplist.List, m matrix.Matrix) error {
	in := d.in
	if in.depth >= maxNesting {
		logger.Get().Warn("Type3 glyphs nested too deeply")
		return nil
	}
	in.depth++
	defer func() { in.depth-- }()

	in.save()
	in.stack.Transform(m)
	err := in.run(proc)
	in.path.Reset()
	in.restore()
	return err
}

var errNesting = errors.New("patterns nested too deeply")

// PaintCell implements [pattern.CellPainter].  The cell is drawn by a
// separate interpreter which shares the resources and the surface pool.
func (in *Interpreter) PaintCell(dst *surface.Surface, t *pattern.Tiling, ctm matrix.Matrix, fill *color.RGBA) error {
	if in.depth >= maxNesting {
		return errNesting
	}
	cfg := in.cfg
	cfg.BaseTransform = ctm
	cfg.Background = nil
	sub := NewInterpreter(dst, cfg)
	sub.depth = in.depth + 1
	sub.warned = in.warned
	if fill != nil {
		gs := sub.gs()
		gs.SetFillRGB(*fill)
		gs.SetStrokeRGB(*fill)
		sub.forced = fill
	}

	bbox := affine.Normalize(t.BBox)
	sub.path.Rect(bbox.LLx, bbox.LLy, bbox.URx-bbox.LLx, bbox.URy-bbox.LLy)
	sub.stack.SetPendingClip(raster.NonZero)
	sub.consumePath()

	err := sub.run(t.Ops)
	sub.End()
	return err
}
