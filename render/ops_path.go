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
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/internal/pathdata"
	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/pattern"
	"seehuhn.de/go/pagerender/raster"
	"seehuhn.de/go/pagerender/shape"
	"seehuhn.de/go/pagerender/surface"
)

func opMoveTo(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 2)
	if err != nil {
		return err
	}
	in.path.MoveTo(v[0], v[1])
	return nil
}

func opLineTo(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 2)
	if err != nil {
		return err
	}
	in.path.LineTo(v[0], v[1])
	return nil
}

func opCurveTo(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 6)
	if err != nil {
		return err
	}
	in.path.CurveTo(v[0], v[1], v[2], v[3], v[4], v[5])
	return nil
}

func opCurveTo2(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 4)
	if err != nil {
		return err
	}
	in.path.CurveTo2(v[0], v[1], v[2], v[3])
	return nil
}

func opCurveTo3(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 4)
	if err != nil {
		return err
	}
	in.path.CurveTo3(v[0], v[1], v[2], v[3])
	return nil
}

func opClosePath(in *Interpreter, _ []any) error {
	in.path.ClosePath()
	return nil
}

func opRectangle(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 4)
	if err != nil {
		return err
	}
	in.path.Rect(v[0], v[1], v[2], v[3])
	return nil
}

// opConstructPath appends several path segments at once.  The arguments
// are the path opcodes and the concatenated operands.
func opConstructPath(in *Interpreter, args []any) error {
	if len(args) < 2 {
		return errArgCount
	}
	var ops []oplist.OpCode
	switch v := args[0].(type) {
	case []oplist.OpCode:
		ops = v
	default:
		codes, ok := floats(v)
		if !ok {
			return errors.New("invalid path opcodes")
		}
		ops = make([]oplist.OpCode, len(codes))
		for i, c := range codes {
			ops[i] = oplist.OpCode(c)
		}
	}
	operands, ok := floats(args[1])
	if !ok {
		return errors.New("invalid path operands")
	}
	return in.path.Construct(ops, operands)
}

func opStroke(in *Interpreter, _ []any) error {
	in.stroke()
	in.consumePath()
	return nil
}

func opCloseStroke(in *Interpreter, _ []any) error {
	in.path.ClosePath()
	return opStroke(in, nil)
}

func opFill(in *Interpreter, _ []any) error {
	in.fill(raster.NonZero)
	in.consumePath()
	return nil
}

func opEOFill(in *Interpreter, _ []any) error {
	in.fill(raster.EvenOdd)
	in.consumePath()
	return nil
}

func opFillStroke(in *Interpreter, _ []any) error {
	in.fill(raster.NonZero)
	in.stroke()
	in.consumePath()
	return nil
}

func opEOFillStroke(in *Interpreter, _ []any) error {
	in.fill(raster.EvenOdd)
	in.stroke()
	in.consumePath()
	return nil
}

func opCloseFillStroke(in *Interpreter, _ []any) error {
	in.path.ClosePath()
	return opFillStroke(in, nil)
}

func opCloseEOFillStroke(in *Interpreter, _ []any) error {
	in.path.ClosePath()
	return opEOFillStroke(in, nil)
}

func opEndPath(in *Interpreter, _ []any) error {
	in.consumePath()
	return nil
}

func opClip(in *Interpreter, _ []any) error {
	in.stack.SetPendingClip(raster.NonZero)
	return nil
}

func opEOClip(in *Interpreter, _ []any) error {
	in.stack.SetPendingClip(raster.EvenOdd)
	return nil
}

// fill fills the current path with the fill paint.
func (in *Interpreter) fill(rule raster.FillRule) {
	if !in.contentVisible() || in.path.Empty() {
		return
	}
	gs := in.gs()
	in.painter.Fill(in.target, in.path.Path(), rule, gs.CTM, gs.FillPaintParams())
}

// stroke strokes the current path with the stroke paint.
func (in *Interpreter) stroke() {
	if !in.contentVisible() || in.path.Empty() {
		return
	}
	in.strokePath(in.path.Path())
}

func (in *Interpreter) strokePath(p *pathdata.Data) {
	gs := in.gs()
	st := &shape.StrokeStyle{
		Width:      max(gs.LineWidth, in.stack.SinglePixelWidth()),
		Cap:        gs.LineCap,
		Join:       gs.LineJoin,
		MiterLimit: gs.MiterLimit,
		Dash:       gs.Dash,
		DashPhase:  gs.DashPhase,
	}
	in.painter.Stroke(in.target, p, st, gs.CTM, gs.StrokePaintParams())
}

// consumePath applies a pending clip and starts a new path.
func (in *Interpreter) consumePath() {
	if rule, ok := in.stack.TakePendingClip(); ok {
		in.clipTo(in.path.Path(), rule, in.gs().CTM)
	}
	in.path.Reset()
}

// clipTo intersects the clip region with a path.
func (in *Interpreter) clipTo(p *pathdata.Data, rule raster.FillRule, ctm matrix.Matrix) {
	gs := in.gs()
	gs.Clip = in.painter.ClipMask(p, rule, ctm, in.target.Width(), in.target.Height(), gs.Clip)
}

// opShadingFill paints a shading over the whole clip region.
func opShadingFill(in *Interpreter, args []any) error {
	if len(args) == 0 {
		return errArgCount
	}
	var sh *pattern.Shading
	switch v := args[0].(type) {
	case *pattern.Shading:
		sh = v
	case string:
		obj, err := in.lookup(v)
		if err != nil {
			return err
		}
		s, ok := obj.(*pattern.Shading)
		if !ok {
			return fatal(fmt.Errorf("%w: %s is %T, not a shading", errWrongResource, v, obj))
		}
		sh = s
	default:
		return fmt.Errorf("shading expected, got %T", args[0])
	}
	if !in.contentVisible() {
		return nil
	}

	gs := in.gs()
	src, err := in.patterns.Resolve(sh, pattern.Context{
		Transform:   gs.CTM,
		ShadingFill: true,
	})
	if err != nil {
		return fatal(err)
	}
	w, h := float64(in.target.Width()), float64(in.target.Height())
	area := (&pathdata.Data{}).MoveTo(pt(0, 0)).LineTo(pt(w, 0)).LineTo(pt(w, h)).LineTo(pt(0, h)).Close()
	in.painter.Fill(in.target, area, raster.NonZero, matrix.Identity, &surface.Paint{
		Source: src,
		Alpha:  gs.FillAlpha,
		Blend:  gs.BlendMode,
		Clip:   gs.Clip,
	})
	return nil
}

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}
