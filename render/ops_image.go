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

	"seehuhn.de/go/pagerender/imaging"
	"seehuhn.de/go/pagerender/internal/pathdata"
	"seehuhn.de/go/pagerender/raster"
	"seehuhn.de/go/pagerender/surface"
)

// imageArg returns the image named by an operator argument, which is
// either an image resource or its id.
func (in *Interpreter) imageArg(v any) (*imaging.Resource, error) {
	switch v := v.(type) {
	case *imaging.Resource:
		if v == nil {
			return nil, errors.New("nil image")
		}
		return v, nil
	case string:
		obj, err := in.lookup(v)
		if err != nil {
			return nil, err
		}
		r, ok := obj.(*imaging.Resource)
		if !ok {
			return nil, fatal(fmt.Errorf("%w: %s is %T, not an image", errWrongResource, v, obj))
		}
		return r, nil
	default:
		return nil, fmt.Errorf("image expected, got %T", v)
	}
}

// imagePaint returns the compositing parameters for images.
func (in *Interpreter) imagePaint() *surface.Paint {
	gs := in.gs()
	return &surface.Paint{Alpha: gs.FillAlpha, Blend: gs.BlendMode, Clip: gs.Clip}
}

// paintImages draws an image at each placement.  Placement matrices map
// the unit square to user space.
func (in *Interpreter) paintImages(r *imaging.Resource, places []imaging.Placement) error {
	if !in.contentVisible() {
		return nil
	}
	img, err := imaging.Decode(r, imaging.NewTransferMaps(in.gs().Transfer))
	if err != nil {
		return err
	}
	ctm := in.gs().CTM
	paint := in.imagePaint()
	for _, pl := range places {
		imaging.Draw(in.target, img, pl.Src, pl.Matrix.Mul(ctm), paint, r.Interpolate)
	}
	return nil
}

// paintMasks fills the fill paint through a stencil mask at each
// placement.
func (in *Interpreter) paintMasks(r *imaging.Resource, places []matrix.Matrix) error {
	if !in.contentVisible() {
		return nil
	}
	mask, err := imaging.StencilMask(r)
	if err != nil {
		return err
	}
	gs := in.gs()
	paint := gs.FillPaintParams()
	for _, m := range places {
		imaging.DrawMask(in.target, mask, m.Mul(gs.CTM), paint, r.Interpolate)
	}
	return nil
}

var unitPlacement = []imaging.Placement{{Matrix: matrix.Identity}}

func opPaintImageXObject(in *Interpreter, args []any) error {
	r, err := in.imageArg(firstArg(args))
	if err != nil {
		return err
	}
	return in.paintImages(r, unitPlacement)
}

func opPaintInlineImageXObjectGroup(in *Interpreter, args []any) error {
	r, err := in.imageArg(firstArg(args))
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errArgCount
	}
	places, ok := args[1].([]imaging.Placement)
	if !ok {
		return fmt.Errorf("image placements expected, got %T", args[1])
	}
	return in.paintImages(r, places)
}

// opPaintImageXObjectRepeat draws an image at several positions; the
// arguments are the id, the scale factors and the x, y pairs.
func opPaintImageXObjectRepeat(in *Interpreter, args []any) error {
	r, err := in.imageArg(firstArg(args))
	if err != nil {
		return err
	}
	s, err := nums(args, 1, 2)
	if err != nil {
		return err
	}
	if len(args) < 4 {
		return errArgCount
	}
	pos, ok := floats(args[3])
	if !ok {
		return errors.New("invalid positions")
	}
	return in.paintImages(r, imaging.RepeatPlacements(s[0], 0, 0, s[1], pos))
}

func opPaintImageMaskXObject(in *Interpreter, args []any) error {
	r, err := in.imageArg(firstArg(args))
	if err != nil {
		return err
	}
	return in.paintMasks(r, []matrix.Matrix{matrix.Identity})
}

func opPaintImageMaskXObjectGroup(in *Interpreter, args []any) error {
	items, ok := firstArg(args).([]imaging.MaskPlacement)
	if !ok {
		return fmt.Errorf("image mask group expected, got %T", firstArg(args))
	}
	for _, it := range items {
		if it.Mask == nil {
			continue
		}
		if err := in.paintMasks(it.Mask, []matrix.Matrix{it.Matrix}); err != nil {
			return err
		}
	}
	return nil
}

// opPaintImageMaskXObjectRepeat draws a stencil mask at several
// positions, using the matrix [scaleX skewX skewY scaleY x y].
func opPaintImageMaskXObjectRepeat(in *Interpreter, args []any) error {
	r, err := in.imageArg(firstArg(args))
	if err != nil {
		return err
	}
	m, err := nums(args, 1, 4)
	if err != nil {
		return err
	}
	if len(args) < 6 {
		return errArgCount
	}
	pos, ok := floats(args[5])
	if !ok {
		return errors.New("invalid positions")
	}
	places := imaging.RepeatPlacements(m[0], m[1], m[2], m[3], pos)
	ms := make([]matrix.Matrix, len(places))
	for i, pl := range places {
		ms[i] = pl.Matrix
	}
	return in.paintMasks(r, ms)
}

// opPaintSolidColorImageMask fills the unit square.
func opPaintSolidColorImageMask(in *Interpreter, _ []any) error {
	if !in.contentVisible() {
		return nil
	}
	gs := in.gs()
	unit := (&pathdata.Data{}).MoveTo(pt(0, 0)).LineTo(pt(1, 0)).LineTo(pt(1, 1)).LineTo(pt(0, 1)).Close()
	in.painter.Fill(in.target, unit, raster.NonZero, gs.CTM, gs.FillPaintParams())
	return nil
}
