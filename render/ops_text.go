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
	"fmt"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagerender/raster"
	"seehuhn.de/go/pagerender/text"
)

func opBeginText(in *Interpreter, _ []any) error {
	in.gs().Text.BeginText()
	in.text.BeginText()
	return nil
}

// opEndText applies the clip of the clipping text rendering modes.
func opEndText(in *Interpreter, _ []any) error {
	outlines, clip := in.text.EndText()
	if clip {
		in.clipTo(outlines, raster.NonZero, matrix.Identity)
	}
	return nil
}

func opSetCharSpacing(in *Interpreter, args []any) error {
	x, err := num(args, 0)
	if err != nil {
		return err
	}
	in.gs().Text.CharSpacing = x
	return nil
}

func opSetWordSpacing(in *Interpreter, args []any) error {
	x, err := num(args, 0)
	if err != nil {
		return err
	}
	in.gs().Text.WordSpacing = x
	return nil
}

func opSetHScale(in *Interpreter, args []any) error {
	x, err := num(args, 0)
	if err != nil {
		return err
	}
	in.gs().Text.SetHScale(x)
	return nil
}

func opSetLeading(in *Interpreter, args []any) error {
	x, err := num(args, 0)
	if err != nil {
		return err
	}
	in.gs().Text.SetLeading(x)
	return nil
}

// opSetFont selects a font resource by id.
func opSetFont(in *Interpreter, args []any) error {
	var font *text.Font
	switch v := firstArg(args).(type) {
	case *text.Font:
		font = v
	case string:
		f, err := in.lookupFont(v)
		if err != nil {
			return err
		}
		font = f
	default:
		return fmt.Errorf("font expected, got %T", v)
	}
	size, err := num(args, 1)
	if err != nil {
		return err
	}
	in.gs().Text.SetFont(font, size)
	return nil
}

func opSetTextRenderingMode(in *Interpreter, args []any) error {
	m, err := num(args, 0)
	if err != nil {
		return err
	}
	if m < 0 || m > float64(text.ModeClip) {
		return fmt.Errorf("invalid text rendering mode %g", m)
	}
	in.gs().Text.RenderMode = text.RenderMode(m)
	return nil
}

func opSetTextRise(in *Interpreter, args []any) error {
	x, err := num(args, 0)
	if err != nil {
		return err
	}
	in.gs().Text.Rise = x
	return nil
}

func opMoveText(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 2)
	if err != nil {
		return err
	}
	in.gs().Text.MoveText(v[0], v[1])
	return nil
}

func opSetLeadingMoveText(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 2)
	if err != nil {
		return err
	}
	in.gs().Text.SetLeadingMoveText(v[0], v[1])
	return nil
}

func opSetTextMatrix(in *Interpreter, args []any) error {
	m, err := matrixArgs(args)
	if err != nil {
		return err
	}
	in.gs().Text.SetTextMatrix(m)
	return nil
}

func opNextLine(in *Interpreter, _ []any) error {
	in.gs().Text.NextLine()
	return nil
}

func opShowText(in *Interpreter, args []any) error {
	items, err := text.Items(firstArg(args))
	if err != nil {
		return err
	}
	return in.textErr(in.text.ShowText(&in.gs().Text, items, in.device()))
}

func opNextLineShowText(in *Interpreter, args []any) error {
	items, err := text.Items(firstArg(args))
	if err != nil {
		return err
	}
	return in.textErr(in.text.NextLineShowText(&in.gs().Text, items, in.device()))
}

func opNextLineSetSpacingShowText(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 2)
	if err != nil {
		return err
	}
	var items []text.Item
	if len(args) > 2 {
		items, err = text.Items(args[2])
		if err != nil {
			return err
		}
	}
	return in.textErr(in.text.NextLineSetSpacingShowText(&in.gs().Text, v[0], v[1], items, in.device()))
}

// textErr passes on the errors of Type3 glyph programs as fatal.
func (in *Interpreter) textErr(err error) error {
	if err == nil {
		return nil
	}
	return fatal(err)
}

// opSetCharWidth is the d0 operator of Type3 glyphs.  The advance is
// taken from the font, so there is nothing to do.
func opSetCharWidth(*Interpreter, []any) error {
	return nil
}

// opSetCharWidthAndBounds is the d1 operator of Type3 glyphs.  Drawing is
// clipped to the glyph bounding box.
func opSetCharWidthAndBounds(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 6)
	if err != nil {
		return err
	}
	in.path.Rect(v[2], v[3], v[4]-v[2], v[5]-v[3])
	in.stack.SetPendingClip(raster.NonZero)
	in.consumePath()
	return nil
}

func firstArg(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}
