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
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/pagerender/internal/logger"
	"seehuhn.de/go/pagerender/pattern"
	"seehuhn.de/go/pagerender/resource"
	"seehuhn.de/go/pagerender/softmask"
	"seehuhn.de/go/pagerender/surface"
	"seehuhn.de/go/pagerender/text"
)

func opSetLineWidth(in *Interpreter, args []any) error {
	w, err := num(args, 0)
	if err != nil {
		return err
	}
	in.gs().LineWidth = w
	return nil
}

func opSetLineCap(in *Interpreter, args []any) error {
	c, err := num(args, 0)
	if err != nil {
		return err
	}
	in.gs().LineCap = graphics.LineCapStyle(c)
	return nil
}

func opSetLineJoin(in *Interpreter, args []any) error {
	j, err := num(args, 0)
	if err != nil {
		return err
	}
	in.gs().LineJoin = graphics.LineJoinStyle(j)
	return nil
}

func opSetMiterLimit(in *Interpreter, args []any) error {
	m, err := num(args, 0)
	if err != nil {
		return err
	}
	in.gs().MiterLimit = m
	return nil
}

func opSetDash(in *Interpreter, args []any) error {
	if len(args) < 2 {
		return errArgCount
	}
	dash, ok := floats(args[0])
	if !ok {
		return errors.New("invalid dash array")
	}
	phase, err := num(args, 1)
	if err != nil {
		return err
	}
	in.gs().SetDash(dash, phase)
	return nil
}

func opSetRenderingIntent(in *Interpreter, args []any) error {
	intent, err := str(args, 0)
	if err != nil {
		return err
	}
	in.gs().RenderingIntent = intent
	return nil
}

func opSetFlatness(in *Interpreter, args []any) error {
	f, err := num(args, 0)
	if err != nil {
		return err
	}
	in.gs().Flatness = f
	return nil
}

func opSave(in *Interpreter, _ []any) error {
	in.save()
	return nil
}

func opRestore(in *Interpreter, _ []any) error {
	in.restore()
	return nil
}

func opTransform(in *Interpreter, args []any) error {
	m, err := matrixArgs(args)
	if err != nil {
		return err
	}
	in.stack.Transform(m)
	return nil
}

// matrixArgs reads a matrix given as six numbers or as a single array.
func matrixArgs(args []any) (matrix.Matrix, error) {
	if len(args) == 1 {
		if m, ok := toMatrix(args[0]); ok {
			return m, nil
		}
		return matrix.Matrix{}, errors.New("invalid matrix")
	}
	v, err := nums(args, 0, 6)
	if err != nil {
		return matrix.Matrix{}, err
	}
	return matrix.Matrix{v[0], v[1], v[2], v[3], v[4], v[5]}, nil
}

// opSetGState applies the entries of an ExtGState dictionary, given as
// a list of [key, value] pairs.
func opSetGState(in *Interpreter, args []any) error {
	if len(args) == 0 {
		return errArgCount
	}
	entries, ok := args[0].([]any)
	if !ok {
		return fmt.Errorf("graphics state entries expected, got %T", args[0])
	}
	for _, e := range entries {
		kv, ok := e.([]any)
		if !ok || len(kv) != 2 {
			return errors.New("malformed graphics state entry")
		}
		key, ok := kv[0].(string)
		if !ok {
			return errors.New("malformed graphics state key")
		}
		if err := in.setGStateEntry(key, kv[1]); err != nil {
			if errors.As(err, new(*fatalError)) {
				return err
			}
			logger.Get().Warn("graphics state entry skipped", "key", key, "error", err)
		}
	}
	return nil
}

func (in *Interpreter) setGStateEntry(key string, value any) error {
	gs := in.gs()
	switch key {
	case "LW":
		return opSetLineWidth(in, []any{value})
	case "LC":
		return opSetLineCap(in, []any{value})
	case "LJ":
		return opSetLineJoin(in, []any{value})
	case "ML":
		return opSetMiterLimit(in, []any{value})
	case "D":
		pair, ok := value.([]any)
		if !ok {
			return errors.New("invalid dash")
		}
		return opSetDash(in, pair)
	case "RI":
		return opSetRenderingIntent(in, []any{value})
	case "FL":
		return opSetFlatness(in, []any{value})
	case "Font":
		pair, ok := value.([]any)
		if !ok {
			return errors.New("invalid font entry")
		}
		return opSetFont(in, pair)
	case "CA":
		a, err := num([]any{value}, 0)
		if err != nil {
			return err
		}
		gs.StrokeAlpha = a
	case "ca":
		a, err := num([]any{value}, 0)
		if err != nil {
			return err
		}
		gs.FillAlpha = a
	case "BM":
		gs.BlendMode = blendMode(value)
	case "SMask":
		in.setSMask(value)
	case "TR":
		tr, err := transferMaps(value)
		if err != nil {
			return err
		}
		gs.Transfer = tr
	case "OP", "op", "OPM", "SA", "HT", "BG", "BG2", "UCR", "UCR2", "TR2", "TK", "AIS", "Type":
		// no effect on screen rendering
	default:
		logger.Get().Debug("unknown graphics state key", "key", key)
	}
	return nil
}

// blendMode picks the first supported mode from a name or a list of
// names.  Unsupported modes give Normal.
func blendMode(v any) surface.BlendMode {
	var names []any
	switch v := v.(type) {
	case string:
		names = []any{v}
	case []any:
		names = v
	case []string:
		for _, s := range v {
			names = append(names, s)
		}
	}
	for _, n := range names {
		s, ok := n.(string)
		if !ok {
			continue
		}
		if m, ok := surface.ParseBlendMode(s); ok {
			return m
		}
		logger.Get().Debug("unsupported blend mode", "mode", s)
	}
	return surface.BlendNormal
}

// transferMaps converts the TR entry: false or nil for the identity,
// otherwise one or four 256-entry tables.
func transferMaps(v any) ([][]uint8, error) {
	switch v := v.(type) {
	case nil, bool:
		return nil, nil
	case [][]uint8:
		return checkMaps(v)
	case []any:
		maps := make([][]uint8, len(v))
		for i, x := range v {
			if x == nil {
				maps[i] = identityMap()
				continue
			}
			b, ok := toBytes(x)
			if !ok {
				return nil, errors.New("invalid transfer function")
			}
			maps[i] = b
		}
		return checkMaps(maps)
	default:
		return nil, fmt.Errorf("invalid transfer functions %T", v)
	}
}

func checkMaps(maps [][]uint8) ([][]uint8, error) {
	if len(maps) != 1 && len(maps) != 4 {
		return nil, fmt.Errorf("%d transfer functions, expected 1 or 4", len(maps))
	}
	for _, m := range maps {
		if len(m) != 256 {
			return nil, errors.New("transfer function must have 256 entries")
		}
	}
	return maps, nil
}

func identityMap() []uint8 {
	m := make([]uint8, 256)
	for i := range m {
		m[i] = uint8(i)
	}
	return m
}

// setSMask handles the SMask graphics state entry.  A false value turns
// the soft mask off; any other value activates the mask defined by the
// most recent mask group.
func (in *Interpreter) setSMask(v any) {
	gs := in.gs()
	var m *softmask.SoftMask
	switch v := v.(type) {
	case *softmask.SoftMask:
		m = v
	case nil:
	case bool:
		if v {
			m = in.tempSMask
		}
	default:
		m = in.tempSMask
	}
	in.tempSMask = nil

	if in.mask != nil {
		in.endMaskMode()
	}
	if m == nil {
		if v != false && v != nil {
			logger.Get().Warn("soft mask activated before its group was drawn")
		}
		gs.SMask = nil
		in.dropUnusedMasks()
		return
	}
	m.Activate(gs.CTM)
	gs.SMask = m
	in.beginMaskMode(m)
	in.dropUnusedMasks()
}

// colour operators

func opSetFillRGBColor(in *Interpreter, args []any) error {
	c, err := rgbColor(args)
	if err != nil {
		return err
	}
	in.setFill(c)
	return nil
}

func opSetStrokeRGBColor(in *Interpreter, args []any) error {
	c, err := rgbColor(args)
	if err != nil {
		return err
	}
	in.setStroke(c)
	return nil
}

func opSetFillGray(in *Interpreter, args []any) error {
	g, err := num(args, 0)
	if err != nil {
		return err
	}
	in.setFill(grayColor(g))
	return nil
}

func opSetStrokeGray(in *Interpreter, args []any) error {
	g, err := num(args, 0)
	if err != nil {
		return err
	}
	in.setStroke(grayColor(g))
	return nil
}

func opSetFillCMYKColor(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 4)
	if err != nil {
		return err
	}
	in.setFill(cmykColor(v[0], v[1], v[2], v[3]))
	return nil
}

func opSetStrokeCMYKColor(in *Interpreter, args []any) error {
	v, err := nums(args, 0, 4)
	if err != nil {
		return err
	}
	in.setStroke(cmykColor(v[0], v[1], v[2], v[3]))
	return nil
}

func opSetFillColor(in *Interpreter, args []any) error {
	v, err := nums(args, 0, len(args))
	if err != nil {
		return err
	}
	c, err := componentColor(v)
	if err != nil {
		return err
	}
	in.setFill(c)
	return nil
}

func opSetStrokeColor(in *Interpreter, args []any) error {
	v, err := nums(args, 0, len(args))
	if err != nil {
		return err
	}
	c, err := componentColor(v)
	if err != nil {
		return err
	}
	in.setStroke(c)
	return nil
}

func opSetFillColorN(in *Interpreter, args []any) error {
	p, col, err := in.patternArgs(args, in.gs().FillColor)
	if err != nil || p == nil {
		if err == nil {
			return opSetFillColor(in, args)
		}
		return err
	}
	if in.forced != nil {
		return nil
	}
	src, err := in.patterns.Resolve(p, pattern.Context{
		Transform: in.patternSpace(),
		Color:     col,
	})
	if err != nil {
		return fatal(err)
	}
	gs := in.gs()
	gs.FillPaint = src
	gs.FillPattern = true
	return nil
}

func opSetStrokeColorN(in *Interpreter, args []any) error {
	p, col, err := in.patternArgs(args, in.gs().StrokeColor)
	if err != nil || p == nil {
		if err == nil {
			return opSetStrokeColor(in, args)
		}
		return err
	}
	if in.forced != nil {
		return nil
	}
	src, err := in.patterns.Resolve(p, pattern.Context{
		Transform: in.patternSpace(),
		Color:     col,
	})
	if err != nil {
		return fatal(err)
	}
	gs := in.gs()
	gs.StrokePaint = src
	gs.StrokePattern = true
	return nil
}

// patternArgs decodes the arguments of setFillColorN and
// setStrokeColorN.  The first argument is a pattern or the id of a
// pattern resource, optionally followed by the colour of an uncolored
// pattern; col is the default for the latter.  A nil pattern without
// error means the arguments are plain colour components.
func (in *Interpreter) patternArgs(args []any, col color.RGBA) (pattern.Pattern, color.RGBA, error) {
	if len(args) == 0 {
		return nil, color.RGBA{}, errArgCount
	}
	var p pattern.Pattern
	switch v := args[0].(type) {
	case pattern.Pattern:
		p = v
	case string:
		obj, err := in.lookup(v)
		if err != nil {
			return nil, color.RGBA{}, err
		}
		pp, ok := obj.(pattern.Pattern)
		if !ok {
			return nil, color.RGBA{}, fatal(fmt.Errorf("%w: %s is %T, not a pattern", errWrongResource, v, obj))
		}
		p = pp
	default:
		return nil, color.RGBA{}, nil
	}

	if len(args) > 1 {
		switch c := args[1].(type) {
		case color.RGBA:
			col = c
		default:
			if v, ok := floats(c); ok && len(v) >= 3 {
				rgb, err := rgbColor([]any{v[0], v[1], v[2]})
				if err != nil {
					return nil, color.RGBA{}, err
				}
				col = rgb
			}
		}
	}
	return p, col, nil
}

func (in *Interpreter) setFill(c color.RGBA) {
	if in.forced != nil {
		return
	}
	in.gs().SetFillRGB(c)
}

func (in *Interpreter) setStroke(c color.RGBA) {
	if in.forced != nil {
		return
	}
	in.gs().SetStrokeRGB(c)
}

// lookup returns a resolved resource.
func (in *Interpreter) lookup(id string) (any, error) {
	var store *resource.Store
	if in.cfg.Resources != nil {
		store = in.cfg.Resources.For(id)
	}
	if store == nil {
		return nil, fmt.Errorf("resource %q: no object store", id)
	}
	obj, ok := store.Get(id)
	if !ok {
		return nil, fmt.Errorf("resource %q is not resolved", id)
	}
	return obj, nil
}

// lookupFont returns the font resource with the given id.
func (in *Interpreter) lookupFont(id string) (*text.Font, error) {
	obj, err := in.lookup(id)
	if err != nil {
		return nil, fatal(err)
	}
	f, ok := obj.(*text.Font)
	if !ok {
		return nil, fatal(fmt.Errorf("%w: %s is %T, not a font", errWrongResource, id, obj))
	}
	return f, nil
}
