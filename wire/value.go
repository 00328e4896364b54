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

package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/imaging"
	"seehuhn.de/go/pagerender/oplist"
)

var errEmpty = errors.New("empty value")

// decodeArgs decodes the argument array of one operator.
func decodeArgs(op oplist.OpCode, raw json.RawMessage) ([]any, error) {
	v, err := decodeValue(raw)
	if err != nil || v == nil {
		return nil, err
	}
	args, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("argument array expected, got %T", v)
	}

	switch op {
	case oplist.PaintInlineImageXObjectGroup:
		if len(args) > 1 {
			args[1], err = placements(args[1])
		}
	case oplist.PaintImageMaskXObjectGroup:
		if len(args) > 0 {
			args[0], err = maskPlacements(args[0])
		}
	}
	if err != nil {
		return nil, err
	}
	return args, nil
}

// decodeValue decodes a single JSON value.  Objects are converted
// according to their "type" member, arrays become []any.
func decodeValue(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errEmpty
	}
	switch raw[0] {
	case '{':
		return decodeObject(raw)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		res := make([]any, len(items))
		for i, item := range items {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	default:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func placements(v any) ([]imaging.Placement, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("placement list expected, got %T", v)
	}
	res := make([]imaging.Placement, len(items))
	for i, x := range items {
		p, ok := x.(imaging.Placement)
		if !ok {
			return nil, fmt.Errorf("placement expected, got %T", x)
		}
		res[i] = p
	}
	return res, nil
}

func maskPlacements(v any) ([]imaging.MaskPlacement, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("mask placement list expected, got %T", v)
	}
	res := make([]imaging.MaskPlacement, len(items))
	for i, x := range items {
		p, ok := x.(imaging.MaskPlacement)
		if !ok {
			return nil, fmt.Errorf("mask placement expected, got %T", x)
		}
		res[i] = p
	}
	return res, nil
}

// Color is an sRGB colour.  In JSON it is written as "#rrggbb",
// "#rrggbbaa", or as an array of three or four numbers in [0, 255].
type Color color.RGBA

// UnmarshalJSON implements the [json.Unmarshaler] interface.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		col, err := ParseColor(s)
		if err != nil {
			return err
		}
		*c = Color(col)
		return nil
	}

	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid colour %s", data)
	}
	if len(v) != 3 && len(v) != 4 {
		return fmt.Errorf("colour with %d components", len(v))
	}
	alpha := 255.0
	if len(v) == 4 {
		alpha = v[3]
	}
	*c = Color{R: clampByte(v[0]), G: clampByte(v[1]), B: clampByte(v[2]), A: clampByte(alpha)}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
func (c Color) MarshalJSON() ([]byte, error) {
	s := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	if c.A != 255 {
		s += fmt.Sprintf("%02x", c.A)
	}
	return json.Marshal(s)
}

// ParseColor parses a colour of the form "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	x, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	if len(hex) == 6 {
		x = x<<8 | 0xff
	}
	return color.RGBA{R: uint8(x >> 24), G: uint8(x >> 16), B: uint8(x >> 8), A: uint8(x)}, nil
}

func clampByte(x float64) uint8 {
	return uint8(min(max(x+0.5, 0), 255))
}

func toMatrix(v []float64) (matrix.Matrix, error) {
	switch len(v) {
	case 0:
		return matrix.Matrix{}, nil
	case 6:
		return matrix.Matrix(v), nil
	default:
		return matrix.Matrix{}, fmt.Errorf("matrix with %d entries", len(v))
	}
}

func toRect(v []float64) (rect.Rect, error) {
	if len(v) != 4 {
		return rect.Rect{}, fmt.Errorf("rectangle with %d entries", len(v))
	}
	return rect.Rect{LLx: v[0], LLy: v[1], URx: v[2], URy: v[3]}, nil
}

func toVec(v []float64) (vec.Vec2, error) {
	if len(v) != 2 {
		return vec.Vec2{}, fmt.Errorf("point with %d entries", len(v))
	}
	return vec.Vec2{X: v[0], Y: v[1]}, nil
}
