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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

var errArgCount = errors.New("not enough arguments")

// toFloat converts a numeric operator argument.
func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint8:
		return float64(v), true
	default:
		return 0, false
	}
}

// num returns argument i as a finite number.
func num(args []any, i int) (float64, error) {
	if i >= len(args) {
		return 0, errArgCount
	}
	x, ok := toFloat(args[i])
	if !ok {
		return 0, fmt.Errorf("argument %d: number expected, got %T", i, args[i])
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("argument %d: non-finite number", i)
	}
	return x, nil
}

// nums returns the n arguments starting at i as numbers.
func nums(args []any, i, n int) ([]float64, error) {
	res := make([]float64, n)
	for k := range res {
		x, err := num(args, i+k)
		if err != nil {
			return nil, err
		}
		res[k] = x
	}
	return res, nil
}

// str returns argument i as a string.
func str(args []any, i int) (string, error) {
	if i >= len(args) {
		return "", errArgCount
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %d: string expected, got %T", i, args[i])
	}
	return s, nil
}

// floats converts a numeric array argument.
func floats(v any) ([]float64, bool) {
	switch v := v.(type) {
	case []float64:
		return v, true
	case []any:
		res := make([]float64, len(v))
		for i, x := range v {
			f, ok := toFloat(x)
			if !ok {
				return nil, false
			}
			res[i] = f
		}
		return res, true
	case nil:
		return nil, true
	default:
		return nil, false
	}
}

// toMatrix converts a matrix argument.  nil gives false.
func toMatrix(v any) (matrix.Matrix, bool) {
	if m, ok := v.(matrix.Matrix); ok {
		return m, true
	}
	f, ok := floats(v)
	if !ok || len(f) != 6 {
		return matrix.Matrix{}, false
	}
	return matrix.Matrix{f[0], f[1], f[2], f[3], f[4], f[5]}, true
}

// toRect converts a rectangle argument given as [x0 y0 x1 y1].
func toRect(v any) (rect.Rect, bool) {
	if r, ok := v.(rect.Rect); ok {
		return r, true
	}
	if r, ok := v.(*rect.Rect); ok && r != nil {
		return *r, true
	}
	f, ok := floats(v)
	if !ok || len(f) != 4 {
		return rect.Rect{}, false
	}
	return rect.Rect{LLx: f[0], LLy: f[1], URx: f[2], URy: f[3]}, true
}

// toBytes converts a lookup table argument.
func toBytes(v any) ([]uint8, bool) {
	if b, ok := v.([]uint8); ok {
		return b, true
	}
	f, ok := floats(v)
	if !ok {
		return nil, false
	}
	res := make([]uint8, len(f))
	for i, x := range f {
		res[i] = uint8(min(max(math.Round(x), 0), 255))
	}
	return res, true
}

// byteColor converts a colour component in [0, 1] to 8 bits.
func byteColor(x float64) uint8 {
	return uint8(min(max(math.Round(x*255), 0), 255))
}

// grayColor converts a gray level in [0, 1].
func grayColor(g float64) color.RGBA {
	v := byteColor(g)
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

// cmykColor converts CMYK components in [0, 1], without colour
// management.
func cmykColor(c, m, y, k float64) color.RGBA {
	return color.RGBA{
		R: byteColor((1 - c) * (1 - k)),
		G: byteColor((1 - m) * (1 - k)),
		B: byteColor((1 - y) * (1 - k)),
		A: 255,
	}
}

// rgbColor parses the arguments of the RGB colour operators: three
// numbers in [0, 255], or a "#rrggbb" string.
func rgbColor(args []any) (color.RGBA, error) {
	if s, ok := firstString(args); ok {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
		}
		return color.RGBA{R: r, G: g, B: b, A: 255}, nil
	}
	v, err := nums(args, 0, 3)
	if err != nil {
		return color.RGBA{}, err
	}
	conv := func(x float64) uint8 { return uint8(min(max(math.Round(x), 0), 255)) }
	return color.RGBA{R: conv(v[0]), G: conv(v[1]), B: conv(v[2]), A: 255}, nil
}

// componentColor converts 1, 3 or 4 colour components in [0, 1].
func componentColor(v []float64) (color.RGBA, error) {
	switch len(v) {
	case 1:
		return grayColor(v[0]), nil
	case 3:
		return color.RGBA{R: byteColor(v[0]), G: byteColor(v[1]), B: byteColor(v[2]), A: 255}, nil
	case 4:
		return cmykColor(v[0], v[1], v[2], v[3]), nil
	default:
		return color.RGBA{}, fmt.Errorf("unsupported number of colour components: %d", len(v))
	}
}

func firstString(args []any) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok
}
