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
	"image/color"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/pattern"
	"seehuhn.de/go/pagerender/softmask"
	"seehuhn.de/go/pagerender/surface"
)

func redToBlue(x0, x1 float64) *pattern.Shading {
	return &pattern.Shading{
		Kind: pattern.Axial,
		Stops: []pattern.Stop{
			{Offset: 0, Color: color.RGBA{R: 255, A: 255}},
			{Offset: 1, Color: color.RGBA{B: 255, A: 255}},
		},
		P0:     vec.Vec2{X: x0},
		P1:     vec.Vec2{X: x1},
		Extend: [2]bool{true, true},
	}
}

// sameImage fails the test at the first pixel where got and want differ
// by more than one unit in some channel.
func sameImage(t *testing.T, got, want *surface.Surface) {
	t.Helper()
	for i := range want.Pix {
		d := int(got.Pix[i]) - int(want.Pix[i])
		if d < -1 || d > 1 {
			k := i / 4
			x, y := k%want.Width(), k/want.Width()
			t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got.RGBAAt(x, y), want.RGBAAt(x, y))
		}
	}
}

func TestPatternInsideGroup(t *testing.T) {
	sh := redToBlue(0, 20)

	plain := &oplist.Builder{}
	plain.Add(oplist.SetFillColorN, sh)
	plain.Rectangle(4, 4, 12, 12).Fill()
	want := draw(t, 20, 20, plain.List(), Config{})

	// the group scratch surface starts at (3, 3)
	grouped := &oplist.Builder{}
	grouped.Add(oplist.BeginGroup, &softmask.Group{BBox: rect.Rect{LLx: 3, LLy: 3, URx: 17, URy: 17}})
	grouped.Add(oplist.SetFillColorN, sh)
	grouped.Rectangle(4, 4, 12, 12).Fill()
	grouped.Add(oplist.EndGroup)
	got := draw(t, 20, 20, grouped.List(), Config{})

	sameImage(t, got, want)
}

func TestPatternInsideForm(t *testing.T) {
	plain := &oplist.Builder{}
	plain.Add(oplist.SetFillColorN, redToBlue(5, 25))
	plain.Rectangle(4, 4, 12, 12).Fill()
	want := draw(t, 20, 20, plain.List(), Config{})

	// pattern space is the form space, shifted by 5 pixels
	form := &oplist.Builder{}
	form.Add(oplist.PaintFormXObjectBegin, matrix.Translate(5, 0), rect.Rect{LLx: -5, URx: 15, URy: 20})
	form.Add(oplist.SetFillColorN, redToBlue(0, 20))
	form.Rectangle(-1, 4, 12, 12).Fill()
	form.Add(oplist.PaintFormXObjectEnd)
	got := draw(t, 20, 20, form.List(), Config{})

	sameImage(t, got, want)
}

func TestPatternAfterForm(t *testing.T) {
	sh := redToBlue(0, 20)

	plain := &oplist.Builder{}
	plain.Add(oplist.SetFillColorN, sh)
	plain.Rectangle(4, 4, 12, 12).Fill()
	want := draw(t, 20, 20, plain.List(), Config{})

	b := &oplist.Builder{}
	b.Add(oplist.PaintFormXObjectBegin, matrix.Translate(5, 0), nil)
	b.Add(oplist.PaintFormXObjectEnd)
	b.Add(oplist.SetFillColorN, sh)
	b.Rectangle(4, 4, 12, 12).Fill()
	got := draw(t, 20, 20, b.List(), Config{})

	sameImage(t, got, want)
}
