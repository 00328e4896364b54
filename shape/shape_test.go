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
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/internal/pathdata"
	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/raster"
	"seehuhn.de/go/pagerender/surface"
)

func TestConstruct(t *testing.T) {
	var b Builder
	ops := []oplist.OpCode{oplist.MoveTo, oplist.CurveTo2, oplist.CurveTo3, oplist.ClosePath}
	args := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if err := b.Construct(ops, args); err != nil {
		t.Fatal(err)
	}
	pt := func(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }
	want := (&pathdata.Data{}).
		MoveTo(pt(1, 2)).
		CubeTo(pt(1, 2), pt(3, 4), pt(5, 6)).
		CubeTo(pt(7, 8), pt(9, 10), pt(9, 10)).
		Close()
	got := b.Path()
	if d := cmp.Diff(want.Cmds, got.Cmds); d != "" {
		t.Errorf("unexpected commands (-want +got):\n%s", d)
	}
	if d := cmp.Diff(want.Coords, got.Coords); d != "" {
		t.Errorf("unexpected coordinates (-want +got):\n%s", d)
	}
	if pt, ok := b.CurrentPoint(); !ok || pt != (vec.Vec2{X: 1, Y: 2}) {
		t.Errorf("current point %v %t after close, want (1,2)", pt, ok)
	}
}

func TestConstructErrors(t *testing.T) {
	var b Builder
	if err := b.Construct([]oplist.OpCode{oplist.LineTo}, []float64{1}); err == nil {
		t.Error("missing operands not detected")
	}
	if err := b.Construct([]oplist.OpCode{oplist.Fill}, nil); err == nil {
		t.Error("painting operator accepted")
	}
}

func TestReset(t *testing.T) {
	var b Builder
	b.Rect(0, 0, 1, 1)
	b.Reset()
	if !b.Empty() {
		t.Error("path not empty after Reset")
	}
	if _, ok := b.CurrentPoint(); ok {
		t.Error("current point survived Reset")
	}
}

func TestFillSquare(t *testing.T) {
	dst := surface.New(20, 20)
	var b Builder
	b.Rect(5, 5, 10, 10)
	paint := &surface.Paint{Source: surface.Solid{C: color.RGBA{R: 255, A: 255}}, Alpha: 1}
	NewPainter().Fill(dst, b.Path(), raster.NonZero, matrix.Identity, paint)

	for y := range 20 {
		for x := range 20 {
			inside := x >= 5 && x < 15 && y >= 5 && y < 15
			got := dst.RGBAAt(x, y)
			if inside && got != (color.RGBA{R: 255, A: 255}) {
				t.Fatalf("pixel (%d,%d) = %v, want red", x, y, got)
			} else if !inside && got.A != 0 {
				t.Fatalf("pixel (%d,%d) = %v, want transparent", x, y, got)
			}
		}
	}
}

func TestClipMask(t *testing.T) {
	p := NewPainter()
	var b Builder
	b.Rect(0, 0, 6, 4)
	first := p.ClipMask(b.Path(), raster.NonZero, matrix.Identity, 8, 4, nil)
	b.Reset()
	b.Rect(4, 0, 4, 4)
	second := p.ClipMask(b.Path(), raster.NonZero, matrix.Identity, 8, 4, first)

	row := second.Pix[:8]
	want := []uint8{0, 0, 0, 0, 255, 255, 0, 0}
	if d := cmp.Diff(want, row); d != "" {
		t.Errorf("unexpected clip row (-want +got):\n%s", d)
	}
	if first.Pix[7] != 0 || first.Pix[0] != 255 {
		t.Error("previous clip mask was modified")
	}
}

func TestStrokeDash(t *testing.T) {
	dst := surface.New(20, 4)
	var b Builder
	b.MoveTo(0, 2)
	b.LineTo(20, 2)
	st := &StrokeStyle{Width: 2, MiterLimit: 10, Dash: []float64{5, 5}}
	paint := &surface.Paint{Source: surface.Black, Alpha: 1}
	NewPainter().Stroke(dst, b.Path(), st, matrix.Identity, paint)

	for x, want := range []uint8{255, 0, 255, 0} {
		if got := dst.RGBAAt(5*x+2, 2).A; got != want {
			t.Errorf("dash %d: alpha %d, want %d", x, got, want)
		}
	}
}
