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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagerender/internal/pathdata"
	"seehuhn.de/go/pagerender/oplist"
)

type recorder struct {
	ctm     matrix.Matrix
	dst     *image.RGBA
	fills   []*pathdata.Data
	strokes []*pathdata.Data
	type3   []matrix.Matrix
}

func (r *recorder) CTM() matrix.Matrix         { return r.ctm }
func (r *recorder) FillPath(p *pathdata.Data)      { r.fills = append(r.fills, p) }
func (r *recorder) StrokePath(p *pathdata.Data)    { r.strokes = append(r.strokes, p) }
func (r *recorder) DirectTarget() (*image.RGBA, color.RGBA, bool) {
	if r.dst == nil {
		return nil, color.RGBA{}, false
	}
	return r.dst, color.RGBA{A: 255}, true
}
func (r *recorder) ShowType3(_ *oplist.List, m matrix.Matrix) error {
	r.type3 = append(r.type3, m)
	return nil
}

func goRegular(t *testing.T) *Font {
	t.Helper()
	f, err := sfnt.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	return &Font{LoadedName: "g_font_1", Outlines: f}
}

func TestAdvance(t *testing.T) {
	font := &Font{LoadedName: "f1"}
	st := NewState()
	st.SetFont(font, 10)
	st.CharSpacing = 1
	st.WordSpacing = 2

	items := []Item{
		{Glyph: &Glyph{Unicode: "a", Width: 500}},
		{Glyph: &Glyph{Unicode: " ", Width: 500, IsSpace: true}},
		{Adjust: -1000},
	}
	var r Renderer
	if err := r.ShowText(&st, items, &recorder{ctm: matrix.Identity}); err != nil {
		t.Fatal(err)
	}
	if want := 5 + 1 + 5 + 1 + 2 + 10.0; math.Abs(st.X-want) > 1e-9 {
		t.Errorf("X = %g, want %g", st.X, want)
	}
	if st.Y != 0 {
		t.Errorf("Y = %g", st.Y)
	}
}

func TestNegativeFontSize(t *testing.T) {
	st := NewState()
	st.SetFont(&Font{}, -10)
	if st.FontSize != 10 || st.Direction != -1 {
		t.Fatalf("size %g, direction %g", st.FontSize, st.Direction)
	}
	var r Renderer
	items := []Item{{Glyph: &Glyph{Width: 500}}}
	if err := r.ShowText(&st, items, &recorder{ctm: matrix.Identity}); err != nil {
		t.Fatal(err)
	}
	if st.X != -5 {
		t.Errorf("X = %g, want -5", st.X)
	}
}

func TestHScale(t *testing.T) {
	st := NewState()
	st.SetFont(&Font{}, 10)
	st.SetHScale(50)
	var r Renderer
	items := []Item{{Glyph: &Glyph{Width: 1000}}}
	if err := r.ShowText(&st, items, &recorder{ctm: matrix.Identity}); err != nil {
		t.Fatal(err)
	}
	if st.X != 5 {
		t.Errorf("X = %g, want 5", st.X)
	}
}

func TestVerticalAdvance(t *testing.T) {
	font := &Font{Vertical: true, DefaultVMetric: &VMetric{-1000, 500, 880}}
	st := NewState()
	st.SetFont(font, 10)

	items := []Item{
		{Glyph: &Glyph{Width: 1000, VMetric: &VMetric{-800, 500, 880}}},
		{Glyph: &Glyph{Width: 1000}},
		{Adjust: 500},
	}
	var r Renderer
	if err := r.ShowText(&st, items, &recorder{ctm: matrix.Identity}); err != nil {
		t.Fatal(err)
	}
	if want := -(8 + 10 + 5.0); math.Abs(st.Y-want) > 1e-9 {
		t.Errorf("Y = %g, want %g", st.Y, want)
	}
	if st.X != 0 {
		t.Errorf("X = %g", st.X)
	}
}

func TestLinePositioning(t *testing.T) {
	st := NewState()
	st.BeginText()
	st.SetLeadingMoveText(10, -12)
	st.NextLine()
	if st.X != 10 || st.Y != -24 {
		t.Errorf("position (%g, %g), want (10, -24)", st.X, st.Y)
	}

	st.SetTextMatrix(matrix.Translate(100, 200))
	if st.X != 0 || st.Y != 0 || st.LineX != 0 || st.LineY != 0 {
		t.Error("SetTextMatrix did not reset the position")
	}
	st.MoveText(3, 4)
	st.MoveText(3, 4)
	if st.X != 6 || st.Y != 8 {
		t.Errorf("position (%g, %g), want (6, 8)", st.X, st.Y)
	}
}

func TestType3(t *testing.T) {
	font := &Font{
		IsType3:    true,
		FontMatrix: matrix.Matrix{0.01, 0, 0, 0.01, 0, 0},
		CharProcs:  map[string]*oplist.List{"a": (&oplist.Builder{}).Fill().List()},
	}
	st := NewState()
	st.SetFont(font, 2)
	items := []Item{
		{Glyph: &Glyph{ProcID: "a", Width: 100}},
		{Glyph: &Glyph{ProcID: "missing", Width: 100}},
		{Glyph: &Glyph{ProcID: "a", Width: 100}},
	}
	rec := &recorder{ctm: matrix.Identity}
	var r Renderer
	if err := r.ShowText(&st, items, rec); err != nil {
		t.Fatal(err)
	}

	want := []matrix.Matrix{
		{0.02, 0, 0, 0.02, 0, 0},
		{0.02, 0, 0, 0.02, 4, 0},
	}
	if d := cmp.Diff(want, rec.type3); d != "" {
		t.Errorf("glyph matrices (-want +got):\n%s", d)
	}
	if st.X != 6 {
		t.Errorf("X = %g, want 6", st.X)
	}
}

func TestDirectAndOutline(t *testing.T) {
	font := goRegular(t)
	st := NewState()
	st.SetFont(font, 20)
	st.BeginText()
	st.SetTextMatrix(matrix.Translate(5, 10))
	items := []Item{{Glyph: &Glyph{Unicode: "H", Width: 700, IsInFont: true}}}

	flip := matrix.Matrix{1, 0, 0, -1, 0, 40}
	rec := &recorder{ctm: flip, dst: image.NewRGBA(image.Rect(0, 0, 40, 40))}
	var r Renderer
	if err := r.ShowText(&st, items, rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.fills) != 0 {
		t.Error("axis-aligned glyph used the outline path")
	}
	inked := 0
	for i := 3; i < len(rec.dst.Pix); i += 4 {
		if rec.dst.Pix[i] > 0 {
			inked++
		}
	}
	if inked < 20 {
		t.Errorf("only %d pixels painted", inked)
	}

	// a rotated text matrix needs the general path
	rec = &recorder{ctm: flip, dst: image.NewRGBA(image.Rect(0, 0, 40, 40))}
	st.SetTextMatrix(matrix.Matrix{0.8, 0.6, -0.6, 0.8, 10, 10})
	if err := r.ShowText(&st, items, rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.fills) != 1 {
		t.Errorf("got %d outline fills, want 1", len(rec.fills))
	}
}

func TestRenderModes(t *testing.T) {
	font := goRegular(t)
	st := NewState()
	st.SetFont(font, 12)
	items := []Item{{Glyph: &Glyph{Unicode: "o", Width: 600, IsInFont: true}}}

	var r Renderer
	for _, mode := range []RenderMode{ModeStroke, ModeFillStrokeClip, ModeInvisible} {
		st.RenderMode = mode
		rec := &recorder{ctm: matrix.Identity}
		r.BeginText()
		if err := r.ShowText(&st, items, rec); err != nil {
			t.Fatal(err)
		}
		clip, ok := r.EndText()

		wantStroke := mode != ModeInvisible
		if (len(rec.strokes) == 1) != wantStroke {
			t.Errorf("mode %d: %d strokes", mode, len(rec.strokes))
		}
		wantClip := mode == ModeFillStrokeClip
		if ok != wantClip || (ok && len(clip.Cmds) == 0) {
			t.Errorf("mode %d: clip %t", mode, ok)
		}
	}
}

func TestMissingGlyphBox(t *testing.T) {
	st := NewState()
	st.SetFont(&Font{LoadedName: "f"}, 10)
	rec := &recorder{ctm: matrix.Identity}
	var r Renderer
	items := []Item{
		{Glyph: &Glyph{Unicode: "x", Width: 500}},
		{Glyph: &Glyph{Unicode: " ", Width: 250, IsSpace: true}},
	}
	if err := r.ShowText(&st, items, rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.fills) != 1 {
		t.Errorf("got %d fills, want one box", len(rec.fills))
	}
}

func TestItems(t *testing.T) {
	g := &Glyph{Unicode: "A"}
	items, err := Items([]any{g, -250.0, 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []Item{{Glyph: g}, {Adjust: -250}, {Adjust: 3}}
	if d := cmp.Diff(want, items); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	if _, err := Items([]any{"A"}); err == nil {
		t.Error("string accepted as glyph")
	}
}
