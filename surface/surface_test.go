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

package surface

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/matrix"
)

func pixel(s *Surface, x, y int) color.RGBA {
	return s.RGBAAt(x, y)
}

func TestFillSpanSolid(t *testing.T) {
	s := New(4, 1)
	red := Solid{C: color.RGBA{R: 255, A: 255}}
	s.FillSpan(0, 1, []float32{1, 0.5, 0}, &Paint{Source: red, Alpha: 1})

	want := []color.RGBA{
		{},
		{R: 255, A: 255},
		{R: 128, A: 128},
		{},
	}
	for x, w := range want {
		if got := pixel(s, x, 0); got != w {
			t.Errorf("pixel %d: got %v, want %v", x, got, w)
		}
	}
}

func TestFillSpanClipAndBounds(t *testing.T) {
	s := New(3, 2)
	clip := image.NewAlpha(image.Rect(0, 0, 3, 2))
	clip.SetAlpha(1, 1, color.Alpha{A: 255})

	// the span starts left of the surface and extends past its right edge
	s.FillSpan(1, -2, []float32{1, 1, 1, 1, 1, 1, 1}, &Paint{Source: Black, Alpha: 1, Clip: clip})
	s.FillSpan(5, 0, []float32{1}, &Paint{Source: Black, Alpha: 1})

	for y := range 2 {
		for x := range 3 {
			want := color.RGBA{}
			if x == 1 && y == 1 {
				want = color.RGBA{A: 255}
			}
			if got := pixel(s, x, y); got != want {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSourceOver(t *testing.T) {
	s := New(1, 1)
	s.Fill(color.RGBA{B: 255, A: 255})
	s.FillSpan(0, 0, []float32{1}, &Paint{
		Source: Solid{C: color.RGBA{R: 255, A: 255}},
		Alpha:  0.5,
	})
	got := pixel(s, 0, 0)
	want := color.RGBA{R: 128, B: 127, A: 255}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBlendModes(t *testing.T) {
	grey := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	tests := []struct {
		mode     BlendMode
		backdrop color.RGBA
		src      color.RGBA
		want     color.RGBA
	}{
		{BlendMultiply, white, grey, grey},
		{BlendMultiply, grey, color.RGBA{A: 255}, color.RGBA{A: 255}},
		{BlendScreen, color.RGBA{A: 255}, grey, grey},
		{BlendDarken, grey, white, grey},
		{BlendLighten, grey, white, white},
		{BlendDifference, white, white, color.RGBA{A: 255}},
		{BlendExclusion, color.RGBA{A: 255}, grey, grey},
	}
	for _, test := range tests {
		s := New(1, 1)
		s.Fill(test.backdrop)
		s.FillSpan(0, 0, []float32{1}, &Paint{Source: Solid{C: test.src}, Alpha: 1, Blend: test.mode})
		if got := pixel(s, 0, 0); got != test.want {
			t.Errorf("%s: got %v, want %v", test.mode, got, test.want)
		}
	}
}

func TestParseBlendMode(t *testing.T) {
	for _, name := range []string{"Normal", "Compatible", "Multiply", "SoftLight", "multiply"} {
		if _, ok := ParseBlendMode(name); !ok {
			t.Errorf("%s not recognised", name)
		}
	}
	if m, ok := ParseBlendMode("Hue"); ok || m != BlendNormal {
		t.Error("non-separable mode accepted")
	}
	if BlendScreen.String() != "Screen" {
		t.Errorf("got %q", BlendScreen.String())
	}
}

func TestDraw(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	src.SetRGBA(1, 1, color.RGBA{G: 100, A: 100})

	s := New(3, 3)
	s.Draw(src, 1, 1, &Paint{Alpha: 1})

	want := map[image.Point]color.RGBA{
		image.Pt(1, 1): {G: 255, A: 255},
		image.Pt(2, 2): {G: 100, A: 100},
	}
	for y := range 3 {
		for x := range 3 {
			if got := pixel(s, x, y); got != want[image.Pt(x, y)] {
				t.Errorf("pixel (%d,%d): got %v", x, y, got)
			}
		}
	}
}

func TestImageSourceRepeat(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	src := &ImageSource{Img: img, ToImage: matrix.Identity, Repeat: true}

	var got []uint8
	for x := -2; x < 4; x++ {
		got = append(got, src.ColorAt(x, 7).R)
	}
	want := []uint8{255, 0, 255, 0, 255, 0}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	src.Repeat = false
	if c := src.ColorAt(2, 0); c.A != 0 {
		t.Error("pixel outside the image is not transparent")
	}
	src.Extend = true
	if c := src.ColorAt(-5, 3); c.R != 255 {
		t.Error("extension does not clamp to the edge")
	}
}

func TestPool(t *testing.T) {
	p := NewPool()
	a := p.Get("groupAt0", 10, 10)
	a.Fill(color.RGBA{A: 255})
	b := p.Get("groupAt0", 10, 10)
	if a == b {
		t.Fatal("checked out surface handed out twice")
	}
	if p.InUse() != 2 {
		t.Errorf("InUse = %d", p.InUse())
	}

	p.Put("groupAt0", a)
	c := p.Get("groupAt0", 4, 5)
	if c != a {
		t.Error("idle surface not reused")
	}
	if c.Width() != 4 || c.Height() != 5 {
		t.Errorf("size %dx%d", c.Width(), c.Height())
	}
	for _, v := range c.Pix {
		if v != 0 {
			t.Fatal("reused surface not cleared")
		}
	}

	p.Put("groupAt0", b)
	p.Put("groupAt0", c)
	if p.InUse() != 0 {
		t.Errorf("InUse = %d", p.InUse())
	}
}
