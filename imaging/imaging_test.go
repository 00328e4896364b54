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

package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagerender/surface"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func rowOf(img *image.RGBA, y, n int) []color.RGBA {
	res := make([]color.RGBA, n)
	for x := range res {
		res[x] = img.RGBAAt(x, y)
	}
	return res
}

func TestGray1(t *testing.T) {
	r := &Resource{Width: 10, Height: 1, Kind: Gray1, Data: []byte{0b10100000, 0b01000000}}
	img, err := Decode(r, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []color.RGBA{white, black, white, black, black, black, black, black, black, white}
	if d := cmp.Diff(want, rowOf(img, 0, 10)); d != "" {
		t.Errorf("unexpected pixels (-want +got):\n%s", d)
	}

	inv := make([]uint8, 256)
	for i := range inv {
		inv[i] = uint8(255 - i)
	}
	img, err = Decode(r, &TransferMaps{Gray: inv})
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 0); got != black {
		t.Errorf("inverted: got %v, want black", got)
	}
}

func TestGray1Colors(t *testing.T) {
	green := color.RGBA{G: 128, A: 255}
	r := &Resource{
		Width: 3, Height: 1, Kind: Gray1, Data: []byte{0b10100000},
		Foreground: &red,
		Background: &green,
	}
	img, err := Decode(r, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]color.RGBA{red, green, red}, rowOf(img, 0, 3)); d != "" {
		t.Errorf("unexpected pixels (-want +got):\n%s", d)
	}

	inv := make([]uint8, 256)
	for i := range inv {
		inv[i] = uint8(255 - i)
	}
	img, err = Decode(r, &TransferMaps{Gray: inv})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]color.RGBA{green, red, green}, rowOf(img, 0, 3)); d != "" {
		t.Errorf("inverted: unexpected pixels (-want +got):\n%s", d)
	}

	// a translucent background is stored premultiplied
	half := color.RGBA{R: 255, A: 128}
	r.Background = &half
	img, err = Decode(r, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.RGBAAt(1, 0), (color.RGBA{R: 128, A: 128}); got != want {
		t.Errorf("translucent: got %v, want %v", got, want)
	}
}

func TestChunks(t *testing.T) {
	const h = 2*ChunkHeight + 5
	data := make([]byte, 3*2*h)
	for y := range h {
		data[6*y] = uint8(y)
		data[6*y+4] = uint8(2 * y)
	}
	img, err := Decode(&Resource{Width: 2, Height: h, Kind: RGB24, Data: data}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for y := range h {
		want := []color.RGBA{{R: uint8(y), A: 255}, {G: uint8(2 * y), A: 255}}
		if d := cmp.Diff(want, rowOf(img, y, 2)); d != "" {
			t.Fatalf("row %d (-want +got):\n%s", y, d)
		}
	}
}

func TestRGBA32(t *testing.T) {
	r := &Resource{Width: 1, Height: 1, Kind: RGBA32, Data: []byte{255, 0, 0, 128}}
	img, err := Decode(r, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.RGBAAt(0, 0), (color.RGBA{R: 128, A: 128}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTransferMaps(t *testing.T) {
	zero := make([]uint8, 256)
	r := &Resource{Width: 1, Height: 1, Kind: RGB24, Data: []byte{10, 20, 30}}
	img, err := Decode(r, NewTransferMaps([][]uint8{nil, zero, nil, nil}))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.RGBAAt(0, 0), (color.RGBA{R: 10, B: 30, A: 255}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	if NewTransferMaps(nil) != nil || NewTransferMaps([][]uint8{{1, 2}}) != nil {
		t.Error("unusable maps were not ignored")
	}
	tm := NewTransferMaps([][]uint8{zero})
	if tm == nil || tm.R == nil || tm.Gray == nil {
		t.Errorf("single map not applied to all components: %v", tm)
	}
}

func TestValidate(t *testing.T) {
	tests := []*Resource{
		{Width: 0, Height: 1, Kind: RGB24, Data: []byte{1, 2, 3}},
		{Width: 2, Height: 2, Kind: RGB24, Data: []byte{1, 2, 3}},
		{Width: 1, Height: 1, Kind: 7, Data: []byte{1, 2, 3, 4}},
		{Width: 1, Height: 1, Kind: Gray1},
	}
	for i, r := range tests {
		if err := r.Validate(); err == nil {
			t.Errorf("%d: invalid resource accepted", i)
		}
	}
}

func TestStencilMask(t *testing.T) {
	m, err := StencilMask(&Resource{Width: 4, Height: 1, Kind: Gray1, Data: []byte{0b01100000}})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]uint8{255, 0, 0, 255}, m.Pix); d != "" {
		t.Errorf("unexpected mask (-want +got):\n%s", d)
	}
	if _, err := StencilMask(&Resource{Width: 1, Height: 1, Kind: RGB24, Data: []byte{0, 0, 0}}); err == nil {
		t.Error("RGB image accepted as stencil mask")
	}
}

func TestDraw(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, red)
	src.SetRGBA(1, 0, red)
	src.SetRGBA(0, 1, blue)
	src.SetRGBA(1, 1, blue)

	dst := surface.New(10, 10)
	Draw(dst, src, image.Rectangle{}, matrix.Scale(10, 10), &surface.Paint{Alpha: 1}, false)

	// The first image row is mapped to the top of the unit square, which
	// is the bottom half of the surface.
	for _, y := range []int{1, 3} {
		if got := dst.RGBAAt(5, y); got != blue {
			t.Errorf("row %d: got %v, want blue", y, got)
		}
	}
	for _, y := range []int{6, 8} {
		if got := dst.RGBAAt(5, y); got != red {
			t.Errorf("row %d: got %v, want red", y, got)
		}
	}
}

func TestDrawClip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, red)
	clip := image.NewAlpha(image.Rect(0, 0, 4, 4))
	clip.SetAlpha(1, 1, color.Alpha{A: 255})

	dst := surface.New(4, 4)
	Draw(dst, src, image.Rectangle{}, matrix.Scale(4, 4), &surface.Paint{Alpha: 1, Clip: clip}, false)
	for y := range 4 {
		for x := range 4 {
			want := color.RGBA{}
			if x == 1 && y == 1 {
				want = red
			}
			if got := dst.RGBAAt(x, y); got != want {
				t.Errorf("(%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawMask(t *testing.T) {
	mask := image.NewAlpha(image.Rect(0, 0, 2, 1))
	mask.Pix[0] = 255
	dst := surface.New(4, 4)
	paint := &surface.Paint{Source: surface.Solid{C: blue}, Alpha: 1}
	DrawMask(dst, mask, matrix.Scale(4, 4), paint, false)

	if got := dst.RGBAAt(1, 2); got != blue {
		t.Errorf("left half: got %v, want blue", got)
	}
	if got := dst.RGBAAt(3, 2); got != (color.RGBA{}) {
		t.Errorf("right half: got %v, want transparent", got)
	}
}

func TestRepeatPlacements(t *testing.T) {
	got := RepeatPlacements(2, 0, 0, 3, []float64{1, 2, 5, 6, 9})
	want := []Placement{
		{Matrix: matrix.Matrix{2, 0, 0, 3, 1, 2}},
		{Matrix: matrix.Matrix{2, 0, 0, 3, 5, 6}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("unexpected placements (-want +got):\n%s", d)
	}
}
