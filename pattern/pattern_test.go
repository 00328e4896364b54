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

package pattern

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/surface"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func TestTileSizeBound(t *testing.T) {
	steps := []float64{0, 1e-320, 1e-300, 1e-7, 0.5, 1, 100, 1e6, -50, math.NaN(), math.Inf(1)}
	scales := []float64{0, 1e-9, 1, 72 / 25.4 * 4, 1e9, math.Inf(1)}
	for _, maxSize := range []int{0, 1, 17, MaxPatternSize} {
		limit := maxSize
		if limit == 0 {
			limit = MaxPatternSize
		}
		for _, step := range steps {
			for _, scale := range scales {
				size, s := TileSize(step, scale, maxSize)
				if size < 1 || size > limit {
					t.Errorf("TileSize(%g, %g, %d): size %d out of range", step, scale, maxSize, size)
				}
				if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
					t.Errorf("TileSize(%g, %g, %d): invalid scale %g", step, scale, maxSize, s)
				}
			}
		}
	}
}

func TestTileSizeExact(t *testing.T) {
	size, s := TileSize(10, 2.5, 0)
	if size != 25 || s != 2.5 {
		t.Errorf("got %d %g, want 25 2.5", size, s)
	}
	size, s = TileSize(-10, 1000, 100)
	if size != 100 || s != 10 {
		t.Errorf("got %d %g, want 100 10", size, s)
	}
}

func TestAxial(t *testing.T) {
	sh := &Shading{
		Kind:  Axial,
		Stops: []Stop{{0, red}, {1, blue}},
		P0:    vec.Vec2{X: 0, Y: 0},
		P1:    vec.Vec2{X: 10, Y: 0},
	}
	var r Resolver
	src, err := r.Resolve(sh, Context{Transform: matrix.Identity})
	if err != nil {
		t.Fatal(err)
	}
	if c := src.ColorAt(0, 0); c.R < 200 || c.B > 50 {
		t.Errorf("start: got %v, want red", c)
	}
	if c := src.ColorAt(9, 0); c.B < 200 || c.R > 50 {
		t.Errorf("end: got %v, want blue", c)
	}
	if c := src.ColorAt(15, 0); c != (color.RGBA{}) {
		t.Errorf("beyond end: got %v, want transparent", c)
	}

	ext := *sh
	ext.Extend = [2]bool{true, true}
	src, err = r.Resolve(&ext, Context{Transform: matrix.Identity})
	if err != nil {
		t.Fatal(err)
	}
	if c := src.ColorAt(15, 0); c != blue {
		t.Errorf("extended: got %v, want blue", c)
	}
	if c := src.ColorAt(-5, 3); c != red {
		t.Errorf("extended start: got %v, want red", c)
	}
}

func TestRadial(t *testing.T) {
	sh := &Shading{
		Kind:  Radial,
		Stops: []Stop{{0, red}, {1, blue}},
		R1:    10,
	}
	var r Resolver
	src, err := r.Resolve(sh, Context{Transform: matrix.Identity})
	if err != nil {
		t.Fatal(err)
	}
	if c := src.ColorAt(0, 0); c.R < 200 {
		t.Errorf("centre: got %v, want red", c)
	}
	if c := src.ColorAt(9, 0); c.B < 200 {
		t.Errorf("edge: got %v, want blue", c)
	}
	if c := src.ColorAt(15, 0); c != (color.RGBA{}) {
		t.Errorf("outside: got %v, want transparent", c)
	}
}

func TestBackground(t *testing.T) {
	sh := &Shading{
		Kind:       Axial,
		Stops:      []Stop{{0, red}},
		P1:         vec.Vec2{X: 10},
		Background: &green,
	}
	var r Resolver
	src, err := r.Resolve(sh, Context{Transform: matrix.Identity})
	if err != nil {
		t.Fatal(err)
	}
	if c := src.ColorAt(20, 0); c != green {
		t.Errorf("pattern fill: got %v, want background", c)
	}
	src, err = r.Resolve(sh, Context{Transform: matrix.Identity, ShadingFill: true})
	if err != nil {
		t.Fatal(err)
	}
	if c := src.ColorAt(20, 0); c != (color.RGBA{}) {
		t.Errorf("shadingFill: got %v, want transparent", c)
	}
}

func TestMesh(t *testing.T) {
	sh := &Shading{
		Kind:   Mesh,
		Coords: []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}},
		Colors: []color.RGBA{red},
		Figures: []Figure{
			{Kind: Triangles, Coords: []int{0, 1, 2}, Colors: []int{0, 0, 0}},
		},
		Bounds: rect.Rect{URx: 10, URy: 10},
	}
	var r Resolver
	src, err := r.Resolve(sh, Context{Transform: matrix.Identity})
	if err != nil {
		t.Fatal(err)
	}
	if c := src.ColorAt(1, 1); c != red {
		t.Errorf("inside: got %v, want red", c)
	}
	if c := src.ColorAt(8, 8); c != (color.RGBA{}) {
		t.Errorf("outside: got %v, want transparent", c)
	}
}

func TestMeshSizeLimit(t *testing.T) {
	sh := &Shading{
		Kind:   Mesh,
		Coords: []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}},
		Colors: []color.RGBA{red},
		Figures: []Figure{
			{Kind: Triangles, Coords: []int{0, 1, 2}, Colors: []int{0, 0, 0}},
		},
		Bounds: rect.Rect{URx: 10, URy: 10},
	}
	for _, maxSize := range []int{64, 5, 1} {
		src, err := newMesh(sh, matrix.Scale(100, 100), false, maxSize)
		if err != nil {
			t.Fatal(err)
		}
		img := src.(*surface.ImageSource).Img
		limit := max(maxSize, 1+2*meshBorder) // at least one pixel inside the border
		if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w > limit || h > limit {
			t.Errorf("maxSize %d: got %dx%d bitmap", maxSize, w, h)
		}
	}
}

func TestMalformed(t *testing.T) {
	tests := []Pattern{
		&Shading{Kind: Axial},
		&Shading{Kind: Radial, Stops: []Stop{{0, red}}, R0: -1},
		&Shading{Kind: 42},
		&Shading{Kind: Mesh, Coords: []vec.Vec2{{}}, Colors: []color.RGBA{red},
			Figures: []Figure{{Kind: Triangles, Coords: []int{0, 1, 0}, Colors: []int{0, 0, 0}}}},
		&Shading{Kind: Mesh, Coords: make([]vec.Vec2, 3), Colors: []color.RGBA{red},
			Figures: []Figure{{Kind: Lattice, Coords: []int{0, 1, 2}, Colors: []int{0, 0, 0}, VerticesPerRow: 2}}},
		&Tiling{PaintType: Colored},
		&Tiling{Ops: &oplist.List{}, PaintType: 3},
		&Tiling{Ops: &oplist.List{}, PaintType: Colored, XStep: math.NaN()},
	}
	for i, p := range tests {
		r := Resolver{Painter: &cellRecorder{}}
		_, err := r.Resolve(p, Context{Transform: matrix.Identity})
		var m *MalformedError
		if !errors.As(err, &m) {
			t.Errorf("%d: got %v, want MalformedError", i, err)
		}
	}
}

// cellRecorder fills the left half of each tile.
type cellRecorder struct {
	calls int
	ctm   matrix.Matrix
}

func (c *cellRecorder) PaintCell(dst *surface.Surface, t *Tiling, ctm matrix.Matrix, fill *color.RGBA) error {
	c.calls++
	c.ctm = ctm
	col := green
	if fill != nil {
		col = *fill
	}
	for y := range dst.Height() {
		for x := range dst.Width() / 2 {
			dst.SetRGBA(x, y, col)
		}
	}
	return nil
}

func TestTiling(t *testing.T) {
	rec := &cellRecorder{}
	pool := surface.NewPool()
	r := Resolver{Painter: rec, Pool: pool}
	tp := &Tiling{
		Ops:       &oplist.List{},
		BBox:      rect.Rect{URx: 10, URy: 10},
		XStep:     10,
		YStep:     10,
		PaintType: Colored,
	}
	ctx := Context{Transform: matrix.Scale(2, 2)}
	src, err := r.Resolve(tp, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if rec.ctm != matrix.Scale(2, 2) {
		t.Errorf("cell CTM %v, want scale by 2", rec.ctm)
	}
	for _, tc := range []struct {
		x    int
		want color.RGBA
	}{{5, green}, {15, color.RGBA{}}, {45, green}, {-15, green}, {-5, color.RGBA{}}} {
		if got := src.ColorAt(tc.x, 3); got != tc.want {
			t.Errorf("x=%d: got %v, want %v", tc.x, got, tc.want)
		}
	}

	if _, err := r.Resolve(tp, ctx); err != nil {
		t.Fatal(err)
	}
	if rec.calls != 1 {
		t.Errorf("cell painted %d times, want 1", rec.calls)
	}

	r.Release()
	if n := pool.InUse(); n != 0 {
		t.Errorf("%d tile surfaces not returned", n)
	}
}

func TestUncoloredTiling(t *testing.T) {
	rec := &cellRecorder{}
	r := Resolver{Painter: rec}
	tp := &Tiling{
		Ops:       &oplist.List{},
		BBox:      rect.Rect{URx: 4, URy: 4},
		XStep:     4,
		YStep:     4,
		PaintType: Uncolored,
	}
	src, err := r.Resolve(tp, Context{Transform: matrix.Identity, Color: blue})
	if err != nil {
		t.Fatal(err)
	}
	if c := src.ColorAt(0, 0); c != blue {
		t.Errorf("got %v, want blue", c)
	}
	if _, err := r.Resolve(tp, Context{Transform: matrix.Identity, Color: red}); err != nil {
		t.Fatal(err)
	}
	if rec.calls != 2 {
		t.Errorf("cell painted %d times, want 2", rec.calls)
	}
}
