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

package affine

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

func TestInvert(t *testing.T) {
	ms := []matrix.Matrix{
		matrix.Identity,
		{2, 0, 0, 3, 5, -7},
		{0.5, 1, -1, 0.25, 10, 20},
	}
	for _, m := range ms {
		inv, ok := Invert(m)
		if !ok {
			t.Fatalf("%v: not invertible", m)
		}
		x, y := Apply(m, 1.5, -2.5)
		u, v := Apply(inv, x, y)
		if math.Abs(u-1.5) > 1e-9 || math.Abs(v+2.5) > 1e-9 {
			t.Errorf("%v: round trip gave (%g, %g)", m, u, v)
		}
	}

	if _, ok := Invert(matrix.Matrix{1, 2, 2, 4, 0, 0}); ok {
		t.Error("singular matrix inverted")
	}
}

func TestBBox(t *testing.T) {
	r := rect.Rect{LLx: 0, LLy: 0, URx: 2, URy: 1}
	got := BBox(r, matrix.Matrix{0, 1, -1, 0, 10, 0})
	want := rect.Rect{LLx: 9, LLy: 0, URx: 10, URy: 2}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
