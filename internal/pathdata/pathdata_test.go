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

package pathdata

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

func TestRoundTrip(t *testing.T) {
	d := (&Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 1, Y: 0}).
		QuadTo(vec.Vec2{X: 2, Y: 0}, vec.Vec2{X: 2, Y: 1}).
		CubeTo(vec.Vec2{X: 2, Y: 2}, vec.Vec2{X: 1, Y: 2}, vec.Vec2{X: 0, Y: 2}).
		Close()

	if len(d.Coords) != 7 {
		t.Fatalf("got %d points, want 7", len(d.Coords))
	}
	got := FromPath(d.Iter())
	if diff := cmp.Diff(d, got); diff != "" {
		t.Errorf("round trip differs (-want +got):\n%s", diff)
	}
}

func TestIterStops(t *testing.T) {
	d := (&Data{}).MoveTo(vec.Vec2{}).LineTo(vec.Vec2{X: 1}).LineTo(vec.Vec2{Y: 1})
	n := 0
	for cmd := range d.Iter() {
		n++
		if cmd == path.CmdLineTo {
			break
		}
	}
	if n != 2 {
		t.Errorf("iterated over %d segments, want 2", n)
	}
}

func TestIsBlank(t *testing.T) {
	var nilData *Data
	cases := []struct {
		d    *Data
		want bool
	}{
		{nilData, true},
		{&Data{}, true},
		{(&Data{}).MoveTo(vec.Vec2{}).MoveTo(vec.Vec2{X: 1}), true},
		{(&Data{}).MoveTo(vec.Vec2{}).LineTo(vec.Vec2{X: 1}), false},
		{(&Data{}).Close(), false},
	}
	for i, c := range cases {
		if got := c.d.IsBlank(); got != c.want {
			t.Errorf("%d: got %t, want %t", i, got, c.want)
		}
	}
}
