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

package state

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagerender/raster"
	"seehuhn.de/go/pagerender/surface"
)

func TestSaveRestoreBalance(t *testing.T) {
	s := NewStack(New(matrix.Identity))
	for i := range 5 {
		s.Save()
		s.Current().LineWidth = float64(i + 2)
		s.Transform(matrix.Scale(2, 2))
	}
	if s.Depth() != 5 {
		t.Fatalf("depth %d, want 5", s.Depth())
	}
	for range 5 {
		if !s.Restore() {
			t.Fatal("restore failed")
		}
	}
	if s.Depth() != 0 {
		t.Errorf("depth %d after balanced restores, want 0", s.Depth())
	}
	g := s.Current()
	if g.LineWidth != 1 || g.CTM != matrix.Identity {
		t.Errorf("state not restored: width %g, CTM %v", g.LineWidth, g.CTM)
	}
	if s.Restore() {
		t.Error("restore on empty stack reported success")
	}
}

func TestSnapshot(t *testing.T) {
	s := NewStack(New(matrix.Identity))
	s.Current().SetDash([]float64{3, 1}, 0)
	s.Save()
	s.Current().SetDash([]float64{5}, 2)
	s.Current().SetFillRGB(color.RGBA{R: 255, A: 255})
	s.Restore()

	g := s.Current()
	if d := cmp.Diff([]float64{3, 1}, g.Dash); d != "" {
		t.Errorf("dash changed by inner state (-want +got):\n%s", d)
	}
	if g.FillPaint != surface.Black {
		t.Errorf("fill paint changed by inner state: %v", g.FillPaint)
	}
}

func TestPendingClip(t *testing.T) {
	s := NewStack(New(matrix.Identity))
	s.SetPendingClip(raster.EvenOdd)
	s.Restore()
	if _, ok := s.TakePendingClip(); ok {
		t.Error("pending clip survived restore on an empty stack")
	}

	s.SetPendingClip(raster.EvenOdd)
	rule, ok := s.TakePendingClip()
	if !ok || rule != raster.EvenOdd {
		t.Errorf("got %v %t, want evenodd true", rule, ok)
	}
	if _, ok := s.TakePendingClip(); ok {
		t.Error("pending clip not cleared")
	}
}

func TestSinglePixelWidth(t *testing.T) {
	s := NewStack(New(matrix.Identity))
	if w := s.SinglePixelWidth(); w != 1 {
		t.Errorf("identity: got %g, want 1", w)
	}
	s.Save()
	s.Transform(matrix.Scale(4, 2))
	if w := s.SinglePixelWidth(); w != 0.5 {
		t.Errorf("scaled: got %g, want 0.5", w)
	}
	s.Restore()
	if w := s.SinglePixelWidth(); w != 1 {
		t.Errorf("after restore: got %g, want 1", w)
	}
}

func TestUnwind(t *testing.T) {
	s := NewStack(New(matrix.Identity))
	s.Save()
	s.Current().LineWidth = 7
	s.Save()
	s.Save()
	s.Unwind()
	if s.Depth() != 0 || s.Current().LineWidth != 1 {
		t.Errorf("depth %d, width %g after unwind", s.Depth(), s.Current().LineWidth)
	}
}
