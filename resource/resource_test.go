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

package resource

import (
	"testing"
)

func TestThen(t *testing.T) {
	s := NewStore()
	calls := 0
	if s.Then("img1", func() { calls++ }) {
		t.Fatal("unresolved id reported as resolved")
	}
	if s.Has("img1") {
		t.Error("Has before Resolve")
	}
	s.Resolve("img1", 42)
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
	s.Resolve("img1", 43)
	if calls != 1 {
		t.Errorf("callback ran again on second resolve")
	}
	if v, ok := s.Get("img1"); !ok || v != 43 {
		t.Errorf("Get = %v %t, want 43 true", v, ok)
	}
	if !s.Then("img1", func() { t.Error("callback registered for resolved id") }) {
		t.Error("resolved id reported as pending")
	}
}

func TestDone(t *testing.T) {
	s := NewStore()
	ch := s.Done("font")
	select {
	case <-ch:
		t.Fatal("Done closed early")
	default:
	}
	go s.Resolve("font", "x")
	<-ch
	<-s.Done("font")
}

func TestPoolSplit(t *testing.T) {
	p := NewPool()
	p.For("g_font1").Resolve("g_font1", 1)
	p.For("img_p1_1").Resolve("img_p1_1", 2)
	if !p.Shared.Has("g_font1") || p.Page.Has("g_font1") {
		t.Error("shared id stored in the wrong store")
	}
	if !p.Page.Has("img_p1_1") || p.Shared.Has("img_p1_1") {
		t.Error("page id stored in the wrong store")
	}
}
