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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoopOrder(t *testing.T) {
	l := NewLoop()
	var got []int
	done := make(chan struct{})
	l.Post(func() {
		for i := range 5 {
			l.Post(func() {
				got = append(got, i)
				if i == 2 {
					l.Post(func() {
						got = append(got, 10)
						close(done)
					})
				}
			})
		}
	})
	<-done
	l.Close()

	want := []int{0, 1, 2, 3, 4, 10}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("execution order (-want +got):\n%s", d)
	}
	if l.Post(func() {}) {
		t.Error("Post succeeded after Close")
	}
}

func TestLoopPostAfter(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	done := make(chan time.Time, 1)
	start := time.Now()
	l.PostAfter(5*time.Millisecond, func() { done <- time.Now() })
	select {
	case at := <-done:
		if at.Sub(start) < 5*time.Millisecond {
			t.Errorf("ran after %v", at.Sub(start))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("function did not run")
	}
}
