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
	"iter"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagerender/raster"
)

// Stack is a graphics state stack.  The current state is kept outside
// the stack of saved states.
type Stack struct {
	cur   GraphicsState
	saved []GraphicsState

	pendingClip    raster.FillRule
	hasPendingClip bool

	pixelWidth      float64
	pixelWidthValid bool
}

// NewStack returns a stack with the given current state and no saved
// states.
func NewStack(initial GraphicsState) *Stack {
	return &Stack{cur: initial}
}

// Current returns the current state.  The pointer stays valid until the
// next call to Save, Restore or Unwind.
func (s *Stack) Current() *GraphicsState {
	return &s.cur
}

// Depth returns the number of saved states.
func (s *Stack) Depth() int {
	return len(s.saved)
}

// All iterates over the saved states, bottom-most first, followed by the
// current state.
func (s *Stack) All() iter.Seq[*GraphicsState] {
	return func(yield func(*GraphicsState) bool) {
		for i := range s.saved {
			if !yield(&s.saved[i]) {
				return
			}
		}
		yield(&s.cur)
	}
}

// Save pushes a copy of the current state.
func (s *Stack) Save() {
	s.saved = append(s.saved, s.cur.Clone())
}

// Restore pops the most recently saved state.  On an empty stack, only
// the pending clip and cached values are cleared.  The return value
// reports whether a state was popped.
func (s *Stack) Restore() bool {
	s.hasPendingClip = false
	s.pixelWidthValid = false
	n := len(s.saved)
	if n == 0 {
		return false
	}
	s.cur = s.saved[n-1]
	s.saved[n-1] = GraphicsState{}
	s.saved = s.saved[:n-1]
	return true
}

// Unwind pops all saved states, leaving the bottom-most one as the
// current state.
func (s *Stack) Unwind() {
	if len(s.saved) > 0 {
		s.cur = s.saved[0]
	}
	clear(s.saved)
	s.saved = s.saved[:0]
	s.hasPendingClip = false
	s.pixelWidthValid = false
}

// SetCTM replaces the current transformation matrix.
func (s *Stack) SetCTM(m matrix.Matrix) {
	s.cur.CTM = m
	s.pixelWidthValid = false
}

// Transform prepends m to the current transformation matrix.
func (s *Stack) Transform(m matrix.Matrix) {
	s.SetCTM(m.Mul(s.cur.CTM))
}

// SinglePixelWidth returns the user space width of the thinnest line
// which still covers a device pixel in every direction.
func (s *Stack) SinglePixelWidth() float64 {
	if !s.pixelWidthValid {
		_, sMin := raster.SingularValues(s.cur.CTM)
		if sMin > 0 {
			s.pixelWidth = 1 / sMin
		} else {
			s.pixelWidth = 1
		}
		s.pixelWidthValid = true
	}
	return s.pixelWidth
}

// SetPendingClip records a clip operator.  The clip takes effect when the
// current path is consumed.
func (s *Stack) SetPendingClip(rule raster.FillRule) {
	s.pendingClip = rule
	s.hasPendingClip = true
}

// TakePendingClip returns and clears the pending clip.
func (s *Stack) TakePendingClip() (raster.FillRule, bool) {
	rule, ok := s.pendingClip, s.hasPendingClip
	s.hasPendingClip = false
	return rule, ok
}
