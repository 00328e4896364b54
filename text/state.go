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

// Package text places and paints glyphs.
//
// The text state lives inside the graphics state and is copied with it;
// the Renderer holds what belongs to a single text object, namely the
// glyph outlines collected for clipping.
package text

import (
	"seehuhn.de/go/geom/matrix"
)

// RenderMode is the text rendering mode.
type RenderMode uint8

// These are the text rendering modes.
const (
	ModeFill RenderMode = iota
	ModeStroke
	ModeFillStroke
	ModeInvisible
	ModeFillClip
	ModeStrokeClip
	ModeFillStrokeClip
	ModeClip
)

func (m RenderMode) fills() bool {
	return m == ModeFill || m == ModeFillStroke || m == ModeFillClip || m == ModeFillStrokeClip
}

func (m RenderMode) strokes() bool {
	return m == ModeStroke || m == ModeFillStroke || m == ModeStrokeClip || m == ModeFillStrokeClip
}

func (m RenderMode) clips() bool {
	return m >= ModeFillClip && m <= ModeClip
}

// State holds the text parameters of the graphics state.
type State struct {
	Font      *Font
	FontSize  float64
	Direction float64 // 1, or -1 after a negative font size

	Matrix       matrix.Matrix // text matrix
	X, Y         float64       // text position, relative to Matrix
	LineX, LineY float64       // start of the current line

	CharSpacing float64
	WordSpacing float64
	HScale      float64 // horizontal scaling, 1 for 100%
	Leading     float64 // stored negated, as the y offset of NextLine
	Rise        float64
	RenderMode  RenderMode
}

// NewState returns the text state at the start of a page.
func NewState() State {
	return State{
		Direction: 1,
		Matrix:    matrix.Identity,
		HScale:    1,
	}
}

// BeginText resets the text matrix and position.
func (s *State) BeginText() {
	s.Matrix = matrix.Identity
	s.X, s.Y = 0, 0
	s.LineX, s.LineY = 0, 0
}

// SetFont selects a font.  A negative size rotates the glyphs by 180°.
func (s *State) SetFont(f *Font, size float64) {
	s.Font = f
	if size < 0 {
		size = -size
		s.Direction = -1
	} else {
		s.Direction = 1
	}
	s.FontSize = size
}

// SetLeading sets the distance between lines.
func (s *State) SetLeading(l float64) {
	s.Leading = -l
}

// MoveText starts a new line, offset from the start of the current line.
func (s *State) MoveText(x, y float64) {
	s.LineX += x
	s.LineY += y
	s.X, s.Y = s.LineX, s.LineY
}

// SetLeadingMoveText sets the leading to -y and moves to the next line.
func (s *State) SetLeadingMoveText(x, y float64) {
	s.SetLeading(-y)
	s.MoveText(x, y)
}

// SetTextMatrix replaces the text matrix and resets the text position.
func (s *State) SetTextMatrix(m matrix.Matrix) {
	s.Matrix = m
	s.X, s.Y = 0, 0
	s.LineX, s.LineY = 0, 0
}

// NextLine moves to the start of the next line.
func (s *State) NextLine() {
	s.MoveText(0, s.Leading)
}

// SetHScale sets the horizontal scaling, given in percent.
func (s *State) SetHScale(percent float64) {
	s.HScale = percent / 100
}
