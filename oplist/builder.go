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

package oplist

// Builder assembles an operator list.  The methods return the builder, so
// that calls can be chained.
type Builder struct {
	l List
}

// Add appends an arbitrary operator.
func (b *Builder) Add(op OpCode, args ...any) *Builder {
	b.l.Add(op, args...)
	return b
}

// List returns the assembled operators as a complete list.
func (b *Builder) List() *List {
	l := b.l
	l.LastChunk = true
	return &l
}

func (b *Builder) Save() *Builder    { return b.Add(Save) }
func (b *Builder) Restore() *Builder { return b.Add(Restore) }

func (b *Builder) Transform(a, bb, c, d, e, f float64) *Builder {
	return b.Add(Transform, a, bb, c, d, e, f)
}

func (b *Builder) MoveTo(x, y float64) *Builder { return b.Add(MoveTo, x, y) }
func (b *Builder) LineTo(x, y float64) *Builder { return b.Add(LineTo, x, y) }

func (b *Builder) CurveTo(x1, y1, x2, y2, x3, y3 float64) *Builder {
	return b.Add(CurveTo, x1, y1, x2, y2, x3, y3)
}

func (b *Builder) Rectangle(x, y, w, h float64) *Builder {
	return b.Add(Rectangle, x, y, w, h)
}

func (b *Builder) ClosePath() *Builder { return b.Add(ClosePath) }
func (b *Builder) Fill() *Builder      { return b.Add(Fill) }
func (b *Builder) EOFill() *Builder    { return b.Add(EOFill) }
func (b *Builder) Stroke() *Builder    { return b.Add(Stroke) }
func (b *Builder) EndPath() *Builder   { return b.Add(EndPath) }
func (b *Builder) Clip() *Builder      { return b.Add(Clip) }
func (b *Builder) EOClip() *Builder    { return b.Add(EOClip) }

func (b *Builder) SetLineWidth(w float64) *Builder { return b.Add(SetLineWidth, w) }

// SetFillRGB sets the fill colour from 8-bit components.
func (b *Builder) SetFillRGB(r, g, bl uint8) *Builder {
	return b.Add(SetFillRGBColor, float64(r), float64(g), float64(bl))
}

// SetStrokeRGB sets the stroke colour from 8-bit components.
func (b *Builder) SetStrokeRGB(r, g, bl uint8) *Builder {
	return b.Add(SetStrokeRGBColor, float64(r), float64(g), float64(bl))
}

// Dependency declares that the following operators need the given
// resources.
func (b *Builder) Dependency(ids ...string) *Builder {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return b.Add(Dependency, args...)
}
