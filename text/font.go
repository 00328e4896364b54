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

package text

import (
	"errors"
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/internal/pathdata"
	"seehuhn.de/go/pagerender/oplist"
)

// DefaultFontMatrix maps 1000 glyph space units to one text space unit.
var DefaultFontMatrix = matrix.Matrix{0.001, 0, 0, 0.001, 0, 0}

// Font is a font object resolved by the producer.
type Font struct {
	// LoadedName is the resource id under which the font was delivered.
	LoadedName string

	// FontMatrix maps glyph space to text space.  Glyph widths and Type3
	// glyph programs are given in glyph space.  The zero value stands for
	// DefaultFontMatrix.
	FontMatrix matrix.Matrix

	// Vertical is set for fonts in vertical writing mode.
	Vertical bool

	// DefaultVMetric is used for glyphs without vertical metrics in
	// vertical fonts.
	DefaultVMetric *VMetric

	// IsType3 marks fonts whose glyphs are operator lists.
	IsType3 bool

	// CharProcs holds the glyph programs of a Type3 font, by Glyph.ProcID.
	CharProcs map[string]*oplist.List

	// Outlines holds the glyph outlines of other fonts.  Outlines are
	// scaled to a height of one em, independent of FontMatrix.
	Outlines *sfnt.Font

	mu    sync.Mutex
	buf   sfnt.Buffer
	cache map[glyphKey]*pathdata.Data
}

// Glyph describes one glyph of a text string.
type Glyph struct {
	GID      uint16   // glyph index in Font.Outlines, 0 to look up Unicode
	Unicode  string   // text content of the glyph
	Width    float64  // horizontal advance in glyph space
	VMetric  *VMetric // vertical metrics, optional
	IsSpace  bool     // word spacing applies to this glyph
	Accent   *Accent  // optional diacritic drawn on top
	IsInFont bool     // the font has an outline for this glyph
	ProcID   string   // Type3 glyph program
}

// VMetric holds the vertical advance W1y and the position vector (vx, vy)
// of a glyph in vertical writing mode, in glyph space units.
type VMetric [3]float64

// Accent is a secondary glyph painted on top of a base glyph.
type Accent struct {
	GID     uint16
	Unicode string

	// Offset is the position of the accent relative to the base glyph, in
	// text space units per unit of font size.
	Offset vec.Vec2
}

// Item is an element of a text string: either a glyph, or an adjustment
// of the text position in thousandths of text space units.
type Item struct {
	Glyph  *Glyph
	Adjust float64
}

// Items converts an operator argument into a sequence of items.  Numbers
// become adjustments, *Glyph and Glyph values become glyphs.
func Items(arg any) ([]Item, error) {
	switch arg := arg.(type) {
	case []Item:
		return arg, nil
	case []*Glyph:
		res := make([]Item, len(arg))
		for i, g := range arg {
			res[i].Glyph = g
		}
		return res, nil
	case []any:
		res := make([]Item, 0, len(arg))
		for _, x := range arg {
			switch x := x.(type) {
			case *Glyph:
				if x == nil {
					return nil, errNilGlyph
				}
				res = append(res, Item{Glyph: x})
			case Glyph:
				res = append(res, Item{Glyph: &x})
			case float64:
				res = append(res, Item{Adjust: x})
			case int:
				res = append(res, Item{Adjust: float64(x)})
			default:
				return nil, errBadItem
			}
		}
		return res, nil
	default:
		return nil, errBadItem
	}
}

var (
	errBadItem  = errors.New("text: glyph string expected")
	errNilGlyph = errors.New("text: nil glyph")
)

// matrix returns the font matrix, with the default substituted for the
// zero value.
func (f *Font) matrix() matrix.Matrix {
	if f.FontMatrix == (matrix.Matrix{}) {
		return DefaultFontMatrix
	}
	return f.FontMatrix
}

type glyphKey struct {
	gid     uint16
	unicode string
}

// outlinePPEM is the resolution at which outlines are loaded.  The
// coordinates are divided by it again, leaving em units.
const outlinePPEM = 1024

// Outline returns the outline of a glyph in em units with the y axis
// pointing up.  The result is nil if the font has no outline for the
// glyph.  Blank glyphs have an empty outline.  The returned path must not
// be modified.
func (f *Font) Outline(gid uint16, unicode string) *pathdata.Data {
	if f.Outlines == nil {
		return nil
	}
	key := glyphKey{gid: gid}
	if gid == 0 {
		key.unicode = unicode
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.cache[key]; ok {
		return p
	}
	p := f.loadOutline(key)
	if f.cache == nil {
		f.cache = make(map[glyphKey]*pathdata.Data)
	}
	f.cache[key] = p
	return p
}

func (f *Font) loadOutline(key glyphKey) *pathdata.Data {
	idx := sfnt.GlyphIndex(key.gid)
	if idx == 0 {
		for _, r := range key.unicode {
			var err error
			idx, err = f.Outlines.GlyphIndex(&f.buf, r)
			if err != nil {
				return nil
			}
			break
		}
		if idx == 0 {
			return nil
		}
	}

	segs, err := f.Outlines.LoadGlyph(&f.buf, idx, fixed.I(outlinePPEM), nil)
	if err != nil {
		return nil
	}

	p := &pathdata.Data{}
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			p.MoveTo(emPoint(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			p.LineTo(emPoint(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			p.QuadTo(emPoint(seg.Args[0]), emPoint(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			p.CubeTo(emPoint(seg.Args[0]), emPoint(seg.Args[1]), emPoint(seg.Args[2]))
		}
	}
	if open {
		p.Close()
	}
	return p
}

// emPoint converts a point loaded at outlinePPEM into em units, flipping
// the y axis.
func emPoint(q fixed.Point26_6) vec.Vec2 {
	return vec.Vec2{
		X: float64(q.X) / (64 * outlinePPEM),
		Y: -float64(q.Y) / (64 * outlinePPEM),
	}
}

// missingGlyph returns a hollow box as a stand-in for glyphs without an
// outline.  width is the advance in em units.
func missingGlyph(width float64) *pathdata.Data {
	const h, t = 0.7, 0.05
	w := max(width, 2.5*t)
	p := &pathdata.Data{}
	p.MoveTo(vec.Vec2{X: 0, Y: 0}).LineTo(vec.Vec2{X: w, Y: 0}).
		LineTo(vec.Vec2{X: w, Y: h}).LineTo(vec.Vec2{X: 0, Y: h}).Close()
	p.MoveTo(vec.Vec2{X: t, Y: t}).LineTo(vec.Vec2{X: t, Y: h - t}).
		LineTo(vec.Vec2{X: w - t, Y: h - t}).LineTo(vec.Vec2{X: w - t, Y: t}).Close()
	return p
}
