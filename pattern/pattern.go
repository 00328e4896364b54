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

// Package pattern turns shading and tiling patterns into paint sources.
//
// Axial and radial shadings are evaluated per pixel.  Mesh shadings are
// rasterised into a bitmap once.  The cell of a tiling pattern is drawn
// into a tile surface by a [CellPainter] and the tile is repeated over
// the plane.  All resolved sources are cached by a [Resolver].
package pattern

import (
	"fmt"
	"image/color"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/oplist"
)

// MaxPatternSize is the default limit for the width and height of mesh
// bitmaps and tile surfaces.
const MaxPatternSize = 3000

// minStep is the smallest pattern step used for tiling.  Smaller steps
// are rounded up.
const minStep = 1e-6

// meshBorder is the number of extra pixels around a mesh bitmap.
const meshBorder = 2

// Pattern is a pattern description.  It is implemented by *Shading and
// *Tiling; a pattern is identified by its pointer.
type Pattern interface {
	isPattern()
}

// Kind is the type of a shading.
type Kind uint8

// These are the supported shading types.
const (
	Axial Kind = iota + 1
	Radial
	Mesh

	// Dummy shadings paint nothing.
	Dummy
)

func (k Kind) String() string {
	switch k {
	case Axial:
		return "axial"
	case Radial:
		return "radial"
	case Mesh:
		return "mesh"
	case Dummy:
		return "dummy"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Stop is a colour stop of an axial or radial shading.
type Stop struct {
	Offset float64    // in [0, 1]
	Color  color.RGBA // not premultiplied
}

// Shading describes a shading pattern.
type Shading struct {
	Kind Kind

	// Matrix maps shading space to the default user space of the page.
	// The zero value stands for the identity.
	Matrix matrix.Matrix

	// BBox, if set, limits the shading in shading space.
	BBox *rect.Rect

	// Background is used outside the shading's extent, but not for
	// shadingFill.  The colour is not premultiplied.
	Background *color.RGBA

	// Axial and radial shadings.
	Stops  []Stop
	P0, P1 vec.Vec2
	R0, R1 float64
	Extend [2]bool

	// Mesh shadings.
	Coords  []vec.Vec2
	Colors  []color.RGBA
	Figures []Figure
	Bounds  rect.Rect
}

func (*Shading) isPattern() {}

// FigureKind selects how the vertices of a mesh figure are connected.
type FigureKind uint8

const (
	// Triangles figures list three vertices per triangle.
	Triangles FigureKind = iota + 1

	// Lattice figures list rows of VerticesPerRow vertices.
	Lattice
)

// Figure is a part of a mesh shading.  Coords and Colors hold indices into
// the Coords and Colors slices of the shading.
type Figure struct {
	Kind           FigureKind
	Coords         []int
	Colors         []int
	VerticesPerRow int
}

// PaintType values of a tiling pattern.
const (
	Colored   = 1
	Uncolored = 2
)

// Tiling describes a tiling pattern.
type Tiling struct {
	// Ops draws one pattern cell in pattern space.
	Ops *oplist.List

	// Matrix maps pattern space to the default user space of the page.
	// The zero value stands for the identity.
	Matrix matrix.Matrix

	BBox         rect.Rect
	XStep, YStep float64
	PaintType    int
	TilingType   int
}

func (*Tiling) isPattern() {}

func transform(m matrix.Matrix) matrix.Matrix {
	if m == (matrix.Matrix{}) {
		return matrix.Identity
	}
	return m
}

// MalformedError is returned for pattern descriptions which cannot be
// used.
type MalformedError struct {
	Kind string
	Err  error
}

func (e *MalformedError) Error() string {
	return "malformed " + e.Kind + " pattern: " + e.Err.Error()
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

func malformed(kind string, format string, args ...any) error {
	return &MalformedError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// TileSize returns the number of pixels used for one step of a pattern,
// together with the resulting scale from pattern space to pixels.  The
// size is in the range [1, maxSize].
func TileSize(step, scale float64, maxSize int) (int, float64) {
	if maxSize <= 0 {
		maxSize = MaxPatternSize
	}
	step = math.Abs(step)
	scale = math.Abs(scale)
	if !(step > 0) || math.IsInf(step, 0) {
		return 1, 1
	}
	step = max(step, minStep)
	f := math.Ceil(step * scale)
	size := maxSize
	switch {
	case f >= float64(maxSize):
		// size is maxSize
	case !(f >= 1):
		size = 1
	default:
		size = int(f)
	}
	return size, float64(size) / step
}

// axisScales returns the factors by which m stretches the x and y axes.
func axisScales(m matrix.Matrix) (float64, float64) {
	return math.Hypot(m[0], m[1]), math.Hypot(m[2], m[3])
}
