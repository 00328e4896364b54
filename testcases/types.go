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

// Package testcases contains named drawing scenes shared by the tests of
// several packages and by the exportcases tool.
//
// Each scene fills or strokes a single path in black on a transparent
// surface.  Scenes can be rasterised directly or converted into an operator
// list.
package testcases

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/pagerender/internal/pathdata"
)

// TestCase defines a single rendering test.
type TestCase struct {
	Name   string        // lowercase a-z and _ only
	Path   *pathdata.Data    // the geometry to render
	Width  int           // canvas width in pixels
	Height int           // canvas height in pixels
	Op     Operation     // fill or stroke
	CTM    matrix.Matrix // transformation matrix (zero-value means no transform)
}

// Operation is the rendering operation to apply to the path.
type Operation interface {
	isOperation()
}

// FillRule specifies the rule for determining interior points.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// Fill specifies a fill operation.
type Fill struct {
	Rule FillRule
}

func (Fill) isOperation() {}

// Stroke specifies a stroke operation.
type Stroke struct {
	Width      float64                // line width (0 for the thinnest visible line)
	Cap        graphics.LineCapStyle  // LineCapButt, LineCapRound, LineCapSquare
	Join       graphics.LineJoinStyle // LineJoinMiter, LineJoinRound, LineJoinBevel
	MiterLimit float64                // miter limit
	Dash       []float64              // dash pattern (nil for solid)
	DashPhase  float64                // dash phase offset
}

func (Stroke) isOperation() {}

// Transform returns the CTM of the test case, with the zero value
// replaced by the identity.
func (tc *TestCase) Transform() matrix.Matrix {
	if tc.CTM == (matrix.Matrix{}) {
		return matrix.Identity
	}
	return tc.CTM
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// polygon returns a closed path through the given points.
func polygon(pts ...vec.Vec2) *pathdata.Data {
	p := polyline(pts...)
	return p.Close()
}

// polyline returns an open path through the given points.
func polyline(pts ...vec.Vec2) *pathdata.Data {
	p := &pathdata.Data{}
	p.MoveTo(pts[0])
	for _, q := range pts[1:] {
		p.LineTo(q)
	}
	return p
}

// rectangle returns a closed axis-aligned rectangle.
func rectangle(x0, y0, x1, y1 float64) *pathdata.Data {
	return polygon(pt(x0, y0), pt(x1, y0), pt(x1, y1), pt(x0, y1))
}

// join concatenates the subpaths of several paths.
func join(paths ...*pathdata.Data) *pathdata.Data {
	res := &pathdata.Data{}
	for _, p := range paths {
		res.Cmds = append(res.Cmds, p.Cmds...)
		res.Coords = append(res.Coords, p.Coords...)
	}
	return res
}
