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

// Package state implements the graphics state and the graphics state stack.
package state

import (
	"image"
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/pagerender/softmask"
	"seehuhn.de/go/pagerender/surface"
	"seehuhn.de/go/pagerender/text"
)

// GraphicsState holds the parameters which affect drawing.
//
// GraphicsState is a value type.  Slices and pointers stored in it
// (Dash, Transfer, Clip, SMask) are never modified in place; new values
// are assigned instead.  This makes a plain copy a valid snapshot.
type GraphicsState struct {
	CTM matrix.Matrix

	FillPaint   surface.Source
	StrokePaint surface.Source

	// FillColor and StrokeColor are the last colours set, not
	// premultiplied.  They are used by uncolored patterns and stencil
	// masks.
	FillColor   color.RGBA
	StrokeColor color.RGBA

	// FillPattern and StrokePattern are set if the paint is a pattern.
	FillPattern   bool
	StrokePattern bool

	LineWidth  float64
	LineCap    graphics.LineCapStyle
	LineJoin   graphics.LineJoinStyle
	MiterLimit float64
	Dash       []float64
	DashPhase  float64

	RenderingIntent string
	Flatness        float64

	FillAlpha   float64
	StrokeAlpha float64
	BlendMode   surface.BlendMode

	Text text.State

	// Transfer holds 0, 1 or 4 transfer maps of 256 entries each.
	Transfer [][]uint8

	// SMask is the soft mask in effect, or nil.
	SMask *softmask.SoftMask

	// Clip is the device space clip mask, or nil if nothing is clipped.
	Clip *image.Alpha
}

// New returns the graphics state at the start of a page.
func New(ctm matrix.Matrix) GraphicsState {
	return GraphicsState{
		CTM:         ctm,
		FillPaint:   surface.Black,
		StrokePaint: surface.Black,
		FillColor:   color.RGBA{A: 255},
		StrokeColor: color.RGBA{A: 255},
		LineWidth:   1,
		LineCap:     graphics.LineCapButt,
		LineJoin:    graphics.LineJoinMiter,
		MiterLimit:  10,
		Flatness:    1,
		FillAlpha:   1,
		StrokeAlpha: 1,
		BlendMode:   surface.BlendNormal,
		Text:        text.NewState(),
	}
}

// Clone returns a snapshot of the state.
func (g *GraphicsState) Clone() GraphicsState {
	return *g
}

// SetDash sets the dash pattern.  The slice is copied.
func (g *GraphicsState) SetDash(dash []float64, phase float64) {
	if len(dash) == 0 {
		g.Dash = nil
	} else {
		g.Dash = append([]float64(nil), dash...)
	}
	g.DashPhase = phase
}

// SetFillRGB sets a solid fill colour.
func (g *GraphicsState) SetFillRGB(c color.RGBA) {
	g.FillColor = c
	g.FillPaint = surface.Solid{C: surface.Premultiply(c.R, c.G, c.B, c.A)}
	g.FillPattern = false
}

// SetStrokeRGB sets a solid stroke colour.
func (g *GraphicsState) SetStrokeRGB(c color.RGBA) {
	g.StrokeColor = c
	g.StrokePaint = surface.Solid{C: surface.Premultiply(c.R, c.G, c.B, c.A)}
	g.StrokePattern = false
}

// FillPaintParams returns the paint used for filling.
func (g *GraphicsState) FillPaintParams() *surface.Paint {
	return &surface.Paint{
		Source: g.FillPaint,
		Alpha:  g.FillAlpha,
		Blend:  g.BlendMode,
		Clip:   g.Clip,
	}
}

// StrokePaintParams returns the paint used for stroking.
func (g *GraphicsState) StrokePaintParams() *surface.Paint {
	return &surface.Paint{
		Source: g.StrokePaint,
		Alpha:  g.StrokeAlpha,
		Blend:  g.BlendMode,
		Clip:   g.Clip,
	}
}
