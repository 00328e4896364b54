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

package pattern

import (
	"image/color"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pagerender/internal/affine"
	"seehuhn.de/go/pagerender/surface"
)

// gradient paints an axial or radial shading.
type gradient struct {
	toShading matrix.Matrix // device space to shading space

	radial bool
	x0, y0 float64
	dx, dy float64
	r0, dr float64
	extend [2]bool

	bbox       *rect.Rect
	background color.RGBA // premultiplied, zero if unset
	lut        [256]color.RGBA
}

func newGradient(s *Shading, toDevice matrix.Matrix, useBackground bool) (*gradient, error) {
	kind := s.Kind.String()
	if len(s.Stops) == 0 {
		return nil, malformed(kind, "no colour stops")
	}
	if s.Kind == Radial && (s.R0 < 0 || s.R1 < 0) {
		return nil, malformed(kind, "negative radius")
	}
	inv, ok := affine.Invert(toDevice)
	if !ok {
		return nil, malformed(kind, "singular shading matrix")
	}
	g := &gradient{
		toShading: inv,
		radial:    s.Kind == Radial,
		x0:        s.P0.X,
		y0:        s.P0.Y,
		dx:        s.P1.X - s.P0.X,
		dy:        s.P1.Y - s.P0.Y,
		r0:        s.R0,
		dr:        s.R1 - s.R0,
		extend:    s.Extend,
		bbox:      s.BBox,
	}
	if useBackground && s.Background != nil {
		b := s.Background
		g.background = surface.Premultiply(b.R, b.G, b.B, b.A)
	}
	g.fillLUT(s.Stops)
	return g, nil
}

// fillLUT samples the colour function at 256 points.
func (g *gradient) fillLUT(stops []Stop) {
	stops = slices.Clone(stops)
	slices.SortStableFunc(stops, func(a, b Stop) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})
	n := len(stops)
	j := 0
	for i := range g.lut {
		t := float64(i) / 255
		for j < n-1 && stops[j+1].Offset < t {
			j++
		}
		var c color.RGBA
		switch {
		case t <= stops[0].Offset:
			c = stops[0].Color
		case j >= n-1:
			c = stops[n-1].Color
		default:
			a, b := stops[j], stops[j+1]
			f := 0.0
			if d := b.Offset - a.Offset; d > 0 {
				f = (t - a.Offset) / d
			}
			c = color.RGBA{
				R: lerp(a.Color.R, b.Color.R, f),
				G: lerp(a.Color.G, b.Color.G, f),
				B: lerp(a.Color.B, b.Color.B, f),
				A: lerp(a.Color.A, b.Color.A, f),
			}
		}
		g.lut[i] = surface.Premultiply(c.R, c.G, c.B, c.A)
	}
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

// ColorAt implements [surface.Source].
func (g *gradient) ColorAt(x, y int) color.RGBA {
	px, py := affine.Apply(g.toShading, float64(x)+0.5, float64(y)+0.5)
	if b := g.bbox; b != nil && (px < b.LLx || px > b.URx || py < b.LLy || py > b.URy) {
		return color.RGBA{}
	}
	var t float64
	var ok bool
	if g.radial {
		t, ok = g.radialParam(px, py)
	} else {
		t, ok = g.axialParam(px, py)
	}
	if !ok {
		return g.background
	}
	return g.lut[int(t*255+0.5)]
}

// axialParam projects (px, py) onto the gradient axis.
func (g *gradient) axialParam(px, py float64) (float64, bool) {
	d := g.dx*g.dx + g.dy*g.dy
	if d == 0 {
		return 0, false
	}
	t := ((px-g.x0)*g.dx + (py-g.y0)*g.dy) / d
	return g.clampParam(t)
}

// radialParam finds the largest s such that (px, py) lies on the circle
// with centre p0 + s*(p1-p0) and radius r0 + s*(r1-r0) >= 0.
func (g *gradient) radialParam(px, py float64) (float64, bool) {
	qx, qy := px-g.x0, py-g.y0
	a := g.dx*g.dx + g.dy*g.dy - g.dr*g.dr
	b := qx*g.dx + qy*g.dy + g.r0*g.dr
	c := qx*qx + qy*qy - g.r0*g.r0

	var roots [2]float64
	n := 0
	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return 0, false
		}
		roots[0] = c / (2 * b)
		n = 1
	} else {
		disc := b*b - a*c
		if disc < 0 {
			return 0, false
		}
		sq := math.Sqrt(disc)
		s1, s2 := (b+sq)/a, (b-sq)/a
		roots[0], roots[1] = max(s1, s2), min(s1, s2)
		n = 2
	}
	for _, s := range roots[:n] {
		if g.r0+s*g.dr < 0 {
			continue
		}
		if t, ok := g.clampParam(s); ok {
			return t, true
		}
	}
	return 0, false
}

// clampParam applies the extend flags to a parameter value.
func (g *gradient) clampParam(t float64) (float64, bool) {
	switch {
	case t < 0:
		if !g.extend[0] {
			return 0, false
		}
		return 0, true
	case t > 1:
		if !g.extend[1] {
			return 0, false
		}
		return 1, true
	case math.IsNaN(t):
		return 0, false
	}
	return t, true
}
