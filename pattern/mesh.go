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
	"image"
	"math"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagerender/internal/affine"
	"seehuhn.de/go/pagerender/surface"
)

type vertex struct {
	x, y    float64
	r, g, b float64
}

// newMesh rasterises a mesh shading into a bitmap at the resolution
// given by toDevice.  The bitmap, including its border, is at most
// maxSize pixels wide and high.
func newMesh(s *Shading, toDevice matrix.Matrix, useBackground bool, maxSize int) (surface.Source, error) {
	if err := checkMesh(s); err != nil {
		return nil, err
	}
	inv, ok := affine.Invert(toDevice)
	if !ok {
		return nil, malformed("mesh", "singular shading matrix")
	}
	if maxSize <= 0 {
		maxSize = MaxPatternSize
	}
	inner := max(maxSize-2*meshBorder, 1)

	b := affine.Normalize(s.Bounds)
	sx, sy := axisScales(toDevice)
	w, scaleX := TileSize(b.URx-b.LLx, sx, inner)
	h, scaleY := TileSize(b.URy-b.LLy, sy, inner)
	toBitmap := matrix.Translate(-b.LLx, -b.LLy).
		Mul(matrix.Scale(scaleX, scaleY)).
		Mul(matrix.Translate(meshBorder, meshBorder))

	img := image.NewRGBA(image.Rect(0, 0, w+2*meshBorder, h+2*meshBorder))
	if useBackground && s.Background != nil {
		c := s.Background
		bg := surface.Premultiply(c.R, c.G, c.B, c.A)
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
		}
	}

	vert := func(ci, ki int) vertex {
		p := affine.ApplyVec(toBitmap, s.Coords[ci])
		c := s.Colors[ki]
		return vertex{x: p.X, y: p.Y, r: float64(c.R), g: float64(c.G), b: float64(c.B)}
	}
	for _, f := range s.Figures {
		switch f.Kind {
		case Triangles:
			for i := 0; i+2 < len(f.Coords); i += 3 {
				drawTriangle(img,
					vert(f.Coords[i], f.Colors[i]),
					vert(f.Coords[i+1], f.Colors[i+1]),
					vert(f.Coords[i+2], f.Colors[i+2]))
			}
		case Lattice:
			n := f.VerticesPerRow
			rows := len(f.Coords) / n
			for i := range rows - 1 {
				for j := range n - 1 {
					k := i*n + j
					a := vert(f.Coords[k], f.Colors[k])
					b := vert(f.Coords[k+1], f.Colors[k+1])
					c := vert(f.Coords[k+n], f.Colors[k+n])
					d := vert(f.Coords[k+n+1], f.Colors[k+n+1])
					drawTriangle(img, a, b, c)
					drawTriangle(img, b, d, c)
				}
			}
		}
	}

	return &surface.ImageSource{Img: img, ToImage: inv.Mul(toBitmap)}, nil
}

// checkMesh verifies that all indices of a mesh shading are valid.
func checkMesh(s *Shading) error {
	if len(s.Figures) == 0 {
		return malformed("mesh", "no figures")
	}
	for i, f := range s.Figures {
		if len(f.Colors) != len(f.Coords) {
			return malformed("mesh", "figure %d: %d coordinates but %d colours",
				i, len(f.Coords), len(f.Colors))
		}
		for j, ci := range f.Coords {
			if ci < 0 || ci >= len(s.Coords) {
				return malformed("mesh", "figure %d: coordinate index %d out of range", i, ci)
			}
			if ki := f.Colors[j]; ki < 0 || ki >= len(s.Colors) {
				return malformed("mesh", "figure %d: colour index %d out of range", i, ki)
			}
		}
		switch f.Kind {
		case Triangles:
		case Lattice:
			if f.VerticesPerRow < 2 || len(f.Coords)%f.VerticesPerRow != 0 {
				return malformed("mesh", "figure %d: invalid lattice", i)
			}
		default:
			return malformed("mesh", "figure %d: unknown kind %d", i, f.Kind)
		}
	}
	return nil
}

// drawTriangle fills the pixels whose centres lie inside the triangle,
// interpolating the vertex colours.
func drawTriangle(img *image.RGBA, a, b, c vertex) {
	area := (b.x-a.x)*(c.y-a.y) - (c.x-a.x)*(b.y-a.y)
	if area == 0 || math.IsNaN(area) {
		return
	}
	bounds := img.Rect
	x0 := max(int(math.Floor(min(a.x, b.x, c.x))), bounds.Min.X)
	x1 := min(int(math.Ceil(max(a.x, b.x, c.x))), bounds.Max.X)
	y0 := max(int(math.Floor(min(a.y, b.y, c.y))), bounds.Min.Y)
	y1 := min(int(math.Ceil(max(a.y, b.y, c.y))), bounds.Max.Y)

	for y := y0; y < y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x < x1; x++ {
			px := float64(x) + 0.5
			wa := ((b.x-px)*(c.y-py) - (c.x-px)*(b.y-py)) / area
			wb := ((c.x-px)*(a.y-py) - (a.x-px)*(c.y-py)) / area
			wc := 1 - wa - wb
			if wa < 0 || wb < 0 || wc < 0 {
				continue
			}
			off := img.PixOffset(x, y)
			img.Pix[off] = channel(wa*a.r + wb*b.r + wc*c.r)
			img.Pix[off+1] = channel(wa*a.g + wb*b.g + wc*c.g)
			img.Pix[off+2] = channel(wa*a.b + wb*b.b + wc*c.b)
			img.Pix[off+3] = 255
		}
	}
}

func channel(v float64) uint8 {
	return uint8(min(max(math.Round(v), 0), 255))
}
