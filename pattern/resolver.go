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
	"errors"
	"image/color"
	"math"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagerender/internal/affine"
	"seehuhn.de/go/pagerender/internal/logger"
	"seehuhn.de/go/pagerender/surface"
)

// CellPainter draws the cell of a tiling pattern.
type CellPainter interface {
	// PaintCell runs the operator list of t on dst.  ctm maps pattern
	// space to the pixels of dst.  If fill is non-nil, all painting
	// operators use this colour.
	PaintCell(dst *surface.Surface, t *Tiling, ctm matrix.Matrix, fill *color.RGBA) error
}

// Context describes where a pattern is used.
type Context struct {
	// Transform maps the default user space of the page to device
	// space.  For shadingFill it is the current transformation matrix.
	Transform matrix.Matrix

	// ShadingFill is set for the shadingFill operator.  The pattern
	// matrix and the background colour are then not used.
	ShadingFill bool

	// Color is the colour for uncolored tiling patterns, not
	// premultiplied.
	Color color.RGBA
}

type cacheKey struct {
	p         Pattern
	transform matrix.Matrix
	shading   bool
	color     color.RGBA
}

// Resolver converts patterns into paint sources and caches the results.
// A Resolver is used by one render task at a time.
type Resolver struct {
	// MaxSize limits the size of tiles and mesh bitmaps.  Zero selects
	// MaxPatternSize.
	MaxSize int

	// Painter draws tiling pattern cells.
	Painter CellPainter

	// Pool provides tile surfaces.  If nil, tiles are allocated.
	Pool *surface.Pool

	cache map[cacheKey]surface.Source
	tiles []*surface.Surface
}

const poolKey = "pattern"

// Resolve returns the paint source for p.
func (r *Resolver) Resolve(p Pattern, ctx Context) (surface.Source, error) {
	key := cacheKey{p: p, transform: ctx.Transform, shading: ctx.ShadingFill}
	if t, ok := p.(*Tiling); ok && t.PaintType == Uncolored {
		key.color = ctx.Color
	}
	if src, ok := r.cache[key]; ok {
		return src, nil
	}

	var src surface.Source
	var err error
	switch p := p.(type) {
	case *Shading:
		src, err = r.shading(p, ctx)
	case *Tiling:
		src, err = r.tiling(p, ctx)
	default:
		err = malformed("unknown", "unsupported pattern type %T", p)
	}
	if err != nil {
		return nil, err
	}

	if r.cache == nil {
		r.cache = make(map[cacheKey]surface.Source)
	}
	r.cache[key] = src
	return src, nil
}

func (r *Resolver) shading(s *Shading, ctx Context) (surface.Source, error) {
	toDevice := ctx.Transform
	if !ctx.ShadingFill {
		toDevice = transform(s.Matrix).Mul(ctx.Transform)
	}
	switch s.Kind {
	case Axial, Radial:
		return newGradient(s, toDevice, !ctx.ShadingFill)
	case Mesh:
		return newMesh(s, toDevice, !ctx.ShadingFill, r.MaxSize)
	case Dummy:
		return surface.Solid{}, nil
	default:
		return nil, malformed("shading", "unknown shading type %d", s.Kind)
	}
}

func (r *Resolver) tiling(t *Tiling, ctx Context) (surface.Source, error) {
	if t.Ops == nil {
		return nil, malformed("tiling", "missing cell operator list")
	}
	if t.PaintType != Colored && t.PaintType != Uncolored {
		return nil, malformed("tiling", "invalid paint type %d", t.PaintType)
	}
	for _, v := range []float64{t.BBox.LLx, t.BBox.LLy, t.BBox.URx, t.BBox.URy, t.XStep, t.YStep} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, malformed("tiling", "non-finite geometry")
		}
	}
	if r.Painter == nil {
		return nil, errors.New("pattern: no cell painter for tiling pattern")
	}

	toDevice := transform(t.Matrix).Mul(ctx.Transform)
	inv, ok := affine.Invert(toDevice)
	if !ok {
		return nil, malformed("tiling", "singular pattern matrix")
	}
	sx, sy := axisScales(toDevice)
	w, scaleX := TileSize(t.XStep, sx, r.MaxSize)
	h, scaleY := TileSize(t.YStep, sy, r.MaxSize)
	bbox := affine.Normalize(t.BBox)
	cellCTM := matrix.Translate(-bbox.LLx, -bbox.LLy).Mul(matrix.Scale(scaleX, scaleY))

	var tile *surface.Surface
	if r.Pool != nil {
		tile = r.Pool.Get(poolKey, w, h)
	} else {
		tile = surface.New(w, h)
	}
	r.tiles = append(r.tiles, tile)

	var fill *color.RGBA
	if t.PaintType == Uncolored {
		c := ctx.Color
		fill = &c
	}
	if err := r.Painter.PaintCell(tile, t, cellCTM, fill); err != nil {
		return nil, err
	}
	logger.Get().Debug("tiling pattern rendered", "width", w, "height", h)

	return &surface.ImageSource{
		Img:     tile.RGBA,
		ToImage: inv.Mul(cellCTM),
		Repeat:  true,
	}, nil
}

// Release empties the cache and returns all tile surfaces to the pool.
func (r *Resolver) Release() {
	clear(r.cache)
	if r.Pool != nil {
		for _, s := range r.tiles {
			r.Pool.Put(poolKey, s)
		}
	}
	clear(r.tiles)
	r.tiles = r.tiles[:0]
}
