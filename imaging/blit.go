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

package imaging

import (
	"fmt"
	"image"
	"image/color"

	"seehuhn.de/go/pagerender/surface"
)

// Blit converts the pixel data of r into premultiplied RGBA and writes
// it to the top left corner of dst, ChunkHeight rows at a time.
func Blit(dst *image.RGBA, r *Resource, maps *TransferMaps) error {
	if err := r.Validate(); err != nil {
		return err
	}
	w, h := r.Width, r.Height
	if dst.Rect.Dx() < w || dst.Rect.Dy() < h {
		return fmt.Errorf("imaging: destination %v too small for %dx%d image",
			dst.Rect.Size(), w, h)
	}

	if r.Bitmap != nil {
		for y := range min(h, r.Bitmap.Rect.Dy()) {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+4*w], r.Bitmap.Pix[y*r.Bitmap.Stride:])
		}
		applyMaps(dst, w, 0, h, maps, true)
		return nil
	}

	srcRow := r.Kind.rowBytes(w)
	for y0 := 0; y0 < h; y0 += ChunkHeight {
		y1 := min(y0+ChunkHeight, h)
		switch r.Kind {
		case Gray1:
			fg, bg := r.gray1Colors(maps)
			blitGray1(dst, r.Data, srcRow, w, y0, y1, fg, bg)
			applyMaps(dst, w, y0, y1, maps, fg.A != 255 || bg.A != 255)
			continue
		case RGB24:
			blitRGB24(dst, r.Data, srcRow, w, y0, y1)
		case RGBA32:
			blitRGBA32(dst, r.Data, srcRow, w, y0, y1, maps)
			continue
		}
		applyMaps(dst, w, y0, y1, maps, false)
	}
	return nil
}

// blitGray1 writes fg for set bits and bg for clear bits.  Both colours
// are premultiplied.
func blitGray1(dst *image.RGBA, data []byte, srcRow, w, y0, y1 int, fg, bg color.RGBA) {
	for y := y0; y < y1; y++ {
		src := data[y*srcRow : (y+1)*srcRow]
		d := dst.Pix[y*dst.Stride:]
		for x := range w {
			c := bg
			if src[x>>3]&(0x80>>(x&7)) != 0 {
				c = fg
			}
			p := d[4*x : 4*x+4 : 4*x+4]
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		}
	}
}

func blitRGB24(dst *image.RGBA, data []byte, srcRow, w, y0, y1 int) {
	for y := y0; y < y1; y++ {
		src := data[y*srcRow:]
		d := dst.Pix[y*dst.Stride:]
		for x := range w {
			p := d[4*x : 4*x+4 : 4*x+4]
			p[0], p[1], p[2], p[3] = src[3*x], src[3*x+1], src[3*x+2], 255
		}
	}
}

// blitRGBA32 applies the transfer maps before premultiplying.
func blitRGBA32(dst *image.RGBA, data []byte, srcRow, w, y0, y1 int, maps *TransferMaps) {
	var mr, mg, mb []uint8
	if maps != nil {
		mr, mg, mb = maps.R, maps.G, maps.B
	}
	for y := y0; y < y1; y++ {
		src := data[y*srcRow:]
		d := dst.Pix[y*dst.Stride:]
		for x := range w {
			c := surface.Premultiply(
				apply(mr, src[4*x]), apply(mg, src[4*x+1]), apply(mb, src[4*x+2]), src[4*x+3])
			p := d[4*x : 4*x+4 : 4*x+4]
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		}
	}
}

// applyMaps remaps the colour components of rows [y0, y1).  Unless
// premultiplied is set, all pixels must be opaque.
func applyMaps(dst *image.RGBA, w, y0, y1 int, maps *TransferMaps, premultiplied bool) {
	if !maps.hasRGB() {
		return
	}
	for y := y0; y < y1; y++ {
		d := dst.Pix[y*dst.Stride:]
		for x := range w {
			p := d[4*x : 4*x+4 : 4*x+4]
			a := p[3]
			if premultiplied && a != 255 {
				if a == 0 {
					continue
				}
				c := color.NRGBAModel.Convert(color.RGBA{R: p[0], G: p[1], B: p[2], A: a}).(color.NRGBA)
				m := surface.Premultiply(apply(maps.R, c.R), apply(maps.G, c.G), apply(maps.B, c.B), a)
				p[0], p[1], p[2] = m.R, m.G, m.B
				continue
			}
			p[0] = apply(maps.R, p[0])
			p[1] = apply(maps.G, p[1])
			p[2] = apply(maps.B, p[2])
		}
	}
}

// StencilMask converts a 1-bit image into a mask.  Pixels with bit 0
// are opaque and pixels with bit 1 are transparent.  The caller paints
// the fill colour through the mask.
func StencilMask(r *Resource) (*image.Alpha, error) {
	if r.Kind != Gray1 && r.Bitmap == nil {
		return nil, fmt.Errorf("imaging: stencil mask must be Gray1, not %s", r.Kind)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	w, h := r.Width, r.Height
	m := image.NewAlpha(image.Rect(0, 0, w, h))
	if r.Bitmap != nil {
		for y := range min(h, r.Bitmap.Rect.Dy()) {
			src := r.Bitmap.Pix[y*r.Bitmap.Stride:]
			for x := range w {
				m.Pix[y*m.Stride+x] = src[4*x+3]
			}
		}
		return m, nil
	}

	srcRow := Gray1.rowBytes(w)
	for y0 := 0; y0 < h; y0 += ChunkHeight {
		for y := y0; y < min(y0+ChunkHeight, h); y++ {
			src := r.Data[y*srcRow : (y+1)*srcRow]
			d := m.Pix[y*m.Stride : y*m.Stride+w]
			for x := range d {
				if src[x>>3]&(0x80>>(x&7)) == 0 {
					d[x] = 255
				}
			}
		}
	}
	return m, nil
}
