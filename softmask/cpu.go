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

package softmask

import (
	"seehuhn.de/go/pagerender/surface"
)

// CPUBackend composes layers on the CPU.
type CPUBackend struct{}

// Name implements [Backend].
func (CPUBackend) Name() string { return "cpu" }

// Compose implements [Backend].
func (CPUBackend) Compose(layer *surface.Surface, m *SoftMask) error {
	w, h := layer.Width(), layer.Height()
	for y := range h {
		row := layer.Pix[y*layer.Stride : y*layer.Stride+4*w]
		for x := range w {
			p := row[4*x : 4*x+4 : 4*x+4]
			if p[0]|p[1]|p[2]|p[3] == 0 {
				continue
			}
			mr, mg, mb, ma := m.Pixel(x, y)
			num, shift := maskValue(m.Subtype, m.Backdrop, m.TransferMap, mr, mg, mb, ma)
			for i := range p {
				p[i] = scaleChannel(p[i], num, shift)
			}
		}
	}
	return nil
}

// maskValue returns the mask value of a premultiplied mask pixel as a
// fraction num / div, where div is 255 for shift 0 and 1<<shift otherwise.
func maskValue(sub Subtype, backdrop *[3]uint8, tm []uint8, r, g, b, a uint8) (uint32, uint) {
	if sub == Alpha {
		return uint32(a), 0
	}
	y := luma(r, g, b, a, backdrop)
	if len(tm) == 256 {
		return uint32(tm[y>>8]), 8
	}
	return y, 16
}

// luma computes the luminance of a mask pixel in the range [0, 65535].
// With a backdrop, the pixel is first composited over the backdrop
// colour.  Otherwise the colour is unpremultiplied.
func luma(r, g, b, a uint8, backdrop *[3]uint8) uint32 {
	var cr, cg, cb uint32
	switch {
	case backdrop != nil:
		inv := 255 - uint32(a)
		cr = uint32(r) + uint32(backdrop[0])*inv/255
		cg = uint32(g) + uint32(backdrop[1])*inv/255
		cb = uint32(b) + uint32(backdrop[2])*inv/255
	case a == 0:
		return 0
	default:
		cr = min(uint32(r)*255/uint32(a), 255)
		cg = min(uint32(g)*255/uint32(a), 255)
		cb = min(uint32(b)*255/uint32(a), 255)
	}
	return min(cr, 255)*77 + min(cg, 255)*152 + min(cb, 255)*28
}

func scaleChannel(c uint8, num uint32, shift uint) uint8 {
	if shift == 0 {
		return uint8(uint32(c) * num / 255)
	}
	return uint8(uint32(c) * num >> shift)
}
