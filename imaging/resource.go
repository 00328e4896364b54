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

// Package imaging converts image resources into pixels and paints images
// onto surfaces.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagerender/surface"
)

// ChunkHeight is the number of rows converted in one step.
const ChunkHeight = 16

// Kind describes the pixel format of a [Resource].
type Kind uint8

// These are the supported pixel formats.  The numeric values are used in
// the wire format.
const (
	Gray1  Kind = 1 // 1 bit per pixel, rows padded to whole bytes
	RGB24  Kind = 2 // 8 bits per channel, no alpha
	RGBA32 Kind = 3 // 8 bits per channel, straight alpha
)

func (k Kind) String() string {
	switch k {
	case Gray1:
		return "Gray1"
	case RGB24:
		return "RGB24"
	case RGBA32:
		return "RGBA32"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// rowBytes returns the number of bytes in one row of pixel data.
func (k Kind) rowBytes(width int) int {
	switch k {
	case Gray1:
		return (width + 7) / 8
	case RGB24:
		return 3 * width
	case RGBA32:
		return 4 * width
	default:
		return 0
	}
}

// Resource is an image delivered by the producer.
type Resource struct {
	Width, Height int
	Kind          Kind
	Data          []byte
	Interpolate   bool

	// Foreground and Background are the colours of set and clear bits in
	// a Gray1 image, not premultiplied.  Nil stands for white and black,
	// respectively.  An inverting gray transfer map swaps the two.
	Foreground, Background *color.RGBA

	// Bitmap optionally holds the already decoded, premultiplied image.
	// If it is set, Kind and Data are not used.
	Bitmap *image.RGBA
}

var errNoData = errors.New("imaging: image has no pixel data")

// Validate checks that the pixel data matches the image size.
func (r *Resource) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("imaging: invalid image size %dx%d", r.Width, r.Height)
	}
	if r.Bitmap != nil {
		return nil
	}
	n := r.Kind.rowBytes(r.Width)
	if n == 0 {
		return fmt.Errorf("imaging: unsupported image kind %s", r.Kind)
	}
	if r.Data == nil {
		return errNoData
	}
	if len(r.Data) < n*r.Height {
		return fmt.Errorf("imaging: %s image %dx%d: got %d bytes, want %d",
			r.Kind, r.Width, r.Height, len(r.Data), n*r.Height)
	}
	return nil
}

// TransferMaps remaps colour components after decoding.  Nil maps leave
// their component unchanged.
type TransferMaps struct {
	R, G, B []uint8

	// Gray is only consulted for 1-bit images: an inverting map swaps
	// black and white.
	Gray []uint8
}

// NewTransferMaps converts the transfer maps of a graphics state.  One
// map applies to all components; four maps apply to red, green, blue and
// gray.  Maps without 256 entries are ignored.  The result is nil if no
// map applies.
func NewTransferMaps(maps [][]uint8) *TransferMaps {
	get := func(i int) []uint8 {
		if i < len(maps) && len(maps[i]) == 256 {
			return maps[i]
		}
		return nil
	}
	var tm TransferMaps
	switch len(maps) {
	case 1:
		m := get(0)
		tm = TransferMaps{R: m, G: m, B: m, Gray: m}
	case 4:
		tm = TransferMaps{R: get(0), G: get(1), B: get(2), Gray: get(3)}
	default:
		return nil
	}
	if tm.R == nil && tm.G == nil && tm.B == nil && tm.Gray == nil {
		return nil
	}
	return &tm
}

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

// gray1Colors returns the premultiplied colours for set and clear bits.
func (r *Resource) gray1Colors(maps *TransferMaps) (fg, bg color.RGBA) {
	fg, bg = white, black
	if r.Foreground != nil {
		c := r.Foreground
		fg = surface.Premultiply(c.R, c.G, c.B, c.A)
	}
	if r.Background != nil {
		c := r.Background
		bg = surface.Premultiply(c.R, c.G, c.B, c.A)
	}
	if maps.invertsGray() {
		fg, bg = bg, fg
	}
	return fg, bg
}

func (tm *TransferMaps) invertsGray() bool {
	return tm != nil && tm.Gray != nil && tm.Gray[0] == 255 && tm.Gray[255] == 0
}

func (tm *TransferMaps) hasRGB() bool {
	return tm != nil && (tm.R != nil || tm.G != nil || tm.B != nil)
}

func apply(m []uint8, v uint8) uint8 {
	if m == nil {
		return v
	}
	return m[v]
}

// Decode converts an image resource into a premultiplied RGBA image.
func Decode(r *Resource, maps *TransferMaps) (*image.RGBA, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.Bitmap != nil && !maps.hasRGB() {
		return r.Bitmap, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	if err := Blit(dst, r, maps); err != nil {
		return nil, err
	}
	return dst, nil
}

// Placement positions one copy of an image.  Matrix maps the unit square
// to user space; Src selects the part of the image to use, the zero
// value meaning the whole image.
type Placement struct {
	Matrix matrix.Matrix
	Src    image.Rectangle
}

// MaskPlacement positions one stencil mask of an image mask group.
// Matrix maps the unit square to user space.
type MaskPlacement struct {
	Mask   *Resource
	Matrix matrix.Matrix
}

// RepeatPlacements returns one placement per (x, y) pair in positions,
// each using the matrix [scaleX skewX skewY scaleY x y].
func RepeatPlacements(scaleX, skewX, skewY, scaleY float64, positions []float64) []Placement {
	res := make([]Placement, 0, len(positions)/2)
	for i := 0; i+1 < len(positions); i += 2 {
		res = append(res, Placement{
			Matrix: matrix.Matrix{scaleX, skewX, skewY, scaleY, positions[i], positions[i+1]},
		})
	}
	return res
}
