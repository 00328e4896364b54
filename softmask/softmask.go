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

// Package softmask implements transparency groups and soft masks.
//
// A transparency group is drawn into a scratch surface which covers the
// device space bounding box of the group.  Groups which define a soft mask
// are kept as a [SoftMask] record.  While a soft mask is active, drawing
// goes to a layer of the size of the target; when the mask is deactivated
// the layer is composed through the mask by a [Backend] and then
// composited onto the target.
package softmask

import (
	"errors"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pagerender/internal/affine"
	"seehuhn.de/go/pagerender/surface"
)

// MaxGroupSize is the default limit for the width and height of a group
// scratch surface.  Larger groups are drawn at reduced resolution.
const MaxGroupSize = 4096

var (
	// ErrFallbackToCPU is returned by a backend which cannot handle a
	// request and wants the caller to use the CPU implementation.
	ErrFallbackToCPU = errors.New("softmask: falling back to CPU compositing")

	// ErrNoDevice is returned by the GPU backend when no device is set.
	ErrNoDevice = errors.New("softmask: no GPU device")
)

// Subtype selects how mask values are derived from the mask surface.
type Subtype uint8

const (
	// Alpha masks use the alpha channel of the mask surface.
	Alpha Subtype = iota

	// Luminosity masks use the luminance of the mask colour.
	Luminosity
)

func (s Subtype) String() string {
	switch s {
	case Alpha:
		return "Alpha"
	case Luminosity:
		return "Luminosity"
	default:
		return "Subtype(?)"
	}
}

// ParseSubtype converts a subtype name into a Subtype.
func ParseSubtype(name string) (Subtype, bool) {
	switch name {
	case "Alpha", "alpha":
		return Alpha, true
	case "Luminosity", "luminosity":
		return Luminosity, true
	}
	return 0, false
}

// Group describes a transparency group, as given by a beginGroup
// operator.
type Group struct {
	// BBox is the group bounding box in group space.
	BBox rect.Rect

	// Matrix maps group space to user space.  The zero value stands for
	// the identity.
	Matrix matrix.Matrix

	Isolated bool
	Knockout bool

	// Mask is non-nil if the group defines a soft mask.
	Mask *MaskParams
}

// Transform returns the group matrix, with the zero value replaced by
// the identity.
func (g *Group) Transform() matrix.Matrix {
	if g.Matrix == (matrix.Matrix{}) {
		return matrix.Identity
	}
	return g.Matrix
}

// MaskParams holds the soft mask parameters of a mask group.
type MaskParams struct {
	Subtype Subtype

	// Backdrop is the colour of mask pixels not covered by the group,
	// or nil for transparent.
	Backdrop *[3]uint8

	// TransferMap, if it has 256 entries, is applied to the mask values
	// of luminosity masks.
	TransferMap []uint8
}

// Geometry describes where a group scratch surface is placed in device
// space.  Scratch pixel (u, v) covers the device rectangle starting at
// (OffsetX + u*ScaleX, OffsetY + v*ScaleY).
type Geometry struct {
	OffsetX, OffsetY int
	Width, Height    int
	ScaleX, ScaleY   float64
}

// ComputeGeometry finds the scratch surface for a group with bounding box
// bbox, group matrix m and current transformation ctm, drawn onto a
// surface of size surfW×surfH.  The device space bounding box is clipped
// to the surface.  Scratch dimensions are at least 1 and at most maxSize;
// when the limit applies, the scale factor grows accordingly.
func ComputeGeometry(bbox rect.Rect, m, ctm matrix.Matrix, surfW, surfH, maxSize int) Geometry {
	if maxSize <= 0 {
		maxSize = MaxGroupSize
	}
	if m == (matrix.Matrix{}) {
		m = matrix.Identity
	}
	dev := affine.BBox(affine.Normalize(bbox), m.Mul(ctm))
	x0 := math.Max(dev.LLx, 0)
	y0 := math.Max(dev.LLy, 0)
	x1 := math.Min(dev.URx, float64(surfW))
	y1 := math.Min(dev.URy, float64(surfH))

	g := Geometry{ScaleX: 1, ScaleY: 1}
	g.OffsetX, g.Width = span(x0, x1)
	g.OffsetY, g.Height = span(y0, y1)
	if g.Width > maxSize {
		g.ScaleX = float64(g.Width) / float64(maxSize)
		g.Width = maxSize
	}
	if g.Height > maxSize {
		g.ScaleY = float64(g.Height) / float64(maxSize)
		g.Height = maxSize
	}
	return g
}

// span converts a device interval into integer offset and size.
// Empty or inverted intervals give size 1.
func span(a, b float64) (int, int) {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, 1
	}
	off := math.Floor(a)
	size := math.Ceil(b) - off
	if size < 1 {
		size = 1
	}
	return int(off), int(size)
}

// ToScratch returns the map from device space to scratch pixel space.
func (g Geometry) ToScratch() matrix.Matrix {
	return matrix.Translate(-float64(g.OffsetX), -float64(g.OffsetY)).
		Mul(matrix.Scale(1/g.ScaleX, 1/g.ScaleY))
}

// Scaled reports whether the scratch surface has reduced resolution.
func (g Geometry) Scaled() bool {
	return g.ScaleX != 1 || g.ScaleY != 1
}

// SoftMask is a finished mask group.
type SoftMask struct {
	Surface *surface.Surface
	Geometry

	Subtype     Subtype
	Backdrop    *[3]uint8
	TransferMap []uint8

	// StartInverse is the inverse of the CTM in effect when the mask was
	// first activated.
	StartInverse matrix.Matrix
}

// NewSoftMask wraps the scratch surface of a finished mask group.
func NewSoftMask(s *surface.Surface, g Geometry, p *MaskParams) *SoftMask {
	m := &SoftMask{Surface: s, Geometry: g}
	if p != nil {
		m.Subtype = p.Subtype
		m.Backdrop = p.Backdrop
		if len(p.TransferMap) == 256 {
			m.TransferMap = p.TransferMap
		}
	}
	return m
}

// Activate records the CTM at the first activation of the mask.
func (m *SoftMask) Activate(ctm matrix.Matrix) {
	if m.StartInverse != (matrix.Matrix{}) {
		return
	}
	if inv, ok := affine.Invert(ctm); ok {
		m.StartInverse = inv
	} else {
		m.StartInverse = matrix.Identity
	}
}

// Pixel returns the premultiplied mask colour covering device pixel
// (x, y).  Pixels outside the mask surface are transparent.
func (m *SoftMask) Pixel(x, y int) (r, g, b, a uint8) {
	u := int(math.Floor((float64(x) + 0.5 - float64(m.OffsetX)) / m.ScaleX))
	v := int(math.Floor((float64(y) + 0.5 - float64(m.OffsetY)) / m.ScaleY))
	s := m.Surface
	if s == nil || u < 0 || v < 0 || u >= s.Width() || v >= s.Height() {
		return 0, 0, 0, 0
	}
	i := v*s.Stride + 4*u
	return s.Pix[i], s.Pix[i+1], s.Pix[i+2], s.Pix[i+3]
}

// Backend composes a layer through a soft mask.  The layer has device
// coordinates.  On success every pixel of the layer is multiplied by
// the mask value at that position.
type Backend interface {
	Compose(layer *surface.Surface, m *SoftMask) error
	Name() string
}
