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

package surface

import (
	"math"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics"
)

// BlendMode selects the function used to combine source and backdrop
// colours.  Only the separable modes are implemented.
type BlendMode uint8

// These are the supported blend modes.
const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
)

var blendNames = map[pdf.Name]BlendMode{
	graphics.BlendModeNormal:     BlendNormal,
	graphics.BlendModeCompatible: BlendNormal,
	graphics.BlendModeMultiply:   BlendMultiply,
	graphics.BlendModeScreen:     BlendScreen,
	graphics.BlendModeOverlay:    BlendOverlay,
	graphics.BlendModeDarken:     BlendDarken,
	graphics.BlendModeLighten:    BlendLighten,
	graphics.BlendModeColorDodge: BlendColorDodge,
	graphics.BlendModeColorBurn:  BlendColorBurn,
	graphics.BlendModeHardLight:  BlendHardLight,
	graphics.BlendModeSoftLight:  BlendSoftLight,
	graphics.BlendModeDifference: BlendDifference,
	graphics.BlendModeExclusion:  BlendExclusion,

	// canvas style names
	"source-over": BlendNormal,
	"multiply":    BlendMultiply,
	"screen":      BlendScreen,
	"overlay":     BlendOverlay,
	"darken":      BlendDarken,
	"lighten":     BlendLighten,
	"color-dodge": BlendColorDodge,
	"color-burn":  BlendColorBurn,
	"hard-light":  BlendHardLight,
	"soft-light":  BlendSoftLight,
	"difference":  BlendDifference,
	"exclusion":   BlendExclusion,
}

// ParseBlendMode converts a PDF blend mode name into a BlendMode.  The
// second return value is false for unknown and non-separable modes, in
// which case BlendNormal is returned.
func ParseBlendMode(name string) (BlendMode, bool) {
	mode, ok := blendNames[pdf.Name(name)]
	return mode, ok
}

func (m BlendMode) String() string {
	for name, mode := range blendNames {
		if mode == m && name[0] >= 'A' && name[0] <= 'Z' && name != graphics.BlendModeCompatible {
			return string(name)
		}
	}
	return "BlendMode(?)"
}

// blendChannel evaluates the blend function B(cb, cs) for straight-alpha
// channel values in [0, 1].
func (m BlendMode) blendChannel(cb, cs float64) float64 {
	switch m {
	case BlendMultiply:
		return cb * cs
	case BlendScreen:
		return cb + cs - cb*cs
	case BlendOverlay:
		return hardLight(cs, cb)
	case BlendDarken:
		return min(cb, cs)
	case BlendLighten:
		return max(cb, cs)
	case BlendColorDodge:
		if cb == 0 {
			return 0
		} else if cs >= 1 {
			return 1
		}
		return min(1, cb/(1-cs))
	case BlendColorBurn:
		if cb >= 1 {
			return 1
		} else if cs <= 0 {
			return 0
		}
		return 1 - min(1, (1-cb)/cs)
	case BlendHardLight:
		return hardLight(cb, cs)
	case BlendSoftLight:
		if cs <= 0.5 {
			return cb - (1-2*cs)*cb*(1-cb)
		}
		var d float64
		if cb <= 0.25 {
			d = ((16*cb-12)*cb + 4) * cb
		} else {
			d = math.Sqrt(cb)
		}
		return cb + (2*cs-1)*(d-cb)
	case BlendDifference:
		return math.Abs(cb - cs)
	case BlendExclusion:
		return cb + cs - 2*cb*cs
	default:
		return cs
	}
}

func hardLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb * 2 * cs
	}
	s := 2*cs - 1
	return cb + s - cb*s
}
