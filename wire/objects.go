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

package wire

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"seehuhn.de/go/pagerender/imaging"
	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/pattern"
	"seehuhn.de/go/pagerender/softmask"
	"seehuhn.de/go/pagerender/text"
)

func decodeObject(raw json.RawMessage) (any, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case "glyph":
		return decodeGlyph(raw)
	case "group":
		return decodeGroup(raw)
	case "image":
		return decodeImage(raw)
	case "placement":
		return decodePlacement(raw)
	case "maskPlacement":
		return decodeMaskPlacement(raw)
	case "shading":
		return decodeShading(raw)
	case "tiling":
		return decodeTiling(raw)
	case "font":
		return decodeFont(raw)
	case "":
		return nil, fmt.Errorf("object without type")
	default:
		return nil, fmt.Errorf("unknown object type %q", head.Type)
	}
}

type jsonAccent struct {
	GID     uint16    `json:"gid"`
	Unicode string    `json:"unicode"`
	Offset  []float64 `json:"offset"`
}

type jsonGlyph struct {
	GID      uint16      `json:"gid"`
	Unicode  string      `json:"unicode"`
	Width    float64     `json:"width"`
	VMetric  []float64   `json:"vmetric"`
	IsSpace  bool        `json:"isSpace"`
	IsInFont *bool       `json:"isInFont"`
	ProcID   string      `json:"procId"`
	Accent   *jsonAccent `json:"accent"`
}

// decodeGlyph decodes a glyph.  Glyphs are in the font unless isInFont is
// false.
func decodeGlyph(raw json.RawMessage) (*text.Glyph, error) {
	var j jsonGlyph
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, err
	}
	g := &text.Glyph{
		GID:      j.GID,
		Unicode:  j.Unicode,
		Width:    j.Width,
		IsSpace:  j.IsSpace,
		IsInFont: j.IsInFont == nil || *j.IsInFont,
		ProcID:   j.ProcID,
	}
	if j.VMetric != nil {
		if len(j.VMetric) != 3 {
			return nil, fmt.Errorf("vertical metrics with %d entries", len(j.VMetric))
		}
		g.VMetric = &text.VMetric{j.VMetric[0], j.VMetric[1], j.VMetric[2]}
	}
	if j.Accent != nil {
		a := &text.Accent{GID: j.Accent.GID, Unicode: j.Accent.Unicode}
		if j.Accent.Offset != nil {
			off, err := toVec(j.Accent.Offset)
			if err != nil {
				return nil, err
			}
			a.Offset = off
		}
		g.Accent = a
	}
	return g, nil
}

type jsonMask struct {
	Subtype     string    `json:"subtype"`
	Backdrop    []float64 `json:"backdrop"`
	TransferMap []float64 `json:"transferMap"`
}

type jsonGroup struct {
	BBox     []float64 `json:"bbox"`
	Matrix   []float64 `json:"matrix"`
	Isolated bool      `json:"isolated"`
	Knockout bool      `json:"knockout"`
	SMask    *jsonMask `json:"smask"`
}

func decodeGroup(raw json.RawMessage) (*softmask.Group, error) {
	var j jsonGroup
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, err
	}
	bbox, err := toRect(j.BBox)
	if err != nil {
		return nil, fmt.Errorf("group: %w", err)
	}
	m, err := toMatrix(j.Matrix)
	if err != nil {
		return nil, fmt.Errorf("group: %w", err)
	}
	g := &softmask.Group{
		BBox:     bbox,
		Matrix:   m,
		Isolated: j.Isolated,
		Knockout: j.Knockout,
	}
	if j.SMask == nil {
		return g, nil
	}

	sub, ok := softmask.ParseSubtype(j.SMask.Subtype)
	if !ok {
		return nil, fmt.Errorf("group: unknown soft mask subtype %q", j.SMask.Subtype)
	}
	p := &softmask.MaskParams{Subtype: sub}
	if b := j.SMask.Backdrop; b != nil {
		if len(b) != 3 {
			return nil, fmt.Errorf("group: backdrop with %d components", len(b))
		}
		p.Backdrop = &[3]uint8{clampByte(b[0]), clampByte(b[1]), clampByte(b[2])}
	}
	if t := j.SMask.TransferMap; t != nil {
		if len(t) != 256 {
			return nil, fmt.Errorf("group: transfer map with %d entries", len(t))
		}
		p.TransferMap = make([]uint8, 256)
		for i, x := range t {
			p.TransferMap[i] = clampByte(x)
		}
	}
	g.Mask = p
	return g, nil
}

type jsonImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Kind        int    `json:"kind"`
	Data        []byte `json:"data"` // base64
	Interpolate bool   `json:"interpolate"`

	// colours of 1-bit images
	Foreground *Color `json:"foreground"`
	Background *Color `json:"background"`
}

func decodeImage(raw json.RawMessage) (*imaging.Resource, error) {
	var j jsonImage
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, err
	}
	r := &imaging.Resource{
		Width:       j.Width,
		Height:      j.Height,
		Kind:        imaging.Kind(j.Kind),
		Data:        j.Data,
		Interpolate: j.Interpolate,
	}
	if j.Foreground != nil {
		c := color.RGBA(*j.Foreground)
		r.Foreground = &c
	}
	if j.Background != nil {
		c := color.RGBA(*j.Background)
		r.Background = &c
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func decodePlacement(raw json.RawMessage) (imaging.Placement, error) {
	var j struct {
		Transform []float64 `json:"transform"`
		Src       []int     `json:"src"`
	}
	if err := json.Unmarshal(raw, &j); err != nil {
		return imaging.Placement{}, err
	}
	m, err := toMatrix(j.Transform)
	if err != nil {
		return imaging.Placement{}, fmt.Errorf("placement: %w", err)
	}
	p := imaging.Placement{Matrix: m}
	switch len(j.Src) {
	case 0:
	case 4:
		p.Src = image.Rect(j.Src[0], j.Src[1], j.Src[2], j.Src[3])
	default:
		return imaging.Placement{}, fmt.Errorf("placement: source rectangle with %d entries", len(j.Src))
	}
	return p, nil
}

func decodeMaskPlacement(raw json.RawMessage) (imaging.MaskPlacement, error) {
	var j struct {
		Mask      json.RawMessage `json:"mask"`
		Transform []float64       `json:"transform"`
	}
	if err := json.Unmarshal(raw, &j); err != nil {
		return imaging.MaskPlacement{}, err
	}
	mask, err := decodeImage(j.Mask)
	if err != nil {
		return imaging.MaskPlacement{}, fmt.Errorf("mask placement: %w", err)
	}
	m, err := toMatrix(j.Transform)
	if err != nil {
		return imaging.MaskPlacement{}, fmt.Errorf("mask placement: %w", err)
	}
	return imaging.MaskPlacement{Mask: mask, Matrix: m}, nil
}

type jsonStop struct {
	Offset float64 `json:"offset"`
	Color  Color   `json:"color"`
}

type jsonFigure struct {
	Kind           string `json:"kind"` // "triangles" or "lattice"
	Coords         []int  `json:"coords"`
	Colors         []int  `json:"colors"`
	VerticesPerRow int    `json:"verticesPerRow"`
}

type jsonShading struct {
	ShadingType string       `json:"shadingType"`
	Matrix      []float64    `json:"matrix"`
	BBox        []float64    `json:"bbox"`
	Background  *Color       `json:"background"`
	Stops       []jsonStop   `json:"stops"`
	P0          []float64    `json:"p0"`
	P1          []float64    `json:"p1"`
	R0          float64      `json:"r0"`
	R1          float64      `json:"r1"`
	Extend      []bool       `json:"extend"`
	Coords      [][]float64  `json:"coords"`
	Colors      []Color      `json:"colors"`
	Figures     []jsonFigure `json:"figures"`
	Bounds      []float64    `json:"bounds"`
}

var shadingKinds = map[string]pattern.Kind{
	"axial":  pattern.Axial,
	"radial": pattern.Radial,
	"mesh":   pattern.Mesh,
	"dummy":  pattern.Dummy,
}

func decodeShading(raw json.RawMessage) (*pattern.Shading, error) {
	var j jsonShading
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, err
	}
	kind, ok := shadingKinds[j.ShadingType]
	if !ok {
		return nil, fmt.Errorf("unknown shading type %q", j.ShadingType)
	}
	m, err := toMatrix(j.Matrix)
	if err != nil {
		return nil, fmt.Errorf("shading: %w", err)
	}
	s := &pattern.Shading{Kind: kind, Matrix: m}
	if j.BBox != nil {
		bbox, err := toRect(j.BBox)
		if err != nil {
			return nil, fmt.Errorf("shading: %w", err)
		}
		s.BBox = &bbox
	}
	if j.Background != nil {
		bg := color.RGBA(*j.Background)
		s.Background = &bg
	}

	switch kind {
	case pattern.Axial, pattern.Radial:
		for _, st := range j.Stops {
			s.Stops = append(s.Stops, pattern.Stop{Offset: st.Offset, Color: color.RGBA(st.Color)})
		}
		if s.P0, err = toVec(j.P0); err != nil {
			return nil, fmt.Errorf("shading: %w", err)
		}
		if s.P1, err = toVec(j.P1); err != nil {
			return nil, fmt.Errorf("shading: %w", err)
		}
		s.R0, s.R1 = j.R0, j.R1
		copy(s.Extend[:], j.Extend)
	case pattern.Mesh:
		for _, c := range j.Coords {
			v, err := toVec(c)
			if err != nil {
				return nil, fmt.Errorf("shading: %w", err)
			}
			s.Coords = append(s.Coords, v)
		}
		for _, c := range j.Colors {
			s.Colors = append(s.Colors, color.RGBA(c))
		}
		for _, f := range j.Figures {
			fig := pattern.Figure{
				Coords:         f.Coords,
				Colors:         f.Colors,
				VerticesPerRow: f.VerticesPerRow,
			}
			switch f.Kind {
			case "triangles":
				fig.Kind = pattern.Triangles
			case "lattice":
				fig.Kind = pattern.Lattice
			default:
				return nil, fmt.Errorf("shading: unknown figure kind %q", f.Kind)
			}
			s.Figures = append(s.Figures, fig)
		}
		if j.Bounds != nil {
			if s.Bounds, err = toRect(j.Bounds); err != nil {
				return nil, fmt.Errorf("shading: %w", err)
			}
		}
	}
	return s, nil
}

type jsonTiling struct {
	Ops        Chunk     `json:"ops"`
	Matrix     []float64 `json:"matrix"`
	BBox       []float64 `json:"bbox"`
	XStep      float64   `json:"xStep"`
	YStep      float64   `json:"yStep"`
	PaintType  int       `json:"paintType"`
	TilingType int       `json:"tilingType"`
}

func decodeTiling(raw json.RawMessage) (*pattern.Tiling, error) {
	var j jsonTiling
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, err
	}
	ops, err := DecodeChunk(&j.Ops)
	if err != nil {
		return nil, fmt.Errorf("tiling: %w", err)
	}
	ops.LastChunk = true
	m, err := toMatrix(j.Matrix)
	if err != nil {
		return nil, fmt.Errorf("tiling: %w", err)
	}
	bbox, err := toRect(j.BBox)
	if err != nil {
		return nil, fmt.Errorf("tiling: %w", err)
	}
	paintType := j.PaintType
	if paintType == 0 {
		paintType = pattern.Colored
	}
	return &pattern.Tiling{
		Ops:        ops,
		Matrix:     m,
		BBox:       bbox,
		XStep:      j.XStep,
		YStep:      j.YStep,
		PaintType:  paintType,
		TilingType: j.TilingType,
	}, nil
}

type jsonFont struct {
	Name           string           `json:"name"`
	FontMatrix     []float64        `json:"fontMatrix"`
	Vertical       bool             `json:"vertical"`
	DefaultVMetric []float64        `json:"defaultVMetric"`
	Type3          bool             `json:"type3"`
	CharProcs      map[string]Chunk `json:"charProcs"`
	Outlines       []byte           `json:"outlines"` // base64 TrueType or OpenType data
}

// fallbackFont is used for fonts delivered without outlines.
var fallbackFont = sync.OnceValues(func() (*sfnt.Font, error) {
	return sfnt.Parse(goregular.TTF)
})

func decodeFont(raw json.RawMessage) (*text.Font, error) {
	var j jsonFont
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, err
	}
	m, err := toMatrix(j.FontMatrix)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", j.Name, err)
	}
	f := &text.Font{
		LoadedName: j.Name,
		FontMatrix: m,
		Vertical:   j.Vertical,
		IsType3:    j.Type3,
	}
	if v := j.DefaultVMetric; v != nil {
		if len(v) != 3 {
			return nil, fmt.Errorf("font %q: vertical metrics with %d entries", j.Name, len(v))
		}
		f.DefaultVMetric = &text.VMetric{v[0], v[1], v[2]}
	}

	if j.Type3 {
		f.CharProcs = make(map[string]*oplist.List, len(j.CharProcs))
		for id, c := range j.CharProcs {
			l, err := DecodeChunk(&c)
			if err != nil {
				return nil, fmt.Errorf("font %q: glyph %q: %w", j.Name, id, err)
			}
			l.LastChunk = true
			f.CharProcs[id] = l
		}
		return f, nil
	}

	if j.Outlines != nil {
		f.Outlines, err = sfnt.Parse(j.Outlines)
	} else {
		f.Outlines, err = fallbackFont()
	}
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", j.Name, err)
	}
	return f, nil
}
