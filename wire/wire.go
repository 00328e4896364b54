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

// Package wire converts operator lists and page resources from and to
// their JSON form.
//
// A chunk of an operator list is encoded as
//
//	{ "opcodes": [int], "args": [[any]], "lastChunk": bool }
//
// Opcodes use the numbering of [oplist.OpCode].  Numbers decode as float64,
// strings as string and arrays as []any.  JSON objects carry a "type"
// member which selects the Go value they decode to:
//
//	"glyph"         *text.Glyph
//	"group"         *softmask.Group
//	"image"         *imaging.Resource
//	"placement"     imaging.Placement
//	"maskPlacement" imaging.MaskPlacement
//	"shading"       *pattern.Shading
//	"tiling"        *pattern.Tiling
//	"font"          *text.Font
//
// A [Page] bundles the chunks of one page with its size and the objects the
// operators refer to.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/resource"
	"seehuhn.de/go/pagerender/text"
)

// Chunk is the JSON form of a part of an operator list.  Each entry of Args
// holds the argument array of the corresponding opcode.
type Chunk struct {
	OpCodes   []int             `json:"opcodes"`
	Args      []json.RawMessage `json:"args"`
	LastChunk bool              `json:"lastChunk"`
}

// Page describes one page to be rendered.
type Page struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Viewport, if set, is the visible part of user space as
	// [llx, lly, urx, ury].  It is mapped onto the whole surface.
	Viewport []float64 `json:"viewport,omitempty"`

	// Transform is used instead of the viewport mapping if set.
	Transform []float64 `json:"transform,omitempty"`

	Background *Color `json:"background,omitempty"`

	// Intent is "display" or "print".
	Intent string `json:"intent,omitempty"`

	Chunks []Chunk `json:"chunks"`

	// Objects holds the resources of the page, by id.  Ids starting with
	// "g_" go to the shared store.
	Objects map[string]json.RawMessage `json:"objects,omitempty"`

	OptionalContent map[string]bool `json:"optionalContent,omitempty"`
}

// ErrNoChunks is returned for pages without operators.
var ErrNoChunks = errors.New("wire: page has no operator list")

// ReadPage decodes a page from r.
func ReadPage(r io.Reader) (*Page, error) {
	p := &Page{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}
	if len(p.Chunks) == 0 {
		return nil, ErrNoChunks
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("wire: invalid page size %dx%d", p.Width, p.Height)
	}
	return p, nil
}

// Lists decodes the chunks of the page.
func (p *Page) Lists() ([]*oplist.List, error) {
	res := make([]*oplist.List, len(p.Chunks))
	for i := range p.Chunks {
		l, err := DecodeChunk(&p.Chunks[i])
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		res[i] = l
	}
	return res, nil
}

// Load decodes the objects of the page and resolves them in pool.
func (p *Page) Load(pool *resource.Pool) error {
	for id, raw := range p.Objects {
		v, err := decodeValue(raw)
		if err != nil {
			return fmt.Errorf("wire: object %q: %w", id, err)
		}
		if f, ok := v.(*text.Font); ok && f.LoadedName == "" {
			f.LoadedName = id
		}
		pool.For(id).Resolve(id, v)
	}
	return nil
}

// Matrix returns the explicit page transform, if one is given.
func (p *Page) Matrix() (matrix.Matrix, bool) {
	if len(p.Transform) != 6 {
		return matrix.Matrix{}, false
	}
	return matrix.Matrix(p.Transform), true
}

// Rect returns the viewport, if one is given.
func (p *Page) Rect() (*rect.Rect, bool) {
	if len(p.Viewport) != 4 {
		return nil, false
	}
	v := p.Viewport
	return &rect.Rect{LLx: v[0], LLy: v[1], URx: v[2], URy: v[3]}, true
}

// DecodeChunk converts a chunk into an operator list.  Opcodes outside the
// known range are kept; the interpreter skips them.
func DecodeChunk(c *Chunk) (*oplist.List, error) {
	if len(c.Args) != 0 && len(c.Args) != len(c.OpCodes) {
		return nil, fmt.Errorf("wire: %d opcodes but %d argument lists",
			len(c.OpCodes), len(c.Args))
	}
	l := &oplist.List{
		Ops:       make([]oplist.OpCode, len(c.OpCodes)),
		Args:      make([][]any, len(c.OpCodes)),
		LastChunk: c.LastChunk,
	}
	for i, code := range c.OpCodes {
		if code < 0 || code > 255 {
			return nil, fmt.Errorf("wire: operator %d: opcode %d out of range", i, code)
		}
		op := oplist.OpCode(code)
		l.Ops[i] = op
		if len(c.Args) == 0 {
			continue
		}
		args, err := decodeArgs(op, c.Args[i])
		if err != nil {
			return nil, fmt.Errorf("wire: operator %d (%s): %w", i, op, err)
		}
		l.Args[i] = args
	}
	return l, nil
}

// EncodeList converts an operator list into a chunk.  Only plain arguments
// are supported: numbers, strings, booleans, nil and slices of these.
func EncodeList(l *oplist.List) (*Chunk, error) {
	c := &Chunk{
		OpCodes:   make([]int, len(l.Ops)),
		Args:      make([]json.RawMessage, len(l.Ops)),
		LastChunk: l.LastChunk,
	}
	for i, op := range l.Ops {
		c.OpCodes[i] = int(op)
		args := l.Args[i]
		if args == nil {
			args = []any{}
		}
		for _, a := range args {
			if !plain(a) {
				return nil, fmt.Errorf("wire: operator %d (%s): cannot encode %T", i, op, a)
			}
		}
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("wire: operator %d (%s): %w", i, op, err)
		}
		c.Args[i] = raw
	}
	return c, nil
}

func plain(v any) bool {
	switch v := v.(type) {
	case nil, bool, string, float64, float32, int, int64, int32, uint8,
		[]float64, []string, []int:
		return true
	case []any:
		for _, x := range v {
			if !plain(x) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
