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
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pagerender/imaging"
	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/pattern"
	"seehuhn.de/go/pagerender/render"
	"seehuhn.de/go/pagerender/resource"
	"seehuhn.de/go/pagerender/softmask"
	"seehuhn.de/go/pagerender/surface"
	"seehuhn.de/go/pagerender/testcases"
	"seehuhn.de/go/pagerender/text"
)

func decode(t *testing.T, s string) *oplist.List {
	t.Helper()
	var c Chunk
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		t.Fatal(err)
	}
	l, err := DecodeChunk(&c)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestDecodeChunk(t *testing.T) {
	l := decode(t, `{
		"opcodes": [59, 19, 22],
		"args": [[255, 0, 0], [5, 5, 10, 10], []],
		"lastChunk": true
	}`)

	want := &oplist.List{
		Ops: []oplist.OpCode{oplist.SetFillRGBColor, oplist.Rectangle, oplist.Fill},
		Args: [][]any{
			{255.0, 0.0, 0.0},
			{5.0, 5.0, 10.0, 10.0},
			{},
		},
		LastChunk: true,
	}
	if d := cmp.Diff(want, l); d != "" {
		t.Errorf("decoded list differs (-want +got):\n%s", d)
	}
}

func TestOpCodeNumbering(t *testing.T) {
	for _, tc := range []struct {
		code int
		op   oplist.OpCode
	}{
		{1, oplist.Dependency},
		{10, oplist.Save},
		{19, oplist.Rectangle},
		{59, oplist.SetFillRGBColor},
		{76, oplist.BeginGroup},
		{91, oplist.ConstructPath},
	} {
		l := decode(t, `{"opcodes": [`+itoa(tc.code)+`]}`)
		if l.Ops[0] != tc.op {
			t.Errorf("opcode %d: got %s, want %s", tc.code, l.Ops[0], tc.op)
		}
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestDecodeErrors(t *testing.T) {
	for _, s := range []string{
		`{"opcodes": [300]}`,
		`{"opcodes": [1, 2], "args": [[]]}`,
		`{"opcodes": [44], "args": [[{"unicode": "a"}]]}`,
		`{"opcodes": [44], "args": [[{"type": "sprite"}]]}`,
		`{"opcodes": [76], "args": [[{"type": "group", "bbox": [0, 0, 1]}]]}`,
		`{"opcodes": [88], "args": [[{"type": "image", "width": 2, "height": 2, "kind": 2, "data": "AAAA"}]]}`,
		`{"opcodes": [2], "args": [7]}`,
	} {
		var c Chunk
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			t.Fatal(err)
		}
		if _, err := DecodeChunk(&c); err == nil {
			t.Errorf("%s: expected an error", s)
		}
	}
}

func TestUnknownOpCodeKept(t *testing.T) {
	l := decode(t, `{"opcodes": [200, 10], "args": [[1], []]}`)
	if l.Ops[0].Valid() {
		t.Errorf("opcode 200 reported as valid")
	}
	if l.Ops[1] != oplist.Save {
		t.Errorf("got %s, want save", l.Ops[1])
	}
}

func TestDecodeGlyphs(t *testing.T) {
	l := decode(t, `{
		"opcodes": [44],
		"args": [[[
			{"type": "glyph", "unicode": "A", "width": 722},
			-250,
			{"type": "glyph", "unicode": " ", "width": 250, "isSpace": true, "isInFont": false}
		]]]
	}`)
	items, err := text.Items(l.Args[0][0])
	if err != nil {
		t.Fatal(err)
	}
	want := []text.Item{
		{Glyph: &text.Glyph{Unicode: "A", Width: 722, IsInFont: true}},
		{Adjust: -250},
		{Glyph: &text.Glyph{Unicode: " ", Width: 250, IsSpace: true}},
	}
	if d := cmp.Diff(want, items); d != "" {
		t.Errorf("glyphs differ (-want +got):\n%s", d)
	}
}

func TestDecodeGroup(t *testing.T) {
	l := decode(t, `{
		"opcodes": [76],
		"args": [[{
			"type": "group",
			"bbox": [0, 0, 20, 10],
			"matrix": [2, 0, 0, 2, 1, 1],
			"isolated": true,
			"smask": {"subtype": "Luminosity", "backdrop": [0, 0, 255]}
		}]]
	}`)
	g, ok := l.Args[0][0].(*softmask.Group)
	if !ok {
		t.Fatalf("got %T, want *softmask.Group", l.Args[0][0])
	}
	want := &softmask.Group{
		BBox:     rect.Rect{URx: 20, URy: 10},
		Matrix:   matrix.Matrix{2, 0, 0, 2, 1, 1},
		Isolated: true,
		Mask: &softmask.MaskParams{
			Subtype:  softmask.Luminosity,
			Backdrop: &[3]uint8{0, 0, 255},
		},
	}
	if d := cmp.Diff(want, g); d != "" {
		t.Errorf("group differs (-want +got):\n%s", d)
	}
}

func TestDecodeImageGroups(t *testing.T) {
	// 2x1 RGB image: red, green
	img := `{"type": "image", "width": 2, "height": 1, "kind": 2, "data": "/wAAAP8A"}`
	l := decode(t, `{
		"opcodes": [87, 84],
		"args": [
			[`+img+`, [{"type": "placement", "transform": [10, 0, 0, 10, 0, 0]},
			           {"type": "placement", "transform": [10, 0, 0, 10, 10, 0], "src": [1, 0, 2, 1]}]],
			[[{"type": "maskPlacement", "mask": {"type": "image", "width": 1, "height": 1, "kind": 1, "data": "gA=="},
			   "transform": [1, 0, 0, 1, 3, 4]}]]
		]
	}`)

	r, ok := l.Args[0][0].(*imaging.Resource)
	if !ok {
		t.Fatalf("got %T, want *imaging.Resource", l.Args[0][0])
	}
	if r.Kind != imaging.RGB24 || string(r.Data) != "\xff\x00\x00\x00\xff\x00" {
		t.Errorf("unexpected image %v %x", r.Kind, r.Data)
	}
	places, ok := l.Args[0][1].([]imaging.Placement)
	if !ok || len(places) != 2 {
		t.Fatalf("got %#v, want two placements", l.Args[0][1])
	}
	if places[1].Src.Min.X != 1 || places[1].Matrix[4] != 10 {
		t.Errorf("unexpected placement %+v", places[1])
	}

	masks, ok := l.Args[1][0].([]imaging.MaskPlacement)
	if !ok || len(masks) != 1 {
		t.Fatalf("got %#v, want one mask placement", l.Args[1][0])
	}
	if masks[0].Mask.Kind != imaging.Gray1 || masks[0].Matrix != (matrix.Matrix{1, 0, 0, 1, 3, 4}) {
		t.Errorf("unexpected mask placement %+v", masks[0])
	}
}

func TestDecodeGray1Colors(t *testing.T) {
	obj, err := decodeObject(json.RawMessage(`{"type": "image", "width": 1, "height": 1, "kind": 1,
		"data": "gA==", "foreground": "#ff0000", "background": [0, 0, 255]}`))
	if err != nil {
		t.Fatal(err)
	}
	r := obj.(*imaging.Resource)
	if r.Foreground == nil || *r.Foreground != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("foreground: got %v", r.Foreground)
	}
	if r.Background == nil || *r.Background != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("background: got %v", r.Background)
	}
}

func TestParseColor(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ff0000", color.RGBA{255, 0, 0, 255}, true},
		{"#00ff0080", color.RGBA{0, 255, 0, 128}, true},
		{"#ABCDEF", color.RGBA{0xab, 0xcd, 0xef, 255}, true},
		{"ff0000", color.RGBA{}, false},
		{"#ff00", color.RGBA{}, false},
		{"#gg0000", color.RGBA{}, false},
	} {
		got, err := ParseColor(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("%q: unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestColorJSON(t *testing.T) {
	var cols []Color
	err := json.Unmarshal([]byte(`["#102030", [1, 2, 3], [255, 0, 0, 64]]`), &cols)
	if err != nil {
		t.Fatal(err)
	}
	want := []Color{{16, 32, 48, 255}, {1, 2, 3, 255}, {255, 0, 0, 64}}
	if d := cmp.Diff(want, cols); d != "" {
		t.Errorf("colours differ (-want +got):\n%s", d)
	}

	out, err := json.Marshal(cols)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out); got != `["#102030","#010203","#ff000040"]` {
		t.Errorf("got %s", got)
	}
}

const page = `{
	"width": 20,
	"height": 20,
	"viewport": [0, 0, 20, 20],
	"intent": "print",
	"chunks": [
		{"opcodes": [1, 55], "args": [["sh"], ["sh"]]},
		{"opcodes": [19, 22, 1, 37], "args": [[0, 0, 20, 20], [], ["g_font"], ["g_font", 12]], "lastChunk": true}
	],
	"objects": {
		"sh": {
			"type": "shading", "shadingType": "axial",
			"p0": [0, 0], "p1": [20, 0],
			"stops": [{"offset": 0, "color": "#ff0000"}, {"offset": 1, "color": "#0000ff"}],
			"extend": [true, true]
		},
		"g_font": {"type": "font"}
	}
}`

func TestReadPage(t *testing.T) {
	p, err := ReadPage(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := p.Rect(); !ok || *r != (rect.Rect{URx: 20, URy: 20}) {
		t.Errorf("unexpected viewport %v", r)
	}
	if _, ok := p.Matrix(); ok {
		t.Error("unexpected explicit transform")
	}

	lists, err := p.Lists()
	if err != nil {
		t.Fatal(err)
	}
	if len(lists) != 2 || lists[0].LastChunk || !lists[1].LastChunk {
		t.Fatalf("unexpected chunks %v", lists)
	}

	pool := resource.NewPool()
	if err := p.Load(pool); err != nil {
		t.Fatal(err)
	}
	sh, ok := pool.Page.Get("sh")
	if !ok {
		t.Fatal("shading not resolved in the page store")
	}
	want := &pattern.Shading{
		Kind: pattern.Axial,
		Stops: []pattern.Stop{
			{Offset: 0, Color: color.RGBA{255, 0, 0, 255}},
			{Offset: 1, Color: color.RGBA{0, 0, 255, 255}},
		},
		P1:     vec.Vec2{X: 20},
		Extend: [2]bool{true, true},
	}
	if d := cmp.Diff(want, sh); d != "" {
		t.Errorf("shading differs (-want +got):\n%s", d)
	}

	f, ok := pool.Shared.Get("g_font")
	if !ok {
		t.Fatal("font not resolved in the shared store")
	}
	font := f.(*text.Font)
	if font.LoadedName != "g_font" || font.Outlines == nil {
		t.Errorf("fallback font not loaded: %q %v", font.LoadedName, font.Outlines)
	}
}

func TestReadPageErrors(t *testing.T) {
	for _, s := range []string{
		`{"width": 10, "height": 10}`,
		`{"width": 0, "height": 10, "chunks": [{"opcodes": []}]}`,
		`{"width": 10, "height": 10, "chunks": [`,
	} {
		if _, err := ReadPage(strings.NewReader(s)); err == nil {
			t.Errorf("%s: expected an error", s)
		}
	}
}

func TestEncodeList(t *testing.T) {
	b := &oplist.Builder{}
	b.Add(oplist.SetGState, []any{[]any{"CA", 0.5}})
	b.Add(oplist.BeginGroup, &softmask.Group{})
	if _, err := EncodeList(b.List()); err == nil {
		t.Error("encoding a group succeeded")
	}
}

// renderList draws a list onto a fresh surface.
func renderList(t *testing.T, l *oplist.List, w, h int) *surface.Surface {
	t.Helper()
	e := render.NewEngine(render.WithBackend(softmask.CPUBackend{}))
	defer e.Close()

	dst := surface.New(w, h)
	hd, err := e.Render(context.Background(), l, dst, render.Params{Intent: render.IntentPrint})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hd.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	return dst
}

func TestTestCasesRoundTrip(t *testing.T) {
	for _, tc := range testcases.All["stroke"] {
		t.Run(tc.Name, func(t *testing.T) {
			l := tc.OperatorList()
			l.LastChunk = true

			c, err := EncodeList(l)
			if err != nil {
				t.Fatal(err)
			}
			data, err := json.Marshal(c)
			if err != nil {
				t.Fatal(err)
			}
			var c2 Chunk
			if err := json.Unmarshal(data, &c2); err != nil {
				t.Fatal(err)
			}
			l2, err := DecodeChunk(&c2)
			if err != nil {
				t.Fatal(err)
			}

			if d := cmp.Diff(l.Ops, l2.Ops); d != "" {
				t.Fatalf("opcodes differ (-want +got):\n%s", d)
			}
			want := renderList(t, l, tc.Width, tc.Height)
			got := renderList(t, l2, tc.Width, tc.Height)
			if !bytes.Equal(want.Pix, got.Pix) {
				t.Error("rendered pixels differ")
			}
		})
	}
}
