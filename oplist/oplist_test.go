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

package oplist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOpCodeNames(t *testing.T) {
	if NumOpCodes != 91 {
		t.Fatalf("NumOpCodes = %d, want 91", NumOpCodes)
	}
	seen := make(map[string]bool)
	for i := 1; i <= NumOpCodes; i++ {
		op := OpCode(i)
		name := op.String()
		if name == "" || seen[name] {
			t.Errorf("opcode %d: bad or duplicate name %q", i, name)
		}
		seen[name] = true

		back, ok := ParseOpCode(name)
		if !ok || back != op {
			t.Errorf("ParseOpCode(%q) = %d, %t", name, back, ok)
		}
	}

	if OpCode(0).Valid() || OpCode(NumOpCodes+1).Valid() {
		t.Error("out of range opcodes reported as valid")
	}
	if got := OpCode(200).String(); got != "OpCode(200)" {
		t.Errorf("unexpected name %q", got)
	}
	if Dependency != 1 || ConstructPath != 91 {
		t.Errorf("enumeration shifted: dependency=%d constructPath=%d", Dependency, ConstructPath)
	}
}

func TestSplitAppend(t *testing.T) {
	b := &Builder{}
	b.MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10).ClosePath()
	b.SetFillRGB(255, 0, 0).Fill()
	full := b.List()

	for _, at := range [][]int{{0}, {3}, {1, 4}, {6}} {
		var got List
		for _, chunk := range full.Split(at...) {
			got.Append(chunk)
		}
		if d := cmp.Diff(full, &got); d != "" {
			t.Errorf("split at %v (-want +got):\n%s", at, d)
		}
	}
}

func TestSplitLastChunk(t *testing.T) {
	l := (&Builder{}).Save().Restore().Save().Restore().List()
	chunks := l.Split(1, 3)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		want := i == len(chunks)-1
		if c.LastChunk != want {
			t.Errorf("chunk %d: LastChunk = %t", i, c.LastChunk)
		}
	}

	// appending to an earlier chunk must not overwrite later operators
	chunks[0].Add(EndPath)
	if l.Ops[1] != Restore {
		t.Error("chunk shares its tail with the original list")
	}
}

func TestNilLen(t *testing.T) {
	var l *List
	if l.Len() != 0 {
		t.Error("nil list has operators")
	}
}

func TestBuilderArgs(t *testing.T) {
	l := (&Builder{}).Dependency("img_1", "g_font_2").SetFillRGB(1, 2, 3).List()
	want := [][]any{
		{"img_1", "g_font_2"},
		{1.0, 2.0, 3.0},
	}
	if d := cmp.Diff(want, l.Args); d != "" {
		t.Errorf("arguments (-want +got):\n%s", d)
	}
	if !l.LastChunk {
		t.Error("built list is not complete")
	}
}
