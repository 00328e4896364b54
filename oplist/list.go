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

// List is a sequence of operators with their arguments.
//
// Ops and Args always have the same length.  The list only ever grows at
// the end; operators already in the list are never reordered or removed.
type List struct {
	Ops  []OpCode
	Args [][]any

	// LastChunk is set once the producer has delivered all operators.
	LastChunk bool
}

// Len returns the number of operators currently in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Ops)
}

// Add appends a single operator.
func (l *List) Add(op OpCode, args ...any) {
	l.Ops = append(l.Ops, op)
	l.Args = append(l.Args, args)
}

// Append adds the operators of chunk to the end of l.  The LastChunk flag
// of l is taken from chunk.
func (l *List) Append(chunk *List) {
	l.Ops = append(l.Ops, chunk.Ops...)
	l.Args = append(l.Args, chunk.Args...)
	l.LastChunk = chunk.LastChunk
}

// Split divides the list into consecutive chunks, breaking before each of
// the given positions.  Only the final chunk carries the LastChunk flag of
// l.  Positions must be increasing and within [0, l.Len()].
func (l *List) Split(at ...int) []*List {
	var res []*List
	start := 0
	for _, pos := range at {
		res = append(res, &List{
			Ops:  l.Ops[start:pos:pos],
			Args: l.Args[start:pos:pos],
		})
		start = pos
	}
	res = append(res, &List{
		Ops:       l.Ops[start:],
		Args:      l.Args[start:],
		LastChunk: l.LastChunk,
	})
	return res
}
