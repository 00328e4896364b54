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

package render

import (
	"errors"
	"image/color"
	"time"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pagerender/internal/logger"
	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/pattern"
	"seehuhn.de/go/pagerender/resource"
	"seehuhn.de/go/pagerender/shape"
	"seehuhn.de/go/pagerender/softmask"
	"seehuhn.de/go/pagerender/state"
	"seehuhn.de/go/pagerender/surface"
	"seehuhn.de/go/pagerender/text"
)

// chunkThreshold is the number of remaining operators above which an
// interpreter with a continuation checks its deadline.
const chunkThreshold = 10

// maxNesting limits the nesting of Type3 glyphs and pattern cells.
const maxNesting = 8

// Deadline limits the work done by one call to [Interpreter.Step].
type Deadline struct {
	// Steps is the number of operators between two clock checks.
	Steps int

	// Until is the time after which Step yields.  The zero value never
	// yields.
	Until time.Time
}

// Config holds the parameters of an [Interpreter].
type Config struct {
	// BaseTransform maps the default user space of the page to the
	// pixels of the target.  The zero value stands for the identity.
	BaseTransform matrix.Matrix

	// Resources holds the objects named by the operator list.
	Resources *resource.Pool

	// Pool provides scratch surfaces.  If nil, a private pool is used.
	Pool *surface.Pool

	// Backend composes soft masks.  If nil, the CPU is used.
	Backend softmask.Backend

	MaxGroupSize   int
	MaxPatternSize int

	// OptionalContent gives the visibility of optional content groups by
	// id.  Groups not listed are visible.
	OptionalContent map[string]bool

	// Background, if set, is painted before the first operator.
	Background *color.RGBA
}

// Interpreter executes operator lists on a target surface.  An
// Interpreter is used by one task at a time.
type Interpreter struct {
	cfg      Config
	page     *surface.Surface
	target   *surface.Surface
	stack    *state.Stack
	path     shape.Builder
	painter  *shape.Painter
	text     text.Renderer
	patterns pattern.Resolver
	pool     *surface.Pool
	backend  softmask.Backend

	groups    []*groupFrame
	bases     []matrix.Matrix // pattern space of open forms and groups
	mask      *maskMode
	tempSMask *softmask.SoftMask
	masks     []*softmask.SoftMask // finished mask groups still checked out
	maskCount int
	checkouts []checkout

	// marked content visibility, innermost last
	visible []bool
	hidden  int

	// forced is the colour of an uncolored tiling cell.
	forced *color.RGBA
	depth  int

	warned map[oplist.OpCode]bool
}

type checkout struct {
	key string
	s   *surface.Surface
}

// NewInterpreter returns an interpreter which draws onto target.
func NewInterpreter(target *surface.Surface, cfg Config) *Interpreter {
	base := cfg.BaseTransform
	if base == (matrix.Matrix{}) {
		base = matrix.Identity
		cfg.BaseTransform = base
	}
	if cfg.Pool == nil {
		cfg.Pool = surface.NewPool()
	}
	if cfg.Backend == nil {
		cfg.Backend = softmask.CPUBackend{}
	}
	if cfg.MaxGroupSize <= 0 {
		cfg.MaxGroupSize = softmask.MaxGroupSize
	}
	if cfg.MaxPatternSize <= 0 {
		cfg.MaxPatternSize = pattern.MaxPatternSize
	}
	in := &Interpreter{
		cfg:     cfg,
		page:    target,
		target:  target,
		stack:   state.NewStack(state.New(base)),
		painter: shape.NewPainter(),
		pool:    cfg.Pool,
		backend: cfg.Backend,
		warned:  make(map[oplist.OpCode]bool),
	}
	in.patterns = pattern.Resolver{
		MaxSize: cfg.MaxPatternSize,
		Painter: in,
		Pool:    cfg.Pool,
	}
	return in
}

// Begin prepares the target for drawing.
func (in *Interpreter) Begin() {
	if bg := in.cfg.Background; bg != nil {
		in.page.Fill(surface.Premultiply(bg.R, bg.G, bg.B, bg.A))
	}
}

// Step executes operators of list, starting at index start.  It returns
// the index of the first operator not yet executed.
//
// If a dependency is not resolved yet, cont is registered with its future
// and Step returns the index of the dependency operator.  If more than
// chunkThreshold operators remain and the deadline passes, Step calls
// cont itself and returns.  Without a continuation, dependencies are
// assumed to be resolved and Step always runs to the end of the list.
func (in *Interpreter) Step(list *oplist.List, start int, cont func(), dl Deadline) (int, error) {
	n := list.Len()
	i := start
	if i >= n {
		return n, nil
	}

	chunked := cont != nil && n-i > chunkThreshold && !dl.Until.IsZero()
	perCheck := max(dl.Steps, 1)
	steps := 0
	for {
		op := list.Ops[i]
		args := list.Args[i]
		if op == oplist.Dependency {
			if cont != nil && !in.resolved(args, cont) {
				return i, nil
			}
		} else if err := in.exec(op, args); err != nil {
			return i, &TaskError{Index: i, Op: op, Err: err}
		}
		i++

		if i == n {
			return i, nil
		}
		if chunked {
			steps++
			if steps >= perCheck {
				steps = 0
				if time.Now().After(dl.Until) {
					cont()
					return i, nil
				}
			}
		}
	}
}

// resolved checks the ids of a dependency operator.  The continuation is
// registered with the first unresolved id.  Ids of a missing store count
// as resolved.
func (in *Interpreter) resolved(args []any, cont func()) bool {
	if in.cfg.Resources == nil {
		return true
	}
	for _, a := range args {
		id, ok := a.(string)
		if !ok {
			continue
		}
		s := in.cfg.Resources.For(id)
		if s != nil && !s.Then(id, cont) {
			return false
		}
	}
	return true
}

// run executes a complete operator list, for Type3 glyphs and pattern
// cells.
func (in *Interpreter) run(list *oplist.List) error {
	_, err := in.Step(list, 0, nil, Deadline{})
	return err
}

// exec runs a single operator.  Only fatal errors are returned; other
// problems are logged and the operator is skipped.
func (in *Interpreter) exec(op oplist.OpCode, args []any) error {
	var h handler
	if op.Valid() {
		h = handlers[op]
	}
	if h == nil {
		if !in.warned[op] {
			in.warned[op] = true
			logger.Get().Debug("operator not implemented", "op", op.String())
		}
		return nil
	}
	err := h(in, args)
	if err == nil {
		return nil
	}
	var f *fatalError
	if errors.As(err, &f) {
		return f.err
	}
	logger.Get().Warn("operator skipped", "op", op.String(), "error", err)
	return nil
}

// End finishes drawing: open groups and soft masks are composited, the
// graphics state stack is unwound and all scratch surfaces are returned
// to the pool.
func (in *Interpreter) End() {
	if len(in.groups) > 0 {
		logger.Get().Warn("unterminated transparency groups", "count", len(in.groups))
	}
	for len(in.groups) > 0 {
		in.endGroup()
	}
	if in.mask != nil {
		in.endMaskMode()
	}
	in.stack.Unwind()
	in.release()
}

// Abort stops drawing without compositing open groups and masks.
func (in *Interpreter) Abort() {
	in.groups = nil
	in.mask = nil
	in.target = in.page
	in.stack.Unwind()
	in.release()
}

func (in *Interpreter) release() {
	in.patterns.Release()
	for _, c := range in.checkouts {
		in.pool.Put(c.key, c.s)
	}
	clear(in.checkouts)
	in.checkouts = in.checkouts[:0]
	in.bases = in.bases[:0]
	clear(in.masks)
	in.masks = in.masks[:0]
	in.tempSMask = nil
	in.path.Reset()
}

// get checks out a scratch surface.
func (in *Interpreter) get(key string, w, h int) *surface.Surface {
	s := in.pool.Get(key, w, h)
	in.checkouts = append(in.checkouts, checkout{key: key, s: s})
	return s
}

// put returns a scratch surface before the end of the task.
func (in *Interpreter) put(s *surface.Surface) {
	for i, c := range in.checkouts {
		if c.s == s {
			in.pool.Put(c.key, s)
			in.checkouts = append(in.checkouts[:i], in.checkouts[i+1:]...)
			return
		}
	}
}

// dropUnusedMasks returns the surfaces of finished mask groups which are
// neither pending nor referenced by a graphics state.
func (in *Interpreter) dropUnusedMasks() {
	used := func(m *softmask.SoftMask) bool {
		if m == in.tempSMask || in.mask != nil && in.mask.mask == m {
			return true
		}
		for gs := range in.stack.All() {
			if gs.SMask == m {
				return true
			}
		}
		return false
	}

	keep := in.masks[:0]
	for _, m := range in.masks {
		if used(m) {
			keep = append(keep, m)
		} else {
			in.put(m.Surface)
		}
	}
	clear(in.masks[len(keep):])
	in.masks = keep
}

// gs returns the current graphics state.
func (in *Interpreter) gs() *state.GraphicsState {
	return in.stack.Current()
}

// contentVisible reports whether painting operators have an effect.
func (in *Interpreter) contentVisible() bool {
	return in.hidden == 0
}

// patternSpace returns the matrix which maps pattern space to the
// pixels of the current target.  This is the base transform of the page,
// changed by the enclosing forms and groups.
func (in *Interpreter) patternSpace() matrix.Matrix {
	if n := len(in.bases); n > 0 {
		return in.bases[n-1]
	}
	return in.cfg.BaseTransform
}

// save pushes a copy of the graphics state.  An active soft mask stays
// active.
func (in *Interpreter) save() {
	in.stack.Save()
}

// restore pops the graphics state.  If the restored state has a
// different soft mask, the current mask layer is composited and the mask
// of the restored state, if any, becomes active.
func (in *Interpreter) restore() {
	if !in.stack.Restore() {
		return
	}
	gs := in.gs()
	if in.mask != nil && in.mask.mask != gs.SMask {
		in.endMaskMode()
	}
	if in.mask == nil && gs.SMask != nil {
		in.beginMaskMode(gs.SMask)
	}
}
