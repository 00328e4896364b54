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

// Package render draws operator lists onto raster surfaces.
//
// An [Engine] runs render tasks cooperatively on a single event loop
// goroutine.  Each task interprets one operator list, which may still be
// growing while the task runs, onto one target surface.  A task yields
// to other tasks when its time slice is used up, and suspends while a
// resource it depends on has not arrived yet.
//
// Example:
//
//	e := render.NewEngine()
//	defer e.Close()
//	h, err := e.Render(ctx, list, surface.New(600, 800), render.Params{
//	    BaseTransform: matrix.Matrix{1, 0, 0, -1, 0, 800},
//	    Intent:        render.IntentPrint,
//	})
//	if err != nil {
//	    return err
//	}
//	err = h.Wait(ctx)
package render

import (
	"context"
	"fmt"
	"image/color"
	"sync"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pagerender/internal/logger"
	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/resource"
	"seehuhn.de/go/pagerender/softmask"
	"seehuhn.de/go/pagerender/surface"
)

// Intent selects how a task is scheduled.
type Intent uint8

const (
	// IntentDisplay continues tasks at frame boundaries.
	IntentDisplay Intent = iota

	// IntentPrint continues tasks immediately.
	IntentPrint
)

func (i Intent) String() string {
	switch i {
	case IntentDisplay:
		return "display"
	case IntentPrint:
		return "print"
	default:
		return fmt.Sprintf("Intent(%d)", uint8(i))
	}
}

// Params describes one render task.
type Params struct {
	// BaseTransform maps the default user space of the page to target
	// pixels.  If it is zero and Viewport is set, the viewport is mapped
	// onto the whole target with the y axis pointing down.  Otherwise
	// the zero value stands for the identity.
	BaseTransform matrix.Matrix

	// Viewport is the visible area of the page, in default user space.
	Viewport *rect.Rect

	Intent Intent

	// Background, if set, is painted onto the target first.
	Background *color.RGBA

	// Objects holds the page resources, CommonObjects the resources
	// shared between pages (ids starting with "g_").  Either may be nil.
	Objects       *resource.Store
	CommonObjects *resource.Store

	// OptionalContent maps optional content group ids to their
	// visibility.  Unlisted groups are visible.
	OptionalContent map[string]bool
}

// baseTransform returns the effective base transform for a target of
// size w×h.
func (p *Params) baseTransform(w, h int) matrix.Matrix {
	if p.BaseTransform != (matrix.Matrix{}) {
		return p.BaseTransform
	}
	v := p.Viewport
	if v == nil || v.URx == v.LLx || v.URy == v.LLy {
		return matrix.Identity
	}
	sx := float64(w) / (v.URx - v.LLx)
	sy := float64(h) / (v.URy - v.LLy)
	return matrix.Translate(-v.LLx, -v.URy).Mul(matrix.Scale(sx, -sy))
}

// Engine runs render tasks.  An Engine is safe for concurrent use.
type Engine struct {
	opts    options
	loop    *Loop
	backend softmask.Backend

	mu     sync.Mutex
	claims map[*surface.Surface]*task
}

// NewEngine returns a new engine.  Call Close to stop its event loop.
func NewEngine(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.pool == nil {
		o.pool = surface.NewPool()
	}
	backend := o.backend
	if backend == nil {
		backend = softmask.Probe(o.device)
	}
	return &Engine{
		opts:    o,
		loop:    NewLoop(),
		backend: backend,
		claims:  make(map[*surface.Surface]*task),
	}
}

// Close cancels all running tasks and stops the event loop.
func (e *Engine) Close() {
	e.mu.Lock()
	tasks := make([]*task, 0, len(e.claims))
	for _, t := range e.claims {
		tasks = append(tasks, t)
	}
	e.mu.Unlock()

	for _, t := range tasks {
		t.handle.Cancel(errEngineClosed)
	}
	e.loop.Close()
}

// Render starts drawing list onto target.  The list may be incomplete;
// further chunks are added with [Handle.Append].  While the task runs,
// no other task may use the same target, and Render returns an error
// wrapping [ErrSurfaceInUse].
//
// Cancelling ctx cancels the task.
func (e *Engine) Render(ctx context.Context, list *oplist.List, target *surface.Surface, p Params) (*Handle, error) {
	if target == nil {
		return nil, errNoTarget
	}
	if list == nil {
		list = &oplist.List{}
	}

	e.mu.Lock()
	if _, busy := e.claims[target]; busy {
		e.mu.Unlock()
		return nil, fmt.Errorf("render %dx%d surface: %w", target.Width(), target.Height(), ErrSurfaceInUse)
	}
	t := newTask(e, list, target, &p)
	e.claims[target] = t
	e.mu.Unlock()

	logger.Get().Info("render task started",
		"ops", list.Len(), "intent", p.Intent.String(), "backend", e.backend.Name())

	if ctx.Done() != nil {
		t.stopCtx = context.AfterFunc(ctx, func() {
			t.handle.Cancel(context.Cause(ctx))
		})
	}
	e.loop.Post(t.start)
	return t.handle, nil
}

// release drops the claim of t on its target.  Calling release more
// than once is harmless.
func (e *Engine) release(t *task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.claims[t.target] == t {
		delete(e.claims, t.target)
	}
}
