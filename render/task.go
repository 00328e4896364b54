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
	"context"
	"errors"
	"sync"
	"time"

	"seehuhn.de/go/pagerender/internal/logger"
	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/resource"
	"seehuhn.de/go/pagerender/surface"
)

var errEngineClosed = errors.New("render: engine closed")

// task is one render job.  Apart from the fields set in newTask, all
// fields are only used on the event loop.
type task struct {
	e       *Engine
	handle  *Handle
	target  *surface.Surface
	interp  *Interpreter
	intent  Intent
	stopCtx func() bool

	list      *oplist.List
	index     int
	running   bool // operators are being executed; false while waiting for a chunk
	scheduled bool // a continuation is pending
	finished  bool
	started   time.Time
}

func newTask(e *Engine, list *oplist.List, target *surface.Surface, p *Params) *task {
	var res *resource.Pool
	if p.Objects != nil || p.CommonObjects != nil {
		res = &resource.Pool{Page: p.Objects, Shared: p.CommonObjects}
	}
	in := NewInterpreter(target, Config{
		BaseTransform:   p.baseTransform(target.Width(), target.Height()),
		Resources:       res,
		Pool:            e.opts.pool,
		Backend:         e.backend,
		MaxGroupSize:    e.opts.maxGroupSize,
		MaxPatternSize:  e.opts.maxPatternSize,
		OptionalContent: p.OptionalContent,
		Background:      p.Background,
	})
	t := &task{
		e:      e,
		target: target,
		interp: in,
		intent: p.Intent,
		list:   list,
	}
	t.handle = &Handle{t: t, done: make(chan struct{})}
	return t
}

func (t *task) start() {
	if t.finished {
		return
	}
	t.started = time.Now()
	t.interp.Begin()
	t.running = true
	t.step()
}

// step runs operators until the list is exhausted, a dependency is
// missing, or the time slice is used up.
func (t *task) step() {
	t.scheduled = false
	if t.finished {
		return
	}
	if ok, reason := t.handle.cancelState(); ok {
		t.finish(&CancelledError{Reason: reason})
		return
	}

	dl := Deadline{Steps: t.e.opts.stepsPerCheck}
	if t.e.opts.timeSlice > 0 {
		dl.Until = time.Now().Add(t.e.opts.timeSlice)
	}
	idx, err := t.interp.Step(t.list, t.index, t.cont, dl)
	t.index = idx
	if err != nil {
		t.finish(err)
		return
	}
	if idx == t.list.Len() {
		t.running = false
		if t.list.LastChunk {
			t.interp.End()
			t.finish(nil)
		}
	}
}

// cont is the continuation passed to the interpreter.  It may be called
// from any goroutine.
func (t *task) cont() {
	t.e.loop.Post(t.resume)
}

// resume schedules the next step.
func (t *task) resume() {
	if t.finished || t.scheduled {
		return
	}
	t.scheduled = true
	if fn := t.handle.continuer(); fn != nil {
		fn(func() { t.e.loop.Post(t.step) })
		return
	}
	interval := t.e.opts.frameInterval
	if t.intent == IntentDisplay && interval > 0 {
		wait := interval - time.Since(t.started)%interval
		t.e.loop.PostAfter(wait, t.step)
		return
	}
	t.e.loop.Post(t.step)
}

// listChanged restarts a task which has run out of operators.
func (t *task) listChanged() {
	if t.finished || t.running {
		return
	}
	t.running = true
	t.resume()
}

func (t *task) cancelNow() {
	if t.finished {
		return
	}
	_, reason := t.handle.cancelState()
	t.finish(&CancelledError{Reason: reason})
}

// finish releases everything held by the task and completes the handle.
func (t *task) finish(err error) {
	t.finished = true
	if err != nil {
		t.interp.Abort()
	}
	if t.stopCtx != nil {
		t.stopCtx()
	}
	t.e.release(t)

	log := logger.Get()
	var ce *CancelledError
	switch {
	case err == nil:
		log.Info("render task finished", "ops", t.index, "elapsed", time.Since(t.started))
	case errors.As(err, &ce):
		log.Info("render task cancelled", "ops", t.index, "reason", ce.Reason)
	default:
		log.Warn("render task failed", "error", err)
	}
	t.handle.complete(err)
}

// Handle controls a running render task.  All methods are safe for
// concurrent use.
type Handle struct {
	t    *task
	done chan struct{}

	mu         sync.Mutex
	err        error
	completed  bool
	cancelled  bool
	reason     error
	onComplete func(error)
	onContinue func(cont func())
}

// Cancel stops the task at the next step.  The task then completes with
// a [*CancelledError] wrapping reason.  Cancelling a finished task has no
// effect.
//
// The target surface is free for a new task as soon as Cancel returns.
// Operators of the new task only run after the cancelled task has
// stopped.
func (h *Handle) Cancel(reason error) {
	h.mu.Lock()
	if h.completed || h.cancelled {
		h.mu.Unlock()
		return
	}
	h.cancelled = true
	h.reason = reason
	h.mu.Unlock()

	// cancelNow is queued before the start of any task which claims the
	// target after the release below.
	posted := h.t.e.loop.Post(h.t.cancelNow)
	h.t.e.release(h.t)
	if !posted {
		h.complete(&CancelledError{Reason: reason})
	}
}

func (h *Handle) cancelState() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled, h.reason
}

// OnContinue installs a scheduler for the task.  Whenever the task wants
// to continue, fn is called with a function which continues the task;
// fn decides when to call it.  Without a scheduler, display tasks are
// continued at the next frame boundary and print tasks immediately.
func (h *Handle) OnContinue(fn func(cont func())) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onContinue = fn
}

func (h *Handle) continuer() func(cont func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.onContinue
}

// Append adds a chunk of operators to the list of the task.
func (h *Handle) Append(chunk *oplist.List) {
	h.t.e.loop.Post(func() {
		if h.t.finished {
			return
		}
		h.t.list.Append(chunk)
		h.t.listChanged()
	})
}

// OperatorListChanged tells a task which has run out of operators that
// its list has grown.  Changes to the list must not race with the task;
// [Handle.Append] takes care of this.
func (h *Handle) OperatorListChanged() {
	h.t.e.loop.Post(h.t.listChanged)
}

// Done returns a channel which is closed when the task has completed.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the result of a completed task, or nil while the task runs.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Wait blocks until the task has completed or ctx is done.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnComplete registers fn to be called once with the result of the task.
// If the task has already completed, fn is called immediately.  Only the
// most recently registered function is called.  fn runs on the event
// loop and must not block.
func (h *Handle) OnComplete(fn func(error)) {
	h.mu.Lock()
	if h.completed {
		err := h.err
		h.mu.Unlock()
		fn(err)
		return
	}
	h.onComplete = fn
	h.mu.Unlock()
}

func (h *Handle) complete(err error) {
	h.mu.Lock()
	if h.completed {
		h.mu.Unlock()
		return
	}
	h.completed = true
	h.err = err
	fn := h.onComplete
	h.onComplete = nil
	h.mu.Unlock()

	close(h.done)
	if fn != nil {
		fn(err)
	}
}
