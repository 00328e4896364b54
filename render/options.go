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
	"time"

	"seehuhn.de/go/pagerender/pattern"
	"seehuhn.de/go/pagerender/softmask"
	"seehuhn.de/go/pagerender/surface"
)

// Option configures an [Engine] during creation.
//
// Example:
//
//	// Default settings: CPU compositing, 15ms time slices
//	e := render.NewEngine()
//
//	// Share scratch surfaces with another engine
//	e := render.NewEngine(render.WithPool(pool))
type Option func(*options)

// options holds the configuration of an Engine.
type options struct {
	pool           *surface.Pool
	backend        softmask.Backend
	device         softmask.Device
	timeSlice      time.Duration
	stepsPerCheck  int
	maxGroupSize   int
	maxPatternSize int
	frameInterval  time.Duration
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		pool:           nil, // a private pool is created
		backend:        nil, // selected by softmask.Probe
		timeSlice:      15 * time.Millisecond,
		stepsPerCheck:  10,
		maxGroupSize:   softmask.MaxGroupSize,
		maxPatternSize: pattern.MaxPatternSize,
		frameInterval:  16 * time.Millisecond,
	}
}

// WithPool sets the pool for scratch surfaces.  Engines may share a pool.
func WithPool(p *surface.Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithBackend sets the soft mask compositing backend.  This takes
// precedence over [WithGPUDevice].
//
// Example:
//
//	e := render.NewEngine(render.WithBackend(softmask.CPUBackend{}))
func WithBackend(b softmask.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithGPUDevice makes the engine compose soft masks on a GPU device,
// falling back to the CPU if the device fails.
func WithGPUDevice(dev softmask.Device) Option {
	return func(o *options) {
		o.device = dev
	}
}

// WithTimeSlice sets how long a task may run before it yields to other
// tasks.  Zero disables time slicing.
func WithTimeSlice(d time.Duration) Option {
	return func(o *options) {
		o.timeSlice = d
	}
}

// WithStepsPerCheck sets how many operators run between two clock checks.
func WithStepsPerCheck(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.stepsPerCheck = n
		}
	}
}

// WithMaxGroupSize limits the width and height of group scratch surfaces.
// Larger groups are drawn at reduced resolution.
func WithMaxGroupSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxGroupSize = n
		}
	}
}

// WithMaxPatternSize limits the size of pattern tiles and mesh bitmaps.
func WithMaxPatternSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPatternSize = n
		}
	}
}

// WithFrameInterval sets the frame period used to schedule display
// tasks.  Print tasks are continued immediately.
func WithFrameInterval(d time.Duration) Option {
	return func(o *options) {
		o.frameInterval = d
	}
}
