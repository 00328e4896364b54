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
	"sync"

	"seehuhn.de/go/pagerender/internal/logger"
)

// maxFreePerKey limits how many idle surfaces are kept for each key.
const maxFreePerKey = 2

// Pool caches scratch surfaces between uses.  Surfaces are checked out
// with Get and returned with Put; a checked out surface is never handed
// out a second time.  The key names the purpose of a surface, for example
// "groupAt1" or "pattern", and only surfaces returned under the same key
// are reused.
//
// A Pool is safe for concurrent use.
type Pool struct {
	mu    sync.Mutex
	free  map[string][]*Surface
	inUse int
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{free: make(map[string][]*Surface)}
}

// Get returns a transparent surface of the given size.
func (p *Pool) Get(key string, width, height int) *Surface {
	width = max(width, 1)
	height = max(height, 1)

	p.mu.Lock()
	p.inUse++
	list := p.free[key]
	var s *Surface
	if n := len(list); n > 0 {
		s = list[n-1]
		list[n-1] = nil
		p.free[key] = list[:n-1]
	}
	p.mu.Unlock()

	if s == nil {
		logger.Get().Debug("allocating scratch surface",
			"key", key, "width", width, "height", height)
		return New(width, height)
	}
	s.resize(width, height)
	return s
}

// Put returns a surface obtained from Get.  The caller must not use s
// afterwards.
func (p *Pool) Put(key string, s *Surface) {
	if s == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inUse--
	if len(p.free[key]) < maxFreePerKey {
		p.free[key] = append(p.free[key], s)
	}
}

// InUse returns the number of surfaces currently checked out.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse
}

// Reset drops all idle surfaces.
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.free)
}
