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

// Package resource holds the objects referenced by operator lists.
//
// Objects such as fonts and images are delivered asynchronously by the
// producer.  Each object id has a future which is resolved exactly once;
// callbacks registered before the resolution run when the value arrives.
package resource

import (
	"strings"
	"sync"
)

// SharedPrefix marks ids of objects which are shared between pages.
const SharedPrefix = "g_"

// IsShared reports whether id names a shared object.
func IsShared(id string) bool {
	return strings.HasPrefix(id, SharedPrefix)
}

type entry struct {
	done    bool
	value   any
	waiters []func()
}

// Store maps object ids to futures.  A Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

func (s *Store) get(id string) *entry {
	e := s.entries[id]
	if e == nil {
		e = &entry{}
		s.entries[id] = e
	}
	return e
}

// Resolve sets the value of id and runs the callbacks waiting for it.
// Resolving an id a second time replaces the value; callbacks only run
// once.
func (s *Store) Resolve(id string, value any) {
	s.mu.Lock()
	e := s.get(id)
	e.done = true
	e.value = value
	waiters := e.waiters
	e.waiters = nil
	s.mu.Unlock()

	for _, fn := range waiters {
		fn()
	}
}

// Has reports whether id has been resolved.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[id]
	return e != nil && e.done
}

// Get returns the value of id, if it has been resolved.
func (s *Store) Get(id string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[id]
	if e == nil || !e.done {
		return nil, false
	}
	return e.value, true
}

// Then registers fn to run when id is resolved.  If id is already
// resolved, fn is not registered and Then returns true.
func (s *Store) Then(id string, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(id)
	if e.done {
		return true
	}
	e.waiters = append(e.waiters, fn)
	return false
}

// Done returns a channel which is closed once id is resolved.
func (s *Store) Done(id string) <-chan struct{} {
	ch := make(chan struct{})
	if s.Then(id, func() { close(ch) }) {
		close(ch)
	}
	return ch
}

// Clear removes all entries.  Pending callbacks are dropped.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
}

// Pool combines the page-local and the shared object store.
type Pool struct {
	Page   *Store
	Shared *Store
}

// NewPool returns a pool with two empty stores.
func NewPool() *Pool {
	return &Pool{Page: NewStore(), Shared: NewStore()}
}

// For returns the store responsible for id.
func (p *Pool) For(id string) *Store {
	if IsShared(id) {
		return p.Shared
	}
	return p.Page
}
