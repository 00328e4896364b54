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
	"fmt"

	"seehuhn.de/go/pagerender/oplist"
)

// ErrSurfaceInUse is returned by [Engine.Render] if another task is
// still drawing onto the same target surface.
var ErrSurfaceInUse = errors.New("render: target surface is used by another task")

// TaskError reports a fatal problem with one operator of a list.
type TaskError struct {
	Index int // position of the operator in the list
	Op    oplist.OpCode
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("render: operator %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// CancelledError is the result of a task which was cancelled with
// [Handle.Cancel].
type CancelledError struct {
	Reason error
}

func (e *CancelledError) Error() string {
	if e.Reason == nil {
		return "render: cancelled"
	}
	return "render: cancelled: " + e.Reason.Error()
}

func (e *CancelledError) Unwrap() error {
	return e.Reason
}

// fatalError marks a handler error which ends the task.  All other
// handler errors are logged and the operator is skipped.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }

func (e *fatalError) Unwrap() error { return e.err }

func fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

var (
	errBadGroup      = errors.New("malformed transparency group")
	errWrongResource = errors.New("wrong resource type")
	errNoTarget      = errors.New("render: no target surface")
)
