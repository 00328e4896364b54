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
	"bytes"
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pagerender/oplist"
	"seehuhn.de/go/pagerender/resource"
	"seehuhn.de/go/pagerender/softmask"
	"seehuhn.de/go/pagerender/surface"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithBackend(softmask.CPUBackend{})}, opts...)
	e := NewEngine(opts...)
	t.Cleanup(e.Close)
	return e
}

func wait(t *testing.T, h *Handle) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := h.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("task did not complete")
	}
	return err
}

// scene is a page with enough operators to be stepped in several slices.
func scene() *oplist.List {
	b := &oplist.Builder{}
	for i := range 8 {
		x := float64(2 * i)
		b.Save()
		b.SetFillRGB(uint8(30*i), 0, 255-uint8(30*i))
		b.Rectangle(x, x, 6, 6).Fill()
		b.SetStrokeRGB(0, 200, 0).SetLineWidth(0.5)
		b.MoveTo(x, 0).LineTo(20, 20-x).Stroke()
		b.Restore()
	}
	return b.List()
}

func TestEngineRedSquare(t *testing.T) {
	e := newTestEngine(t)
	b := &oplist.Builder{}
	b.SetFillRGB(255, 0, 0).Rectangle(5, 5, 10, 10).Fill()
	dst := surface.New(20, 20)

	h, err := e.Render(context.Background(), b.List(), dst, Params{Intent: IntentPrint})
	if err != nil {
		t.Fatal(err)
	}
	if err := wait(t, h); err != nil {
		t.Fatal(err)
	}
	if got := dst.RGBAAt(10, 10); got != red {
		t.Errorf("got %v, want %v", got, red)
	}
	if got := dst.RGBAAt(2, 2); got != transparent {
		t.Errorf("got %v, want transparent", got)
	}
}

func TestChunksMatchSingleList(t *testing.T) {
	whole := scene()

	e := newTestEngine(t)
	want := surface.New(20, 20)
	h, err := e.Render(context.Background(), whole, want, Params{Intent: IntentPrint})
	if err != nil {
		t.Fatal(err)
	}
	if err := wait(t, h); err != nil {
		t.Fatal(err)
	}

	// tiny time slices force many yields
	e2 := newTestEngine(t, WithTimeSlice(time.Nanosecond), WithStepsPerCheck(1),
		WithFrameInterval(time.Millisecond))
	chunks := whole.Split(5, 17, 40)
	got := surface.New(20, 20)
	h, err = e2.Render(context.Background(), chunks[0], got, Params{Intent: IntentDisplay})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range chunks[1:] {
		h.Append(c)
	}
	if err := wait(t, h); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(want.Pix, got.Pix) {
		t.Error("chunked rendering differs from rendering the whole list")
	}
}

func TestSurfaceInUse(t *testing.T) {
	e := newTestEngine(t)
	objs := resource.NewStore()
	b := &oplist.Builder{}
	b.Dependency("never").Rectangle(0, 0, 1, 1).Fill()
	dst := surface.New(4, 4)

	h, err := e.Render(context.Background(), b.List(), dst, Params{Intent: IntentPrint, Objects: objs})
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Render(context.Background(), b.List(), dst, Params{Intent: IntentPrint, Objects: objs})
	if !errors.Is(err, ErrSurfaceInUse) {
		t.Errorf("second task: got %v, want ErrSurfaceInUse", err)
	}

	// another surface is fine
	h2, err := e.Render(context.Background(), (&oplist.Builder{}).List(), surface.New(4, 4), Params{})
	if err != nil {
		t.Fatal(err)
	}
	if err := wait(t, h2); err != nil {
		t.Error(err)
	}
	h.Cancel(nil)
	wait(t, h)
}

func TestCancelReleasesClaim(t *testing.T) {
	pool := surface.NewPool()
	e := newTestEngine(t, WithPool(pool))
	objs := resource.NewStore()

	b := &oplist.Builder{}
	b.Add(oplist.BeginGroup, &softmask.Group{BBox: rect.Rect{URx: 8, URy: 8}})
	b.Dependency("never")
	b.Rectangle(0, 0, 1, 1).Fill()
	b.Add(oplist.EndGroup)
	dst := surface.New(8, 8)

	h, err := e.Render(context.Background(), b.List(), dst, Params{Intent: IntentPrint, Objects: objs})
	if err != nil {
		t.Fatal(err)
	}
	reason := errors.New("page scrolled away")
	h.Cancel(reason)
	err = wait(t, h)

	var ce *CancelledError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want a CancelledError", err)
	}
	if !errors.Is(err, reason) {
		t.Errorf("error %v does not wrap the reason", err)
	}
	if n := pool.InUse(); n != 0 {
		t.Errorf("%d scratch surfaces not returned", n)
	}

	h, err = e.Render(context.Background(), (&oplist.Builder{}).List(), dst, Params{Intent: IntentPrint})
	if err != nil {
		t.Fatalf("surface still claimed: %v", err)
	}
	if err := wait(t, h); err != nil {
		t.Error(err)
	}
}

func TestRenderRightAfterCancel(t *testing.T) {
	e := newTestEngine(t)
	objs := resource.NewStore()
	dst := surface.New(8, 8)

	b := &oplist.Builder{}
	b.Dependency("never")
	b.SetFillRGB(0, 0, 255).Rectangle(0, 0, 8, 8).Fill()
	h1, err := e.Render(context.Background(), b.List(), dst, Params{Intent: IntentPrint, Objects: objs})
	if err != nil {
		t.Fatal(err)
	}
	h1.Cancel(nil)

	// no Wait between Cancel and the next Render
	b = &oplist.Builder{}
	b.SetFillRGB(255, 0, 0).Rectangle(0, 0, 8, 8).Fill()
	h2, err := e.Render(context.Background(), b.List(), dst, Params{Intent: IntentPrint})
	if err != nil {
		t.Fatalf("surface still claimed after Cancel: %v", err)
	}

	var ce *CancelledError
	if err := wait(t, h1); !errors.As(err, &ce) {
		t.Errorf("first task: got %v, want a CancelledError", err)
	}
	if err := wait(t, h2); err != nil {
		t.Fatal(err)
	}
	if got := dst.RGBAAt(4, 4); got != red {
		t.Errorf("got %v, want %v", got, red)
	}
}

func TestRenderNilTarget(t *testing.T) {
	e := newTestEngine(t)
	h, err := e.Render(context.Background(), (&oplist.Builder{}).List(), nil, Params{})
	if err == nil || h != nil {
		t.Errorf("got (%v, %v), want an error", h, err)
	}
}

func TestContextCancel(t *testing.T) {
	e := newTestEngine(t)
	b := &oplist.Builder{}
	b.Dependency("never")
	ctx, cancel := context.WithCancel(context.Background())
	h, err := e.Render(ctx, b.List(), surface.New(2, 2), Params{Objects: resource.NewStore()})
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	err = wait(t, h)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestDependencyResume(t *testing.T) {
	e := newTestEngine(t)
	objs := resource.NewStore()
	shared := resource.NewStore()

	b := &oplist.Builder{}
	b.Dependency("img1", "g_font")
	b.SetFillRGB(255, 0, 0).Rectangle(0, 0, 2, 2).Fill()
	dst := surface.New(2, 2)

	h, err := e.Render(context.Background(), b.List(), dst, Params{
		Intent:        IntentPrint,
		Objects:       objs,
		CommonObjects: shared,
	})
	if err != nil {
		t.Fatal(err)
	}

	objs.Resolve("img1", nil)
	select {
	case <-h.Done():
		t.Fatal("task completed before all resources arrived")
	case <-time.After(20 * time.Millisecond):
	}

	shared.Resolve("g_font", nil)
	if err := wait(t, h); err != nil {
		t.Fatal(err)
	}
	if got := dst.RGBAAt(1, 1); got != red {
		t.Errorf("got %v, want %v", got, red)
	}
}

func TestOperatorListGrows(t *testing.T) {
	e := newTestEngine(t)
	first := (&oplist.Builder{}).SetFillRGB(255, 0, 0).List()
	first.LastChunk = false
	dst := surface.New(2, 2)

	h, err := e.Render(context.Background(), first, dst, Params{Intent: IntentPrint})
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	h.OnComplete(func(err error) { done <- err })

	select {
	case <-h.Done():
		t.Fatal("task completed before the last chunk")
	case <-time.After(20 * time.Millisecond):
	}

	h.Append((&oplist.Builder{}).Rectangle(0, 0, 2, 2).Fill().List())
	if err := wait(t, h); err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Errorf("OnComplete: %v", err)
	}
	if got := dst.RGBAAt(0, 0); got != red {
		t.Errorf("got %v, want %v", got, red)
	}
}

func TestOnContinue(t *testing.T) {
	e := newTestEngine(t, WithTimeSlice(time.Nanosecond), WithStepsPerCheck(1))
	dst := surface.New(20, 20)
	h, err := e.Render(context.Background(), scene(), dst, Params{Intent: IntentDisplay})
	if err != nil {
		t.Fatal(err)
	}
	conts := make(chan func(), 100)
	h.OnContinue(func(cont func()) { conts <- cont })

	timeout := time.After(10 * time.Second)
	n := 0
	for {
		select {
		case cont := <-conts:
			n++
			cont()
			continue
		case <-h.Done():
		case <-timeout:
			t.Fatal("task did not complete")
		}
		break
	}
	if err := h.Err(); err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Error("scheduler never called")
	}
}

func TestViewport(t *testing.T) {
	p := Params{Viewport: &rect.Rect{LLx: 0, LLy: 0, URx: 200, URy: 100}}
	m := p.baseTransform(400, 200)
	want := matrix.Matrix{2, 0, 0, -2, 0, 200}
	for i := range m {
		if d := m[i] - want[i]; d > 1e-9 || d < -1e-9 {
			t.Fatalf("got %v, want %v", m, want)
		}
	}
}

func TestBackgroundParam(t *testing.T) {
	e := newTestEngine(t)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	dst := surface.New(2, 2)
	h, err := e.Render(context.Background(), (&oplist.Builder{}).List(), dst, Params{Background: &white})
	if err != nil {
		t.Fatal(err)
	}
	if err := wait(t, h); err != nil {
		t.Fatal(err)
	}
	if got := dst.RGBAAt(0, 0); got != white {
		t.Errorf("got %v, want %v", got, white)
	}
}
