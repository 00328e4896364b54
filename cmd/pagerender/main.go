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

// Pagerender renders a page given as a JSON wire document into a PNG file.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"time"

	"seehuhn.de/go/pagerender/render"
	"seehuhn.de/go/pagerender/resource"
	"seehuhn.de/go/pagerender/surface"
	"seehuhn.de/go/pagerender/wire"
)

func main() {
	verbose := flag.Bool("v", false, "log rendering problems to stderr")
	timeout := flag.Duration("timeout", time.Minute, "maximum rendering time")
	slice := flag.Duration("slice", 15*time.Millisecond, "time slice of a rendering step")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Printf("Usage: %s [options] page.json output.png\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputFile := flag.Arg(0)
	outputFile := flag.Arg(1)

	if *verbose {
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	f, err := os.Open(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
		os.Exit(1)
	}
	page, err := wire.ReadPage(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading page: %v\n", err)
		os.Exit(1)
	}

	dst, err := renderPage(page, *timeout, *slice)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering page: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	err = png.Encode(out, dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully rendered %s to %s\n", inputFile, outputFile)
}

func renderPage(page *wire.Page, timeout, slice time.Duration) (*surface.Surface, error) {
	lists, err := page.Lists()
	if err != nil {
		return nil, err
	}
	pool := resource.NewPool()
	if err := page.Load(pool); err != nil {
		return nil, err
	}

	p := render.Params{
		Objects:         pool.Page,
		CommonObjects:   pool.Shared,
		OptionalContent: page.OptionalContent,
	}
	if m, ok := page.Matrix(); ok {
		p.BaseTransform = m
	} else if r, ok := page.Rect(); ok {
		p.Viewport = r
	}
	if page.Intent == "print" {
		p.Intent = render.IntentPrint
	}
	if page.Background != nil {
		bg := color.RGBA(*page.Background)
		p.Background = &bg
	}

	e := render.NewEngine(render.WithTimeSlice(slice))
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	dst := surface.New(page.Width, page.Height)
	h, err := e.Render(ctx, lists[0], dst, p)
	if err != nil {
		return nil, err
	}
	for _, l := range lists[1:] {
		h.Append(l)
	}
	if err := h.Wait(ctx); err != nil {
		return nil, err
	}
	return dst, nil
}
