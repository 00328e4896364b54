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

// Exportcases writes the shared test scenes as JSON wire documents, one
// file per scene, so that other renderers can be checked against them.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/pagerender/testcases"
	"seehuhn.de/go/pagerender/wire"
)

func main() {
	outDir := flag.String("o", "testdata/cases", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	n := 0
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name + ".json"
			if err := export(filepath.Join(*outDir, name), &tc); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting %s: %v\n", name, err)
				os.Exit(1)
			}
			n++
		}
	}
	fmt.Printf("Wrote %d test cases to %s\n", n, *outDir)
}

func export(fname string, tc *testcases.TestCase) error {
	l := tc.OperatorList()
	l.LastChunk = true
	c, err := wire.EncodeList(l)
	if err != nil {
		return err
	}
	page := &wire.Page{
		Width:  tc.Width,
		Height: tc.Height,
		Intent: "print",
		Chunks: []wire.Chunk{*c},
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	err = enc.Encode(page)
	if err2 := f.Close(); err == nil {
		err = err2
	}
	return err
}
