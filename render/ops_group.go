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
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"seehuhn.de/go/pagerender/internal/logger"
	"seehuhn.de/go/pagerender/raster"
	"seehuhn.de/go/pagerender/softmask"
	"seehuhn.de/go/pagerender/surface"
)

// groupFrame records an open transparency group.
type groupFrame struct {
	group   *softmask.Group
	geom    softmask.Geometry
	parent  *surface.Surface
	scratch *surface.Surface
	bases   int // length of Interpreter.bases before the group
}

// maskMode records an active soft mask.  Drawing goes to layer until the
// mask is deactivated.
type maskMode struct {
	mask   *softmask.SoftMask
	layer  *surface.Surface
	parent *surface.Surface
}

func opBeginGroup(in *Interpreter, args []any) error {
	g, ok := firstArg(args).(*softmask.Group)
	if !ok || g == nil {
		return fatal(fmt.Errorf("%w: got %T", errBadGroup, firstArg(args)))
	}
	for _, v := range []float64{g.BBox.LLx, g.BBox.LLy, g.BBox.URx, g.BBox.URy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fatal(fmt.Errorf("%w: non-finite bounding box", errBadGroup))
		}
	}
	if g.Knockout {
		logger.Get().Debug("knockout groups are drawn as normal groups")
	}
	in.beginGroup(g)
	return nil
}

func opEndGroup(in *Interpreter, _ []any) error {
	if len(in.groups) == 0 {
		return errors.New("endGroup without beginGroup")
	}
	in.endGroup()
	return nil
}

// beginGroup redirects drawing to a scratch surface covering the device
// space bounding box of g.
func (in *Interpreter) beginGroup(g *softmask.Group) {
	in.save()
	if in.mask != nil {
		in.endMaskMode()
		in.gs().SMask = nil
	}

	gs := in.gs()
	gm := g.Transform()
	geom := softmask.ComputeGeometry(g.BBox, gm, gs.CTM,
		in.target.Width(), in.target.Height(), in.cfg.MaxGroupSize)
	if geom.Scaled() {
		logger.Get().Debug("group drawn at reduced resolution",
			"scaleX", geom.ScaleX, "scaleY", geom.ScaleY)
	}

	key := fmt.Sprintf("groupAt%d", len(in.groups))
	if g.Mask != nil {
		key += fmt.Sprintf("_smask_%d", in.maskCount%2)
		in.maskCount++
	}
	scratch := in.get(key, geom.Width, geom.Height)

	in.groups = append(in.groups, &groupFrame{
		group:   g,
		geom:    geom,
		parent:  in.target,
		scratch: scratch,
		bases:   len(in.bases),
	})
	in.target = scratch
	in.bases = append(in.bases, in.patternSpace().Mul(geom.ToScratch()))

	in.stack.SetCTM(gm.Mul(gs.CTM).Mul(geom.ToScratch()))
	gs = in.gs()
	gs.Clip = nil
	gs.BlendMode = surface.BlendNormal
	gs.FillAlpha = 1
	gs.StrokeAlpha = 1
}

// endGroup closes the innermost group.  A mask group becomes the pending
// soft mask; other groups are composited onto the parent surface with
// the fill alpha, blend mode and clip in effect at beginGroup.
func (in *Interpreter) endGroup() {
	n := len(in.groups)
	f := in.groups[n-1]
	in.groups = in.groups[:n-1]
	in.bases = in.bases[:f.bases]

	if in.mask != nil {
		in.endMaskMode()
	}
	in.target = f.parent

	if f.group.Mask != nil {
		// the scratch surface stays checked out while the mask is in use
		m := softmask.NewSoftMask(f.scratch, f.geom, f.group.Mask)
		in.tempSMask = m
		in.masks = append(in.masks, m)
		in.restore()
		in.dropUnusedMasks()
		return
	}

	in.restore()
	gs := in.gs()
	paint := &surface.Paint{Alpha: gs.FillAlpha, Blend: gs.BlendMode, Clip: gs.Clip}
	src := f.scratch.RGBA
	if f.geom.Scaled() {
		w := int(math.Ceil(float64(f.geom.Width) * f.geom.ScaleX))
		h := int(math.Ceil(float64(f.geom.Height) * f.geom.ScaleY))
		big := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.ApproxBiLinear.Scale(big, big.Rect, src, src.Rect, xdraw.Src, nil)
		src = big
	}
	in.target.Draw(src, f.geom.OffsetX, f.geom.OffsetY, paint)
	in.put(f.scratch)
}

// beginMaskMode redirects drawing to a layer which is later composed
// through m.
func (in *Interpreter) beginMaskMode(m *softmask.SoftMask) {
	layer := in.get("smaskLayer", in.target.Width(), in.target.Height())
	in.mask = &maskMode{mask: m, layer: layer, parent: in.target}
	in.target = layer
}

// endMaskMode composes the layer through the mask and draws the result
// onto the surface which was the target before the mask was activated.
func (in *Interpreter) endMaskMode() {
	mm := in.mask
	in.mask = nil
	in.target = mm.parent

	if err := in.backend.Compose(mm.layer, mm.mask); err != nil {
		logger.Get().Warn("soft mask dropped", "backend", in.backend.Name(), "error", err)
	} else {
		in.target.Draw(mm.layer.RGBA, 0, 0, &surface.Paint{Alpha: 1})
	}
	in.put(mm.layer)
}

// opPaintFormXObjectBegin starts a form XObject: the arguments are the
// form matrix and bounding box, either of which may be nil.  Patterns
// used inside the form are relative to the form space.
func opPaintFormXObjectBegin(in *Interpreter, args []any) error {
	in.save()
	if len(args) > 0 {
		if m, ok := toMatrix(args[0]); ok {
			in.stack.Transform(m)
		}
	}
	in.bases = append(in.bases, in.gs().CTM)
	if len(args) > 1 {
		if bbox, ok := toRect(args[1]); ok {
			in.path.Rect(bbox.LLx, bbox.LLy, bbox.URx-bbox.LLx, bbox.URy-bbox.LLy)
			in.stack.SetPendingClip(raster.NonZero)
			in.consumePath()
		}
	}
	return nil
}

func opPaintFormXObjectEnd(in *Interpreter, _ []any) error {
	if n := len(in.bases); n > 0 {
		in.bases = in.bases[:n-1]
	}
	in.restore()
	return nil
}

func opBeginAnnotations(in *Interpreter, _ []any) error {
	in.save()
	return nil
}

func opEndAnnotations(in *Interpreter, _ []any) error {
	in.restore()
	return nil
}

// opBeginAnnotation starts an annotation appearance.  The arguments are
// the id, the annotation rectangle, the transform from the appearance
// bounding box to the rectangle, the appearance matrix and the
// hasOwnCanvas flag.  Annotations are always drawn onto the page.
func opBeginAnnotation(in *Interpreter, args []any) error {
	if len(args) < 4 {
		return errArgCount
	}
	in.save()
	if r, ok := toRect(args[1]); ok && r.URx > r.LLx && r.URy > r.LLy {
		in.path.Rect(r.LLx, r.LLy, r.URx-r.LLx, r.URy-r.LLy)
		in.stack.SetPendingClip(raster.NonZero)
		in.consumePath()
	}
	for _, a := range args[2:4] {
		if m, ok := toMatrix(a); ok {
			in.stack.Transform(m)
		}
	}
	return nil
}

func opEndAnnotation(in *Interpreter, _ []any) error {
	in.restore()
	return nil
}

// marked content

func opBeginMarkedContent(in *Interpreter, _ []any) error {
	in.pushVisible(true)
	return nil
}

// opBeginMarkedContentProps hides optional content which is switched off
// in Config.OptionalContent.
func opBeginMarkedContentProps(in *Interpreter, args []any) error {
	visible := true
	if tag, _ := firstArg(args).(string); tag == "OC" && len(args) > 1 {
		if id, ok := args[1].(string); ok {
			if v, ok := in.cfg.OptionalContent[id]; ok {
				visible = v
			}
		}
	}
	in.pushVisible(visible)
	return nil
}

func opEndMarkedContent(in *Interpreter, _ []any) error {
	n := len(in.visible)
	if n == 0 {
		return errors.New("endMarkedContent without beginMarkedContent")
	}
	if !in.visible[n-1] {
		in.hidden--
	}
	in.visible = in.visible[:n-1]
	return nil
}

func (in *Interpreter) pushVisible(v bool) {
	in.visible = append(in.visible, v)
	if !v {
		in.hidden++
	}
}

func opNop(*Interpreter, []any) error {
	return nil
}
