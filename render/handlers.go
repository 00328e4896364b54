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

import "seehuhn.de/go/pagerender/oplist"

// handler executes one operator.  Errors wrapped by fatal end the task;
// other errors are logged.
type handler func(in *Interpreter, args []any) error

// handlers maps opcodes to their implementation.  Opcodes without an
// entry are skipped.  The table is filled in init, since some handlers
// run operator lists recursively.
var handlers [oplist.NumOpCodes + 1]handler

func init() {
	handlers = [oplist.NumOpCodes + 1]handler{
		oplist.SetLineWidth:       opSetLineWidth,
		oplist.SetLineCap:         opSetLineCap,
		oplist.SetLineJoin:        opSetLineJoin,
		oplist.SetMiterLimit:      opSetMiterLimit,
		oplist.SetDash:            opSetDash,
		oplist.SetRenderingIntent: opSetRenderingIntent,
		oplist.SetFlatness:        opSetFlatness,
		oplist.SetGState:          opSetGState,
		oplist.Save:               opSave,
		oplist.Restore:            opRestore,
		oplist.Transform:          opTransform,

		oplist.MoveTo:            opMoveTo,
		oplist.LineTo:            opLineTo,
		oplist.CurveTo:           opCurveTo,
		oplist.CurveTo2:          opCurveTo2,
		oplist.CurveTo3:          opCurveTo3,
		oplist.ClosePath:         opClosePath,
		oplist.Rectangle:         opRectangle,
		oplist.Stroke:            opStroke,
		oplist.CloseStroke:       opCloseStroke,
		oplist.Fill:              opFill,
		oplist.EOFill:            opEOFill,
		oplist.FillStroke:        opFillStroke,
		oplist.EOFillStroke:      opEOFillStroke,
		oplist.CloseFillStroke:   opCloseFillStroke,
		oplist.CloseEOFillStroke: opCloseEOFillStroke,
		oplist.EndPath:           opEndPath,
		oplist.Clip:              opClip,
		oplist.EOClip:            opEOClip,
		oplist.ConstructPath:     opConstructPath,

		oplist.BeginText:                  opBeginText,
		oplist.EndText:                    opEndText,
		oplist.SetCharSpacing:             opSetCharSpacing,
		oplist.SetWordSpacing:             opSetWordSpacing,
		oplist.SetHScale:                  opSetHScale,
		oplist.SetLeading:                 opSetLeading,
		oplist.SetFont:                    opSetFont,
		oplist.SetTextRenderingMode:       opSetTextRenderingMode,
		oplist.SetTextRise:                opSetTextRise,
		oplist.MoveText:                   opMoveText,
		oplist.SetLeadingMoveText:         opSetLeadingMoveText,
		oplist.SetTextMatrix:              opSetTextMatrix,
		oplist.NextLine:                   opNextLine,
		oplist.ShowText:                   opShowText,
		oplist.ShowSpacedText:             opShowText,
		oplist.NextLineShowText:           opNextLineShowText,
		oplist.NextLineSetSpacingShowText: opNextLineSetSpacingShowText,
		oplist.SetCharWidth:               opSetCharWidth,
		oplist.SetCharWidthAndBounds:      opSetCharWidthAndBounds,

		oplist.SetStrokeColorSpace: opNop,
		oplist.SetFillColorSpace:   opNop,
		oplist.SetStrokeColor:      opSetStrokeColor,
		oplist.SetStrokeColorN:     opSetStrokeColorN,
		oplist.SetFillColor:        opSetFillColor,
		oplist.SetFillColorN:       opSetFillColorN,
		oplist.SetStrokeGray:       opSetStrokeGray,
		oplist.SetFillGray:         opSetFillGray,
		oplist.SetStrokeRGBColor:   opSetStrokeRGBColor,
		oplist.SetFillRGBColor:     opSetFillRGBColor,
		oplist.SetStrokeCMYKColor:  opSetStrokeCMYKColor,
		oplist.SetFillCMYKColor:    opSetFillCMYKColor,
		oplist.ShadingFill:         opShadingFill,

		oplist.MarkPoint:               opNop,
		oplist.MarkPointProps:          opNop,
		oplist.BeginMarkedContent:      opBeginMarkedContent,
		oplist.BeginMarkedContentProps: opBeginMarkedContentProps,
		oplist.EndMarkedContent:        opEndMarkedContent,
		oplist.BeginCompat:             opNop,
		oplist.EndCompat:               opNop,

		oplist.PaintFormXObjectBegin: opPaintFormXObjectBegin,
		oplist.PaintFormXObjectEnd:   opPaintFormXObjectEnd,
		oplist.BeginGroup:            opBeginGroup,
		oplist.EndGroup:              opEndGroup,
		oplist.BeginAnnotations:      opBeginAnnotations,
		oplist.EndAnnotations:        opEndAnnotations,
		oplist.BeginAnnotation:       opBeginAnnotation,
		oplist.EndAnnotation:         opEndAnnotation,

		oplist.PaintJpegXObject:             opPaintImageXObject,
		oplist.PaintImageMaskXObject:        opPaintImageMaskXObject,
		oplist.PaintImageMaskXObjectGroup:   opPaintImageMaskXObjectGroup,
		oplist.PaintImageXObject:            opPaintImageXObject,
		oplist.PaintInlineImageXObject:      opPaintImageXObject,
		oplist.PaintInlineImageXObjectGroup: opPaintInlineImageXObjectGroup,
		oplist.PaintImageXObjectRepeat:      opPaintImageXObjectRepeat,
		oplist.PaintImageMaskXObjectRepeat:  opPaintImageMaskXObjectRepeat,
		oplist.PaintSolidColorImageMask:     opPaintSolidColorImageMask,
	}
}
