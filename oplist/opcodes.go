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

// Package oplist defines the operator list consumed by the renderer.
//
// An operator list is a pair of parallel sequences: opcodes and their
// arguments.  Lists are produced incrementally in chunks; a chunk is itself
// a List, and the final chunk has LastChunk set.
//
// Numeric arguments are float64 values.  Names and resource ids are strings.
// Structured arguments (glyph runs, group descriptors, pattern IR, inline
// images) use the types of the packages which consume them.
package oplist

import "strconv"

// OpCode identifies an operator.
type OpCode uint8

// The operator enumeration.  Values are stable within a module version;
// producers and consumers must be built from the same version.
const (
	Dependency OpCode = iota + 1
	SetLineWidth
	SetLineCap
	SetLineJoin
	SetMiterLimit
	SetDash
	SetRenderingIntent
	SetFlatness
	SetGState
	Save
	Restore
	Transform
	MoveTo
	LineTo
	CurveTo
	CurveTo2
	CurveTo3
	ClosePath
	Rectangle
	Stroke
	CloseStroke
	Fill
	EOFill
	FillStroke
	EOFillStroke
	CloseFillStroke
	CloseEOFillStroke
	EndPath
	Clip
	EOClip
	BeginText
	EndText
	SetCharSpacing
	SetWordSpacing
	SetHScale
	SetLeading
	SetFont
	SetTextRenderingMode
	SetTextRise
	MoveText
	SetLeadingMoveText
	SetTextMatrix
	NextLine
	ShowText
	ShowSpacedText
	NextLineShowText
	NextLineSetSpacingShowText
	SetCharWidth
	SetCharWidthAndBounds
	SetStrokeColorSpace
	SetFillColorSpace
	SetStrokeColor
	SetStrokeColorN
	SetFillColor
	SetFillColorN
	SetStrokeGray
	SetFillGray
	SetStrokeRGBColor
	SetFillRGBColor
	SetStrokeCMYKColor
	SetFillCMYKColor
	ShadingFill
	BeginInlineImage
	BeginImageData
	EndInlineImage
	PaintXObject
	MarkPoint
	MarkPointProps
	BeginMarkedContent
	BeginMarkedContentProps
	EndMarkedContent
	BeginCompat
	EndCompat
	PaintFormXObjectBegin
	PaintFormXObjectEnd
	BeginGroup
	EndGroup
	BeginAnnotations
	EndAnnotations
	BeginAnnotation
	EndAnnotation
	PaintJpegXObject
	PaintImageMaskXObject
	PaintImageMaskXObjectGroup
	PaintImageXObject
	PaintInlineImageXObject
	PaintInlineImageXObjectGroup
	PaintImageXObjectRepeat
	PaintImageMaskXObjectRepeat
	PaintSolidColorImageMask
	ConstructPath

	numOpCodes = iota
)

var opNames = [numOpCodes + 1]string{
	Dependency:                   "dependency",
	SetLineWidth:                 "setLineWidth",
	SetLineCap:                   "setLineCap",
	SetLineJoin:                  "setLineJoin",
	SetMiterLimit:                "setMiterLimit",
	SetDash:                      "setDash",
	SetRenderingIntent:           "setRenderingIntent",
	SetFlatness:                  "setFlatness",
	SetGState:                    "setGState",
	Save:                         "save",
	Restore:                      "restore",
	Transform:                    "transform",
	MoveTo:                       "moveTo",
	LineTo:                       "lineTo",
	CurveTo:                      "curveTo",
	CurveTo2:                     "curveTo2",
	CurveTo3:                     "curveTo3",
	ClosePath:                    "closePath",
	Rectangle:                    "rectangle",
	Stroke:                       "stroke",
	CloseStroke:                  "closeStroke",
	Fill:                         "fill",
	EOFill:                       "eoFill",
	FillStroke:                   "fillStroke",
	EOFillStroke:                 "eoFillStroke",
	CloseFillStroke:              "closeFillStroke",
	CloseEOFillStroke:            "closeEOFillStroke",
	EndPath:                      "endPath",
	Clip:                         "clip",
	EOClip:                       "eoClip",
	BeginText:                    "beginText",
	EndText:                      "endText",
	SetCharSpacing:               "setCharSpacing",
	SetWordSpacing:               "setWordSpacing",
	SetHScale:                    "setHScale",
	SetLeading:                   "setLeading",
	SetFont:                      "setFont",
	SetTextRenderingMode:         "setTextRenderingMode",
	SetTextRise:                  "setTextRise",
	MoveText:                     "moveText",
	SetLeadingMoveText:           "setLeadingMoveText",
	SetTextMatrix:                "setTextMatrix",
	NextLine:                     "nextLine",
	ShowText:                     "showText",
	ShowSpacedText:               "showSpacedText",
	NextLineShowText:             "nextLineShowText",
	NextLineSetSpacingShowText:   "nextLineSetSpacingShowText",
	SetCharWidth:                 "setCharWidth",
	SetCharWidthAndBounds:        "setCharWidthAndBounds",
	SetStrokeColorSpace:          "setStrokeColorSpace",
	SetFillColorSpace:            "setFillColorSpace",
	SetStrokeColor:               "setStrokeColor",
	SetStrokeColorN:              "setStrokeColorN",
	SetFillColor:                 "setFillColor",
	SetFillColorN:                "setFillColorN",
	SetStrokeGray:                "setStrokeGray",
	SetFillGray:                  "setFillGray",
	SetStrokeRGBColor:            "setStrokeRGBColor",
	SetFillRGBColor:              "setFillRGBColor",
	SetStrokeCMYKColor:           "setStrokeCMYKColor",
	SetFillCMYKColor:             "setFillCMYKColor",
	ShadingFill:                  "shadingFill",
	BeginInlineImage:             "beginInlineImage",
	BeginImageData:               "beginImageData",
	EndInlineImage:               "endInlineImage",
	PaintXObject:                 "paintXObject",
	MarkPoint:                    "markPoint",
	MarkPointProps:               "markPointProps",
	BeginMarkedContent:           "beginMarkedContent",
	BeginMarkedContentProps:      "beginMarkedContentProps",
	EndMarkedContent:             "endMarkedContent",
	BeginCompat:                  "beginCompat",
	EndCompat:                    "endCompat",
	PaintFormXObjectBegin:        "paintFormXObjectBegin",
	PaintFormXObjectEnd:          "paintFormXObjectEnd",
	BeginGroup:                   "beginGroup",
	EndGroup:                     "endGroup",
	BeginAnnotations:             "beginAnnotations",
	EndAnnotations:               "endAnnotations",
	BeginAnnotation:              "beginAnnotation",
	EndAnnotation:                "endAnnotation",
	PaintJpegXObject:             "paintJpegXObject",
	PaintImageMaskXObject:        "paintImageMaskXObject",
	PaintImageMaskXObjectGroup:   "paintImageMaskXObjectGroup",
	PaintImageXObject:            "paintImageXObject",
	PaintInlineImageXObject:      "paintInlineImageXObject",
	PaintInlineImageXObjectGroup: "paintInlineImageXObjectGroup",
	PaintImageXObjectRepeat:      "paintImageXObjectRepeat",
	PaintImageMaskXObjectRepeat:  "paintImageMaskXObjectRepeat",
	PaintSolidColorImageMask:     "paintSolidColorImageMask",
	ConstructPath:                "constructPath",
}

// NumOpCodes is the number of defined operators.
const NumOpCodes = numOpCodes

func (op OpCode) String() string {
	if op >= 1 && int(op) <= numOpCodes {
		return opNames[op]
	}
	return "OpCode(" + strconv.Itoa(int(op)) + ")"
}

// Valid reports whether op is one of the defined operators.
func (op OpCode) Valid() bool {
	return op >= 1 && int(op) <= numOpCodes
}

// ParseOpCode returns the operator with the given name.
func ParseOpCode(name string) (OpCode, bool) {
	op, ok := opByName[name]
	return op, ok
}

var opByName = func() map[string]OpCode {
	m := make(map[string]OpCode, numOpCodes)
	for i := 1; i <= numOpCodes; i++ {
		m[opNames[i]] = OpCode(i)
	}
	return m
}()
