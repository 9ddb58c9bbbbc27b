// Package model provides the intermediate representation shared by the
// parser, the association engine and the slide layout engine.
//
// # Blocks
//
// The parser produces an ordered []Block. The concrete types are:
//
//   - [Question] - a numbered question with its options
//   - [Passage] - a reading passage owning a run of questions
//
// A [Direction] or [Arrangement] is attached to the question it precedes.
//
// # Regions
//
// Page analysis works in raster pixel coordinates (origin top-left, y down):
//
//   - [Rect] - integer pixel rectangle
//   - [AnchorRegion] - an OCR'd question number on a page
//   - [DiagramRegion] - a candidate figure with its [ShapeClass]
//
// # Image ownership
//
// [QuestionImageMap] records which cropped figures belong to which question
// number. [Merge] copies that ownership onto the parsed questions.
package model
