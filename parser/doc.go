// Package parser splits the flattened lines of a question document into
// question and passage blocks.
//
// Parsing is a line-driven state machine. Each line is matched against the
// variant grammar in a fixed order:
//
//  1. passage marker: closes any open block and opens a [model.Passage]
//  2. direction marker: starts a new [model.Direction] for what follows
//  3. arrangement content while an arrangement is open
//  4. passage body or passage question block lines
//  5. arrangement marker: starts an arrangement for the next question
//  6. option line, only while a question is open
//  7. question line with a strictly increasing number
//  8. anything else: appended to the open block's body
//
// A passage body ends after a run of blank lines; the block that follows is
// cut into questions on "N.<tab>" boundaries and each question's options are
// split out of its tab-separated layout.
//
// When the grammar finds nothing, callers retry with [ParseFallback], which
// matches numbered segments directly against "(N)" option markers.
package parser
