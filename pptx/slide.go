package pptx

import "strings"

// Slide represents a parsed slide.
type Slide struct {
	Index      int         // 0-indexed slide number
	Background string      // RRGGBB, empty when inherited
	Content    []TextBlock // Text boxes in z-order
	Pictures   []Picture
	Shapes     []Shape // Shapes without text
}

// Bounds is a shape frame in EMUs.
type Bounds struct {
	X, Y          int
	Width, Height int
}

// TextBlock represents a block of text on a slide.
type TextBlock struct {
	Name       string
	Text       string
	Paragraphs []Paragraph
	Bounds
}

// Paragraph represents a paragraph within a text block.
type Paragraph struct {
	Text       string
	Alignment  string // l, ctr, r, just
	SpaceAfter int    // In hundredths of a point
	Runs       []Run  // Text runs with formatting
}

// Run represents a text run with consistent formatting.
type Run struct {
	Text     string
	Bold     bool
	FontSize int    // In hundredths of a point
	Color    string // RRGGBB
	Font     string
}

// Picture is an image placed on a slide.
type Picture struct {
	Name   string
	Target string // Archive path of the image part
	Bounds
}

// Shape is a filled shape with no text.
type Shape struct {
	Name string
	Fill string // RRGGBB
	Bounds
}

// GetText returns all text from the slide as a single string.
func (s *Slide) GetText() string {
	texts := make([]string, 0, len(s.Content))
	for _, block := range s.Content {
		texts = append(texts, block.Text)
	}
	return strings.Join(texts, "\n")
}

// Find returns the first text block with the given shape name.
func (s *Slide) Find(name string) (*TextBlock, bool) {
	for i := range s.Content {
		if s.Content[i].Name == name {
			return &s.Content[i], true
		}
	}
	return nil, false
}
