package layout

import (
	"strings"

	"github.com/tsawler/quizdeck/variant"
)

// SlideKind identifies what a slide shows.
type SlideKind int

const (
	SlideTitle SlideKind = iota
	SlideQuestion
	SlideArrangement
	SlidePassage
	SlidePassageQuestion
)

func (k SlideKind) String() string {
	switch k {
	case SlideTitle:
		return "title"
	case SlideQuestion:
		return "question"
	case SlideArrangement:
		return "arrangement"
	case SlidePassage:
		return "passage"
	case SlidePassageQuestion:
		return "passage-question"
	default:
		return "unknown"
	}
}

// Role separates slide content from decoration.
type Role int

const (
	RoleContent Role = iota
	RoleChrome
)

// Element is one placed item on a slide: a *TextBox, *Picture or *Shape.
type Element interface {
	Bounds() Rect
	Role() Role
	element()
}

// Paragraph is a run of text in a single style.
type Paragraph struct {
	Text  string
	Style variant.TextStyle
	// SpaceAfter is extra spacing after the paragraph, in points.
	SpaceAfter float64
}

// TextBox is a word-wrapped text frame.
type TextBox struct {
	Name       string
	Box        Rect
	Paragraphs []Paragraph
	role       Role
}

func (t *TextBox) Bounds() Rect { return t.Box }
func (t *TextBox) Role() Role   { return t.role }
func (*TextBox) element()       {}

// Text returns the paragraph texts joined by newlines.
func (t *TextBox) Text() string {
	texts := make([]string, len(t.Paragraphs))
	for i, p := range t.Paragraphs {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n")
}

// Picture places an image file.
type Picture struct {
	Name string
	Box  Rect
	Path string
	role Role
}

func (p *Picture) Bounds() Rect { return p.Box }
func (p *Picture) Role() Role   { return p.role }
func (*Picture) element()       {}

// Shape is a solid filled rectangle.
type Shape struct {
	Name string
	Box  Rect
	Fill variant.Color
	role Role
}

func (s *Shape) Bounds() Rect { return s.Box }
func (s *Shape) Role() Role   { return s.role }
func (*Shape) element()       {}

// SlideSpec is one finished slide. It is not modified after it is built.
type SlideSpec struct {
	kind     SlideKind
	question int
	elements []Element
}

// Kind returns the slide kind.
func (s SlideSpec) Kind() SlideKind { return s.kind }

// Question returns the question number shown, or 0.
func (s SlideSpec) Question() int { return s.question }

// Elements returns the slide's elements in z-order. The slice is a copy.
func (s SlideSpec) Elements() []Element {
	return append([]Element(nil), s.elements...)
}

// Texts returns the slide's text boxes in order.
func (s SlideSpec) Texts() []*TextBox {
	var out []*TextBox
	for _, e := range s.elements {
		if t, ok := e.(*TextBox); ok {
			out = append(out, t)
		}
	}
	return out
}

// Pictures returns the slide's pictures in order.
func (s SlideSpec) Pictures() []*Picture {
	var out []*Picture
	for _, e := range s.elements {
		if p, ok := e.(*Picture); ok {
			out = append(out, p)
		}
	}
	return out
}

// builder accumulates the elements of one slide.
type builder struct {
	spec  SlideSpec
	built bool
}

func newBuilder(kind SlideKind, question int) *builder {
	return &builder{spec: SlideSpec{kind: kind, question: question}}
}

func (b *builder) add(e Element) {
	if b.built {
		panic("layout: slide modified after build")
	}
	b.spec.elements = append(b.spec.elements, e)
}

func (b *builder) text(name string, box Rect, paras ...Paragraph) {
	b.add(&TextBox{Name: name, Box: box, Paragraphs: paras, role: RoleContent})
}

func (b *builder) picture(name string, box Rect, path string, role Role) {
	b.add(&Picture{Name: name, Box: box, Path: path, role: role})
}

func (b *builder) shape(name string, box Rect, fill variant.Color) {
	b.add(&Shape{Name: name, Box: box, Fill: fill, role: RoleChrome})
}

func (b *builder) build() SlideSpec {
	b.built = true
	return b.spec
}
