package layout

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/tsawler/quizdeck/model"
	"github.com/tsawler/quizdeck/variant"
)

// Common errors
var (
	ErrNoContent  = errors.New("no blocks to lay out")
	ErrLayoutDone = errors.New("layout already completed")
	ErrNilVariant = errors.New("variant is nil")
)

// Passage budgets used when a variant leaves them zero.
const (
	DefaultFirstBudget = 550
	DefaultBudget      = 725
)

// State is the engine's position in a deck.
type State int

const (
	StateTitle State = iota
	StateContent
	StateDone
)

func (s State) String() string {
	switch s {
	case StateTitle:
		return "Title"
	case StateContent:
		return "Content"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Warning is a non-fatal placement problem.
type Warning struct {
	Slide    int // 1-based
	Question int
	Message  string
}

func (w Warning) String() string {
	s := "slide " + strconv.Itoa(w.Slide)
	if w.Question > 0 {
		s += " (question " + strconv.Itoa(w.Question) + ")"
	}
	return s + ": " + w.Message
}

// Deck is the laid-out presentation.
type Deck struct {
	Width, Height EMU
	Background    variant.Color
	Slides        []SlideSpec
	Warnings      []Warning
}

// Engine lays out one deck. It is not reusable: after Layout returns the
// engine is in StateDone.
type Engine struct {
	v      *variant.Variant
	logger *slog.Logger

	state         State
	deck          *Deck
	directive     bool
	lastDirection *model.Direction
	sizes         map[string]sizeResult
}

type sizeResult struct {
	w, h int
	err  error
}

// New creates an Engine for v. The variant is copied. A nil logger discards
// output.
func New(v *variant.Variant, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &Engine{logger: logger.With("stage", "layout"), sizes: make(map[string]sizeResult)}
	if v != nil {
		e.v = v.Clone()
	}
	return e
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Layout builds the deck for blocks. Question images are taken from each
// question's Images field.
func (e *Engine) Layout(blocks []model.Block) (*Deck, error) {
	if e.state == StateDone {
		return nil, ErrLayoutDone
	}
	if e.v == nil {
		return nil, ErrNilVariant
	}
	if len(blocks) == 0 {
		return nil, ErrNoContent
	}

	l := e.v.Layout
	e.deck = &Deck{Width: Inches(l.Width), Height: Inches(l.Height), Background: l.Background}

	e.state = StateTitle
	if l.Title != nil {
		e.titleSlide(l.Title)
	}

	e.state = StateContent
	for _, blk := range blocks {
		switch b := blk.(type) {
		case *model.Question:
			if b.Arrangement != nil && l.Arrangement.OwnSlide {
				e.arrangementSlide(b)
			}
			e.questionSlide(b)
		case *model.Passage:
			e.passageSlides(b)
		default:
			return nil, fmt.Errorf("unsupported block type %T", blk)
		}
	}

	e.state = StateDone
	e.logger.Info("laid out slides", "slides", len(e.deck.Slides), "warnings", len(e.deck.Warnings))
	return e.deck, nil
}

// column returns the content column's left edge and width in inches.
func (e *Engine) column() (float64, float64) {
	l := e.v.Layout
	return l.ContentLeft * l.Width, l.ContentWidth * l.Width
}

func (e *Engine) add(b *builder) {
	e.deck.Slides = append(e.deck.Slides, b.build())
}

func (e *Engine) warn(question int, format string, args ...any) {
	w := Warning{Slide: len(e.deck.Slides) + 1, Question: question, Message: fmt.Sprintf(format, args...)}
	e.deck.Warnings = append(e.deck.Warnings, w)
	e.logger.Warn("layout warning", "slide", w.Slide, "question", question, "message", w.Message)
}

func (e *Engine) titleSlide(t *variant.TitleSlide) {
	left, width := e.column()
	h := e.v.Layout.Height
	b := newBuilder(SlideTitle, 0)
	b.text("Title", inchRect(left, h*0.3, width, 1.25), Paragraph{Text: t.Title, Style: t.TitleStyle})
	if t.Subtitle != "" {
		b.text("Subtitle", inchRect(left, h*0.3+1.35, width, 1.0), Paragraph{Text: t.Subtitle, Style: t.SubtitleStyle})
	}
	e.chrome(b, 0, false)
	e.add(b)
}

func (e *Engine) arrangementSlide(q *model.Question) {
	left, width := e.column()
	al := e.v.Layout.Arrangement
	h := e.v.Layout.Height
	b := newBuilder(SlideArrangement, q.Number)
	b.text("Arrangement", inchRect(left, al.Top*h, width, al.Height*h), Paragraph{Text: q.Arrangement.Body, Style: al.Style})
	e.chrome(b, q.Number, true)
	e.add(b)
}

func (e *Engine) questionSlide(q *model.Question) {
	left, width := e.column()
	l := e.v.Layout
	ql := l.Question
	b := newBuilder(SlideQuestion, q.Number)

	top := ql.Top
	if !e.directive && ql.Directive != "" {
		b.text("Directive", inchRect(left, ql.DirectiveTop, width, max(ql.FirstTop-ql.DirectiveTop, 0.5)),
			Paragraph{Text: ql.Directive, Style: ql.DirectiveStyle})
		top = ql.FirstTop
	}
	e.directive = true

	var paras []Paragraph
	if q.Direction != nil && q.Direction != e.lastDirection {
		paras = append(paras, Paragraph{Text: q.Direction.Body, Style: ql.Heading, SpaceAfter: 6})
		top = ql.FirstTop
	}
	e.lastDirection = q.Direction

	if q.Arrangement != nil && !l.Arrangement.OwnSlide {
		style := l.Arrangement.Style
		if style.Size == 0 {
			style = ql.Body
		}
		paras = append(paras, Paragraph{Text: q.Arrangement.Body, Style: style, SpaceAfter: 6})
	}
	paras = append(paras, Paragraph{Text: e.numbered(q), Style: ql.Body, SpaceAfter: 6})
	for _, o := range q.Options {
		paras = append(paras, Paragraph{Text: o, Style: ql.Option})
	}

	box := inchRect(left, top, width, l.Height-top-ql.BottomMargin)
	b.text("Question", box, paras...)
	e.images(b, q, box)
	e.chrome(b, q.Number, true)
	e.add(b)
}

func (e *Engine) numbered(q *model.Question) string {
	if !e.v.Layout.Question.NumberPrefix {
		return q.Body
	}
	return strconv.Itoa(q.Number) + ". " + q.Body
}

func (e *Engine) passageSlides(p *model.Passage) {
	left, width := e.column()
	l := e.v.Layout
	pl := l.Passage

	budget := pl.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	first := pl.FirstBudget
	if first <= 0 {
		first = min(DefaultFirstBudget, budget)
	}
	chunks := Paginate(p.Body, first, budget)
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	for i, chunk := range chunks {
		b := newBuilder(SlidePassage, 0)
		top := pl.TopNoTitle
		if i == 0 {
			var paras []Paragraph
			if p.Direction != nil && p.Direction != e.lastDirection {
				paras = append(paras, Paragraph{Text: p.Direction.Body, Style: pl.Direction, SpaceAfter: 6})
			}
			paras = append(paras, Paragraph{Text: p.Label, Style: pl.Title})
			b.text("Title", inchRect(left, pl.TitleTop, width, pl.Top-pl.TitleTop), paras...)
			top = pl.Top
		}
		if chunk != "" {
			b.text("Passage", inchRect(left, top, width, min(pl.Height, l.Height-top)), Paragraph{Text: chunk, Style: pl.Body})
		}
		if i < len(chunks)-1 {
			b.text("Continued", e.continuedBox(), Paragraph{Text: cmp.Or(pl.Continued, "Continued"), Style: pl.ContinuedStyle})
		}
		e.chrome(b, 0, true)
		e.add(b)
	}
	e.lastDirection = p.Direction
	e.logger.Debug("passage paginated", "label", p.Label, "chunks", len(chunks), "questions", len(p.Questions))

	for _, q := range p.Questions {
		e.passageQuestionSlide(q)
	}
}

// continuedBox is the footer position, defaulting to the bottom of the
// content column.
func (e *Engine) continuedBox() Rect {
	c := e.v.Layout.Passage.ContinuedBox
	if c.Width > 0 {
		return inchRect(c.Left, c.Top, c.Width, c.Height)
	}
	left, width := e.column()
	return inchRect(left, e.v.Layout.Height-0.7, width, 0.5)
}

func (e *Engine) passageQuestionSlide(q *model.Question) {
	pl := e.v.Layout.Passage
	left, width := e.column()
	box := pl.QuestionBox
	if box.Width > 0 {
		left, width = box.Left, box.Width
	}

	b := newBuilder(SlidePassageQuestion, q.Number)
	paras := []Paragraph{{Text: e.numbered(q), Style: pl.QuestionStyle, SpaceAfter: 10}}
	for _, o := range q.Options {
		paras = append(paras, Paragraph{Text: o, Style: pl.QuestionStyle, SpaceAfter: 10})
	}
	r := inchRect(left, box.Top, width, box.Height)
	b.text("Question", r, paras...)
	e.images(b, q, r)
	e.chrome(b, q.Number, true)
	e.add(b)
}

// images places a question's diagrams in the region reserved near the bottom
// of its text box. Unreadable or implausibly shaped images are skipped with a
// warning.
func (e *Engine) images(b *builder, q *model.Question, text Rect) {
	if len(q.Images) == 0 {
		return
	}
	il := e.v.Layout.Images
	var ok []placed
	for _, path := range q.Images {
		w, h, err := e.size(path)
		if err != nil {
			e.warn(q.Number, "skipping image %s: %v", path, err)
			continue
		}
		if il.MaxAspect > 0 {
			aspect := float64(w) / float64(h)
			if aspect > il.MaxAspect || aspect < 1/il.MaxAspect {
				e.warn(q.Number, "skipping image %s: aspect %.2f out of range", path, aspect)
				continue
			}
		}
		ok = append(ok, placed{path: path, w: w, h: h})
	}

	left, width := e.column()
	region := Rect{
		Left:   Inches(left + il.SideMargin/2),
		Top:    text.Bottom() - Inches(il.BottomOffset),
		Width:  Inches(width - il.SideMargin),
		Height: Inches(il.MaxHeight),
	}
	for i, r := range placeImages(ok, region, Inches(il.Gap)) {
		b.picture(fmt.Sprintf("Diagram %d", i+1), r, ok[i].path, RoleContent)
	}
}

func (e *Engine) size(path string) (int, int, error) {
	if s, ok := e.sizes[path]; ok {
		return s.w, s.h, s.err
	}
	w, h, err := imageSize(path)
	e.sizes[path] = sizeResult{w: w, h: h, err: err}
	return w, h, err
}

// chrome appends decoration. Border bars and the watermark go on content
// slides only; the logo goes everywhere.
func (e *Engine) chrome(b *builder, question int, content bool) {
	l := e.v.Layout
	c := l.Chrome
	if content && c.Border != nil {
		t := c.Border.Thickness
		b.shape("Border Top", inchRect(c.Border.TopStart*l.Width, 0, c.Border.TopLength*l.Width, t), c.Border.Color)
		b.shape("Border Bottom", inchRect(c.Border.BottomStart*l.Width, l.Height-t, c.Border.BottomLength*l.Width, t), c.Border.Color)
	}
	if content && c.Watermark != nil {
		e.decoration(b, "Watermark", c.Watermark, question)
	}
	if c.Logo != nil {
		e.decoration(b, "Logo", c.Logo, question)
	}
}

func (e *Engine) decoration(b *builder, name string, p *variant.Picture, question int) {
	h := p.Height
	if h == 0 {
		_, seen := e.sizes[p.Path]
		w, ph, err := e.size(p.Path)
		if err != nil {
			if !seen {
				e.warn(question, "skipping %s %s: %v", name, p.Path, err)
			}
			return
		}
		h = p.Width * float64(ph) / float64(w)
	}
	b.picture(name, inchRect(p.Left, p.Top, p.Width, h), p.Path, RoleChrome)
}
