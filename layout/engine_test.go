package layout

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/quizdeck/model"
	"github.com/tsawler/quizdeck/variant"
)

func lookup(t *testing.T, name string) *variant.Variant {
	t.Helper()
	v, err := variant.Lookup(name)
	require.NoError(t, err)
	return v
}

func writeImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(imaging.New(w, h, color.White), path))
	return path
}

func question(n int, body string, opts ...string) *model.Question {
	return &model.Question{Number: n, Body: body, Options: opts}
}

func longBody(sentences int) string {
	s := make([]string, sentences)
	for i := range s {
		s[i] = fmt.Sprintf("Sentence %03d is here now.", i)
	}
	return strings.Join(s, " ")
}

// assertContentColumn checks that nothing but decoration sits left of 40%.
func assertContentColumn(t *testing.T, deck *Deck) {
	t.Helper()
	edge := EMU(float64(deck.Width) * variant.MinContentLeft)
	for i, s := range deck.Slides {
		for _, el := range s.Elements() {
			if el.Role() == RoleChrome {
				continue
			}
			assert.GreaterOrEqual(t, el.Bounds().Left, edge-1, "slide %d element %T", i+1, el)
			assert.LessOrEqual(t, el.Bounds().Right(), deck.Width, "slide %d element %T", i+1, el)
		}
	}
}

func TestLayout_SingleQuestion(t *testing.T) {
	deck, err := New(lookup(t, "mcq1"), nil).Layout([]model.Block{question(1, "What is 2+2?", "(1) 3", "(2) 4")})
	require.NoError(t, err)

	assert.Equal(t, Inches(13.33), deck.Width)
	assert.Equal(t, Inches(7.5), deck.Height)
	assert.Equal(t, variant.Black, deck.Background)
	require.Len(t, deck.Slides, 1)

	s := deck.Slides[0]
	assert.Equal(t, SlideQuestion, s.Kind())
	assert.Equal(t, 1, s.Question())

	texts := s.Texts()
	require.Len(t, texts, 2)
	assert.Equal(t, "Directive", texts[0].Name)
	assert.Equal(t, "1. What is 2+2?\n(1) 3\n(2) 4", texts[1].Text())
	assert.Equal(t, variant.Yellow, texts[1].Paragraphs[1].Style.Color)
	assert.Equal(t, Inches(1.0), texts[1].Box.Top)

	// Decoration comes after content.
	els := s.Elements()
	require.Len(t, els, 4)
	assert.Equal(t, RoleContent, els[1].Role())
	assert.Equal(t, RoleChrome, els[2].Role())
	assert.Equal(t, RoleChrome, els[3].Role())
	bar := els[3].(*Shape)
	assert.Equal(t, Inches(7.5-0.15), bar.Box.Top)

	assertContentColumn(t, deck)
}

func TestLayout_DirectionSessions(t *testing.T) {
	d1 := &model.Direction{Body: "Directions for questions 1-2"}
	d2 := &model.Direction{Body: "DIRECTIONS: next"}
	q1, q2, q3 := question(1, "a", "(1) x"), question(2, "b", "(1) x"), question(3, "c", "(1) x")
	q1.Direction, q2.Direction, q3.Direction = d1, d1, d2

	deck, err := New(lookup(t, "mcq3"), nil).Layout([]model.Block{q1, q2, q3})
	require.NoError(t, err)
	require.Len(t, deck.Slides, 3)

	first := func(i int) string { return deck.Slides[i].Texts()[0].Paragraphs[0].Text }
	assert.Equal(t, d1.Body, first(0))
	assert.Equal(t, "2. b", first(1))
	assert.Equal(t, d2.Body, first(2))
}

func TestLayout_ArrangementSlide(t *testing.T) {
	q := question(4, "Who is last?", "(1) E")
	q.Arrangement = &model.Arrangement{Body: "A > B > C"}

	deck, err := New(lookup(t, "mcq2"), nil).Layout([]model.Block{q})
	require.NoError(t, err)
	require.Len(t, deck.Slides, 2)
	assert.Equal(t, SlideArrangement, deck.Slides[0].Kind())
	assert.Equal(t, "A > B > C", deck.Slides[0].Texts()[0].Text())
	assert.Equal(t, Inches(9*0.35), deck.Slides[0].Texts()[0].Box.Top)
	assert.Equal(t, SlideQuestion, deck.Slides[1].Kind())
	assert.NotContains(t, deck.Slides[1].Texts()[0].Text(), "A > B > C")

	// Without its own slide the arrangement sits above the body.
	deck, err = New(lookup(t, "mcq3"), nil).Layout([]model.Block{q})
	require.NoError(t, err)
	require.Len(t, deck.Slides, 1)
	assert.Equal(t, "A > B > C\n4. Who is last?\n(1) E", deck.Slides[0].Texts()[0].Text())
}

func TestLayout_Passage(t *testing.T) {
	dir := &model.Direction{Body: "DIRECTIONS FOR QUESTIONS 1-2"}
	p := &model.Passage{
		Label:     "PASSAGE - I",
		Body:      longBody(100),
		Direction: dir,
		Questions: []*model.Question{
			question(1, "What?", "(A) one", "(B) two"),
			question(2, "Why?", "(A) yes"),
		},
	}

	deck, err := New(lookup(t, "passage"), nil).Layout([]model.Block{p})
	require.NoError(t, err)
	require.Len(t, deck.Slides, 1+4+2)

	assert.Equal(t, SlideTitle, deck.Slides[0].Kind())
	assert.Equal(t, "Section I - English", deck.Slides[0].Texts()[0].Text())

	passages := deck.Slides[1:5]
	for i, s := range passages {
		assert.Equal(t, SlidePassage, s.Kind())
		var names []string
		for _, tb := range s.Texts() {
			names = append(names, tb.Name)
		}
		if i < len(passages)-1 {
			assert.Contains(t, names, "Continued", "slide %d", i)
		} else {
			assert.NotContains(t, names, "Continued")
		}
	}

	title := passages[0].Texts()[0]
	assert.Equal(t, "DIRECTIONS FOR QUESTIONS 1-2\nPASSAGE - I", title.Text())
	assert.Equal(t, Inches(2.25), passages[0].Texts()[1].Box.Top)
	assert.Equal(t, Inches(0.5), passages[1].Texts()[0].Box.Top)

	q := deck.Slides[5]
	assert.Equal(t, SlidePassageQuestion, q.Kind())
	assert.Equal(t, "1. What?\n(A) one\n(B) two", q.Texts()[0].Text())
	assert.Equal(t, Inches(0.75), q.Texts()[0].Box.Top)

	assertContentColumn(t, deck)
}

func TestLayout_CustomBudget(t *testing.T) {
	v := lookup(t, "passage")
	v.Layout.Passage.FirstBudget = 100000
	p := &model.Passage{Label: "PASSAGE - I", Body: longBody(100), Questions: []*model.Question{question(1, "q", "(A) a")}}

	deck, err := New(v, nil).Layout([]model.Block{p})
	require.NoError(t, err)
	assert.Len(t, deck.Slides, 1+1+1)
}

func TestLayout_Images(t *testing.T) {
	dir := t.TempDir()
	good := writeImage(t, dir, "good.png", 200, 100)
	tall := writeImage(t, dir, "tall.png", 10, 900)
	q := question(1, "Look", "(1) a")
	q.Images = []string{good, filepath.Join(dir, "missing.png"), tall}

	v := lookup(t, "mcq1")
	deck, err := New(v, nil).Layout([]model.Block{q})
	require.NoError(t, err)

	pics := deck.Slides[0].Pictures()
	require.Len(t, pics, 1)
	assert.Equal(t, good, pics[0].Path)
	require.Len(t, deck.Warnings, 2)
	assert.Contains(t, deck.Warnings[0].Message, "missing.png")
	assert.Contains(t, deck.Warnings[1].Message, "aspect")
	assert.Equal(t, 1, deck.Warnings[0].Question)

	// Fitted inside the reserved region and centred in the column.
	il := v.Layout.Images
	r := pics[0].Box
	assert.LessOrEqual(t, r.Height, Inches(il.MaxHeight))
	assert.LessOrEqual(t, r.Width, Inches(v.Layout.ContentWidth*v.Layout.Width-il.SideMargin))
	assert.InDelta(t, float64(r.Width)/float64(r.Height), 2.0, 0.01)
	colCentre := Inches(v.Layout.ContentLeft*v.Layout.Width + v.Layout.ContentWidth*v.Layout.Width/2)
	assert.InDelta(t, float64(colCentre), float64(r.Left+r.Width/2), float64(Inches(0.01)))

	assertContentColumn(t, deck)
}

func TestLayout_ImageRow(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.png", 100, 100)
	b := writeImage(t, dir, "b.png", 100, 100)
	q := question(1, "Two", "(1) a")
	q.Images = []string{a, b}

	deck, err := New(lookup(t, "mcq3"), nil).Layout([]model.Block{q})
	require.NoError(t, err)
	pics := deck.Slides[0].Pictures()
	require.Len(t, pics, 2)
	assert.Equal(t, pics[0].Box.Top, pics[1].Box.Top)
	assert.Less(t, pics[0].Box.Right(), pics[1].Box.Left)
	assertContentColumn(t, deck)
}

func TestLayout_LogoAndWatermark(t *testing.T) {
	dir := t.TempDir()
	v := lookup(t, "mcq3")
	v.Layout.Chrome.Logo = &variant.Picture{Path: writeImage(t, dir, "logo.png", 300, 150), Left: 0.3, Top: 0.3, Width: 2}
	v.Layout.Chrome.Watermark = &variant.Picture{Path: filepath.Join(dir, "nope.png"), Left: 0, Top: 0, Width: 4}

	deck, err := New(v, nil).Layout([]model.Block{question(1, "a", "(1) x"), question(2, "b", "(1) y")})
	require.NoError(t, err)

	for _, s := range deck.Slides {
		pics := s.Pictures()
		require.Len(t, pics, 1)
		assert.Equal(t, RoleChrome, pics[0].Role())
		assert.Equal(t, Inches(1), pics[0].Box.Height)
	}
	require.Len(t, deck.Warnings, 1, "missing watermark reported once")
	assert.Contains(t, deck.Warnings[0].Message, "Watermark")
}

func TestLayout_AllVariantsKeepContentColumn(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir, "d.png", 400, 300)
	d := &model.Direction{Body: "Directions for questions"}

	for _, name := range variant.Names() {
		t.Run(name, func(t *testing.T) {
			q1 := question(1, "First?", "(1) a", "(2) b")
			q1.Direction = d
			q1.Images = []string{img}
			q2 := question(2, "Second?", "(1) c")
			q2.Arrangement = &model.Arrangement{Body: "P Q R"}
			p := &model.Passage{Label: "PASSAGE - I", Body: longBody(60), Direction: d,
				Questions: []*model.Question{question(3, "Third?", "(A) x")}}

			deck, err := New(lookup(t, name), nil).Layout([]model.Block{q1, q2, p})
			require.NoError(t, err)
			assert.NotEmpty(t, deck.Slides)
			assertContentColumn(t, deck)
		})
	}
}

func TestLayout_States(t *testing.T) {
	e := New(lookup(t, "mcq1"), nil)
	assert.Equal(t, StateTitle, e.State())

	_, err := e.Layout(nil)
	assert.True(t, errors.Is(err, ErrNoContent))

	_, err = e.Layout([]model.Block{question(1, "a", "(1) b")})
	require.NoError(t, err)
	assert.Equal(t, StateDone, e.State())

	_, err = e.Layout([]model.Block{question(1, "a", "(1) b")})
	assert.True(t, errors.Is(err, ErrLayoutDone))

	_, err = New(nil, nil).Layout([]model.Block{question(1, "a", "(1) b")})
	assert.True(t, errors.Is(err, ErrNilVariant))

	assert.Equal(t, "Content", StateContent.String())
	assert.Equal(t, "passage-question", SlidePassageQuestion.String())
}

func TestSlideSpec_ElementsIsCopy(t *testing.T) {
	deck, err := New(lookup(t, "mcq3"), nil).Layout([]model.Block{question(1, "a", "(1) b")})
	require.NoError(t, err)

	els := deck.Slides[0].Elements()
	els[0] = nil
	assert.NotNil(t, deck.Slides[0].Elements()[0])
}

func TestBuilder_PanicsAfterBuild(t *testing.T) {
	b := newBuilder(SlideQuestion, 1)
	b.build()
	assert.Panics(t, func() { b.text("late", Rect{}) })
}

func TestFit(t *testing.T) {
	w, h := Fit(200, 100, Inches(4), Inches(4))
	assert.Equal(t, Inches(4), w)
	assert.Equal(t, Inches(2), h)

	w, h = Fit(100, 400, Inches(4), Inches(2))
	assert.Equal(t, Inches(0.5), w)
	assert.Equal(t, Inches(2), h)

	w, h = Fit(0, 10, Inches(1), Inches(1))
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestWarningString(t *testing.T) {
	assert.Equal(t, "slide 2 (question 5): bad", Warning{Slide: 2, Question: 5, Message: "bad"}.String())
	assert.Equal(t, "slide 1: bad", Warning{Slide: 1, Message: "bad"}.String())
}
