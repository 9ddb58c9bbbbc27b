package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tsawler/quizdeck/layout"
	"github.com/tsawler/quizdeck/model"
	"github.com/tsawler/quizdeck/variant"
)

func deckFor(t *testing.T, name string, blocks []model.Block) *layout.Deck {
	t.Helper()
	v, err := variant.Lookup(name)
	require.NoError(t, err)
	deck, err := layout.New(v, nil).Layout(blocks)
	require.NoError(t, err)
	return deck
}

func TestBuild(t *testing.T) {
	q1 := &model.Question{Number: 1, Body: "First?", Options: []string{"(1) a", "(2) b"}, Images: []string{"/x/p1_q1_1.png"}}
	q2 := &model.Question{Number: 2, Body: "Second?", Options: []string{"(1) c"}, Arrangement: &model.Arrangement{Body: "A > B"}}
	blocks := []model.Block{q1, q2}
	deck := deckFor(t, "mcq2", blocks)

	m := Build("in.docx", "out.pptx", "mcq2", blocks, deck, []string{"page 3 failed"})

	require.Len(t, m.Questions, 2)
	assert.Equal(t, 2, m.Questions[0].Options)
	assert.Equal(t, []int{1}, m.Questions[0].Slides)
	// Question 2 has an arrangement slide before its question slide.
	assert.Equal(t, []int{2, 3}, m.Questions[1].Slides)
	assert.Equal(t, 1, m.ImageCount())

	require.Len(t, m.Slides, 3)
	assert.Equal(t, "arrangement", m.Slides[1].Kind)
	assert.Equal(t, "question", m.Slides[2].Kind)
	assert.Equal(t, []string{"page 3 failed"}, m.Warnings)
}

func TestBuild_NoDeck(t *testing.T) {
	p := &model.Passage{Label: "PASSAGE - I", Questions: []*model.Question{{Number: 1, Options: []string{"(A) x"}}}}
	m := Build("in.docx", "", "passage", []model.Block{p}, nil, nil)
	require.Len(t, m.Questions, 1)
	assert.Empty(t, m.Questions[0].Slides)
	assert.Empty(t, m.Slides)
}

func TestWrite(t *testing.T) {
	q := &model.Question{Number: 7, Body: "Which   one?", Options: []string{"(1) a"}, Images: []string{"/tmp/p2_q7_1.png", "/tmp/p2_q7_2.png"}}
	blocks := []model.Block{q}
	m := Build("in.docx", "out.pptx", "mcq3", blocks, deckFor(t, "mcq3", blocks), []string{"skipped image"})

	path := filepath.Join(t.TempDir(), "manifest.xlsx")
	require.NoError(t, m.Write(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetQuestions, SheetSlides, SheetWarnings}, f.GetSheetList())

	rows, err := f.GetRows(SheetQuestions)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Number", rows[0][0])
	assert.Equal(t, []string{"7", "Which one?", "1", "2", "1", "p2_q7_1.png, p2_q7_2.png"}, rows[1])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Images", "2"}, summary[5])

	warnings, err := f.GetRows(SheetWarnings)
	require.NoError(t, err)
	assert.Equal(t, "skipped image", warnings[1][0])
}
