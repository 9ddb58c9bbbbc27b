package model

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Rect Tests
// ============================================================================

func TestRectCenters(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 41}
	assert.Equal(t, 25.0, r.CenterX())
	assert.Equal(t, 40.5, r.CenterY())
	assert.Equal(t, 40, r.Right())
	assert.Equal(t, 61, r.Bottom())
	assert.Equal(t, 30*41, r.Area())
}

func TestRectAspect(t *testing.T) {
	assert.Equal(t, 2.0, Rect{Width: 200, Height: 100}.Aspect())
	assert.Equal(t, 0.0, Rect{Width: 200}.Aspect())
}

func TestRectPadClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		pad  int
		want Rect
	}{
		{"inside", Rect{X: 100, Y: 100, Width: 50, Height: 50}, 10, Rect{X: 90, Y: 90, Width: 70, Height: 70}},
		{"clamped top-left", Rect{X: 5, Y: 5, Width: 50, Height: 50}, 10, Rect{X: 0, Y: 0, Width: 65, Height: 65}},
		{"clamped bottom-right", Rect{X: 950, Y: 950, Width: 50, Height: 50}, 20, Rect{X: 930, Y: 930, Width: 70, Height: 70}},
		{"outside", Rect{X: 2000, Y: 2000, Width: 5, Height: 5}, 0, Rect{X: 2000, Y: 2000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Pad(tt.pad).Clamp(1000, 1000)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRectFromImage(t *testing.T) {
	r := RectFrom(image.Rect(30, 40, 10, 20))
	assert.Equal(t, Rect{X: 10, Y: 20, Width: 20, Height: 20}, r)
	assert.Equal(t, image.Rect(10, 20, 30, 40), r.Image())
}

func TestShapeClassString(t *testing.T) {
	assert.Equal(t, "circular", ShapeCircular.String())
	assert.Equal(t, "rectangular", ShapeRectangular.String())
}

// ============================================================================
// QuestionImageMap Tests
// ============================================================================

func TestQuestionImageMap(t *testing.T) {
	var m QuestionImageMap
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Get(1))

	m.Append(3, "a.png")
	m.Append(1, "b.png")
	m.Append(3, "c.png")

	assert.Equal(t, []int{3, 1}, m.Numbers())
	assert.Equal(t, []string{"a.png", "c.png"}, m.Get(3))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 3, m.Total())
}

func TestQuestionImageMap_NilSafe(t *testing.T) {
	var m *QuestionImageMap
	assert.Nil(t, m.Get(1))
	assert.Nil(t, m.Numbers())
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.Total())
}

// ============================================================================
// Block Tests
// ============================================================================

func TestBlockTypes(t *testing.T) {
	var blocks []Block = []Block{&Question{Number: 1}, &Passage{Label: "I"}}
	assert.Equal(t, BlockTypeQuestion, blocks[0].Type())
	assert.Equal(t, BlockTypePassage, blocks[1].Type())
	assert.Equal(t, "Passage", BlockTypePassage.String())
}

func TestAppendBody(t *testing.T) {
	q := &Question{}
	q.AppendBody("first")
	q.AppendBody("second")
	assert.Equal(t, "first\nsecond", q.Body)

	var a Arrangement
	a.AppendLine("A > B")
	assert.Equal(t, "A > B", a.Body)
}

func TestQuestions(t *testing.T) {
	q1 := &Question{Number: 1}
	q2 := &Question{Number: 2}
	q3 := &Question{Number: 3}
	blocks := []Block{q1, &Passage{Questions: []*Question{q2, q3}}}

	got := Questions(blocks)
	require.Len(t, got, 3)
	assert.Same(t, q2, got[1])
}

func TestMerge(t *testing.T) {
	q1 := &Question{Number: 1}
	q2 := &Question{Number: 2}
	blocks := []Block{q1, q2}

	m := NewQuestionImageMap()
	m.Append(2, "p1_q2_1.png")
	m.Append(2, "p1_q2_2.png")
	m.Append(9, "p2_q9_1.png")

	unmatched := Merge(blocks, m)

	assert.Empty(t, q1.Images)
	assert.Equal(t, []string{"p1_q2_1.png", "p1_q2_2.png"}, q2.Images)
	assert.Equal(t, []int{9}, unmatched)

	// The question owns a copy.
	q2.Images[0] = "changed"
	assert.Equal(t, "p1_q2_1.png", m.Get(2)[0])
}

func TestMerge_NilMap(t *testing.T) {
	q := &Question{Number: 1}
	assert.Nil(t, Merge([]Block{q}, nil))
	assert.Empty(t, q.Images)
}

func TestSummary(t *testing.T) {
	q := &Question{Body: "What   is\n2+2?"}
	assert.Equal(t, "What is 2+2?", q.Summary())

	long := &Question{Body: "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz"}
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyzabcdefghijklmn...", long.Summary())
}
