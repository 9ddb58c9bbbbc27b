package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/quizdeck/model"
)

const passageDoc = "DIRECTIONS FOR QUESTIONS 1-3: Read the passage.\n" +
	"Answer the questions.\n" +
	"PASSAGE – I\n" +
	"The sun rose. Birds sang.\n" +
	"\n" +
	"Second paragraph here.\n" +
	"\n\n\n" +
	"1.\tWhat rose?\n" +
	"(A)\tThe sun\t(B)\tThe moon\n" +
	"2.\tWhat sang?\n" +
	"(A)\tBirds\n" +
	"(B)\tDogs\n" +
	"PASSAGE - II\n" +
	"Another body.\n" +
	"\n\n\n" +
	"Read carefully.\n" +
	"3.\tWhich one?\n" +
	"I.\tfirst\n" +
	"II.\tsecond"

func TestParse_Passages(t *testing.T) {
	res, err := newParser(t, "passage").Parse(lines(passageDoc))
	require.NoError(t, err)
	require.Len(t, res.Blocks, 2)

	p1, ok := res.Blocks[0].(*model.Passage)
	require.True(t, ok)
	assert.Equal(t, "PASSAGE – I", p1.Label)
	assert.Equal(t, "The sun rose. Birds sang.\nSecond paragraph here.", p1.Body)
	require.NotNil(t, p1.Direction)
	assert.Equal(t, "DIRECTIONS FOR QUESTIONS 1-3: Read the passage.\nAnswer the questions.", p1.Direction.Body)

	require.Len(t, p1.Questions, 2)
	assert.Equal(t, 1, p1.Questions[0].Number)
	assert.Equal(t, "What rose?", p1.Questions[0].Body)
	assert.Equal(t, []string{"(A) The sun", "(B) The moon"}, p1.Questions[0].Options)
	assert.Equal(t, []string{"(A) Birds", "(B) Dogs"}, p1.Questions[1].Options)

	p2 := res.Blocks[1].(*model.Passage)
	assert.Equal(t, "PASSAGE - II", p2.Label)
	assert.Equal(t, "Another body.\nRead carefully.", p2.Body)
	require.Len(t, p2.Questions, 1)
	assert.Equal(t, 3, p2.Questions[0].Number)
	assert.Equal(t, []string{"I. first", "II. second"}, p2.Questions[0].Options)

	assert.Len(t, res.Questions(), 3)
}

func TestParse_PassageBodyKeepsShortGaps(t *testing.T) {
	doc := "PASSAGE - I\nOne.\n\n\nTwo.\n\n\n\n1.\tQ?\n(A)\tyes"
	res, err := newParser(t, "passage").Parse(lines(doc))
	require.NoError(t, err)

	p := res.Blocks[0].(*model.Passage)
	assert.Equal(t, "One.\nTwo.", p.Body)
	require.Len(t, p.Questions, 1)
}

func TestParse_PassageQuestionWithoutOptions(t *testing.T) {
	doc := "PASSAGE - I\nBody.\n\n\n\n1.\tJust a question?"
	_, err := newParser(t, "passage").Parse(lines(doc))
	assert.True(t, errors.Is(err, ErrQuestionWithoutOptions))
}

func TestSplitOptionList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"no separators", "  plain  ", []string{"plain"}},
		{"tabbed letters", "(A)\tone\t(B)\ttwo", []string{"(A) one", "(B) two"}},
		{"numbers", "1)\tone\n2.\ttwo", []string{"1) one", "2. two"}},
		{"roman", "(IV)\tfour\tV)\tfive", []string{"(IV) four", "V) five"}},
		{"blank parts dropped", "a\n\n\tb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitOptionList(tt.in))
		})
	}
}

func TestSplitPassageQuestion(t *testing.T) {
	body, opts := splitPassageQuestion("4.\tWhich is true?\nconsider both\n(A)\tone\ncontinued\n(B)\ttwo")
	assert.Equal(t, "Which is true?\nconsider both", body)
	assert.Equal(t, []string{"(A) one continued", "(B) two"}, opts)
}

func TestParseFallback(t *testing.T) {
	in := []string{
		"Some intro 1. What is 2+2? (1) 3 (2) 4",
		"2. Capital of France?",
		"(1)\tParis",
		"(2) Rome",
		"3. No options here",
	}
	res, err := ParseFallback(in)
	require.NoError(t, err)
	assert.True(t, res.Fallback)

	qs := res.Questions()
	require.Len(t, qs, 2)
	assert.Equal(t, 1, qs[0].Number)
	assert.Equal(t, "What is 2+2?", qs[0].Body)
	assert.Equal(t, []string{"(1) 3", "(2) 4"}, qs[0].Options)
	assert.Equal(t, "Capital of France?", qs[1].Body)
	assert.Equal(t, []string{"(1) Paris", "(2) Rome"}, qs[1].Options)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "segment 3")
}

func TestParseFallback_FoldsNonIncreasing(t *testing.T) {
	in := []string{"1. First (1) a", "costs 1. more (2) b", "2. Second (1) c"}
	res, err := ParseFallback(in)
	require.NoError(t, err)

	qs := res.Questions()
	require.Len(t, qs, 2)
	assert.Equal(t, []string{"(1) a", "(2) b"}, qs[0].Options)
	assert.Equal(t, 2, qs[1].Number)
}

func TestParseFallback_NothingFound(t *testing.T) {
	_, err := ParseFallback([]string{"no markers at all", "(1) stray option"})
	assert.True(t, errors.Is(err, ErrNoBlocks))
}

// Zero question markers: the primary grammar fails, the fallback is tried,
// and when it also finds nothing the caller gets ErrNoBlocks.
func TestParse_FallbackChain(t *testing.T) {
	in := lines("Intro text without structure\nmore prose")
	_, err := newParser(t, "mcq1").Parse(in)
	require.True(t, errors.Is(err, ErrNoBlocks))

	_, err = ParseFallback(in)
	assert.True(t, errors.Is(err, ErrNoBlocks))
}
