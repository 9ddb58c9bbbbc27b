package variant

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBuiltinsValidate(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			v, err := Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, name, v.Name)
			assert.NoError(t, v.Validate())
			assert.GreaterOrEqual(t, v.Layout.ContentLeft, MinContentLeft)
			assert.NotEqual(t, v.Padding.Circular, v.Padding.Rectangular)
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"mcq1", "mcq2", "mcq3", "passage"}, Names())
}

func TestLookup(t *testing.T) {
	v, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, Default, v.Name)

	_, err = Lookup("nope")
	assert.True(t, errors.Is(err, ErrUnknownVariant))
}

func TestLookup_ReturnsFreshCopy(t *testing.T) {
	a, _ := Lookup("mcq2")
	a.Grammar.DiscardWords[0] = "changed"
	b, _ := Lookup("mcq2")
	assert.Equal(t, "Person", b.Grammar.DiscardWords[0])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *Variant)
		want   string
	}{
		{"content too far left", func(v *Variant) { v.Layout.ContentLeft = 0.3 }, "content column starts at 30%"},
		{"content overflows", func(v *Variant) { v.Layout.ContentWidth = 0.7 }, "exceeds the slide"},
		{"equal padding", func(v *Variant) { v.Padding = Padding{Circular: 10, Rectangular: 10} }, "must differ"},
		{"no question pattern", func(v *Variant) { v.Grammar.QuestionPattern = "" }, "question pattern"},
		{"bad slide", func(v *Variant) { v.Layout.Width = 0 }, "slide size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := Lookup("mcq1")
			tt.mutate(v)
			err := v.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidVariant))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_PassageBoxes(t *testing.T) {
	v, _ := Lookup("passage")
	v.Layout.Passage.ContinuedBox.Left = 1
	v.Layout.Passage.QuestionBox = Box{Left: 2, Top: 1, Width: 4, Height: 5}
	err := v.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "continued footer")
	assert.Contains(t, err.Error(), "passage question box")
}

func TestValidate_Decorations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(ch *Chrome)
		want   string
	}{
		{"watermark over content", func(ch *Chrome) { ch.Watermark = &Picture{Left: 4.67, Top: 1, Width: 4} }, "watermark ends at 8.67in"},
		{"logo over content", func(ch *Chrome) { ch.Logo = &Picture{Left: 5, Top: 0.2, Width: 1} }, "logo ends at 6.00in"},
		{"zero width logo", func(ch *Chrome) { ch.Logo = &Picture{Left: 0.2, Top: 0.2} }, "logo width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := Lookup("mcq1")
			tt.mutate(&v.Layout.Chrome)
			err := v.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidVariant))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	v, _ := Lookup("mcq1")
	v.Layout.Chrome.Watermark = &Picture{Left: 0.5, Top: 2, Width: 4}
	assert.NoError(t, v.Validate())
}

func TestClone(t *testing.T) {
	v, _ := Lookup("passage")
	c := v.Clone()
	c.Layout.Chrome.Border.Color = Yellow
	c.Layout.Title.Title = "other"
	c.Detection.AnchorPasses[0] = "gray"

	assert.Equal(t, Red, v.Layout.Chrome.Border.Color)
	assert.Equal(t, "Section I - English", v.Layout.Title.Title)
	assert.Equal(t, "adaptive", v.Detection.AnchorPasses[0])
}

func TestParse_Overlay(t *testing.T) {
	doc := `
base: mcq2
name: house
layout:
  background: "#102030"
  question:
    option:
      color: "00FF00"
padding:
  circular: 80
`
	v, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "house", v.Name)
	assert.Equal(t, Color{0x10, 0x20, 0x30}, v.Layout.Background)
	assert.Equal(t, Color{0, 255, 0}, v.Layout.Question.Option.Color)
	// Untouched fields keep the base values.
	assert.Equal(t, 25.0, v.Layout.Question.Option.Size)
	assert.Equal(t, 80, v.Padding.Circular)
	assert.Equal(t, 20, v.Padding.Rectangular)
	assert.True(t, v.Layout.Arrangement.OwnSlide)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown base", "base: nope\n"},
		{"unknown field", "base: mcq1\nbogus: 1\n"},
		{"bad color", "layout:\n  background: red\n"},
		{"invalid result", "padding:\n  circular: 5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.yaml")
	t.Setenv("QUIZDECK_LOGO", "/opt/logo.png")
	require.NoError(t, os.WriteFile(path, []byte(`
base: mcq1
layout:
  chrome:
    logo:
      path: ${QUIZDECK_LOGO}
      left: 0.2
      top: 0.2
      width: 1
`), 0o644))

	v, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, v.Layout.Chrome.Logo)
	assert.Equal(t, "/opt/logo.png", v.Layout.Chrome.Logo.Path)
	require.NotNil(t, v.Layout.Chrome.Border)
}

func TestColorYAML(t *testing.T) {
	type doc struct {
		C Color `yaml:"c"`
	}
	out, err := yaml.Marshal(doc{Yellow})
	require.NoError(t, err)
	assert.Contains(t, string(out), "#FFFF00")

	var back doc
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, Yellow, back.C)

	_, err = ParseColor("#12345")
	assert.Error(t, err)
}
