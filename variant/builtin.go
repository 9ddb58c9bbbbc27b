package variant

import (
	"fmt"
	"sort"
)

const (
	defaultQuestionPattern = `^\*{0,2}(\d{1,2})\.(?:\*\*)?\s*`
	defaultFont            = "Arial"
)

var defaultOptionPatterns = []string{
	`^\(\d+\)`,
	`^\\\(\d+\\\)`,
}

var mcqDirectionMarkers = []string{
	"Directions for questions",
	"DIRECTIONS:",
}

// defaultDetection carries the thresholds tuned for 300 DPI renders.
func defaultDetection() Detection {
	return Detection{
		AnchorPasses:    []string{"adaptive", "clahe", "gray"},
		MinAnchors:      5,
		MinArea:         10000,
		MinSide:         100,
		MinAspect:       0.2,
		MaxAspect:       5,
		MinSolidity:     0.5,
		MaxPageFraction: 0.9,
		ApproxEpsilon:   0.04,
		BlurSigma:       1.5,
		ThresholdSize:   11,
		ThresholdC:      2,
		CloseKernel:     5,
	}
}

func style(size float64, c Color, bold bool, align Align) TextStyle {
	return TextStyle{Font: defaultFont, Size: size, Color: c, Bold: bold, Align: align}
}

func mcq1() *Variant {
	return &Variant{
		Name: "mcq1",
		Grammar: Grammar{
			DirectionMarkers: cloneStrings(mcqDirectionMarkers),
			QuestionPattern:  defaultQuestionPattern,
			OptionPatterns:   cloneStrings(defaultOptionPatterns),
			InlineOptions:    true,
		},
		Layout: Layout{
			Width:        13.33,
			Height:       7.5,
			Background:   Black,
			ContentLeft:  0.4,
			ContentWidth: 0.5625,
			Question: QuestionLayout{
				Top:            0.25,
				FirstTop:       1.0,
				BottomMargin:   0.2,
				Body:           style(18, White, false, AlignJustify),
				Option:         style(18, Yellow, false, AlignLeft),
				Heading:        style(20, White, true, AlignLeft),
				Directive:      "DIRECTIONS: Select the correct alternative from the given choices.",
				DirectiveStyle: style(20, White, true, AlignLeft),
				DirectiveTop:   0.2,
				NumberPrefix:   true,
			},
			Images: ImageLayout{
				MaxHeight:    2.25,
				SideMargin:   0.4,
				BottomOffset: 2.5,
				Gap:          0.15,
				MaxAspect:    8,
			},
			Chrome: Chrome{
				Border: &Border{
					Color:        Yellow,
					Thickness:    0.15,
					TopStart:     0.25,
					TopLength:    0.75,
					BottomStart:  0,
					BottomLength: 0.75,
				},
			},
		},
		Detection: defaultDetection(),
		Padding:   Padding{Circular: 125, Rectangular: 5},
	}
}

func mcq2() *Variant {
	return &Variant{
		Name: "mcq2",
		Grammar: Grammar{
			DirectionMarkers: cloneStrings(mcqDirectionMarkers),
			QuestionPattern:  defaultQuestionPattern,
			OptionPatterns:   cloneStrings(defaultOptionPatterns),
			ArrangementMarkers: []string{
				"arrangement is as follows",
				"final arrangement",
			},
			ArrangementLinePatterns: []string{
				`^\[`,
				`^.{0,4}>`,
				`^[A-Z]\s+[A-Z]`,
				`^[A-Z]\s+>`,
				`_`,
				`^\*\*`,
				`^[A-Z]+\s+[A-Z]+`,
				`[→↑↓←]`,
			},
			DiscardPatterns: []string{`^-{5}`, `^={3}`},
			DiscardWords:    []string{"Person", "Game", "Color", "City", "Car", "Country", "Fruit"},
			MaxPipeCells:    2,
		},
		Layout: Layout{
			Width:        16,
			Height:       9,
			Background:   Black,
			ContentLeft:  0.4,
			ContentWidth: 0.58,
			Question: QuestionLayout{
				Top:          1.0,
				FirstTop:     1.0,
				BottomMargin: 0.5,
				Body:         style(25, White, false, AlignLeft),
				Option:       style(25, Yellow, false, AlignLeft),
				Heading:      style(25, White, true, AlignLeft),
				NumberPrefix: true,
			},
			Arrangement: ArrangementLayout{
				OwnSlide: true,
				Top:      0.35,
				Height:   0.3,
				Style:    style(25, White, true, AlignLeft),
			},
			Images: ImageLayout{
				MaxHeight:    3,
				SideMargin:   0.4,
				BottomOffset: 3.25,
				Gap:          0.2,
				MaxAspect:    8,
			},
		},
		Detection: defaultDetection(),
		Padding:   Padding{Circular: 50, Rectangular: 20},
	}
}

func mcq3() *Variant {
	return &Variant{
		Name: "mcq3",
		Grammar: Grammar{
			DirectionMarkers: cloneStrings(mcqDirectionMarkers),
			QuestionPattern:  defaultQuestionPattern,
			OptionPatterns:   cloneStrings(defaultOptionPatterns),
		},
		Layout: Layout{
			Width:        16,
			Height:       9,
			Background:   Black,
			ContentLeft:  0.4,
			ContentWidth: 0.58,
			Question: QuestionLayout{
				Top:          1.5,
				FirstTop:     1.5,
				BottomMargin: 0,
				Body:         style(25, White, false, AlignLeft),
				Option:       style(25, Yellow, false, AlignLeft),
				Heading:      style(25, White, true, AlignLeft),
				NumberPrefix: true,
			},
			Images: ImageLayout{
				MaxHeight:    3,
				SideMargin:   0.4,
				BottomOffset: 3.25,
				Gap:          0.2,
				MaxAspect:    8,
			},
		},
		Detection: defaultDetection(),
		Padding:   Padding{Circular: 50, Rectangular: 20},
	}
}

func passage() *Variant {
	return &Variant{
		Name: "passage",
		Grammar: Grammar{
			DirectionMarkers:       []string{"DIRECTIONS FOR QUESTION"},
			QuestionPattern:        defaultQuestionPattern,
			OptionPatterns:         cloneStrings(defaultOptionPatterns),
			PassageMarker:          `^PASSAGE\s*[–-]+\s*[IVX]+`,
			PassageBreak:           3,
			PassageQuestionPattern: `^(\d{1,2})\.\t`,
		},
		Layout: Layout{
			Width:        13.33,
			Height:       7.5,
			Background:   Black,
			ContentLeft:  0.4,
			ContentWidth: 0.58,
			Question: QuestionLayout{
				Top:          0.75,
				FirstTop:     0.75,
				BottomMargin: 0.5,
				Body:         style(21, White, false, AlignLeft),
				Option:       style(21, White, false, AlignLeft),
				Heading:      style(20, White, false, AlignJustify),
				NumberPrefix: true,
			},
			Passage: PassageLayout{
				Top:            2.25,
				TopNoTitle:     0.5,
				Height:         5.5,
				Body:           style(22, White, false, AlignJustify),
				Title:          style(22, White, true, AlignJustify),
				Direction:      style(20, White, false, AlignJustify),
				TitleTop:       0.5,
				FirstBudget:    550,
				Budget:         725,
				Continued:      "Continued",
				ContinuedBox:   Box{Left: 11.25, Top: 6.8, Width: 1.8, Height: 0.5},
				ContinuedStyle: style(18, White, false, AlignRight),
				QuestionBox:    Box{Top: 0.75, Height: 6.25},
				QuestionStyle:  style(21, White, false, AlignLeft),
			},
			Images: ImageLayout{
				MaxHeight:    2.25,
				SideMargin:   0.4,
				BottomOffset: 2.5,
				Gap:          0.15,
				MaxAspect:    8,
			},
			Chrome: Chrome{
				Border: &Border{
					Color:        Red,
					Thickness:    0.1,
					TopStart:     0.25,
					TopLength:    0.75,
					BottomStart:  0,
					BottomLength: 0.75,
				},
			},
			Title: &TitleSlide{
				Title:         "Section I - English",
				Subtitle:      "Reading Comprehension Test",
				TitleStyle:    style(40, White, true, AlignCenter),
				SubtitleStyle: style(28, White, false, AlignCenter),
			},
		},
		Detection: defaultDetection(),
		Padding:   Padding{Circular: 50, Rectangular: 20},
	}
}

var builtins = map[string]func() *Variant{
	"mcq1":    mcq1,
	"mcq2":    mcq2,
	"mcq3":    mcq3,
	"passage": passage,
}

// Default is the variant used when none is named.
const Default = "mcq1"

// Lookup returns a fresh copy of the named built-in variant.
func Lookup(name string) (*Variant, error) {
	if name == "" {
		name = Default
	}
	f, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownVariant, name, Names())
	}
	return f(), nil
}

// Names returns the built-in variant names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
