package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tsawler/quizdeck/variant"
)

// grammar is a compiled variant.Grammar.
type grammar struct {
	directionMarkers   []string
	question           *regexp.Regexp
	options            []*regexp.Regexp
	inlineOptions      bool
	arrangementMarkers []string
	arrangementLines   []*regexp.Regexp
	discard            []*regexp.Regexp
	discardWords       map[string]bool
	maxPipeCells       int
	passage            *regexp.Regexp
	passageBreak       int
	passageQuestion    *regexp.Regexp
}

func compile(g variant.Grammar) (*grammar, error) {
	c := &grammar{
		directionMarkers:   lowerAll(g.DirectionMarkers),
		inlineOptions:      g.InlineOptions,
		arrangementMarkers: lowerAll(g.ArrangementMarkers),
		discardWords:       make(map[string]bool, len(g.DiscardWords)),
		maxPipeCells:       g.MaxPipeCells,
		passageBreak:       g.PassageBreak,
	}

	var err error
	if c.question, err = compileNumbered("question", g.QuestionPattern); err != nil {
		return nil, err
	}
	if c.options, err = compileAll("option", g.OptionPatterns); err != nil {
		return nil, err
	}
	if c.arrangementLines, err = compileAll("arrangement", g.ArrangementLinePatterns); err != nil {
		return nil, err
	}
	if c.discard, err = compileAll("discard", g.DiscardPatterns); err != nil {
		return nil, err
	}
	if g.PassageMarker != "" {
		if c.passage, err = compileOne("passage", g.PassageMarker); err != nil {
			return nil, err
		}
		pattern := g.PassageQuestionPattern
		if pattern == "" {
			pattern = `^(\d{1,2})\.\t`
		}
		if c.passageQuestion, err = compileNumbered("passage question", pattern); err != nil {
			return nil, err
		}
		if c.passageBreak <= 0 {
			c.passageBreak = 3
		}
	}
	for _, w := range g.DiscardWords {
		c.discardWords[w] = true
	}
	return c, nil
}

func compileOne(kind, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling %s pattern %q: %w", kind, pattern, err)
	}
	return re, nil
}

// compileNumbered requires a capture group holding the question number.
func compileNumbered(kind, pattern string) (*regexp.Regexp, error) {
	re, err := compileOne(kind, pattern)
	if err != nil {
		return nil, err
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("%s pattern %q has no number group", kind, pattern)
	}
	return re, nil
}

func compileAll(kind string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := compileOne(kind, p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

func lowerAll(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = strings.ToLower(v)
	}
	return out
}

func containsAny(line string, markers []string) bool {
	if len(markers) == 0 {
		return false
	}
	lower := strings.ToLower(line)
	for _, m := range markers {
		if m != "" && strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func matchAny(line string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func (g *grammar) isDirection(line string) bool {
	return containsAny(line, g.directionMarkers)
}

func (g *grammar) isArrangementMarker(line string) bool {
	return containsAny(line, g.arrangementMarkers)
}

func (g *grammar) isArrangementLine(line string) bool {
	return matchAny(line, g.arrangementLines)
}

func (g *grammar) isOption(line string) bool {
	return matchAny(line, g.options)
}

func (g *grammar) isPassage(line string) bool {
	return g.passage != nil && g.passage.MatchString(line)
}

// questionNumber reports the question number on line and the body text after
// the marker.
func (g *grammar) questionNumber(line string) (int, string, bool) {
	return matchNumber(g.question, line)
}

func matchNumber(re *regexp.Regexp, line string) (int, string, bool) {
	m := re.FindStringSubmatchIndex(line)
	if m == nil {
		return 0, "", false
	}
	n := 0
	if len(m) >= 4 && m[2] >= 0 {
		for _, r := range line[m[2]:m[3]] {
			if r < '0' || r > '9' {
				return 0, "", false
			}
			n = n*10 + int(r-'0')
		}
	}
	return n, strings.TrimSpace(line[m[1]:]), true
}

// discarded reports whether line is a table artifact that never belongs to a
// body.
func (g *grammar) discarded(line string) bool {
	if g.discardWords[line] {
		return true
	}
	if matchAny(line, g.discard) {
		return true
	}
	if g.maxPipeCells > 0 && strings.Contains(line, "|") {
		if strings.Count(line, "|")+1 > g.maxPipeCells {
			return true
		}
	}
	return false
}
