package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsawler/quizdeck/model"
)

// segmentStart finds "N. " at the start of the text or after whitespace.
var segmentStart = regexp.MustCompile(`(?:^|\s)(\d{1,2})\.\s+`)

// fallbackOption matches an "(N)" option marker.
var fallbackOption = regexp.MustCompile(`\((\d+)\)`)

// ParseFallback is the looser strategy used when the grammar finds nothing.
// All lines are joined and cut into numbered segments; a segment becomes a
// question when it embeds "(N)" option markers. Segments without options are
// skipped, and a segment whose number does not increase is folded into the
// previous segment.
func ParseFallback(lines []string) (*Result, error) {
	text := strings.Join(lines, "\n")

	type segment struct {
		number     int
		start, end int
	}
	var segs []segment
	for _, loc := range segmentStart.FindAllStringSubmatchIndex(text, -1) {
		n, _ := strconv.Atoi(text[loc[2]:loc[3]])
		if len(segs) > 0 {
			last := &segs[len(segs)-1]
			if n <= last.number {
				continue
			}
			last.end = loc[0]
		}
		segs = append(segs, segment{number: n, start: loc[1], end: len(text)})
	}

	res := &Result{Fallback: true}
	for _, s := range segs {
		content := strings.TrimSpace(text[s.start:s.end])
		q := fallbackQuestion(s.number, content)
		if q == nil {
			res.Warnings = append(res.Warnings, Warning{
				Message: "segment " + strconv.Itoa(s.number) + " has no options; skipped",
			})
			continue
		}
		res.Blocks = append(res.Blocks, q)
	}
	if len(res.Blocks) == 0 {
		return nil, ErrNoBlocks
	}
	return res, nil
}

func fallbackQuestion(number int, content string) *model.Question {
	locs := fallbackOption.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}
	q := &model.Question{
		Number: number,
		Body:   strings.TrimSpace(content[:locs[0][0]]),
	}
	for i, loc := range locs {
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		opt := strings.ReplaceAll(content[loc[1]:end], "\t", "")
		opt = strings.TrimSpace(opt)
		if first, _, found := strings.Cut(opt, "\n"); found {
			opt = first
		}
		q.AddOption("(" + content[loc[2]:loc[3]] + ") " + strings.TrimSpace(opt))
	}
	return q
}
