package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tsawler/quizdeck/model"
	"github.com/tsawler/quizdeck/variant"
)

// Common errors
var (
	ErrNoBlocks               = errors.New("no questions or passages found")
	ErrQuestionWithoutOptions = errors.New("question has no options")
)

// State is a block parser state.
type State int

const (
	StateSeeking State = iota
	StateInDirection
	StateInArrangement
	StateInQuestion
	StateInPassage
	// StateInPassageQuestions is the question block that follows a passage
	// body.
	StateInPassageQuestions
)

func (s State) String() string {
	switch s {
	case StateSeeking:
		return "Seeking"
	case StateInDirection:
		return "InDirection"
	case StateInArrangement:
		return "InArrangement"
	case StateInQuestion:
		return "InQuestion"
	case StateInPassage:
		return "InPassage"
	case StateInPassageQuestions:
		return "InPassageQuestions"
	default:
		return "Unknown"
	}
}

// Warning is a recoverable oddity found while parsing.
type Warning struct {
	Line    int // 1-based; 0 when not tied to a line
	Message string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	return w.Message
}

// Result is the parser output.
type Result struct {
	Blocks   []model.Block
	Warnings []Warning
	// Fallback is set when the looser numbered-segment strategy produced
	// the blocks.
	Fallback bool
}

// Questions returns every question in document order.
func (r *Result) Questions() []*model.Question {
	return model.Questions(r.Blocks)
}

// Parser splits flattened document lines into blocks using one grammar.
// A Parser is safe for concurrent use; each Parse call keeps its own state.
type Parser struct {
	g      *grammar
	logger *slog.Logger
}

// New compiles g. A nil logger discards output.
func New(g variant.Grammar, logger *slog.Logger) (*Parser, error) {
	compiled, err := compile(g)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{g: compiled, logger: logger}, nil
}

// Parse runs the state machine over lines. It returns ErrNoBlocks when no
// question or passage was found and an error wrapping
// ErrQuestionWithoutOptions when a question closes without options.
func (p *Parser) Parse(lines []string) (*Result, error) {
	r := &run{g: p.g, logger: p.logger}
	for i, line := range lines {
		if err := r.feed(i+1, line); err != nil {
			return nil, err
		}
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	if len(r.blocks) == 0 {
		return nil, ErrNoBlocks
	}
	p.logger.Debug("parsed blocks",
		"blocks", len(r.blocks),
		"questions", len(model.Questions(r.blocks)),
		"warnings", len(r.warnings))
	return &Result{Blocks: r.blocks, Warnings: r.warnings}, nil
}

// rawQuestion is an unsplit passage question.
type rawQuestion struct {
	line   int
	number int
	text   string
}

// run is the mutable state of one Parse call.
type run struct {
	g      *grammar
	logger *slog.Logger

	state    State
	blocks   []model.Block
	warnings []Warning

	direction   *model.Direction
	arrangement *model.Arrangement
	arrangedAt  int

	question   *model.Question
	questionAt int

	passage  *model.Passage
	pending  []rawQuestion
	blankRun int

	lastNumber int
}

func (r *run) warn(line int, format string, args ...any) {
	w := Warning{Line: line, Message: fmt.Sprintf(format, args...)}
	r.warnings = append(r.warnings, w)
	r.logger.Warn("parser", "line", line, "warning", w.Message)
}

func (r *run) feed(lineNo int, raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" {
		if r.state == StateInPassage {
			r.blankRun++
			if r.blankRun >= r.g.passageBreak {
				r.state = StateInPassageQuestions
			}
		}
		return nil
	}
	r.blankRun = 0
	return r.dispatch(lineNo, line)
}

func (r *run) dispatch(lineNo int, line string) error {
	g := r.g

	if g.isPassage(line) {
		if err := r.closeAll(); err != nil {
			return err
		}
		r.passage = &model.Passage{Label: line, Direction: r.direction}
		r.state = StateInPassage
		return nil
	}

	if g.isDirection(line) {
		if err := r.closeAll(); err != nil {
			return err
		}
		r.direction = &model.Direction{Body: line}
		r.state = StateInDirection
		return nil
	}

	if r.state == StateInArrangement {
		if g.isArrangementLine(line) {
			r.arrangement.AppendLine(strings.TrimSpace(strings.ReplaceAll(line, "**", "")))
			if !strings.HasSuffix(line, ",") {
				r.state = StateSeeking
			}
			return nil
		}
		r.state = StateSeeking
	}

	switch r.state {
	case StateInPassage:
		if !g.discarded(line) {
			r.passage.AppendBody(line)
		}
		return nil
	case StateInPassageQuestions:
		r.feedPassageQuestion(lineNo, line)
		return nil
	}

	if g.isArrangementMarker(line) {
		if err := r.closeQuestion(); err != nil {
			return err
		}
		if r.arrangement != nil {
			r.warn(r.arrangedAt, "arrangement replaced before any question used it")
		}
		r.arrangement = &model.Arrangement{Body: line}
		r.arrangedAt = lineNo
		r.state = StateInArrangement
		return nil
	}

	// An option wins over a question marker only while a question is open.
	if r.question != nil && g.isOption(line) {
		r.addOptions(line)
		return nil
	}

	if n, rest, ok := g.questionNumber(line); ok {
		if n > r.lastNumber {
			if err := r.closeQuestion(); err != nil {
				return err
			}
			r.openQuestion(lineNo, n, rest)
			return nil
		}
		r.warn(lineNo, "question number %d does not follow %d; kept as text", n, r.lastNumber)
	}

	switch {
	case r.question != nil:
		if !g.discarded(line) {
			r.question.AppendBody(line)
		}
	case r.state == StateInDirection:
		r.direction.AppendLine(line)
	default:
		r.logger.Debug("dropping line outside any block", "line", lineNo, "state", r.state.String())
	}
	return nil
}

func (r *run) openQuestion(lineNo, number int, rest string) {
	q := &model.Question{
		Number:      number,
		Direction:   r.direction,
		Arrangement: r.arrangement,
	}
	rest = strings.TrimSpace(strings.ReplaceAll(rest, "**", ""))
	if r.g.inlineOptions {
		head, opts := splitInline(rest)
		rest = head
		q.Options = opts
	}
	q.Body = rest

	r.arrangement = nil
	r.question = q
	r.questionAt = lineNo
	r.lastNumber = number
	r.state = StateInQuestion
}

func (r *run) addOptions(line string) {
	if r.g.inlineOptions {
		if _, opts := splitInline(line); len(opts) > 0 {
			r.question.Options = append(r.question.Options, opts...)
			return
		}
	}
	r.question.AddOption(cleanOption(line))
}

func (r *run) closeQuestion() error {
	q := r.question
	if q == nil {
		return nil
	}
	r.question = nil
	if len(q.Options) == 0 {
		return fmt.Errorf("question %d at line %d: %w", q.Number, r.questionAt, ErrQuestionWithoutOptions)
	}
	r.blocks = append(r.blocks, q)
	r.state = StateSeeking
	return nil
}

func (r *run) feedPassageQuestion(lineNo int, line string) {
	if n, _, ok := matchNumber(r.g.passageQuestion, line); ok {
		if n > r.lastNumber {
			r.pending = append(r.pending, rawQuestion{line: lineNo, number: n, text: line})
			r.lastNumber = n
			return
		}
		r.warn(lineNo, "question number %d does not follow %d; kept as text", n, r.lastNumber)
	}
	if len(r.pending) == 0 {
		r.passage.AppendBody(line)
		return
	}
	last := &r.pending[len(r.pending)-1]
	last.text += "\n" + line
}

func (r *run) closePassage() error {
	p := r.passage
	if p == nil {
		return nil
	}
	r.passage = nil
	for _, raw := range r.pending {
		body, options := splitPassageQuestion(raw.text)
		if len(options) == 0 {
			return fmt.Errorf("question %d at line %d: %w", raw.number, raw.line, ErrQuestionWithoutOptions)
		}
		p.Questions = append(p.Questions, &model.Question{
			Number:  raw.number,
			Body:    body,
			Options: options,
		})
	}
	r.pending = nil
	if p.Body == "" {
		r.warn(0, "%s has an empty body", p.Label)
	}
	r.blocks = append(r.blocks, p)
	r.state = StateSeeking
	return nil
}

func (r *run) closeAll() error {
	if err := r.closeQuestion(); err != nil {
		return err
	}
	return r.closePassage()
}

func (r *run) finish() error {
	if err := r.closeAll(); err != nil {
		return err
	}
	if r.arrangement != nil {
		r.warn(r.arrangedAt, "arrangement has no following question")
	}
	return nil
}
