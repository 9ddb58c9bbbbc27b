package model

import "strings"

// BlockType identifies the concrete type of a Block.
type BlockType int

const (
	BlockTypeQuestion BlockType = iota
	BlockTypePassage
)

func (bt BlockType) String() string {
	switch bt {
	case BlockTypeQuestion:
		return "Question"
	case BlockTypePassage:
		return "Passage"
	default:
		return "Unknown"
	}
}

// Block is a top-level unit of parser output. It is implemented only by
// *Question and *Passage.
type Block interface {
	Type() BlockType
	block()
}

// Direction is an instruction paragraph that applies to the questions that
// follow it.
type Direction struct {
	Body string
}

// Arrangement is a seating or ordering diagram rendered as text, attached to
// the next question.
type Arrangement struct {
	Body string
}

// AppendLine adds a line to the arrangement body.
func (a *Arrangement) AppendLine(line string) {
	a.Body = appendLine(a.Body, line)
}

// AppendLine adds a line to the direction body.
func (d *Direction) AppendLine(line string) {
	d.Body = appendLine(d.Body, line)
}

// Question is a numbered question. Number is unique within a document and
// strictly increasing across Parse output.
type Question struct {
	Number      int
	Body        string
	Options     []string
	Direction   *Direction
	Arrangement *Arrangement
	Images      []string
}

// Type implements Block.
func (q *Question) Type() BlockType { return BlockTypeQuestion }

func (q *Question) block() {}

// AppendBody adds a line to the question body.
func (q *Question) AppendBody(line string) {
	q.Body = appendLine(q.Body, line)
}

// AddOption appends an option in document order.
func (q *Question) AddOption(text string) {
	q.Options = append(q.Options, text)
}

// Passage is a reading-comprehension passage followed by its questions.
type Passage struct {
	Label     string
	Body      string
	Questions []*Question
	Direction *Direction
}

// Type implements Block.
func (p *Passage) Type() BlockType { return BlockTypePassage }

func (p *Passage) block() {}

// AppendBody adds a line to the passage body.
func (p *Passage) AppendBody(line string) {
	p.Body = appendLine(p.Body, line)
}

func appendLine(body, line string) string {
	if body == "" {
		return line
	}
	return body + "\n" + line
}

// Questions returns every question in blocks, including those owned by
// passages, in document order.
func Questions(blocks []Block) []*Question {
	var out []*Question
	for _, b := range blocks {
		switch v := b.(type) {
		case *Question:
			out = append(out, v)
		case *Passage:
			out = append(out, v.Questions...)
		}
	}
	return out
}

// Merge copies image ownership from imap onto the questions in blocks. A
// question receives the image paths recorded under its number, in insertion
// order; questions without images are left untouched. Numbers in imap that
// match no question are returned so callers can report them.
func Merge(blocks []Block, imap *QuestionImageMap) (unmatched []int) {
	if imap == nil {
		return nil
	}
	seen := make(map[int]bool)
	for _, q := range Questions(blocks) {
		paths := imap.Get(q.Number)
		if len(paths) == 0 {
			continue
		}
		q.Images = append(q.Images[:0:0], paths...)
		seen[q.Number] = true
	}
	for _, n := range imap.Numbers() {
		if !seen[n] {
			unmatched = append(unmatched, n)
		}
	}
	return unmatched
}

// Summary returns a one-line description, used in logs.
func (q *Question) Summary() string {
	body := strings.Join(strings.Fields(q.Body), " ")
	if r := []rune(body); len(r) > 40 {
		body = string(r[:40]) + "..."
	}
	return body
}
