package quizdeck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/quizdeck/format"
	"github.com/tsawler/quizdeck/ocr"
	"github.com/tsawler/quizdeck/parser"
	"github.com/tsawler/quizdeck/raster"
)

var (
	// ErrInvalidConfig is returned for out-of-range configuration values.
	ErrInvalidConfig = errors.New("quizdeck: invalid configuration")

	// ErrNoInput is returned when Convert is called without a source path.
	ErrNoInput = errors.New("quizdeck: no input document")
)

// Kind classifies a conversion failure.
type Kind int

const (
	// KindIO covers filesystem failures and anything not classified below.
	KindIO Kind = iota
	// KindEnvironment means a required external binary or engine is missing.
	// It is not worth retrying.
	KindEnvironment
	// KindParse means neither the grammar nor the fallback found any record.
	KindParse
	// KindStructural means a question closed with zero options.
	KindStructural
	// KindRender means the presentation could not be written.
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindEnvironment:
		return "environment"
	case KindParse:
		return "parse"
	case KindStructural:
		return "structural"
	case KindRender:
		return "render"
	default:
		return "io"
	}
}

// Error is a failed conversion.
type Error struct {
	Kind Kind
	Op   string // pipeline stage, e.g. "parse"
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("quizdeck: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or KindIO when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}

// newError wraps err for stage op. Known sentinels decide the kind; fallback
// applies otherwise.
func newError(op string, fallback Kind, err error) *Error {
	return &Error{Kind: classify(err, fallback), Op: op, Err: err}
}

func classify(err error, fallback Kind) Kind {
	switch {
	case errors.Is(err, raster.ErrRendererUnavailable), errors.Is(err, ocr.ErrOCRNotEnabled):
		return KindEnvironment
	case errors.Is(err, parser.ErrQuestionWithoutOptions):
		return KindStructural
	case errors.Is(err, parser.ErrNoBlocks),
		errors.Is(err, format.ErrNotDOCX),
		errors.Is(err, format.ErrNoContent):
		return KindParse
	}
	return fallback
}

// Warning is a non-fatal problem met during conversion, such as a page that
// did not render.
type Warning struct {
	Stage   string
	Message string
}

func (w Warning) String() string {
	return w.Stage + ": " + w.Message
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
