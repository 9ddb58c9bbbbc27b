// Package ocr finds words and their positions in page images.
//
// The Tesseract engine is wrapped via gosseract and only compiled in with
// the "ocr" build tag:
//
//	go build -tags ocr
//
// Tesseract must be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Without the tag, New returns ErrOCRNotEnabled.
package ocr

import (
	"errors"
	"image"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Word is one recognized token and its box in image pixels.
type Word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64 // 0-100, as reported by Tesseract
}

// Recognizer returns the words found in an encoded image.
type Recognizer interface {
	Words(img []byte) ([]Word, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(img []byte) ([]Word, error)

// Words calls f(img).
func (f RecognizerFunc) Words(img []byte) ([]Word, error) {
	return f(img)
}
