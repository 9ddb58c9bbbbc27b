// Package format detects and checks the file formats quizdeck reads and
// writes.
package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a recognised file format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// PPTX indicates a Microsoft PowerPoint (.pptx) presentation.
	PPTX
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// PNG indicates a PNG image.
	PNG
)

// Common errors
var (
	ErrNotDOCX   = errors.New("input is not a Word document")
	ErrNotPPTX   = errors.New("output must be a .pptx file")
	ErrNoContent = errors.New("document has no word/document.xml part")
)

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case DOCX:
		return "DOCX"
	case PPTX:
		return "PPTX"
	case XLSX:
		return "XLSX"
	case PNG:
		return "PNG"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case DOCX:
		return ".docx"
	case PPTX:
		return ".pptx"
	case XLSX:
		return ".xlsx"
	case PNG:
		return ".png"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".pptx":
		return PPTX
	case ".xlsx":
		return XLSX
	case ".png":
		return PNG
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes. ZIP-based formats cannot be told
// apart this way and report Unknown; use DetectFromReader for those.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return PDF
	case bytes.HasPrefix(data, pngMagic):
		return PNG
	default:
		return Unknown
	}
}

// DetectFromReader inspects the content to determine format. Unlike Detect
// it distinguishes the Office Open XML formats by their part names.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, zipMagic) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// detectZIPFormat inspects a ZIP archive for Office Open XML part prefixes.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		}
	}
	return Unknown, nil
}

// DetectFile opens path and detects its format from content.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Unknown, err
	}
	return DetectFromReader(f, info.Size())
}

// CheckInput verifies that path is a Word document with a main document
// part, whatever its extension.
func CheckInput(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotDOCX, path)
	}

	got, err := DetectFromReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotDOCX, err)
	}
	if got != DOCX {
		return fmt.Errorf("%w: %s looks like %s", ErrNotDOCX, path, got)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotDOCX, err)
	}
	for _, zf := range zr.File {
		if zf.Name == "word/document.xml" {
			return nil
		}
	}
	return ErrNoContent
}

// CheckOutput verifies that path names a .pptx file.
func CheckOutput(path string) error {
	if Detect(path) != PPTX {
		return fmt.Errorf("%w: %q", ErrNotPPTX, path)
	}
	return nil
}
