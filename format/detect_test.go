package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/quizdeck/internal/docxtest"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, "PDF"},
		{DOCX, "DOCX"},
		{PPTX, "PPTX"},
		{XLSX, "XLSX"},
		{PNG, "PNG"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, ".pdf"},
		{DOCX, ".docx"},
		{PPTX, ".pptx"},
		{XLSX, ".xlsx"},
		{PNG, ".png"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"quiz.docx", DOCX},
		{"quiz.DOCX", DOCX},
		{"deck.pptx", PPTX},
		{"deck.Pptx", PPTX},
		{"manifest.xlsx", XLSX},
		{"render.pdf", PDF},
		{"page-001.png", PNG},
		{"quiz.doc", Unknown},
		{"deck", Unknown},
		{"", Unknown},
		{"/path/to/deck.pptx", PPTX},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"PDF magic bytes", []byte("%PDF-1.4"), PDF},
		{"PNG signature", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0}, PNG},
		{"ZIP needs further inspection", []byte{0x50, 0x4B, 0x03, 0x04, 0x00}, Unknown},
		{"empty data", []byte{}, Unknown},
		{"short data", []byte{0x50, 0x4B}, Unknown},
		{"text file", []byte("Hello, World!"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func zipWith(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		w.Write([]byte("<x/>"))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pdf", []byte("%PDF-1.4\n%%EOF"), PDF},
		{"docx", zipWith(t, "[Content_Types].xml", "word/document.xml"), DOCX},
		{"pptx", zipWith(t, "[Content_Types].xml", "ppt/presentation.xml"), PPTX},
		{"xlsx", zipWith(t, "[Content_Types].xml", "xl/workbook.xml"), XLSX},
		{"plain zip", zipWith(t, "readme.txt"), Unknown},
		{"text", []byte("Hello, World! This is plain text."), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFromReader(bytes.NewReader(tt.data), int64(len(tt.data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckInput(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	good := docxtest.Lines(t, "1. Question?", "(1) yes")
	if err := CheckInput(good); err != nil {
		t.Errorf("CheckInput(valid docx) = %v", err)
	}

	// Content decides, not the extension.
	renamed := write("quiz.bin", zipWith(t, "[Content_Types].xml", "word/document.xml"))
	if err := CheckInput(renamed); err != nil {
		t.Errorf("CheckInput(renamed docx) = %v", err)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"pptx", write("deck.docx", zipWith(t, "ppt/presentation.xml")), ErrNotDOCX},
		{"text", write("notes.docx", []byte("plain text")), ErrNotDOCX},
		{"no document part", write("styles.docx", zipWith(t, "word/styles.xml")), ErrNoContent},
		{"directory", dir, ErrNotDOCX},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckInput(tt.path); !errors.Is(err, tt.want) {
				t.Errorf("CheckInput() = %v, want %v", err, tt.want)
			}
		})
	}

	if err := CheckInput(filepath.Join(dir, "missing.docx")); err == nil {
		t.Error("CheckInput(missing) = nil, want error")
	}
}

func TestCheckOutput(t *testing.T) {
	if err := CheckOutput("out/deck.PPTX"); err != nil {
		t.Errorf("CheckOutput(.PPTX) = %v", err)
	}
	for _, path := range []string{"deck.ppt", "deck", "deck.pptx.tmp"} {
		if err := CheckOutput(path); !errors.Is(err, ErrNotPPTX) {
			t.Errorf("CheckOutput(%q) = %v, want ErrNotPPTX", path, err)
		}
	}
}

func TestDetectFile(t *testing.T) {
	path := docxtest.Lines(t, "1. Q", "(1) a")
	got, err := DetectFile(path)
	if err != nil {
		t.Fatalf("DetectFile() error = %v", err)
	}
	if got != DOCX {
		t.Errorf("DetectFile() = %v, want DOCX", got)
	}
}
