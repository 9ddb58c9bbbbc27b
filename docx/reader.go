// Package docx provides DOCX (Office Open XML) document parsing.
//
// The reader flattens a Word document into the plain text lines the block
// parser works on and exposes the embedded media parts. Inline formatting is
// discarded; tabs and line breaks are kept because the question grammars
// depend on them.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Reader provides access to DOCX document content.
type Reader struct {
	zipReader *zip.ReadCloser
	document  *documentXML
	rels      *relationshipsXML
	files     map[string]*zip.File
}

// MediaPart is an embedded binary asset stored under word/media/.
type MediaPart struct {
	Name string // base name, e.g. "image1.png"
	Data []byte
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	// Validate required files exist
	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	// Relationships are optional; a missing file leaves rels nil.
	if err := r.parseRelationships(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	if err := r.parseDocument(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	for _, name := range required {
		if _, ok := r.files[name]; !ok {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseRelationships parses the document relationships file.
func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent("word/_rels/document.xml.rels")
	if err != nil {
		return nil
	}

	r.rels = &relationshipsXML{}
	return xml.Unmarshal(data, r.rels)
}

// parseDocument parses the main document content.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent("word/document.xml")
	if err != nil {
		return err
	}

	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}
	return nil
}

// Lines returns the flattened text of the document: every body paragraph in
// document order, including those inside block content controls, followed by the text of every table cell in
// table/row/cell order. A paragraph containing line breaks contributes one
// line per break. Empty paragraphs are kept as empty lines, since blank
// runs carry structure in passage documents.
func (r *Reader) Lines() []string {
	if r.document == nil || r.document.Body == nil {
		return nil
	}
	body := r.document.Body

	var lines []string
	for i := range body.Paragraphs {
		lines = appendParagraph(lines, &body.Paragraphs[i])
	}
	for i := range body.Tables {
		lines = appendTable(lines, &body.Tables[i])
	}
	return lines
}

// Text returns Lines joined with newlines.
func (r *Reader) Text() string {
	return strings.Join(r.Lines(), "\n")
}

func appendParagraph(lines []string, p *paragraphXML) []string {
	text := normalize(p.Text())
	return append(lines, strings.Split(text, "\n")...)
}

// Media returns the embedded media parts sorted by name.
func (r *Reader) Media() ([]MediaPart, error) {
	var names []string
	for name := range r.files {
		if strings.HasPrefix(name, "word/media/") && !strings.HasSuffix(name, "/") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	parts := make([]MediaPart, 0, len(names))
	for _, name := range names {
		data, err := r.getFileContent(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		parts = append(parts, MediaPart{Name: path.Base(name), Data: data})
	}
	return parts, nil
}

// ImageRelationships returns the number of image relationships declared by
// the main document part.
func (r *Reader) ImageRelationships() int {
	if r.rels == nil {
		return 0
	}
	count := 0
	for _, rel := range r.rels.Relationships {
		if strings.HasSuffix(rel.Type, "/image") {
			count++
		}
	}
	return count
}

// normalize applies NFKC so compatibility forms (full-width digits,
// parenthesized numerals, non-breaking spaces) match ASCII patterns.
func normalize(s string) string {
	return norm.NFKC.String(s)
}
