// Package docxtest builds minimal DOCX archives for tests.
package docxtest

import (
	"archive/zip"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// Write creates test.docx in a temp directory with body as the inner XML of
// <w:body>. Each media entry is stored as word/media/<name> together with an
// image relationship.
func Write(t testing.TB, body string, media map[string][]byte) string {
	t.Helper()

	docxPath := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(docxPath)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	add := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	add("[Content_Types].xml", contentTypes)
	add("_rels/.rels", packageRels)
	add("word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>`+body+`</w:body>
</w:document>`)

	names := make([]string, 0, len(media))
	for name := range media {
		names = append(names, name)
	}
	sort.Strings(names)

	var rels strings.Builder
	rels.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i, name := range names {
		add("word/media/"+name, string(media[name]))
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/%s"/>`, i+10, name)
	}
	rels.WriteString(`</Relationships>`)
	add("word/_rels/document.xml.rels", rels.String())

	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return docxPath
}

// Paragraphs renders one <w:p> per line. Tabs inside a line become <w:tab/>.
func Paragraphs(lines ...string) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString("<w:p>")
		for i, part := range strings.Split(line, "\t") {
			if i > 0 {
				sb.WriteString("<w:r><w:tab/></w:r>")
			}
			if part != "" {
				sb.WriteString(`<w:r><w:t xml:space="preserve">`)
				sb.WriteString(html.EscapeString(part))
				sb.WriteString("</w:t></w:r>")
			}
		}
		sb.WriteString("</w:p>")
	}
	return sb.String()
}

// Lines is shorthand for Write(t, Paragraphs(lines...), nil).
func Lines(t testing.TB, lines ...string) string {
	t.Helper()
	return Write(t, Paragraphs(lines...), nil)
}
