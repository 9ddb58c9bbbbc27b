package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePDF writes a minimal PDF with the given number of blank pages.
func writePDF(t *testing.T, path string, pages int) {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))))
}

// fakeBinaries installs shell scripts standing in for soffice and pdftoppm.
// pdftoppm fails for failPage.
func fakeBinaries(t *testing.T, pages, failPage int) Config {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake binaries are shell scripts")
	}

	dir := t.TempDir()
	fixturePDF := filepath.Join(dir, "fixture.pdf")
	fixturePNG := filepath.Join(dir, "fixture.png")
	writePDF(t, fixturePDF, pages)
	writePNG(t, fixturePNG)

	soffice := filepath.Join(dir, "soffice")
	script := `#!/bin/sh
outdir=""
input=""
while [ $# -gt 0 ]; do
  case "$1" in
    --outdir) outdir="$2"; shift ;;
    -*) ;;
    *) input="$1" ;;
  esac
  shift
done
base=$(basename "$input" .docx)
cp "` + fixturePDF + `" "$outdir/$base.pdf"
`
	require.NoError(t, os.WriteFile(soffice, []byte(script), 0o755))

	pdftoppm := filepath.Join(dir, "pdftoppm")
	script = fmt.Sprintf(`#!/bin/sh
# -png -r DPI -f P -l P -singlefile PDF PREFIX
page="$5"
if [ "$page" = "%d" ]; then
  echo "render error" >&2
  exit 1
fi
cp "%s" "${10}.png"
`, failPage, fixturePNG)
	require.NoError(t, os.WriteFile(pdftoppm, []byte(script), 0o755))

	return Config{SofficePath: soffice, PdftoppmPath: pdftoppm, DPI: 150}
}

func TestPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "three.pdf")
	writePDF(t, path, 3)

	n, err := PageCount(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPageCount_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := PageCount(path)
	assert.Error(t, err)
}

func TestCheckEnvironment_Missing(t *testing.T) {
	r := New(Config{SofficePath: "quizdeck-no-such-soffice"}, nil)
	err := r.CheckEnvironment()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRendererUnavailable))

	_, err = r.Rasterize(context.Background(), "in.docx", t.TempDir())
	assert.True(t, errors.Is(err, ErrRendererUnavailable))
}

func TestDefaults(t *testing.T) {
	r := New(Config{}, nil)
	cfg := r.Config()
	assert.Equal(t, "soffice", cfg.SofficePath)
	assert.Equal(t, "pdftoppm", cfg.PdftoppmPath)
	assert.Equal(t, DefaultDPI, cfg.DPI)
	assert.Positive(t, cfg.Timeout)
}

func TestRasterize(t *testing.T) {
	cfg := fakeBinaries(t, 3, 0)
	scratch := t.TempDir()

	res, err := New(cfg, nil).Rasterize(context.Background(), "/some/where/quiz.docx", scratch)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(scratch, "pdf", "quiz.pdf"), res.PDFPath)
	assert.Equal(t, 3, res.Expected)
	assert.Equal(t, 0, res.Missing())
	require.Len(t, res.Pages, 3)
	for i, p := range res.Pages {
		assert.Equal(t, i+1, p.Number)
		assert.FileExists(t, p.Path)
	}
	assert.Equal(t, filepath.Join(scratch, "pages", "page-002.png"), res.Pages[1].Path)
}

func TestRasterize_SkipsFailedPage(t *testing.T) {
	cfg := fakeBinaries(t, 3, 2)

	res, err := New(cfg, nil).Rasterize(context.Background(), "quiz.docx", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Expected)
	assert.Equal(t, 1, res.Missing())
	assert.Equal(t, []int{2}, res.Failed)
	require.Len(t, res.Pages, 2)
	assert.Equal(t, 1, res.Pages[0].Number)
	assert.Equal(t, 3, res.Pages[1].Number)
}
