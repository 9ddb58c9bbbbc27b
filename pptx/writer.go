// Package pptx writes and reads PPTX (Office Open XML Presentation) files.
//
// Writer renders a laid-out deck from package layout into a self-contained
// presentation: one blank master and layout, a theme, and one slide part per
// slide with its pictures copied into ppt/media. Reader parses the slide
// text, positions, run formatting and pictures back out of a file.
package pptx

import (
	"archive/zip"
	"cmp"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tsawler/quizdeck/layout"
	"github.com/tsawler/quizdeck/variant"
)

// Common errors
var (
	ErrNoSlides         = errors.New("deck has no slides")
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// Writer renders decks to PPTX files.
type Writer struct {
	// Title is stored in the document properties.
	Title  string
	logger *slog.Logger
	now    func() time.Time
}

// NewWriter creates a Writer. A nil logger discards output.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{logger: logger.With("stage", "pptx"), now: time.Now}
}

// Render writes deck to path, creating the parent directory if needed. The
// file is written under a temporary name and renamed into place, so a failed
// render never leaves a partial presentation at path.
func (w *Writer) Render(deck *layout.Deck, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".quizdeck-*.pptx")
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := w.Encode(deck, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving output into place: %w", err)
	}
	w.logger.Info("wrote presentation", "path", path, "slides", len(deck.Slides))
	return nil
}

// Encode writes deck as a PPTX archive to out.
func (w *Writer) Encode(deck *layout.Deck, out io.Writer) error {
	if deck == nil || len(deck.Slides) == 0 {
		return ErrNoSlides
	}
	media, err := collectMedia(deck)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	e := &encoder{zw: zw}

	e.putXML("[Content_Types].xml", contentTypes(deck, media))
	e.putXML("_rels/.rels", relationshipsOut{
		Xmlns: nsPackageRels,
		Rels: []relationshipOut{
			{ID: "rId1", Type: relOfficeDocument, Target: "ppt/presentation.xml"},
			{ID: "rId2", Type: relCoreProps, Target: "docProps/core.xml"},
			{ID: "rId3", Type: relExtendedProps, Target: "docProps/app.xml"},
		},
	})

	stamp := w.now().UTC().Format(time.RFC3339)
	e.putString("docProps/core.xml", fmt.Sprintf(coreXMLFormat, escape(cmp.Or(w.Title, "Presentation")), stamp, stamp))
	e.putString("docProps/app.xml", fmt.Sprintf(appXMLFormat, len(deck.Slides)))

	e.putXML("ppt/presentation.xml", presentation(deck))
	e.putXML("ppt/_rels/presentation.xml.rels", presentationRels(len(deck.Slides)))
	e.putString("ppt/slideMasters/slideMaster1.xml", slideMasterXML)
	e.putString("ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML)
	e.putString("ppt/slideLayouts/slideLayout1.xml", slideLayoutXML)
	e.putString("ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML)
	e.putString("ppt/theme/theme1.xml", themeXML)
	e.putString("ppt/presProps.xml", presPropsXML)
	e.putString("ppt/viewProps.xml", viewPropsXML)
	e.putString("ppt/tableStyles.xml", tableStylesXML)

	for i, s := range deck.Slides {
		sld, rels := slide(s, deck.Background, media)
		n := strconv.Itoa(i + 1)
		e.putXML("ppt/slides/slide"+n+".xml", sld)
		e.putXML("ppt/slides/_rels/slide"+n+".xml.rels", rels)
	}
	for _, m := range media.parts {
		e.putFile("ppt/media/"+m.name, m.source)
	}

	if e.err != nil {
		zw.Close()
		return e.err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	w.logger.Debug("encoded presentation", "slides", len(deck.Slides), "media", len(media.parts))
	return nil
}

// encoder writes archive entries and keeps the first error.
type encoder struct {
	zw  *zip.Writer
	err error
}

func (e *encoder) create(name string) io.Writer {
	if e.err != nil {
		return nil
	}
	f, err := e.zw.Create(name)
	if err != nil {
		e.err = fmt.Errorf("creating %s: %w", name, err)
		return nil
	}
	return f
}

func (e *encoder) putString(name, body string) {
	if f := e.create(name); f != nil {
		if _, err := io.WriteString(f, body); err != nil {
			e.err = fmt.Errorf("writing %s: %w", name, err)
		}
	}
}

func (e *encoder) putXML(name string, v any) {
	data, err := xml.Marshal(v)
	if err != nil {
		if e.err == nil {
			e.err = fmt.Errorf("encoding %s: %w", name, err)
		}
		return
	}
	e.putString(name, xml.Header+string(data))
}

func (e *encoder) putFile(name, source string) {
	f := e.create(name)
	if f == nil {
		return
	}
	src, err := os.Open(source)
	if err != nil {
		e.err = fmt.Errorf("adding media %s: %w", source, err)
		return
	}
	defer src.Close()
	if _, err := io.Copy(f, src); err != nil {
		e.err = fmt.Errorf("copying media %s: %w", source, err)
	}
}

// mediaPart is one image file stored once in ppt/media.
type mediaPart struct {
	name   string // e.g. "image3.png"
	source string
	ext    string
}

type mediaSet struct {
	parts  []mediaPart
	byPath map[string]int
}

// collectMedia assigns a part name to every distinct picture path.
func collectMedia(deck *layout.Deck) (*mediaSet, error) {
	m := &mediaSet{byPath: make(map[string]int)}
	for _, s := range deck.Slides {
		for _, p := range s.Pictures() {
			if _, ok := m.byPath[p.Path]; ok {
				continue
			}
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(p.Path), "."))
			if _, ok := imageContentTypes[ext]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, p.Path)
			}
			m.byPath[p.Path] = len(m.parts)
			m.parts = append(m.parts, mediaPart{
				name:   "image" + strconv.Itoa(len(m.parts)+1) + "." + ext,
				source: p.Path,
				ext:    ext,
			})
		}
	}
	return m, nil
}

func (m *mediaSet) lookup(path string) mediaPart {
	return m.parts[m.byPath[path]]
}

func contentTypes(deck *layout.Deck, media *mediaSet) contentTypesOut {
	ct := contentTypesOut{
		Xmlns: nsContentTypes,
		Defaults: []defaultOut{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: ctXML},
		},
		Overrides: []overrideOut{
			{PartName: "/ppt/presentation.xml", ContentType: ctPresentation},
			{PartName: "/ppt/slideMasters/slideMaster1.xml", ContentType: ctSlideMaster},
			{PartName: "/ppt/slideLayouts/slideLayout1.xml", ContentType: ctSlideLayout},
			{PartName: "/ppt/theme/theme1.xml", ContentType: ctTheme},
			{PartName: "/ppt/presProps.xml", ContentType: ctPresProps},
			{PartName: "/ppt/viewProps.xml", ContentType: ctViewProps},
			{PartName: "/ppt/tableStyles.xml", ContentType: ctTableStyles},
			{PartName: "/docProps/core.xml", ContentType: ctCoreProps},
			{PartName: "/docProps/app.xml", ContentType: ctExtProps},
		},
	}
	seen := make(map[string]bool)
	for _, p := range media.parts {
		if seen[p.ext] {
			continue
		}
		seen[p.ext] = true
		ct.Defaults = append(ct.Defaults, defaultOut{Extension: p.ext, ContentType: imageContentTypes[p.ext]})
	}
	for i := range deck.Slides {
		ct.Overrides = append(ct.Overrides, overrideOut{
			PartName:    "/ppt/slides/slide" + strconv.Itoa(i+1) + ".xml",
			ContentType: ctSlide,
		})
	}
	return ct
}

// Relationship IDs in presentation.xml.rels: rId1 is the master, slides
// follow from rId2, then theme and property parts.
func presentation(deck *layout.Deck) presentationOut {
	p := presentationOut{
		XmlnsA:          nsDrawingML,
		XmlnsR:          nsRelationships,
		XmlnsP:          nsPresentationML,
		SaveSubsetFonts: "1",
		MasterIDs:       masterIDListOut{ID: []idOut{{ID: 2147483648, RID: "rId1"}}},
		SldSz:           sldSzOut{Cx: int64(deck.Width), Cy: int64(deck.Height)},
		NotesSz:         extentOut{Cx: 6858000, Cy: 9144000},
	}
	for i := range deck.Slides {
		p.SlideIDs.ID = append(p.SlideIDs.ID, idOut{ID: int64(256 + i), RID: "rId" + strconv.Itoa(i+2)})
	}
	return p
}

func presentationRels(slides int) relationshipsOut {
	rels := relationshipsOut{
		Xmlns: nsPackageRels,
		Rels:  []relationshipOut{{ID: "rId1", Type: relSlideMaster, Target: "slideMasters/slideMaster1.xml"}},
	}
	for i := 0; i < slides; i++ {
		rels.Rels = append(rels.Rels, relationshipOut{
			ID:     "rId" + strconv.Itoa(i+2),
			Type:   relSlide,
			Target: "slides/slide" + strconv.Itoa(i+1) + ".xml",
		})
	}
	next := slides + 2
	for _, r := range []struct{ typ, target string }{
		{relTheme, "theme/theme1.xml"},
		{relPresProps, "presProps.xml"},
		{relViewProps, "viewProps.xml"},
		{relTableStyles, "tableStyles.xml"},
	} {
		rels.Rels = append(rels.Rels, relationshipOut{ID: "rId" + strconv.Itoa(next), Type: r.typ, Target: r.target})
		next++
	}
	return rels
}

// slide converts one slide spec. rId1 of each slide points at the layout;
// pictures take rId2 onwards, one per distinct image on the slide.
func slide(s layout.SlideSpec, bg variant.Color, media *mediaSet) (sldOut, relationshipsOut) {
	rels := relationshipsOut{
		Xmlns: nsPackageRels,
		Rels:  []relationshipOut{{ID: "rId1", Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"}},
	}
	embeds := make(map[string]string)
	embed := func(path string) string {
		if id, ok := embeds[path]; ok {
			return id
		}
		id := "rId" + strconv.Itoa(len(rels.Rels)+1)
		rels.Rels = append(rels.Rels, relationshipOut{ID: id, Type: relImage, Target: "../media/" + media.lookup(path).name})
		embeds[path] = id
		return id
	}

	sld := sldOut{
		XmlnsA: nsDrawingML,
		XmlnsR: nsRelationships,
		XmlnsP: nsPresentationML,
		CSld: cSldOut{
			Bg: &bgOut{BgPr: bgPrOut{Fill: fill(bg)}},
			SpTree: spTreeOut{
				NvGrpSpPr: nvGrpSpPrOut{CNvPr: cNvPrOut{ID: 1}},
				GrpSpPr: grpSpPrOut{Xfrm: xfrmOut{
					ChOff: &pointOut{},
					ChExt: &extentOut{},
				}},
			},
		},
	}

	for i, el := range s.Elements() {
		id := i + 2
		switch el := el.(type) {
		case *layout.TextBox:
			sld.CSld.SpTree.Shapes = append(sld.CSld.SpTree.Shapes, textShape(id, el))
		case *layout.Picture:
			sld.CSld.SpTree.Shapes = append(sld.CSld.SpTree.Shapes, &picOut{
				NvPicPr: nvPicPrOut{
					CNvPr:    cNvPrOut{ID: id, Name: cmp.Or(el.Name, "Picture "+strconv.Itoa(id))},
					CNvPicPr: cNvPicPrOut{PicLocks: picLocksOut{NoChangeAspect: "1"}},
				},
				BlipFill: blipFillOut{Blip: blipOut{Embed: embed(el.Path)}},
				SpPr:     spPrOut{Xfrm: xfrm(el.Box), PrstGeom: rect()},
			})
		case *layout.Shape:
			f := fill(el.Fill)
			sld.CSld.SpTree.Shapes = append(sld.CSld.SpTree.Shapes, &spOut{
				NvSpPr: nvSpPrOut{CNvPr: cNvPrOut{ID: id, Name: cmp.Or(el.Name, "Rectangle "+strconv.Itoa(id))}},
				SpPr:   spPrOut{Xfrm: xfrm(el.Box), PrstGeom: rect(), SolidFill: &f, Ln: &lnOut{}},
			})
		}
	}
	return sld, rels
}

func textShape(id int, t *layout.TextBox) *spOut {
	body := &txBodyOut{BodyPr: bodyPrOut{Wrap: "square", Anchor: "t"}}
	for _, p := range t.Paragraphs {
		body.P = append(body.P, paragraphs(p)...)
	}
	if len(body.P) == 0 {
		body.P = []pOut{{}}
	}
	return &spOut{
		NvSpPr: nvSpPrOut{
			CNvPr:   cNvPrOut{ID: id, Name: cmp.Or(t.Name, "TextBox "+strconv.Itoa(id))},
			CNvSpPr: cNvSpPrOut{TxBox: "1"},
		},
		SpPr:   spPrOut{Xfrm: xfrm(t.Box), PrstGeom: rect(), NoFill: &struct{}{}},
		TxBody: body,
	}
}

// paragraphs splits p on newlines; each line is its own paragraph in the
// same style and only the last carries the spacing after.
func paragraphs(p layout.Paragraph) []pOut {
	lines := strings.Split(p.Text, "\n")
	out := make([]pOut, len(lines))
	for i, line := range lines {
		ppr := &pPrOut{Algn: alignment(p.Style.Align)}
		if i == len(lines)-1 && p.SpaceAfter > 0 {
			ppr.SpcAft = &spcOut{Pts: spcPtsOut{Val: int(math.Round(p.SpaceAfter * 100))}}
		}
		props := runProps(p.Style)
		out[i] = pOut{PPr: ppr}
		if line == "" {
			out[i].EndParaRPr = &props
			continue
		}
		out[i].R = []rOut{{RPr: props, T: line}}
	}
	return out
}

func runProps(s variant.TextStyle) rPrOut {
	f := fill(s.Color)
	r := rPrOut{
		Lang:      "en-US",
		Sz:        int(math.Round(s.Size * 100)),
		Dirty:     "0",
		SolidFill: &f,
	}
	if s.Bold {
		r.B = "1"
	}
	if s.Font != "" {
		r.Latin = &latinOut{Typeface: s.Font}
	}
	return r
}

func alignment(a variant.Align) string {
	switch a {
	case variant.AlignRight:
		return "r"
	case variant.AlignCenter:
		return "ctr"
	case variant.AlignJustify:
		return "just"
	default:
		return "l"
	}
}

func fill(c variant.Color) solidFillOut {
	return solidFillOut{Color: srgbOut{Val: c.Hex()}}
}

func xfrm(r layout.Rect) xfrmOut {
	return xfrmOut{
		Off: pointOut{X: int64(r.Left), Y: int64(r.Top)},
		Ext: extentOut{Cx: int64(r.Width), Cy: int64(r.Height)},
	}
}

func rect() prstGeomOut {
	return prstGeomOut{Prst: "rect"}
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
