package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Reader provides access to PPTX document content.
type Reader struct {
	zipReader    *zip.ReadCloser
	presentation *presentationXML
	slides       []*Slide
	coreProps    *corePropertiesXML
}

// Open opens a PPTX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{zipReader: zr}

	// Validate required files exist
	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	if err := r.parsePresentation(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing presentation: %w", err)
	}

	if err := r.parseSlides(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing slides: %w", err)
	}

	// Metadata is optional
	r.parseCoreProperties()

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

// validate checks that required PPTX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range r.zipReader.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	// Check for at least one slide
	for name := range fileMap {
		if isSlidePart(name) {
			return nil
		}
	}
	return fmt.Errorf("no slides found in presentation")
}

func isSlidePart(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml")
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// parsePresentation parses the main presentation file.
func (r *Reader) parsePresentation() error {
	data, err := r.getFileContent("ppt/presentation.xml")
	if err != nil {
		return err
	}

	r.presentation = &presentationXML{}
	return xml.Unmarshal(data, r.presentation)
}

// parseSlides parses all slide files.
func (r *Reader) parseSlides() error {
	var slideFiles []string
	for _, f := range r.zipReader.File {
		if isSlidePart(f.Name) {
			slideFiles = append(slideFiles, f.Name)
		}
	}

	// Sort slides by number
	sort.Slice(slideFiles, func(i, j int) bool {
		return extractSlideNumber(slideFiles[i]) < extractSlideNumber(slideFiles[j])
	})

	r.slides = make([]*Slide, 0, len(slideFiles))
	for i, slidePath := range slideFiles {
		slide, err := r.parseSlide(slidePath, i)
		if err != nil {
			return fmt.Errorf("%s: %w", slidePath, err)
		}
		r.slides = append(r.slides, slide)
	}
	return nil
}

// extractSlideNumber extracts the slide number from a path like "ppt/slides/slide1.xml"
func extractSlideNumber(path string) int {
	name := strings.TrimPrefix(path, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// parseSlide parses a single slide file.
func (r *Reader) parseSlide(slidePath string, index int) (*Slide, error) {
	data, err := r.getFileContent(slidePath)
	if err != nil {
		return nil, err
	}

	var sx slideXML
	if err := xml.Unmarshal(data, &sx); err != nil {
		return nil, err
	}

	slide := &Slide{Index: index}
	if bg := sx.CSld.Bg; bg != nil && bg.BgPr != nil {
		slide.Background = colorOf(bg.BgPr.SolidFill)
	}

	rels := r.parseSlideRelationships(slidePath)
	for _, item := range sx.CSld.SpTree.Items {
		switch item.XMLName.Local {
		case "sp":
			if block := extractTextBlock(&item.spXML); block != nil {
				slide.Content = append(slide.Content, *block)
				continue
			}
			slide.Shapes = append(slide.Shapes, Shape{
				Name:   item.NvSpPr.CNvPr.Name,
				Fill:   colorOf(item.SpPr.SolidFill),
				Bounds: boundsOf(item.SpPr.Xfrm),
			})
		case "pic":
			pic := Picture{Bounds: boundsOf(item.SpPr.Xfrm)}
			if item.NvPicPr != nil {
				pic.Name = item.NvPicPr.CNvPr.Name
			}
			if item.BlipFill != nil {
				pic.Target = resolveTarget(slidePath, rels[item.BlipFill.Blip.Embed])
			}
			slide.Pictures = append(slide.Pictures, pic)
		}
	}
	return slide, nil
}

// parseSlideRelationships returns the slide's relationship targets by ID.
func (r *Reader) parseSlideRelationships(slidePath string) map[string]string {
	relsPath := path.Join(path.Dir(slidePath), "_rels", path.Base(slidePath)+".rels")

	targets := make(map[string]string)
	data, err := r.getFileContent(relsPath)
	if err != nil {
		return targets // Relationships are optional
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return targets
	}
	for _, rel := range rels.Relationship {
		targets[rel.ID] = rel.Target
	}
	return targets
}

// resolveTarget turns a relative relationship target into an archive path.
func resolveTarget(slidePath, target string) string {
	if target == "" {
		return ""
	}
	return path.Clean(path.Join(path.Dir(slidePath), target))
}

func boundsOf(x *xfrmXML) Bounds {
	if x == nil {
		return Bounds{}
	}
	return Bounds{X: x.Off.X, Y: x.Off.Y, Width: x.Ext.Cx, Height: x.Ext.Cy}
}

func colorOf(f *solidFillXML) string {
	if f == nil || f.SrgbClr == nil {
		return ""
	}
	return f.SrgbClr.Val
}

// extractTextBlock extracts text from a shape.
func extractTextBlock(sp *spXML) *TextBlock {
	if sp.TxBody == nil || len(sp.TxBody.P) == 0 {
		return nil
	}

	block := &TextBlock{
		Name:   sp.NvSpPr.CNvPr.Name,
		Bounds: boundsOf(sp.SpPr.Xfrm),
	}

	var allText strings.Builder
	for _, p := range sp.TxBody.P {
		para := extractParagraph(&p)
		if para.Text == "" {
			continue
		}
		block.Paragraphs = append(block.Paragraphs, para)
		if allText.Len() > 0 {
			allText.WriteString("\n")
		}
		allText.WriteString(para.Text)
	}

	block.Text = allText.String()
	if block.Text == "" {
		return nil
	}
	return block
}

// extractParagraph extracts text and formatting from a paragraph.
func extractParagraph(p *pXML) Paragraph {
	var para Paragraph
	if p.PPr != nil {
		para.Alignment = p.PPr.Algn
		if p.PPr.SpcAft != nil && p.PPr.SpcAft.SpcPts != nil {
			para.SpaceAfter = p.PPr.SpcAft.SpcPts.Val
		}
	}

	var text strings.Builder
	for _, run := range p.R {
		text.WriteString(run.T)

		runObj := Run{Text: run.T}
		if run.RPr != nil {
			runObj.Bold = run.RPr.B != nil && *run.RPr.B == 1
			runObj.FontSize = run.RPr.Sz
			runObj.Color = colorOf(run.RPr.SolidFill)
			if run.RPr.Latin != nil {
				runObj.Font = run.RPr.Latin.Typeface
			}
		}
		para.Runs = append(para.Runs, runObj)
	}

	para.Text = strings.TrimSpace(text.String())
	return para
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	props := &corePropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.coreProps = props
	}
}

// SlideCount returns the number of slides.
func (r *Reader) SlideCount() int {
	return len(r.slides)
}

// Slide returns the slide at the given index (0-indexed).
func (r *Reader) Slide(index int) (*Slide, error) {
	if index < 0 || index >= len(r.slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(r.slides)-1)
	}
	return r.slides[index], nil
}

// Slides returns all slides in order.
func (r *Reader) Slides() []*Slide {
	return r.slides
}

// SlideSize returns the slide width and height in EMUs, or zeros when the
// presentation does not declare one.
func (r *Reader) SlideSize() (int, int) {
	if r.presentation == nil || r.presentation.SlideSz == nil {
		return 0, 0
	}
	return r.presentation.SlideSz.Cx, r.presentation.SlideSz.Cy
}

// Title returns the document title from the core properties.
func (r *Reader) Title() string {
	if r.coreProps == nil {
		return ""
	}
	return r.coreProps.Title
}

// Text returns the text of all slides separated by blank lines.
func (r *Reader) Text() string {
	parts := make([]string, 0, len(r.slides))
	for _, s := range r.slides {
		if t := s.GetText(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Media returns the bytes of an archive part such as a picture target.
func (r *Reader) Media(target string) ([]byte, error) {
	return r.getFileContent(target)
}
