// Package manifest writes a QA workbook describing one conversion: every
// parsed question with its option and image counts and the slides it landed
// on, every slide in the deck, and the warnings raised along the way.
package manifest

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/quizdeck/layout"
	"github.com/tsawler/quizdeck/model"
)

// Sheet names.
const (
	SheetSummary   = "Summary"
	SheetQuestions = "Questions"
	SheetSlides    = "Slides"
	SheetWarnings  = "Warnings"
)

// Question is one row of the Questions sheet.
type Question struct {
	Number  int
	Summary string
	Options int
	Images  []string
	Slides  []int // 1-based
}

// Slide is one row of the Slides sheet.
type Slide struct {
	Number   int // 1-based
	Kind     string
	Question int
	Texts    int
	Pictures int
}

// Manifest is the content of a QA workbook.
type Manifest struct {
	Source    string
	Output    string
	Variant   string
	Questions []Question
	Slides    []Slide
	Warnings  []string
}

// Build collects the manifest rows for a converted deck.
func Build(source, output, variant string, blocks []model.Block, deck *layout.Deck, warnings []string) *Manifest {
	m := &Manifest{
		Source:   source,
		Output:   output,
		Variant:  variant,
		Warnings: append([]string(nil), warnings...),
	}

	slidesOf := make(map[int][]int)
	if deck != nil {
		for i, s := range deck.Slides {
			m.Slides = append(m.Slides, Slide{
				Number:   i + 1,
				Kind:     s.Kind().String(),
				Question: s.Question(),
				Texts:    len(s.Texts()),
				Pictures: len(s.Pictures()),
			})
			if n := s.Question(); n > 0 {
				slidesOf[n] = append(slidesOf[n], i+1)
			}
		}
	}

	for _, q := range model.Questions(blocks) {
		m.Questions = append(m.Questions, Question{
			Number:  q.Number,
			Summary: q.Summary(),
			Options: len(q.Options),
			Images:  append([]string(nil), q.Images...),
			Slides:  slidesOf[q.Number],
		})
	}
	return m
}

// ImageCount returns the number of images placed across all questions.
func (m *Manifest) ImageCount() int {
	n := 0
	for _, q := range m.Questions {
		n += len(q.Images)
	}
	return n
}

// Write saves the manifest as an XLSX workbook at path.
func (m *Manifest) Write(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	summary := [][]any{
		{"Source", m.Source},
		{"Output", m.Output},
		{"Variant", m.Variant},
		{"Questions", len(m.Questions)},
		{"Slides", len(m.Slides)},
		{"Images", m.ImageCount()},
		{"Warnings", len(m.Warnings)},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}
	if err := f.SetColStyle(SheetSummary, "A", header); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}

	questions := [][]any{{"Number", "Question", "Options", "Images", "Slides", "Image files"}}
	for _, q := range m.Questions {
		names := make([]string, len(q.Images))
		for i, p := range q.Images {
			names[i] = filepath.Base(p)
		}
		questions = append(questions, []any{q.Number, q.Summary, q.Options, len(q.Images), joinInts(q.Slides), strings.Join(names, ", ")})
	}
	if err := addSheet(f, SheetQuestions, questions, header); err != nil {
		return err
	}

	slides := [][]any{{"Slide", "Kind", "Question", "Text boxes", "Pictures"}}
	for _, s := range m.Slides {
		slides = append(slides, []any{s.Number, s.Kind, s.Question, s.Texts, s.Pictures})
	}
	if err := addSheet(f, SheetSlides, slides, header); err != nil {
		return err
	}

	warnings := [][]any{{"Warning"}}
	for _, w := range m.Warnings {
		warnings = append(warnings, []any{w})
	}
	if err := addSheet(f, SheetWarnings, warnings, header); err != nil {
		return err
	}

	for _, c := range []struct {
		sheet, col string
		width      float64
	}{
		{SheetSummary, "B", 60},
		{SheetQuestions, "B", 48},
		{SheetQuestions, "F", 40},
		{SheetWarnings, "A", 90},
	} {
		if err := f.SetColWidth(c.sheet, c.col, c.col, c.width); err != nil {
			return fmt.Errorf("sizing %s: %w", c.sheet, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving manifest: %w", err)
	}
	return nil
}

func addSheet(f *excelize.File, name string, rows [][]any, header int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	if err := writeRows(f, name, rows); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, header); err != nil {
		return fmt.Errorf("styling %s header: %w", name, err)
	}
	return f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
