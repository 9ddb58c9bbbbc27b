// Command quizdeck converts Word question papers into slide decks.
//
// Single document:
//
//	quizdeck -in paper.docx -out paper.pptx -variant mcq1
//
// Several documents, two at a time, into one directory:
//
//	quizdeck -in a.docx -in b.docx -out decks/ -jobs 2 -manifest
//
// Diagram extraction needs soffice and pdftoppm on PATH and a binary built
// with -tags ocr. Pass -skip-images for a text-only deck.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/quizdeck"
	"github.com/tsawler/quizdeck/variant"
)

// stringSlice implements flag.Value for repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ", ") }
func (s *stringSlice) Set(val string) error {
	*s = append(*s, val)
	return nil
}

type job struct {
	in, out  string
	manifest string
	previews string
}

func main() {
	var inputs stringSlice

	var (
		out         = flag.String("out", "", "Output .pptx file, or a directory when several inputs are given")
		variantName = flag.String("variant", "", "Built-in template: "+strings.Join(variant.Names(), ", "))
		configPath  = flag.String("config", "", "YAML config file")
		variantFile = flag.String("variant-file", "", "YAML template overlay (overrides -variant)")
		scratch     = flag.String("scratch", "", "Scratch root for intermediate files (default: system temp dir)")
		dpi         = flag.Int("dpi", 0, "Page render resolution (default 300)")
		chars       = flag.Int("chars", 0, fmt.Sprintf("Passage characters per continuation slide (%d-%d)", quizdeck.MinCharsPerSlide, quizdeck.MaxCharsPerSlide))
		diagrams    = flag.String("diagrams", "", "Keep cropped diagrams in this directory")
		manifest    = flag.Bool("manifest", false, "Also write an XLSX QA workbook next to each deck")
		preview     = flag.Bool("preview", false, "Also write PNG previews of every slide next to each deck")
		jobs        = flag.Int("jobs", 1, "Documents converted in parallel")
		jsonLogs    = flag.Bool("json-logs", false, "Log as JSON")
		verbose     = flag.Bool("v", false, "Debug logging")
		skipImages  = flag.Bool("skip-images", false, "Text only: do not render pages or extract diagrams")
		printResult = flag.Bool("json", false, "Print each result as JSON on stdout")
	)
	flag.Var(&inputs, "in", "Input .docx file (repeatable)")
	flag.Parse()
	inputs = append(inputs, flag.Args()...)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if *jsonLogs {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)

	if len(inputs) == 0 || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: quizdeck -in paper.docx -out paper.pptx [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := quizdeck.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = quizdeck.LoadConfig(*configPath); err != nil {
			logger.Error("loading config failed", "error", err)
			os.Exit(2)
		}
	}
	if *variantName != "" {
		cfg.Variant = *variantName
		cfg.VariantFile = ""
	}
	if *variantFile != "" {
		cfg.VariantFile = *variantFile
	}
	if *scratch != "" {
		cfg.ScratchRoot = *scratch
	}
	if *dpi > 0 {
		cfg.DPI = *dpi
	}
	if *chars > 0 {
		cfg.CharsPerSlide = *chars
	}
	if *diagrams != "" {
		cfg.DiagramDir = *diagrams
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	base := quizdeck.Open("").Config(cfg).Logger(logger)
	if *skipImages {
		base = base.SkipImages()
	}

	planned, err := plan(inputs, *out, *manifest, *preview)
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := make([]*quizdeck.Result, len(planned))
	failures := make([]error, len(planned))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*jobs, 1))
	for i, j := range planned {
		g.Go(func() error {
			c := base.Input(j.in)
			if j.manifest != "" {
				c = c.Manifest(j.manifest)
			}
			if j.previews != "" {
				c = c.Preview(j.previews, 0)
			}
			res, err := c.Convert(gctx, j.out)
			if err != nil {
				// One failed document does not stop the others.
				failures[i] = err
				logger.Error("conversion failed", "input", j.in, "kind", quizdeck.KindOf(err).String(), "error", err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	enc := json.NewEncoder(os.Stdout)
	for i, res := range results {
		if failures[i] != nil {
			failed++
			continue
		}
		if *printResult {
			if err := enc.Encode(res); err != nil {
				logger.Error("encoding result failed", "error", err)
			}
			continue
		}
		fmt.Printf("%s: %d questions, %d slides, %d images -> %s\n",
			planned[i].in, res.Questions, res.Slides, len(res.Images), res.Output)
		for _, w := range res.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}

	if failed > 0 {
		code := 1
		for _, err := range failures {
			if quizdeck.KindOf(err) == quizdeck.KindEnvironment {
				code = 3
			}
		}
		os.Exit(code)
	}
}

// plan pairs every input with its output paths. With one input, out is the
// deck path; with several it is a directory receiving <name>.pptx files.
func plan(inputs []string, out string, manifest, preview bool) ([]job, error) {
	var jobs []job
	for _, in := range inputs {
		deck := out
		if len(inputs) > 1 || strings.HasSuffix(out, string(filepath.Separator)) {
			name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			deck = filepath.Join(out, name+".pptx")
		}
		j := job{in: in, out: deck}
		stem := strings.TrimSuffix(deck, filepath.Ext(deck))
		if manifest {
			j.manifest = stem + ".xlsx"
		}
		if preview {
			j.previews = stem + "-previews"
		}
		jobs = append(jobs, j)
	}

	seen := make(map[string]string)
	for _, j := range jobs {
		if prev, ok := seen[j.out]; ok {
			return nil, fmt.Errorf("%s and %s both write %s", prev, j.in, j.out)
		}
		seen[j.out] = j.in
	}
	if len(jobs) == 0 {
		return nil, errors.New("no input documents")
	}
	return jobs, nil
}
