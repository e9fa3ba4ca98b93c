package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/multiplex55/docpdf"
	"go.uber.org/zap"
)

// run loads the input, builds the document, renders it, and writes the PDF.
func run(f *renderFlags, args []string, log *zap.SugaredLogger) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one input file, got %d", len(args))
	}
	input := args[0]

	data, err := os.ReadFile(input) // #nosec G304 -- user-supplied input path
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var doc *docpdf.Document
	switch ext := strings.ToLower(filepath.Ext(input)); ext {
	case ".yaml", ".yml":
		spec, err := loadSpec(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", input, err)
		}
		doc, err = buildDocument(spec, f)
		if err != nil {
			return err
		}
	case ".md", ".markdown":
		sections, err := docpdf.SectionsFromMarkdown(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", input, err)
		}
		doc, err = assembleDocument(&documentSpec{}, sections, f)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported input extension %q (expected .yaml, .yml, or .md)", ext)
	}
	log.Debugw("document built", "input", input)

	var opts []docpdf.RendererOption
	if f.fonts.dir != "" {
		opts = append(opts, docpdf.WithFontDir(f.fonts.dir))
	}
	if f.fonts.family != "" {
		opts = append(opts, docpdf.WithFontFamily(f.fonts.family))
	}

	result, err := docpdf.NewRenderer(opts...).Render(doc)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	log.Debugw("rendered", "bytes", len(result.PDF), "sections", len(result.Pages))

	output := f.common.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
	}
	if err := os.WriteFile(output, result.PDF, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !f.common.quiet {
		fmt.Printf("%s (%d bytes)\n", output, len(result.PDF))
	}
	for _, entry := range result.Pages {
		log.Debugw("section", "title", entry.Title, "page", entry.Page)
	}
	return nil
}
