package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across modes.
type commonFlags struct {
	output  string
	quiet   bool
	verbose bool
	version bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	title    string
	enabled  bool
	disabled bool
}

// fontFlags holds font resolution flags.
type fontFlags struct {
	dir    string
	family string
}

// featureFlags holds rendering feature toggles.
type featureFlags struct {
	bookmarks  bool
	trackPages bool
	align      string
	footerText string
	headerText string
}

// renderFlags holds all flags for a render invocation.
type renderFlags struct {
	common   commonFlags
	page     pageFlags
	toc      tocFlags
	fonts    fontFlags
	features featureFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default: input with .pdf extension)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
	fs.BoolVar(&f.version, "version", false, "print version information and exit")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in millimetres (5-60)")
}

// addTOCFlags adds table of contents flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.BoolVar(&f.enabled, "toc", false, "print a table of contents")
	fs.BoolVar(&f.disabled, "no-toc", false, "disable table of contents")
}

// addFontFlags adds font resolution flags to a FlagSet.
func addFontFlags(fs *flag.FlagSet, f *fontFlags) {
	fs.StringVar(&f.dir, "fonts-dir", "", "directory containing the font family faces")
	fs.StringVar(&f.family, "font-family", "", "font family name to embed")
}

// addFeatureFlags adds rendering feature flags to a FlagSet.
func addFeatureFlags(fs *flag.FlagSet, f *featureFlags) {
	fs.BoolVar(&f.bookmarks, "bookmarks", false, "attach one outline bookmark per section")
	fs.BoolVar(&f.trackPages, "track-pages", false, "force page accounting even without a TOC")
	fs.StringVar(&f.align, "align", "", "default alignment: left, center, right, justify")
	fs.StringVar(&f.headerText, "header", "", "header markup ({page} expands to the page number)")
	fs.StringVar(&f.footerText, "footer", "", "footer markup ({page} expands to the page number)")
}

// parseFlags parses the command line and returns flags plus positional args.
func parseFlags(args []string) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("docpdf", flag.ContinueOnError)
	f := &renderFlags{}

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addTOCFlags(fs, &f.toc)
	addFontFlags(fs, &f.fonts)
	addFeatureFlags(fs, &f.features)

	fs.Usage = func() { printUsage(os.Stderr, fs) }

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// printUsage writes the usage banner.
func printUsage(w *os.File, fs *flag.FlagSet) {
	fmt.Fprintf(w, `docpdf renders a document description into a PDF.

Usage:
  docpdf [flags] input.{yaml,yml,md}

Input formats:
  .yaml/.yml  structured document description (cover, sections, markup)
  .md         Markdown; level-1/2 headings become sections

Flags:
%s`, fs.FlagUsages())
}
