package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/multiplex55/docpdf"
	"github.com/multiplex55/docpdf/internal/yamlutil"
)

// documentSpec is the YAML document description accepted by the CLI.
type documentSpec struct {
	Title      string        `yaml:"title"`
	Subtitle   string        `yaml:"subtitle"`
	TOC        bool          `yaml:"toc"`
	TOCTitle   string        `yaml:"toc_title"`
	Bookmarks  bool          `yaml:"bookmarks"`
	TrackPages bool          `yaml:"track_pages"`
	Align      string        `yaml:"align"`
	Header     string        `yaml:"header"`
	Footer     string        `yaml:"footer"`
	Page       *pageSpec     `yaml:"page"`
	Sections   []sectionSpec `yaml:"sections"`
}

// pageSpec mirrors docpdf.PageSettings in YAML form.
type pageSpec struct {
	Size        string  `yaml:"size"`
	Orientation string  `yaml:"orientation"`
	Margin      float64 `yaml:"margin"`
}

// sectionSpec describes one section and its content blocks.
type sectionSpec struct {
	Title   string      `yaml:"title"`
	NewPage bool        `yaml:"new_page"`
	Align   string      `yaml:"align"`
	Content []blockSpec `yaml:"content"`
}

// blockSpec is a single content block; exactly one of the content fields
// (text, code, image, markdown, page_break) should be set.
type blockSpec struct {
	Text      string  `yaml:"text"`
	Align     string  `yaml:"align"`
	Code      string  `yaml:"code"`
	Language  string  `yaml:"language"`
	Image     string  `yaml:"image"`
	Caption   string  `yaml:"caption"`
	Width     float64 `yaml:"width"`
	Markdown  string  `yaml:"markdown"`
	PageBreak bool    `yaml:"page_break"`
}

// loadSpec parses a YAML document description, rejecting unknown fields so
// typos surface as errors instead of silently dropped settings.
func loadSpec(data []byte) (*documentSpec, error) {
	var spec documentSpec
	if err := yamlutil.UnmarshalStrict(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// buildDocument turns a parsed description into a document, with flags
// overriding spec-level settings.
func buildDocument(spec *documentSpec, f *renderFlags) (*docpdf.Document, error) {
	sections := make([]docpdf.Section, 0, len(spec.Sections))
	for i, ss := range spec.Sections {
		sec, err := buildSection(ss)
		if err != nil {
			return nil, fmt.Errorf("section %d (%q): %w", i+1, ss.Title, err)
		}
		sections = append(sections, sec)
	}
	return assembleDocument(spec, sections, f)
}

// assembleDocument applies spec settings and flag overrides around
// ready-built sections. The Markdown path reuses it with an empty spec.
func assembleDocument(spec *documentSpec, sections []docpdf.Section, f *renderFlags) (*docpdf.Document, error) {
	b := docpdf.NewDocument()

	if spec.Title != "" {
		cover := docpdf.NewCover(spec.Title)
		if spec.Subtitle != "" {
			cover = cover.WithSubtitle(spec.Subtitle)
		}
		b = b.WithCover(cover)
	}

	page := docpdf.PageSettings{}
	if spec.Page != nil {
		page = docpdf.PageSettings{
			Size:        spec.Page.Size,
			Orientation: spec.Page.Orientation,
			Margin:      spec.Page.Margin,
		}
	}
	if f.page.size != "" {
		page.Size = f.page.size
	}
	if f.page.orientation != "" {
		page.Orientation = f.page.orientation
	}
	if f.page.margin != 0 {
		page.Margin = f.page.margin
	}
	b = b.WithPageSettings(page)

	alignName := spec.Align
	if f.features.align != "" {
		alignName = f.features.align
	}
	align, err := docpdf.ParseAlignment(alignName)
	if err != nil {
		return nil, err
	}
	b = b.WithAlignment(align)

	toc := spec.TOC || f.toc.enabled
	if f.toc.disabled {
		toc = false
	}
	b = b.WithTOC(toc)
	if title := firstNonEmpty(f.toc.title, spec.TOCTitle); title != "" {
		b = b.WithTOCTitle(title)
	}

	b = b.WithBookmarks(spec.Bookmarks || f.features.bookmarks)
	b = b.WithPageTracking(spec.TrackPages || f.features.trackPages)

	if markup := firstNonEmpty(f.features.headerText, spec.Header); markup != "" {
		fn, err := pageTemplate(markup)
		if err != nil {
			return nil, fmt.Errorf("header: %w", err)
		}
		b = b.WithHeader(fn)
	}
	if markup := firstNonEmpty(f.features.footerText, spec.Footer); markup != "" {
		fn, err := pageTemplate(markup)
		if err != nil {
			return nil, fmt.Errorf("footer: %w", err)
		}
		b = b.WithFooter(fn)
	}

	b = b.AddSections(sections...)
	return b.Build()
}

// buildSection converts one section spec.
func buildSection(ss sectionSpec) (docpdf.Section, error) {
	sec := docpdf.NewSection(ss.Title)

	if ss.Align != "" {
		align, err := docpdf.ParseAlignment(ss.Align)
		if err != nil {
			return sec, err
		}
		sec = sec.Aligned(align)
	}

	for i, bs := range ss.Content {
		blocks, err := buildBlocks(bs)
		if err != nil {
			return sec, fmt.Errorf("block %d: %w", i+1, err)
		}
		sec = sec.AddBlocks(blocks...)
	}

	if ss.NewPage {
		sec = sec.OnNewPage()
	}
	return sec, nil
}

// buildBlocks converts one block spec; a markdown entry may expand to
// multiple blocks.
func buildBlocks(bs blockSpec) ([]docpdf.Block, error) {
	switch {
	case bs.PageBreak:
		return []docpdf.Block{docpdf.NewPageBreak()}, nil

	case bs.Code != "":
		return []docpdf.Block{docpdf.NewCode(bs.Code, bs.Language)}, nil

	case bs.Image != "":
		block := docpdf.NewImage(docpdf.ImageFromPath(bs.Image))
		if bs.Caption != "" {
			spans, err := docpdf.ParseMarkup(bs.Caption)
			if err != nil {
				return nil, fmt.Errorf("caption: %w", err)
			}
			block = block.WithCaption(docpdf.NewParagraph(spans...))
		}
		if bs.Width != 0 {
			block = block.WithWidth(bs.Width)
		}
		if bs.Align != "" {
			align, err := docpdf.ParseAlignment(bs.Align)
			if err != nil {
				return nil, err
			}
			block = block.Aligned(align)
		}
		return []docpdf.Block{block}, nil

	case bs.Markdown != "":
		return docpdf.BlocksFromMarkdown([]byte(bs.Markdown))

	default:
		spans, err := docpdf.ParseMarkup(bs.Text)
		if err != nil {
			return nil, err
		}
		p := docpdf.NewParagraph(spans...)
		if bs.Align != "" {
			align, err := docpdf.ParseAlignment(bs.Align)
			if err != nil {
				return nil, err
			}
			p = p.Aligned(align)
		}
		return []docpdf.Block{p}, nil
	}
}

// pageTemplate compiles a header/footer markup template. {page} expands to
// the current page number; the markup is validated once up front so bad
// templates fail before rendering starts.
func pageTemplate(markup string) (docpdf.PageFunc, error) {
	if _, err := docpdf.ParseMarkup(strings.ReplaceAll(markup, "{page}", "1")); err != nil {
		return nil, err
	}
	return func(page int) docpdf.Paragraph {
		expanded := strings.ReplaceAll(markup, "{page}", strconv.Itoa(page))
		spans, err := docpdf.ParseMarkup(expanded)
		if err != nil {
			return docpdf.Text(expanded)
		}
		return docpdf.NewParagraph(spans...)
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
