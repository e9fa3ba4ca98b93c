package docpdf

import (
	"fmt"
	"slices"
	"strconv"
)

// coverTopSpaceMM pushes the cover title toward the upper third of the page.
const coverTopSpaceMM = 60.0

// renderContext is the per-pass state handed to blocks: the engine to draw
// into and the alignment in effect for the enclosing section.
type renderContext struct {
	eng   layoutEngine
	align Alignment
}

// Renderer turns documents into PDF bytes. A renderer is stateless across
// calls and safe for concurrent use; per-render state lives in the engine
// each pass constructs.
type Renderer struct {
	fontDir    string
	fontFamily string
	provider   FontProvider

	// newEngine is swapped out by tests to observe pass behavior.
	newEngine engineFactory
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithFontDir makes font resolution consider only the given directory. An
// incomplete family there is an error rather than a silent fallback.
func WithFontDir(dir string) RendererOption {
	return func(r *Renderer) { r.fontDir = dir }
}

// WithFontFamily selects the font family name to resolve and embed.
func WithFontFamily(name string) RendererOption {
	return func(r *Renderer) { r.fontFamily = name }
}

// WithFontProvider replaces filesystem font resolution entirely.
func WithFontProvider(p FontProvider) RendererOption {
	return func(r *Renderer) { r.provider = p }
}

// NewRenderer creates a renderer with the given options.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{newEngine: newFpdfEngine}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// passResult is what one layout pass yields: the produced bytes, the page
// map observed while producing them, and enough bookkeeping to compare
// passes and to translate content pages into physical ones.
type passResult struct {
	pdf         []byte
	pages       PageMap
	frontPages  int
	fingerprint string
}

// Render lays out the document and returns the PDF bytes plus the page map.
//
// When the document requests a table of contents, page tracking, or
// bookmarks, rendering runs twice: a dry pass that performs full layout
// purely for page accounting (its bytes are discarded) and a final pass
// that consumes the dry pass's page map. Both passes run with identical
// configuration; any divergence between their page maps is an internal
// invariant violation and fails the render rather than shipping a PDF with
// silently wrong numbers.
//
// A document can be rendered at most once.
func (r *Renderer) Render(doc *Document) (*RenderResult, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if !doc.consume() {
		return nil, ErrDocumentConsumed
	}

	provider := r.provider
	if provider == nil {
		provider = &defaultFontProvider{dir: r.fontDir, family: r.fontFamily}
	}
	fonts, err := provider.ResolveFonts()
	if err != nil {
		return nil, err
	}

	cfg := engineConfig{
		Page:   doc.page,
		Fonts:  fonts,
		Header: doc.header,
		Footer: doc.footer,
	}

	twoPass := doc.toc || doc.trackPages || doc.bookmarks
	if !twoPass {
		out, err := r.runPass(doc, cfg, nil)
		if err != nil {
			return nil, err
		}
		return &RenderResult{PDF: out.pdf, Pages: out.pages}, nil
	}

	dry, err := r.runPass(doc, cfg, nil)
	if err != nil {
		return nil, err
	}
	final, err := r.runPass(doc, cfg, dry.pages)
	if err != nil {
		return nil, err
	}

	if final.fingerprint != dry.fingerprint {
		return nil, fmt.Errorf("%w: engine configuration diverged between passes (%q vs %q)",
			ErrPassMismatch, dry.fingerprint, final.fingerprint)
	}
	if !slices.Equal(final.pages, dry.pages) {
		return nil, fmt.Errorf("%w: page map diverged between passes (%v vs %v)",
			ErrPassMismatch, dry.pages, final.pages)
	}

	pdf := final.pdf
	if doc.bookmarks {
		pdf, err = injectBookmarks(pdf, final.pages, final.frontPages)
		if err != nil {
			return nil, err
		}
	}
	return &RenderResult{PDF: pdf, Pages: final.pages}, nil
}

// runPass performs one complete layout pass. known carries the page map from
// a previous dry pass for printing real numbers into the table of contents;
// nil prints placeholder labels (the table's column widths are fixed, so the
// label text never moves layout between passes).
func (r *Renderer) runPass(doc *Document, cfg engineConfig, known PageMap) (*passResult, error) {
	eng, err := r.newEngine(cfg)
	if err != nil {
		return nil, err
	}
	rc := &renderContext{eng: eng, align: doc.align}

	// The cover opens the document and counts as content page 1; only the
	// table of contents renders as unnumbered front matter.
	if doc.cover != nil {
		eng.addPage()
		if err := renderCover(rc, doc.cover); err != nil {
			return nil, err
		}
	}

	var tocLinks []int
	if doc.toc {
		eng.beginFrontMatter()
		eng.addPage()
		tocLinks, err = renderTOC(rc, doc, known)
		if err != nil {
			return nil, err
		}
	}
	eng.endFrontMatter()

	pages := make(PageMap, 0, len(doc.sections))
	physical := make([]int, 0, len(doc.sections))

	for i, sec := range doc.sections {
		blocks := sec.blocks
		if i == 0 {
			// The first section always opens the first content page; a
			// leading page break here would only leave a blank page.
			if len(blocks) > 0 {
				if _, ok := blocks[0].(PageBreak); ok {
					blocks = blocks[1:]
				}
			}
			eng.addPage()
		} else if len(blocks) > 0 {
			// Consume a leading break before recording the section's page,
			// so the map points at the page the section actually starts on.
			if _, ok := blocks[0].(PageBreak); ok {
				blocks = blocks[1:]
				eng.addPage()
			}
		}

		pages = append(pages, PageEntry{Title: sec.title, Page: eng.pageNumber()})
		physical = append(physical, eng.physicalPage())

		rc.align = doc.align
		if sec.alignSet {
			rc.align = sec.align
		}

		if doc.headingPromote && sec.title != "" {
			heading := []textRun{{Text: sec.title, Bold: true, Size: headingSize}}
			if err := eng.writeRuns(heading, rc.align); err != nil {
				return nil, err
			}
			eng.verticalSpace(headingGapMM)
		}

		for _, b := range blocks {
			if err := b.renderTo(rc); err != nil {
				return nil, err
			}
		}
	}

	// An empty document still produces a valid single-page PDF.
	if eng.pageCount() == 0 {
		eng.addPage()
	}

	// Table-of-contents rows become clickable once section targets are known.
	for i, id := range tocLinks {
		if i < len(physical) {
			eng.setLinkPage(id, physical[i])
		}
	}

	pdf, err := eng.output()
	if err != nil {
		return nil, err
	}
	return &passResult{
		pdf:         pdf,
		pages:       pages,
		frontPages:  eng.frontMatterPages(),
		fingerprint: eng.fingerprint(),
	}, nil
}

// renderCover lays out the cover page: title, optional subtitle, then any
// cover blocks in document-default alignment.
func renderCover(rc *renderContext, c *Cover) error {
	eng := rc.eng
	eng.verticalSpace(coverTopSpaceMM)

	title := []textRun{{Text: c.title, Bold: true, Size: coverTitleSize}}
	if err := eng.writeRuns(title, AlignCenter); err != nil {
		return err
	}
	if c.subtitle != "" {
		eng.verticalSpace(paragraphGapMM * 2)
		sub := []textRun{{Text: c.subtitle, Size: coverSubSize}}
		if err := eng.writeRuns(sub, AlignCenter); err != nil {
			return err
		}
	}
	if len(c.blocks) > 0 {
		eng.verticalSpace(coverTopSpaceMM / 4)
		for _, b := range c.blocks {
			if err := b.renderTo(rc); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderTOC lays out the table of contents and returns one link ID per
// section, to be resolved to physical pages once sections have rendered.
func renderTOC(rc *renderContext, doc *Document, known PageMap) ([]int, error) {
	eng := rc.eng

	title := []textRun{{Text: doc.tocTitle, Bold: true, Size: tocTitleSize}}
	if err := eng.writeRuns(title, AlignLeft); err != nil {
		return nil, err
	}
	eng.verticalSpace(headingGapMM)

	links := make([]int, 0, len(doc.sections))
	for i, sec := range doc.sections {
		label := "0"
		if i < len(known) {
			label = strconv.Itoa(known[i].Page)
		}
		id := eng.addLink()
		if err := eng.tocEntry(sec.title, label, id); err != nil {
			return nil, err
		}
		links = append(links, id)
	}
	return links, nil
}
