package docpdf

import (
	"fmt"
	"slices"
	"sync/atomic"
)

// PageFunc produces a header or footer fragment for a physical page. It is
// invoked once per page with the current page number and must be pure: the
// same page number always yields the same fragment.
type PageFunc func(page int) Paragraph

// Document is the fully-built content tree plus presentation configuration.
// It is immutable once built and is consumed by exactly one render call.
type Document struct {
	cover    *Cover
	sections []Section

	page           PageSettings
	align          Alignment
	toc            bool
	tocTitle       string
	headingPromote bool
	trackPages     bool
	bookmarks      bool
	header         PageFunc
	footer         PageFunc

	consumed *atomic.Bool
}

// Cover returns the document cover, or nil when none is set.
func (d *Document) Cover() *Cover {
	if d.cover == nil {
		return nil
	}
	c := *d.cover
	return &c
}

// Sections returns the ordered sections of the document.
func (d *Document) Sections() []Section {
	return slices.Clone(d.sections)
}

// consume marks the document as rendered. It reports false if the document
// was already consumed by a previous render call.
func (d *Document) consume() bool {
	return d.consumed.CompareAndSwap(false, true)
}

// DefaultTOCTitle is printed above the table of contents when no custom
// title is configured.
const DefaultTOCTitle = "Table of Contents"

// DocumentBuilder assembles a Document. Every method returns an updated
// copy, so construction is referentially transparent: building twice with
// the same calls yields equal documents, which is what makes the render
// determinism guarantee checkable.
type DocumentBuilder struct {
	cover    *Cover
	sections []Section

	page           *PageSettings
	align          Alignment
	toc            bool
	tocTitle       string
	headingPromote bool
	trackPages     bool
	bookmarks      bool
	header         PageFunc
	footer         PageFunc
}

// NewDocument creates a builder with default presentation settings: A4
// portrait, default margins, left alignment, section headings promoted,
// no table of contents, no bookmarks.
func NewDocument() DocumentBuilder {
	return DocumentBuilder{headingPromote: true}
}

// WithCover sets the cover page.
func (b DocumentBuilder) WithCover(c Cover) DocumentBuilder {
	b.cover = &c
	return b
}

// AddSection appends a section.
func (b DocumentBuilder) AddSection(s Section) DocumentBuilder {
	b.sections = append(slices.Clone(b.sections), s)
	return b
}

// AddSections appends all sections in order.
func (b DocumentBuilder) AddSections(sections ...Section) DocumentBuilder {
	b.sections = append(slices.Clone(b.sections), sections...)
	return b
}

// WithPageSettings sets paper size, orientation, and margins.
func (b DocumentBuilder) WithPageSettings(p PageSettings) DocumentBuilder {
	b.page = &p
	return b
}

// WithAlignment sets the document-level default alignment. Sections and
// paragraphs with explicit overrides take precedence.
func (b DocumentBuilder) WithAlignment(a Alignment) DocumentBuilder {
	b.align = a
	return b
}

// WithTOC enables or disables the printed table of contents.
func (b DocumentBuilder) WithTOC(enabled bool) DocumentBuilder {
	b.toc = enabled
	return b
}

// WithTOCTitle enables the table of contents with a custom title.
func (b DocumentBuilder) WithTOCTitle(title string) DocumentBuilder {
	b.toc = true
	b.tocTitle = title
	return b
}

// WithHeadingPromotion controls whether section titles render as headings
// at the start of their section. Enabled by default.
func (b DocumentBuilder) WithHeadingPromotion(enabled bool) DocumentBuilder {
	b.headingPromote = enabled
	return b
}

// WithPageTracking forces a dedicated page-accounting pass even when no
// table of contents is printed.
func (b DocumentBuilder) WithPageTracking(enabled bool) DocumentBuilder {
	b.trackPages = enabled
	return b
}

// WithBookmarks enables outline injection into the rendered bytes: one
// top-level bookmark per section, targeting its first page.
func (b DocumentBuilder) WithBookmarks(enabled bool) DocumentBuilder {
	b.bookmarks = enabled
	return b
}

// WithHeader sets a header generator invoked once per content page.
func (b DocumentBuilder) WithHeader(fn PageFunc) DocumentBuilder {
	b.header = fn
	return b
}

// WithFooter sets a footer generator invoked once per content page.
func (b DocumentBuilder) WithFooter(fn PageFunc) DocumentBuilder {
	b.footer = fn
	return b
}

// Build validates the configuration and produces the immutable Document.
func (b DocumentBuilder) Build() (*Document, error) {
	if err := b.page.Validate(); err != nil {
		return nil, err
	}
	if b.align < AlignLeft || b.align > AlignJustify {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAlignment, int(b.align))
	}

	tocTitle := b.tocTitle
	if tocTitle == "" {
		tocTitle = DefaultTOCTitle
	}

	return &Document{
		cover:          b.cover,
		sections:       slices.Clone(b.sections),
		page:           b.page.resolved(),
		align:          b.align,
		toc:            b.toc,
		tocTitle:       tocTitle,
		headingPromote: b.headingPromote,
		trackPages:     b.trackPages,
		bookmarks:      b.bookmarks,
		header:         b.header,
		footer:         b.footer,
		consumed:       new(atomic.Bool),
	}, nil
}
