package docpdf

import "slices"

// Block is a unit of section or cover content. The concrete blocks are
// Paragraph, ImageBlock, CodeBlock, and PageBreak; all a block can do is
// render itself into the layout engine.
type Block interface {
	renderTo(rc *renderContext) error
}

// Paragraph is a rich-text paragraph: an ordered sequence of spans plus an
// optional alignment override. The zero value renders as an empty line.
type Paragraph struct {
	spans    []Span
	align    Alignment
	alignSet bool
}

// NewParagraph creates a paragraph from the provided spans.
func NewParagraph(spans ...Span) Paragraph {
	return Paragraph{spans: spans}
}

// Text creates a single-span paragraph from plain text.
func Text(text string) Paragraph {
	return NewParagraph(NewSpan(text))
}

// Spans returns the spans that make up the paragraph.
func (p Paragraph) Spans() []Span {
	return slices.Clone(p.spans)
}

// Aligned returns a copy of the paragraph with an explicit alignment,
// overriding the section and document defaults.
func (p Paragraph) Aligned(a Alignment) Paragraph {
	p.align = a
	p.alignSet = true
	return p
}

// Alignment returns the paragraph alignment and whether it was set explicitly.
func (p Paragraph) Alignment() (Alignment, bool) {
	return p.align, p.alignSet
}

func (p Paragraph) renderTo(rc *renderContext) error {
	align := rc.align
	if p.alignSet {
		align = p.align
	}
	if err := rc.eng.writeRuns(resolveRuns(p.spans, 0), align); err != nil {
		return err
	}
	rc.eng.verticalSpace(paragraphGapMM)
	return nil
}

// ImageSource describes where image data comes from. Paths are resolved
// lazily at render time, never at model-construction time.
type ImageSource struct {
	data []byte
	path string
}

// ImageFromBytes creates an in-memory image source.
func ImageFromBytes(data []byte) ImageSource {
	return ImageSource{data: slices.Clone(data)}
}

// ImageFromPath creates an image source referencing a file path.
func ImageFromPath(path string) ImageSource {
	return ImageSource{path: path}
}

// ImageBlock places an image with an optional styled caption underneath.
// The caption shares the block's alignment, mirroring figure conventions.
type ImageBlock struct {
	source   ImageSource
	caption  *Paragraph
	align    Alignment
	alignSet bool
	widthMM  float64
}

// NewImage creates an image block from the given source.
func NewImage(source ImageSource) ImageBlock {
	return ImageBlock{source: source}
}

// WithCaption returns a copy of the block with a caption paragraph.
func (b ImageBlock) WithCaption(caption Paragraph) ImageBlock {
	b.caption = &caption
	return b
}

// Aligned returns a copy of the block with an explicit alignment for both
// the image and its caption.
func (b ImageBlock) Aligned(a Alignment) ImageBlock {
	b.align = a
	b.alignSet = true
	return b
}

// WithWidth returns a copy of the block constrained to the given rendered
// width in millimetres, preserving the aspect ratio. Zero means natural size.
func (b ImageBlock) WithWidth(widthMM float64) ImageBlock {
	b.widthMM = widthMM
	return b
}

func (b ImageBlock) renderTo(rc *renderContext) error {
	align := rc.align
	if b.alignSet {
		align = b.align
	}

	img, err := resolveImage(b.source)
	if err != nil {
		return err
	}
	if err := rc.eng.drawImage(img, align, b.widthMM); err != nil {
		return err
	}

	if b.caption != nil {
		capAlign := align
		if a, ok := b.caption.Alignment(); ok {
			capAlign = a
		}
		rc.eng.verticalSpace(captionGapMM)
		runs := resolveRuns(b.caption.spans, captionSize)
		if err := rc.eng.writeRuns(runs, capAlign); err != nil {
			return err
		}
	}
	rc.eng.verticalSpace(paragraphGapMM)
	return nil
}

// CodeBlock renders monospaced source code with syntax highlighting.
type CodeBlock struct {
	source   string
	language string
}

// NewCode creates a code block. The language selects the highlighting lexer;
// unknown or empty languages fall back to plain monospace.
func NewCode(source, language string) CodeBlock {
	return CodeBlock{source: source, language: language}
}

// Source returns the code text.
func (b CodeBlock) Source() string { return b.source }

// Language returns the configured language name.
func (b CodeBlock) Language() string { return b.language }

func (b CodeBlock) renderTo(rc *renderContext) error {
	for _, line := range highlightCode(b.source, b.language) {
		// Code lines keep their indentation; alignment is always left.
		if err := rc.eng.writeRuns(line, AlignLeft); err != nil {
			return err
		}
	}
	rc.eng.verticalSpace(paragraphGapMM)
	return nil
}

// PageBreak forces subsequent content onto a new page.
type PageBreak struct{}

// NewPageBreak creates an explicit page break block.
func NewPageBreak() PageBreak {
	return PageBreak{}
}

func (PageBreak) renderTo(rc *renderContext) error {
	rc.eng.addPage()
	return nil
}

// Cover describes the cover page: a title, an optional subtitle, and content
// blocks. The cover renders before all sections and is never listed in the
// table of contents.
type Cover struct {
	title    string
	subtitle string
	blocks   []Block
}

// NewCover creates a cover with the given title.
func NewCover(title string) Cover {
	return Cover{title: title}
}

// WithSubtitle returns a copy of the cover with a subtitle.
func (c Cover) WithSubtitle(subtitle string) Cover {
	c.subtitle = subtitle
	return c
}

// AddBlock returns a copy of the cover with the block appended.
func (c Cover) AddBlock(b Block) Cover {
	c.blocks = append(slices.Clone(c.blocks), b)
	return c
}

// Title returns the cover title.
func (c Cover) Title() string { return c.title }

// Subtitle returns the cover subtitle, or "" when unset.
func (c Cover) Subtitle() string { return c.subtitle }

// Blocks returns the cover content blocks.
func (c Cover) Blocks() []Block { return slices.Clone(c.blocks) }

// Section is a titled run of content blocks. A section's identity is its
// position in the document plus its title; the page map is keyed by that pair.
type Section struct {
	title    string
	blocks   []Block
	align    Alignment
	alignSet bool
}

// NewSection creates a section with the provided title.
func NewSection(title string) Section {
	return Section{title: title}
}

// Title returns the section title.
func (s Section) Title() string { return s.title }

// Blocks returns the blocks contained in the section.
func (s Section) Blocks() []Block { return slices.Clone(s.blocks) }

// AddBlock returns a copy of the section with the block appended.
func (s Section) AddBlock(b Block) Section {
	s.blocks = append(slices.Clone(s.blocks), b)
	return s
}

// AddBlocks returns a copy of the section with all blocks appended.
func (s Section) AddBlocks(blocks ...Block) Section {
	s.blocks = append(slices.Clone(s.blocks), blocks...)
	return s
}

// Aligned returns a copy of the section with an alignment override. The
// override always takes precedence over the document-level default.
func (s Section) Aligned(a Alignment) Section {
	s.align = a
	s.alignSet = true
	return s
}

// Alignment returns the section alignment override and whether one is set.
func (s Section) Alignment() (Alignment, bool) {
	return s.align, s.alignSet
}

// OnNewPage returns a copy of the section that starts on a fresh page. A
// leading page break is inserted unless the first block already is one.
func (s Section) OnNewPage() Section {
	if len(s.blocks) > 0 {
		if _, ok := s.blocks[0].(PageBreak); ok {
			return s
		}
	}
	s.blocks = append([]Block{PageBreak{}}, slices.Clone(s.blocks)...)
	return s
}
