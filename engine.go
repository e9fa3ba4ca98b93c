package docpdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Layout constants in millimetres.
const (
	paragraphGapMM = 2.0
	captionGapMM   = 2.0
	headingGapMM   = 3.0
	tocNumberColMM = 14.0
)

// creationStamp pins the PDF creation date so that output is a pure
// function of the document value.
var creationStamp = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// monoFamily is the core font used for code runs.
const monoFamily = "Courier"

// engineConfig carries everything a layout pass depends on. The dry run and
// the final pass must be driven with identical configurations; the pass
// controller compares engine fingerprints to enforce that.
type engineConfig struct {
	Page   PageSettings
	Fonts  *FontFamily
	Header PageFunc
	Footer PageFunc
}

// fingerprint returns a stable description of the layout-relevant
// configuration, used to detect divergence between passes.
func (c engineConfig) fingerprint() string {
	fontName := ""
	if c.Fonts != nil {
		fontName = c.Fonts.Name
	}
	return fmt.Sprintf("%s|%s|%.3f|%s|header=%t|footer=%t",
		c.Page.Size, c.Page.Orientation, c.Page.Margin, fontName,
		c.Header != nil, c.Footer != nil)
}

// layoutEngine is the contract the pass controller and content blocks drive.
// The production implementation wraps gofpdf; tests substitute a fake to
// observe pass behavior without typesetting.
type layoutEngine interface {
	addPage()
	pageNumber() int   // content page number (front matter excluded)
	physicalPage() int // absolute page index, 1-based
	pageCount() int
	frontMatterPages() int
	beginFrontMatter()
	endFrontMatter()
	writeRuns(runs []textRun, align Alignment) error
	tocEntry(title, label string, linkID int) error
	addLink() int
	setLinkPage(id, physicalPage int)
	drawImage(img *resolvedImage, align Alignment, widthMM float64) error
	verticalSpace(mm float64)
	output() ([]byte, error)
	fingerprint() string
}

// engineFactory builds a layout engine for one pass.
type engineFactory func(cfg engineConfig) (layoutEngine, error)

// pageMeta records, per physical page, what the header/footer callbacks need
// to know at page-close time (footers fire after flags may have moved on).
type pageMeta struct {
	front   bool
	content int
}

// fpdfEngine adapts gofpdf to the layoutEngine contract.
type fpdfEngine struct {
	pdf *gofpdf.Fpdf
	cfg engineConfig

	family  string // registered body font family
	builtin bool   // body font is a core font (needs codepage translation)
	trCore  func(string) string

	margin        float64
	contentW      float64
	pageH         float64
	inFront       bool
	frontPages    int
	contentPages  int
	meta          map[int]pageMeta
	registeredImg map[string]bool
	fp            string
}

// newFpdfEngine constructs a configured gofpdf instance: page geometry,
// fonts, deterministic metadata, and header/footer hooks.
func newFpdfEngine(cfg engineConfig) (layoutEngine, error) {
	orient := "P"
	if cfg.Page.Orientation == OrientationLandscape {
		orient = "L"
	}

	var size string
	switch cfg.Page.Size {
	case PageSizeA4:
		size = "A4"
	case PageSizeLetter:
		size = "Letter"
	case PageSizeLegal:
		size = "Legal"
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPageSize, cfg.Page.Size)
	}

	pdf := gofpdf.New(orient, "mm", size, "")
	pdf.SetCreationDate(creationStamp)
	// Resource catalogs (fonts, images) are held in maps; without sorted
	// emission the object order varies run to run and output bytes are not a
	// pure function of the document value.
	pdf.SetCatalogSort(true)
	pdf.SetMargins(cfg.Page.Margin, cfg.Page.Margin, cfg.Page.Margin)
	pdf.SetAutoPageBreak(true, cfg.Page.Margin)

	e := &fpdfEngine{
		pdf:           pdf,
		cfg:           cfg,
		margin:        cfg.Page.Margin,
		meta:          make(map[int]pageMeta),
		registeredImg: make(map[string]bool),
		fp:            cfg.fingerprint(),
	}
	e.trCore = pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	e.contentW = pageW - 2*cfg.Page.Margin
	e.pageH = pageH

	if cfg.Fonts == nil || cfg.Fonts.Builtin() {
		e.family = "Helvetica"
		if cfg.Fonts != nil && cfg.Fonts.Name != "" {
			e.family = cfg.Fonts.Name
		}
		e.builtin = true
	} else {
		e.family = cfg.Fonts.Name
		pdf.AddUTF8FontFromBytes(e.family, "", cfg.Fonts.Regular)
		pdf.AddUTF8FontFromBytes(e.family, "B", cfg.Fonts.Bold)
		pdf.AddUTF8FontFromBytes(e.family, "I", cfg.Fonts.Italic)
		pdf.AddUTF8FontFromBytes(e.family, "BI", cfg.Fonts.BoldItalic)
	}

	pdf.SetHeaderFunc(e.onPageStart)
	pdf.SetFooterFunc(e.onPageClose)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayout, err)
	}
	return e, nil
}

// onPageStart runs on every AddPage: records page metadata while the
// front-matter flag is still current, then renders the header.
func (e *fpdfEngine) onPageStart() {
	physical := e.pdf.PageNo()
	if e.inFront {
		e.frontPages++
		e.meta[physical] = pageMeta{front: true}
		return
	}
	e.contentPages++
	e.meta[physical] = pageMeta{content: e.contentPages}

	if e.cfg.Header == nil {
		return
	}
	p := e.cfg.Header(e.contentPages)
	align := AlignCenter
	if a, ok := p.Alignment(); ok {
		align = a
	}
	e.writeLine(resolveRuns(p.spans, captionSize), align)
	e.pdf.Ln(2)
}

// onPageClose renders the footer for the page being closed. Front-matter
// pages carry no footer.
func (e *fpdfEngine) onPageClose() {
	meta := e.meta[e.pdf.PageNo()]
	if meta.front || e.cfg.Footer == nil {
		return
	}
	p := e.cfg.Footer(meta.content)
	align := AlignCenter
	if a, ok := p.Alignment(); ok {
		align = a
	}
	e.pdf.SetY(-e.margin * 2 / 3)
	e.writeLine(resolveRuns(p.spans, captionSize), align)
}

func (e *fpdfEngine) addPage()          { e.pdf.AddPage() }
func (e *fpdfEngine) pageNumber() int   { return e.contentPages }
func (e *fpdfEngine) physicalPage() int { return e.pdf.PageNo() }
func (e *fpdfEngine) pageCount() int    { return e.pdf.PageCount() }

func (e *fpdfEngine) frontMatterPages() int { return e.frontPages }
func (e *fpdfEngine) beginFrontMatter()     { e.inFront = true }
func (e *fpdfEngine) endFrontMatter()       { e.inFront = false }

func (e *fpdfEngine) addLink() int { return e.pdf.AddLink() }

func (e *fpdfEngine) setLinkPage(id, physicalPage int) {
	e.pdf.SetLink(id, 0, physicalPage)
}

func (e *fpdfEngine) verticalSpace(mm float64) { e.pdf.Ln(mm) }

func (e *fpdfEngine) fingerprint() string { return e.fp }

// applyStyle selects font, size, and color for a run and returns its line
// height in millimetres.
func (e *fpdfEngine) applyStyle(run textRun) float64 {
	family := e.family
	if run.Mono {
		family = monoFamily
	}
	var style strings.Builder
	if run.Bold {
		style.WriteByte('B')
	}
	if run.Italic {
		style.WriteByte('I')
	}
	if run.Underline {
		style.WriteByte('U')
	}
	size := run.Size
	if size == 0 {
		size = bodySize
	}
	e.pdf.SetFont(family, style.String(), size)
	if run.Color != nil {
		e.pdf.SetTextColor(int(run.Color.R), int(run.Color.G), int(run.Color.B))
	} else {
		e.pdf.SetTextColor(0, 0, 0)
	}
	return lineHeight(size)
}

// lineHeight converts a font size in points to a line height in mm.
func lineHeight(sizePt float64) float64 {
	return sizePt * mmPerInch / 72 * 1.35
}

// text translates run text for the active font. Core fonts use CP1252 and
// need the codepage translator; embedded UTF-8 fonts take text as-is.
func (e *fpdfEngine) text(run textRun, s string) string {
	if run.Mono || e.builtin {
		return e.trCore(s)
	}
	return s
}

// ensureRoom breaks the page if fewer than h millimetres remain.
func (e *fpdfEngine) ensureRoom(h float64) {
	if e.pdf.GetY()+h > e.pageH-e.margin {
		e.pdf.AddPage()
	}
}

// maxLineHeight returns the tallest line height among runs, defaulting to
// the body line height for empty run lists.
func (e *fpdfEngine) maxLineHeight(runs []textRun) float64 {
	h := 0.0
	for _, run := range runs {
		size := run.Size
		if size == 0 {
			size = bodySize
		}
		if lh := lineHeight(size); lh > h {
			h = lh
		}
	}
	if h == 0 {
		h = lineHeight(bodySize)
	}
	return h
}

// writeRuns emits a paragraph of styled runs. Left (and justified, which
// renders ragged-right) flows through gofpdf's writer; centered and
// right-aligned paragraphs are wrapped and positioned manually, the engine
// measuring each fragment.
func (e *fpdfEngine) writeRuns(runs []textRun, align Alignment) error {
	h := e.maxLineHeight(runs)
	if len(runs) == 0 {
		e.ensureRoom(h)
		e.pdf.Ln(h)
		return e.err()
	}

	switch align {
	case AlignCenter, AlignRight:
		for _, line := range e.wrapRuns(runs) {
			e.emitLine(line, align, h)
		}
	default:
		for _, run := range runs {
			e.applyStyle(run)
			txt := e.text(run, run.Text)
			if run.Link != "" {
				e.pdf.WriteLinkString(h, txt, run.Link)
			} else {
				e.pdf.Write(h, txt)
			}
		}
		e.pdf.Ln(h)
	}
	return e.err()
}

// writeLine emits runs on a single line without wrapping. Used for headers,
// footers, and other fragments that must not trigger page breaks.
func (e *fpdfEngine) writeLine(runs []textRun, align Alignment) {
	h := e.maxLineHeight(runs)
	frags := make([]lineFrag, 0, len(runs))
	total := 0.0
	for _, run := range runs {
		e.applyStyle(run)
		w := e.pdf.GetStringWidth(e.text(run, run.Text))
		frags = append(frags, lineFrag{run: run, text: run.Text, width: w})
		total = total + w
	}
	e.placeLine(frags, total, align, h)
	e.pdf.Ln(h)
}

// lineFrag is a measured fragment of a wrapped line.
type lineFrag struct {
	run   textRun
	text  string
	width float64
}

// wrapRuns breaks runs into lines no wider than the content width, keeping
// fragment-to-run attribution so styles survive wrapping.
func (e *fpdfEngine) wrapRuns(runs []textRun) [][]lineFrag {
	var lines [][]lineFrag
	var cur []lineFrag
	curW := 0.0

	flush := func() {
		lines = append(lines, cur)
		cur = nil
		curW = 0
	}

	for _, run := range runs {
		e.applyStyle(run)
		for _, word := range strings.SplitAfter(run.Text, " ") {
			if word == "" {
				continue
			}
			w := e.pdf.GetStringWidth(e.text(run, word))
			if curW+w > e.contentW && len(cur) > 0 {
				flush()
				if strings.TrimSpace(word) == "" {
					continue // swallow the space at the break
				}
			}
			cur = append(cur, lineFrag{run: run, text: word, width: w})
			curW += w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	if len(lines) == 0 {
		lines = append(lines, nil)
	}
	return lines
}

// emitLine places one wrapped line at its alignment offset.
func (e *fpdfEngine) emitLine(line []lineFrag, align Alignment, h float64) {
	e.ensureRoom(h)
	total := 0.0
	for _, f := range line {
		total += f.width
	}
	e.placeLine(line, total, align, h)
	e.pdf.Ln(h)
}

// placeLine positions measured fragments on the current line.
func (e *fpdfEngine) placeLine(line []lineFrag, total float64, align Alignment, h float64) {
	x := e.margin
	switch align {
	case AlignCenter:
		x = e.margin + (e.contentW-total)/2
	case AlignRight:
		x = e.margin + e.contentW - total
	}
	if x < e.margin {
		x = e.margin
	}
	e.pdf.SetX(x)
	for _, f := range line {
		e.applyStyle(f.run)
		e.pdf.CellFormat(f.width, h, e.text(f.run, f.text), "", 0, "L", false, 0, f.run.Link)
	}
}

// tocEntry writes one table-of-contents row: title left-aligned, page label
// right-aligned in a fixed number column. linkID, when non-zero, makes the
// whole row a clickable internal link.
func (e *fpdfEngine) tocEntry(title, label string, linkID int) error {
	run := textRun{Text: title}
	h := e.applyStyle(run)
	e.ensureRoom(h)
	titleW := e.contentW - tocNumberColMM
	e.pdf.CellFormat(titleW, h, e.text(run, title), "", 0, "L", false, linkID, "")
	e.pdf.CellFormat(tocNumberColMM, h, label, "", 1, "R", false, linkID, "")
	return e.err()
}

// drawImage embeds a resolved image at the given alignment. A zero width
// renders at the image's natural print size, clamped to the content width.
func (e *fpdfEngine) drawImage(img *resolvedImage, align Alignment, widthMM float64) error {
	w := widthMM
	if w <= 0 {
		w = img.naturalWidthMM()
	}
	if w > e.contentW {
		w = e.contentW
	}
	h := img.heightForWidth(w)
	if maxH := e.pageH - 2*e.margin; h > maxH {
		w = w * maxH / h
		h = maxH
	}
	e.ensureRoom(h)

	opts := gofpdf.ImageOptions{ImageType: img.format}
	if !e.registeredImg[img.name] {
		e.pdf.RegisterImageOptionsReader(img.name, opts, bytes.NewReader(img.data))
		e.registeredImg[img.name] = true
	}

	x := e.margin
	switch align {
	case AlignCenter:
		x = e.margin + (e.contentW-w)/2
	case AlignRight:
		x = e.margin + e.contentW - w
	}
	e.pdf.ImageOptions(img.name, x, e.pdf.GetY(), w, 0, true, opts, 0, "")
	return e.err()
}

// err surfaces any accumulated gofpdf error as a layout error.
func (e *fpdfEngine) err() error {
	if err := e.pdf.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrLayout, err)
	}
	return nil
}

// output finalizes the document and returns its bytes.
func (e *fpdfEngine) output() ([]byte, error) {
	if err := e.err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := e.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayout, err)
	}
	return buf.Bytes(), nil
}
