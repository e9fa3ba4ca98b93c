package docpdf

// Color is an opaque RGB color applied to text spans.
type Color struct {
	R, G, B uint8
}

// RGB builds a Color from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Span is a styled run of text, the smallest unit of rich-text formatting.
//
// Spans are immutable value types: every with-style method returns a new span
// with the flag set, leaving the receiver untouched. Style composition is
// additive, so chains read naturally:
//
//	docpdf.NewSpan("warning").Bold().Colored(docpdf.RGB(200, 30, 30))
type Span struct {
	text      string
	bold      bool
	italic    bool
	underline bool
	color     *Color
	link      string
}

// NewSpan creates a span with the provided text and no styles applied.
func NewSpan(text string) Span {
	return Span{text: text}
}

// Text returns the raw text contained in the span.
func (s Span) Text() string { return s.text }

// IsBold reports whether the span renders in bold.
func (s Span) IsBold() bool { return s.bold }

// IsItalic reports whether the span renders in italic.
func (s Span) IsItalic() bool { return s.italic }

// IsUnderlined reports whether the span renders underlined.
func (s Span) IsUnderlined() bool { return s.underline }

// Color returns the configured color and whether one is set.
func (s Span) Color() (Color, bool) {
	if s.color == nil {
		return Color{}, false
	}
	return *s.color, true
}

// Link returns the link target, if any.
func (s Span) Link() string { return s.link }

// Bold returns a copy of the span marked bold.
func (s Span) Bold() Span {
	s.bold = true
	return s
}

// Italic returns a copy of the span marked italic.
func (s Span) Italic() Span {
	s.italic = true
	return s
}

// Underline returns a copy of the span marked underlined.
func (s Span) Underline() Span {
	s.underline = true
	return s
}

// Colored returns a copy of the span with the given color.
func (s Span) Colored(c Color) Span {
	s.color = &c
	return s
}

// Linked returns a copy of the span carrying a clickable link target.
// The target is passed through to the layout engine as region metadata.
func (s Span) Linked(url string) Span {
	s.link = url
	return s
}
