package docpdf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Font sizes in points for the built-in text roles.
const (
	bodySize       = 11.0
	captionSize    = 9.0
	headingSize    = 16.0
	coverTitleSize = 24.0
	coverSubSize   = 16.0
	tocTitleSize   = 18.0
)

// textRun is the run-length styled-text representation the layout engine
// consumes. One span maps to exactly one run: adjacent runs are never merged,
// even when their styles are visually identical, so style boundaries survive
// the trip through the engine.
type textRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Mono      bool
	Size      float64 // points; 0 means body size
	Color     *Color
	Link      string
}

// resolveRuns converts a span sequence into layout-engine runs at the given
// size (0 = body size), preserving link targets as clickable-region metadata.
func resolveRuns(spans []Span, size float64) []textRun {
	runs := make([]textRun, 0, len(spans))
	for _, s := range spans {
		run := textRun{
			Text:      s.text,
			Bold:      s.bold,
			Italic:    s.italic,
			Underline: s.underline,
			Size:      size,
			Link:      s.link,
		}
		if s.color != nil {
			c := *s.color
			run.Color = &c
		}
		runs = append(runs, run)
	}
	return runs
}

// MarkupError describes a markup parsing failure with the byte index at
// which it was detected. It matches ErrMarkupParse under errors.Is.
type MarkupError struct {
	Index   int
	Message string
}

func (e *MarkupError) Error() string {
	return fmt.Sprintf("%s (at byte %d)", e.Message, e.Index)
}

func (e *MarkupError) Unwrap() error { return ErrMarkupParse }

func markupErr(index int, message string) error {
	return &MarkupError{Index: index, Message: message}
}

// markup markers and their closing tokens.
type marker int

const (
	markerBold marker = iota
	markerItalic
	markerColor
)

func (m marker) closingToken() string {
	switch m {
	case markerBold:
		return "**"
	case markerItalic:
		return "*"
	default:
		return "}"
	}
}

func (m marker) description() string {
	switch m {
	case markerBold:
		return "bold span"
	case markerItalic:
		return "italic span"
	default:
		return "color span"
	}
}

// styleState carries the inline style flags accumulated while parsing.
type styleState struct {
	bold   bool
	italic bool
	color  *Color
}

func (st styleState) span(text string) Span {
	s := Span{text: text, bold: st.bold, italic: st.italic}
	if st.color != nil {
		c := *st.color
		s.color = &c
	}
	return s
}

// ParseMarkup parses a small markup syntax into spans:
//
//   - **bold** for bold text
//   - *italic* for italic text
//   - [color=#RRGGBB]{text} for colored text
//
// Styles nest, so "**very *cool***" yields a bold span followed by a
// bold-italic span. The parser validates strictly and returns a *MarkupError
// with positional information for malformed input. Underline is not exposed
// through this syntax; callers may set it on the returned spans.
func ParseMarkup(input string) ([]Span, error) {
	spans, idx, err := parseMarkupInner(input, 0, styleState{}, -1)
	if err != nil {
		return nil, err
	}
	if idx != len(input) {
		return nil, markupErr(idx, "parser stopped before end of input")
	}
	return spans, nil
}

// parseMarkupInner consumes input from index under the given style state
// until the closing token of closing (or end of input when closing < 0).
func parseMarkupInner(input string, index int, state styleState, closing marker) ([]Span, int, error) {
	var spans []Span
	var buffer strings.Builder

	flush := func() {
		if buffer.Len() == 0 {
			return
		}
		spans = append(spans, state.span(buffer.String()))
		buffer.Reset()
	}

	for index < len(input) {
		rest := input[index:]

		if closing >= 0 && strings.HasPrefix(rest, closing.closingToken()) {
			flush()
			return spans, index + len(closing.closingToken()), nil
		}

		switch {
		case strings.HasPrefix(rest, "**"):
			flush()
			nested := state
			nested.bold = true
			inner, next, err := parseMarkupInner(input, index+2, nested, markerBold)
			if err != nil {
				return nil, 0, err
			}
			spans = append(spans, inner...)
			index = next

		case strings.HasPrefix(rest, "*"):
			flush()
			nested := state
			nested.italic = true
			inner, next, err := parseMarkupInner(input, index+1, nested, markerItalic)
			if err != nil {
				return nil, 0, err
			}
			spans = append(spans, inner...)
			index = next

		case strings.HasPrefix(rest, "[color="):
			color, next, err := parseColorDirective(input, index)
			if err != nil {
				return nil, 0, err
			}
			flush()
			nested := state
			nested.color = &color
			inner, after, err := parseMarkupInner(input, next, nested, markerColor)
			if err != nil {
				return nil, 0, err
			}
			spans = append(spans, inner...)
			index = after

		case strings.HasPrefix(rest, "}"):
			return nil, 0, markupErr(index, "unexpected closing token `}` without matching opening `[color=...]`")

		case strings.HasPrefix(rest, "]"):
			return nil, 0, markupErr(index, "unexpected closing token `]`")

		case strings.HasPrefix(rest, "["):
			return nil, 0, markupErr(index, "unsupported directive; expected `[color=#RRGGBB]{...}`")

		default:
			_, size := utf8.DecodeRuneInString(rest)
			buffer.WriteString(rest[:size])
			index += size
		}
	}

	if closing >= 0 {
		return nil, 0, markupErr(index, "unterminated "+closing.description())
	}
	flush()
	return spans, index, nil
}

// parseColorDirective parses "[color=#RRGGBB]{" starting at index and
// returns the color plus the index just past the opening brace.
func parseColorDirective(input string, index int) (Color, int, error) {
	const prefix = "[color="
	startHex := index + len(prefix)
	if startHex >= len(input) || input[startHex] != '#' {
		return Color{}, 0, markupErr(startHex, "expected `#` followed by a hexadecimal RGB value")
	}

	hexStart := startHex + 1
	hexEnd := hexStart + 6
	if hexEnd > len(input) {
		return Color{}, 0, markupErr(hexStart, "incomplete color specification; expected 6 hexadecimal digits")
	}

	hex := input[hexStart:hexEnd]
	for _, c := range hex {
		if !isHexDigit(byte(c)) {
			return Color{}, 0, markupErr(hexStart, "invalid RGB specification; use hexadecimal digits only")
		}
	}

	r, _ := strconv.ParseUint(hex[0:2], 16, 8)
	g, _ := strconv.ParseUint(hex[2:4], 16, 8)
	b, _ := strconv.ParseUint(hex[4:6], 16, 8)

	bracket := hexEnd
	if bracket >= len(input) || input[bracket] != ']' {
		return Color{}, 0, markupErr(bracket, "expected `]` to close color directive")
	}

	brace := bracket + 1
	if brace >= len(input) || input[brace] != '{' {
		return Color{}, 0, markupErr(brace, "expected `{` to start the colored text")
	}

	return RGB(uint8(r), uint8(g), uint8(b)), brace + 1, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
