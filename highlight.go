package docpdf

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlightStyle is the chroma style used for code blocks. A light style
// keeps printed output readable on white paper.
const highlightStyle = "github"

// highlightCode tokenizes source with the chroma lexer for language and
// returns one run sequence per code line, all monospaced. Unknown languages
// and tokenizer failures degrade to unstyled monospace lines; code content
// is never dropped because highlighting is unavailable.
func highlightCode(source, language string) [][]textRun {
	source = strings.TrimRight(source, "\n")

	lexer := lexers.Get(language)
	if lexer == nil {
		return plainCodeLines(source)
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return plainCodeLines(source)
	}

	var lines [][]textRun
	current := []textRun{}
	for _, token := range iterator.Tokens() {
		entry := style.Get(token.Type)
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, current)
				current = []textRun{}
			}
			if part == "" {
				continue
			}
			run := textRun{
				Text:   part,
				Mono:   true,
				Bold:   entry.Bold == chroma.Yes,
				Italic: entry.Italic == chroma.Yes,
				Size:   captionSize,
			}
			if entry.Colour.IsSet() {
				c := RGB(entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
				run.Color = &c
			}
			current = append(current, run)
		}
	}
	lines = append(lines, current)
	return lines
}

// plainCodeLines renders source as unstyled monospace, one run per line.
func plainCodeLines(source string) [][]textRun {
	raw := strings.Split(source, "\n")
	lines := make([][]textRun, 0, len(raw))
	for _, line := range raw {
		if line == "" {
			lines = append(lines, []textRun{})
			continue
		}
		lines = append(lines, []textRun{{Text: line, Mono: true, Size: captionSize}})
	}
	return lines
}
