package docpdf

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// SectionsFromMarkdown converts a Markdown document into sections. Headings
// of level one and two open a new section titled with the heading text;
// content before the first heading lands in an untitled leading section.
// Deeper headings stay inside their section as bold paragraphs.
func SectionsFromMarkdown(source []byte) ([]Section, error) {
	nodes, err := markdownNodes(source, true)
	if err != nil {
		return nil, err
	}

	var sections []Section
	current := NewSection("")
	open := false
	for _, n := range nodes {
		if n.heading {
			if open {
				sections = append(sections, current)
			}
			current = NewSection(n.title)
			open = true
			continue
		}
		current = current.AddBlock(n.block)
		open = true
	}
	if open {
		sections = append(sections, current)
	}
	return sections, nil
}

// BlocksFromMarkdown converts a Markdown fragment into content blocks. All
// headings render as bold paragraphs; use SectionsFromMarkdown for document
// structure.
func BlocksFromMarkdown(source []byte) ([]Block, error) {
	nodes, err := markdownNodes(source, false)
	if err != nil {
		return nil, err
	}
	blocks := make([]Block, 0, len(nodes))
	for _, n := range nodes {
		blocks = append(blocks, n.block)
	}
	return blocks, nil
}

// mdNode is one walked top-level construct: either a section-opening heading
// or a content block.
type mdNode struct {
	heading bool
	title   string
	block   Block
}

// markdownNodes walks the parsed tree top to bottom. When split is set,
// level-1/2 headings are reported as heading nodes instead of producing a
// block.
func markdownNodes(source []byte, split bool) ([]mdNode, error) {
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w: source is not valid UTF-8", ErrMarkdownParse)
	}

	md := goldmark.New()
	root := md.Parser().Parse(gtext.NewReader(source))

	var nodes []mdNode
	add := func(b Block) {
		nodes = append(nodes, mdNode{block: b})
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			text := plainText(node, source)
			if split && node.Level <= 2 {
				nodes = append(nodes, mdNode{heading: true, title: text})
				continue
			}
			add(NewParagraph(NewSpan(text).Bold()))

		case *ast.Paragraph:
			if img, ok := soleImage(node); ok {
				block := NewImage(ImageFromPath(string(img.Destination)))
				if alt := plainText(node, source); alt != "" {
					block = block.WithCaption(Text(alt))
				}
				add(block)
				continue
			}
			add(NewParagraph(inlineSpans(node, source, spanStyle{})...))

		case *ast.FencedCodeBlock:
			lang := ""
			if node.Info != nil {
				lang = string(node.Language(source))
			}
			add(NewCode(rawLines(node, source), lang))

		case *ast.CodeBlock:
			add(NewCode(rawLines(node, source), ""))

		case *ast.ThematicBreak:
			add(NewPageBreak())

		case *ast.Blockquote:
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				spans := inlineSpans(child, source, spanStyle{italic: true})
				if len(spans) > 0 {
					add(NewParagraph(spans...))
				}
			}

		case *ast.List:
			marker := func(i int) string {
				if node.IsOrdered() {
					return fmt.Sprintf("%d. ", node.Start+i)
				}
				return "- "
			}
			i := 0
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				spans := append([]Span{NewSpan(marker(i))}, inlineSpans(item, source, spanStyle{})...)
				add(NewParagraph(spans...))
				i++
			}
		}
	}
	return nodes, nil
}

// spanStyle accumulates inline styling while descending the tree.
type spanStyle struct {
	bold   bool
	italic bool
	link   string
}

func (st spanStyle) span(text string) Span {
	s := NewSpan(text)
	if st.bold {
		s = s.Bold()
	}
	if st.italic {
		s = s.Italic()
	}
	if st.link != "" {
		s = s.Linked(st.link)
	}
	return s
}

// inlineSpans flattens the inline children of a node into spans.
func inlineSpans(n ast.Node, source []byte, st spanStyle) []Span {
	var spans []Span
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			text := string(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				text += " "
			}
			spans = append(spans, st.span(text))

		case *ast.String:
			spans = append(spans, st.span(string(node.Value)))

		case *ast.CodeSpan:
			spans = append(spans, st.span(string(node.Text(source))))

		case *ast.Emphasis:
			nested := st
			if node.Level >= 2 {
				nested.bold = true
			} else {
				nested.italic = true
			}
			spans = append(spans, inlineSpans(node, source, nested)...)

		case *ast.Link:
			nested := st
			nested.link = string(node.Destination)
			spans = append(spans, inlineSpans(node, source, nested)...)

		case *ast.AutoLink:
			url := string(node.URL(source))
			nested := st
			nested.link = url
			spans = append(spans, nested.span(url))

		default:
			spans = append(spans, inlineSpans(child, source, st)...)
		}
	}
	return spans
}

// plainText flattens a node's inline content to unstyled text.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for _, s := range inlineSpans(n, source, spanStyle{}) {
		sb.WriteString(s.Text())
	}
	return strings.TrimSpace(sb.String())
}

// soleImage reports whether a paragraph consists of a single image node.
func soleImage(p *ast.Paragraph) (*ast.Image, bool) {
	if p.ChildCount() != 1 {
		return nil, false
	}
	img, ok := p.FirstChild().(*ast.Image)
	return img, ok
}

// rawLines joins a code block's line segments back into source text.
func rawLines(n interface {
	Lines() *gtext.Segments
}, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}
