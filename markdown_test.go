package docpdf

// Notes:
// - SectionsFromMarkdown: tests heading-driven splitting, the untitled
//   leading section, and deep headings staying inline
// - BlocksFromMarkdown: tests emphasis mapping, links, code fences, lists,
//   thematic breaks, and standalone images

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestSectionsFromMarkdown - Heading Splitting
// ---------------------------------------------------------------------------

func TestSectionsFromMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("level one and two open sections", func(t *testing.T) {
		t.Parallel()
		source := []byte("# Intro\n\nfirst\n\n## Details\n\nsecond\n")
		sections, err := SectionsFromMarkdown(source)
		if err != nil {
			t.Fatalf("SectionsFromMarkdown() error = %v", err)
		}
		if len(sections) != 2 {
			t.Fatalf("len(sections) = %d, want 2: %v", len(sections), titles(sections))
		}
		if sections[0].Title() != "Intro" || sections[1].Title() != "Details" {
			t.Errorf("titles = %v", titles(sections))
		}
		if len(sections[0].Blocks()) != 1 || len(sections[1].Blocks()) != 1 {
			t.Errorf("block counts = %d, %d, want 1 each",
				len(sections[0].Blocks()), len(sections[1].Blocks()))
		}
	})

	t.Run("content before first heading is untitled", func(t *testing.T) {
		t.Parallel()
		source := []byte("preamble\n\n# Real\n\nbody\n")
		sections, err := SectionsFromMarkdown(source)
		if err != nil {
			t.Fatalf("SectionsFromMarkdown() error = %v", err)
		}
		if len(sections) != 2 {
			t.Fatalf("len(sections) = %d, want 2", len(sections))
		}
		if sections[0].Title() != "" {
			t.Errorf("leading section title = %q, want empty", sections[0].Title())
		}
	})

	t.Run("deep headings stay in their section", func(t *testing.T) {
		t.Parallel()
		source := []byte("# Top\n\n### Sub\n\nbody\n")
		sections, err := SectionsFromMarkdown(source)
		if err != nil {
			t.Fatalf("SectionsFromMarkdown() error = %v", err)
		}
		if len(sections) != 1 {
			t.Fatalf("len(sections) = %d, want 1", len(sections))
		}
		blocks := sections[0].Blocks()
		if len(blocks) != 2 {
			t.Fatalf("len(blocks) = %d, want 2 (heading paragraph + body)", len(blocks))
		}
		p, ok := blocks[0].(Paragraph)
		if !ok {
			t.Fatalf("blocks[0] = %T, want Paragraph", blocks[0])
		}
		spans := p.Spans()
		if len(spans) != 1 || !spans[0].IsBold() || spans[0].Text() != "Sub" {
			t.Errorf("deep heading spans = %+v", spans)
		}
	})

	t.Run("empty input yields no sections", func(t *testing.T) {
		t.Parallel()
		sections, err := SectionsFromMarkdown([]byte(""))
		if err != nil {
			t.Fatalf("SectionsFromMarkdown() error = %v", err)
		}
		if len(sections) != 0 {
			t.Errorf("len(sections) = %d, want 0", len(sections))
		}
	})
}

// ---------------------------------------------------------------------------
// TestBlocksFromMarkdown - Block Mapping
// ---------------------------------------------------------------------------

func TestBlocksFromMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("emphasis maps to span styles", func(t *testing.T) {
		t.Parallel()
		blocks, err := BlocksFromMarkdown([]byte("plain **bold** and *italic*\n"))
		if err != nil {
			t.Fatalf("BlocksFromMarkdown() error = %v", err)
		}
		if len(blocks) != 1 {
			t.Fatalf("len(blocks) = %d, want 1", len(blocks))
		}
		p := blocks[0].(Paragraph)
		spans := p.Spans()
		if len(spans) != 4 {
			t.Fatalf("len(spans) = %d, want 4: %+v", len(spans), spans)
		}
		if spans[0].IsBold() || spans[0].IsItalic() {
			t.Error("leading text styled")
		}
		if !spans[1].IsBold() || spans[1].Text() != "bold" {
			t.Errorf("spans[1] = %+v, want bold %q", spans[1], "bold")
		}
		if !spans[3].IsItalic() || spans[3].Text() != "italic" {
			t.Errorf("spans[3] = %+v, want italic %q", spans[3], "italic")
		}
	})

	t.Run("links carry their target", func(t *testing.T) {
		t.Parallel()
		blocks, err := BlocksFromMarkdown([]byte("see [docs](https://example.com)\n"))
		if err != nil {
			t.Fatalf("BlocksFromMarkdown() error = %v", err)
		}
		p := blocks[0].(Paragraph)
		spans := p.Spans()
		if len(spans) != 2 {
			t.Fatalf("len(spans) = %d, want 2", len(spans))
		}
		if spans[1].Link() != "https://example.com" || spans[1].Text() != "docs" {
			t.Errorf("spans[1] = text %q link %q", spans[1].Text(), spans[1].Link())
		}
	})

	t.Run("fenced code keeps language and text", func(t *testing.T) {
		t.Parallel()
		blocks, err := BlocksFromMarkdown([]byte("```go\nfmt.Println(\"hi\")\n```\n"))
		if err != nil {
			t.Fatalf("BlocksFromMarkdown() error = %v", err)
		}
		code, ok := blocks[0].(CodeBlock)
		if !ok {
			t.Fatalf("blocks[0] = %T, want CodeBlock", blocks[0])
		}
		if code.Language() != "go" {
			t.Errorf("Language() = %q, want go", code.Language())
		}
		if code.Source() != "fmt.Println(\"hi\")\n" {
			t.Errorf("Source() = %q", code.Source())
		}
	})

	t.Run("thematic break becomes a page break", func(t *testing.T) {
		t.Parallel()
		blocks, err := BlocksFromMarkdown([]byte("before\n\n---\n\nafter\n"))
		if err != nil {
			t.Fatalf("BlocksFromMarkdown() error = %v", err)
		}
		if len(blocks) != 3 {
			t.Fatalf("len(blocks) = %d, want 3", len(blocks))
		}
		if _, ok := blocks[1].(PageBreak); !ok {
			t.Errorf("blocks[1] = %T, want PageBreak", blocks[1])
		}
	})

	t.Run("lists become marked paragraphs", func(t *testing.T) {
		t.Parallel()
		blocks, err := BlocksFromMarkdown([]byte("- one\n- two\n"))
		if err != nil {
			t.Fatalf("BlocksFromMarkdown() error = %v", err)
		}
		if len(blocks) != 2 {
			t.Fatalf("len(blocks) = %d, want 2", len(blocks))
		}
		p := blocks[0].(Paragraph)
		spans := p.Spans()
		if len(spans) < 2 || spans[0].Text() != "- " {
			t.Errorf("first item spans = %+v, want leading marker", spans)
		}
	})

	t.Run("standalone image becomes an image block", func(t *testing.T) {
		t.Parallel()
		blocks, err := BlocksFromMarkdown([]byte("![diagram](figure.png)\n"))
		if err != nil {
			t.Fatalf("BlocksFromMarkdown() error = %v", err)
		}
		img, ok := blocks[0].(ImageBlock)
		if !ok {
			t.Fatalf("blocks[0] = %T, want ImageBlock", blocks[0])
		}
		if img.source.path != "figure.png" {
			t.Errorf("source path = %q, want figure.png", img.source.path)
		}
		if img.caption == nil {
			t.Error("alt text not promoted to caption")
		}
	})

	t.Run("invalid utf8 rejected", func(t *testing.T) {
		t.Parallel()
		_, err := BlocksFromMarkdown([]byte{0xff, 0xfe, 0xfd})
		if !errors.Is(err, ErrMarkdownParse) {
			t.Errorf("error = %v, want ErrMarkdownParse", err)
		}
	})
}
