package main

// Notes:
// - loadSpec: tests strict decoding (unknown fields rejected)
// - buildDocument: tests flag overrides and validation surfacing
// - buildBlocks: tests block kind dispatch
// - pageTemplate: tests {page} expansion and up-front markup validation

import (
	"errors"
	"testing"

	"github.com/multiplex55/docpdf"
)

const sampleYAML = `
title: Quarterly Report
subtitle: Q3
toc: true
bookmarks: true
align: left
footer: "Page {page}"
page:
  size: a4
  orientation: portrait
  margin: 20
sections:
  - title: Summary
    content:
      - text: "All **good**."
  - title: Data
    new_page: true
    align: center
    content:
      - code: |
          SELECT 1;
        language: sql
      - markdown: |
          Some *inline* markdown.
`

// ---------------------------------------------------------------------------
// TestLoadSpec - YAML Decoding
// ---------------------------------------------------------------------------

func TestLoadSpec(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()
		spec, err := loadSpec([]byte(sampleYAML))
		if err != nil {
			t.Fatalf("loadSpec() error = %v", err)
		}
		if spec.Title != "Quarterly Report" || !spec.TOC || !spec.Bookmarks {
			t.Errorf("spec = %+v", spec)
		}
		if len(spec.Sections) != 2 {
			t.Fatalf("len(Sections) = %d, want 2", len(spec.Sections))
		}
		if spec.Sections[1].Content[0].Language != "sql" {
			t.Errorf("code language = %q, want sql", spec.Sections[1].Content[0].Language)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()
		_, err := loadSpec([]byte("title: x\nbogus_field: y\n"))
		if err == nil {
			t.Fatal("loadSpec() accepted an unknown field")
		}
	})

	t.Run("empty input rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := loadSpec(nil); err == nil {
			t.Fatal("loadSpec(nil) succeeded")
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildDocument - Spec To Document
// ---------------------------------------------------------------------------

func TestBuildDocument(t *testing.T) {
	t.Parallel()

	t.Run("full spec builds", func(t *testing.T) {
		t.Parallel()
		spec, err := loadSpec([]byte(sampleYAML))
		if err != nil {
			t.Fatal(err)
		}
		doc, err := buildDocument(spec, &renderFlags{})
		if err != nil {
			t.Fatalf("buildDocument() error = %v", err)
		}
		if got := doc.Sections(); len(got) != 2 || got[0].Title() != "Summary" {
			t.Errorf("sections = %d", len(got))
		}
		if doc.Cover() == nil || doc.Cover().Title() != "Quarterly Report" {
			t.Error("cover missing or wrong title")
		}
	})

	t.Run("flags override spec", func(t *testing.T) {
		t.Parallel()
		spec, err := loadSpec([]byte(sampleYAML))
		if err != nil {
			t.Fatal(err)
		}
		f := &renderFlags{}
		f.page.size = "letter"
		f.features.align = "right"
		if _, err := buildDocument(spec, f); err != nil {
			t.Fatalf("buildDocument() error = %v", err)
		}
	})

	t.Run("bad margin surfaces", func(t *testing.T) {
		t.Parallel()
		spec := &documentSpec{Page: &pageSpec{Margin: 999}}
		_, err := buildDocument(spec, &renderFlags{})
		if !errors.Is(err, docpdf.ErrInvalidMargin) {
			t.Errorf("error = %v, want ErrInvalidMargin", err)
		}
	})

	t.Run("bad markup names the section", func(t *testing.T) {
		t.Parallel()
		spec := &documentSpec{Sections: []sectionSpec{{
			Title:   "Broken",
			Content: []blockSpec{{Text: "**unterminated"}},
		}}}
		_, err := buildDocument(spec, &renderFlags{})
		if !errors.Is(err, docpdf.ErrMarkupParse) {
			t.Fatalf("error = %v, want ErrMarkupParse", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildBlocks - Block Dispatch
// ---------------------------------------------------------------------------

func TestBuildBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bs   blockSpec
		want int
	}{
		{name: "text", bs: blockSpec{Text: "hello"}, want: 1},
		{name: "code", bs: blockSpec{Code: "x = 1", Language: "python"}, want: 1},
		{name: "page break", bs: blockSpec{PageBreak: true}, want: 1},
		{name: "image", bs: blockSpec{Image: "pic.png", Caption: "A picture", Width: 80}, want: 1},
		{name: "markdown multi", bs: blockSpec{Markdown: "one\n\ntwo\n"}, want: 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			blocks, err := buildBlocks(tt.bs)
			if err != nil {
				t.Fatalf("buildBlocks() error = %v", err)
			}
			if len(blocks) != tt.want {
				t.Errorf("len(blocks) = %d, want %d", len(blocks), tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPageTemplate - Header/Footer Expansion
// ---------------------------------------------------------------------------

func TestPageTemplate(t *testing.T) {
	t.Parallel()

	t.Run("expands page number", func(t *testing.T) {
		t.Parallel()
		fn, err := pageTemplate("Page **{page}**")
		if err != nil {
			t.Fatalf("pageTemplate() error = %v", err)
		}
		p := fn(7)
		spans := p.Spans()
		if len(spans) != 2 || spans[1].Text() != "7" || !spans[1].IsBold() {
			t.Errorf("spans = %+v", spans)
		}
	})

	t.Run("bad markup fails up front", func(t *testing.T) {
		t.Parallel()
		if _, err := pageTemplate("**broken"); err == nil {
			t.Fatal("pageTemplate() accepted invalid markup")
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseFlags - Command Line
// ---------------------------------------------------------------------------

func TestParseFlags(t *testing.T) {
	t.Parallel()

	f, args, err := parseFlags([]string{
		"docpdf", "--toc", "--bookmarks", "-o", "out.pdf",
		"--page-size", "letter", "--margin", "20", "doc.yaml",
	})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if !f.toc.enabled || !f.features.bookmarks {
		t.Error("boolean flags not set")
	}
	if f.common.output != "out.pdf" || f.page.size != "letter" || f.page.margin != 20 {
		t.Errorf("flags = %+v", f)
	}
	if len(args) != 1 || args[0] != "doc.yaml" {
		t.Errorf("args = %v, want [doc.yaml]", args)
	}
}

func TestParseFlags_Version(t *testing.T) {
	t.Parallel()

	f, _, err := parseFlags([]string{"docpdf", "--version"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if !f.common.version {
		t.Error("version flag not set")
	}
}
