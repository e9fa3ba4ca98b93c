package docpdf

// Notes:
// - DocumentBuilder: tests value semantics (branching a builder), validation
//   at Build, and default settings
// - Document: tests single-consumption marking
// - Section/Cover: tests copy-on-append and OnNewPage idempotence

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDocumentBuilder_Defaults - Build With No Configuration
// ---------------------------------------------------------------------------

func TestDocumentBuilder_Defaults(t *testing.T) {
	t.Parallel()

	doc, err := NewDocument().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if doc.page != *DefaultPageSettings() {
		t.Errorf("page = %+v, want defaults", doc.page)
	}
	if doc.align != AlignLeft {
		t.Errorf("align = %v, want AlignLeft", doc.align)
	}
	if doc.toc || doc.bookmarks || doc.trackPages {
		t.Error("toc/bookmarks/trackPages enabled by default")
	}
	if !doc.headingPromote {
		t.Error("heading promotion disabled by default")
	}
	if doc.tocTitle != DefaultTOCTitle {
		t.Errorf("tocTitle = %q, want %q", doc.tocTitle, DefaultTOCTitle)
	}
}

// ---------------------------------------------------------------------------
// TestDocumentBuilder_Validation - Invalid Configuration
// ---------------------------------------------------------------------------

func TestDocumentBuilder_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		build   func() (*Document, error)
		wantErr error
	}{
		{
			name: "bad page size",
			build: func() (*Document, error) {
				return NewDocument().WithPageSettings(PageSettings{Size: "tabloid"}).Build()
			},
			wantErr: ErrInvalidPageSize,
		},
		{
			name: "bad margin",
			build: func() (*Document, error) {
				return NewDocument().WithPageSettings(PageSettings{Margin: 500}).Build()
			},
			wantErr: ErrInvalidMargin,
		},
		{
			name: "bad alignment",
			build: func() (*Document, error) {
				return NewDocument().WithAlignment(Alignment(42)).Build()
			},
			wantErr: ErrInvalidAlignment,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.build()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDocumentBuilder_ValueSemantics - Branching A Builder
// ---------------------------------------------------------------------------

func TestDocumentBuilder_ValueSemantics(t *testing.T) {
	t.Parallel()

	base := NewDocument().AddSection(NewSection("Shared"))

	left, err := base.AddSection(NewSection("Left")).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	right, err := base.AddSection(NewSection("Right")).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := left.Sections(); len(got) != 2 || got[1].Title() != "Left" {
		t.Errorf("left sections = %v", titles(got))
	}
	if got := right.Sections(); len(got) != 2 || got[1].Title() != "Right" {
		t.Errorf("right sections = %v (branch leaked into sibling)", titles(got))
	}
}

func titles(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Title()
	}
	return out
}

// ---------------------------------------------------------------------------
// TestDocument_Consume - Single Consumption
// ---------------------------------------------------------------------------

func TestDocument_Consume(t *testing.T) {
	t.Parallel()

	doc, err := NewDocument().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !doc.consume() {
		t.Fatal("first consume() = false, want true")
	}
	if doc.consume() {
		t.Error("second consume() = true, want false")
	}
}

// ---------------------------------------------------------------------------
// TestSection_OnNewPage - Leading Break Insertion
// ---------------------------------------------------------------------------

func TestSection_OnNewPage(t *testing.T) {
	t.Parallel()

	sec := NewSection("S").AddBlock(Text("body")).OnNewPage()
	blocks := sec.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
	if _, ok := blocks[0].(PageBreak); !ok {
		t.Fatalf("blocks[0] = %T, want PageBreak", blocks[0])
	}

	// Applying it twice must not stack breaks.
	again := sec.OnNewPage()
	if got := again.Blocks(); len(got) != 2 {
		t.Errorf("OnNewPage twice: len(blocks) = %d, want 2", len(got))
	}
}

// ---------------------------------------------------------------------------
// TestSection_CopyOnAppend - Independent Branches
// ---------------------------------------------------------------------------

func TestSection_CopyOnAppend(t *testing.T) {
	t.Parallel()

	base := NewSection("S").AddBlock(Text("one"))
	a := base.AddBlock(Text("two"))
	b := base.AddBlock(Text("three"))

	if len(base.Blocks()) != 1 {
		t.Errorf("base grew to %d blocks", len(base.Blocks()))
	}
	if len(a.Blocks()) != 2 || len(b.Blocks()) != 2 {
		t.Errorf("branch lengths = %d, %d, want 2, 2", len(a.Blocks()), len(b.Blocks()))
	}
}

// ---------------------------------------------------------------------------
// TestCover_Chaining - Cover Construction
// ---------------------------------------------------------------------------

func TestCover_Chaining(t *testing.T) {
	t.Parallel()

	c := NewCover("Title").WithSubtitle("Sub").AddBlock(Text("extra"))
	if c.Title() != "Title" || c.Subtitle() != "Sub" {
		t.Errorf("cover = %q / %q", c.Title(), c.Subtitle())
	}
	if len(c.Blocks()) != 1 {
		t.Errorf("len(Blocks()) = %d, want 1", len(c.Blocks()))
	}
}
