// Package docpdf assembles structured documents (cover, sections, rich-text
// spans, images) into paginated PDF files with deterministic page numbering.
//
// # Quick Start
//
// Build a document with the fluent builder, then render it:
//
//	doc, err := docpdf.NewDocument().
//	    AddSection(docpdf.NewSection("Intro").
//	        AddBlock(docpdf.NewParagraph(docpdf.NewSpan("Hello, PDF!").Bold()))).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := docpdf.NewRenderer().Render(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// The result contains the PDF bytes (result.PDF) and a page map recording the
// first page of every section (result.Pages).
//
// # Rendering Protocol
//
// Rendering runs in one or two passes:
//
//  1. A dry run lays out the whole document, discards the bytes, and records
//     the first page of every section. It runs only when a printed table of
//     contents, page tracking, or bookmarks are requested.
//  2. The final pass re-lays out the document with identical configuration,
//     printing the table of contents from the recorded page numbers.
//
// Given the same document value, rendering produces byte-identical output on
// every invocation: no timestamps, no random identifiers.
//
// # Bookmarks
//
// With WithBookmarks(true) the rendered bytes are post-processed to carry a
// document outline, one top-level entry per section, pointing at the
// section's first page. AddBookmarks exposes the same step for callers that
// hold rendered bytes and a page map of their own.
//
// # Content Model
//
// Span is the smallest unit of rich text; style composition is additive and
// every with-style call returns a new value:
//
//	docpdf.NewSpan("important").Bold().Colored(docpdf.RGB(200, 30, 30))
//
// Paragraphs, images (with optional styled captions), highlighted code blocks,
// and explicit page breaks make up section content. ParseMarkup converts a
// small inline markup syntax into spans, and BlocksFromMarkdown converts
// Markdown via Goldmark.
//
// # Fonts
//
// Fonts are resolved at render time with a fixed search order: an explicit
// directory (WithFontDir or DOCPDF_FONTS_DIR), an assets/fonts directory next
// to the executable, assets/fonts under the working directory, and finally
// the built-in Helvetica core font. Custom backends implement FontProvider.
package docpdf
