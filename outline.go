package docpdf

import (
	"errors"
	"fmt"

	"github.com/multiplex55/docpdf/internal/outline"
)

// AddBookmarks appends an outline (bookmark) tree to an already-rendered
// PDF: one top-level bookmark per entry, in order, each targeting a physical
// 1-based page of the file. The input bytes are not modified; the returned
// slice is a fresh copy even when entries is empty.
//
// Render applies the same operation automatically when the document enables
// bookmarks; this entry point serves externally produced PDFs.
func AddBookmarks(pdf []byte, bookmarks PageMap) ([]byte, error) {
	entries := make([]outline.Entry, 0, len(bookmarks))
	for _, b := range bookmarks {
		entries = append(entries, outline.Entry{Title: b.Title, Page: b.Page})
	}
	out, err := outline.Append(pdf, entries)
	if err != nil {
		return nil, wrapOutlineErr(err)
	}
	return out, nil
}

// injectBookmarks attaches one bookmark per section after a render. The page
// map carries content page numbers; bookmarks target physical pages, so
// front-matter pages (the table of contents) shift every target by their
// count.
func injectBookmarks(pdf []byte, pages PageMap, frontPages int) ([]byte, error) {
	entries := make([]outline.Entry, 0, len(pages))
	for _, e := range pages {
		entries = append(entries, outline.Entry{Title: e.Title, Page: e.Page + frontPages})
	}
	out, err := outline.Append(pdf, entries)
	if err != nil {
		return nil, wrapOutlineErr(err)
	}
	return out, nil
}

// wrapOutlineErr maps internal outline errors onto the public taxonomy.
func wrapOutlineErr(err error) error {
	if errors.Is(err, outline.ErrPageRange) {
		return fmt.Errorf("%w: %v", ErrPageOutOfRange, err)
	}
	return fmt.Errorf("%w: %v", ErrPostProcess, err)
}
