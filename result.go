package docpdf

// PageEntry maps one section to the first content page it renders on.
// Content pages are numbered from 1 starting at the first physical page (the
// cover, when present); table-of-contents pages are excluded, so the entry
// matches the page number a reader sees printed in headers, footers, and the
// table of contents.
type PageEntry struct {
	Title string
	Page  int
}

// PageMap is the ordered section-to-first-page mapping, in document order.
// Sections may share a title; entries keep their positions regardless.
type PageMap []PageEntry

// Page returns the first content page of the first section with the given
// title, or 0 when no section matches.
func (m PageMap) Page(title string) int {
	for _, e := range m {
		if e.Title == title {
			return e.Page
		}
	}
	return 0
}

// RenderResult is the output of a render call: the finished PDF bytes and
// the page map observed while producing them.
type RenderResult struct {
	PDF   []byte
	Pages PageMap
}
