package docpdf

import "errors"

// Sentinel errors for library operations.
var (
	// Configuration errors (invalid options supplied before render).
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrInvalidAlignment   = errors.New("invalid alignment")
	ErrNilDocument        = errors.New("document cannot be nil")
	ErrDocumentConsumed   = errors.New("document already rendered; build a new one")

	// Layout errors (propagated from the layout engine).
	ErrLayout = errors.New("layout engine failed")

	// Asset errors (font or image resolution at render time).
	ErrFontLoad  = errors.New("font loading failed")
	ErrImageLoad = errors.New("image loading failed")

	// Post-processing errors (outline injection on rendered bytes).
	ErrPostProcess = errors.New("outline post-processing failed")

	// Invariant violations (internal inconsistencies surfaced, never corrected).
	ErrPassMismatch   = errors.New("dry-run and final pass diverged")
	ErrPageOutOfRange = errors.New("page number exceeds document page count")

	// Markup parsing errors.
	ErrMarkupParse = errors.New("markup parsing failed")

	// Markdown conversion errors.
	ErrMarkdownParse = errors.New("markdown parsing failed")
)
