package docpdf

import (
	"fmt"
	"strings"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in millimetres.
const (
	MinMargin     = 5.0
	MaxMargin     = 60.0
	DefaultMargin = 15.0
)

// Alignment controls horizontal placement of text and images.
type Alignment int

// Horizontal alignment values. AlignJustify is accepted for compatibility
// with serialized documents but renders as left-aligned flow.
const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

// String returns the lowercase name of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	}
	return fmt.Sprintf("alignment(%d)", int(a))
}

// ParseAlignment converts a name ("left", "center", "right", "justify") into
// an Alignment. Comparison is case-insensitive.
func ParseAlignment(name string) (Alignment, error) {
	switch strings.ToLower(name) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	case "justify", "justified":
		return AlignJustify, nil
	}
	return AlignLeft, fmt.Errorf("%w: %q", ErrInvalidAlignment, name)
}

// PageSettings configures page dimensions for a document.
type PageSettings struct {
	Size        string  // "a4", "letter", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // millimetres, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if p.Size != "" && !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if p.Orientation != "" && !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin != 0 && (p.Margin < MinMargin || p.Margin > MaxMargin) {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// resolved fills in defaults for zero-valued fields and normalizes case.
func (p *PageSettings) resolved() PageSettings {
	out := *DefaultPageSettings()
	if p == nil {
		return out
	}
	if p.Size != "" {
		out.Size = strings.ToLower(p.Size)
	}
	if p.Orientation != "" {
		out.Orientation = strings.ToLower(p.Orientation)
	}
	if p.Margin != 0 {
		out.Margin = p.Margin
	}
	return out
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeA4, PageSizeLetter, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}
