package docpdf

import (
	"fmt"

	"github.com/multiplex55/docpdf/internal/fontassets"
)

// FontFamily holds the four faces the renderer embeds. A family with nil
// face data names a built-in core font of the layout engine.
type FontFamily struct {
	Name       string
	Regular    []byte
	Bold       []byte
	Italic     []byte
	BoldItalic []byte
}

// Builtin reports whether the family is a layout-engine core font.
func (f *FontFamily) Builtin() bool {
	return f.Regular == nil
}

// FontProvider supplies the font family used for rendering. Implementations
// may load from the filesystem, embedded assets, object storage, etc. The
// renderer treats the provider as opaque and only consumes the face bytes.
type FontProvider interface {
	// ResolveFonts returns the family to embed, or an error when the
	// configured fonts cannot be located or read.
	ResolveFonts() (*FontFamily, error)
}

// defaultFontProvider resolves fonts from the filesystem search order:
// explicit directory (option or DOCPDF_FONTS_DIR), executable-adjacent
// assets/fonts, working-directory assets/fonts, built-in core fallback.
type defaultFontProvider struct {
	dir    string
	family string
}

func (p *defaultFontProvider) ResolveFonts() (*FontFamily, error) {
	fam, err := fontassets.Resolve(p.dir, p.family)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}
	return &FontFamily{
		Name:       fam.Name,
		Regular:    fam.Regular,
		Bold:       fam.Bold,
		Italic:     fam.Italic,
		BoldItalic: fam.BoldItalic,
	}, nil
}
