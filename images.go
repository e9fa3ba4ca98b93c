package docpdf

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// defaultImageDPI converts pixel dimensions into natural print size when no
// explicit width is requested.
const defaultImageDPI = 300.0

const mmPerInch = 25.4

// resolvedImage is decoded image metadata plus the encoded bytes the layout
// engine embeds. The name is derived from the content hash so repeated
// renders register identical resources in identical order.
type resolvedImage struct {
	name     string
	data     []byte
	format   string // layout engine image type: "PNG", "JPG", "GIF"
	widthPx  int
	heightPx int
}

// naturalWidthMM returns the print width of the image at the default DPI.
func (r *resolvedImage) naturalWidthMM() float64 {
	return float64(r.widthPx) * mmPerInch / defaultImageDPI
}

// heightForWidth returns the aspect-preserving height for a given width.
func (r *resolvedImage) heightForWidth(widthMM float64) float64 {
	if r.widthPx == 0 {
		return 0
	}
	return widthMM * float64(r.heightPx) / float64(r.widthPx)
}

// resolveImage loads and decodes an image source. Path sources are read at
// render time; a missing or unreadable file is an asset error. Formats the
// layout engine cannot embed directly are re-encoded to PNG.
func resolveImage(src ImageSource) (*resolvedImage, error) {
	data := src.data
	if data == nil {
		if src.path == "" {
			return nil, fmt.Errorf("%w: empty image source", ErrImageLoad)
		}
		var err error
		data, err = os.ReadFile(src.path) // #nosec G304 -- image path comes from the document model
		if err != nil {
			return nil, fmt.Errorf("%w: reading %q: %v", ErrImageLoad, src.path, err)
		}
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", ErrImageLoad, err)
	}

	format := ""
	switch kind, _ := filetype.Match(data); kind {
	case matchers.TypePng:
		format = "PNG"
	case matchers.TypeJpeg:
		format = "JPG"
	case matchers.TypeGif:
		format = "GIF"
	default:
		// Re-encode anything else (webp, bmp, tiff, ...) as PNG.
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("%w: re-encoding image: %v", ErrImageLoad, err)
		}
		data = buf.Bytes()
		format = "PNG"
	}

	sum := sha256.Sum256(data)
	bounds := img.Bounds()

	return &resolvedImage{
		name:     "img-" + hex.EncodeToString(sum[:8]),
		data:     data,
		format:   format,
		widthPx:  bounds.Dx(),
		heightPx: bounds.Dy(),
	}, nil
}
