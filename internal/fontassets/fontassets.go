// Package fontassets resolves font families from the filesystem with a
// fixed search order. Callers receive raw face bytes; decoding and embedding
// are the renderer's concern.
package fontassets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for font resolution.
var (
	ErrFamilyIncomplete = errors.New("fontassets: font family incomplete")
	ErrFaceRead         = errors.New("fontassets: reading font face failed")
)

// EnvFontsDir names the environment variable that prepends an explicit
// directory to the search order.
const EnvFontsDir = "DOCPDF_FONTS_DIR"

// DefaultFamilyName is the family looked up when the caller does not
// configure one.
const DefaultFamilyName = "Roboto"

// FallbackFamilyName is the built-in core font used when no family can be
// found on disk. Core fonts ship with the renderer and need no face bytes.
const FallbackFamilyName = "Helvetica"

// faceSuffixes are the file name suffixes of the four faces, in the order
// they appear in Family.
var faceSuffixes = [4]string{"-Regular.ttf", "-Bold.ttf", "-Italic.ttf", "-BoldItalic.ttf"}

// Family holds the four faces of a resolved font family. A family with nil
// face bytes denotes a built-in core font.
type Family struct {
	Name       string
	Regular    []byte
	Bold       []byte
	Italic     []byte
	BoldItalic []byte
}

// Builtin reports whether the family is a renderer-builtin core font.
func (f *Family) Builtin() bool {
	return f.Regular == nil
}

// faceFiles returns the expected file names for a family.
func faceFiles(familyName string) [4]string {
	var out [4]string
	for i, suffix := range faceSuffixes {
		out[i] = familyName + suffix
	}
	return out
}

// missingFaces lists the face files absent from dir.
func missingFaces(dir, familyName string) []string {
	var missing []string
	for _, name := range faceFiles(familyName) {
		if info, err := os.Stat(filepath.Join(dir, name)); err != nil || info.IsDir() {
			missing = append(missing, name)
		}
	}
	return missing
}

// loadFamily reads all four faces of familyName from dir.
func loadFamily(dir, familyName string) (*Family, error) {
	files := faceFiles(familyName)
	faces := make([][]byte, 4)
	for i, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name)) // #nosec G304 -- path assembled from search candidates
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFaceRead, name, err)
		}
		faces[i] = data
	}
	return &Family{
		Name:       familyName,
		Regular:    faces[0],
		Bold:       faces[1],
		Italic:     faces[2],
		BoldItalic: faces[3],
	}, nil
}

// candidates returns the implicit search directories in order: the
// environment override, an assets/fonts directory next to the executable,
// and assets/fonts under the working directory.
func candidates() []string {
	var dirs []string
	if env := strings.TrimSpace(os.Getenv(EnvFontsDir)); env != "" {
		dirs = append(dirs, env)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "assets", "fonts"))
	}
	dirs = append(dirs, filepath.Join("assets", "fonts"))
	return dirs
}

// Resolve locates a font family.
//
// When explicitDir is non-empty only that directory is considered and an
// incomplete family is an error: a caller who names a directory wants those
// fonts, not a silent fallback. Otherwise the implicit candidates are tried
// in order and the built-in core font family is returned when none matches.
func Resolve(explicitDir, familyName string) (*Family, error) {
	if familyName == "" {
		familyName = DefaultFamilyName
	}

	if explicitDir != "" {
		if missing := missingFaces(explicitDir, familyName); len(missing) > 0 {
			return nil, fmt.Errorf("%w: %q missing [%s] in %s",
				ErrFamilyIncomplete, familyName, strings.Join(missing, ", "), explicitDir)
		}
		return loadFamily(explicitDir, familyName)
	}

	for _, dir := range candidates() {
		if len(missingFaces(dir, familyName)) == 0 {
			return loadFamily(dir, familyName)
		}
	}

	return &Family{Name: FallbackFamilyName}, nil
}
