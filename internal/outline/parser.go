// Package outline appends a document outline (bookmarks) to a finished PDF
// as an incremental update: the original bytes are kept verbatim and the new
// objects, cross-reference section, and trailer are appended after them, so
// the operation never disturbs existing layout or byte determinism.
//
// The reader side understands classic cross-reference tables, which covers
// PDF 1.4-era writers. Files using cross-reference streams are rejected with
// ErrUnsupported rather than half-parsed.
package outline

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Sentinel errors for parsing and injection.
var (
	ErrMalformed   = errors.New("outline: malformed pdf")
	ErrUnsupported = errors.New("outline: unsupported cross-reference format")
	ErrPageRange   = errors.New("outline: bookmark page out of range")
)

// objRef identifies an indirect object.
type objRef struct {
	num int
	gen int
}

// document is the parsed structure injection needs: object offsets, the
// catalog, the ordered page list, and trailer bookkeeping.
type document struct {
	data    []byte
	offsets map[int]int64 // object number -> byte offset (newest wins)

	size       int   // trailer /Size
	startXref  int64 // offset of the newest cross-reference table
	rootRef    objRef
	infoRef    *objRef
	catalog    []byte // catalog dictionary bytes
	catalogGen int
	pageRefs   []objRef // leaf pages in tree order
}

var (
	refPattern   = regexp.MustCompile(`(\d+)\s+(\d+)\s+R`)
	kidsPattern  = regexp.MustCompile(`/Kids\s*\[([^\]]*)\]`)
	pagesPattern = regexp.MustCompile(`/Type\s*/Pages`)
)

// dictRef extracts "/Key N G R" from a dictionary.
func dictRef(dict []byte, key string) (objRef, bool) {
	re := regexp.MustCompile(`/` + key + `\s+(\d+)\s+(\d+)\s+R`)
	m := re.FindSubmatch(dict)
	if m == nil {
		return objRef{}, false
	}
	num, _ := strconv.Atoi(string(m[1]))
	gen, _ := strconv.Atoi(string(m[2]))
	return objRef{num: num, gen: gen}, true
}

// dictInt extracts "/Key N" from a dictionary.
func dictInt(dict []byte, key string) (int64, bool) {
	re := regexp.MustCompile(`/` + key + `\s+(\d+)`)
	m := re.FindSubmatch(dict)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(string(m[1]), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// scanner is a minimal whitespace-tolerant token reader over pdf bytes.
type scanner struct {
	data []byte
	pos  int
}

func isPDFSpace(b byte) bool {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.data) && isPDFSpace(s.data[s.pos]) {
		s.pos++
	}
}

// token reads the next run of non-space bytes without consuming delimiters
// beyond it.
func (s *scanner) token() string {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.data) && !isPDFSpace(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// peekToken reads the next token without advancing.
func (s *scanner) peekToken() string {
	saved := s.pos
	t := s.token()
	s.pos = saved
	return t
}

func (s *scanner) int() (int64, error) {
	t := s.token()
	n, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: expected integer, got %q", ErrMalformed, t)
	}
	return n, nil
}

// extractDict returns the first balanced << ... >> dictionary in data,
// skipping literal strings and hex strings so their contents cannot
// unbalance the scan.
func extractDict(data []byte) ([]byte, error) {
	start := bytes.Index(data, []byte("<<"))
	if start < 0 {
		return nil, fmt.Errorf("%w: dictionary not found", ErrMalformed)
	}
	depth := 0
	i := start
	for i < len(data) {
		switch data[i] {
		case '<':
			if i+1 < len(data) && data[i+1] == '<' {
				depth++
				i += 2
				continue
			}
			// hex string: skip to closing '>'
			for i < len(data) && data[i] != '>' {
				i++
			}
			i++
		case '>':
			if i+1 < len(data) && data[i+1] == '>' {
				depth--
				i += 2
				if depth == 0 {
					return data[start:i], nil
				}
				continue
			}
			i++
		case '(':
			// literal string: honor escapes and nesting
			nest := 1
			i++
			for i < len(data) && nest > 0 {
				switch data[i] {
				case '\\':
					i++
				case '(':
					nest++
				case ')':
					nest--
				}
				i++
			}
		default:
			i++
		}
	}
	return nil, fmt.Errorf("%w: unterminated dictionary", ErrMalformed)
}

// parse reads the cross-reference chain, the catalog, and the page tree.
func parse(pdf []byte) (*document, error) {
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing %%PDF header", ErrMalformed)
	}

	idx := bytes.LastIndex(pdf, []byte("startxref"))
	if idx < 0 {
		return nil, fmt.Errorf("%w: startxref not found", ErrMalformed)
	}
	s := &scanner{data: pdf, pos: idx + len("startxref")}
	start, err := s.int()
	if err != nil {
		return nil, err
	}

	doc := &document{
		data:      pdf,
		offsets:   make(map[int]int64),
		startXref: start,
	}
	if err := doc.readXrefChain(start, make(map[int64]bool), true); err != nil {
		return nil, err
	}
	if doc.rootRef.num == 0 {
		return nil, fmt.Errorf("%w: trailer missing /Root", ErrMalformed)
	}

	catalog, gen, err := doc.object(doc.rootRef.num)
	if err != nil {
		return nil, err
	}
	doc.catalog = catalog
	doc.catalogGen = gen

	pagesRef, ok := dictRef(catalog, "Pages")
	if !ok {
		return nil, fmt.Errorf("%w: catalog missing /Pages", ErrMalformed)
	}
	if err := doc.collectPages(pagesRef, 0); err != nil {
		return nil, err
	}
	if len(doc.pageRefs) == 0 {
		return nil, fmt.Errorf("%w: page tree has no pages", ErrMalformed)
	}
	return doc, nil
}

// readXrefChain parses the table at offset and follows /Prev links. Entries
// from newer tables take precedence; newest selects whether trailer values
// (Size, Root, Info) are recorded.
func (d *document) readXrefChain(offset int64, visited map[int64]bool, newest bool) error {
	if visited[offset] {
		return fmt.Errorf("%w: cross-reference chain loops", ErrMalformed)
	}
	visited[offset] = true
	if offset < 0 || offset >= int64(len(d.data)) {
		return fmt.Errorf("%w: cross-reference offset %d out of bounds", ErrMalformed, offset)
	}

	s := &scanner{data: d.data, pos: int(offset)}
	if t := s.peekToken(); t != "xref" {
		// A number here means a cross-reference stream object.
		if _, err := strconv.Atoi(t); err == nil {
			return fmt.Errorf("%w: cross-reference streams are not supported", ErrUnsupported)
		}
		return fmt.Errorf("%w: expected xref table at offset %d", ErrMalformed, offset)
	}
	s.token() // consume "xref"

	for {
		if s.peekToken() == "trailer" {
			s.token()
			break
		}
		first, err := s.int()
		if err != nil {
			return err
		}
		count, err := s.int()
		if err != nil {
			return err
		}
		for i := int64(0); i < count; i++ {
			entryOff, err := s.int()
			if err != nil {
				return err
			}
			if _, err := s.int(); err != nil { // generation
				return err
			}
			kind := s.token()
			num := int(first + i)
			if kind == "n" {
				if _, seen := d.offsets[num]; !seen {
					d.offsets[num] = entryOff
				}
			}
		}
	}

	trailer, err := extractDict(d.data[s.pos:])
	if err != nil {
		return err
	}
	if newest {
		if size, ok := dictInt(trailer, "Size"); ok {
			d.size = int(size)
		}
		if root, ok := dictRef(trailer, "Root"); ok {
			d.rootRef = root
		}
		if info, ok := dictRef(trailer, "Info"); ok {
			d.infoRef = &info
		}
	}
	if prev, ok := dictInt(trailer, "Prev"); ok {
		return d.readXrefChain(prev, visited, false)
	}
	return nil
}

// object loads the dictionary of an indirect object by number and returns it
// with the generation recorded in the object header.
func (d *document) object(num int) ([]byte, int, error) {
	offset, ok := d.offsets[num]
	if !ok {
		return nil, 0, fmt.Errorf("%w: object %d not in cross-reference table", ErrMalformed, num)
	}
	if offset < 0 || offset >= int64(len(d.data)) {
		return nil, 0, fmt.Errorf("%w: object %d offset out of bounds", ErrMalformed, num)
	}

	s := &scanner{data: d.data, pos: int(offset)}
	gotNum, err := s.int()
	if err != nil {
		return nil, 0, err
	}
	gen, err := s.int()
	if err != nil {
		return nil, 0, err
	}
	if int(gotNum) != num || s.token() != "obj" {
		return nil, 0, fmt.Errorf("%w: object %d header mismatch at offset %d", ErrMalformed, num, offset)
	}

	end := bytes.Index(d.data[s.pos:], []byte("endobj"))
	if end < 0 {
		return nil, 0, fmt.Errorf("%w: object %d missing endobj", ErrMalformed, num)
	}
	dict, err := extractDict(d.data[s.pos : s.pos+end])
	if err != nil {
		return nil, 0, err
	}
	return dict, int(gen), nil
}

// collectPages walks the page tree in order, appending leaf page refs.
func (d *document) collectPages(ref objRef, depth int) error {
	if depth > 64 {
		return fmt.Errorf("%w: page tree too deep", ErrMalformed)
	}
	dict, gen, err := d.object(ref.num)
	if err != nil {
		return err
	}

	if pagesPattern.Match(dict) {
		m := kidsPattern.FindSubmatch(dict)
		if m == nil {
			return fmt.Errorf("%w: pages node %d has no /Kids", ErrMalformed, ref.num)
		}
		for _, kid := range refPattern.FindAllSubmatch(m[1], -1) {
			num, _ := strconv.Atoi(string(kid[1]))
			kidGen, _ := strconv.Atoi(string(kid[2]))
			if err := d.collectPages(objRef{num: num, gen: kidGen}, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	d.pageRefs = append(d.pageRefs, objRef{num: ref.num, gen: gen})
	return nil
}
