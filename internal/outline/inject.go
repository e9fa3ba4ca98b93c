package outline

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf16"
)

// Entry is one top-level bookmark: a title and the 1-based physical page it
// targets.
type Entry struct {
	Title string
	Page  int
}

var (
	outlinesRefPattern = regexp.MustCompile(`/Outlines\s+\d+\s+\d+\s+R`)
	pageModePattern    = regexp.MustCompile(`/PageMode\s*/\w+`)
)

// Append returns pdf with an outline tree attached: an /Outlines root, one
// flat chain of items, and a rewritten catalog, all written as an
// incremental update after the original bytes. The input is never modified;
// with no entries a plain copy is returned.
func Append(pdf []byte, entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return slices.Clone(pdf), nil
	}

	doc, err := parse(pdf)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Page < 1 || e.Page > len(doc.pageRefs) {
			return nil, fmt.Errorf("%w: page %d not in 1..%d", ErrPageRange, e.Page, len(doc.pageRefs))
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(pdf) + 256*len(entries))
	buf.Write(pdf)
	if pdf[len(pdf)-1] != '\n' {
		buf.WriteByte('\n')
	}

	offsets := make(map[int]int64)
	writeObj := func(num, gen int, body string) {
		offsets[num] = int64(buf.Len())
		fmt.Fprintf(&buf, "%d %d obj\n%s\nendobj\n", num, gen, body)
	}

	// New object numbers start at the old /Size; the catalog keeps its own
	// number and is superseded by the newer cross-reference entry.
	rootNum := doc.size
	n := len(entries)
	writeObj(rootNum, 0, fmt.Sprintf("<< /Type /Outlines /First %d 0 R /Last %d 0 R /Count %d >>",
		rootNum+1, rootNum+n, n))

	for i, e := range entries {
		num := rootNum + 1 + i
		page := doc.pageRefs[e.Page-1]
		var sb strings.Builder
		fmt.Fprintf(&sb, "<< /Title %s /Parent %d 0 R", pdfString(e.Title), rootNum)
		if i > 0 {
			fmt.Fprintf(&sb, " /Prev %d 0 R", num-1)
		}
		if i < n-1 {
			fmt.Fprintf(&sb, " /Next %d 0 R", num+1)
		}
		fmt.Fprintf(&sb, " /Dest [%d %d R /Fit] >>", page.num, page.gen)
		writeObj(num, 0, sb.String())
	}

	writeObj(doc.rootRef.num, doc.catalogGen, rewriteCatalog(doc.catalog, rootNum))

	xrefOff := int64(buf.Len())
	buf.WriteString("xref\n")
	buf.WriteString("0 1\n0000000000 65535 f \n")
	nums := make([]int, 0, len(offsets))
	for num := range offsets {
		nums = append(nums, num)
	}
	slices.Sort(nums)
	for i := 0; i < len(nums); {
		j := i
		for j+1 < len(nums) && nums[j+1] == nums[j]+1 {
			j++
		}
		fmt.Fprintf(&buf, "%d %d\n", nums[i], j-i+1)
		for _, num := range nums[i : j+1] {
			gen := 0
			if num == doc.rootRef.num {
				gen = doc.catalogGen
			}
			fmt.Fprintf(&buf, "%010d %05d n \n", offsets[num], gen)
		}
		i = j + 1
	}

	newSize := rootNum + n + 1
	buf.WriteString("trailer\n")
	fmt.Fprintf(&buf, "<< /Size %d /Root %d %d R", newSize, doc.rootRef.num, doc.catalogGen)
	if doc.infoRef != nil {
		fmt.Fprintf(&buf, " /Info %d %d R", doc.infoRef.num, doc.infoRef.gen)
	}
	fmt.Fprintf(&buf, " /Prev %d >>\n", doc.startXref)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOff)

	return buf.Bytes(), nil
}

// rewriteCatalog points the catalog at the new outline root and asks viewers
// to open the outline panel.
func rewriteCatalog(catalog []byte, outlinesNum int) string {
	ref := fmt.Sprintf("/Outlines %d 0 R", outlinesNum)
	out := string(catalog)

	if outlinesRefPattern.MatchString(out) {
		out = outlinesRefPattern.ReplaceAllString(out, ref)
	} else {
		out = "<< " + ref + strings.TrimPrefix(out, "<<")
	}

	if pageModePattern.MatchString(out) {
		out = pageModePattern.ReplaceAllString(out, "/PageMode /UseOutlines")
	} else {
		idx := strings.LastIndex(out, ">>")
		out = out[:idx] + "/PageMode /UseOutlines " + out[idx:]
	}
	return out
}

// pdfString encodes a bookmark title as a PDF string object. ASCII titles
// use an escaped literal string; anything else is encoded as UTF-16BE with a
// byte order mark in hexadecimal form, which every outline-aware viewer
// accepts.
func pdfString(s string) string {
	ascii := true
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			ascii = false
			break
		}
	}

	if ascii {
		var sb strings.Builder
		sb.WriteByte('(')
		for i := 0; i < len(s); i++ {
			switch c := s[i]; c {
			case '(', ')', '\\':
				sb.WriteByte('\\')
				sb.WriteByte(c)
			default:
				sb.WriteByte(c)
			}
		}
		sb.WriteByte(')')
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString("<FEFF")
	for _, unit := range utf16.Encode([]rune(s)) {
		fmt.Fprintf(&sb, "%04X", unit)
	}
	sb.WriteByte('>')
	return sb.String()
}
