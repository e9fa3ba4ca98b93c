package docpdf

// Notes:
// - ParseMarkup: tests plain text, bold, italic, nesting, color directives,
//   and strict failure modes with positional error reporting
// - MarkupError: tests errors.Is matching against ErrMarkupParse

import (
	"errors"
	"testing"
)

// spanSpec is a compact expected-span description for table entries.
type spanSpec struct {
	text   string
	bold   bool
	italic bool
	color  *Color
}

func checkSpans(t *testing.T, got []Span, want []spanSpec) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d spans, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		s := got[i]
		if s.Text() != w.text {
			t.Errorf("span %d text = %q, want %q", i, s.Text(), w.text)
		}
		if s.IsBold() != w.bold {
			t.Errorf("span %d bold = %v, want %v", i, s.IsBold(), w.bold)
		}
		if s.IsItalic() != w.italic {
			t.Errorf("span %d italic = %v, want %v", i, s.IsItalic(), w.italic)
		}
		c, ok := s.Color()
		switch {
		case w.color == nil && ok:
			t.Errorf("span %d has unexpected color %v", i, c)
		case w.color != nil && (!ok || c != *w.color):
			t.Errorf("span %d color = %v, %v, want %v", i, c, ok, *w.color)
		}
	}
}

// ---------------------------------------------------------------------------
// TestParseMarkup - Valid Input
// ---------------------------------------------------------------------------

func TestParseMarkup(t *testing.T) {
	t.Parallel()

	red := RGB(255, 0, 0)
	teal := RGB(0, 128, 128)

	tests := []struct {
		name  string
		input string
		want  []spanSpec
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "plain text",
			input: "hello world",
			want:  []spanSpec{{text: "hello world"}},
		},
		{
			name:  "bold",
			input: "a **b** c",
			want: []spanSpec{
				{text: "a "},
				{text: "b", bold: true},
				{text: " c"},
			},
		},
		{
			name:  "italic",
			input: "a *b* c",
			want: []spanSpec{
				{text: "a "},
				{text: "b", italic: true},
				{text: " c"},
			},
		},
		{
			name:  "nested italic inside bold",
			input: "**very *cool***",
			want: []spanSpec{
				{text: "very ", bold: true},
				{text: "cool", bold: true, italic: true},
			},
		},
		{
			name:  "color directive",
			input: "[color=#FF0000]{alert}",
			want:  []spanSpec{{text: "alert", color: &red}},
		},
		{
			name:  "bold inside color",
			input: "[color=#008080]{plain **strong**}",
			want: []spanSpec{
				{text: "plain ", color: &teal},
				{text: "strong", bold: true, color: &teal},
			},
		},
		{
			name:  "lowercase hex digits",
			input: "[color=#ff0000]{x}",
			want:  []spanSpec{{text: "x", color: &red}},
		},
		{
			name:  "unicode text",
			input: "héllo **wörld**",
			want: []spanSpec{
				{text: "héllo "},
				{text: "wörld", bold: true},
			},
		},
		{
			name:  "empty bold span yields nothing",
			input: "a****b",
			want:  []spanSpec{{text: "a"}, {text: "b"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMarkup(tt.input)
			if err != nil {
				t.Fatalf("ParseMarkup(%q) error = %v", tt.input, err)
			}
			checkSpans(t, got, tt.want)
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseMarkup_Errors - Strict Failure Modes
// ---------------------------------------------------------------------------

func TestParseMarkup_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "unterminated bold", input: "**abc"},
		{name: "unterminated italic", input: "*abc"},
		{name: "unterminated color", input: "[color=#FF0000]{abc"},
		{name: "stray closing brace", input: "abc}"},
		{name: "stray closing bracket", input: "abc]"},
		{name: "unknown directive", input: "[size=12]{abc}"},
		{name: "missing hash", input: "[color=FF0000]{abc}"},
		{name: "short hex", input: "[color=#F00]{abc}"},
		{name: "non-hex digits", input: "[color=#GGHHII]{abc}"},
		{name: "missing brace", input: "[color=#FF0000]abc"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseMarkup(tt.input)
			if err == nil {
				t.Fatalf("ParseMarkup(%q) succeeded, want error", tt.input)
			}
			if !errors.Is(err, ErrMarkupParse) {
				t.Errorf("error %v does not match ErrMarkupParse", err)
			}
			var me *MarkupError
			if !errors.As(err, &me) {
				t.Fatalf("error %T is not a *MarkupError", err)
			}
			if me.Index < 0 || me.Index > len(tt.input) {
				t.Errorf("error index %d outside input of length %d", me.Index, len(tt.input))
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMarkupError_Position - Error Index Accuracy
// ---------------------------------------------------------------------------

func TestMarkupError_Position(t *testing.T) {
	t.Parallel()

	_, err := ParseMarkup("ok then}")
	var me *MarkupError
	if !errors.As(err, &me) {
		t.Fatalf("error %v is not a *MarkupError", err)
	}
	if me.Index != 7 {
		t.Errorf("Index = %d, want 7 (position of the stray brace)", me.Index)
	}
}
