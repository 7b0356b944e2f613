package htmltext

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScannerMarkupDeclarations(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []Token
	}{
		{"comment with dash runs", "<!--- a -- b --->c", []Token{text("c")}},
		{"marked section", "<![if !IE]>x<![endif]>", []Token{text("x")}},
		{"doctype spans lines", "<!DOCTYPE html\n PUBLIC \"-//W3C//DTD HTML 3.2//EN\">x", []Token{{Kind: TokenDeclaration}, text("x")}},
		{"lower case doctype", "<!doctype html>", []Token{{Kind: TokenDeclaration}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, collect(t, tc.src), ignorePos); diff != "" {
				t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScannerErrors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"<!-- abc", "unterminated comment"},
		{"<!-x", "malformed comment"},
		{"<![x] y>", "malformed marked section"},
		{"<![x", "unterminated marked section"},
		{"<!ELEMENT x>", "unknown declaration <!ELEMENT>"},
		{"<!DOCTYPE html", "unterminated declaration"},
		{"<!>", "malformed markup declaration"},
		{"</ x>", "malformed end tag"},
		{`<A HREF="x`, "unterminated attribute value"},
		{"<B x=1 2>", "malformed tag <B>"},
		{"</B foo>", "malformed tag </B>"},
		{"\x01", "unexpected character '\\x01'"},
		{"\tx", "unexpected character '\\t'"},
	}
	for _, tc := range cases {
		toks := collect(t, tc.src)
		if len(toks) == 0 || toks[0].Kind != TokenError {
			t.Fatalf("%q: expected an error token first, got %v", tc.src, toks)
		}
		if toks[0].Text != tc.want {
			t.Fatalf("%q: message %q, want %q", tc.src, toks[0].Text, tc.want)
		}
	}
}

func TestScannerRecoversAfterError(t *testing.T) {
	got := collect(t, "<!-x>ok <B>bold</B>")
	want := []Token{
		{Kind: TokenError, Text: "malformed comment"},
		text(">ok "),
		start(TagB, ClassInline),
		text("bold"),
		end(TagB, ClassInline),
	}
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestScannerLeadingTab(t *testing.T) {
	tabErr := Token{Kind: TokenError, Text: "unexpected character '\\t'"}
	cases := map[string][]Token{
		"<P>\tx</P>":        {start(TagP, ClassBlock), tabErr, text("x"), end(TagP, ClassBlock)},
		"<PRE>\tcode</PRE>": {start(TagPre, ClassBlock), tabErr, text("code"), end(TagPre, ClassBlock)},
		"a\tb":              {text("a b")},
	}
	for src, want := range cases {
		if diff := cmp.Diff(want, collect(t, src), ignorePos); diff != "" {
			t.Fatalf("%q: tokens mismatch (-want +got):\n%s", src, diff)
		}
	}
}

func TestScannerAttributes(t *testing.T) {
	cases := []struct {
		src  string
		want Attributes
	}{
		{
			src: `<A HREF="a?b=1&amp;c" target=_blank nowrap>`,
			want: Attributes{
				{Name: "HREF", Value: "a?b=1&amp;c"},
				{Name: "target", Value: "_blank"},
				{Name: "nowrap", Value: ""},
			},
		},
		{
			src:  `<IMG alt = 'it' SRC=x.png/>`,
			want: Attributes{{Name: "alt", Value: "it"}, {Name: "SRC", Value: "x.png/"}},
		},
		{
			src:  `<IMG alt:"x" src=y>`,
			want: Attributes{{Name: "alt:", Value: ""}, {Name: "src", Value: "y"}},
		},
		{
			src:  "<IMG alt=héllo>",
			want: Attributes{{Name: "alt", Value: "héllo"}},
		},
		{
			src:  "<P>",
			want: nil,
		},
	}
	for _, tc := range cases {
		toks := collect(t, tc.src)
		if len(toks) != 1 || toks[0].Kind != TokenStartTag {
			t.Fatalf("%q: expected one start tag, got %v", tc.src, toks)
		}
		if diff := cmp.Diff(tc.want, toks[0].Attrs); diff != "" {
			t.Fatalf("%q: attributes mismatch (-want +got):\n%s", tc.src, diff)
		}
	}
}

func TestScannerLiteralLessThan(t *testing.T) {
	cases := map[string][]Token{
		"a < b":   {text("a < b")},
		"1<2":     {text("1<2")},
		"< b":     {text("< b")},
		"x<":      {text("x<")},
		"<<B>y":   {text("<"), start(TagB, ClassInline), text("y")},
		"a <= b":  {text("a <= b")},
		"tail <!": {text("tail "), {Kind: TokenError, Text: "malformed markup declaration"}},
	}
	for src, want := range cases {
		if diff := cmp.Diff(want, collect(t, src), ignorePos); diff != "" {
			t.Fatalf("%q: tokens mismatch (-want +got):\n%s", src, diff)
		}
	}
}

func TestScannerExpandsEntitiesInTextOnly(t *testing.T) {
	got := collect(t, `<A TITLE="&lt;x&gt;">a &amp; b &lt;B&gt;</A>`)
	if len(got) != 3 {
		t.Fatalf("unexpected tokens %v", got)
	}
	if v, _ := got[0].Attrs.Get("title"); v != "&lt;x&gt;" {
		t.Fatalf("attribute value was decoded: %q", v)
	}
	if got[1].Text != "a & b <B>" {
		t.Fatalf("unexpected text %q", got[1].Text)
	}

	raw := collect(t, "a &amp; b", WithEntityDecoder(nil))
	if len(raw) != 1 || raw[0].Text != "a &amp; b" {
		t.Fatalf("expected entities untouched, got %v", raw)
	}
	upper := collect(t, "abc", WithEntityDecoder(strings.ToUpper))
	if len(upper) != 1 || upper[0].Text != "ABC" {
		t.Fatalf("custom decoder not applied: %v", upper)
	}
}

func TestScannerNonASCIIText(t *testing.T) {
	got := collect(t, "<P>héllo  wörld €</P>")
	want := []Token{start(TagP, ClassBlock), text("héllo wörld €"), end(TagP, ClassBlock)}
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestScannerTrace(t *testing.T) {
	var trace bytes.Buffer
	collect(t, `<P CLASS="x">hi</foo></BR>`, WithTrace(&trace))
	want := strings.Join([]string{
		`Scanned tag "<P CLASS=\"x\">"`,
		`Scanned PCDATA "hi"`,
		`Scanned tag "</foo>"`,
		"Tag unknown -- swallowed.",
		`Scanned tag "</BR>"`,
		"Non-container end tag scanned.",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, trace.String()); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}
