package htmltext

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var ignorePos = cmpopts.IgnoreFields(Token{}, "Pos")

// collect pulls tokens up to, but not including, TokenEOF.
func collect(t *testing.T, src string, opts ...Option) []Token {
	t.Helper()
	tz := NewTokenizer(strings.NewReader(src), opts...)
	var out []Token
	for i := 0; ; i++ {
		if i > 10000 {
			t.Fatalf("tokenizer did not reach EOF for %q", src)
		}
		tok := tz.Next()
		if tok.Kind == TokenEOF {
			return out
		}
		out = append(out, tok)
	}
}

func start(tag Tag, class TagClass) Token {
	return Token{Kind: TokenStartTag, Tag: tag, Class: class}
}

func end(tag Tag, class TagClass) Token {
	return Token{Kind: TokenEndTag, Tag: tag, Class: class}
}

func text(s string) Token {
	return Token{Kind: TokenText, Text: s}
}

func TestTokenizerNormalizesWhitespace(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "inline container",
			src:  "<B> hello world </B>",
			want: []Token{start(TagB, ClassInline), text("hello world"), end(TagB, ClassInline)},
		},
		{
			name: "block collapses runs",
			src:  "<P>  a   b  </P>",
			want: []Token{start(TagP, ClassBlock), text("a b"), end(TagP, ClassBlock)},
		},
		{
			name: "pre strips boundary newlines",
			src:  "<PRE>\nabc\n</PRE>",
			want: []Token{start(TagPre, ClassBlock), text("abc"), end(TagPre, ClassBlock)},
		},
		{
			name: "pre keeps inner whitespace",
			src:  "<PRE>\n  a\n\n  b\n</PRE>",
			want: []Token{start(TagPre, ClassBlock), text("  a\n\n  b"), end(TagPre, ClassBlock)},
		},
		{
			name: "comment then text",
			src:  "<!-- x --> after",
			want: []Token{text("after")},
		},
		{
			name: "unknown element swallowed",
			src:  "<foo>bar</foo>",
			want: []Token{text("bar")},
		},
		{
			name: "inline keeps outer spaces",
			src:  "x  <I> y </I>  z",
			want: []Token{text("x "), start(TagI, ClassInline), text("y"), end(TagI, ClassInline), text(" z")},
		},
		{
			name: "block start trims preceding text",
			src:  "a  <P>b",
			want: []Token{text("a"), start(TagP, ClassBlock), text("b")},
		},
		{
			name: "block end trims following text",
			src:  "</P>  x",
			want: []Token{end(TagP, ClassBlock), text("x")},
		},
		{
			name: "inline end keeps following space",
			src:  "</B>  x",
			want: []Token{end(TagB, ClassInline), text(" x")},
		},
		{
			name: "void end tag discarded",
			src:  "a<BR></BR> b",
			want: []Token{text("a"), start(TagBr, ClassVoid), text("b")},
		},
		{
			name: "self closing",
			src:  "<HR />x",
			want: []Token{start(TagHr, ClassVoid), text("x")},
		},
		{
			name: "case insensitive names",
			src:  "<p>x</P>",
			want: []Token{start(TagP, ClassBlock), text("x"), end(TagP, ClassBlock)},
		},
		{
			name: "whitespace only text dropped",
			src:  "<UL>\n  <LI>one\n</UL>",
			want: []Token{start(TagUl, ClassBlock), start(TagLi, ClassBlock), text("one"), end(TagUl, ClassBlock)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := collect(t, tc.src)
			if diff := cmp.Diff(tc.want, got, ignorePos); diff != "" {
				t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizerModeFollowsPre(t *testing.T) {
	tz := NewTokenizer(strings.NewReader("<PRE> a </PRE>b"))
	if tz.Mode() != ModeNormal {
		t.Fatalf("expected normal mode at start")
	}
	if tok := tz.Next(); !tok.Is(TokenStartTag, TagPre) {
		t.Fatalf("unexpected token %v", tok)
	}
	if tz.Mode() != ModeLiteral {
		t.Fatalf("expected literal mode inside PRE")
	}
	if tok := tz.Next(); tok.Kind != TokenText || tok.Text != " a" {
		t.Fatalf("unexpected literal text %v", tok)
	}
	if tok := tz.Next(); !tok.Is(TokenEndTag, TagPre) {
		t.Fatalf("unexpected token %v", tok)
	}
	if tz.Mode() != ModeNormal {
		t.Fatalf("expected normal mode after PRE")
	}
}

func TestTokenizerEOFIsSticky(t *testing.T) {
	tz := NewTokenizer(strings.NewReader("x"))
	tz.Next()
	for i := 0; i < 3; i++ {
		if tok := tz.Next(); tok.Kind != TokenEOF {
			t.Fatalf("call %d: expected EOF, got %v", i, tok)
		}
	}
}

func TestTokenizerPositions(t *testing.T) {
	tz := NewTokenizer(strings.NewReader("a\n  <B>x</B>"))
	tok := tz.Next()
	if tok.Kind != TokenText || tok.Pos != (Position{Line: 1, Column: 1}) {
		t.Fatalf("unexpected first token %v at %+v", tok, tok.Pos)
	}
	tok = tz.Next()
	if !tok.Is(TokenStartTag, TagB) || tok.Pos != (Position{Line: 2, Column: 3}) {
		t.Fatalf("unexpected tag %v at %+v", tok, tok.Pos)
	}
}

func TestTokenizerNeverDeliversEmptyText(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"\n\n<P>\n</P>\n",
		"<PRE>\n</PRE>",
		"<PRE>\n\n</PRE>",
		"<B> </B> <I> </I>",
		"<TABLE> <TR> <TD> </TD> </TR> </TABLE>",
		"<!-- a --> <!-- b --> ",
		"&#32; <BR> \t",
	}
	for _, src := range inputs {
		for _, tok := range collect(t, src) {
			if tok.Kind == TokenText && tok.Text == "" {
				t.Fatalf("empty text token from %q", src)
			}
		}
	}
}

func TestTokenizerIsDeterministic(t *testing.T) {
	src := "<HTML><BODY><H1> Title </H1>\n<P>one <A HREF=x>two</A> three<BR>four</P><PRE>\n k \n</PRE></BODY></HTML>"
	first := collect(t, src)
	second := collect(t, src)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("tokenizing twice differs:\n%s", diff)
	}
}

func TestCollapseSpace(t *testing.T) {
	cases := map[string]string{
		"a b":            "a b",
		"a  b":           "a b",
		"a\n\tb":         "a b",
		" a ":            " a ",
		"\n\na\n\n":      " a ",
		"no-space":       "no-space",
		"a\u00a0\u00a0b": "a\u00a0\u00a0b",
	}
	for in, want := range cases {
		if got := collapseSpace(in); got != want {
			t.Fatalf("collapseSpace(%q) = %q, want %q", in, got, want)
		}
	}
}
