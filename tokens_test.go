package htmltext

import "testing"

func TestAttributeAccessors(t *testing.T) {
	attrs := Attributes{
		{Name: "HREF", Value: "a?b=1&c=2"},
		{Name: "width", Value: "120px"},
		{Name: "align", Value: "Center"},
		{Name: "href", Value: "second"},
	}
	if v, ok := attrs.Get("href"); !ok || v != "a?b=1&c=2" {
		t.Fatalf("Get(href) = %q, %v", v, ok)
	}
	if _, ok := attrs.Get("missing"); ok {
		t.Fatalf("expected missing attribute")
	}
	if got := attrs.Lookup("missing", "dflt"); got != "dflt" {
		t.Fatalf("Lookup default = %q", got)
	}
	if got := attrs.Int("width", 0); got != 120 {
		t.Fatalf("Int(width) = %d", got)
	}
	if got := attrs.Int("align", -1); got != -1 {
		t.Fatalf("Int(align) = %d", got)
	}
	choices := map[string]int{"left": 1, "center": 2, "right": 3}
	if got := attrs.Enum("align", 0, choices); got != 2 {
		t.Fatalf("Enum(align) = %d", got)
	}
	if got := attrs.Enum("valign", 9, choices); got != 9 {
		t.Fatalf("Enum(valign) = %d", got)
	}
	var none Attributes
	if got := none.Int("width", 7); got != 7 {
		t.Fatalf("nil attributes Int = %d", got)
	}
}

func TestTokenString(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: TokenStartTag, Tag: TagA, Attrs: Attributes{{Name: "href", Value: "x"}}}, `<A href="x">`},
		{Token{Kind: TokenEndTag, Tag: TagP}, "</P>"},
		{Token{Kind: TokenText, Text: "a\nb"}, `"a\nb"`},
		{Token{Kind: TokenError, Text: "boom"}, "error: boom"},
		{Token{Kind: TokenDeclaration}, "Declaration"},
		{Token{Kind: TokenEOF}, "EOF"},
	}
	for _, tc := range cases {
		if got := tc.tok.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}
