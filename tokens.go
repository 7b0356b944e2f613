package htmltext

import (
	"strconv"
	"strings"
)

// Token is a single scanned unit of markup.
type Token struct {
	Kind  tokenKind
	Tag   Tag
	Class TagClass
	// Attrs is nil unless a start tag carried attributes.
	Attrs Attributes
	// Text holds the content of a text run, the message of a scan error,
	// or the verbatim body of a raw-text element start tag.
	Text string
	Pos  Position
}

type tokenKind uint8

// TokenKind is the exported alias of tokenKind for consumers of the token stream.
type TokenKind = tokenKind

const (
	tokenEOF tokenKind = iota
	tokenStartTag
	tokenEndTag
	tokenText
	tokenDeclaration
	tokenError
)

const (
	// TokenEOF terminates the stream.
	TokenEOF tokenKind = tokenEOF
	// TokenStartTag is a recognized start tag.
	TokenStartTag tokenKind = tokenStartTag
	// TokenEndTag is a recognized end tag of a container element.
	TokenEndTag tokenKind = tokenEndTag
	// TokenText is a non-empty run of character data.
	TokenText tokenKind = tokenText
	// TokenDeclaration is a <!DOCTYPE ...> declaration.
	TokenDeclaration tokenKind = tokenDeclaration
	// TokenError reports malformed markup; scanning continues after it.
	TokenError tokenKind = tokenError
)

var tokenKindNames = [...]string{
	tokenEOF:         "EOF",
	tokenStartTag:    "StartTag",
	tokenEndTag:      "EndTag",
	tokenText:        "Text",
	tokenDeclaration: "Declaration",
	tokenError:       "Error",
}

func (k tokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "tokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Is reports whether t is a tag token of the given kind and identity.
func (t Token) Is(kind TokenKind, tag Tag) bool {
	return t.Kind == kind && t.Tag == tag
}

// String renders the token in a compact debugging form.
func (t Token) String() string {
	var b strings.Builder
	switch t.Kind {
	case tokenStartTag:
		b.WriteByte('<')
		b.WriteString(t.Tag.String())
		for _, a := range t.Attrs {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			b.WriteString(`="`)
			b.WriteString(a.Value)
			b.WriteByte('"')
		}
		b.WriteByte('>')
	case tokenEndTag:
		b.WriteString("</")
		b.WriteString(t.Tag.String())
		b.WriteByte('>')
	case tokenText:
		b.WriteString(strconv.Quote(t.Text))
	case tokenError:
		b.WriteString("error: ")
		b.WriteString(t.Text)
	default:
		b.WriteString(t.Kind.String())
	}
	return b.String()
}

// Position is a line/column location in the decoded input, used for diagnostics.
type Position struct {
	Line   int
	Column int
}

// Attribute is a name/value pair from a start tag. Value is verbatim: quotes
// are stripped but character references are not expanded.
type Attribute struct {
	Name  string
	Value string
}

// Attributes is the ordered attribute list of a start tag.
type Attributes []Attribute

// Get returns the value of the first attribute whose name matches
// case-insensitively.
func (as Attributes) Get(name string) (string, bool) {
	for _, a := range as {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// Lookup returns the attribute value or dflt when absent.
func (as Attributes) Lookup(name, dflt string) string {
	if v, ok := as.Get(name); ok {
		return v
	}
	return dflt
}

// Int returns the attribute parsed as a decimal integer. Leading digits are
// honoured ("12px" is 12); dflt is returned when absent or non-numeric.
func (as Attributes) Int(name string, dflt int) int {
	v, ok := as.Get(name)
	if !ok {
		return dflt
	}
	v = strings.TrimSpace(v)
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return dflt
	}
	return n
}

// Enum maps the attribute value through choices, comparing keys
// case-insensitively. dflt is returned when the attribute is absent or its
// value matches no key.
func (as Attributes) Enum(name string, dflt int, choices map[string]int) int {
	v, ok := as.Get(name)
	if !ok {
		return dflt
	}
	for k, n := range choices {
		if strings.EqualFold(k, v) {
			return n
		}
	}
	return dflt
}
