package htmltext

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const declarationKeyword = "DOCTYPE"

type commentState uint8

const (
	seenNone commentState = iota
	seenOneDash
	seenTwoDash
	commentClosed
)

// scanner is the raw tokenizer. It never returns an empty text run and it
// loops over discarded constructs instead of recursing.
type scanner struct {
	src      charSource
	entities func(string) string
	trace    io.Writer

	name []byte
	attr []byte
	val  []byte
	text []byte
}

func (s *scanner) reset(cfg config) {
	s.entities = cfg.entities
	s.trace = cfg.trace
	s.name = s.name[:0]
	s.attr = s.attr[:0]
	s.val = s.val[:0]
	s.text = s.text[:0]
}

// nextRaw returns the next token. ok=false results from the helpers mean the
// construct was discarded and scanning starts over.
func (s *scanner) nextRaw() Token {
	for {
		c := s.src.next()
		pos := s.src.pos
		if c == eof {
			return Token{Kind: tokenEOF, Pos: pos}
		}
		if c == '<' {
			c = s.src.next()
			if c == '!' {
				if tok, ok := s.scanBang(pos); ok {
					return tok
				}
				continue
			}
			if c == '/' || isNameStart(c) {
				if tok, ok := s.scanTag(c, pos); ok {
					return tok
				}
				continue
			}
			// Not markup: the '<' is literal text.
			s.mustUnread(c)
			c = '<'
		}
		if c == '\n' || c >= ' ' {
			if tok, ok := s.scanText(c, pos); ok {
				return tok
			}
			continue
		}
		return s.errorf("unexpected character %q", c)
	}
}

// scanBang handles everything after "<!".
func (s *scanner) scanBang(pos Position) (Token, bool) {
	c := s.src.next()
	switch {
	case c == '-':
		if s.src.next() != '-' {
			return s.errorf("malformed comment"), true
		}
		if !s.skipComment() {
			return s.errorf("unterminated comment"), true
		}
		return Token{}, false
	case c == '[':
		for {
			c = s.src.next()
			if c == eof {
				return s.errorf("unterminated marked section"), true
			}
			if c == ']' {
				break
			}
		}
		if s.skipSpace(s.src.next()) != '>' {
			return s.errorf("malformed marked section"), true
		}
		return Token{}, false
	case isLetter(c):
		s.name = utf8.AppendRune(s.name[:0], c)
		for {
			c = s.src.next()
			if !isAlnum(c) && c != '-' {
				break
			}
			s.name = utf8.AppendRune(s.name, c)
		}
		if !strings.EqualFold(string(s.name), declarationKeyword) {
			return s.errorf("unknown declaration <!%s>", s.name), true
		}
		// Newlines do not end the declaration.
		for c != '>' {
			c = s.src.next()
			if c == eof {
				return s.errorf("unterminated declaration"), true
			}
		}
		return Token{Kind: tokenDeclaration, Pos: pos}, true
	default:
		return s.errorf("malformed markup declaration"), true
	}
}

// skipComment consumes input through "-->". Runs of more than two dashes
// before '>' also close the comment.
func (s *scanner) skipComment() bool {
	state := seenNone
	for state != commentClosed {
		c := s.src.next()
		if c == eof {
			return false
		}
		switch state {
		case seenNone:
			if c == '-' {
				state = seenOneDash
			}
		case seenOneDash:
			if c == '-' {
				state = seenTwoDash
			} else {
				state = seenNone
			}
		case seenTwoDash:
			switch c {
			case '>':
				state = commentClosed
			case '-':
			default:
				state = seenNone
			}
		}
	}
	return true
}

// scanTag handles a start or end tag; c is the rune after '<'.
func (s *scanner) scanTag(c rune, pos Position) (Token, bool) {
	end := false
	if c == '/' {
		end = true
		c = s.src.next()
	}
	if !isNameStart(c) {
		return s.errorf("malformed end tag"), true
	}
	s.name = utf8.AppendRune(s.name[:0], c)
	s.name, c = s.scanName(s.name)
	c = s.skipSpace(c)

	// Attributes are allocated only when present.
	var attrs Attributes
	if !end {
		for isNameStart(c) {
			s.attr = utf8.AppendRune(s.attr[:0], c)
			s.attr, c = s.scanName(s.attr)
			c = s.skipSpace(c)
			s.val = s.val[:0]
			if c == '=' {
				c = s.skipSpace(s.src.next())
				if c == '"' || c == '\'' {
					quote := c
					for {
						c = s.src.next()
						if c == eof {
							return s.errorf("unterminated attribute value"), true
						}
						if c == quote {
							break
						}
						// Character references stay as written: "href=a?b=1&c=2".
						s.val = utf8.AppendRune(s.val, c)
					}
					c = s.src.next()
				} else {
					for c != '>' && c > ' ' {
						s.val = utf8.AppendRune(s.val, c)
						c = s.src.next()
					}
				}
				c = s.skipSpace(c)
			} else {
				// Malformed fragment such as att:"x"; drop it up to the next
				// space or tag close.
				for c != eof && c != '>' && !isSpace(c) {
					c = s.src.next()
				}
				c = s.skipSpace(c)
			}
			attrs = append(attrs, Attribute{Name: string(s.attr), Value: string(s.val)})
		}
	}

	if c != '>' {
		if c != '/' || s.src.next() != '>' {
			return s.errorf("malformed tag <%s%s>", endMarker(end), s.name), true
		}
	}
	s.traceTag(end, attrs)

	d, ok := LookupTag(string(s.name))
	if !ok {
		s.tracef("Tag unknown -- swallowed.")
		return Token{}, false
	}
	if end {
		if !d.HasEnd() {
			s.tracef("Non-container end tag scanned.")
			return Token{}, false
		}
		return Token{Kind: tokenEndTag, Tag: d.Tag, Class: d.Class, Pos: pos}, true
	}
	return Token{Kind: tokenStartTag, Tag: d.Tag, Class: d.Class, Attrs: attrs, Pos: pos}, true
}

// scanName appends name characters to buf and returns the first rune after
// the name.
func (s *scanner) scanName(buf []byte) ([]byte, rune) {
	for {
		c := s.src.next()
		if !isNameChar(c) {
			return buf, c
		}
		buf = utf8.AppendRune(buf, c)
	}
}

// scanText collects a text run starting with c. A '<' inside the run ends it
// only when it could open markup.
func (s *scanner) scanText(c rune, pos Position) (Token, bool) {
	buf := s.text[:0]
	for c != eof {
		if c == '<' {
			peek := s.src.next()
			s.mustUnread(peek)
			if peek == '!' || peek == '/' || isNameStart(peek) {
				s.mustUnread(c)
				break
			}
		}
		buf = utf8.AppendRune(buf, c)
		c = s.src.next()
	}
	s.text = buf
	text := s.entities(string(buf))
	if text == "" {
		return Token{}, false
	}
	s.tracef("Scanned PCDATA %q", text)
	return Token{Kind: tokenText, Text: text, Pos: pos}, true
}

func (s *scanner) skipSpace(c rune) rune {
	for isSpace(c) {
		c = s.src.next()
	}
	return c
}

// mustUnread pushes c back. The scanner never holds more than two pending
// runes, so a full buffer is a bug rather than an input condition.
func (s *scanner) mustUnread(c rune) {
	if err := s.src.unread(c); err != nil {
		panic(fmt.Errorf("htmltext: scanner: %w", err))
	}
}

func (s *scanner) errorf(format string, args ...any) Token {
	return Token{Kind: tokenError, Text: fmt.Sprintf(format, args...), Pos: s.src.pos}
}

func (s *scanner) tracef(format string, args ...any) {
	if s.trace == nil {
		return
	}
	_, _ = fmt.Fprintf(s.trace, format+"\n", args...)
}

func (s *scanner) traceTag(end bool, attrs Attributes) {
	if s.trace == nil {
		return
	}
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(endMarker(end))
	b.Write(s.name)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	s.tracef("Scanned tag %q", b.String())
}

func endMarker(end bool) string {
	if end {
		return "/"
	}
	return ""
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c rune) bool {
	return isLetter(c) || (c >= '0' && c <= '9')
}

func isNameStart(c rune) bool {
	return isLetter(c) || c == '_'
}

func isNameChar(c rune) bool {
	return isAlnum(c) || c == '-' || c == '_' || c == ':' || c == '.'
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
