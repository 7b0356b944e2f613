package htmltext

import "unicode/utf8"

// readUntil reads verbatim input until terminator matches, comparing ASCII
// letters case-insensitively. The terminator is not part of the returned
// content. found is false when input ended first; content then holds
// everything that was read.
func (s *scanner) readUntil(terminator string) (content string, found bool) {
	if terminator == "" {
		return "", true
	}
	buf := s.text[:0]
	matched := 0
	for {
		c := s.src.next()
		if c == eof {
			s.text = buf
			return string(buf), false
		}
		buf = utf8.AppendRune(buf, c)
		switch {
		case foldEqual(c, terminator[matched]):
			matched++
		case foldEqual(c, terminator[0]):
			matched = 1
		default:
			matched = 0
		}
		if matched == len(terminator) {
			// Matched runes are ASCII, one byte each.
			buf = buf[:len(buf)-len(terminator)]
			s.text = buf
			return string(buf), true
		}
	}
}

func foldEqual(c rune, b byte) bool {
	return c < utf8.RuneSelf && upperASCII(byte(c)) == upperASCII(b)
}

// ReadRawText reads the body of a raw-text element such as SCRIPT or STYLE
// up to and including its end tag. It must be called right after Next
// returned the element's start tag. found is false if input ended before the
// end tag.
func (t *Tokenizer) ReadRawText(tag Tag) (body string, found bool, err error) {
	if t.hasNext {
		return "", false, ErrLookaheadPending
	}
	body, found = t.sc.readUntil("</" + tag.Descriptor().Name)
	if !found {
		return body, false, nil
	}
	for c := t.sc.src.next(); c != '>' && c != eof; c = t.sc.src.next() {
	}
	return body, true, nil
}
