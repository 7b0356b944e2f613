package htmltext

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ErrLookaheadPending is returned by ReadRawText when a token has already
// been scanned past the raw-text element's start tag.
var ErrLookaheadPending = errors.New("raw text requested with a pending lookahead token")

const asciiSpace = " \t\n\v\f\r"

// ScanMode selects whitespace handling for text runs.
type ScanMode uint8

const (
	// ModeNormal collapses and trims whitespace.
	ModeNormal ScanMode = iota
	// ModeLiteral keeps whitespace verbatim, as inside <PRE>.
	ModeLiteral
)

// Tokenizer turns markup into a normalized token stream. It is pull-based and
// not safe for concurrent use.
type Tokenizer struct {
	sc      scanner
	mode    ScanMode
	ahead   Token
	hasNext bool
	started bool
}

// NewTokenizer returns a tokenizer reading from r.
func NewTokenizer(r io.Reader, opts ...Option) *Tokenizer {
	t := &Tokenizer{}
	t.reset(bufio.NewReader(r), newConfig(opts))
	return t
}

func (t *Tokenizer) reset(r *bufio.Reader, cfg config) {
	t.sc.src.reset(r, cfg.validate)
	t.sc.reset(cfg)
	t.mode = ModeNormal
	t.ahead = Token{}
	t.hasNext = false
	t.started = false
}

// Mode returns the current scan mode.
func (t *Tokenizer) Mode() ScanMode { return t.mode }

// Pos returns the position of the last rune read.
func (t *Tokenizer) Pos() Position { return t.sc.src.pos }

// Err returns the read or validation error that ended the stream, if any.
func (t *Tokenizer) Err() error { return t.sc.src.Err() }

func (t *Tokenizer) pull() Token {
	if t.hasNext {
		t.hasNext = false
		return t.ahead
	}
	return t.sc.nextRaw()
}

func (t *Tokenizer) peek() Token {
	if !t.hasNext {
		t.ahead = t.sc.nextRaw()
		t.hasNext = true
	}
	return t.ahead
}

// Next returns the next token. Text tokens are never empty; TokenEOF is
// returned once input is exhausted and on every call after that.
func (t *Tokenizer) Next() Token {
	for {
		tok := t.pull()

		if tok.Is(tokenStartTag, TagPre) {
			t.mode = ModeLiteral
			if next := t.peek(); next.Kind == tokenText {
				t.setAheadText(strings.TrimPrefix(next.Text, "\n"))
			}
		}
		if tok.Is(tokenEndTag, TagPre) {
			t.mode = ModeNormal
		}

		if tok.Kind == tokenText {
			next := t.peek()
			switch {
			case next.Is(tokenEndTag, TagPre):
				tok.Text = strings.TrimSuffix(strings.TrimRight(tok.Text, " "), "\n")
			case t.mode == ModeNormal && trimsPrecedingSpace(next):
				tok.Text = strings.TrimRight(tok.Text, asciiSpace)
			}
			if t.mode == ModeNormal {
				if !t.started {
					tok.Text = strings.TrimLeft(tok.Text, asciiSpace)
				}
				tok.Text = collapseSpace(tok.Text)
			}
			if tok.Text == "" {
				continue
			}
		}

		if t.mode == ModeNormal && trimsFollowingSpace(tok) {
			if next := t.peek(); next.Kind == tokenText {
				t.setAheadText(strings.TrimLeft(next.Text, asciiSpace))
			}
		}

		t.started = true
		return tok
	}
}

// setAheadText replaces the text of the lookahead token, dropping it when
// nothing is left.
func (t *Tokenizer) setAheadText(text string) {
	if text == "" {
		t.hasNext = false
		t.ahead = Token{}
		return
	}
	t.ahead.Text = text
}

// trimsPrecedingSpace reports whether trailing whitespace of a text run is
// insignificant when next follows it.
func trimsPrecedingSpace(next Token) bool {
	return next.Kind == tokenEndTag || (next.Kind == tokenStartTag && next.Class == ClassBlock)
}

// trimsFollowingSpace reports whether leading whitespace of the text run
// after tok is insignificant.
func trimsFollowingSpace(tok Token) bool {
	switch tok.Kind {
	case tokenStartTag:
		if tok.Tag.Descriptor().RawText {
			return false
		}
		return tok.Class != ClassVoid || tok.Tag == TagBr || tok.Tag == TagHr
	case tokenEndTag:
		return tok.Class == ClassBlock
	}
	return false
}

// collapseSpace replaces every run of ASCII whitespace with one space.
func collapseSpace(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if c := s[i]; isSpaceByte(c) && (c != ' ' || (i+1 < len(s) && isSpaceByte(s[i+1]))) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSpaceByte(c) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteByte(c)
	}
	return b.String()
}

func isSpaceByte(c byte) bool {
	return strings.IndexByte(asciiSpace, c) >= 0
}
