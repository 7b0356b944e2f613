package htmltext

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

var tokenizerPool = sync.Pool{
	New: func() any {
		return &Tokenizer{}
	},
}

var rendererPool = sync.Pool{
	New: func() any {
		return &TextRenderer{}
	},
}

var readerPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, 4096)
	},
}

// ParseRequest configures Parse.
type ParseRequest struct {
	Reader io.Reader
	Sink   Sink
	// Encoding names the input character encoding; empty means UTF-8.
	Encoding string
	Options  []Option
}

// RenderRequest configures Render.
type RenderRequest struct {
	Reader io.Reader
	Writer io.Writer
	// Width is the wrap width; zero or less disables wrapping.
	Width    int
	Encoding string
	Options  []Option
}

// Render converts markup from Reader to plain text on Writer.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	r := rendererPool.Get().(*TextRenderer)
	r.resetWithConfig(req.Writer, req.Width, newConfig(req.Options))
	err := Parse(ParseRequest{
		Reader:   req.Reader,
		Sink:     r,
		Encoding: req.Encoding,
		Options:  req.Options,
	})
	r.resetWithConfig(io.Discard, 0, config{})
	rendererPool.Put(r)
	return err
}

// Parse tokenizes markup and writes every token, including the final
// TokenEOF, to the sink. Raw-text elements arrive as a start tag whose Text
// is the verbatim body, followed by a synthesized end tag.
func Parse(req ParseRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("parse: reader is nil")
	}
	if req.Sink == nil {
		return fmt.Errorf("parse: sink is nil")
	}
	src, err := DecodeReader(req.Reader, req.Encoding)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	reader := readerPool.Get().(*bufio.Reader)
	reader.Reset(src)
	t := tokenizerPool.Get().(*Tokenizer)
	t.reset(reader, newConfig(req.Options))

	retErr := drain(t, req.Sink)
	if retErr == nil {
		if err := t.Err(); err != nil {
			retErr = fmt.Errorf("parse: read: %w", err)
		}
	}
	if retErr == nil {
		retErr = req.Sink.Flush()
	}

	reader.Reset(nil)
	readerPool.Put(reader)
	t.reset(nil, config{entities: identity})
	tokenizerPool.Put(t)
	return retErr
}

func drain(t *Tokenizer, sink Sink) error {
	for {
		tok := t.Next()
		if tok.Kind == tokenStartTag && tok.Tag.Descriptor().RawText {
			body, found, err := t.ReadRawText(tok.Tag)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			tok.Text = body
			if err := sink.WriteToken(tok); err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			closing := Token{Kind: tokenEndTag, Tag: tok.Tag, Class: tok.Class, Pos: t.Pos()}
			if !found {
				closing = Token{Kind: tokenError, Text: fmt.Sprintf("unterminated <%s> element", tok.Tag), Pos: t.Pos()}
			}
			if err := sink.WriteToken(closing); err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			continue
		}
		if err := sink.WriteToken(tok); err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		if tok.Kind == tokenEOF {
			return nil
		}
	}
}

// Tokenize collects the full token stream of r, including the raw bodies of
// SCRIPT and STYLE elements.
func Tokenize(r io.Reader, opts ...Option) ([]Token, error) {
	var c TokenCollector
	err := Parse(ParseRequest{Reader: r, Sink: &c, Options: opts})
	return c.Tokens, err
}
