// Package htmltext converts HTML to plain text.
//
// The core of the package is a pull-based tokenizer. It reads a byte stream
// and produces tags, text runs, declarations and scan errors. The tokenizer
// normalizes whitespace using one token of lookahead, so each text run is
// final when it is delivered. Outside PRE, whitespace runs collapse to a
// single space and whitespace next to block boundaries is dropped. Inside
// PRE the text is kept verbatim.
//
// Malformed markup never stops the tokenizer. Unknown elements and end tags
// of void elements are skipped silently, and every other problem is
// delivered as a TokenError so the consumer can decide how much it cares.
//
// Example:
//
//	t := htmltext.NewTokenizer(strings.NewReader("<P>  a   b  </P>"))
//	for tok := t.Next(); tok.Kind != htmltext.TokenEOF; tok = t.Next() {
//		fmt.Println(tok)
//	}
//
// Render wires the tokenizer to a TextRenderer that word wraps paragraphs:
//
//	err := htmltext.Render(htmltext.RenderRequest{
//		Reader: f,
//		Writer: os.Stdout,
//		Width:  80,
//	})
package htmltext
