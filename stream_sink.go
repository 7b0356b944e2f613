package htmltext

// Sink receives tokens from Parse.
type Sink interface {
	WriteToken(Token) error
	Flush() error
}

// TokenCollector is a Sink that keeps every token it receives.
type TokenCollector struct {
	Tokens []Token
}

// WriteToken appends tok.
func (c *TokenCollector) WriteToken(tok Token) error {
	c.Tokens = append(c.Tokens, tok)
	return nil
}

// Flush is a no-op.
func (c *TokenCollector) Flush() error { return nil }
