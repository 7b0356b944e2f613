package htmltext

import (
	"io"

	"golang.org/x/net/html"
)

// Option configures tokenizing and rendering behavior.
type Option func(*config)

type config struct {
	sourceName  string
	trace       io.Writer
	entities    func(string) string
	validate    bool
	osc8        bool
	strict      bool
	linkURLs    bool
	diagnostics DiagnosticSink
}

func newConfig(opts []Option) config {
	cfg := config{
		sourceName: "<stdin>",
		entities:   html.UnescapeString,
		linkURLs:   true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.entities == nil {
		cfg.entities = identity
	}
	return cfg
}

func identity(s string) string { return s }

// WithSourceName sets the input name used in diagnostics.
func WithSourceName(name string) Option {
	return func(cfg *config) {
		cfg.sourceName = name
	}
}

// WithTrace writes a line per scanned tag and text run to w.
func WithTrace(w io.Writer) Option {
	return func(cfg *config) {
		cfg.trace = w
	}
}

// WithEntityDecoder replaces the character reference expander applied to
// text runs. A nil decoder leaves text untouched.
func WithEntityDecoder(decode func(string) string) Option {
	return func(cfg *config) {
		cfg.entities = decode
	}
}

// WithValidation rejects invalid UTF-8 and binary input.
func WithValidation(enabled bool) Option {
	return func(cfg *config) {
		cfg.validate = enabled
	}
}

// WithOSC8 enables or disables OSC 8 hyperlinks in rendered output.
func WithOSC8(enabled bool) Option {
	return func(cfg *config) {
		cfg.osc8 = enabled
	}
}

// WithStrict reports every scan error to the diagnostic sink. Outside strict
// mode scan errors are skipped silently.
func WithStrict(enabled bool) Option {
	return func(cfg *config) {
		cfg.strict = enabled
	}
}

// WithLinkURLs controls whether link targets are printed after link text.
func WithLinkURLs(enabled bool) Option {
	return func(cfg *config) {
		cfg.linkURLs = enabled
	}
}

// WithDiagnostics sets the sink receiving diagnostics.
func WithDiagnostics(sink DiagnosticSink) Option {
	return func(cfg *config) {
		cfg.diagnostics = sink
	}
}
