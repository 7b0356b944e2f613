package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/htmltext"
	"pkt.systems/version"
)

const (
	defaultWidth = 79
	stdinName    = "<stdin>"
)

func init() {
	version.SetDefaultModule("pkt.systems/htmltext")
}

type options struct {
	width        int
	encoding     string
	osc8         string
	outPath      string
	check        bool
	debugScanner bool
	tokens       bool
	noLinks      bool
	noValidate   bool
	showVersion  bool
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("htmltext", pflag.ExitOnError)
	flags.IntVarP(&opts.width, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&opts.encoding, "encoding", "e", "", "Input character encoding (default UTF-8, or the HTTP charset for URLs)")
	flags.StringVarP(&opts.osc8, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&opts.check, "check", "c", false, "Report markup errors only; no text output")
	flags.BoolVar(&opts.debugScanner, "debug-scanner", false, "Trace scanned tags and text runs to stderr")
	flags.BoolVarP(&opts.tokens, "tokens", "t", false, "Print the token stream instead of text")
	flags.BoolVar(&opts.noLinks, "no-links", false, "Do not print link targets after link text")
	flags.BoolVar(&opts.noValidate, "no-validate", false, "Accept binary or invalid UTF-8 input")
	flags.BoolVarP(&opts.showVersion, "version", "V", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: htmltext [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, HTML is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if opts.showVersion {
		fmt.Fprintln(os.Stdout, version.Module(), version.Current())
		return
	}

	sources, err := openInputs(flags.Args(), opts.encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}

	writer, closeOut, err := resolveOutput(opts.outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	osc8, err := resolveOSC8(opts.osc8)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --osc8 %q: %v\n", opts.osc8, err)
		os.Exit(2)
	}

	exit := runAll(sources, writer, opts, osc8, os.Stderr)
	if closeOut != nil {
		if err := closeOut.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close output: %v\n", err)
			exit = 1
		}
	}
	os.Exit(exit)
}

// runAll processes sources in order and returns the exit code. An input that
// cannot be read stops processing.
func runAll(sources []inputSource, w io.Writer, opts options, osc8 bool, stderr io.Writer) int {
	exit := 0
	for _, src := range sources {
		failed, err := run(src, w, opts, osc8)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", src.name, err)
			return 1
		}
		if failed {
			exit = 1
		}
	}
	return exit
}

// run processes one input. failed reports markup errors found in check mode.
func run(src inputSource, w io.Writer, opts options, osc8 bool) (failed bool, err error) {
	reader, closer, err := src.open()
	if err != nil {
		return false, err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	libOpts := []htmltext.Option{
		htmltext.WithSourceName(src.name),
		htmltext.WithValidation(!opts.noValidate),
		htmltext.WithOSC8(osc8),
		htmltext.WithLinkURLs(!opts.noLinks),
	}
	if opts.debugScanner {
		libOpts = append(libOpts, htmltext.WithTrace(os.Stderr))
	}

	switch {
	case opts.tokens:
		return false, htmltext.Parse(htmltext.ParseRequest{
			Reader:   reader,
			Sink:     &tokenPrinter{w: w},
			Encoding: src.encoding,
			Options:  libOpts,
		})
	case opts.check:
		errors := 0
		sink := htmltext.WriterSink{W: os.Stderr}
		libOpts = append(libOpts,
			htmltext.WithStrict(true),
			htmltext.WithDiagnostics(htmltext.DiagnosticFunc(func(d htmltext.Diagnostic) {
				errors++
				sink.Report(d)
			})),
		)
		err := htmltext.Render(htmltext.RenderRequest{
			Reader:   reader,
			Writer:   io.Discard,
			Encoding: src.encoding,
			Options:  libOpts,
		})
		return errors > 0, err
	default:
		return false, htmltext.Render(htmltext.RenderRequest{
			Reader:   reader,
			Writer:   w,
			Width:    resolveWidth(opts.width),
			Encoding: src.encoding,
			Options:  libOpts,
		})
	}
}

// tokenPrinter writes one token per line with its position.
type tokenPrinter struct {
	w io.Writer
}

func (p *tokenPrinter) WriteToken(tok htmltext.Token) error {
	_, err := fmt.Fprintf(p.w, "%d:%d\t%s\t%s\n", tok.Pos.Line, tok.Pos.Column, tok.Kind, tok)
	return err
}

func (p *tokenPrinter) Flush() error { return nil }

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w - 1
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return htmltext.DetectOSC8Support() && term.IsTerminal(int(os.Stdout.Fd())), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

type inputSource struct {
	name string
	// encoding is passed to the library; empty when already decoded or UTF-8.
	encoding string
	open     func() (io.Reader, io.Closer, error)
}

func openInputs(args []string, encoding string) ([]inputSource, error) {
	if len(args) == 0 {
		return []inputSource{{
			name:     stdinName,
			encoding: encoding,
			open: func() (io.Reader, io.Closer, error) {
				return os.Stdin, nil, nil
			},
		}}, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw, encoding)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func makeInputSource(raw, encoding string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	if raw == "-" {
		return inputSource{name: stdinName, encoding: encoding, open: func() (io.Reader, io.Closer, error) {
			return os.Stdin, nil, nil
		}}, nil
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			src := inputSource{name: raw, encoding: encoding}
			src.open = func() (io.Reader, io.Closer, error) {
				return openURL(raw, encoding == "")
			}
			return src, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{name: path, encoding: encoding, open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{name: raw, encoding: encoding, open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

// openURL fetches raw. With sniff set, the body is converted to UTF-8 using
// the Content-Type charset or the document's meta declaration.
func openURL(raw string, sniff bool) (io.Reader, io.Closer, error) {
	body, err := htmltext.OpenURL(context.Background(), nil, raw, sniff)
	if err != nil {
		return nil, nil, err
	}
	return body, body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
