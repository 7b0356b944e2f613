package htmltext

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"
)

// HTTPRenderRequest configures HTTPRender.
type HTTPRenderRequest struct {
	URL    string
	Client *http.Client
	Writer io.Writer
	Width  int
	// Encoding overrides the charset announced by the server.
	Encoding string
	Options  []Option
}

// HTTPRender fetches a document over HTTP(S) and renders it as plain text.
// Without an explicit Encoding, the charset is taken from the Content-Type
// header or sniffed from the document.
func HTTPRender(ctx context.Context, req HTTPRenderRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("http render: Writer is nil")
	}
	body, err := OpenURL(ctx, req.Client, req.URL, req.Encoding == "")
	if err != nil {
		return fmt.Errorf("http render: %w", err)
	}
	defer body.Close()
	opts := append([]Option{WithSourceName(req.URL)}, req.Options...)
	return Render(RenderRequest{
		Reader:   body,
		Writer:   req.Writer,
		Width:    req.Width,
		Encoding: req.Encoding,
		Options:  opts,
	})
}

type responseBody struct {
	io.Reader
	io.Closer
}

// OpenURL fetches rawURL with client, or http.DefaultClient when nil. Non-2xx
// responses are errors. With decode set, the body is converted to UTF-8 using
// the Content-Type charset or the document's meta declaration. The caller
// closes the returned body.
func OpenURL(ctx context.Context, client *http.Client, rawURL string, decode bool) (io.ReadCloser, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", httpReq.URL.Scheme)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s: status %s", rawURL, resp.Status)
	}
	if !decode {
		return resp.Body, nil
	}
	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("charset: %w", err)
	}
	return responseBody{Reader: r, Closer: resp.Body}, nil
}
