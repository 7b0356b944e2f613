package htmltext

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestDecodeReader(t *testing.T) {
	r, err := DecodeReader(strings.NewReader("caf\xe9 \x80"), "windows-1252")
	if err != nil {
		t.Fatalf("DecodeReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "café €" {
		t.Fatalf("unexpected decoded text %q", got)
	}
}

func TestDecodeReaderPassesThroughUTF8(t *testing.T) {
	src := strings.NewReader("x")
	for _, name := range []string{"", " ", "utf-8", "UTF8", "unicode-1-1-utf-8"} {
		r, err := DecodeReader(src, name)
		if err != nil {
			t.Fatalf("DecodeReader(%q): %v", name, err)
		}
		if r != io.Reader(src) {
			t.Fatalf("DecodeReader(%q) wrapped a UTF-8 reader", name)
		}
	}
}

func TestDecodeReaderUnknown(t *testing.T) {
	if _, err := DecodeReader(strings.NewReader(""), "klingon"); !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("expected ErrUnknownEncoding, got %v", err)
	}
}
