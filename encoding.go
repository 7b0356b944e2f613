package htmltext

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding reports a character encoding name that is not recognized.
var ErrUnknownEncoding = errors.New("unknown encoding")

// DecodeReader converts r from the named encoding to UTF-8. Names follow the
// WHATWG encoding labels ("latin1", "windows-1252", "shift_jis", ...). An
// empty name or a UTF-8 label returns r unchanged.
func DecodeReader(r io.Reader, name string) (io.Reader, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	if canonical, err := htmlindex.Name(enc); err == nil && canonical == "utf-8" {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
