package parser

import (
	"io"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader converts body to UTF-8. The encoding is taken from the
// charset parameter of contentType when present, then from a BOM, and
// finally sniffed from the content. UTF-8 input passes through unchanged.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(body, contentType)
}
