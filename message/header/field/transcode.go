package field

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// Encode transforms a single header field body into RFC 2047 encoded words
// if it contains anything other than printable ASCII. It always uses b-type
// (Base-64) encoding with the UTF-8 character set. Bodies that need no
// encoding are returned as-is.
func Encode(body string) string {
	return mime.BEncoding.Encode("utf-8", body)
}

// CharsetReader returns a reader that transcodes the input from the named
// character set into UTF-8. Every character set with an IANA MIME name known
// to golang.org/x/text is supported.
func CharsetReader(charset string, input io.Reader) (io.Reader, error) {
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, err
	}

	if e == nil {
		return nil, fmt.Errorf("no encoding found for charset %q", charset)
	}

	return e.NewDecoder().Reader(input), nil
}

// Decode transforms a single header field body and looks for MIME encoded
// words. When they are found, these are decoded into native unicode.
func Decode(body string) (string, error) {
	if !strings.Contains(body, "=?") {
		return body, nil
	}

	dec := &mime.WordDecoder{CharsetReader: CharsetReader}
	return dec.DecodeHeader(body)
}
