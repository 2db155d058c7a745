package transfer

import (
	"bytes"
	"io"
	"mime/quotedprintable"

	"github.com/zostay/docmail/message/header"
)

// stripCR drops carriage returns. The quoted-printable writer always emits
// CRLF, and raw CR bytes never survive encoding, so dropping them yields LF
// output.
type stripCR struct {
	w io.Writer
}

func (s *stripCR) Write(p []byte) (int, error) {
	if _, err := s.w.Write(bytes.ReplaceAll(p, []byte{'\r'}, nil)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// NewQuotedPrintableEncoder will transform all bytes written to the returned
// io.WriteCloser into quoted-printable form and write them to the given
// io.Writer.
func NewQuotedPrintableEncoder(w io.Writer, lbr header.Break) io.WriteCloser {
	if lbr != header.CRLF {
		w = &stripCR{w}
	}
	qpw := quotedprintable.NewWriter(w)
	return &writer{Writer: qpw, closers: []io.Closer{qpw}}
}

// NewQuotedPrintableDecoder will read bytes from the given io.Reader and return
// them in the returned io.Reader after decoding them from quoted-printable
// format.
func NewQuotedPrintableDecoder(r io.Reader) io.Reader {
	return quotedprintable.NewReader(r)
}
