package transfer

import (
	"encoding/base64"
	"io"

	"github.com/zostay/docmail/message/header"
)

const defaultBase64LineLength = 76

// lineWrapper inserts a line break every so many bytes.
type lineWrapper struct {
	every int
	col   int
	lbr   []byte
	w     io.Writer
}

func (lw *lineWrapper) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		if lw.col == lw.every {
			if _, err := lw.w.Write(lw.lbr); err != nil {
				return written, err
			}
			lw.col = 0
		}

		n := lw.every - lw.col
		if n > len(p) {
			n = len(p)
		}

		wn, err := lw.w.Write(p[:n])
		written += wn
		lw.col += wn
		if err != nil {
			return written, err
		}
		p = p[n:]
	}
	return written, nil
}

// NewBase64Encoder will translate all bytes written to the returned
// io.WriteCloser into base64 encoding in lines of 76 characters and write
// those to the given io.Writer. The last line is not terminated.
func NewBase64Encoder(w io.Writer, lbr header.Break) io.WriteCloser {
	enc := base64.NewEncoder(base64.StdEncoding, &lineWrapper{
		every: defaultBase64LineLength,
		lbr:   lbr.Bytes(),
		w:     w,
	})
	return &writer{Writer: enc, closers: []io.Closer{enc}}
}

// NewBase64Decoder will translate all bytes read from the given io.Reader as
// base64 and return the binary data to the returned io.Reader. Line breaks in
// the input are ignored.
func NewBase64Decoder(r io.Reader) io.Reader {
	return base64.NewDecoder(base64.StdEncoding, r)
}
