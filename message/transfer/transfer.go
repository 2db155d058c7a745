package transfer

import (
	"io"

	"github.com/zostay/docmail/message/header"
)

const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be transformed between quoted-printable and binary data
	Base64          = "base64"           // bytes will be transformed between base64 and binary data
)

// Transcoding is a pair of functions that can be used to transform to and from
// a transfer encoding.
type Transcoding struct {
	// Encoder returns an io.WriteCloser, which will encode binary data and
	// write the encoded form to the given io.Writer, using the given line
	// break wherever the encoding breaks lines. You must call Close() on the
	// returned io.WriteCloser when you are finished.
	Encoder func(io.Writer, header.Break) io.WriteCloser

	// Decoder returns an io.Reader, which will read from the given io.Reader
	// and decode the encoded data back into binary form.
	Decoder func(io.Reader) io.Reader
}

// AsIsTranscoder is just a shortcut to a no-op encoder/decoder.
var AsIsTranscoder = Transcoding{NewAsIsEncoder, NewAsIsDecoder}

// Transcodings defines the supported Content-transfer-encodings and how to
// handle them.
var Transcodings = map[string]Transcoding{
	None:            AsIsTranscoder,
	Bit7:            AsIsTranscoder,
	Bit8:            AsIsTranscoder,
	Binary:          AsIsTranscoder,
	QuotedPrintable: {NewQuotedPrintableEncoder, NewQuotedPrintableDecoder},
	Base64:          {NewBase64Encoder, NewBase64Decoder},
}

// ApplyTransferEncoding checks the given header to see if transfer encoding
// ought to be performed. It returns an io.WriteCloser that will write the
// encoding (or just pass data through if no encoding is necessary).
//
// You must call Close() on the returned io.WriteCloser when you are finished
// writing.
func ApplyTransferEncoding(h *header.Header, w io.Writer) io.WriteCloser {
	cte, err := h.GetTransferEncoding()
	if err != nil {
		return NewAsIsEncoder(w, h.Break())
	}

	if tc, hasCode := Transcodings[cte]; hasCode {
		return tc.Encoder(w, h.Break())
	}

	return NewAsIsEncoder(w, h.Break())
}

// ApplyTransferDecoding returns an io.Reader that will decode incoming bytes
// according to the transfer encoding detected from the given header. Transfer
// encodings on multipart/* parts are ignored.
func ApplyTransferDecoding(h *header.Header, r io.Reader) io.Reader {
	ct, err := h.GetContentType()
	if err == nil && ct.Type() == "multipart" {
		return r
	}

	cte, err := h.GetTransferEncoding()
	if err != nil {
		return r
	}

	if tc, hasCode := Transcodings[cte]; hasCode {
		return tc.Decoder(r)
	}

	return r
}
