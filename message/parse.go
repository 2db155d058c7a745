package message

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/zostay/docmail/message/header"
	"github.com/zostay/docmail/message/transfer"
)

// Constants related to Parse() options.
const (
	// DefaultMaxMultipartDepth is the default depth the parser will recurse
	// into a message.
	DefaultMaxMultipartDepth = 10

	// DefaultMaxHeaderLength is the default maximum byte length to scan before
	// giving up on finding the end of the header.
	DefaultMaxHeaderLength = 64 * 1024
)

// Errors that occur during parsing.
var (
	// ErrNoBoundary is returned by Parse and Multipart.WriteTo when the
	// boundary parameter is not set on the Content-type field of a multipart
	// message.
	ErrNoBoundary = errors.New("the boundary parameter is missing from Content-type")

	// ErrLargeHeader is returned by Parse when the header is longer than the
	// configured WithMaxHeaderLength option.
	ErrLargeHeader = errors.New("the header exceeds the maximum parse length")
)

var splits = [][]byte{
	[]byte("\x0d\x0a\x0d\x0a"), // \r\n\r\n
	[]byte("\x0a\x0a"),         // \n\n
}

type parser struct {
	maxHeaderLen int
	maxDepth     int
	decode       bool
}

// ParseOption refers to options that may be passed to the Parse function to
// modify how the parser works.
type ParseOption func(pr *parser)

// WithMaxHeaderLength is a ParseOption that sets the maximum size of a header.
// Setting this to a value less than or equal to 0 removes the limit. The
// default is DefaultMaxHeaderLength.
func WithMaxHeaderLength(n int) ParseOption {
	return func(pr *parser) { pr.maxHeaderLen = n }
}

// DecodeTransferEncoding is a ParseOption that enables the decoding of
// Content-transfer-encoding. By default, Content-transfer-encoding will not be
// decoded, so the bodies read are the bytes found on the wire.
func DecodeTransferEncoding() ParseOption {
	return func(pr *parser) { pr.decode = true }
}

// WithMaxDepth is a ParseOption that controls how deep the parser will go in
// recursively parsing a multipart message. A negative depth is unlimited.
func WithMaxDepth(maxDepth int) ParseOption {
	return func(pr *parser) { pr.maxDepth = maxDepth }
}

// WithoutMultipart is a ParseOption that will not allow parsing of any
// multipart messages. The message returned from Parse() will always be *Opaque.
func WithoutMultipart() ParseOption {
	return func(pr *parser) { pr.maxDepth = 0 }
}

// splitHeadFromBody finds the end of the header and detects the line break in
// use. A part that starts with a line break has an empty header.
func splitHeadFromBody(buf []byte) (hdr []byte, lb header.Break, body []byte) {
	for _, s := range splits {
		half := s[:len(s)/2]
		if bytes.HasPrefix(buf, half) {
			return nil, header.Break(half), buf[len(half):]
		}
	}

	for _, s := range splits {
		if ix := bytes.Index(buf, s); ix >= 0 {
			return buf[:ix], header.Break(s[:len(s)/2]), buf[ix+len(s):]
		}
	}

	// no body at all
	if bytes.Contains(buf, []byte(header.CRLF)) {
		return buf, header.CRLF, nil
	}
	return buf, header.LF, nil
}

func (pr *parser) parseToOpaque(buf []byte) (*Opaque, error) {
	hdr, lb, body := splitHeadFromBody(buf)
	if pr.maxHeaderLen > 0 && len(hdr) > pr.maxHeaderLen {
		return nil, ErrLargeHeader
	}

	head := header.Parse(hdr, lb)

	var r io.Reader
	if len(body) > 0 {
		r = bytes.NewReader(body)
		if pr.decode {
			r = transfer.ApplyTransferDecoding(head, r)
		}
	}

	return &Opaque{Header: *head, Reader: r, encoded: !pr.decode}, nil
}

// Parse will consume all input from the given reader and return the parsed
// message.
//
// The header is split from the body at the first blank line, whose line
// break is then used to break up the header into fields. If the Content-type
// is multipart/*, the body is split into parts at the delimiter lines built
// from the boundary parameter and each part is parsed in turn, up to the
// depth set by WithMaxDepth() (DefaultMaxMultipartDepth by default). Text
// before the first delimiter and after the close-delimiter is discarded.
//
// Leaf bodies keep their Content-transfer-encoding unless
// DecodeTransferEncoding() is given.
func Parse(r io.Reader, opts ...ParseOption) (Part, error) {
	pr := &parser{
		maxHeaderLen: DefaultMaxHeaderLength,
		maxDepth:     DefaultMaxMultipartDepth,
	}
	for _, opt := range opts {
		opt(pr)
	}

	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return pr.parse(buf, 0)
}

func (pr *parser) parse(buf []byte, depth int) (Part, error) {
	msg, err := pr.parseToOpaque(buf)
	if err != nil {
		return nil, err
	}

	if pr.maxDepth >= 0 && depth >= pr.maxDepth {
		return msg, nil
	}

	pv, err := msg.GetContentType()
	if err != nil || pv.Type() != "multipart" {
		return msg, nil
	}

	boundary := pv.Parameter("boundary")
	if boundary == "" {
		return msg, ErrNoBoundary
	}

	var body []byte
	if msg.Reader != nil {
		// the reader is never decoded for multipart types
		body, _ = io.ReadAll(msg.Reader)
	}

	chunks := splitParts(body, boundary, msg.Break())
	parts := make([]Part, 0, len(chunks))
	for _, chunk := range chunks {
		part, err := pr.parse(chunk, depth+1)
		if err != nil {
			return nil, fmt.Errorf("multipart part %d: %w", len(parts), err)
		}
		parts = append(parts, part)
	}

	return &Multipart{Header: msg.Header, parts: parts}, nil
}

// splitParts returns the bytes between delimiter lines. The line break before
// each delimiter belongs to the delimiter.
func splitParts(body []byte, boundary string, lb header.Break) [][]byte {
	delim := []byte("--" + boundary)
	br := lb.Bytes()

	var (
		parts [][]byte
		start = -1
	)

	pos := 0
	for pos <= len(body) {
		end := bytes.Index(body[pos:], br)
		if end < 0 {
			end = len(body)
		} else {
			end += pos
		}
		line := body[pos:end]

		if bytes.HasPrefix(line, delim) {
			rest := bytes.TrimRight(line[len(delim):], " \t")
			isClose := bytes.Equal(rest, []byte("--"))
			if isClose || len(rest) == 0 {
				if start >= 0 {
					stop := pos - len(br)
					if stop < start {
						stop = start
					}
					parts = append(parts, body[start:stop])
				}
				if isClose {
					return parts
				}
				start = end + len(br)
				if start > len(body) {
					start = len(body)
				}
			}
		}

		pos = end + len(br)
	}

	// missing close-delimiter: the remainder is the final part
	if start >= 0 && start < len(body) {
		parts = append(parts, body[start:])
	}

	return parts
}
