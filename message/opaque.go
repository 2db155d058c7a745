package message

import (
	"io"

	"github.com/zostay/docmail/message/header"
	"github.com/zostay/docmail/message/transfer"
)

// Opaque is the base-level email message. It is simply a header and a message
// body, very similar to the net/mail message implementation.
type Opaque struct {
	// Header will contain the header of the message.
	header.Header

	// Reader will contain the body content of the message. If the content is
	// zero bytes long, then Reader should be set to nil.
	io.Reader

	// encoded is true when the bytes in Reader already have the
	// Content-transfer-encoding applied. Parsed messages are encoded unless
	// DecodeTransferEncoding() is given. Messages from a Buffer are not.
	encoded bool
}

// counter counts the bytes passed through to the nested io.Writer.
type counter struct {
	w io.Writer
	n int64
}

func (c *counter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo writes the Opaque header and body to the destination io.Writer.
//
// If the body has not been encoded yet, the Content-transfer-encoding named in
// the header is applied as it is written.
//
// This can only be safely called once as it will consume the io.Reader.
func (m *Opaque) WriteTo(w io.Writer) (int64, error) {
	cw := &counter{w: w}

	if _, err := m.Header.WriteTo(cw); err != nil {
		return cw.n, err
	}

	if m.Reader == nil {
		return cw.n, nil
	}

	if m.encoded {
		_, err := io.Copy(cw, m.Reader)
		return cw.n, err
	}

	tw := transfer.ApplyTransferEncoding(&m.Header, cw)
	if _, err := io.Copy(tw, m.Reader); err != nil {
		_ = tw.Close()
		return cw.n, err
	}
	err := tw.Close()

	return cw.n, err
}

// IsMultipart always returns false.
func (m *Opaque) IsMultipart() bool {
	return false
}

// IsEncoded returns true if reading the io.Reader returns exactly the bytes
// WriteTo() would write for the body.
func (m *Opaque) IsEncoded() bool {
	return m.encoded
}

// GetHeader returns the header for the message.
func (m *Opaque) GetHeader() *header.Header {
	return &m.Header
}

// GetReader returns the reader containing the body of the message.
func (m *Opaque) GetReader() io.Reader {
	return m.Reader
}

// GetParts always returns nil.
func (m *Opaque) GetParts() []Part {
	return nil
}
