package message

import (
	"fmt"
	"io"

	"github.com/zostay/docmail/message/header"
)

// Part is an interface define the parts of a Multipart. Each Part is
// either a branch or a leaf.
//
// A branch Part is one that has sub-parts. In this case, the IsMultipart()
// method will return true and GetParts() returns the sub-parts.
//
// A leaf Part is one that contains content. In this case, the IsMultipart()
// method will return false and GetReader() returns the content.
type Part interface {
	io.WriterTo

	// IsMultipart will return true if this Part is a branch with nested
	// parts.
	IsMultipart() bool

	// IsEncoded will return true if the bytes returned by GetReader() still
	// have the Content-transfer-encoding applied. It is always false for a
	// branch.
	IsEncoded() bool

	// GetHeader is available on all Part objects.
	GetHeader() *header.Header

	// GetReader provides the content of a leaf. It returns nil for a branch.
	GetReader() io.Reader

	// GetParts provides the sub-parts of a branch. It returns nil for a leaf.
	GetParts() []Part
}

// Multipart is a multipart MIME message. The media type set in the
// Content-type header should always be one of the multipart/* types and the
// boundary parameter must be set.
type Multipart struct {
	// Header is the header for the message.
	header.Header

	// parts holds this layer's parts
	parts []Part
}

// WriteTo writes the Multipart header and parts to the destination io.Writer.
// Each part is introduced by a delimiter line and the parts are closed by
// the close-delimiter line. It fails with ErrNoBoundary if the Content-type
// boundary parameter is not set.
//
// This may only be safely called one time because it will consume all the
// bytes from all the io.Reader objects of the parts within.
func (mm *Multipart) WriteTo(w io.Writer) (int64, error) {
	boundary, err := mm.GetBoundary()
	if err != nil {
		return 0, ErrNoBoundary
	}

	cw := &counter{w: w}
	if _, err := mm.Header.WriteTo(cw); err != nil {
		return cw.n, err
	}

	err = writeParts(cw, mm.parts, boundary, mm.Break())
	return cw.n, err
}

// writeParts writes the parts between delimiters built from the boundary.
func writeParts(w io.Writer, parts []Part, boundary string, br header.Break) error {
	for _, part := range parts {
		if _, err := fmt.Fprintf(w, "--%s%s", boundary, br); err != nil {
			return err
		}

		if _, err := part.WriteTo(w); err != nil {
			return err
		}

		if _, err := fmt.Fprint(w, br); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "--%s--%s", boundary, br)
	return err
}

// IsMultipart always returns true.
func (mm *Multipart) IsMultipart() bool {
	return true
}

// IsEncoded always returns false.
func (mm *Multipart) IsEncoded() bool {
	return false
}

// GetHeader returns the header for the message.
func (mm *Multipart) GetHeader() *header.Header {
	return &mm.Header
}

// GetReader always returns nil.
func (mm *Multipart) GetReader() io.Reader {
	return nil
}

// GetParts returns the sub-parts of this message or nil if there aren't any.
func (mm *Multipart) GetParts() []Part {
	return mm.parts
}

// MultipartRelated returns a Multipart with a Content-type header set to
// multipart/related, with the given root media type as its type parameter,
// and the given parts attached. The first part should be the root.
func MultipartRelated(rootType string, parts ...Part) *Multipart {
	m := &Multipart{parts: parts}
	m.SetMediaType("multipart/related")
	_ = m.SetContentTypeParam("type", rootType)
	_ = m.SetBoundary(GenerateBoundary())
	return m
}
