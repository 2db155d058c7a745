package convert

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/docmail/message"
	"github.com/zostay/docmail/message/header"
	"github.com/zostay/docmail/message/transfer"
)

// Default header values for assembled messages.
const (
	DefaultSubject = "Document Content"
	DefaultFrom    = "sender@example.com"
	DefaultTo      = "recipient@example.com"
)

// Assembler builds the message from the content units and image outcomes. The
// zero value uses the defaults.
type Assembler struct {
	Subject string
	From    string
	To      string

	// Date is the Date header. When zero, Now is used.
	Date time.Time

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// NewID generates the Message-id. Defaults to a random UUID.
	NewID func() string

	Logger *slog.Logger
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (a *Assembler) date() time.Time {
	if !a.Date.IsZero() {
		return a.Date
	}
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Assembler) messageID() string {
	id := uuid.NewString()
	if a.NewID != nil {
		id = a.NewID()
	}
	return id + "@docmail"
}

func (a *Assembler) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Assemble returns the multipart/related message for the units. The first part
// is the HTML body. Each placeholder whose relationship resolved gets an
// inline image part with the Content-id of its index, in placeholder order.
// Images no placeholder refers to are left out with a warning.
func (a *Assembler) Assemble(units []Unit, outs []Outcome) (*message.Multipart, error) {
	byRel := make(map[string]*Image)
	for _, img := range Images(outs) {
		if _, dup := byRel[img.RelID]; !dup {
			byRel[img.RelID] = img
		}
	}

	missing := func(ph ImagePlaceholder) bool {
		_, ok := byRel[ph.RelID]
		return !ok
	}

	doc, err := Document(render(units, missing))
	if err != nil {
		return nil, err
	}

	body, err := htmlPart(doc)
	if err != nil {
		return nil, err
	}

	parts := []message.Part{body}
	used := make(map[string]bool, len(byRel))
	for _, ph := range Placeholders(units) {
		img, ok := byRel[ph.RelID]
		if !ok {
			continue
		}
		used[ph.RelID] = true

		part, err := imagePart(ContentID(ph.Index), img)
		if err != nil {
			return nil, fmt.Errorf("image part %s: %w", ContentID(ph.Index), err)
		}
		parts = append(parts, part)
	}

	for _, img := range Images(outs) {
		if !used[img.RelID] {
			a.logger().Warn("image not shown by any paragraph",
				"rel", img.RelID,
				"filename", img.Filename)
		}
	}

	top := message.MultipartRelated("text/html", parts...)
	top.SetBreak(header.CRLF)
	top.SetSubject(or(a.Subject, DefaultSubject))
	if err := setAddresses(&top.Header, header.From, or(a.From, DefaultFrom)); err != nil {
		return nil, err
	}
	if err := setAddresses(&top.Header, header.To, or(a.To, DefaultTo)); err != nil {
		return nil, err
	}
	top.SetDate(a.date())
	top.SetMessageID(a.messageID())
	top.Set(header.MIMEVersion, "1.0")

	return top, nil
}

// setAddresses sets an address field from a comma separated list, which
// must parse strictly.
func setAddresses(h *header.Header, name, list string) error {
	al, err := addr.ParseEmailAddressList(list)
	if err != nil {
		return fmt.Errorf("invalid %s address list %q: %w", name, list, err)
	}
	h.SetAddressList(name, al...)
	return nil
}

func htmlPart(doc string) (*message.Opaque, error) {
	b := &message.Buffer{}
	b.SetBreak(header.CRLF)
	b.SetMediaType("text/html")
	if err := b.SetCharset("utf-8"); err != nil {
		return nil, err
	}
	b.SetTransferEncoding(transfer.QuotedPrintable)
	if _, err := io.WriteString(b, doc); err != nil {
		return nil, err
	}
	return b.Opaque()
}

func imagePart(cid string, img *Image) (*message.Opaque, error) {
	b := &message.Buffer{}
	b.SetBreak(header.CRLF)
	b.SetMediaType(img.ContentType)
	b.SetTransferEncoding(transfer.Base64)
	b.SetContentID(cid)
	b.SetPresentation("inline")
	if err := b.SetFilename(img.Filename); err != nil {
		return nil, err
	}
	if _, err := b.Write(img.Data); err != nil {
		return nil, err
	}
	return b.Opaque()
}
