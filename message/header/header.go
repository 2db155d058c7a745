package header

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/docmail/message/header/field"
	"github.com/zostay/docmail/message/header/param"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation
	// being performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")

	// ErrNoSuchFieldParameter is returned by Header methods when the
	// operation being performed failed because the header exists, but a
	// sub-field of the header does not exist.
	ErrNoSuchFieldParameter = errors.New("no such header field parameter")

	// ErrManyFields is returned by Header methods when the operation
	// being performed failed because the there are multiple fields with the
	// given name.
	ErrManyFields = errors.New("many header fields found")

	// ErrWrongAddressType is returned by address setting methods that accept
	// either a string or an addr.Address when something other than those
	// types is provided.
	ErrWrongAddressType = errors.New("incorrect address type during write")
)

// These are the standard headers this library sets or reads.
const (
	ContentDisposition      = "Content-disposition"
	ContentID               = "Content-id"
	ContentTransferEncoding = "Content-transfer-encoding"
	ContentType             = "Content-type"
	Date                    = "Date"
	From                    = "From"
	MessageID               = "Message-id"
	MIMEVersion             = "Mime-version"
	Subject                 = "Subject"
	To                      = "To"
)

// Header wraps a Base, which does the actual storage and low-level field
// manipulation, with methods that make reading and writing the semantic
// values of the header more convenient.
//
// The getter methods of this object will return ErrNoSuchField if the field
// being fetched has not been set on the header.
type Header struct {
	Base
}

// Get retrieves the string value of the named field.
//
// If the named field is not set in the header, it will return an empty string
// with ErrNoSuchField. If there are multiple headers for the given named field,
// it will return the first value found and return ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return "", ErrNoSuchField
	}

	b := h.GetField(ixs[0]).Body()
	if len(ixs) > 1 {
		return b, ErrManyFields
	}

	return b, nil
}

// GetAll fetches all the header field bodies for fields with the given
// name. It returns nil with ErrNoSuchField if there are none.
func (h *Header) GetAll(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(fs))
	for i, f := range fs {
		bs[i] = f.Body()
	}
	return bs, nil
}

// Set will replace all existing header fields with the given name with a single
// header field with the given name and body. If the field already exists on the
// header, then the first occurrence will be replaced with this value and any
// other values will be deleted. If the field does not exist, it will be
// appended to the end of the header.
func (h *Header) Set(name, body string) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		h.InsertBeforeField(h.Len(), name, body)
		return
	}

	for i := len(ixs) - 1; i > 0; i-- {
		_ = h.DeleteField(ixs[i])
	}

	f := h.GetField(ixs[0])
	f.SetName(name)
	f.SetBody(body)
}

// ParseTime provides the time parsing used by GetTime() and GetDate(). It
// tries the RFC 5322 format first and then falls back to parsing the date in
// just about any format a human might write.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime gets the given date header field as a time.Time.
func (h *Header) GetTime(name string) (time.Time, error) {
	body, err := h.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	return ParseTime(body)
}

// SetTime replaces the named field with the given time formatted per RFC 5322
// (time.RFC1123Z).
func (h *Header) SetTime(name string, body time.Time) {
	h.Set(name, body.Format(time.RFC1123Z))
}

// ParseAddressList attempts a strict parse of the address list and falls back
// to a very lenient one, so it returns something for any input.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		al = parseEmailAddressList(body)
	}
	return al
}

// GetAddressList returns the named field as an addr.AddressList.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	body, err := h.Get(name)
	if err != nil {
		return nil, err
	}
	return ParseAddressList(body), nil
}

// SetAddressList will replace all existing header fields with the given name
// with a single header containing the given addresses.
func (h *Header) SetAddressList(name string, body ...addr.Address) {
	h.Set(name, addr.AddressList(body).String())
}

// setAddress allows the setting of an address field either from strings,
// which must strictly parse, or from addr.Address values.
func (h *Header) setAddress(n string, as []any) error {
	al := make(addr.AddressList, 0, len(as))
	for _, a := range as {
		switch v := a.(type) {
		case string:
			add, err := addr.ParseEmailAddress(v)
			if err != nil {
				return fmt.Errorf("invalid %s address %q: %w", n, v, err)
			}
			al = append(al, add)
		case addr.Address:
			al = append(al, v)
		default:
			return ErrWrongAddressType
		}
	}
	h.SetAddressList(n, al...)
	return nil
}

// GetParamValue will return a param.Value for the header field matching the
// given name.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	body, err := h.Get(name)
	if err != nil {
		return nil, err
	}
	return param.Parse(body)
}

// SetParamValue will replace all existing header fields with the given name
// with a single field holding the given param.Value.
func (h *Header) SetParamValue(name string, body *param.Value) {
	h.Set(name, body.String())
}

func (h *Header) getParamValueValue(name string) (string, error) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return "", err
	}
	return pv.Value(), nil
}

// setParamValueValue sets the primary value of the named field, keeping any
// parameters already present.
func (h *Header) setParamValueValue(name, v string) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		pv = param.New(v)
	} else {
		pv = param.Modify(pv, param.Change(v))
	}
	h.SetParamValue(name, pv)
}

func (h *Header) getParamValueParam(name, p string) (string, error) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return "", err
	}

	if v := pv.Parameter(p); v != "" {
		return v, nil
	}

	return "", ErrNoSuchFieldParameter
}

// setParamValueParam sets a parameter on the named field, which must
// already exist.
func (h *Header) setParamValueParam(name, p, v string) error {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return err
	}
	h.SetParamValue(name, param.Modify(pv, param.Set(p, v)))
	return nil
}

// GetContentType returns the Content-type header as a param.Value.
func (h *Header) GetContentType() (*param.Value, error) {
	return h.GetParamValue(ContentType)
}

// GetMediaType returns the MIME type set in the Content-type header.
func (h *Header) GetMediaType() (string, error) {
	return h.getParamValueValue(ContentType)
}

// SetMediaType replaces the MIME type on the Content-type header, creating it
// if it has not been set yet. Other parameters already set are preserved.
func (h *Header) SetMediaType(mt string) {
	h.setParamValueValue(ContentType, mt)
}

// GetCharset gets the charset from the Content-type header field.
func (h *Header) GetCharset() (string, error) {
	return h.getParamValueParam(ContentType, param.Charset)
}

// SetCharset sets the charset on the Content-type header. The header must
// already be set.
func (h *Header) SetCharset(c string) error {
	return h.setParamValueParam(ContentType, param.Charset, c)
}

// GetBoundary gets the boundary from the Content-type header field.
func (h *Header) GetBoundary() (string, error) {
	return h.getParamValueParam(ContentType, param.Boundary)
}

// SetBoundary sets the boundary on the Content-type header. The header must
// already be set.
func (h *Header) SetBoundary(b string) error {
	return h.setParamValueParam(ContentType, param.Boundary, b)
}

// SetContentTypeParam sets an arbitrary parameter on the Content-type header,
// such as the type parameter of multipart/related.
func (h *Header) SetContentTypeParam(p, v string) error {
	return h.setParamValueParam(ContentType, p, v)
}

// GetPresentation returns the primary value of the Content-disposition
// header ("inline" or "attachment").
func (h *Header) GetPresentation() (string, error) {
	return h.getParamValueValue(ContentDisposition)
}

// SetPresentation sets the disposition value of the Content-disposition
// header field, keeping any parameters already present.
func (h *Header) SetPresentation(d string) {
	h.setParamValueValue(ContentDisposition, d)
}

// GetFilename gets the filename parameter of the Content-disposition header.
func (h *Header) GetFilename() (string, error) {
	return h.getParamValueParam(ContentDisposition, param.Filename)
}

// SetFilename sets the filename parameter of the Content-disposition header.
// The header must already be set.
func (h *Header) SetFilename(f string) error {
	return h.setParamValueParam(ContentDisposition, param.Filename, f)
}

// GetDate retrieves the Date header as a time.Time value.
func (h *Header) GetDate() (time.Time, error) {
	return h.GetTime(Date)
}

// SetDate updates the Date header from the given time.Time value.
func (h *Header) SetDate(d time.Time) {
	h.SetTime(Date, d)
}

// GetSubject returns the decoded value of the Subject header field.
func (h *Header) GetSubject() (string, error) {
	s, err := h.Get(Subject)
	if err != nil {
		return s, err
	}
	return field.Decode(s)
}

// SetSubject replaces the Subject header field. Non-ASCII subjects are
// written as RFC 2047 encoded words.
func (h *Header) SetSubject(s string) {
	h.Set(Subject, field.Encode(s))
}

// GetTo returns the To address field as an addr.AddressList.
func (h *Header) GetTo() (addr.AddressList, error) {
	return h.GetAddressList(To)
}

// SetTo sets the To address field with either an addr.Address or a string.
func (h *Header) SetTo(a ...any) error {
	return h.setAddress(To, a)
}

// GetFrom returns the From address field as an addr.AddressList.
func (h *Header) GetFrom() (addr.AddressList, error) {
	return h.GetAddressList(From)
}

// SetFrom sets the From address field with either an addr.Address or a
// string.
func (h *Header) SetFrom(a ...any) error {
	return h.setAddress(From, a)
}

// GetMessageID returns the Message-id header, angle brackets included.
func (h *Header) GetMessageID() (string, error) {
	return h.Get(MessageID)
}

// SetMessageID sets the Message-id header. The ID is wrapped in angle
// brackets if it is not already.
func (h *Header) SetMessageID(id string) {
	h.Set(MessageID, angle(id))
}

// GetContentID returns the Content-id of a part without the angle brackets,
// which is the form referenced by a cid: URL.
func (h *Header) GetContentID() (string, error) {
	id, err := h.Get(ContentID)
	return strings.TrimSuffix(strings.TrimPrefix(id, "<"), ">"), err
}

// SetContentID sets the Content-id of a part. The ID is wrapped in angle
// brackets if it is not already.
func (h *Header) SetContentID(id string) {
	h.Set(ContentID, angle(id))
}

// GetTransferEncoding returns the content of the Content-transfer-encoding
// header.
func (h *Header) GetTransferEncoding() (string, error) {
	cte, err := h.Get(ContentTransferEncoding)
	return strings.ToLower(cte), err
}

// SetTransferEncoding replaces the Content-transfer-encoding with the given
// value.
func (h *Header) SetTransferEncoding(b string) {
	h.Set(ContentTransferEncoding, b)
}

func angle(id string) string {
	if strings.HasPrefix(id, "<") && strings.HasSuffix(id, ">") {
		return id
	}
	return "<" + id + ">"
}

// parseEmailAddressList is a fallback method for email address parsing. The
// parser in github.com/zostay/go-addr is strict. This one splits on commas
// and treats the last word of each piece as the address and the rest as the
// display name. Comments are dropped and groups are not recognized.
func parseEmailAddressList(v string) addr.AddressList {
	mbs := strings.Split(v, ",")
	as := make(addr.AddressList, 0, len(mbs))
	for _, orig := range mbs {
		parts := strings.Fields(orig)
		if len(parts) == 0 {
			continue
		}

		dn := strings.Join(parts[:len(parts)-1], " ")
		email := strings.Trim(parts[len(parts)-1], "<>")

		local, domain, _ := strings.Cut(email, "@")
		addrSpec := addr.NewAddrSpecParsed(local, domain, email)

		mailbox, err := addr.NewMailboxParsed(dn, addrSpec, "", orig)
		if err != nil {
			continue
		}
		as = append(as, mailbox)
	}
	return as
}
