// Package field holds the low-level representation of a single header field
// along with the folding and encoded-word helpers used when fields are
// rendered or read back.
package field

import "strings"

// Field is a single header field: a name and a body. The body is held
// unfolded and, for fields built in this library, already encoded for output.
type Field struct {
	name string
	body string
}

// New constructs a new field with the given name and body.
func New(name, body string) *Field {
	return &Field{name: name, body: body}
}

// Parse splits a raw (possibly folded) header line into a Field. Folding line
// breaks are removed. A line without a colon becomes a field with an empty
// body.
func Parse(line []byte) *Field {
	s := Unfold(string(line))
	name, body, _ := strings.Cut(s, ":")
	return &Field{
		name: strings.TrimSpace(name),
		body: strings.TrimSpace(body),
	}
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// SetName replaces the field name.
func (f *Field) SetName(n string) { f.name = n }

// Body returns the field body.
func (f *Field) Body() string { return f.body }

// SetBody replaces the field body.
func (f *Field) SetBody(b string) { f.body = b }

// String returns the field as "Name: body" without any trailing line break.
func (f *Field) String() string {
	return f.name + ": " + f.body
}

// Bytes returns the same thing String does, as bytes.
func (f *Field) Bytes() []byte {
	return []byte(f.String())
}

// Unfold removes the folding whitespace from a header field: every line
// break followed by whitespace is replaced by that whitespace.
func Unfold(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' || s[i] == '\n' {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
