// Package param handles header field bodies made of a primary value followed
// by parameters, such as Content-type and Content-disposition.
package param

import (
	"mime"
	"sort"
	"strings"
)

// Parameter names in common use.
const (
	Boundary = "boundary"
	Charset  = "charset"
	Filename = "filename"
	Name     = "name"
	Type     = "type"
)

// Value is an immutable parameterized header value, like
// "text/html; charset=utf-8".
type Value struct {
	v  string
	ps map[string]string
}

// New returns a Value with the given primary value and no parameters.
func New(v string) *Value {
	return &Value{v: v}
}

// Parse parses a field body into a Value. Parameter names are lowercased.
func Parse(body string) (*Value, error) {
	v, ps, err := mime.ParseMediaType(body)
	if err != nil {
		return nil, err
	}
	return &Value{v: v, ps: ps}, nil
}

// Clone returns a copy of the value.
func (pv *Value) Clone() *Value {
	ps := make(map[string]string, len(pv.ps))
	for k, v := range pv.ps {
		ps[k] = v
	}
	return &Value{v: pv.v, ps: ps}
}

// Value returns the primary value.
func (pv *Value) Value() string { return pv.v }

// Type returns the part of the primary value before the slash, for a media
// type, or the whole primary value otherwise.
func (pv *Value) Type() string {
	t, _, _ := strings.Cut(pv.v, "/")
	return t
}

// Subtype returns the part of the media type after the slash.
func (pv *Value) Subtype() string {
	_, s, _ := strings.Cut(pv.v, "/")
	return s
}

// Parameter returns the named parameter or an empty string.
func (pv *Value) Parameter(name string) string {
	return pv.ps[strings.ToLower(name)]
}

// Parameters returns the parameter names in sorted order.
func (pv *Value) Parameters() []string {
	names := make([]string, 0, len(pv.ps))
	for k := range pv.ps {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String formats the value for use as a header field body, quoting
// parameter values as needed.
func (pv *Value) String() string {
	if s := mime.FormatMediaType(pv.v, pv.ps); s != "" {
		return s
	}
	return pv.v
}

// Modifier describes a change made by Modify.
type Modifier func(pv *Value)

// Change replaces the primary value.
func Change(v string) Modifier {
	return func(pv *Value) { pv.v = v }
}

// Set sets (or replaces) a parameter.
func Set(name, v string) Modifier {
	return func(pv *Value) { pv.ps[strings.ToLower(name)] = v }
}

// Delete removes a parameter.
func Delete(name string) Modifier {
	return func(pv *Value) { delete(pv.ps, strings.ToLower(name)) }
}

// Modify returns a copy of pv with the modifications applied.
func Modify(pv *Value, changes ...Modifier) *Value {
	npv := pv.Clone()
	for _, change := range changes {
		change(npv)
	}
	return npv
}
