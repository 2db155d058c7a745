package header

import (
	"bytes"

	"github.com/zostay/docmail/message/header/field"
)

// Parse will parse the given slice of bytes into an email header using the
// given line break. It assumes the entire slice is the header, with or
// without the terminating blank line. Lines starting with whitespace are
// continuations of the previous field.
//
// The parsed header will have field.DoNotFoldEncoding so that fields are
// written back as they were unfolded. Use SetFoldEncoding() to change that.
func Parse(m []byte, lb Break) *Header {
	h := &Header{}
	h.SetBreak(lb)
	h.SetFoldEncoding(field.DoNotFoldEncoding)

	var cur []byte
	flush := func() {
		if len(bytes.TrimSpace(cur)) > 0 {
			f := field.Parse(cur)
			h.InsertBeforeField(h.Len(), f.Name(), f.Body())
		}
		cur = nil
	}

	for _, line := range bytes.Split(m, lb.Bytes()) {
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			cur = append(cur, line...)
			continue
		}
		flush()
		cur = append(cur, line...)
	}
	flush()

	return h
}
