package convert_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/docmail/convert"
	"github.com/zostay/docmail/message"
)

func TestAssembler_Headers(t *testing.T) {
	t.Parallel()

	a := &convert.Assembler{
		Logger: quietLogger(),
		Now:    func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) },
		NewID:  func() string { return "fixed" },
	}

	msg, err := a.Assemble([]convert.Unit{convert.Paragraph{Text: "x"}}, nil)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	_, err = msg.WriteTo(buf)
	require.NoError(t, err)
	out := buf.String()

	head, _, ok := strings.Cut(out, "\r\n\r\n")
	require.True(t, ok)

	assert.Contains(t, head, "Subject: Document Content\r\n")
	assert.Contains(t, head, "From: sender@example.com\r\n")
	assert.Contains(t, head, "To: recipient@example.com\r\n")
	assert.Contains(t, head, "Date: Tue, 05 Mar 2024 14:07:09 +0000\r\n")
	assert.Contains(t, head, "Message-id: <fixed@docmail>\r\n")
	assert.Contains(t, head, "Mime-version: 1.0\r\n")
	assert.Contains(t, head, "Content-type: multipart/related; boundary=")
	assert.Contains(t, head, `type="text/html"`)
}

func TestAssembler_Custom(t *testing.T) {
	t.Parallel()

	a := &convert.Assembler{
		Subject: "Résumé",
		From:    "Sterling <sterling@example.com>",
		To:      "a@example.com, b@example.com",
		Date:    time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
		Logger:  quietLogger(),
	}

	msg, err := a.Assemble(nil, nil)
	require.NoError(t, err)

	s, err := msg.GetSubject()
	assert.NoError(t, err)
	assert.Equal(t, "Résumé", s)

	raw, err := msg.Get("Subject")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "=?utf-8?b?"))

	to, err := msg.GetTo()
	assert.NoError(t, err)
	assert.Len(t, to, 2)

	d, err := msg.GetDate()
	assert.NoError(t, err)
	assert.True(t, d.Equal(a.Date))
}

func TestAssembler_Parts(t *testing.T) {
	t.Parallel()

	units := []convert.Unit{
		convert.Heading{Level: 1, Text: "Title"},
		convert.ImagePlaceholder{Index: 0, RelID: "rId2"},
		convert.ImagePlaceholder{Index: 1, RelID: "rId9"},
		convert.ImagePlaceholder{Index: 2, RelID: "rId1"},
	}
	outs := []convert.Outcome{
		{RelID: "rId1", Image: &convert.Image{Data: pngData, Filename: "a.png", ContentType: "image/png", RelID: "rId1"}},
		{RelID: "rId2", Image: &convert.Image{Data: gifData, Filename: "b.gif", ContentType: "image/gif", RelID: "rId2"}},
		{RelID: "rId3", Image: &convert.Image{Data: gifData, Filename: "c.gif", ContentType: "image/gif", RelID: "rId3"}},
	}

	msg, err := (&convert.Assembler{Logger: quietLogger()}).Assemble(units, outs)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	_, err = msg.WriteTo(buf)
	require.NoError(t, err)

	m, err := message.Parse(buf)
	require.NoError(t, err)

	parts := m.GetParts()
	require.Len(t, parts, 3)

	h := parts[1].GetHeader()
	cid, err := h.GetContentID()
	assert.NoError(t, err)
	assert.Equal(t, "image_0", cid)

	mt, err := h.GetMediaType()
	assert.NoError(t, err)
	assert.Equal(t, "image/gif", mt)

	disp, err := h.GetPresentation()
	assert.NoError(t, err)
	assert.Equal(t, "inline", disp)

	fn, err := h.GetFilename()
	assert.NoError(t, err)
	assert.Equal(t, "b.gif", fn)

	cte, err := h.GetTransferEncoding()
	assert.NoError(t, err)
	assert.Equal(t, "base64", cte)

	cid, err = parts[2].GetHeader().GetContentID()
	assert.NoError(t, err)
	assert.Equal(t, "image_2", cid)

	cs, err := parts[0].GetHeader().GetCharset()
	assert.NoError(t, err)
	assert.Equal(t, "utf-8", cs)
}

func TestAssembler_BadAddress(t *testing.T) {
	t.Parallel()

	_, err := (&convert.Assembler{From: "not an address", Logger: quietLogger()}).Assemble(nil, nil)
	assert.Error(t, err)
}
