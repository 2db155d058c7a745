package message_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/docmail/message"
)

const relatedCRLF = "Subject: parse me\r\n" +
	"Content-type: multipart/related; boundary=xyz; type=\"text/html\"\r\n" +
	"\r\n" +
	"--xyz\r\n" +
	"Content-type: text/html; charset=utf-8\r\n" +
	"Content-transfer-encoding: quoted-printable\r\n" +
	"\r\n" +
	"caf=C3=A9\r\n" +
	"--xyz\r\n" +
	"Content-type: image/png\r\n" +
	"Content-transfer-encoding: base64\r\n" +
	"Content-id: <image_0>\r\n" +
	"\r\n" +
	"iVBORw0KGgo=\r\n" +
	"--xyz--\r\n"

func TestParse_Opaque(t *testing.T) {
	t.Parallel()

	src := "Subject: test simple\nContent-type: text/plain\n\nThis is a simple message.\n"
	m, err := message.Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.False(t, m.IsMultipart())
	assert.True(t, m.IsEncoded())

	s, err := m.GetHeader().GetSubject()
	assert.NoError(t, err)
	assert.Equal(t, "test simple", s)

	out := &bytes.Buffer{}
	_, err = m.WriteTo(out)
	assert.NoError(t, err)
	assert.Equal(t, src, out.String())
}

func TestParse_Multipart(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader(relatedCRLF))
	require.NoError(t, err)
	require.True(t, m.IsMultipart())

	parts := m.GetParts()
	require.Len(t, parts, 2)

	body, err := io.ReadAll(parts[0].GetReader())
	assert.NoError(t, err)
	assert.Equal(t, "caf=C3=A9", string(body))

	cid, err := parts[1].GetHeader().GetContentID()
	assert.NoError(t, err)
	assert.Equal(t, "image_0", cid)

	// reading the body above drained it, so start over for the round trip
	m, err = message.Parse(strings.NewReader(relatedCRLF))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	_, err = m.WriteTo(out)
	assert.NoError(t, err)
	assert.Equal(t, relatedCRLF, out.String())
}

func TestParse_DecodeTransferEncoding(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader(relatedCRLF), message.DecodeTransferEncoding())
	require.NoError(t, err)

	parts := m.GetParts()
	require.Len(t, parts, 2)
	assert.False(t, parts[0].IsEncoded())

	html, err := io.ReadAll(parts[0].GetReader())
	assert.NoError(t, err)
	assert.Equal(t, "café", string(html))

	img, err := io.ReadAll(parts[1].GetReader())
	assert.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), img)
}

func TestParse_WithoutMultipart(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader(relatedCRLF), message.WithoutMultipart())
	require.NoError(t, err)
	assert.False(t, m.IsMultipart())
}

func TestParse_NoBoundary(t *testing.T) {
	t.Parallel()

	src := "Content-type: multipart/related\n\nnothing here\n"
	_, err := message.Parse(strings.NewReader(src))
	assert.ErrorIs(t, err, message.ErrNoBoundary)
}

func TestParse_LargeHeader(t *testing.T) {
	t.Parallel()

	src := "Subject: " + strings.Repeat("x", 100) + "\n\nbody"
	_, err := message.Parse(strings.NewReader(src), message.WithMaxHeaderLength(50))
	assert.ErrorIs(t, err, message.ErrLargeHeader)
}

func TestParse_RoundTripBuffer(t *testing.T) {
	t.Parallel()

	buf, expect, err := makeMultipart()
	require.NoError(t, err)

	m, err := buf.Opaque()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	_, err = m.WriteTo(out)
	require.NoError(t, err)

	p, err := message.Parse(out)
	require.NoError(t, err)
	assert.Len(t, p.GetParts(), 2)

	again := &bytes.Buffer{}
	_, err = p.WriteTo(again)
	assert.NoError(t, err)
	assert.Equal(t, expect, again.String())
}
