package message_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/docmail/message"
)

func makePart() *message.Opaque {
	op := &message.Opaque{
		Reader: strings.NewReader("Test message."),
	}
	op.SetMediaType("text/html")
	return op
}

func makeSimple() (*message.Buffer, string, error) {
	buf := &message.Buffer{}

	buf.SetSubject("test simple")
	buf.SetMediaType("text/plain")

	_, err := fmt.Fprintln(buf, "This is a simple message.")

	const expect = `Subject: test simple
Content-type: text/plain

This is a simple message.
`

	return buf, expect, err
}

func makeMultipart() (*message.Buffer, string, error) {
	const expect = `Subject: test multipart
Content-type: multipart/related; boundary=testing

--testing
Content-type: text/html

Test message.
--testing
Content-type: text/html

Test message.
--testing--
`

	buf := &message.Buffer{}

	buf.SetSubject("test multipart")
	buf.SetMediaType("multipart/related")
	if err := buf.SetBoundary("testing"); err != nil {
		return nil, expect, err
	}

	err := buf.Add(makePart(), makePart())
	return buf, expect, err
}

func TestBuffer_Mode(t *testing.T) {
	t.Parallel()

	buf := &message.Buffer{}
	assert.Equal(t, message.ModeUnset, buf.Mode())

	_, err := buf.Opaque()
	assert.ErrorIs(t, err, message.ErrModeUnset)

	_, err = buf.Multipart()
	assert.ErrorIs(t, err, message.ErrModeUnset)

	_, err = fmt.Fprint(buf, "x")
	require.NoError(t, err)
	assert.Equal(t, message.ModeSingle, buf.Mode())

	err = buf.Add(makePart())
	assert.ErrorIs(t, err, message.ErrOpaqueBuffer)

	_, err = buf.Multipart()
	assert.ErrorIs(t, err, message.ErrOpaqueBuffer)
}

func TestBuffer_WriteAfterAdd(t *testing.T) {
	t.Parallel()

	buf := &message.Buffer{}
	require.NoError(t, buf.Add(makePart()))
	assert.Equal(t, message.ModeMultipart, buf.Mode())

	_, err := buf.Write([]byte("x"))
	assert.ErrorIs(t, err, message.ErrPartsBuffer)
}

func TestBuffer_Opaque(t *testing.T) {
	t.Parallel()

	buf, expect, err := makeSimple()
	require.NoError(t, err)

	m, err := buf.Opaque()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	n, err := m.WriteTo(out)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(expect)), n)
	assert.Equal(t, expect, out.String())
}

func TestBuffer_Opaque_Multipart(t *testing.T) {
	t.Parallel()

	buf, expect, err := makeMultipart()
	require.NoError(t, err)

	m, err := buf.Opaque()
	require.NoError(t, err)
	assert.True(t, m.IsEncoded())

	out := &bytes.Buffer{}
	n, err := m.WriteTo(out)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(expect)), n)
	assert.Equal(t, expect, out.String())
}

func TestBuffer_Multipart(t *testing.T) {
	t.Parallel()

	buf, expect, err := makeMultipart()
	require.NoError(t, err)

	m, err := buf.Multipart()
	require.NoError(t, err)
	assert.Len(t, m.GetParts(), 2)

	out := &bytes.Buffer{}
	n, err := m.WriteTo(out)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(expect)), n)
	assert.Equal(t, expect, out.String())
}

func TestBuffer_Multipart_Defaults(t *testing.T) {
	t.Parallel()

	buf := &message.Buffer{}
	require.NoError(t, buf.Add(makePart()))

	m, err := buf.Multipart()
	require.NoError(t, err)

	mt, err := m.GetMediaType()
	assert.NoError(t, err)
	assert.Equal(t, message.DefaultMultipartContentType, mt)

	b, err := m.GetBoundary()
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(b, "=_"))
	assert.Len(t, b, 32)
}
