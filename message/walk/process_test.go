package walk_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/docmail/message"
	"github.com/zostay/docmail/message/walk"
)

const relatedMsg = `To: recipient@example.com
From: sender@example.com
Subject: Document Content
Content-type: multipart/mixed; boundary=__boundary-one__

--__boundary-one__
Content-type: multipart/related; boundary=__boundary-two__; type="text/html"

--__boundary-two__
Content-type: text/html; charset=utf-8

<img src="cid:image_0" style="max-width:100%;"/>
--__boundary-two__
Content-type: image/png
Content-id: <image_0>
Content-disposition: inline; filename=image1.png
Content-transfer-encoding: base64

iVBORw0KGgo=
--__boundary-two__--
--__boundary-one__
Content-type: application/pdf
Content-disposition: attachment; filename=micro.pdf

%PDF-1.
--__boundary-one__--`

func parse(t *testing.T) message.Part {
	t.Helper()
	m, err := message.Parse(strings.NewReader(relatedMsg))
	require.NoError(t, err)
	return m
}

func TestAndProcess(t *testing.T) {
	t.Parallel()

	m := parse(t)

	counts := make([]int, 10)
	err := walk.AndProcess(
		func(part message.Part, parents []message.Part) error {
			count := counts[len(parents)]
			switch {
			case len(parents) == 0 && count == 0:
				assert.True(t, part.IsMultipart())
				assert.Len(t, part.GetParts(), 2)

				s, err := part.GetHeader().GetSubject()
				assert.NoError(t, err)
				assert.Equal(t, "Document Content", s)
			case len(parents) == 1 && count == 0:
				assert.True(t, part.IsMultipart())
				assert.Len(t, part.GetParts(), 2)
			case len(parents) == 1 && count == 1:
				fn, err := part.GetHeader().GetFilename()
				assert.NoError(t, err)
				assert.Equal(t, "micro.pdf", fn)
			case len(parents) == 2 && count == 0:
				mt, err := part.GetHeader().GetMediaType()
				assert.NoError(t, err)
				assert.Equal(t, "text/html", mt)
			case len(parents) == 2 && count == 1:
				fn, err := part.GetHeader().GetFilename()
				assert.NoError(t, err)
				assert.Equal(t, "image1.png", fn)
			default:
				assert.Fail(t, "Unexpected part processed")
			}

			counts[len(parents)]++
			return nil
		}, m,
	)

	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2, 0, 0, 0, 0, 0, 0, 0}, counts)
}

func TestAndProcess_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	err := walk.AndProcess(
		func(message.Part, []message.Part) error {
			calls++
			return boom
		}, parse(t))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestLeaves(t *testing.T) {
	t.Parallel()

	leaves := walk.Leaves(parse(t))
	require.Len(t, leaves, 3)
	for _, l := range leaves {
		assert.False(t, l.IsMultipart())
	}
}

func TestFindContentID(t *testing.T) {
	t.Parallel()

	m := parse(t)

	p := walk.FindContentID(m, "image_0")
	require.NotNil(t, p)
	mt, err := p.GetHeader().GetMediaType()
	assert.NoError(t, err)
	assert.Equal(t, "image/png", mt)

	assert.Nil(t, walk.FindContentID(m, "image_1"))
}
