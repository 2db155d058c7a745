package eventlog_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/docmail/eventlog"
)

const oneEvent = `{
  "id": "8a1c6d2e-0000-4000-8000-000000000001",
  "eventType": "Microsoft.Storage.BlobCreated",
  "subject": "/blobServices/default/containers/docs/blobs/report.docx",
  "data": {"url": "https://example.blob.core.windows.net/docs/report.docx", "contentLength": 5120},
  "eventTime": "2024-03-05T14:07:09Z",
  "dataVersion": "1.0",
  "topic": "/subscriptions/x/resourceGroups/y"
}`

func TestParseEvents_One(t *testing.T) {
	t.Parallel()

	evs, err := eventlog.ParseEvents(strings.NewReader(oneEvent))
	require.NoError(t, err)
	require.Len(t, evs, 1)

	ev := evs[0]
	assert.Equal(t, "8a1c6d2e-0000-4000-8000-000000000001", ev.ID)
	assert.Equal(t, "Microsoft.Storage.BlobCreated", ev.EventType)
	assert.Equal(t, "1.0", ev.DataVersion)
	assert.True(t, ev.EventTime.Equal(time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)))
	assert.JSONEq(t, `{"url": "https://example.blob.core.windows.net/docs/report.docx", "contentLength": 5120}`, string(ev.Data))
}

func TestParseEvents_Array(t *testing.T) {
	t.Parallel()

	evs, err := eventlog.ParseEvents(strings.NewReader("[" + oneEvent + "," + oneEvent + "]"))
	require.NoError(t, err)
	assert.Len(t, evs, 2)
}

func TestParseEvents_Empty(t *testing.T) {
	t.Parallel()

	evs, err := eventlog.ParseEvents(strings.NewReader("  \n"))
	assert.NoError(t, err)
	assert.Empty(t, evs)
}

func TestParseEvents_Invalid(t *testing.T) {
	t.Parallel()

	_, err := eventlog.ParseEvents(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	evs, err := eventlog.ParseEvents(strings.NewReader(oneEvent))
	require.NoError(t, err)

	rec := eventlog.NewRecord(evs[0])
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, evs[0].ID, rec.EventID)
	assert.Equal(t, evs[0].EventType, rec.EventType)
	assert.Equal(t, evs[0].Subject, rec.Subject)
	assert.Equal(t, "2024-03-05T14:07:09Z", rec.EventTime)
	assert.Equal(t, evs[0].Data, rec.Data)

	other := eventlog.NewRecord(evs[0])
	assert.NotEqual(t, rec.ID, other.ID)

	noData := eventlog.NewRecord(eventlog.Event{ID: "x"})
	assert.Equal(t, "null", string(noData.Data))
}
