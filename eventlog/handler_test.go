package eventlog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/docmail/eventlog"
)

type memStore struct {
	recs []*eventlog.Record
	fail map[string]bool
}

func (m *memStore) Insert(_ context.Context, rec *eventlog.Record) error {
	if m.fail[rec.EventID] {
		return errors.New("insert failed")
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memStore) Close() error { return nil }

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_Handle(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	h := &eventlog.Handler{Store: store, Logger: quiet()}

	ok := h.Handle(context.Background(), eventlog.Event{ID: "e1", EventType: "t", Subject: "s"})
	assert.True(t, ok)

	require.Len(t, store.recs, 1)
	assert.Equal(t, "e1", store.recs[0].EventID)
	assert.Equal(t, "t", store.recs[0].EventType)
	assert.Equal(t, "s", store.recs[0].Subject)
}

func TestHandler_HandleBatch(t *testing.T) {
	t.Parallel()

	store := &memStore{fail: map[string]bool{"e2": true}}
	h := &eventlog.Handler{Store: store, Logger: quiet()}

	n := h.HandleBatch(context.Background(), []eventlog.Event{
		{ID: "e1"}, {ID: "e2"}, {ID: "e3"},
	})

	assert.Equal(t, 2, n)
	require.Len(t, store.recs, 2)
	assert.Equal(t, "e1", store.recs[0].EventID)
	assert.Equal(t, "e3", store.recs[1].EventID)
}
