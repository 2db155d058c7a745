package eventlog_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/docmail/eventlog"
)

func testStore(t *testing.T, s *eventlog.SQLStore) {
	t.Helper()
	ctx := context.Background()

	evs, err := eventlog.ParseEvents(strings.NewReader(oneEvent))
	require.NoError(t, err)

	h := &eventlog.Handler{Store: s, Logger: quiet()}
	assert.Equal(t, 2, h.HandleBatch(ctx, append(evs, evs...)))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rec := eventlog.NewRecord(evs[0])
	require.NoError(t, s.Insert(ctx, rec))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.EventID, got.EventID)
	assert.Equal(t, rec.EventTime, got.EventTime)
	assert.JSONEq(t, string(rec.Data), string(got.Data))

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, eventlog.ErrNoRecord)

	assert.Error(t, s.Insert(ctx, rec), "duplicate record ID")
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "db", "datalog.db")
	s, err := eventlog.NewSQLiteStore(context.Background(), path, "")
	require.NoError(t, err)
	defer s.Close()

	testStore(t, s)
	assert.FileExists(t, path)
}

func TestPostgresStore(t *testing.T) {
	t.Parallel()

	dsn := os.Getenv("DOCMAIL_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DOCMAIL_TEST_POSTGRES_DSN is not set")
	}

	collection := fmt.Sprintf("log_test_%d", time.Now().UnixNano())
	s, err := eventlog.NewPostgresStore(context.Background(), dsn, collection)
	require.NoError(t, err)
	defer s.Close()

	testStore(t, s)
}

func TestOpenStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := eventlog.OpenStore(ctx, "mongo", "", "")
	assert.ErrorIs(t, err, eventlog.ErrUnknownDriver)

	_, err = eventlog.OpenStore(ctx, "sqlite3", filepath.Join(t.TempDir(), "x.db"), "log; DROP TABLE log")
	assert.ErrorIs(t, err, eventlog.ErrBadCollection)

	s, err := eventlog.OpenStore(ctx, "sqlite3", filepath.Join(t.TempDir(), "x.db"), "events")
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
