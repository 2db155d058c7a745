package eventlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Store inserts records. The owner of a Store closes it.
type Store interface {
	Insert(ctx context.Context, rec *Record) error
	Close() error
}

// Handler turns events into records and inserts them into its Store.
type Handler struct {
	Store  Store
	Logger *slog.Logger
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// NewRecord builds the record stored for an event. The record gets a fresh
// time ordered ID.
func NewRecord(ev Event) *Record {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	data := ev.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}

	return &Record{
		ID:        id.String(),
		EventID:   ev.ID,
		EventType: ev.EventType,
		Subject:   ev.Subject,
		Data:      data,
		EventTime: ev.EventTime.Format(time.RFC3339Nano),
	}
}

// Handle stores one event. Failures are logged and reported as false; they
// never reach the event source.
func (h *Handler) Handle(ctx context.Context, ev Event) bool {
	log := h.logger()
	log.Info("processing event",
		"id", ev.ID,
		"type", ev.EventType,
		"subject", ev.Subject)

	rec := NewRecord(ev)
	if err := h.Store.Insert(ctx, rec); err != nil {
		log.Error("failed to store event",
			"id", ev.ID,
			"error", err)
		return false
	}

	log.Info("stored event", "id", ev.ID, "record", rec.ID)
	return true
}

// HandleBatch stores each event in turn and returns how many were stored.
func (h *Handler) HandleBatch(ctx context.Context, evs []Event) int {
	n := 0
	for _, ev := range evs {
		if h.Handle(ctx, ev) {
			n++
		}
	}
	return n
}
