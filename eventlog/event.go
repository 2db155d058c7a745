// Package eventlog stores event notifications as JSON documents, one record
// per event, in a table named after a collection.
package eventlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Event is an Event Grid style notification.
type Event struct {
	ID          string          `json:"id"`
	EventType   string          `json:"eventType"`
	Subject     string          `json:"subject"`
	Data        json.RawMessage `json:"data,omitempty"`
	EventTime   time.Time       `json:"eventTime"`
	DataVersion string          `json:"dataVersion,omitempty"`
	Topic       string          `json:"topic,omitempty"`
}

// Record is the document stored for an event.
type Record struct {
	ID        string          `json:"id"`
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Subject   string          `json:"subject"`
	Data      json.RawMessage `json:"data"`
	EventTime string          `json:"event_time"`
}

// ParseEvents reads a single event or a JSON array of events.
func ParseEvents(r io.Reader) ([]Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var evs []Event
		if err := json.Unmarshal(data, &evs); err != nil {
			return nil, fmt.Errorf("parse events: %w", err)
		}
		return evs, nil
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("parse event: %w", err)
	}
	return []Event{ev}, nil
}
