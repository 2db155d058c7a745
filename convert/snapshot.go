package convert

import (
	"bytes"
	"fmt"
	"io"

	"github.com/zostay/docmail/message"
	"github.com/zostay/docmail/message/walk"
)

// Snapshot is the content of a message with the headers left out: the
// decoded HTML body and the decoded image payloads by Content-id.
type Snapshot struct {
	HTML       string
	ContentIDs []string
	Images     map[string][]byte
}

// ReadSnapshot parses a message and decodes its HTML and inline parts.
func ReadSnapshot(msg []byte) (*Snapshot, error) {
	m, err := message.Parse(bytes.NewReader(msg), message.DecodeTransferEncoding())
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	snap := &Snapshot{Images: map[string][]byte{}}
	for _, part := range walk.Leaves(m) {
		var data []byte
		if r := part.GetReader(); r != nil {
			data, err = io.ReadAll(r)
			if err != nil {
				return nil, err
			}
		}

		h := part.GetHeader()
		if mt, _ := h.GetMediaType(); mt == "text/html" && snap.HTML == "" {
			snap.HTML = string(data)
			continue
		}

		if cid, err := h.GetContentID(); err == nil {
			snap.ContentIDs = append(snap.ContentIDs, cid)
			snap.Images[cid] = data
		}
	}

	return snap, nil
}
