package domain

import (
	"encoding/json"
	"time"
)

// Snapshot is a serialized document together with the remote version it was
// read at or written as.
type Snapshot struct {
	DocumentID string          `json:"document_id"`
	Version    int64           `json:"version"`
	Payload    json.RawMessage `json:"payload"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Touch stamps the snapshot with the current time.
func (s *Snapshot) Touch() {
	if s == nil {
		return
	}
	s.UpdatedAt = time.Now()
}

// EncodeDocument builds a snapshot of doc.
func EncodeDocument(id string, version int64, doc *Document) (*Snapshot, error) {
	if doc == nil {
		return nil, ErrInvalidPayload
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, WrapError(ErrCodeInvalid, "encode document", err)
	}
	snap := &Snapshot{DocumentID: id, Version: version, Payload: payload}
	snap.Touch()
	return snap, nil
}

// Document decodes the snapshot payload.
func (s *Snapshot) Document() (*Document, error) {
	if s == nil || len(s.Payload) == 0 {
		return nil, ErrDocumentNotFound
	}
	var doc Document
	if err := json.Unmarshal(s.Payload, &doc); err != nil {
		return nil, WrapError(ErrCodeInvalid, "decode document", err)
	}
	return doc.Normalize(), nil
}
