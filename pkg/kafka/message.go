package kafka

import (
	"encoding/json"
	"time"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Trace context (extracted from Kafka headers)
	TraceParent string
	TraceState  string

	// Parsed content
	ListUpdate *ListUpdateMessage
}

// ListUpdateMessage is published by upstream list fetchers when a sanctions
// list source has new content. Exactly one of Text or Tree is set, matching
// the Source format.
type ListUpdateMessage struct {
	Type      string         `json:"type"` // "list.updated"
	TenantID  string         `json:"tenant_id"`
	Source    string         `json:"source"` // text, xml
	Text      string         `json:"text,omitempty"`
	Tree      map[string]any `json:"tree,omitempty"`
	FetchedAt time.Time      `json:"fetched_at,omitempty"`
}

// ParseListUpdate parses the message value as a list update
func (m *IncomingMessage) ParseListUpdate() error {
	var msg ListUpdateMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return err
	}
	m.ListUpdate = &msg
	return nil
}

// IsListUpdate reports whether the message carries a list update
func (m *IncomingMessage) IsListUpdate() bool {
	if msgType := m.Headers["type"]; msgType == "list.updated" {
		return true
	}

	var msg ListUpdateMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return false
	}
	return msg.Type == "list.updated"
}

// GetTenantID returns the tenant ID from the list update
func (m *IncomingMessage) GetTenantID() string {
	if m.ListUpdate != nil && m.ListUpdate.TenantID != "" {
		return m.ListUpdate.TenantID
	}
	// Fallback to header
	return m.Headers["tenant_id"]
}

// GetSource returns the list source format
func (m *IncomingMessage) GetSource() string {
	if m.ListUpdate != nil && m.ListUpdate.Source != "" {
		return m.ListUpdate.Source
	}
	return m.Headers["source"]
}
