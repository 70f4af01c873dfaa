package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	appcontext "github.com/Ramsey-B/aster/pkg/context"
)

// EventType defines the type of event
type EventType string

const (
	// List events
	EventTypeListIngested EventType = "list.ingested"

	// Screening events
	EventTypeScreeningCompleted EventType = "screening.completed"
	EventTypeScreeningFailed    EventType = "screening.failed"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType     EventType `json:"event_type"`
	SchemaVersion string    `json:"schema_version"`
	TenantID      string    `json:"tenant_id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// ListIngestedEvent is emitted when a list snapshot replaces the tenant's
// active entries
type ListIngestedEvent struct {
	BaseEvent
	SnapshotID  string `json:"snapshot_id"`
	Source      string `json:"source"` // text, xml
	EntryCount  int    `json:"entry_count"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// ScreeningEvent is emitted when a screening run completes or fails
type ScreeningEvent struct {
	BaseEvent
	ScreeningID string `json:"screening_id"`
	SnapshotID  string `json:"snapshot_id"`
	RowCount    int    `json:"row_count"`
	MatchedRows int    `json:"matched_rows"`
	Status      string `json:"status"`
}

// NewBaseEvent creates a base event with common fields. The correlation ID is
// taken from the request context when present so downstream consumers can tie
// the event back to the originating request.
func NewBaseEvent(ctx context.Context, eventType EventType, tenantID string) BaseEvent {
	correlationID := appcontext.GetRequestID(ctx)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	return BaseEvent{
		EventType:     eventType,
		SchemaVersion: SchemaVersion,
		TenantID:      tenantID,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
	}
}
