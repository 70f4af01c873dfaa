// Package events handles event emission for list and screening lifecycle changes
package events

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Publisher writes one serialized event to the event stream
type Publisher interface {
	Publish(ctx context.Context, key string, payload any, headers map[string]string) error
}

// Emitter handles event emission for Aster
type Emitter struct {
	publisher Publisher
	logger    ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(publisher Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		publisher: publisher,
		logger:    logger,
	}
}

// EmitListIngested emits a list ingested event
func (e *Emitter) EmitListIngested(ctx context.Context, tenantID, snapshotID, source string, entryCount int, fingerprint string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitListIngested")
	defer span.End()

	event := ListIngestedEvent{
		BaseEvent:   NewBaseEvent(ctx, EventTypeListIngested, tenantID),
		SnapshotID:  snapshotID,
		Source:      source,
		EntryCount:  entryCount,
		Fingerprint: fingerprint,
	}

	headers := map[string]string{
		"event_type":     string(event.EventType),
		"tenant_id":      tenantID,
		"schema_version": SchemaVersion,
		"source":         source,
	}

	if err := e.publisher.Publish(ctx, snapshotID, event, headers); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit list.ingested event")
		return err
	}

	return nil
}

// EmitScreeningCompleted emits a screening completed event
func (e *Emitter) EmitScreeningCompleted(ctx context.Context, screening *models.Screening, rowCount, matchedRows int) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitScreeningCompleted")
	defer span.End()

	event := ScreeningEvent{
		BaseEvent:   NewBaseEvent(ctx, EventTypeScreeningCompleted, screening.TenantID),
		ScreeningID: screening.ID,
		SnapshotID:  screening.SnapshotID,
		RowCount:    rowCount,
		MatchedRows: matchedRows,
		Status:      screening.Status,
	}

	if err := e.publisher.Publish(ctx, screening.ID, event, e.screeningHeaders(event)); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit screening.completed event")
		return err
	}

	return nil
}

// EmitScreeningFailed emits a screening failed event
func (e *Emitter) EmitScreeningFailed(ctx context.Context, tenantID, screeningID, snapshotID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitScreeningFailed")
	defer span.End()

	event := ScreeningEvent{
		BaseEvent:   NewBaseEvent(ctx, EventTypeScreeningFailed, tenantID),
		ScreeningID: screeningID,
		SnapshotID:  snapshotID,
		Status:      models.ScreeningStatusFailed,
	}

	if err := e.publisher.Publish(ctx, screeningID, event, e.screeningHeaders(event)); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit screening.failed event")
		return err
	}

	return nil
}

func (e *Emitter) screeningHeaders(event ScreeningEvent) map[string]string {
	return map[string]string{
		"event_type":     string(event.EventType),
		"tenant_id":      event.TenantID,
		"schema_version": SchemaVersion,
		"status":         event.Status,
	}
}
