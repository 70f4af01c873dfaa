package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcontext "github.com/Ramsey-B/aster/pkg/context"
	"github.com/Ramsey-B/aster/pkg/models"
)

type capturedEvent struct {
	key     string
	payload any
	headers map[string]string
}

type fakePublisher struct {
	published []capturedEvent
}

func (f *fakePublisher) Publish(_ context.Context, key string, payload any, headers map[string]string) error {
	f.published = append(f.published, capturedEvent{key: key, payload: payload, headers: headers})
	return nil
}

func newTestEmitter() (*Emitter, *fakePublisher) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	publisher := &fakePublisher{}
	return NewEmitter(publisher, logger), publisher
}

func TestEmitListIngested(t *testing.T) {
	emitter, publisher := newTestEmitter()

	err := emitter.EmitListIngested(context.Background(), "tenant-1", "snap-1", "text", 42, "abc123")
	require.NoError(t, err)
	require.Len(t, publisher.published, 1)

	published := publisher.published[0]
	assert.Equal(t, "snap-1", published.key)
	assert.Equal(t, SchemaVersion, published.headers["schema_version"])
	assert.Equal(t, "list.ingested", published.headers["event_type"])
	assert.Equal(t, "text", published.headers["source"])

	event, ok := published.payload.(ListIngestedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeListIngested, event.EventType)
	assert.Equal(t, SchemaVersion, event.SchemaVersion)
	assert.Equal(t, "tenant-1", event.TenantID)
	assert.Equal(t, 42, event.EntryCount)
	assert.NotEmpty(t, event.CorrelationID)
	assert.False(t, event.Timestamp.IsZero())

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schema_version":"1.0"`)
}

func TestEmitScreeningCompleted(t *testing.T) {
	emitter, publisher := newTestEmitter()

	screening := &models.Screening{
		ID:         "run-1",
		TenantID:   "tenant-1",
		SnapshotID: "snap-1",
		Status:     models.ScreeningStatusCompleted,
	}

	err := emitter.EmitScreeningCompleted(context.Background(), screening, 10, 3)
	require.NoError(t, err)
	require.Len(t, publisher.published, 1)

	published := publisher.published[0]
	assert.Equal(t, "run-1", published.key)
	assert.Equal(t, "screening.completed", published.headers["event_type"])
	assert.Equal(t, SchemaVersion, published.headers["schema_version"])
	assert.Equal(t, "completed", published.headers["status"])

	event, ok := published.payload.(ScreeningEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeScreeningCompleted, event.EventType)
	assert.Equal(t, 10, event.RowCount)
	assert.Equal(t, 3, event.MatchedRows)
}

func TestEmitScreeningFailed(t *testing.T) {
	emitter, publisher := newTestEmitter()

	err := emitter.EmitScreeningFailed(context.Background(), "tenant-1", "", "snap-1")
	require.NoError(t, err)
	require.Len(t, publisher.published, 1)

	event, ok := publisher.published[0].payload.(ScreeningEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeScreeningFailed, event.EventType)
	assert.Equal(t, models.ScreeningStatusFailed, event.Status)
}

func TestNewBaseEvent_UsesRequestIDAsCorrelation(t *testing.T) {
	ctx := appcontext.SetRequestID(context.Background(), "req-777")

	base := NewBaseEvent(ctx, EventTypeListIngested, "tenant-1")
	assert.Equal(t, "req-777", base.CorrelationID)

	base = NewBaseEvent(context.Background(), EventTypeListIngested, "tenant-1")
	assert.NotEmpty(t, base.CorrelationID)
	assert.NotEqual(t, "req-777", base.CorrelationID)
}
