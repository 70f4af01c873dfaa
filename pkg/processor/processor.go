// Package processor is the list ingestion layer. It turns raw list content,
// arriving over HTTP or the list-update topic, into a persisted snapshot.
package processor

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	listentryrepo "github.com/Ramsey-B/aster/internal/repositories/listentry"
	"github.com/Ramsey-B/aster/pkg/consolidated"
	"github.com/Ramsey-B/aster/pkg/events"
	"github.com/Ramsey-B/aster/pkg/fingerprint"
	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/listparse"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Processor handles list ingestion
type Processor struct {
	logger      ectologger.Logger
	parser      *listparse.Parser
	adapter     *consolidated.Adapter
	entriesRepo *listentryrepo.Repository
	emitter     *events.Emitter
}

// NewProcessor creates a new list ingestion processor
func NewProcessor(
	logger ectologger.Logger,
	parser *listparse.Parser,
	adapter *consolidated.Adapter,
	entriesRepo *listentryrepo.Repository,
	emitter *events.Emitter,
) *Processor {
	return &Processor{
		logger:      logger,
		parser:      parser,
		adapter:     adapter,
		entriesRepo: entriesRepo,
		emitter:     emitter,
	}
}

// IngestText parses free-text list content and replaces the tenant's active
// snapshot. A text that yields no entries is rejected rather than wiping the
// tenant's current snapshot.
func (p *Processor) IngestText(ctx context.Context, tenantID string, text string) (*models.IngestResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.IngestText")
	defer span.End()

	entries := p.parser.Parse(ctx, text)
	return p.store(ctx, tenantID, "text", fingerprint.Text(text), entries)
}

// IngestTree converts a decoded consolidated-list tree and replaces the
// tenant's active snapshot
func (p *Processor) IngestTree(ctx context.Context, tenantID string, tree map[string]any) (*models.IngestResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.IngestTree")
	defer span.End()

	entries := p.adapter.Convert(ctx, tree)
	return p.store(ctx, tenantID, "xml", fingerprint.Tree(tree), entries)
}

func (p *Processor) store(ctx context.Context, tenantID string, source string, contentHash string, entries []*models.Entry) (*models.IngestResponse, error) {
	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":   tenantID,
		"source":      source,
		"fingerprint": contentHash,
	})

	if len(entries) == 0 {
		log.Warn("List content yielded no entries; keeping current snapshot")
		return nil, httperror.NewHTTPError(http.StatusUnprocessableEntity, "no entries extracted from list content")
	}

	snapshotID := uuid.New().String()
	if err := p.entriesRepo.ReplaceSnapshot(ctx, tenantID, snapshotID, entries); err != nil {
		return nil, err
	}

	if err := p.emitter.EmitListIngested(ctx, tenantID, snapshotID, source, len(entries), contentHash); err != nil {
		log.WithError(err).Warn("Failed to emit list ingestion event")
	}

	log.WithFields(map[string]any{
		"snapshot_id": snapshotID,
		"entry_count": len(entries),
	}).Info("Ingested list snapshot")

	return &models.IngestResponse{
		SnapshotID: snapshotID,
		EntryCount: len(entries),
	}, nil
}

// HandleMessage processes one list update from the feed topic. It is wired as
// the Kafka consumer's handler.
func (p *Processor) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.HandleMessage")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"topic":  msg.Topic,
		"offset": msg.Offset,
	})

	if !msg.IsListUpdate() || msg.ListUpdate == nil {
		log.Warn("Skipping message that is not a list update")
		return nil
	}

	tenantID := msg.GetTenantID()
	if tenantID == "" {
		log.Warn("Skipping list update without tenant")
		return nil
	}

	var err error
	switch msg.GetSource() {
	case "xml":
		_, err = p.IngestTree(ctx, tenantID, msg.ListUpdate.Tree)
	default:
		_, err = p.IngestText(ctx, tenantID, msg.ListUpdate.Text)
	}

	return err
}
