package listentry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// insertChunkSize bounds the parameter count of a single batch insert
const insertChunkSize = 500

// Repository handles list entry persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new list entry repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ReplaceSnapshot atomically swaps the tenant's active entries for a new
// snapshot. The previous snapshot's rows are deleted in the same transaction,
// so readers never observe a mix of two snapshots.
func (r *Repository) ReplaceSnapshot(ctx context.Context, tenantID string, snapshotID string, entries []*models.Entry) error {
	ctx, span := tracing.StartSpan(ctx, "listentry.Repository.ReplaceSnapshot")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	db := database.NewDeleteBuilder()
	db.DeleteFrom("list_entries")
	db.Where(db.Equal("tenant_id", tenantID))
	query, args := db.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"tenant_id": tenantID,
		}).Error("Failed to delete previous snapshot entries")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace list snapshot")
	}

	now := time.Now().UTC()
	for start := 0; start < len(entries); start += insertChunkSize {
		end := min(start+insertChunkSize, len(entries))

		sb := database.NewInsertBuilder()
		sb.InsertInto("list_entries")
		sb.Cols("id", "tenant_id", "snapshot_id", "entry_id", "entry_type", "name", "nationality", "attributes", "created_at")

		for _, entry := range entries[start:end] {
			attributes := database.NewJSONB(*entry)
			sb.Values(uuid.New().String(), tenantID, snapshotID, entry.ID, string(entry.Type), entry.Name, entry.Nationality(), attributes, now)
		}

		query, args := sb.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"tenant_id":   tenantID,
				"snapshot_id": snapshotID,
			}).Error("Failed to insert snapshot entries")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace list snapshot")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to commit snapshot replacement")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace list snapshot")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":   tenantID,
		"snapshot_id": snapshotID,
		"entry_count": len(entries),
	}).Debug("Replaced list snapshot")

	return nil
}

// ActiveSnapshotID returns the snapshot ID of the tenant's current entries
func (r *Repository) ActiveSnapshotID(ctx context.Context, tenantID string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "listentry.Repository.ActiveSnapshotID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("snapshot_id")
	sb.From("list_entries")
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.Limit(1)

	query, args := sb.Build()
	var snapshotID string
	if err := r.db.GetContext(ctx, &snapshotID, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return "", httperror.NewHTTPError(http.StatusNotFound, "no list snapshot ingested for tenant")
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get active snapshot")
		return "", httperror.NewHTTPError(http.StatusInternalServerError, "failed to get active snapshot")
	}

	return snapshotID, nil
}

// LoadEntries decodes every entry of the tenant's active snapshot
func (r *Repository) LoadEntries(ctx context.Context, tenantID string) ([]*models.Entry, error) {
	ctx, span := tracing.StartSpan(ctx, "listentry.Repository.LoadEntries")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("attributes")
	sb.From("list_entries")
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("created_at", "entry_id")

	query, args := sb.Build()
	var rows []database.JSONB[models.Entry]
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to load list entries")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to load list entries")
	}

	entries := make([]*models.Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, &rows[i].Data)
	}

	return entries, nil
}

// Get retrieves one persisted entry by its list reference ID
func (r *Repository) Get(ctx context.Context, tenantID string, entryID string) (*models.ListEntry, error) {
	ctx, span := tracing.StartSpan(ctx, "listentry.Repository.Get")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "tenant_id", "snapshot_id", "entry_id", "entry_type", "name", "nationality", "attributes", "created_at")
	sb.From("list_entries")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("entry_id", entryID),
	)

	query, args := sb.Build()
	var row models.ListEntry
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("list entry %s not found", entryID))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get list entry")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get list entry")
	}

	return &row, nil
}

// List retrieves a page of the tenant's entries
func (r *Repository) List(ctx context.Context, tenantID string, page int, pageSize int) (*models.ListEntryListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "listentry.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}

	sb := database.NewSelectBuilder()
	sb.Select("id", "tenant_id", "snapshot_id", "entry_id", "entry_type", "name", "nationality", "attributes", "created_at")
	sb.From("list_entries")
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("entry_id")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args := sb.Build()
	var items []models.ListEntry
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list entries")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list entries")
	}

	total, err := r.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &models.ListEntryListResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Count returns the number of entries in the tenant's active snapshot
func (r *Repository) Count(ctx context.Context, tenantID string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "listentry.Repository.Count")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("list_entries")
	sb.Where(sb.Equal("tenant_id", tenantID))

	query, args := sb.Build()
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count list entries")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count list entries")
	}

	return count, nil
}
