package screening

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

// Repository handles screening run persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new screening repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create stores a screening run and its above-threshold matches in one
// transaction
func (r *Repository) Create(ctx context.Context, screening *models.Screening, matches []*models.ScreeningMatch) (*models.Screening, error) {
	ctx, span := tracing.StartSpan(ctx, "screening.Repository.Create")
	defer span.End()

	if screening.ID == "" {
		screening.ID = uuid.New().String()
	}
	screening.CreatedAt = time.Now().UTC()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	sb := database.NewInsertBuilder()
	sb.InsertInto("screenings")
	sb.Cols("id", "tenant_id", "snapshot_id", "roster_rows", "matched_rows", "status", "created_at")
	sb.Values(screening.ID, screening.TenantID, screening.SnapshotID, screening.RosterRows, screening.MatchedRows, screening.Status, screening.CreatedAt)

	query, args := sb.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"screening_id": screening.ID}).Error("Failed to create screening")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create screening")
	}

	if len(matches) > 0 {
		mb := database.NewInsertBuilder()
		mb.InsertInto("screening_matches")
		mb.Cols("id", "screening_id", "row_index", "entry_id", "score", "components", "created_at")

		for _, m := range matches {
			if m.ID == "" {
				m.ID = uuid.New().String()
			}
			m.ScreeningID = screening.ID
			m.CreatedAt = screening.CreatedAt
			mb.Values(m.ID, m.ScreeningID, m.RowIndex, m.EntryID, m.Score, m.Components, m.CreatedAt)
		}

		query, args := mb.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"screening_id": screening.ID}).Error("Failed to create screening matches")
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create screening matches")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to commit screening")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create screening")
	}

	return screening, nil
}

// Get retrieves a screening run by ID
func (r *Repository) Get(ctx context.Context, tenantID string, id string) (*models.Screening, error) {
	ctx, span := tracing.StartSpan(ctx, "screening.Repository.Get")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "tenant_id", "snapshot_id", "roster_rows", "matched_rows", "status", "created_at")
	sb.From("screenings")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var screening models.Screening
	if err := r.db.GetContext(ctx, &screening, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("screening %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get screening")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get screening")
	}

	return &screening, nil
}

// GetMatches retrieves the stored matches of a screening run, ordered by
// roster row then descending score
func (r *Repository) GetMatches(ctx context.Context, screeningID string) ([]models.ScreeningMatch, error) {
	ctx, span := tracing.StartSpan(ctx, "screening.Repository.GetMatches")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "screening_id", "row_index", "entry_id", "score", "components", "created_at")
	sb.From("screening_matches")
	sb.Where(sb.Equal("screening_id", screeningID))
	sb.OrderBy("row_index", "score DESC")

	query, args := sb.Build()
	var matches []models.ScreeningMatch
	if err := r.db.SelectContext(ctx, &matches, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get screening matches")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get screening matches")
	}

	return matches, nil
}

// List retrieves a page of the tenant's screening runs, newest first
func (r *Repository) List(ctx context.Context, tenantID string, page int, pageSize int) (*models.ScreeningListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "screening.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}

	sb := database.NewSelectBuilder()
	sb.Select("id", "tenant_id", "snapshot_id", "roster_rows", "matched_rows", "status", "created_at")
	sb.From("screenings")
	sb.Where(sb.Equal("tenant_id", tenantID))
	sb.OrderBy("created_at DESC")
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args := sb.Build()
	var items []models.Screening
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list screenings")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list screenings")
	}

	cb := database.NewSelectBuilder()
	cb.Select("COUNT(*)")
	cb.From("screenings")
	cb.Where(cb.Equal("tenant_id", tenantID))

	query, args = cb.Build()
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count screenings")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count screenings")
	}

	return &models.ScreeningListResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
