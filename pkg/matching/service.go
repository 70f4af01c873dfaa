package matching

import (
	"context"

	"github.com/Gobusters/ectologger"

	listentryrepo "github.com/Ramsey-B/aster/internal/repositories/listentry"
	screeningrepo "github.com/Ramsey-B/aster/internal/repositories/screening"
	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/events"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Service runs screenings: it loads the tenant's active list snapshot, scores
// the roster against it, persists the run and emits the outcome event.
type Service struct {
	log         ectologger.Logger
	engine      *Engine
	entriesRepo *listentryrepo.Repository
	runsRepo    *screeningrepo.Repository
	emitter     *events.Emitter
}

// NewService creates a new screening service
func NewService(
	log ectologger.Logger,
	engine *Engine,
	entriesRepo *listentryrepo.Repository,
	runsRepo *screeningrepo.Repository,
	emitter *events.Emitter,
) *Service {
	return &Service{
		log:         log,
		engine:      engine,
		entriesRepo: entriesRepo,
		runsRepo:    runsRepo,
		emitter:     emitter,
	}
}

// Screen scores every roster row against the tenant's active snapshot and
// stores the run. The stored screening keeps only the above-threshold matches;
// the full per-row results are returned to the caller.
func (s *Service) Screen(ctx context.Context, tenantID string, roster []map[string]any) (*models.ScreeningResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.Screen")
	defer span.End()

	log := s.log.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":   tenantID,
		"roster_rows": len(roster),
	})

	snapshotID, err := s.entriesRepo.ActiveSnapshotID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entriesRepo.LoadEntries(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	results, err := s.engine.Match(ctx, entries, roster)
	if err != nil {
		log.WithError(err).Error("Screening failed")
		if emitErr := s.emitter.EmitScreeningFailed(ctx, tenantID, "", snapshotID); emitErr != nil {
			log.WithError(emitErr).Warn("Failed to emit screening failure")
		}
		return nil, err
	}

	matchedRows := 0
	for _, result := range results {
		if result.BestMatch != nil {
			matchedRows++
		}
	}

	screening := &models.Screening{
		TenantID:    tenantID,
		SnapshotID:  snapshotID,
		RosterRows:  len(roster),
		MatchedRows: matchedRows,
		Status:      models.ScreeningStatusCompleted,
	}

	matches := buildStoredMatches(results)
	screening, err = s.runsRepo.Create(ctx, screening, matches)
	if err != nil {
		return nil, err
	}

	if err := s.emitter.EmitScreeningCompleted(ctx, screening, len(roster), matchedRows); err != nil {
		// The run is already stored; a lost event is not worth failing the request
		log.WithError(err).Warn("Failed to emit screening completion")
	}

	log.WithFields(map[string]any{
		"screening_id": screening.ID,
		"matched_rows": matchedRows,
	}).Info("Screening completed")

	return &models.ScreeningResponse{
		Screening: *screening,
		Results:   results,
	}, nil
}

// GetScreening returns a stored run with its matches
func (s *Service) GetScreening(ctx context.Context, tenantID string, id string) (*models.Screening, []models.ScreeningMatch, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.GetScreening")
	defer span.End()

	screening, err := s.runsRepo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, nil, err
	}

	matches, err := s.runsRepo.GetMatches(ctx, screening.ID)
	if err != nil {
		return nil, nil, err
	}

	return screening, matches, nil
}

// ListScreenings returns a page of the tenant's runs
func (s *Service) ListScreenings(ctx context.Context, tenantID string, page int, pageSize int) (*models.ScreeningListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.ListScreenings")
	defer span.End()

	return s.runsRepo.List(ctx, tenantID, page, pageSize)
}

// buildStoredMatches flattens per-row results into stored match rows. Rows
// keep their roster index so results can be reassembled in order.
func buildStoredMatches(results []models.MatchResult) []*models.ScreeningMatch {
	var matches []*models.ScreeningMatch
	for i, result := range results {
		for _, candidate := range result.Matches {
			components := database.NewJSONB(map[string]float64{
				"name":        candidate.NameScore,
				"dob":         candidate.DOBScore,
				"nationality": candidate.NationalityScore,
				"id":          candidate.IDScore,
				"passport":    candidate.PassportScore,
				"national_id": candidate.NationalIDScore,
			})
			matches = append(matches, &models.ScreeningMatch{
				RowIndex:   i,
				EntryID:    candidate.Entry.ID,
				Score:      candidate.Score,
				Components: components,
			})
		}
	}
	return matches
}
