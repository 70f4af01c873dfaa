package models

import (
	"time"

	"github.com/Ramsey-B/aster/pkg/database"
)

// MatchCandidate is one above-threshold entry for a roster row, with the
// per-field component scores that produced the composite score.
type MatchCandidate struct {
	Entry *Entry  `json:"entry"`
	Score float64 `json:"score"`

	NameScore        float64 `json:"name_score"`
	DOBScore         float64 `json:"dob_score"`
	NationalityScore float64 `json:"nationality_score"`
	IDScore          float64 `json:"id_score"`
	PassportScore    float64 `json:"passport_score"`
	NationalIDScore  float64 `json:"national_id_score"`
}

// MatchResult is the screening outcome for a single roster row. Matches are
// sorted descending by score; BestMatch is the top candidate or nil.
type MatchResult struct {
	RosterRow      map[string]any   `json:"roster_row"`
	Matches        []MatchCandidate `json:"matches"`
	BestMatch      *Entry           `json:"best_match"`
	BestMatchScore float64          `json:"best_match_score"`
}

// Screening is one stored screening run
// Field order matches schema: id, tenant_id, snapshot_id, roster_rows, matched_rows, status, ...
type Screening struct {
	ID          string    `json:"id" db:"id"`
	TenantID    string    `json:"tenant_id" db:"tenant_id"`
	SnapshotID  string    `json:"snapshot_id" db:"snapshot_id"`
	RosterRows  int       `json:"roster_rows" db:"roster_rows"`
	MatchedRows int       `json:"matched_rows" db:"matched_rows"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

const (
	ScreeningStatusCompleted = "completed"
	ScreeningStatusFailed    = "failed"
)

// ScreeningMatch is one stored above-threshold candidate of a screening run
type ScreeningMatch struct {
	ID          string                             `json:"id" db:"id"`
	ScreeningID string                             `json:"screening_id" db:"screening_id"`
	RowIndex    int                                `json:"row_index" db:"row_index"`
	EntryID     string                             `json:"entry_id" db:"entry_id"`
	Score       float64                            `json:"score" db:"score"`
	Components  database.JSONB[map[string]float64] `json:"components" db:"components"`
	CreatedAt   time.Time                          `json:"created_at" db:"created_at"`
}

// ScreeningRequest is the request body for running a screening
type ScreeningRequest struct {
	Roster []map[string]any `json:"roster" validate:"required,min=1"`
}

// ScreeningResponse is the stored run plus its per-row results
type ScreeningResponse struct {
	Screening Screening     `json:"screening"`
	Results   []MatchResult `json:"results"`
}

// ScreeningListResponse is the response for listing screening runs
type ScreeningListResponse struct {
	Items      []Screening `json:"items"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}
