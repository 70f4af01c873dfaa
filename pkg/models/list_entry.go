package models

import (
	"time"

	"github.com/Ramsey-B/aster/pkg/database"
)

// ListEntry is one persisted sanctions-list entry within a snapshot
// Field order matches schema: id, tenant_id, snapshot_id, entry_id, entry_type, ...
type ListEntry struct {
	ID          string                `json:"id" db:"id"`
	TenantID    string                `json:"tenant_id" db:"tenant_id"`
	SnapshotID  string                `json:"snapshot_id" db:"snapshot_id"`
	EntryID     string                `json:"entry_id" db:"entry_id"`
	EntryType   string                `json:"entry_type" db:"entry_type"`
	Name        string                `json:"name" db:"name"`
	Nationality string                `json:"nationality" db:"nationality"`
	Attributes  database.JSONB[Entry] `json:"attributes" db:"attributes"`
	CreatedAt   time.Time             `json:"created_at" db:"created_at"`
}

// IngestResponse reports the outcome of a list ingestion
type IngestResponse struct {
	SnapshotID string `json:"snapshot_id"`
	EntryCount int    `json:"entry_count"`
}

// ListEntryListResponse is the response for listing persisted entries
type ListEntryListResponse struct {
	Items      []ListEntry `json:"items"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

// SearchResult is an entry plus the transient relevance fields attached by search
type SearchResult struct {
	Entry       *Entry   `json:"entry"`
	MatchScore  int      `json:"match_score"`
	MatchFields []string `json:"match_fields"`
}
