// Package matching implements roster screening against normalized list entries
package matching

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/extractor"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/normalizers"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Component weights of the composite score. Name similarity contributes its
// raw [0,1] value; the rest are bonuses on top of it.
const (
	dobWeight         = 0.2
	nationalityWeight = 0.1
	idWeight          = 0.3
	passportWeight    = 0.2
	nationalIDWeight  = 0.2
)

// Roster columns arrive under unpredictable spellings; every known variant
// is probed in order per field.
var (
	nameKeys        = []string{"name", "Name", "NAME", "full_name", "FULL_NAME", "fullName", "FullName"}
	dobKeys         = []string{"dob", "DOB", "date_of_birth", "dateOfBirth", "DATE_OF_BIRTH", "birth_date", "birthDate"}
	nationalityKeys = []string{"nationality", "Nationality", "NATIONALITY"}
	idKeys          = []string{"id", "ID", "Id", "identifier", "Identifier"}
	passportKeys    = []string{"passport", "Passport", "PASSPORT", "passport_no", "passportNo", "passport_number"}
	nationalIDKeys  = []string{"national_id", "nationalId", "NationalID", "NATIONAL_ID", "nationalID"}
)

// Engine scores roster rows against a normalized entry list
type Engine struct {
	logger         ectologger.Logger
	scorer         *Scorer
	extractor      *extractor.Extractor
	nameSimilarity func(a, b string) float64
	config         EngineConfig
}

// EngineConfig contains configuration for the screening engine
type EngineConfig struct {
	MinMatchScore float64 // Candidates must score strictly above this (default: 0.5)
	MaxCandidates int     // Maximum candidates to keep per roster row (default: 100)
	Workers       int     // Concurrent row scorers (default: NumCPU)
	NameAlgorithm string  // dice, jaro_winkler, levenshtein or phonetic (default: dice)
}

// DefaultConfig returns default engine configuration
func DefaultConfig() EngineConfig {
	return EngineConfig{
		MinMatchScore: 0.5,
		MaxCandidates: 100,
		Workers:       runtime.NumCPU(),
		NameAlgorithm: "dice",
	}
}

// NewEngine creates a new screening engine
func NewEngine(logger ectologger.Logger, config EngineConfig) *Engine {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = 100
	}
	if config.MinMatchScore <= 0 {
		config.MinMatchScore = 0.5
	}

	scorer := NewScorer()
	nameSimilarity := scorer.Similarity
	switch config.NameAlgorithm {
	case "jaro_winkler":
		nameSimilarity = scorer.JaroWinkler
	case "levenshtein":
		nameSimilarity = scorer.Levenshtein
	case "phonetic":
		nameSimilarity = scorer.SoundexMatch
	}

	return &Engine{
		logger:         logger,
		scorer:         scorer,
		extractor:      extractor.New(),
		nameSimilarity: nameSimilarity,
		config:         config,
	}
}

// Match screens every roster row against the entry list and returns one
// MatchResult per row that carried a usable name, in roster input order.
// Rows without a name are dropped silently. Scoring fans out across a worker
// pool; each (row, entry) comparison is independent.
func (e *Engine) Match(ctx context.Context, entries []*models.Entry, roster []map[string]any) ([]models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.Match")
	defer span.End()

	if roster == nil {
		return nil, fmt.Errorf("roster must not be nil")
	}

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"roster_rows": len(roster),
		"entry_count": len(entries),
	})
	log.Debug("Screening roster against entry list")

	// Slot per row so workers never reorder results
	slots := make([]*models.MatchResult, len(roster))

	indexes := make(chan int)
	var wg sync.WaitGroup

	workers := e.config.Workers
	if workers > len(roster) {
		workers = len(roster)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				slots[i] = e.scoreRow(roster[i], entries)
			}
		}()
	}

	var cancelled error
feed:
	for i := range roster {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}

	results := make([]models.MatchResult, 0, len(roster))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}

	log.WithFields(map[string]any{"result_count": len(results)}).Debug("Screening complete")

	return results, nil
}

// scoreRow scores one roster row against every entry. Returns nil when the
// row has no usable name.
func (e *Engine) scoreRow(row map[string]any, entries []*models.Entry) *models.MatchResult {
	name := normalizers.Apply(e.extractor.FirstString(row, nameKeys...), "nname")
	if name == "" {
		return nil
	}

	dob := e.extractor.FirstString(row, dobKeys...)
	nationality := normalizers.Apply(e.extractor.FirstString(row, nationalityKeys...), "nnationality")
	rowID := normalizers.Apply(e.extractor.FirstString(row, idKeys...), "nid")
	passport := normalizers.Apply(e.extractor.FirstString(row, passportKeys...), "nid")
	nationalID := normalizers.Apply(e.extractor.FirstString(row, nationalIDKeys...), "nid")

	var candidates []models.MatchCandidate
	for _, entry := range entries {
		candidate := e.scorePair(name, dob, nationality, rowID, passport, nationalID, entry)
		if candidate.Score > e.config.MinMatchScore {
			candidates = append(candidates, candidate)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > e.config.MaxCandidates {
		candidates = candidates[:e.config.MaxCandidates]
	}

	result := &models.MatchResult{
		RosterRow: row,
		Matches:   candidates,
	}
	if len(candidates) > 0 {
		result.BestMatch = candidates[0].Entry
		result.BestMatchScore = candidates[0].Score
	}
	return result
}

// scorePair computes the composite score of one (row, entry) pair. Row fields
// arrive already normalized; entry fields are normalized here before each
// comparison. Missing fields on either side contribute zero; this never fails.
func (e *Engine) scorePair(name, dob, nationality, rowID, passport, nationalID string, entry *models.Entry) models.MatchCandidate {
	candidate := models.MatchCandidate{Entry: entry}

	nameScore := e.nameSimilarity(name, normalizers.Apply(entry.Name, "nname"))
	for _, alias := range entry.Aliases() {
		if aliasScore := e.nameSimilarity(name, normalizers.Apply(alias, "nname")); aliasScore > nameScore {
			nameScore = aliasScore
		}
	}
	candidate.NameScore = nameScore

	if dob != "" && entry.Person != nil && entry.Person.DateOfBirth != "" {
		if NormalizeDate(dob) == NormalizeDate(entry.Person.DateOfBirth) {
			candidate.DOBScore = dobWeight
		}
	}

	if nationality != "" && entry.Nationality() != "" {
		candidate.NationalityScore = e.scorer.Similarity(nationality, normalizers.Apply(entry.Nationality(), "nnationality")) * nationalityWeight
	}

	if rowID != "" && strings.Contains(normalizers.Apply(entry.ID, "nid"), rowID) {
		candidate.IDScore = idWeight
	}

	if passport != "" && entry.Person != nil && entry.Person.PassportNo != "" {
		candidate.PassportScore = e.scorer.Similarity(passport, normalizers.Apply(entry.Person.PassportNo, "nid")) * passportWeight
	}

	if nationalID != "" && entry.Person != nil && entry.Person.NationalID != "" {
		candidate.NationalIDScore = e.scorer.Similarity(nationalID, normalizers.Apply(entry.Person.NationalID, "nid")) * nationalIDWeight
	}

	candidate.Score = candidate.NameScore + candidate.DOBScore + candidate.NationalityScore +
		candidate.IDScore + candidate.PassportScore + candidate.NationalIDScore

	return candidate
}
