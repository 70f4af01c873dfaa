// Package search ranks normalized entries against free-text queries with
// hard filters, for interactive lookup.
package search

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Query is one search request. Filters are hard AND gates; Text is the
// optional free-text query scored against every field.
type Query struct {
	Text        string
	ID          string
	Name        string
	Type        string
	Nationality string
}

// Field hit weights. Identifier-grade fields weigh more than free text.
const (
	idWeight          = 4
	nameWeight        = 5
	addressWeight     = 2
	listedOnWeight    = 3
	otherInfoWeight   = 1
	otherNamesWeight  = 4
	fkaWeight         = 4
	titleWeight       = 2
	designationWeight = 2
	birthWeight       = 3
	nationalityWeight = 3
	documentWeight    = 4
	reliableWeight    = 4
	unreliableWeight  = 3
)

var embeddedIDRe = regexp.MustCompile(`\b[A-Z]{2,3}\.\d+\b`)

// Index scores entries against queries
type Index struct {
	logger ectologger.Logger
}

// NewIndex creates a new Index
func NewIndex(logger ectologger.Logger) *Index {
	return &Index{logger: logger}
}

// Search applies the query's filters as hard AND gates, then ranks the
// surviving entries by weighted field hits, descending. Without a free-text
// query every filter-surviving entry comes back with a nominal score of 1.
func (ix *Index) Search(ctx context.Context, entries []*models.Entry, q Query) []models.SearchResult {
	_, span := tracing.StartSpan(ctx, "search.Index.Search")
	defer span.End()

	results := make([]models.SearchResult, 0)

	for _, entry := range entries {
		if !passesFilters(entry, q) {
			continue
		}

		if q.Text == "" {
			results = append(results, models.SearchResult{
				Entry:       entry,
				MatchScore:  1,
				MatchFields: []string{"filtered"},
			})
			continue
		}

		score, fields := scoreEntry(entry, strings.ToLower(q.Text))
		if score == 0 {
			continue
		}
		results = append(results, models.SearchResult{
			Entry:       entry,
			MatchScore:  score,
			MatchFields: fields,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	ix.logger.WithContext(ctx).WithFields(map[string]any{
		"result_count": len(results),
		"entry_count":  len(entries),
	}).Debug("Searched entry list")

	return results
}

// passesFilters applies the hard gates: case-insensitive substring on id,
// name and nationality, exact match on type.
func passesFilters(entry *models.Entry, q Query) bool {
	if q.ID != "" && !containsFold(entry.ID, q.ID) {
		return false
	}
	if q.Name != "" && !containsFold(entry.Name, q.Name) {
		return false
	}
	if q.Type != "" && string(entry.Type) != q.Type {
		return false
	}
	if q.Nationality != "" && !containsFold(entry.Nationality(), q.Nationality) {
		return false
	}
	return true
}

// scoreEntry accumulates weighted hits of the lower-cased query across the
// entry's fields, returning the score and the fields that hit.
func scoreEntry(entry *models.Entry, query string) (int, []string) {
	score := 0
	var fields []string

	hit := func(value string, weight int, field string) {
		if value != "" && strings.Contains(strings.ToLower(value), query) {
			score += weight
			fields = append(fields, field)
		}
	}
	hitList := func(values []string, weight int, field string) {
		for _, value := range values {
			if strings.Contains(strings.ToLower(value), query) {
				score += weight
				fields = append(fields, field)
				return
			}
		}
	}

	hit(entry.ID, idWeight, "id")
	hit(entry.Name, nameWeight, "name")
	hitList(entry.Address, addressWeight, "address")
	hit(entry.ListedOn, listedOnWeight, "listedOn")
	hit(trimCrossReference(entry.OtherInfo), otherInfoWeight, "otherInfo")

	switch entry.Type {
	case models.EntryTypeEntity:
		if entry.Entity != nil {
			hitList(entry.Entity.OtherNames, otherNamesWeight, "otherNames")
			hitList(entry.Entity.PreviouslyKnownAs, fkaWeight, "previouslyKnownAs")
		}
	case models.EntryTypePerson:
		if entry.Person != nil {
			hit(entry.Person.Title, titleWeight, "title")
			hit(entry.Person.Designation, designationWeight, "designation")
			hit(entry.Person.DateOfBirth, birthWeight, "dateOfBirth")
			hit(entry.Person.PlaceOfBirth, birthWeight, "placeOfBirth")
			hit(entry.Person.Nationality, nationalityWeight, "nationality")
			hit(entry.Person.PassportNo, documentWeight, "passportNo")
			hit(entry.Person.NationalID, documentWeight, "nationalId")
			hitList(entry.Person.ReliableAlias, reliableWeight, "reliableAlias")
			hitList(entry.Person.UnreliableAlias, unreliableWeight, "unreliableAlias")
		}
	}

	return score, fields
}

// trimCrossReference cuts the remarks at an embedded entry ID so a query
// never hits text that belongs to the next record, unless the surrounding
// text marks an explicit association or reference to that ID.
func trimCrossReference(otherInfo string) string {
	loc := embeddedIDRe.FindStringIndex(otherInfo)
	if loc == nil {
		return otherInfo
	}

	preceding := strings.ToLower(otherInfo[:loc[0]])
	for _, marker := range []string{"associé", "référence", "reference"} {
		if strings.Contains(preceding, marker) {
			return otherInfo
		}
	}
	return otherInfo[:loc[0]]
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
