package search

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/models"
)

func newTestIndex() *Index {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewIndex(logger)
}

func testEntries() []*models.Entry {
	person := models.NewPersonEntry("QDi.001", "Mohammed Salem")
	person.Person.Nationality = "Yemeni"
	person.Person.PassportNo = "A1234567"
	person.Person.ReliableAlias = []string{"Abu Hafs"}
	person.Address = []string{"Sanaa, Yemen"}

	entity := models.NewEntityEntry("QDe.010", "Al-Haramain Foundation")
	entity.Entity.OtherNames = []string{"Haramain Islamic Foundation"}
	entity.Address = []string{"Karachi, Pakistan"}

	return []*models.Entry{person, entity}
}

func TestSearch_EmptyQueryReturnsAllWithNominalScore(t *testing.T) {
	ix := newTestIndex()

	results := ix.Search(context.Background(), testEntries(), Query{})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, 1, r.MatchScore)
		assert.Equal(t, []string{"filtered"}, r.MatchFields)
	}
}

func TestSearch_FiltersAreHardGates(t *testing.T) {
	ix := newTestIndex()
	entries := testEntries()

	t.Run("type filter", func(t *testing.T) {
		results := ix.Search(context.Background(), entries, Query{Type: "entity"})
		require.Len(t, results, 1)
		assert.Equal(t, "QDe.010", results[0].Entry.ID)
	})

	t.Run("id filter is a case insensitive substring", func(t *testing.T) {
		results := ix.Search(context.Background(), entries, Query{ID: "qdi"})
		require.Len(t, results, 1)
		assert.Equal(t, "QDi.001", results[0].Entry.ID)
	})

	t.Run("nationality filter excludes entities", func(t *testing.T) {
		results := ix.Search(context.Background(), entries, Query{Nationality: "yemeni"})
		require.Len(t, results, 1)
		assert.Equal(t, "QDi.001", results[0].Entry.ID)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		results := ix.Search(context.Background(), entries, Query{Type: "person", Name: "haramain"})
		assert.Len(t, results, 0)
	})
}

func TestSearch_TextScoring(t *testing.T) {
	ix := newTestIndex()
	entries := testEntries()

	t.Run("name hits weigh more than address hits", func(t *testing.T) {
		results := ix.Search(context.Background(), entries, Query{Text: "haramain"})
		require.Len(t, results, 1)
		assert.Equal(t, "QDe.010", results[0].Entry.ID)
		assert.Contains(t, results[0].MatchFields, "name")
		assert.Contains(t, results[0].MatchFields, "otherNames")
		assert.Equal(t, 9, results[0].MatchScore)
	})

	t.Run("alias hits", func(t *testing.T) {
		results := ix.Search(context.Background(), entries, Query{Text: "abu hafs"})
		require.Len(t, results, 1)
		assert.Equal(t, []string{"reliableAlias"}, results[0].MatchFields)
		assert.Equal(t, 4, results[0].MatchScore)
	})

	t.Run("passport hits", func(t *testing.T) {
		results := ix.Search(context.Background(), entries, Query{Text: "a1234567"})
		require.Len(t, results, 1)
		assert.Contains(t, results[0].MatchFields, "passportNo")
	})

	t.Run("no hits yields no results", func(t *testing.T) {
		results := ix.Search(context.Background(), entries, Query{Text: "zzzz"})
		assert.Len(t, results, 0)
	})

	t.Run("results sorted by score descending", func(t *testing.T) {
		results := ix.Search(context.Background(), entries, Query{Text: "a"})
		require.Len(t, results, 2)
		assert.GreaterOrEqual(t, results[0].MatchScore, results[1].MatchScore)
	})
}

func TestSearch_CrossReferenceIsNotSearchable(t *testing.T) {
	ix := newTestIndex()

	entry := models.NewPersonEntry("QDi.001", "Person One")
	entry.OtherInfo = "Wanted by authorities QDe.055 stale tail"

	results := ix.Search(context.Background(), []*models.Entry{entry}, Query{Text: "stale tail"})
	assert.Len(t, results, 0)

	results = ix.Search(context.Background(), []*models.Entry{entry}, Query{Text: "wanted"})
	assert.Len(t, results, 1)
}

func TestSearch_ExplicitReferenceStaysSearchable(t *testing.T) {
	ix := newTestIndex()

	entry := models.NewPersonEntry("QDi.001", "Person One")
	entry.OtherInfo = "Linked by reference QDe.055 to a listed foundation"

	results := ix.Search(context.Background(), []*models.Entry{entry}, Query{Text: "foundation"})
	require.Len(t, results, 1)
	assert.Equal(t, []string{"otherInfo"}, results[0].MatchFields)
}

func TestTrimCrossReference(t *testing.T) {
	assert.Equal(t, "plain remarks", trimCrossReference("plain remarks"))
	assert.Equal(t, "cut before ", trimCrossReference("cut before QDe.055 tail"))
	assert.Equal(t, "associé à QDe.055 tail", trimCrossReference("associé à QDe.055 tail"))
}
