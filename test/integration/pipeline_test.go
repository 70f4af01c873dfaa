package integration

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/consolidated"
	"github.com/Ramsey-B/aster/pkg/listparse"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/search"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

const sampleList = `QDi.001 Name: Mohammed Salem Title: Sheikh ` +
	`Date of birth: 15/03/1970 Place of birth: Sanaa, Yemen ` +
	`Good quality a.k.a.: Abu Hafs Low quality a.k.a.: Al-Muhandis ` +
	`Nationality: Yemeni Passport no: A1234567 ` +
	`Address: Sanaa, Yemen Listed on: 25 Oct. 2010 ` +
	`QDe.010 Name: Al-Haramain Foundation A.k.a.: Haramain Islamic Foundation ` +
	`Address: Karachi, Pakistan Listed on: 26 Jan. 2004`

func TestTextToScreeningPipeline(t *testing.T) {
	logger := testLogger()
	parser := listparse.NewParser(logger, listparse.DefaultConfig())
	engine := matching.NewEngine(logger, matching.DefaultConfig())

	entries := parser.Parse(context.Background(), sampleList)
	require.Len(t, entries, 2)

	t.Run("CleanRosterHasNoMatches", func(t *testing.T) {
		roster := []map[string]any{
			{"name": "Jane Doe", "dob": "1990-01-01"},
		}

		results, err := engine.Match(context.Background(), entries, roster)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Len(t, results[0].Matches, 0)
		assert.Nil(t, results[0].BestMatch)
	})

	t.Run("ListedPersonIsFlagged", func(t *testing.T) {
		roster := []map[string]any{
			{"name": "Jane Doe"},
			{"name": "Mohamed Salem", "dob": "1970-03-15", "nationality": "Yemeni"},
		}

		results, err := engine.Match(context.Background(), entries, roster)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Nil(t, results[0].BestMatch)
		require.NotNil(t, results[1].BestMatch)
		assert.Equal(t, "QDi.001", results[1].BestMatch.ID)
		assert.Greater(t, results[1].BestMatchScore, 1.0)
	})

	t.Run("AliasOnlyRosterRowIsFlagged", func(t *testing.T) {
		roster := []map[string]any{
			{"name": "Abu Hafs"},
		}

		results, err := engine.Match(context.Background(), entries, roster)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NotNil(t, results[0].BestMatch)
		assert.Equal(t, "QDi.001", results[0].BestMatch.ID)
	})
}

func TestTextToSearchPipeline(t *testing.T) {
	logger := testLogger()
	parser := listparse.NewParser(logger, listparse.DefaultConfig())
	index := search.NewIndex(logger)

	entries := parser.Parse(context.Background(), sampleList)
	require.Len(t, entries, 2)

	t.Run("FreeTextQuery", func(t *testing.T) {
		results := index.Search(context.Background(), entries, search.Query{Text: "haramain"})
		require.Len(t, results, 1)
		assert.Equal(t, "QDe.010", results[0].Entry.ID)
	})

	t.Run("TypeFilterWithText", func(t *testing.T) {
		results := index.Search(context.Background(), entries, search.Query{Type: "person", Text: "yemen"})
		require.Len(t, results, 1)
		assert.Equal(t, "QDi.001", results[0].Entry.ID)
	})
}

func TestTreeToScreeningPipeline(t *testing.T) {
	logger := testLogger()
	adapter := consolidated.NewAdapter(logger)
	engine := matching.NewEngine(logger, matching.DefaultConfig())

	tree := map[string]any{
		"CONSOLIDATED_LIST": map[string]any{
			"INDIVIDUALS": map[string]any{
				"INDIVIDUAL": map[string]any{
					"REFERENCE_NUMBER": "QDi.200",
					"FIRST_NAME":       "Ahmed",
					"SECOND_NAME":      "Ben Ali",
					"NATIONALITY":      map[string]any{"VALUE": "Tunisian"},
					"INDIVIDUAL_DATE_OF_BIRTH": map[string]any{
						"DATE": "12/08/1968",
					},
				},
			},
		},
	}

	entries := adapter.Convert(context.Background(), tree)
	require.Len(t, entries, 1)

	roster := []map[string]any{
		{"name": "Ahmed Ben Ali", "dob": "1968-08-12"},
	}

	results, err := engine.Match(context.Background(), entries, roster)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].BestMatch)
	assert.Equal(t, "QDi.200", results[0].BestMatch.ID)
	assert.InDelta(t, 1.2, results[0].BestMatchScore, 1e-9)
}
