package matching

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/models"
)

func newTestEngine(config EngineConfig) *Engine {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewEngine(logger, config)
}

func personEntry(id, name string) *models.Entry {
	return models.NewPersonEntry(id, name)
}

func TestMatch_NilRosterIsRejected(t *testing.T) {
	engine := newTestEngine(DefaultConfig())

	_, err := engine.Match(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestMatch_EmptyRosterYieldsNoResults(t *testing.T) {
	engine := newTestEngine(DefaultConfig())

	results, err := engine.Match(context.Background(), []*models.Entry{personEntry("QDi.001", "Test Person")}, []map[string]any{})
	require.NoError(t, err)
	assert.Len(t, results, 0)
}

func TestMatch_RowsWithoutNameAreDropped(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	entries := []*models.Entry{personEntry("QDi.001", "Mohammed Salem")}

	roster := []map[string]any{
		{"name": "Mohammed Salem"},
		{"dob": "1975-01-01"},
		{"name": ""},
	}

	results, err := engine.Match(context.Background(), entries, roster)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Mohammed Salem", results[0].RosterRow["name"])
}

func TestMatch_ResultsFollowRosterOrder(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	entries := []*models.Entry{
		personEntry("QDi.001", "Alpha Person"),
		personEntry("QDi.002", "Beta Person"),
	}

	roster := []map[string]any{
		{"name": "Beta Person"},
		{"name": "Alpha Person"},
		{"name": "Gamma Person"},
	}

	results, err := engine.Match(context.Background(), entries, roster)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Beta Person", results[0].RosterRow["name"])
	assert.Equal(t, "Alpha Person", results[1].RosterRow["name"])
	assert.Equal(t, "Gamma Person", results[2].RosterRow["name"])
}

func TestMatch_ExactNameScoresOne(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	entries := []*models.Entry{personEntry("QDi.001", "Usama Bin Ladin")}

	results, err := engine.Match(context.Background(), entries, []map[string]any{{"name": "usama bin ladin"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Matches, 1)
	assert.Equal(t, 1.0, results[0].Matches[0].NameScore)
	assert.Equal(t, "QDi.001", results[0].BestMatch.ID)
	assert.Equal(t, 1.0, results[0].BestMatchScore)
}

func TestMatch_ThresholdIsStrict(t *testing.T) {
	engine := newTestEngine(DefaultConfig())

	// "abc" vs "abd" share one of two bigrams each: Dice is exactly 0.5,
	// which must not pass a strictly-greater-than threshold.
	entries := []*models.Entry{personEntry("QDi.001", "abd")}

	results, err := engine.Match(context.Background(), entries, []map[string]any{{"name": "abc"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Matches, 0)
	assert.Nil(t, results[0].BestMatch)
}

func TestMatch_AliasCanOutscoreName(t *testing.T) {
	engine := newTestEngine(DefaultConfig())

	entry := personEntry("QDi.001", "Completely Different")
	entry.Person.ReliableAlias = []string{"Abu Hafs"}
	entries := []*models.Entry{entry}

	results, err := engine.Match(context.Background(), entries, []map[string]any{{"name": "Abu Hafs"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Matches, 1)
	assert.Equal(t, 1.0, results[0].Matches[0].NameScore)
}

func TestMatch_CompositeScoreAddsFieldBonuses(t *testing.T) {
	engine := newTestEngine(DefaultConfig())

	entry := personEntry("QDi.042", "Mohammed Salem")
	entry.Person.DateOfBirth = "15/03/1970"
	entry.Person.Nationality = "Yemeni"
	entry.Person.PassportNo = "A1234567"
	entries := []*models.Entry{entry}

	row := map[string]any{
		"name":        "Mohammed Salem",
		"dob":         "1970-03-15",
		"nationality": "Yemeni",
		"id":          "QDi.042",
		"passport":    "A1234567",
	}

	results, err := engine.Match(context.Background(), entries, []map[string]any{row})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Matches, 1)

	match := results[0].Matches[0]
	assert.Equal(t, 1.0, match.NameScore)
	assert.Equal(t, 0.2, match.DOBScore)
	assert.InDelta(t, 0.1, match.NationalityScore, 1e-9)
	assert.Equal(t, 0.3, match.IDScore)
	assert.InDelta(t, 0.2, match.PassportScore, 1e-9)
	assert.InDelta(t, 1.8, match.Score, 1e-9)
}

func TestMatch_RosterColumnVariantsAreProbed(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	entries := []*models.Entry{personEntry("QDi.001", "Mohammed Salem")}

	roster := []map[string]any{
		{"FULL_NAME": "Mohammed Salem"},
		{"FullName": "Mohammed Salem"},
		{"NAME": "Mohammed Salem"},
	}

	results, err := engine.Match(context.Background(), entries, roster)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, result := range results {
		assert.Equal(t, 1.0, result.BestMatchScore)
	}
}

func TestMatch_CandidatesSortedAndCapped(t *testing.T) {
	config := DefaultConfig()
	config.MaxCandidates = 2
	engine := newTestEngine(config)

	entries := []*models.Entry{
		personEntry("QDi.001", "Mohammed Salim"),
		personEntry("QDi.002", "Mohammed Salem"),
		personEntry("QDi.003", "Mohammed Salam"),
	}

	results, err := engine.Match(context.Background(), entries, []map[string]any{{"name": "Mohammed Salem"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Matches, 2)
	assert.Equal(t, "QDi.002", results[0].Matches[0].Entry.ID)
	assert.GreaterOrEqual(t, results[0].Matches[0].Score, results[0].Matches[1].Score)
}

func TestMatch_CancelledContext(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	entries := []*models.Entry{personEntry("QDi.001", "Test Person")}

	roster := make([]map[string]any, 1000)
	for i := range roster {
		roster[i] = map[string]any{"name": "Test Person"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Match(ctx, entries, roster)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatch_NamesAreNormalizedBeforeScoring(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	entries := []*models.Entry{personEntry("QDi.001", "Abd al-Rahman Muhammad")}

	roster := []map[string]any{
		{"name": "ABD AL RAHMAN, MUHAMMAD"},
	}

	results, err := engine.Match(context.Background(), entries, roster)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Matches, 1)
	assert.Equal(t, 1.0, results[0].Matches[0].NameScore)
}

func TestMatch_DocumentNumbersAreNormalizedBeforeScoring(t *testing.T) {
	engine := newTestEngine(DefaultConfig())

	entry := personEntry("QDi.001", "Mohammed Salem")
	entry.Person.PassportNo = "A1234567"

	roster := []map[string]any{
		{"name": "Mohammed Salem", "passport": "a 1234-567"},
	}

	results, err := engine.Match(context.Background(), []*models.Entry{entry}, roster)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Matches, 1)
	assert.InDelta(t, passportWeight, results[0].Matches[0].PassportScore, 1e-9)
}

func TestNewEngine_ZeroConfigDefaultsThreshold(t *testing.T) {
	engine := newTestEngine(EngineConfig{})
	entries := []*models.Entry{personEntry("QDi.001", "abd")}

	// Similarity of abc/abd is exactly 0.5 and must not pass the default
	// strict threshold.
	results, err := engine.Match(context.Background(), entries, []map[string]any{{"name": "abc"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Matches, 0)
}

func TestMatch_ConfigurableNameAlgorithm(t *testing.T) {
	t.Run("jaro winkler", func(t *testing.T) {
		config := DefaultConfig()
		config.NameAlgorithm = "jaro_winkler"
		engine := newTestEngine(config)

		entries := []*models.Entry{personEntry("QDi.001", "martha")}
		results, err := engine.Match(context.Background(), entries, []map[string]any{{"name": "marhta"}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Len(t, results[0].Matches, 1)
		assert.InDelta(t, 0.9611, results[0].Matches[0].NameScore, 0.001)
	})

	t.Run("phonetic", func(t *testing.T) {
		config := DefaultConfig()
		config.NameAlgorithm = "phonetic"
		engine := newTestEngine(config)

		entries := []*models.Entry{personEntry("QDi.001", "Robert")}
		results, err := engine.Match(context.Background(), entries, []map[string]any{{"name": "Rupert"}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Len(t, results[0].Matches, 1)
		assert.Equal(t, 1.0, results[0].Matches[0].NameScore)
	})
}
