package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDice(t *testing.T) {
	s := NewScorer()

	t.Run("identical strings score 1", func(t *testing.T) {
		assert.Equal(t, 1.0, s.Dice("mohammed", "mohammed"))
	})

	t.Run("disjoint strings score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, s.Dice("abcd", "wxyz"))
	})

	t.Run("known value for night vs nacht", func(t *testing.T) {
		// Bigrams ni,ig,gh,ht vs na,ac,ch,ht share only "ht"
		assert.InDelta(t, 0.25, s.Dice("night", "nacht"), 1e-9)
	})

	t.Run("spaces are stripped before comparison", func(t *testing.T) {
		assert.Equal(t, 1.0, s.Dice("abu bakr", "abubakr"))
	})

	t.Run("strings shorter than two characters score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, s.Dice("a", "abc"))
		assert.Equal(t, 0.0, s.Dice("abc", "b"))
	})

	t.Run("result stays within bounds", func(t *testing.T) {
		pairs := [][2]string{
			{"usama bin ladin", "osama bin laden"},
			{"al-qaida", "al qaeda"},
			{"x", ""},
		}
		for _, pair := range pairs {
			score := s.Dice(pair[0], pair[1])
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})
}

func TestSimilarity(t *testing.T) {
	s := NewScorer()

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, 1.0, s.Similarity("MOHAMMED SALEM", "mohammed salem"))
	})

	t.Run("close spellings score high", func(t *testing.T) {
		assert.Greater(t, s.Similarity("Usama Bin Ladin", "Osama Bin Laden"), 0.5)
	})

	t.Run("unrelated names score low", func(t *testing.T) {
		assert.Less(t, s.Similarity("John Smith", "Xu Wei"), 0.3)
	})
}

func TestExactMatch(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 1.0, s.ExactMatch("Abc", "abc", false))
	assert.Equal(t, 0.0, s.ExactMatch("Abc", "abc", true))
	assert.Equal(t, 1.0, s.ExactMatch("abc", "abc", true))
}

func TestJaroWinkler(t *testing.T) {
	s := NewScorer()

	t.Run("identical strings score 1", func(t *testing.T) {
		assert.Equal(t, 1.0, s.JaroWinkler("martha", "martha"))
	})

	t.Run("martha vs marhta", func(t *testing.T) {
		assert.InDelta(t, 0.9611, s.JaroWinkler("martha", "marhta"), 0.001)
	})

	t.Run("no similarity scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, s.Jaro("abc", "xyz"))
	})
}

func TestLevenshtein(t *testing.T) {
	s := NewScorer()

	t.Run("distance", func(t *testing.T) {
		assert.Equal(t, 0, s.LevenshteinDistance("kitten", "kitten"))
		assert.Equal(t, 3, s.LevenshteinDistance("kitten", "sitting"))
		assert.Equal(t, 5, s.LevenshteinDistance("", "hello"))
	})

	t.Run("similarity", func(t *testing.T) {
		assert.Equal(t, 1.0, s.Levenshtein("", ""))
		assert.InDelta(t, 1.0-3.0/7.0, s.Levenshtein("kitten", "sitting"), 1e-9)
	})
}

func TestSoundex(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, "R163", s.Soundex("Robert"))
	assert.Equal(t, "R163", s.Soundex("Rupert"))
	assert.Equal(t, "T522", s.Soundex("Tymczak"))
	assert.Equal(t, "", s.Soundex(""))

	assert.Equal(t, 1.0, s.SoundexMatch("Robert", "Rupert"))
	assert.Equal(t, 0.0, s.SoundexMatch("Robert", "Smith"))
}
