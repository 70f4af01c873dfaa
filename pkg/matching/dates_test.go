package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	t.Run("day first layout", func(t *testing.T) {
		assert.Equal(t, "2020-03-15", NormalizeDate("15/03/2020"))
		assert.Equal(t, "1975-12-01", NormalizeDate("01.12.1975"))
		assert.Equal(t, "1964-06-25", NormalizeDate("25-6-1964"))
	})

	t.Run("year first layout", func(t *testing.T) {
		assert.Equal(t, "2020-03-15", NormalizeDate("2020/03/15"))
		assert.Equal(t, "1982-01-07", NormalizeDate("1982-1-7"))
	})

	t.Run("month first layout when day exceeds 12", func(t *testing.T) {
		// 03/15 cannot be day/month, so it reads as month/day
		assert.Equal(t, "2020-03-15", NormalizeDate("03/15/2020"))
	})

	t.Run("ambiguous dates prefer day first", func(t *testing.T) {
		assert.Equal(t, "2020-03-05", NormalizeDate("05/03/2020"))
	})

	t.Run("mixed separators normalize the same", func(t *testing.T) {
		assert.Equal(t, NormalizeDate("15/03/2020"), NormalizeDate("15.03.2020"))
		assert.Equal(t, NormalizeDate("15/03/2020"), NormalizeDate("15-03-2020"))
	})

	t.Run("surrounding whitespace is tolerated", func(t *testing.T) {
		assert.Equal(t, "2020-03-15", NormalizeDate("  15/03/2020 "))
	})

	t.Run("unparseable input is returned unchanged", func(t *testing.T) {
		assert.Equal(t, "circa 1960", NormalizeDate("circa 1960"))
		assert.Equal(t, "1975", NormalizeDate("1975"))
		assert.Equal(t, "", NormalizeDate(""))
		assert.Equal(t, "45/45/2020", NormalizeDate("45/45/2020"))
	})
}
