package listparse

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/models"
)

func TestRunContext_Names(t *testing.T) {
	rc := newRunContext()
	rc.addName("Mohammed Salem")

	assert.True(t, rc.hasName("mohammed salem"))
	assert.False(t, rc.hasName("someone else"))

	t.Run("overlap in either direction", func(t *testing.T) {
		assert.True(t, rc.hasOverlappingName("Salem"))
		assert.True(t, rc.hasOverlappingName("Mohammed Salem Al-Yamani"))
		assert.False(t, rc.hasOverlappingName("Xu Wei"))
	})
}

func TestSyntheticID(t *testing.T) {
	t.Run("person and entity prefixes", func(t *testing.T) {
		rc := newRunContext()

		personID := rc.syntheticID(models.EntryTypePerson)
		assert.True(t, strings.HasPrefix(personID, "QDi."))

		entityID := rc.syntheticID(models.EntryTypeEntity)
		assert.True(t, strings.HasPrefix(entityID, "QDe."))

		n, err := strconv.Atoi(strings.TrimPrefix(personID, "QDi."))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100)
		assert.LessOrEqual(t, n, 999)
	})

	t.Run("never collides with captured ids", func(t *testing.T) {
		rc := newRunContext()
		seen := make(map[string]struct{})
		for i := 0; i < 50; i++ {
			id := rc.syntheticID(models.EntryTypePerson)
			_, dup := seen[id]
			assert.False(t, dup)
			seen[id] = struct{}{}
			rc.addID(id)
		}
	})

	t.Run("widens beyond three digits when the space is exhausted", func(t *testing.T) {
		rc := newRunContext()
		for n := 100; n <= 999; n++ {
			rc.addID(fmt.Sprintf("QDi.%d", n))
		}

		assert.Equal(t, "QDi.1000", rc.syntheticID(models.EntryTypePerson))
	})
}
