package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/aster/pkg/models"
)

func TestClampPerPage(t *testing.T) {
	assert.Equal(t, defaultPerPage, clampPerPage(""))
	assert.Equal(t, defaultPerPage, clampPerPage("0"))
	assert.Equal(t, defaultPerPage, clampPerPage("-5"))
	assert.Equal(t, defaultPerPage, clampPerPage("abc"))
	assert.Equal(t, 25, clampPerPage("25"))
	assert.Equal(t, maxPerPage, clampPerPage("9999"))
}

func TestCapPage(t *testing.T) {
	results := make([]models.SearchResult, 10)

	assert.Len(t, capPage(results, 3), 3)
	assert.Len(t, capPage(results, 10), 10)
	assert.Len(t, capPage(results, 50), 10)
}
