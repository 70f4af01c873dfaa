package search

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/listentry"
	"github.com/Ramsey-B/aster/pkg/context"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/search"
)

const (
	defaultPerPage = 50
	maxPerPage     = 200
)

// Register registers search routes
func Register(g *echo.Group) {
	g.GET("", Search)
}

// SearchResponse is the ranked result page
type SearchResponse struct {
	Results    []models.SearchResult `json:"results"`
	TotalCount int                   `json:"total_count"`
	PerPage    int                   `json:"per_page"`
}

// Search ranks the tenant's active entries against the query. Results are
// capped at per_page; total_count reports how many matched before the cap.
func Search(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	query := search.Query{
		Text:        c.QueryParam("q"),
		ID:          c.QueryParam("id"),
		Name:        c.QueryParam("name"),
		Type:        c.QueryParam("type"),
		Nationality: c.QueryParam("nationality"),
	}

	perPage := clampPerPage(c.QueryParam("per_page"))

	ctx, repo, err := ectoinject.GetContext[*listentry.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	entries, err := repo.LoadEntries(ctx, tenantID)
	if err != nil {
		return err
	}

	ctx, index, err := ectoinject.GetContext[*search.Index](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	results := index.Search(ctx, entries, query)
	total := len(results)

	return c.JSON(http.StatusOK, SearchResponse{
		Results:    capPage(results, perPage),
		TotalCount: total,
		PerPage:    perPage,
	})
}

func clampPerPage(raw string) int {
	perPage, _ := strconv.Atoi(raw)
	if perPage < 1 {
		return defaultPerPage
	}
	if perPage > maxPerPage {
		return maxPerPage
	}
	return perPage
}

func capPage(results []models.SearchResult, perPage int) []models.SearchResult {
	if len(results) > perPage {
		return results[:perPage]
	}
	return results
}
