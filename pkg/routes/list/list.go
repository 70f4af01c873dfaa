package list

import (
	"io"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/listentry"
	"github.com/Ramsey-B/aster/pkg/context"
	"github.com/Ramsey-B/aster/pkg/processor"
)

// Register registers list ingestion and entry routes
func Register(g *echo.Group) {
	g.POST("/text", IngestText)
	g.POST("/xml", IngestXML)
	g.GET("/entries", ListEntries)
	g.GET("/entries/:id", GetEntry)
}

// IngestText ingests a free-text consolidated list. The body is the raw list
// text.
func IngestText(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	if len(body) == 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "list text is required")
	}

	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := proc.IngestText(ctx, tenantID, string(body))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}

// IngestXML ingests a consolidated list as a decoded XML tree
func IngestXML(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	var tree map[string]any
	if err := c.Bind(&tree); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := proc.IngestTree(ctx, tenantID, tree)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}

// ListEntries lists the tenant's active snapshot entries
func ListEntries(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, repo, err := ectoinject.GetContext[*listentry.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := repo.List(ctx, tenantID, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// GetEntry gets one entry by its list reference ID
func GetEntry(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	id := c.Param("id")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "entry id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*listentry.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	entry, err := repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entry)
}
