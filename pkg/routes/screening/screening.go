package screening

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/pkg/context"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
)

var validate = validator.New()

// Register registers screening routes
func Register(g *echo.Group) {
	g.POST("", RunScreening)
	g.GET("", ListScreenings)
	g.GET("/:id", GetScreening)
}

// RunScreening screens a roster against the tenant's active list snapshot
func RunScreening(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	var req models.ScreeningRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*matching.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := svc.Screen(ctx, tenantID, req.Roster)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}

// GetScreening gets a stored screening run with its matches
func GetScreening(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	id := c.Param("id")
	if id == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "screening id is required")
	}

	ctx, svc, err := ectoinject.GetContext[*matching.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	screening, matches, err := svc.GetScreening(ctx, tenantID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"screening": screening,
		"matches":   matches,
	})
}

// ListScreenings lists the tenant's screening runs
func ListScreenings(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, svc, err := ectoinject.GetContext[*matching.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := svc.ListScreenings(ctx, tenantID, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
