// Package routes mounts the HTTP API. Consumers hand in an echo instance and
// get the full route tree with tracing and tenant propagation applied.
package routes

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	appcontext "github.com/Ramsey-B/aster/pkg/context"
	"github.com/Ramsey-B/aster/pkg/routes/health"
	"github.com/Ramsey-B/aster/pkg/routes/list"
	"github.com/Ramsey-B/aster/pkg/routes/screening"
	"github.com/Ramsey-B/aster/pkg/routes/search"
)

// ServiceName is the tracing service name attached to HTTP spans
const ServiceName = "aster"

// TenantMiddleware copies the tenant header and request ID into the request
// context. The request ID becomes the correlation ID on any event emitted
// while handling the request.
func TenantMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if tenantID := c.Request().Header.Get("X-Tenant-Id"); tenantID != "" {
				ctx = appcontext.SetTenantID(ctx, tenantID)
			}

			requestID := c.Request().Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			ctx = appcontext.SetRequestID(ctx, requestID)

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// Register mounts the API on the echo instance
func Register(e *echo.Echo, checker *health.Checker) {
	e.Use(otelecho.Middleware(ServiceName))
	e.Use(TenantMiddleware())

	if checker != nil {
		checker.RegisterRoutes(e)
	}

	api := e.Group("/api/v1")
	list.Register(api.Group("/lists"))
	screening.Register(api.Group("/screenings"))
	search.Register(api.Group("/search"))
}
