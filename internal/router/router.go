package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-api/internal/handler"
)

// CRUD is the handler set behind one resource path.  *handler.Resource
// satisfies it for any record type.
type CRUD interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
}

// RegisterRoutes registers the health check and both hotel resources.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, rooms, bookings CRUD) {
	// Load balancers and monitoring hit this one.
	e.GET("/healthz", handler.Health(db))

	RegisterResource(e, "/rooms", rooms)
	RegisterResource(e, "/bookings", bookings)
}

// RegisterResource maps the five CRUD routes of a resource under path.
// The record code travels in the :codigo path parameter.
func RegisterResource(e *echo.Echo, path string, h CRUD) {
	item := path + "/:" + handler.CodeParam

	e.GET(path, h.List)
	e.GET(item, h.Get)
	e.POST(path, h.Create)
	e.PATCH(item, h.Update)
	e.DELETE(item, h.Delete)
}
