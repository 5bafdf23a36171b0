package handler // handler holds the HTTP handlers for rooms and bookings

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-api/internal/queue"
	"github.com/iliyamo/hotel-booking-api/internal/repository"
	"github.com/iliyamo/hotel-booking-api/internal/service"
)

// CodeParam is the path parameter carrying a resource code.
const CodeParam = "codigo"

// Store is the data access a Resource needs.  *repository.Table satisfies it.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, code string) (*T, error)
	Create(ctx context.Context, rec *T) error
	Update(ctx context.Context, code string, rec *T) (int64, error)
	Delete(ctx context.Context, code string) (int64, error)
	CodeOf(rec *T) string
}

// Messages are the client-facing texts of one resource.
type Messages struct {
	NotFound string
	Created  string
	Updated  string
	Deleted  string
}

// Resource exposes the five CRUD handlers for one record type.  Any error
// it returns is left to the echo error handler, which answers 500.
type Resource[T any] struct {
	name   string
	store  Store[T]
	msg    Messages
	events service.Publisher
}

// NewResource builds a Resource and panics if a dependency is missing.  A
// nil publisher means events are off.
func NewResource[T any](name string, store Store[T], msg Messages, events service.Publisher) *Resource[T] {
	if store == nil {
		panic("nil store passed to NewResource")
	}
	if events == nil {
		events = service.Nop{}
	}
	return &Resource[T]{name: name, store: store, msg: msg, events: events}
}

// List handles GET /<resource>.
func (h *Resource[T]) List(c echo.Context) error {
	items, err := h.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /<resource>/:codigo.  It is the only handler with a 404.
func (h *Resource[T]) Get(c echo.Context) error {
	rec, err := h.store.Get(c.Request().Context(), c.Param(CodeParam))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": h.msg.NotFound})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Create handles POST /<resource>.  Fields are not validated; whatever the
// store rejects becomes a 500.
func (h *Resource[T]) Create(c echo.Context) error {
	var rec T
	if err := c.Bind(&rec); err != nil {
		return fmt.Errorf("bind %s body: %w", h.name, err)
	}
	ctx := c.Request().Context()
	if err := h.store.Create(ctx, &rec); err != nil {
		return err
	}
	_ = h.events.Publish(ctx, queue.NewChangeEvent(h.name, queue.ActionCreated, h.store.CodeOf(&rec), 1))
	return c.JSON(http.StatusCreated, echo.Map{"message": h.msg.Created})
}

// Update handles PATCH /<resource>/:codigo.  An unknown code answers the
// same 200 as a real update.
func (h *Resource[T]) Update(c echo.Context) error {
	var rec T
	if err := c.Bind(&rec); err != nil {
		return fmt.Errorf("bind %s body: %w", h.name, err)
	}
	ctx, code := c.Request().Context(), c.Param(CodeParam)
	n, err := h.store.Update(ctx, code, &rec)
	if err != nil {
		return err
	}
	_ = h.events.Publish(ctx, queue.NewChangeEvent(h.name, queue.ActionUpdated, code, n))
	return c.JSON(http.StatusOK, echo.Map{"message": h.msg.Updated})
}

// Delete handles DELETE /<resource>/:codigo.  An unknown code answers the
// same 200 as a real delete.
func (h *Resource[T]) Delete(c echo.Context) error {
	ctx, code := c.Request().Context(), c.Param(CodeParam)
	n, err := h.store.Delete(ctx, code)
	if err != nil {
		return err
	}
	_ = h.events.Publish(ctx, queue.NewChangeEvent(h.name, queue.ActionDeleted, code, n))
	return c.JSON(http.StatusOK, echo.Map{"message": h.msg.Deleted})
}
