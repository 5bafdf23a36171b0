// Package repository turns table definitions into parameterized SQL and
// runs it through the database gateway.  ErrNotFound is the only error it
// produces itself; everything else is the driver's error, wrapped.
package repository

import "errors"

// ErrNotFound is returned when a lookup by code matches no row.  Handlers
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
