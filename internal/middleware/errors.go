package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// InternalErrorMessage is the only error text a client ever sees for a
// failure other than a missing record.
const InternalErrorMessage = "Error interno del servidor"

// ErrorHandler is the single recovery boundary of the API.  Every error a
// handler returns, including bind failures and recovered panics, becomes a
// 500 with a fixed body; the cause is logged and never sent to the client.
// Only the router's own "no such route" and "wrong method" keep their
// status.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := http.StatusInternalServerError, InternalErrorMessage
		switch {
		case errors.Is(err, echo.ErrNotFound):
			status, msg = http.StatusNotFound, http.StatusText(http.StatusNotFound)
		case errors.Is(err, echo.ErrMethodNotAllowed):
			status, msg = http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed)
		default:
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"error": msg})
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

// Recover turns a handler panic into an ordinary error and passes it up to
// the request logger, which hands it to ErrorHandler.
func Recover(log *zap.Logger) echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error("panic recovered",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
				zap.ByteString("stack", stack),
			)
			return err
		},
	})
}
