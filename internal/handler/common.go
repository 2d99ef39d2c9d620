package handler

// common.go holds the helpers shared by every handler file: the
// per-request DB timeout and the uniform 500 response. Raw errors are
// logged server-side only; the client always receives the same generic
// message.

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const dbTimeout = 5 * time.Second

// reqContext derives a bounded context for database calls from the request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// serverError logs the real error and answers with the generic message.
func serverError(c echo.Context, op string, err error) error {
	log.Printf("%s: %v", op, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error en el servidor."})
}
