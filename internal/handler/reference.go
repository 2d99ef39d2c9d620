package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/commartapp/commart-server/internal/model"
)

// ReferenceStore reads the seeded taxonomy tables.
type ReferenceStore interface {
	ListStyles(ctx context.Context) ([]model.Style, error)
	ListLanguages(ctx context.Context) ([]model.Language, error)
}

// ReferenceHandler serves GET /styles and GET /languages.
type ReferenceHandler struct {
	Refs ReferenceStore
}

func NewReferenceHandler(r ReferenceStore) *ReferenceHandler { return &ReferenceHandler{Refs: r} }

func (h *ReferenceHandler) Styles(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	out, err := h.Refs.ListStyles(ctx)
	if err != nil {
		return serverError(c, "reference: styles", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReferenceHandler) Languages(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	out, err := h.Refs.ListLanguages(ctx)
	if err != nil {
		return serverError(c, "reference: languages", err)
	}
	return c.JSON(http.StatusOK, out)
}
