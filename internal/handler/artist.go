package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/commartapp/commart-server/internal/config"
	"github.com/commartapp/commart-server/internal/model"
)

// ArtistStore is the read-only slice of the artist repository serving the
// public browse endpoints.
type ArtistStore interface {
	GetProfile(ctx context.Context, userID uint64, portfolioLimit int) (*model.Profile, error)
	List(ctx context.Context) ([]model.ArtistCard, error)
	ListByStyle(ctx context.Context, styleID uint64) ([]model.ArtistCard, error)
}

// PortfolioLister serves the unbounded portfolio listing, which shows
// more than the capped set embedded in the profile aggregate.
type PortfolioLister interface {
	ListByArtist(ctx context.Context, artistID uint64) ([]model.PortfolioImage, error)
}

// ArtistHandler serves the public artist profile and listing endpoints.
type ArtistHandler struct {
	Cfg       config.Config
	Artists   ArtistStore
	Portfolios PortfolioLister
}

func NewArtistHandler(cfg config.Config, a ArtistStore, p PortfolioLister) *ArtistHandler {
	return &ArtistHandler{Cfg: cfg, Artists: a, Portfolios: p}
}

// Get returns the public profile aggregate for one artist (or plain user).
func (h *ArtistHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Identificador inválido."})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	p, err := h.Artists.GetProfile(ctx, id, h.Cfg.PortfolioImages)
	if err != nil {
		return serverError(c, "artist: aggregate", err)
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Usuario no encontrado."})
	}
	return c.JSON(http.StatusOK, p)
}

// List returns the bulk artist listing.
func (h *ArtistHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	cards, err := h.Artists.List(ctx)
	if err != nil {
		return serverError(c, "artist: list", err)
	}
	return c.JSON(http.StatusOK, cards)
}

// Portfolio returns an artist's complete portfolio, newest first.
func (h *ArtistHandler) Portfolio(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Identificador inválido."})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	images, err := h.Portfolios.ListByArtist(ctx, id)
	if err != nil {
		return serverError(c, "artist: portfolio", err)
	}
	return c.JSON(http.StatusOK, images)
}

// ListByStyle returns the listing filtered to artists attached to one style.
func (h *ArtistHandler) ListByStyle(c echo.Context) error {
	styleID, err := strconv.ParseUint(c.Param("styleId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Identificador inválido."})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	cards, err := h.Artists.ListByStyle(ctx, styleID)
	if err != nil {
		return serverError(c, "artist: list by style", err)
	}
	return c.JSON(http.StatusOK, cards)
}
