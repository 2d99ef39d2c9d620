package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/commartapp/commart-server/internal/middleware"
	"github.com/commartapp/commart-server/internal/queue"
	"github.com/commartapp/commart-server/internal/repository"
	queue_publisher "github.com/commartapp/commart-server/internal/service"
)

// SocialStore covers the follow/favorite edge tables.
type SocialStore interface {
	ToggleFollow(ctx context.Context, artistID, followerID uint64) (bool, int64, error)
	ToggleFavorite(ctx context.Context, artistID, userID uint64) (bool, int64, error)
	Followers(ctx context.Context, artistID uint64) ([]repository.UserCard, error)
	FavoritedBy(ctx context.Context, artistID uint64) ([]repository.UserCard, error)
	FollowedArtists(ctx context.Context, userID uint64) ([]repository.UserCard, error)
	FavoriteArtists(ctx context.Context, userID uint64) ([]repository.UserCard, error)
}

// SocialHandler serves the follow/favorite toggles and their listings.
type SocialHandler struct {
	Social SocialStore
}

func NewSocialHandler(s SocialStore) *SocialHandler { return &SocialHandler{Social: s} }

// Follow toggles the follow edge from the caller to the artist and returns
// the new state plus the follower count. A fresh follow publishes the
// notification event; unfollows stay quiet.
func (h *SocialHandler) Follow(c echo.Context) error {
	uid, artistID, errResp := h.toggleArgs(c)
	if errResp != nil {
		return errResp
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	following, count, err := h.Social.ToggleFollow(ctx, artistID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Artista no encontrado."})
		}
		return serverError(c, "social: toggle follow", err)
	}

	if following {
		username, _ := c.Get(middleware.CtxUsername).(string)
		_ = queue_publisher.PublishArtistFollowed(ctx, queue.ArtistFollowedEvent{
			ArtistID:         artistID,
			FollowerID:       uid,
			FollowerUsername: username,
			FollowerCount:    count,
			FollowedAt:       time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"isFollowing": following, "followers": count})
}

// Favorite toggles the favorite edge and returns the new state plus count.
func (h *SocialHandler) Favorite(c echo.Context) error {
	uid, artistID, errResp := h.toggleArgs(c)
	if errResp != nil {
		return errResp
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	favorite, count, err := h.Social.ToggleFavorite(ctx, artistID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Artista no encontrado."})
		}
		return serverError(c, "social: toggle favorite", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"isFavorite": favorite, "favorites": count})
}

// toggleArgs extracts and validates the caller id and target artist id.
func (h *SocialHandler) toggleArgs(c echo.Context) (uid, artistID uint64, errResp error) {
	uid, ok := middleware.UserID(c)
	if !ok {
		return 0, 0, c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado."})
	}
	artistID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, 0, c.JSON(http.StatusBadRequest, echo.Map{"message": "Identificador inválido."})
	}
	if artistID == uid {
		return 0, 0, c.JSON(http.StatusBadRequest, echo.Map{"message": "No puedes seguirte a ti mismo."})
	}
	return uid, artistID, nil
}

// Followers lists the users following an artist (public, for the modal).
func (h *SocialHandler) Followers(c echo.Context) error {
	return h.artistListing(c, h.Social.Followers)
}

// FavoritedBy lists the users who favorited an artist (public).
func (h *SocialHandler) FavoritedBy(c echo.Context) error {
	return h.artistListing(c, h.Social.FavoritedBy)
}

func (h *SocialHandler) artistListing(c echo.Context, fetch func(context.Context, uint64) ([]repository.UserCard, error)) error {
	artistID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Identificador inválido."})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	cards, err := fetch(ctx, artistID)
	if err != nil {
		return serverError(c, "social: listing", err)
	}
	return c.JSON(http.StatusOK, cards)
}

// FollowedArtists lists the artists the caller follows.
func (h *SocialHandler) FollowedArtists(c echo.Context) error {
	return h.userListing(c, h.Social.FollowedArtists)
}

// FavoriteArtists lists the artists the caller favorited.
func (h *SocialHandler) FavoriteArtists(c echo.Context) error {
	return h.userListing(c, h.Social.FavoriteArtists)
}

func (h *SocialHandler) userListing(c echo.Context, fetch func(context.Context, uint64) ([]repository.UserCard, error)) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado."})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	cards, err := fetch(ctx, uid)
	if err != nil {
		return serverError(c, "social: listing", err)
	}
	return c.JSON(http.StatusOK, cards)
}
