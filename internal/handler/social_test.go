package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commartapp/commart-server/internal/middleware"
	"github.com/commartapp/commart-server/internal/repository"
)

// fakeSocial simulates the edge tables in memory so the toggle contract
// (flip state, return post-flip count) can be exercised end to end.
type fakeSocial struct {
	follows   map[uint64]bool // follower ids of artist 2
	favorites map[uint64]bool
}

func newFakeSocial() *fakeSocial {
	return &fakeSocial{follows: map[uint64]bool{}, favorites: map[uint64]bool{}}
}

func (f *fakeSocial) ToggleFollow(_ context.Context, artistID, followerID uint64) (bool, int64, error) {
	if f.follows[followerID] {
		delete(f.follows, followerID)
	} else {
		f.follows[followerID] = true
	}
	return f.follows[followerID], int64(len(f.follows)), nil
}

func (f *fakeSocial) ToggleFavorite(_ context.Context, artistID, userID uint64) (bool, int64, error) {
	if f.favorites[userID] {
		delete(f.favorites, userID)
	} else {
		f.favorites[userID] = true
	}
	return f.favorites[userID], int64(len(f.favorites)), nil
}

func (f *fakeSocial) Followers(context.Context, uint64) ([]repository.UserCard, error) {
	return []repository.UserCard{}, nil
}
func (f *fakeSocial) FavoritedBy(context.Context, uint64) ([]repository.UserCard, error) {
	return []repository.UserCard{}, nil
}
func (f *fakeSocial) FollowedArtists(context.Context, uint64) ([]repository.UserCard, error) {
	return []repository.UserCard{}, nil
}
func (f *fakeSocial) FavoriteArtists(context.Context, uint64) ([]repository.UserCard, error) {
	return []repository.UserCard{}, nil
}

func followRequest(t *testing.T, h *SocialHandler, callerID uint64, artistParam string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(artistParam)
	if callerID != 0 {
		c.Set(middleware.CtxUserID, callerID)
	}
	require.NoError(t, h.Follow(c))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

// Following then unfollowing must return the count to its starting value
// and the state to false.
func TestFollowToggleRoundTrip(t *testing.T) {
	h := NewSocialHandler(newFakeSocial())

	rec, resp := followRequest(t, h, 1, "2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["isFollowing"])
	assert.Equal(t, float64(1), resp["followers"])

	rec, resp = followRequest(t, h, 1, "2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp["isFollowing"])
	assert.Equal(t, float64(0), resp["followers"])
}

func TestFollowRequiresAuth(t *testing.T) {
	h := NewSocialHandler(newFakeSocial())
	rec, _ := followRequest(t, h, 0, "2")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFollowSelfRejected(t *testing.T) {
	h := NewSocialHandler(newFakeSocial())
	rec, resp := followRequest(t, h, 2, "2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No puedes seguirte a ti mismo.", resp["message"])
}

func TestFavoriteToggle(t *testing.T) {
	h := NewSocialHandler(newFakeSocial())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2")
	c.Set(middleware.CtxUserID, uint64(5))
	require.NoError(t, h.Favorite(c))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["isFavorite"])
	assert.Equal(t, float64(1), resp["favorites"])
}
