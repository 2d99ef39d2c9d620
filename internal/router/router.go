package router // package router wires the HTTP routes to their handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/commartapp/commart-server/internal/config"
	"github.com/commartapp/commart-server/internal/handler"
	"github.com/commartapp/commart-server/internal/middleware"
)

// Handlers groups everything the router needs to register the API.
type Handlers struct {
	Auth      *handler.AuthHandler
	Profile   *handler.ProfileHandler
	Artists   *handler.ArtistHandler
	Reference *handler.ReferenceHandler
	Social    *handler.SocialHandler
}

// Register sets up all routes. Layout:
//   - open routes: health, auth, public browsing (the browse group sits
//     behind the Redis response cache)
//   - protected routes: everything touching the caller's own account,
//     behind JWTAuth
//
// The rate limiter covers the whole API; uploaded images are served
// statically under /uploads.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	e.Use(middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb))

	e.GET("/healthz", handler.Health)
	e.Static("/uploads", cfg.UploadDir)

	// Session endpoints.
	e.POST("/register", h.Auth.Register)
	e.POST("/login", h.Auth.Login)
	e.POST("/forgot-password", h.Auth.ForgotPassword)
	e.POST("/reset-password", h.Auth.ResetPassword)

	// Public browsing, cached.
	browse := e.Group("")
	browse.Use(middleware.NewResponseCache(config.LoadCacheConfig(), rdb))
	browse.GET("/artist/:id", h.Artists.Get)
	browse.GET("/artist/:id/portfolio", h.Artists.Portfolio)
	browse.GET("/artists", h.Artists.List)
	browse.GET("/artists/style/:styleId", h.Artists.ListByStyle)
	browse.GET("/styles", h.Reference.Styles)
	browse.GET("/languages", h.Reference.Languages)
	browse.GET("/artists/:id/followers", h.Social.Followers)
	browse.GET("/artists/:id/favorited-by", h.Social.FavoritedBy)

	// Everything below requires a valid session token.
	auth := e.Group("")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/profile", h.Profile.Get)
	auth.PUT("/profile", h.Profile.Update)
	auth.DELETE("/profile", h.Profile.Delete)
	auth.DELETE("/portfolio/:imageId", h.Profile.DeletePortfolioImage)
	auth.POST("/artists/:id/follow", h.Social.Follow)
	auth.POST("/artists/:id/favorite", h.Social.Favorite)
	auth.GET("/user/followed-artists", h.Social.FollowedArtists)
	auth.GET("/user/favorite-artists", h.Social.FavoriteArtists)
}
