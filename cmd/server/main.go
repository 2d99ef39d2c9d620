package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/commartapp/commart-server/internal/config"
	"github.com/commartapp/commart-server/internal/database"
	"github.com/commartapp/commart-server/internal/handler"
	"github.com/commartapp/commart-server/internal/queue"
	"github.com/commartapp/commart-server/internal/repository"
	"github.com/commartapp/commart-server/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	artists := repository.NewArtistRepo(db)
	refs := repository.NewReferenceRepo(db)
	social := repository.NewSocialRepo(db)
	portfolio := repository.NewPortfolioRepo(db)
	resets := repository.NewResetTokenRepo(db)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, resets),
		Profile:   handler.NewProfileHandler(cfg, users, artists, portfolio),
		Artists:   handler.NewArtistHandler(cfg, artists, portfolio),
		Reference: handler.NewReferenceHandler(refs),
		Social:    handler.NewSocialHandler(social),
	}

	// Notification consumer runs for the lifetime of the process and
	// reconnects on its own; a missing broker never blocks startup.
	go queue.StartNotificationConsumer()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, rdb, h)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
