package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/cache"
	"github.com/oudercomite/ledenportaal/internal/config"
	"github.com/oudercomite/ledenportaal/internal/database"
	"github.com/oudercomite/ledenportaal/internal/handler"
	"github.com/oudercomite/ledenportaal/internal/middleware"
	"github.com/oudercomite/ledenportaal/internal/queue"
	"github.com/oudercomite/ledenportaal/internal/repository"
	"github.com/oudercomite/ledenportaal/internal/router"
	"github.com/oudercomite/ledenportaal/internal/service"
	"github.com/oudercomite/ledenportaal/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	inval := cache.NewInvalidator(rdb, cacheCfg.Prefix)

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	teams := repository.NewTeamRepo(db)
	events := repository.NewEventRepo(db)
	shifts := repository.NewShiftRepo(db)
	signups := repository.NewSignupRepo(db)
	news := repository.NewNewsRepo(db)
	sponsors := repository.NewSponsorRepo(db)
	pages := repository.NewPageRepo(db)
	werkgroepen := repository.NewWerkgroepRepo(db)
	vault := repository.NewVaultRepo(db)

	// Services.
	signupSvc := service.NewSignupService(shifts, signups)
	vaultSvc := service.NewVaultService(vault)

	objectStore := storage.NewObjectStore(config.LoadStorageConfig())

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Events:    handler.NewEventHandler(events, inval),
		Shifts:    handler.NewShiftHandler(shifts, events, inval),
		Signups:   handler.NewSignupHandler(signupSvc, shifts, signups, events, users, inval),
		News:      handler.NewNewsHandler(news, inval),
		Sponsors:  handler.NewSponsorHandler(sponsors, inval),
		Pages:     handler.NewPageHandler(pages, inval),
		Vault:     handler.NewVaultHandler(vaultSvc, vault, inval),
		Werkgroep: handler.NewWerkgroepHandler(werkgroepen, users, inval),
		Users:     handler.NewUserHandler(cfg, users, teams, inval),
		Uploads:   handler.NewUploadHandler(objectStore),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.ResponseCache(cacheCfg, rdb))

	router.Register(e, h, cfg.JWTSecret)

	// Background consumers keep their own reconnect loops.
	go func() {
		if err := queue.StartSignupConsumer(); err != nil {
			log.Printf("signup consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := queue.StartMagicLinkConsumer(); err != nil {
			log.Printf("magic link consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
