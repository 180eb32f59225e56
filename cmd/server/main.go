package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/ludohall/table-booking/internal/booking"
	"github.com/ludohall/table-booking/internal/config"
	"github.com/ludohall/table-booking/internal/database"
	"github.com/ludohall/table-booking/internal/handler"
	"github.com/ludohall/table-booking/internal/middleware"
	"github.com/ludohall/table-booking/internal/queue"
	"github.com/ludohall/table-booking/internal/repository"
	"github.com/ludohall/table-booking/internal/router"
	"github.com/ludohall/table-booking/internal/service"
)

func main() {
	// A missing .env is fine in production where variables come from the
	// process environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and the response cache. A nil client
	// disables both instead of failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response caching disabled")
	}

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	venues := repository.NewVenueRepo(db)
	tables := repository.NewTableRepo(db)
	games := repository.NewGameRepo(db)
	settings := repository.NewSettingsRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Reservation engine with its infrastructure adapters.
	cacheCfg := config.LoadCacheConfig()
	inv := service.NewCacheInvalidator(rdb, cacheCfg.Prefix)
	store := repository.NewBookingStore(settings, tables, games, bookings)
	engine := booking.NewEngine(store, service.NewPublisher(), inv)

	// Handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	venueH := handler.NewVenueHandler(venues)
	tableH := handler.NewTableHandler(venues, tables)
	gameH := handler.NewGameHandler(venues, games)
	settingsH := handler.NewSettingsHandler(venues, settings)
	bookingH := handler.NewBookingHandler(venues, bookings, engine, inv)
	timelineH := handler.NewTimelineHandler(venues, engine)
	publicH := handler.NewPublicHandler(venues, tables, games, settings, bookings, engine, inv)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(cacheCfg, rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterStaff(e, cfg.JWTSecret, venueH, tableH, gameH, settingsH, bookingH, timelineH)
	router.RegisterPublic(e, publicH)

	// Background consumer that writes booking confirmations to the log
	// file; it reconnects on its own and never stops the server.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
