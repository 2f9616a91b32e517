package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/expofair/stall-reservation/internal/clock"
	"github.com/expofair/stall-reservation/internal/config"
	"github.com/expofair/stall-reservation/internal/database"
	"github.com/expofair/stall-reservation/internal/handler"
	"github.com/expofair/stall-reservation/internal/middleware"
	"github.com/expofair/stall-reservation/internal/queue"
	"github.com/expofair/stall-reservation/internal/repository"
	"github.com/expofair/stall-reservation/internal/router"
	"github.com/expofair/stall-reservation/internal/service"
	"github.com/expofair/stall-reservation/migrations"
)

func main() {
	// .env is a dev convenience; production sets real env vars.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrations.Apply(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrations: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}

	store := repository.NewStore(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	reservations := service.NewReservationService(store, clock.NewSystem(), queue.NewNotifier())
	availability := service.NewAvailabilityService(store)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	reservationH := handler.NewReservationHandler(reservations)
	employeeH := handler.NewEmployeeReservationHandler(reservations)
	availabilityH := handler.NewAvailabilityHandler(availability)

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	respCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, rateLimit)
	router.RegisterPublic(e, availabilityH, respCache)
	router.RegisterReservations(e, reservationH, availabilityH, cfg.JWTSecret, rateLimit)
	router.RegisterEmployee(e, employeeH, cfg.JWTSecret)

	// Confirmation consumer runs in-process; it reconnects on its own and
	// only ever logs, so a broker outage cannot take bookings down.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
