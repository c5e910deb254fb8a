package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/config"
	"github.com/hostelpad/hostel-booking/internal/database"
	"github.com/hostelpad/hostel-booking/internal/engine"
	"github.com/hostelpad/hostel-booking/internal/handler"
	"github.com/hostelpad/hostel-booking/internal/queue"
	"github.com/hostelpad/hostel-booking/internal/repository"
	"github.com/hostelpad/hostel-booking/internal/router"
	"github.com/hostelpad/hostel-booking/internal/service"
)

func main() {
	// .env is for local development; in production the environment is set
	// by the deployment.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// The notification consumer reconnects on its own; a missing broker
	// only disables notifications.
	go func() {
		if err := queue.StartConsumer(cfg.AMQPURL); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hostels := repository.NewHostelRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)

	eng := engine.New(repository.NewEngineStore(db, rooms, bookings))
	pub := service.NewPublisher(cfg.AMQPURL)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(hostels, rooms, eng)
	bookingH := handler.NewBookingHandler(eng, bookings, rooms, hostels, pub)
	adminBookingH := handler.NewAdminBookingHandler(bookingH, users)
	adminHostelH := handler.NewAdminHostelHandler(hostels)
	adminRoomH := handler.NewAdminRoomHandler(rooms, hostels)
	adminUserH := handler.NewAdminUserHandler(users)
	agentH := handler.NewAgentHandler(bookings)

	e := echo.New()
	e.HideBanner = true

	router.RegisterHealth(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, rdb)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret)
	router.RegisterAgent(e, agentH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHostelH, adminRoomH, adminBookingH, adminUserH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
