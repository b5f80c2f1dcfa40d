package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/harukimoto/trainlight/internal/billing"
	"github.com/harukimoto/trainlight/internal/config"
	"github.com/harukimoto/trainlight/internal/database"
	"github.com/harukimoto/trainlight/internal/handler"
	"github.com/harukimoto/trainlight/internal/middleware"
	"github.com/harukimoto/trainlight/internal/queue"
	"github.com/harukimoto/trainlight/internal/render"
	"github.com/harukimoto/trainlight/internal/repository"
	"github.com/harukimoto/trainlight/internal/router"
	"github.com/harukimoto/trainlight/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// rootCtx bounds every background worker: render poll loops and the
	// broker consumer stop when it is cancelled on shutdown.
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	users := repository.NewUserRepo(db)
	templates := repository.NewTemplateRepo(db)
	videos := repository.NewVideoRepo(db)
	reservations := repository.NewReservationRepo(db)
	payments := repository.NewPaymentRepo(db)
	schedules := repository.NewScheduleRepo(db)

	renderer := render.NewClient(cfg.RenderBaseURL, cfg.RenderAPIKey)
	checkout := billing.NewCheckout(cfg.StripeSecretKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL, cfg.ServicePriceJPY)
	publisher := queue.NewPublisher()

	videoSvc := service.NewVideoService(rootCtx, videos, templates, renderer, cfg.PollInterval, cfg.PollMaxAttempts)
	reservationSvc := service.NewReservationService(reservations, videos)
	paymentSvc := service.NewPaymentService(payments, reservations, videos, users, checkout, publisher)

	// A crash mid-render leaves rows processing forever; fail them before
	// taking traffic.
	if err := videoSvc.RecoverStalled(rootCtx); err != nil {
		log.Printf("stalled video recovery: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users),
		Templates:    handler.NewTemplateHandler(templates),
		Videos:       handler.NewVideoHandler(videoSvc),
		Reservations: handler.NewReservationHandler(reservationSvc),
		Payments:     handler.NewPaymentHandler(paymentSvc),
		Webhooks:     handler.NewWebhookHandler(cfg.StripeWebhookSecret, paymentSvc),
		Admin:        handler.NewAdminHandler(users, templates, reservations, payments, schedules),
	}, cfg.JWTSecret)

	// Consume confirmation events in the background; the consumer keeps
	// its own reconnect loop and never takes the server down. It exits
	// when rootCtx is cancelled on shutdown.
	go func() {
		if err := queue.StartReservationConsumer(rootCtx); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	go func() {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Println("shutting down")

	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	videoSvc.Wait()
}
