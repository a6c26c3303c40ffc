package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/mohammedgidrah/testing-hotel-sub000/app"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/handlers"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/middleware"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/repositories"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/usecases"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/utils"
	"github.com/mohammedgidrah/testing-hotel-sub000/config"
	_ "github.com/mohammedgidrah/testing-hotel-sub000/docs"
	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/broker"
	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/cache"
	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/database"
	"github.com/mohammedgidrah/testing-hotel-sub000/server"
)

// @title Hotel Booking Engine API
// @version 1.0
// @description Front-desk booking engine in front of the hotel back office API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := newLogger(cfg)

	db, err := database.NewPostgresDatabase(cfg, log)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	followUpRepo := repositories.NewFollowUpRepository(db.GetDB())
	if err := followUpRepo.Migrate(context.Background()); err != nil {
		log.Fatalf("failed to migrate payment follow-ups: %v", err)
	}

	api := repositories.NewHotelAPI(cfg.HotelAPI.BaseURL, cfg.HotelAPI.Timeout, nil)
	bookingRepo := repositories.NewBookingRepository(api)
	paymentRepo := repositories.NewPaymentRepository(api)
	roomRepo := repositories.NewRoomRepository(api)
	guestRepo := repositories.NewGuestRepository(api)
	serviceRepo := repositories.NewServiceRepository(api)

	draftRepo := repositories.NewMemoryDraftRepository(cfg.Redis.DraftTTL)
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(context.Background(), cfg)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer client.Close()
		draftRepo = repositories.NewRedisDraftRepository(client, cfg.Redis.DraftTTL)
		log.WithField("addr", cfg.Redis.Addr).Info("drafts stored in redis")
	}

	var publisher usecases.RefreshPublisher
	if cfg.RabbitMQ.URL != "" {
		p, err := broker.NewRefreshPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	var notifier usecases.FollowUpNotifier
	if cfg.SMTP.Host != "" && cfg.SMTP.AccountsTo != "" {
		notifier = utils.NewMailer(cfg)
	}

	availabilityUsecase := usecases.NewAvailabilityUsecase(bookingRepo, log)
	pricing := usecases.NewPricingCalculator(cfg.Pricing.TaxRate)
	followUpUsecase := usecases.NewFollowUpUsecase(followUpRepo, paymentRepo, notifier, log)
	bookingUsecase := usecases.NewBookingUsecase(bookingRepo, paymentRepo, roomRepo, serviceRepo, availabilityUsecase, pricing, followUpUsecase, publisher, log)
	selectionUsecase := usecases.NewSelectionUsecase(draftRepo, roomRepo, guestRepo, serviceRepo, availabilityUsecase, pricing, bookingUsecase, log)

	srv := server.NewEchoServer(cfg, log)
	app.RegisterRoutes(srv.GetEcho(),
		handlers.NewSessionHandler(selectionUsecase),
		handlers.NewAvailabilityHandler(availabilityUsecase),
		handlers.NewDraftHandler(selectionUsecase, bookingUsecase),
		handlers.NewFollowUpHandler(followUpUsecase),
		middleware.SessionMiddleware([]byte(cfg.JWT.Secret), log),
	)

	go func() {
		log.WithField("port", cfg.Server.Port).Info("starting server")
		if err := srv.Start(); err != nil {
			log.WithError(err).Info("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
