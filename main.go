package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourbook/config"
	"tourbook/cron"
	"tourbook/database"
	tourRepo "tourbook/database/repository/tour"
	"tourbook/handlers"
	"tourbook/middleware"
	"tourbook/models"
	"tourbook/routes"
	"tourbook/services/booking"
	"tourbook/services/payment"
	"tourbook/services/provider"
	"tourbook/services/telemetry"
	"tourbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Stores: Redis in production, in-process otherwise.
	var sessionKV utils.KV
	var counterStore middleware.CounterStore
	if config.IsProduction() {
		sessionKV = &utils.RedisKV{Client: utils.GetCacheClient()}
		counterStore = &middleware.RedisCounterStore{Client: utils.GetRateClient()}
	} else {
		sessionKV = utils.NewMemoryKV()
		counterStore = middleware.NewMemoryCounterStore()
	}

	// Tour catalog: Mongo in production, seeded in-memory otherwise.
	var tours tourRepo.Repository
	if config.IsProduction() {
		database.InitDB()
		tours = tourRepo.NewMongoTourRepo(database.MongoClient, config.AppConfig.MongoDB)
	} else {
		tours = tourRepo.NewMemoryTourRepo(devCatalog())
	}

	sessionStore := utils.NewSessionStore(
		sessionKV,
		time.Duration(config.AppConfig.SessionTTLMin)*time.Minute,
		config.AppConfig.SessionSecret,
	)
	limiter := middleware.NewLimiter(counterStore)

	monitor := telemetry.NewMonitor(500, telemetry.DefaultThresholds())
	notifiers := []telemetry.Notifier{&telemetry.LogNotifier{Logger: logger}}
	if config.IsProduction() {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
		})
		defer asynqClient.Close()
		notifiers = append(notifiers, &telemetry.AsynqNotifier{Client: asynqClient, Logger: logger})
		cron.InitAlertWorker(logger)
	}
	dispatcher := telemetry.NewDispatcher(
		monitor,
		telemetry.AlertThresholds{
			ErrorRate:           config.AppConfig.AlertErrorRate,
			AvgDurationMS:       config.AppConfig.AlertAvgDurationMS,
			ConsecutiveFailures: config.AppConfig.AlertConsecutiveFailures,
		},
		time.Duration(config.AppConfig.AlertCooldownMin)*time.Minute,
		notifiers...,
	)
	monitor.AddListener(dispatcher.Evaluate)

	adapter, err := provider.NewFromConfig(tours)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize provider adapter: %v", err)
	}

	var refunds payment.RefundProcessor = &payment.LogRefundProcessor{Logger: logger}
	if config.AppConfig.StripeKey != "" {
		stripe.Key = config.AppConfig.StripeKey
		refunds = &payment.StripeRefundProcessor{}
	}

	bookingService := &booking.DefaultService{
		Tours:           tours,
		Provider:        adapter,
		Monitor:         monitor,
		Refunds:         refunds,
		ProviderTimeout: time.Duration(config.AppConfig.ProviderTimeoutMS) * time.Millisecond,
		HorizonDays:     config.AppConfig.BookingHorizonDays,
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.GlobalRateLimit())
	router.Use(middleware.Suspicion())
	router.Use(middleware.Session(sessionStore))

	handlerBundle := &routes.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(bookingService),
		Booking:      handlers.NewBookingHandler(bookingService, sessionStore),
		Session:      handlers.NewSessionHandler(sessionStore),
		Tours:        handlers.NewTourHandler(tours),
		Health:       handlers.NewHealthHandler(monitor),
		Limiter:      limiter,
		CreatePolicy: middleware.Policy{
			Window: time.Duration(config.AppConfig.RateCreateWindowSec) * time.Second,
			Max:    int64(config.AppConfig.RateCreateMax),
		},
		CancelPolicy: middleware.Policy{
			Window: time.Duration(config.AppConfig.RateCancelWindowSec) * time.Second,
			Max:    int64(config.AppConfig.RateCancelMax),
		},
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// devCatalog is the seed catalog for local development.
func devCatalog() []models.Tour {
	allDays := func(window models.DayWindow) map[string]models.DayWindow {
		weekly := make(map[string]models.DayWindow, 7)
		for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
			weekly[day] = window
		}
		return weekly
	}
	return []models.Tour{
		{
			ID:           "old-town-walk",
			Name:         "Old Town Walking Tour",
			DurationMin:  120,
			MaxGroupSize: 12,
			BasePrice:    45,
			Currency:     "EUR",
			DiscountTiers: []models.DiscountTier{
				{MinGroupSize: 4, PercentOff: 10},
				{MinGroupSize: 8, PercentOff: 15},
			},
			Weekly: allDays(models.DayWindow{Start: "09:00", End: "17:00", MaxConcurrent: 3}),
		},
		{
			ID:           "harbor-kayak",
			Name:         "Harbor Kayak Tour",
			DurationMin:  180,
			MaxGroupSize: 8,
			BasePrice:    75,
			Currency:     "EUR",
			DiscountTiers: []models.DiscountTier{
				{MinGroupSize: 4, PercentOff: 5},
			},
			Weekly: map[string]models.DayWindow{
				"saturday": {Start: "08:00", End: "14:00", MaxConcurrent: 2},
				"sunday":   {Start: "08:00", End: "14:00", MaxConcurrent: 2},
			},
		},
	}
}
