// File: pulsefit/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulsefit/config"
	"pulsefit/database"
	"pulsefit/database/repository"
	"pulsefit/handlers"
	"pulsefit/middleware"
	"pulsefit/routes"
	"pulsefit/services/booking"
	"pulsefit/services/capacity"
	"pulsefit/services/catalog"
	"pulsefit/services/feedback"
	"pulsefit/services/identity"
	"pulsefit/services/user"
	"pulsefit/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.AppConfig.JWTSecret == "" && config.AppConfig.AuthProvider != "firebase" {
		logger.Fatal("main: JWT_SECRET must be set")
	}

	ctx := context.Background()

	// document store.
	store, err := buildStore(ctx)
	if err != nil {
		logger.Fatal("main: failed to initialize document store", zap.Error(err))
	}

	// redis: auth cache is optional, the lock client is required when LOCK_DRIVER=redis.
	if err := utils.InitAuthCache(); err != nil {
		logger.Warn("main: auth cache unavailable, verifying every token", zap.Error(err))
	}
	locker, err := buildLocker()
	if err != nil {
		logger.Fatal("main: failed to initialize capacity locker", zap.Error(err))
	}

	tokens := utils.NewTokenIssuer(config.AppConfig.JWTSecret, config.TokenTTL())
	resolver, err := buildIdentity(ctx, tokens, store)
	if err != nil {
		logger.Fatal("main: failed to initialize identity resolver", zap.Error(err))
	}

	// services.
	userService := user.NewUserService(store, tokens)
	catalogService := catalog.NewCatalogService(store)
	bookingService := booking.NewBookingService(store, locker)
	feedbackService := feedback.NewFeedbackService(store.Feedback)

	authHandler := handlers.NewAuthHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Identity:         resolver,
		InternalAPIToken: config.AppConfig.InternalAPIToken,

		// Auth endpoints.
		RegisterUserHandler:     authHandler.RegisterUserHandler,
		AuthenticateUserHandler: authHandler.AuthenticateUserHandler,
		CurrentUserHandler:      authHandler.CurrentUserHandler,

		// Catalog endpoints.
		CreateStudioHandler:      catalogHandler.CreateStudio,
		CreateClassHandler:       catalogHandler.CreateClass,
		ListStudioClassesHandler: catalogHandler.ListStudioClasses,
		GetClassHandler:          catalogHandler.GetClass,

		// Booking endpoints.
		CreateBookingHandler:       bookingHandler.CreateBooking,
		CreateManualBookingHandler: bookingHandler.CreateManualBooking,
		ListBookingsHandler:        bookingHandler.ListBookings,
		GetBookingHandler:          bookingHandler.GetBooking,
		UpdateBookingStatusHandler: bookingHandler.UpdateBookingStatus,
		CancelBookingHandler:       bookingHandler.CancelBooking,
		ConfirmPaymentHandler:      bookingHandler.ConfirmPayment,

		// Feedback endpoints.
		SubmitFeedbackHandler: feedbackHandler.SubmitFeedback,
		ListFeedbackHandler:   feedbackHandler.ListFeedback,

		HealthHandler: handlers.HealthHandler(store.Ping, utils.RedisClients),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: failed to close document store: %v", err)
	}
	for _, client := range utils.RedisClients() {
		_ = client.Close()
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

func buildStore(ctx context.Context) (*repository.Store, error) {
	switch config.AppConfig.StoreDriver {
	case "memory":
		utils.GetLogger().Warn("main: using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), nil
	case "firestore":
		app, err := utils.FirebaseInit(ctx)
		if err != nil {
			return nil, err
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firestore: %w", err)
		}
		return repository.WithResilience(repository.NewFirestoreStore(client)), nil
	case "mongo", "":
		if err := database.InitDB(); err != nil {
			return nil, err
		}
		db := database.Database()
		if err := repository.EnsureIndexes(db); err != nil {
			return nil, err
		}
		return repository.WithResilience(repository.NewMongoStore(db)), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", config.AppConfig.StoreDriver)
	}
}

func buildLocker() (capacity.Locker, error) {
	switch config.AppConfig.LockDriver {
	case "redis":
		if err := utils.InitLockClient(); err != nil {
			return nil, err
		}
		return capacity.NewRedisLocker(utils.LockClient), nil
	case "local", "":
		return capacity.NewLocalLocker(), nil
	default:
		return nil, fmt.Errorf("unknown LOCK_DRIVER %q", config.AppConfig.LockDriver)
	}
}

func buildIdentity(ctx context.Context, tokens *utils.TokenIssuer, store *repository.Store) (identity.Resolver, error) {
	switch config.AppConfig.AuthProvider {
	case "firebase":
		app, err := utils.FirebaseInit(ctx)
		if err != nil {
			return nil, err
		}
		authClient, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase auth: %w", err)
		}
		return identity.NewFirebaseResolver(authClient, store.Users), nil
	case "jwt", "":
		return identity.NewJWTResolver(tokens, store.Users, utils.AuthCacheClient), nil
	default:
		return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", config.AppConfig.AuthProvider)
	}
}
