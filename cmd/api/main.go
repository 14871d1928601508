package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feastly-app/feastly-backend/api/routes"
	"github.com/feastly-app/feastly-backend/internal/admin"
	"github.com/feastly-app/feastly-backend/internal/auth"
	"github.com/feastly-app/feastly-backend/internal/cart"
	"github.com/feastly-app/feastly-backend/internal/checkout"
	"github.com/feastly-app/feastly-backend/internal/deliveries"
	"github.com/feastly-app/feastly-backend/internal/orders"
	"github.com/feastly-app/feastly-backend/internal/restaurants"
	"github.com/feastly-app/feastly-backend/internal/users"
	"github.com/feastly-app/feastly-backend/pkg/auth/session"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/migrate"
	"github.com/feastly-app/feastly-backend/pkg/outbox"
	"github.com/feastly-app/feastly-backend/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	restaurantRepo := restaurants.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	deliveryRepo := deliveries.NewRepository(gormDB)
	outboxSvc := outbox.NewService(outbox.NewRepository(gormDB), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	restaurantService, err := restaurants.NewService(restaurantRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create restaurant service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, restaurantRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(dbClient, cartRepo, restaurantRepo, orderRepo, deliveryRepo, outboxSvc, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, dbClient, outboxSvc, restaurantRepo, deliveries.NewReleaser(deliveryRepo))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	deliveryService, err := deliveries.NewService(deliveryRepo, dbClient, outboxSvc, orders.NewTxStore(orderRepo))
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.NewRepository(gormDB), userRepo, restaurantRepo, dbClient, outboxSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			Users:       userRepo,
			AuthService: authService,
			Register:    registerService,
			Restaurants: restaurantService,
			Cart:        cartService,
			Checkout:    checkoutService,
			Orders:      orderService,
			Deliveries:  deliveryService,
			Admin:       adminService,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		logg.Info(ctx, "shutting down api server")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
