package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hamnakhalid/kitchenia-backend/api/routes"
	cartstore "github.com/hamnakhalid/kitchenia-backend/internal/cart"
	"github.com/hamnakhalid/kitchenia-backend/internal/checkout"
	"github.com/hamnakhalid/kitchenia-backend/internal/menu"
	"github.com/hamnakhalid/kitchenia-backend/internal/orders"
	"github.com/hamnakhalid/kitchenia-backend/pkg/config"
	"github.com/hamnakhalid/kitchenia-backend/pkg/db"
	"github.com/hamnakhalid/kitchenia-backend/pkg/events"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
	"github.com/hamnakhalid/kitchenia-backend/pkg/metrics"
	"github.com/hamnakhalid/kitchenia-backend/pkg/migrate"
	"github.com/hamnakhalid/kitchenia-backend/pkg/pubsub"
	"github.com/hamnakhalid/kitchenia-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	var emitter *events.Emitter
	if cfg.EventingEnabled() {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		emitter = events.NewEmitter(psClient.OrdersPublisher(), logg)
	} else {
		logg.Info(context.Background(), "eventing disabled, order events will not be published")
	}

	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)

	menuSvc, err := menu.NewService(menu.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create menu service", err)
		os.Exit(1)
	}

	carts, err := cartstore.NewStore(redisClient, cartstore.NewBroadcaster(), cfg.Cart, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())

	checkoutSvc, err := checkout.NewService(ordersRepo, dbClient, carts, emitter, orderMetrics, logg, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(ordersRepo, dbClient, emitter, orderMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
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
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Menu:     menuSvc,
			Cart:     carts,
			Checkout: checkoutSvc,
			Orders:   ordersSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
