package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campuseats-be/internal/cart"
	"campuseats-be/internal/catalog"
	"campuseats-be/internal/config"
	"campuseats-be/internal/db"
	"campuseats-be/internal/earnings"
	"campuseats-be/internal/events"
	"campuseats-be/internal/httpapi"
	"campuseats-be/internal/logger"
	"campuseats-be/internal/notification"
	"campuseats-be/internal/order"
	"campuseats-be/internal/payment"
	"campuseats-be/internal/user"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	registry := events.NewRegistry()
	hub := notification.NewHub()
	notification.RegisterOrderNotifications(registry, hub)

	gateway := payment.NewStripeGateway(
		cfg.StripeSecretKey,
		cfg.CheckoutBaseURL+"/checkout/success",
		cfg.CheckoutBaseURL+"/checkout/cancel",
	)
	refunds := payment.NewRefundService(gateway)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, cfg.JWTSecret)

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo, registry)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo)
	cart.RegisterCatalogSync(registry, cartRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartRepo, userRepo, gateway, refunds, registry, cfg.Currency)

	earningsRepo := earnings.NewRepository(database)
	earningsSvc := earnings.NewService(earningsRepo, gateway, cfg.CourierShare)

	api := httpapi.NewServer(userSvc, cartSvc, catalogSvc, orderSvc, earningsSvc, hub, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: api.Routes(),
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
