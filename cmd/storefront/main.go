package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mystore/storefront/internal/address"
	"github.com/mystore/storefront/internal/admin"
	"github.com/mystore/storefront/internal/cart"
	"github.com/mystore/storefront/internal/catalog"
	"github.com/mystore/storefront/internal/config"
	"github.com/mystore/storefront/internal/db"
	storeHttp "github.com/mystore/storefront/internal/handler/http"
	"github.com/mystore/storefront/internal/order"
	"github.com/mystore/storefront/internal/user"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "storefront").Logger()

	log.Info().Msg("Storefront starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if !cfg.Payment.Configured() {
		log.Warn().Msg("Bank transfer details are not configured; order submission is disabled")
	}

	pg, err := db.New(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	catalogDB, err := db.Connect(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect catalog reader")
	}
	defer catalogDB.Close()

	catalogRepo := catalog.NewRepository(catalogDB)
	catalogSvc := catalog.NewService(catalogRepo)

	cartRepo := cart.NewRepository(pg.Pool)
	cartSvc := cart.NewService(cartRepo, catalogRepo)

	addressRepo := address.NewRepository(pg.Pool)
	addressSvc := address.NewService(addressRepo)

	orderRepo := order.NewRepository(pg.Pool)
	orderSvc := order.NewService(orderRepo, cartSvc, addressSvc, cfg.Payment)

	adminRepo := admin.NewRepository(pg.Pool)
	adminSvc := admin.NewService(adminRepo)

	userRepo := user.NewRepository(pg.Pool)
	userSvc := user.NewService(userRepo)

	router := storeHttp.NewRouter(storeHttp.Handlers{
		Users:   storeHttp.NewUserHandler(userSvc),
		Catalog: storeHttp.NewCatalogHandler(catalogSvc),
		Cart:    storeHttp.NewCartHandler(cartSvc),
		Address: storeHttp.NewAddressHandler(addressSvc),
		Orders:  storeHttp.NewOrderHandler(orderSvc),
		Admin:   storeHttp.NewAdminHandler(orderSvc, adminSvc),
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}

	log.Info().Msg("Storefront stopped gracefully")
}
