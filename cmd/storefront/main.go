package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"

	cartapp "github.com/springbooks/storefront/internal/cart/app"
	cartredis "github.com/springbooks/storefront/internal/cart/infra/redis"
	catalogapp "github.com/springbooks/storefront/internal/catalog/app"
	"github.com/springbooks/storefront/internal/catalog/infra/bookapi"
	checkoutapp "github.com/springbooks/storefront/internal/checkout/app"
	"github.com/springbooks/storefront/internal/checkout/infra/adapter"
	"github.com/springbooks/storefront/internal/checkout/infra/orderapi"
	"github.com/springbooks/storefront/internal/httpapi"
	"github.com/springbooks/storefront/pkg/config"
	"github.com/springbooks/storefront/pkg/logger"
	"github.com/springbooks/storefront/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	rdb := goredis.NewClient(&goredis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	defer rdb.Close()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("redis unreachable", slog.Any("err", err), slog.String("addr", cfg.RedisAddr))
		os.Exit(1)
	}

	// Cart
	cartStore := cartredis.NewStore(rdb)
	cartSvc := cartapp.NewService(cartStore, log)

	// Catalog
	catalogSvc := catalogapp.NewService(bookapi.NewClient(cfg.CatalogBaseURL, 10*time.Second))

	// Checkout
	orderClient := orderapi.NewClient(cfg.OrderBaseURL, cfg.OrderTimeout)
	checkoutSvc := checkoutapp.NewService(adapter.NewCartServiceGateway(cartSvc), orderClient, log)

	api := httpapi.NewServer(cartSvc, checkoutSvc, catalogSvc, httpapi.NewAuthenticator(cfg.JWTSecret), log)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
