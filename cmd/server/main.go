package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolia-commerce/cargo-gateway/internal/api"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/service"
	"github.com/anatolia-commerce/cargo-gateway/internal/infrastructure/carrier/yurtici"
	"github.com/anatolia-commerce/cargo-gateway/internal/infrastructure/config"
	mongodb "github.com/anatolia-commerce/cargo-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/anatolia-commerce/cargo-gateway/internal/infrastructure/db/redis"
	"github.com/anatolia-commerce/cargo-gateway/internal/infrastructure/queue"
	"github.com/anatolia-commerce/cargo-gateway/pkg/logger"
)

// @title        Cargo Gateway API
// @version      1.0
// @description  Carrier shipment integration service for the storefront back office.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "cargo-gateway",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		lg.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		lg.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Carrier gateways: one per credential profile ---
	carrierTimeout := time.Duration(cfg.Carrier.TimeoutSeconds) * time.Second
	normalGateway := yurtici.NewClient(yurtici.Config{
		DispatcherURL: cfg.Carrier.DispatcherURL,
		ReportingURL:  cfg.Carrier.ReportingURL,
		Username:      cfg.Carrier.Normal.Username,
		Password:      cfg.Carrier.Normal.Password,
		Language:      cfg.Carrier.Language,
		Timeout:       carrierTimeout,
		RawXML:        cfg.Carrier.RawXMLFallback,
	}, lg)

	var codGateway *yurtici.Client
	if cfg.Carrier.COD.Configured() {
		codGateway = yurtici.NewClient(yurtici.Config{
			DispatcherURL: cfg.Carrier.DispatcherURL,
			ReportingURL:  cfg.Carrier.ReportingURL,
			Username:      cfg.Carrier.COD.Username,
			Password:      cfg.Carrier.COD.Password,
			Language:      cfg.Carrier.Language,
			Timeout:       carrierTimeout,
			RawXML:        cfg.Carrier.RawXMLFallback,
		}, lg)
	} else {
		lg.Warn().Msg("no COD credential profile configured, COD orders will be rejected")
	}

	// --- Services ---
	orders := mongodb.NewOrderRepository(db)
	lock := redisdb.NewCreationLock(rdb, lg)
	policy := service.CODPolicy{
		SelectedCredit: cfg.Carrier.SelectedCredit,
		CreditRule:     cfg.Carrier.CreditRule,
		CashOnly:       cfg.Carrier.CashOnlyCOD,
	}

	// Keep the interface truly nil when no COD profile exists, so the
	// service can fail COD orders closed.
	var cod ports.CarrierGateway
	if codGateway != nil {
		cod = codGateway
	}
	shipments := service.NewShipmentService(orders, lock, normalGateway, cod, policy, lg)

	dispatcher := queue.NewRefreshDispatcher(cfg.RefreshWorkers, shipments, lg)
	dispatcher.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		DB:         db,
		Redis:      rdb,
		Shipments:  shipments,
		Dispatcher: dispatcher,
		JWTSecret:  cfg.JWTSecret,
		Log:        lg,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			lg.Fatal().Err(err).Msg("server failed")
		}
	}()
	lg.Info().Str("port", cfg.Port).Str("carrier_mode", cfg.Carrier.Mode).Msg("cargo gateway started")

	<-ctx.Done()
	lg.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("server shutdown failed")
	}
}
