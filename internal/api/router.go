package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/anatolia-commerce/cargo-gateway/docs"
	"github.com/anatolia-commerce/cargo-gateway/internal/api/handler"
	"github.com/anatolia-commerce/cargo-gateway/internal/api/middleware"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
	"github.com/anatolia-commerce/cargo-gateway/internal/infrastructure/queue"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	DB         *mongo.Database
	Redis      *redis.Client
	Shipments  ports.ShipmentService
	Dispatcher *queue.RefreshDispatcher
	JWTSecret  string
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("cargo_http"))

	// --- Health probes and operational routes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Shipment routes ---
	shipmentHandler := handler.NewShipmentHandler(deps.Shipments, deps.Dispatcher)

	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	orders := v1.Group("/orders", middleware.RBAC(domain.RoleAdmin, domain.RoleOps))
	orders.GET("/:order_id/shipment", shipmentHandler.Get)
	orders.POST("/:order_id/shipment", shipmentHandler.Create)
	orders.POST("/:order_id/shipment/recover-tracking", shipmentHandler.RecoverTracking)
	orders.POST("/:order_id/shipment/reconcile-cod", shipmentHandler.ReconcileCOD)
	orders.POST("/:order_id/shipment/refresh", shipmentHandler.Refresh)
	orders.POST("/:order_id/shipment/cancel", shipmentHandler.Cancel)

	// Bulk refresh is an operator tool; ops only.
	v1.POST("/shipments/refresh", shipmentHandler.BatchRefresh, middleware.RBAC(domain.RoleAdmin, domain.RoleOps))

	return e
}
