package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/seat-storefront/internal/cart"
	"github.com/jcmexdev/seat-storefront/internal/catalog"
	"github.com/jcmexdev/seat-storefront/internal/checkout"
	"github.com/jcmexdev/seat-storefront/internal/config"
	"github.com/jcmexdev/seat-storefront/internal/coordinator/checkoutlog/sqlite"
	"github.com/jcmexdev/seat-storefront/internal/pkg/cache"
	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/seat-storefront/internal/pkg/orderrpc"
	"github.com/jcmexdev/seat-storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/seat-storefront/internal/storefront/infra/adapters/service"
	"github.com/jcmexdev/seat-storefront/internal/storefront/infra/httpx"
)

func main() {
	cfg, err := config.Load("storefront-api")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown := telemetry.ShutdownFunc(telemetry.NopShutdown)
	if cfg.OTelEnabled {
		shutdown, err = telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTelAddr, cfg.Environment)
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	redisCache := cache.NewRedisCache(cfg.RedisAddr, "storefront")
	defer redisCache.Close()
	var store cache.Cache = redisCache
	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		slog.Warn("redis unreachable, falling back to in-process cache", "addr", cfg.RedisAddr, "error", err)
		store = cache.NewMemory("storefront")
	}
	cancelPing()

	registry := catalog.NewRegistry()
	catalog.RegisterStatic(registry)
	registry.Expect(catalog.CategoryColor, catalog.SingleSelect)

	source := catalog.NewCachedSource(
		catalog.NewHTTPSource(cfg.CatalogBaseURL,
			map[catalog.Category]string{catalog.CategoryColor: cfg.CatalogColorsPath},
			cfg.CatalogProductsPath),
		store, cfg.CatalogCacheTTL)
	loader := catalog.NewLoader(source, registry)
	go loader.LoadAll(ctx, catalog.CategoryColor)

	orderConn, err := grpc.NewClient(cfg.OrderServiceAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.UnaryClientInterceptor()),
	)
	if err != nil {
		slog.Error("could not connect to order service", "addr", cfg.OrderServiceAddr, "error", err)
		os.Exit(1)
	}
	defer orderConn.Close()
	orders := service.NewGRPCOrderClient(orderrpc.NewOrderClient(orderConn))

	if err := os.MkdirAll(filepath.Dir(cfg.CheckoutLogPath), 0o755); err != nil {
		slog.Error("failed to create checkout log directory", "path", cfg.CheckoutLogPath, "error", err)
		os.Exit(1)
	}
	checkoutLog, err := sqlite.Open(cfg.CheckoutLogPath)
	if err != nil {
		slog.Error("failed to open checkout log", "path", cfg.CheckoutLogPath, "error", err)
		os.Exit(1)
	}
	defer checkoutLog.Close()

	policy := checkout.StorefrontPolicy{
		TaxRate:               cfg.TaxRate,
		ShippingFee:           cfg.ShippingFee,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
	}
	handler := httpx.NewHandler(
		registry,
		cart.NewSessions(store, cfg.CartTTL, cfg.CartIdleTimeout),
		checkout.NewBuilder(registry, cfg.Currency),
		policy,
		orders,
		checkoutLog,
	)
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is empty, admin routes will reject every request")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(handler, cfg.JWTSecret),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("storefront API running", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down storefront API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}
