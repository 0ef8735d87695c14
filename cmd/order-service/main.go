package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/jcmexdev/seat-storefront/internal/config"
	"github.com/jcmexdev/seat-storefront/internal/order-service/app"
	"github.com/jcmexdev/seat-storefront/internal/pkg/cache"
	"github.com/jcmexdev/seat-storefront/internal/pkg/events"
	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/seat-storefront/internal/pkg/orderrpc"
	"github.com/jcmexdev/seat-storefront/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("order-service")
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

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		slog.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr, "order")
	defer redisCache.Close()
	var store cache.Cache = redisCache
	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		slog.Warn("redis unreachable, idempotency keys kept in process", "addr", cfg.RedisAddr, "error", err)
		store = cache.NewMemory("order")
	}
	cancelPing()

	var publisher events.Publisher = events.Nop{}
	if rmq, err := events.NewRabbitMQ(cfg.RabbitMQURL, cfg.OrderExchange, cfg.OrderQueue, cfg.MaxPriority); err != nil {
		slog.Warn("rabbitmq unavailable, order events disabled", "error", err)
	} else {
		defer rmq.Close()
		publisher = rmq
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()),
	)
	orderSrv := app.NewOrderServer(store, publisher, cfg.IdempotencyTTL)
	orderrpc.RegisterOrderServer(grpcServer, orderSrv)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down order service")
		grpcServer.GracefulStop()
	}()

	slog.Info("order service gRPC running", "addr", cfg.GRPCAddr)
	if err := grpcServer.Serve(lis); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}
