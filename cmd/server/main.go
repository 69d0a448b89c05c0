package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/item-inventory/internal/adapter/broker"
	"github.com/rl1809/item-inventory/internal/adapter/handler"
	"github.com/rl1809/item-inventory/internal/adapter/handler/pb"
	"github.com/rl1809/item-inventory/internal/adapter/storage"
	"github.com/rl1809/item-inventory/internal/config"
	"github.com/rl1809/item-inventory/internal/core/service"
	"github.com/rl1809/item-inventory/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()
	log = log.With(zap.String("service", config.ServiceName))

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize item store
	db, err := storage.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to connect database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if err := storage.EnsureSchema(ctx, db, cfg.DBDriver); err != nil {
		log.Fatal("failed to ensure schema", zap.Error(err))
	}
	log.Info("connected to database", zap.String("driver", cfg.DBDriver))

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// The listing cache is an optimization; the service degrades to store reads.
		log.Warn("redis not reachable, listing cache degraded", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	} else {
		log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	// Initialize Kafka
	writer := broker.NewWriter(cfg.KafkaBrokers)
	publisher := broker.NewKafkaPublisher(writer, log)

	// Initialize service
	itemService := service.NewItemService(storage.NewSQLAdapter(db), storage.NewRedisAdapter(rdb), cfg.EventQueueSize, log)

	// Start publish worker pool
	var wg sync.WaitGroup
	for i := 0; i < cfg.PublishWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			service.PublishWorker(id, itemService.GetEventQueue(), publisher, log.Named("publisher"))
		}(i)
	}
	log.Info("started publish workers", zap.Int("count", cfg.PublishWorkers))

	// Start gRPC server
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(handler.UnaryLoggingInterceptor(log)))
	pb.RegisterItemServiceServer(grpcServer, handler.NewGRPCHandler(itemService))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal("failed to listen", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}

	go func() {
		log.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server error", zap.Error(err))
		}
	}()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewHTTPHandler(itemService, log).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	log.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")

	// Close event queue and wait for workers to drain it
	itemService.Close()
	wg.Wait()
	log.Info("publish workers stopped")

	if err := writer.Close(); err != nil {
		log.Warn("kafka writer close failed", zap.Error(err))
	}
	rdb.Close()
	db.Close()
	log.Info("connections closed")
}
