package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	bookingv1 "appointment-booking-api/api/bookingv1"
	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/config"
	"appointment-booking-api/internal/gateway"
	"appointment-booking-api/internal/handler"
	"appointment-booking-api/internal/middleware"
	"appointment-booking-api/internal/runtime"
	"appointment-booking-api/internal/store"
	"appointment-booking-api/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := runtime.NewLogger(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := runtime.SignalContext()
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  cfg.ServiceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSamplingRatio,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	// database
	pool, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	st := store.New(pool)
	if err := st.Migrate(ctx, cfg.MigrationsPath); err != nil {
		return err
	}
	logger.Info("migration applied", "path", cfg.MigrationsPath)

	h := handler.New(booking.NewManager(st, logger), st, cfg.JWTSecret, cfg.TokenTTL, logger)

	// grpc server
	rl := middleware.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst)
	defer rl.Close()
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			middleware.RequestID(),
			middleware.RateLimit(rl),
			middleware.Auth(cfg.JWTSecret),
			middleware.Logging(logger),
		),
	)
	bookingv1.RegisterBookingServiceServer(srv, h)

	lis, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	errCh := make(chan error, 2)
	go func() {
		logger.Info("grpc listening", "port", cfg.Port)
		if err := srv.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()

	// REST gateway -> forwards to grpc on localhost
	gw, err := gateway.Dial("localhost:"+cfg.Port, logger)
	if err != nil {
		return err
	}
	defer gw.Close()

	health := runtime.HealthHandler(runtime.ReadyCheck{Name: "postgres", Check: st.Ping})
	httpSrv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           gw.Handler(cfg.CORSOrigins, health),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("http gateway listening", "port", cfg.WebPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errCh:
		logger.Error("server failed", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if e := httpSrv.Shutdown(shutdownCtx); e != nil {
		logger.Warn("http shutdown", "err", e)
	}
	srv.GracefulStop()
	if e := shutdownTracing(shutdownCtx); e != nil {
		logger.Warn("tracing shutdown", "err", e)
	}
	return err
}
