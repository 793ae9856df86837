package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/product-catalog/internal/cartstore"
	"github.com/jcmexdev/product-catalog/internal/cartstore/storage/memory"
	redisstorage "github.com/jcmexdev/product-catalog/internal/cartstore/storage/redis"
	"github.com/jcmexdev/product-catalog/internal/cartstore/storage/sqlite"
	"github.com/jcmexdev/product-catalog/internal/catalog/infra/jsonfile"
	"github.com/jcmexdev/product-catalog/internal/pkg/cache"
	"github.com/jcmexdev/product-catalog/internal/pkg/config"
	"github.com/jcmexdev/product-catalog/internal/pkg/metrics"
	"github.com/jcmexdev/product-catalog/internal/pkg/telemetry"
	"github.com/jcmexdev/product-catalog/internal/storefront/infra/httpx"
	"github.com/jcmexdev/product-catalog/internal/storefront/views"
)

func main() {
	cfg := config.Load()
	telemetry.InitLogger(cfg.ServiceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("catalog server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	shutdownTracer := telemetry.ShutdownFunc(telemetry.NoopShutdown)
	if cfg.OTelEnabled {
		var err error
		shutdownTracer, err = telemetry.SetupTracer(ctx, cfg.ServiceName)
		if err != nil {
			return err
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage.Close()

	sessions, err := cartstore.NewSessions(storage, cfg.OpenSessions)
	if err != nil {
		return fmt.Errorf("cart sessions: %w", err)
	}

	renderer, err := views.New()
	if err != nil {
		return err
	}

	m := metrics.New(func() float64 { return float64(sessions.Len()) })
	handler := httpx.NewHandler(
		jsonfile.NewRepository(cfg.ProductsFile),
		httpx.SessionCarts(sessions),
		renderer,
		m,
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(httpx.NewRouter(handler), "storefront"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("catalog server running", "addr", cfg.HTTPAddr, "cart_storage", cfg.CartStorage, "products", cfg.ProductsFile)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openStorage builds the cart slot backend named by CART_STORAGE.
func openStorage(ctx context.Context, cfg config.Config) (cartstore.Storage, io.Closer, error) {
	switch cfg.CartStorage {
	case "memory", "":
		return memory.New(), closerFunc(func() error { return nil }), nil
	case "redis":
		c := cache.NewRedisCache(cfg.RedisAddr, "catalog")
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("redis at %s: %w", cfg.RedisAddr, err)
		}
		return redisstorage.New(c, cfg.CartTTL), c, nil
	case "sqlite":
		s, err := sqlite.Open(cfg.CartDBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown CART_STORAGE %q (want memory, redis or sqlite)", cfg.CartStorage)
	}
}
