package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcmexdev/product-catalog/internal/cartstore"
	"github.com/jcmexdev/product-catalog/internal/cartstore/storage/sqlite"
	"github.com/jcmexdev/product-catalog/internal/catalog/infra/apiclient"
	"github.com/jcmexdev/product-catalog/internal/pkg/telemetry"
	"github.com/jcmexdev/product-catalog/internal/shell"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		apiURL   string
		cartDB   string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:          "catalog-shell",
		Short:        "Browse the product catalog and keep a cart from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			telemetry.InitLogger("catalog-shell", logLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, apiURL, cartDB)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", envOr("CATALOG_API_URL", "http://localhost:8080"), "base URL of the catalog server")
	cmd.Flags().StringVar(&cartDB, "cart-db", envOr("CART_DB_PATH", "cart.db"), "SQLite file that keeps the cart between runs")
	cmd.Flags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "debug, info, warn or error")
	return cmd
}

func run(ctx context.Context, apiURL, cartDB string) error {
	slots, err := sqlite.Open(cartDB)
	if err != nil {
		return fmt.Errorf("open cart: %w", err)
	}
	defer func() {
		if err := slots.Close(); err != nil {
			slog.Error("closing cart db", "error", err)
		}
	}()

	cart, err := cartstore.Open(ctx, slots, cartstore.StoreName)
	if err != nil {
		return fmt.Errorf("open cart: %w", err)
	}
	products := apiclient.NewRepository(apiURL)

	fmt.Fprintf(os.Stdout, "catalog at %s, %d item(s) in cart", apiURL, cartstore.TotalQuantity(cart.State()))
	if savedAt, err := slots.SavedAt(ctx, cartstore.StoreName); err == nil {
		fmt.Fprintf(os.Stdout, " (saved %s)", savedAt.Local().Format(time.DateTime))
	} else if !errors.Is(err, cartstore.ErrSlotNotFound) {
		slog.WarnContext(ctx, "cart timestamp unreadable", "error", err)
	}
	fmt.Fprintf(os.Stdout, ". Type help for commands.\n")
	return shell.New(products, cart, os.Stdout).Run(ctx, os.Stdin)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
