package ports

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jcmexdev/product-catalog/internal/catalog/core/domain"
)

// ProductRepository is the read side of the catalog. Implementations wrap
// read or parse failures in domain.ErrUnavailable.
type ProductRepository interface {
	List(ctx context.Context, f domain.Filter, order domain.SortOrder) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
}

// ListOrEmpty is what view code calls: an unavailable catalog renders as an
// empty list instead of failing the page.
func ListOrEmpty(ctx context.Context, repo ProductRepository, f domain.Filter, order domain.SortOrder) []domain.Product {
	products, err := repo.List(ctx, f, order)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.WarnContext(ctx, "product list unavailable, rendering empty catalog", "error", err)
		}
		return []domain.Product{}
	}
	return products
}
