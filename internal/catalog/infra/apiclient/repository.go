// Package apiclient implements the catalog repository on top of the
// storefront's HTTP product API.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/product-catalog/internal/catalog/core/domain"
	"github.com/jcmexdev/product-catalog/internal/catalog/core/ports"
	"github.com/jcmexdev/product-catalog/internal/pkg/interceptors"
)

var _ ports.ProductRepository = (*Repository)(nil)

// Repository fetches products from GET {baseURL}/api/products.
type Repository struct {
	baseURL string
	client  *http.Client
}

// Option configures a Repository.
type Option func(*Repository)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Repository) { r.client = c }
}

// NewRepository returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080".
func NewRepository(baseURL string, opts ...Option) *Repository {
	r := &Repository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(interceptors.PropagateRequestID(http.DefaultTransport)),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List asks the API for the filtered, sorted list. Any transport failure or
// non-200 answer is reported as domain.ErrUnavailable.
func (r *Repository) List(ctx context.Context, f domain.Filter, order domain.SortOrder) ([]domain.Product, error) {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if order != domain.SortNone {
		q.Set("sort", string(order))
	}

	endpoint := r.baseURL + "/api/products"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var products []domain.Product
	status, err := r.getJSON(ctx, endpoint, &products)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: list products: status %d", domain.ErrUnavailable, status)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// Get fetches a single product.
func (r *Repository) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	status, err := r.getJSON(ctx, r.baseURL+"/api/products/"+url.PathEscape(id), &p)
	if err != nil {
		return domain.Product{}, err
	}
	switch status {
	case http.StatusOK:
		return p, nil
	case http.StatusNotFound:
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	default:
		return domain.Product{}, fmt.Errorf("%w: get product %s: status %d", domain.ErrUnavailable, id, status)
	}
}

// getJSON decodes the body into v only for 200 responses.
func (r *Repository) getJSON(ctx context.Context, endpoint string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return 0, fmt.Errorf("%w: decode %s: %v", domain.ErrUnavailable, endpoint, err)
	}
	return resp.StatusCode, nil
}
