package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/product-catalog/internal/cartstore"
	"github.com/jcmexdev/product-catalog/internal/cartstore/storage/memory"
	"github.com/jcmexdev/product-catalog/internal/catalog/core/domain"
)

var mockProducts = []domain.Product{
	{ID: "1", Name: "Wireless Headphones", Category: "Electronics", Price: 199.99},
	{ID: "2", Name: "Running Shoes", Category: "Sports", Price: 89.5},
	{ID: "3", Name: "Smart Watch", Category: "Electronics", Price: 249},
}

type fakeRepo struct {
	products []domain.Product
	err      error
}

func (f *fakeRepo) List(_ context.Context, fl domain.Filter, order domain.SortOrder) ([]domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return domain.Query(f.products, fl, order), nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (domain.Product, error) {
	if f.err != nil {
		return domain.Product{}, f.err
	}
	return domain.Find(f.products, id)
}

func run(t *testing.T, repo *fakeRepo, storage cartstore.Storage, script string) string {
	t.Helper()
	ctx := context.Background()
	var out bytes.Buffer
	cart, err := cartstore.Open(ctx, storage, cartstore.StoreName)
	require.NoError(t, err)
	require.NoError(t, New(repo, cart, &out).Run(ctx, strings.NewReader(script)))
	return out.String()
}

func TestRun_Browse(t *testing.T) {
	out := run(t, &fakeRepo{products: mockProducts}, memory.New(), "category Electronics\nsort desc\nlist\nquit\n")

	assert.Contains(t, out, "loading...")

	// Output of the third command, list.
	segments := strings.Split(out, "> ")
	require.Len(t, segments, 5)
	listed := segments[3]
	i := strings.Index(listed, "Smart Watch")
	j := strings.Index(listed, "Wireless Headphones")
	require.True(t, i >= 0 && j >= 0)
	assert.Less(t, i, j, "desc order puts the pricier product first")
	assert.Contains(t, listed, "$249.00")
	assert.NotContains(t, listed, "Running Shoes")
}

func TestRun_UnknownSortFallsBackToNone(t *testing.T) {
	out := run(t, &fakeRepo{products: mockProducts}, memory.New(), "sort sideways\nlist\n")

	assert.Contains(t, out, `unknown sort "sideways", using none`)
	assert.Contains(t, out, "Running Shoes")
}

func TestRun_Unavailable(t *testing.T) {
	out := run(t, &fakeRepo{err: domain.ErrUnavailable}, memory.New(), "list\nshow 1\n")

	assert.Contains(t, out, "catalog unavailable")
	assert.Contains(t, out, "no products found")
}

func TestRun_Show(t *testing.T) {
	out := run(t, &fakeRepo{products: mockProducts}, memory.New(), "show 2\nshow 9\n")

	assert.Contains(t, out, "Running Shoes")
	assert.Contains(t, out, "$89.50")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Out of Stock")
	assert.Contains(t, out, `product "9" not found`)
}

func TestRun_CartPersistsAcrossRuns(t *testing.T) {
	storage := memory.New()
	repo := &fakeRepo{products: mockProducts}

	out := run(t, repo, storage, "add 1\nadd 1\nadd 3\nqty 1\ncart\n")
	assert.Contains(t, out, "[cart: 3]")
	assert.Contains(t, out, "1: 2")
	assert.Contains(t, out, "total: 3")

	out = run(t, repo, storage, "cart\nreset\ncart\n")
	assert.Contains(t, out, "  1 x2")
	assert.Contains(t, out, "[cart: 0]")
	assert.Contains(t, out, "cart is empty")

	out = run(t, repo, storage, "cart\n")
	assert.Contains(t, out, "cart is empty")
}

func TestRun_Help(t *testing.T) {
	out := run(t, &fakeRepo{products: mockProducts}, memory.New(), "help\nfrobnicate\n")

	assert.Contains(t, out, "category <name|all>")
	assert.Contains(t, out, `unknown command "frobnicate"`)
}
