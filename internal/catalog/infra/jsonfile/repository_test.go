package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/product-catalog/internal/catalog/core/domain"
)

const fixture = `[
  {"id":"1","name":"Headphones","description":"Wireless","category":"A","price":10,"imageUrl":"/img/1.png","sku":"HP-1","available":true},
  {"id":"2","name":"Mouse","description":"Optical","category":"B","price":5,"imageUrl":"/img/2.png"},
  {"id":"3","name":"Monitor","description":"27 inch","category":"A","price":20,"imageUrl":"/img/3.png","available":false}
]`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func productIDs(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestList(t *testing.T) {
	repo := NewRepository(writeFile(t, fixture))
	ctx := context.Background()

	all, err := repo.List(ctx, domain.Filter{}, domain.SortNone)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, productIDs(all))
	require.NotNil(t, all[0].SKU)
	assert.Equal(t, "HP-1", *all[0].SKU)
	assert.Nil(t, all[1].Available)

	byCategory, err := repo.List(ctx, domain.Filter{Category: "A"}, domain.SortNone)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, productIDs(byCategory))

	asc, err := repo.List(ctx, domain.Filter{}, domain.SortAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1", "3"}, productIDs(asc))

	desc, err := repo.List(ctx, domain.Filter{Category: "A"}, domain.SortDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1"}, productIDs(desc))
}

func TestGet(t *testing.T) {
	repo := NewRepository(writeFile(t, fixture))

	p, err := repo.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Mouse", p.Name)

	_, err = repo.Get(context.Background(), "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_MissingFile(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "nope.json"))

	_, err := repo.List(context.Background(), domain.Filter{}, domain.SortNone)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestList_MalformedFile(t *testing.T) {
	repo := NewRepository(writeFile(t, `{"not":"an array"`))

	_, err := repo.List(context.Background(), domain.Filter{}, domain.SortNone)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestList_RereadsFile(t *testing.T) {
	path := writeFile(t, fixture)
	repo := NewRepository(path)

	first, err := repo.List(context.Background(), domain.Filter{}, domain.SortNone)
	require.NoError(t, err)
	require.Len(t, first, 3)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"9","name":"New","category":"C","price":1}]`), 0o600))

	second, err := repo.List(context.Background(), domain.Filter{}, domain.SortNone)
	require.NoError(t, err)
	assert.Equal(t, []string{"9"}, productIDs(second))
}

func TestList_ConcurrentCallers(t *testing.T) {
	repo := NewRepository(writeFile(t, fixture))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := repo.List(context.Background(), domain.Filter{}, domain.SortDesc)
			assert.NoError(t, err)
			assert.Equal(t, []string{"3", "1", "2"}, productIDs(products))
		}()
	}
	wg.Wait()
}

func TestList_CanceledContext(t *testing.T) {
	repo := NewRepository(writeFile(t, fixture))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx, domain.Filter{}, domain.SortNone)
	// The read may win the race against the canceled context; either outcome
	// must not be a parse failure.
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
