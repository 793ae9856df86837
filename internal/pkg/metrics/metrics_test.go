package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(func() float64 { return 3 })

	m.ProductList("ok")
	m.ProductList("ok")
	m.ProductList("unavailable")
	m.CartMutation("add", nil)
	m.CartMutation("add", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.productLists.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.productLists.WithLabelValues("unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartMutations.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartMutations.WithLabelValues("add", "persist_failed")))
}

func TestHandler(t *testing.T) {
	m := New(func() float64 { return 7 })
	m.CartMutation("reset", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `catalog_cart_mutations_total{op="reset",outcome="ok"} 1`)
	assert.Contains(t, string(body), "catalog_open_carts 7")
}
