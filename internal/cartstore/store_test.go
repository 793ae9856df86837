package cartstore

import (
	"math/rand"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCart_TotalEqualsNumberOfCalls(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		s := New()
		n := rng.Intn(40)
		for i := 0; i < n; i++ {
			s.AddToCart(strconv.Itoa(rng.Intn(5)))
		}
		assert.Equal(t, n, TotalQuantity(s.State()), "run %d", run)
	}
}

func TestAddToCart_TwiceYieldsSingleLine(t *testing.T) {
	s := New()
	s.AddToCart("x")
	s.AddToCart("x")

	assert.Equal(t, []CartItem{{ID: "x", Quantity: 2}}, s.State().Items)
}

func TestAddToCart_KeepsInsertionOrder(t *testing.T) {
	s := New()
	s.AddToCart("b")
	s.AddToCart("a")
	s.AddToCart("b")

	assert.Equal(t, []CartItem{{ID: "b", Quantity: 2}, {ID: "a", Quantity: 1}}, s.State().Items)
}

func TestResetCart(t *testing.T) {
	s := New()
	s.ResetCart()
	assert.Empty(t, s.State().Items)

	s.AddToCart("1")
	s.AddToCart("2")
	s.AddToCart("2")
	s.ResetCart()

	st := s.State()
	assert.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
	assert.Equal(t, 0, TotalQuantity(st))
}

func TestGetQuantity(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.GetQuantity("never"))

	for i := 0; i < 3; i++ {
		s.AddToCart("p")
	}
	s.AddToCart("q")

	assert.Equal(t, 3, s.GetQuantity("p"))
	assert.Equal(t, 1, s.GetQuantity("q"))
	assert.Equal(t, 0, s.GetQuantity("never"))
}

func TestState_IsACopy(t *testing.T) {
	s := New()
	s.AddToCart("x")

	st := s.State()
	st.Items[0].Quantity = 99
	st.Items = append(st.Items, CartItem{ID: "y", Quantity: 1})

	assert.Equal(t, []CartItem{{ID: "x", Quantity: 1}}, s.State().Items)
}

func TestNewWithState_DoesNotAlias(t *testing.T) {
	seed := State{Items: []CartItem{{ID: "x", Quantity: 2}}}
	s := NewWithState(seed)
	s.AddToCart("x")

	assert.Equal(t, 2, seed.Items[0].Quantity)
	assert.Equal(t, 3, s.GetQuantity("x"))
}

func TestTotalQuantity_Empty(t *testing.T) {
	assert.Equal(t, 0, TotalQuantity(State{}))
}

func TestAddToCart_Concurrent(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AddToCart(strconv.Itoa(i % 3))
		}(i)
	}
	wg.Wait()

	st := s.State()
	assert.Len(t, st.Items, 3)
	assert.Equal(t, 100, TotalQuantity(st))
}

func TestWatch_FiresOnlyWhenSliceChanges(t *testing.T) {
	s := New()

	var totals []int
	stopTotal := Watch(s, TotalQuantity, func(n int) { totals = append(totals, n) })
	defer stopTotal()

	var bQuantities []int
	stopB := Watch(s, func(st State) int { return Quantity(st, "b") }, func(n int) {
		bQuantities = append(bQuantities, n)
	})
	defer stopB()

	s.AddToCart("a")
	s.AddToCart("a")
	s.AddToCart("b")
	s.ResetCart()
	s.ResetCart()

	assert.Equal(t, []int{1, 2, 3, 0}, totals)
	assert.Equal(t, []int{1, 0}, bQuantities)
}

func TestWatchFunc_Items(t *testing.T) {
	s := New()

	var snapshots [][]CartItem
	stop := WatchFunc(s, Items, ItemsEqual, func(items []CartItem) {
		snapshots = append(snapshots, items)
	})

	s.AddToCart("a")
	s.ResetCart()
	s.ResetCart() // already empty: no notification
	stop()
	s.AddToCart("z")

	require.Len(t, snapshots, 2)
	assert.Equal(t, []CartItem{{ID: "a", Quantity: 1}}, snapshots[0])
	assert.Empty(t, snapshots[1])
}

func TestWatch_ListenerSeesMutation(t *testing.T) {
	s := New()
	var seen int
	stop := Watch(s, TotalQuantity, func(int) { seen = s.GetQuantity("x") })
	defer stop()

	s.AddToCart("x")
	assert.Equal(t, 1, seen)
}
