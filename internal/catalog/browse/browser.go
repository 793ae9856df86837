// Package browse is the view model behind the catalog listing: it turns
// category/sort selections into repository fetches and guarantees the latest
// selection is the one that ends up displayed.
package browse

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jcmexdev/product-catalog/internal/catalog/core/domain"
	"github.com/jcmexdev/product-catalog/internal/catalog/core/ports"
)

// View is what a listing renders. While Loading is true Products is nil, so a
// spinner is never shown next to results of an older selection.
type View struct {
	Filter   domain.Filter
	Sort     domain.SortOrder
	Loading  bool
	Products []domain.Product
	Err      error
}

// Browser sequences selections. Every Select supersedes the previous one: the
// older fetch is canceled and, should it still complete, its result is dropped.
type Browser struct {
	repo ports.ProductRepository

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	done   chan struct{} // closed when the current selection settles or is superseded
	view   View

	nmu       sync.Mutex // serializes deliveries
	listeners map[int]func(View)
	nextID    int
}

// New returns an idle browser with an empty, settled view.
func New(repo ports.ProductRepository) *Browser {
	done := make(chan struct{})
	close(done)
	return &Browser{
		repo:      repo,
		done:      done,
		view:      View{Products: []domain.Product{}},
		listeners: make(map[int]func(View)),
	}
}

// Select starts fetching the list for f and order and returns immediately.
func (b *Browser) Select(ctx context.Context, f domain.Filter, order domain.SortOrder) {
	fetchCtx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	b.seq++
	seq := b.seq
	if b.cancel != nil {
		b.cancel()
	}
	if b.view.Loading {
		close(b.done)
	}
	b.cancel = cancel
	b.done = make(chan struct{})
	b.view = View{Filter: f, Sort: order, Loading: true}
	b.mu.Unlock()

	b.publish()

	go b.fetch(fetchCtx, seq, f, order)
}

func (b *Browser) fetch(ctx context.Context, seq uint64, f domain.Filter, order domain.SortOrder) {
	products, err := b.repo.List(ctx, f, order)

	b.mu.Lock()
	if seq != b.seq {
		b.mu.Unlock()
		slog.DebugContext(ctx, "dropping superseded catalog result", "seq", seq)
		return
	}
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}

	next := View{Filter: f, Sort: order}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.WarnContext(ctx, "catalog fetch failed", "category", f.Category, "sort", string(order), "error", err)
		}
		next.Products = []domain.Product{}
		next.Err = err
	} else {
		next.Products = products
	}
	b.view = next
	close(b.done)
	b.mu.Unlock()

	b.publish()
}

// View returns the current view.
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

// Wait blocks until the latest selection has settled and returns its view.
func (b *Browser) Wait(ctx context.Context) (View, error) {
	for {
		b.mu.Lock()
		if !b.view.Loading {
			v := b.view
			b.mu.Unlock()
			return v, nil
		}
		done := b.done
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return View{}, ctx.Err()
		case <-done:
		}
	}
}

// Subscribe registers fn for every view change and returns a function that
// removes it. fn runs on the goroutine that caused the change and must not
// call Select.
func (b *Browser) Subscribe(fn func(View)) func() {
	b.nmu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.nmu.Unlock()

	return func() {
		b.nmu.Lock()
		delete(b.listeners, id)
		b.nmu.Unlock()
	}
}

// publish delivers the view that is current at delivery time, so a slow
// publisher can never hand listeners an older view after a newer one.
func (b *Browser) publish() {
	b.nmu.Lock()
	defer b.nmu.Unlock()

	v := b.View()
	for _, fn := range b.listeners {
		fn(v)
	}
}

// Close cancels any in-flight fetch.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}
