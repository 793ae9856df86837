// Package shell is the terminal storefront: a line-oriented command loop
// that browses the catalog and keeps a persisted cart.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jcmexdev/product-catalog/internal/cartstore"
	"github.com/jcmexdev/product-catalog/internal/catalog/browse"
	"github.com/jcmexdev/product-catalog/internal/catalog/core/domain"
	"github.com/jcmexdev/product-catalog/internal/catalog/core/ports"
	"github.com/jcmexdev/product-catalog/internal/pkg/interceptors"
)

const helpText = `commands:
  list                   show the current product list
  category <name|all>    filter by category
  sort <asc|desc|none>   sort by price
  show <id>              product details
  add <id>               add one unit to the cart
  qty <id>               quantity of a product in the cart
  cart                   show the cart
  reset                  empty the cart
  help                   this text
  quit                   leave
`

type Shell struct {
	repo    ports.ProductRepository
	browser *browse.Browser
	cart    *cartstore.Persistent

	mu  sync.Mutex // guards out
	out io.Writer

	filter domain.Filter
	order  domain.SortOrder
}

func New(repo ports.ProductRepository, cart *cartstore.Persistent, out io.Writer) *Shell {
	return &Shell{
		repo:    repo,
		browser: browse.New(repo),
		cart:    cart,
		out:     out,
	}
}

// Run reads commands from in until quit, EOF or ctx is done. Filter and sort
// commands return at once; the list is printed when the latest selection
// settles.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	defer s.browser.Close()

	unsubscribe := s.browser.Subscribe(s.printView)
	defer unsubscribe()

	stopWatch := cartstore.Watch(s.cart.Store(), cartstore.TotalQuantity, func(total int) {
		s.printf("[cart: %d]\n", total)
	})
	defer stopWatch()

	s.browser.Select(ctx, s.filter, s.order)

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		s.printf("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if quit := s.exec(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

func (s *Shell) exec(ctx context.Context, line string) (quit bool) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	// One request id per command, forwarded to the API.
	ctx = interceptors.ContextWithRequestID(ctx, uuid.NewString())

	switch strings.ToLower(cmd) {
	case "":
	case "quit", "exit":
		return true
	case "help":
		s.printf("%s", helpText)
	case "list":
		v, err := s.browser.Wait(ctx)
		if err != nil {
			return true
		}
		s.printProducts(v)
	case "category":
		s.filter = domain.Filter{}
		if arg != "" && !strings.EqualFold(arg, "all") {
			s.filter.Category = arg
		}
		s.browser.Select(ctx, s.filter, s.order)
	case "sort":
		order, err := domain.ParseSortOrder(arg)
		if err != nil {
			s.printf("unknown sort %q, using none\n", arg)
		}
		s.order = order
		s.browser.Select(ctx, s.filter, s.order)
	case "show":
		s.show(ctx, arg)
	case "add":
		if arg == "" {
			s.printf("usage: add <id>\n")
			return false
		}
		if err := s.cart.AddToCart(ctx, arg); err != nil {
			s.printf("warning: cart not saved: %v\n", err)
		}
	case "qty":
		s.printf("%s: %d\n", arg, s.cart.GetQuantity(arg))
	case "cart":
		s.printCart()
	case "reset":
		if err := s.cart.ResetCart(ctx); err != nil {
			s.printf("warning: cart not saved: %v\n", err)
		}
	default:
		s.printf("unknown command %q, type help\n", cmd)
	}
	return false
}

func (s *Shell) show(ctx context.Context, id string) {
	p, err := s.repo.Get(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.printf("product %q not found\n", id)
		return
	case err != nil:
		s.printf("catalog unavailable: %v\n", err)
		return
	}

	availability := "Out of Stock"
	if p.InStock() {
		availability = "In Stock"
	}
	s.printf("%s\n  %s\n  price:        $%.2f\n  sku:          %s\n  availability: %s\n  in cart:      %d\n",
		p.Name, p.Description, p.Price, p.SKUOrDefault(), availability, s.cart.GetQuantity(p.ID))
}

func (s *Shell) printView(v browse.View) {
	if v.Loading {
		s.printf("loading...\n")
		return
	}
	s.printProducts(v)
}

func (s *Shell) printProducts(v browse.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.Err != nil {
		fmt.Fprintf(s.out, "catalog unavailable\n")
	}
	if len(v.Products) == 0 {
		fmt.Fprintf(s.out, "no products found\n")
		return
	}
	for _, p := range v.Products {
		fmt.Fprintf(s.out, "%-6s %-32s %10s  %s\n", p.ID, p.Name, fmt.Sprintf("$%.2f", p.Price), p.Category)
	}
}

func (s *Shell) printCart() {
	st := s.cart.State()
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(st.Items) == 0 {
		fmt.Fprintf(s.out, "cart is empty\n")
		return
	}
	for _, it := range st.Items {
		fmt.Fprintf(s.out, "  %s x%d\n", it.ID, it.Quantity)
	}
	fmt.Fprintf(s.out, "total: %d\n", cartstore.TotalQuantity(st))
}

func (s *Shell) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
