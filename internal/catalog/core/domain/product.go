// Package domain holds the catalog's product records and the pure
// filter/sort rules every ProductRepository implementation applies.
package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnavailable is returned when the backing product data cannot be read
	// or parsed. View code treats it as an empty list.
	ErrUnavailable = errors.New("catalog: products unavailable")

	// ErrNotFound is returned when a product id does not exist.
	ErrNotFound = errors.New("catalog: product not found")
)

// Product is a catalog record. It is immutable from the point of view of the
// views and the cart; the cart only keeps the id.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	SKU         *string `json:"sku,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

// SKUOrDefault returns the SKU or "N/A" when the product has none.
func (p Product) SKUOrDefault() string {
	if p.SKU == nil || *p.SKU == "" {
		return "N/A"
	}
	return *p.SKU
}

// InStock reports the availability flag. A missing flag means out of stock.
func (p Product) InStock() bool {
	return p.Available != nil && *p.Available
}

// Filter narrows a product list. An empty Category matches everything.
type Filter struct {
	Category string
}

// SortOrder orders a product list by price.
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts "", "none", "asc" and "desc" (case-insensitive).
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	default:
		return SortNone, fmt.Errorf("catalog: invalid sort order %q", s)
	}
}

// Query applies the filter first and then the sort. The input slice is left
// untouched. Sorting is stable, so equal prices keep their natural order.
func Query(products []Product, f Filter, order SortOrder) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}

	switch order {
	case SortAsc:
		slices.SortStableFunc(out, func(a, b Product) int { return cmpPrice(a.Price, b.Price) })
	case SortDesc:
		slices.SortStableFunc(out, func(a, b Product) int { return cmpPrice(b.Price, a.Price) })
	}
	return out
}

// Find returns the product with the given id.
func Find(products []Product, id string) (Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Categories lists distinct categories in first-seen order.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func cmpPrice(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
