// Package views renders the storefront pages. Every page is a pure function
// of the products it is given and the cart state of the requesting session.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/jcmexdev/product-catalog/internal/cartstore"
	"github.com/jcmexdev/product-catalog/internal/catalog/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Widget is the floating cart summary shown on every page.
type Widget struct {
	Total int
	// ReturnTo is where cart forms send the browser back to.
	ReturnTo string
}

// NewWidget derives the widget from the cart state.
func NewWidget(st cartstore.State, returnTo string) Widget {
	return Widget{Total: cartstore.TotalQuantity(st), ReturnTo: returnTo}
}

// ShowReset reports whether the badge and the reset control are shown.
func (w Widget) ShowReset() bool {
	return w.Total > 0
}

type Card struct {
	Product domain.Product
	InCart  int
}

type CatalogPage struct {
	Widget     Widget
	Categories []string
	Category   string
	Sort       string
	Cards      []Card
}

// NewCatalogPage pairs each product with its quantity in st.
func NewCatalogPage(products []domain.Product, categories []string, f domain.Filter, order domain.SortOrder, st cartstore.State, returnTo string) CatalogPage {
	cards := make([]Card, len(products))
	for i, p := range products {
		cards[i] = Card{Product: p, InCart: cartstore.Quantity(st, p.ID)}
	}
	return CatalogPage{
		Widget:     NewWidget(st, returnTo),
		Categories: categories,
		Category:   f.Category,
		Sort:       string(order),
		Cards:      cards,
	}
}

type DetailPage struct {
	Widget  Widget
	Product domain.Product
	InCart  int
}

type MessagePage struct {
	Widget Widget
	Title  string
	Text   string
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"price": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
}

func New() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/widget.html")
	if err != nil {
		return nil, fmt.Errorf("views: parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{"catalog", "detail", "message"} {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("views: clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+page+".html"); err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

func (r *Renderer) Catalog(w http.ResponseWriter, page CatalogPage) error {
	return r.render(w, http.StatusOK, "catalog", page)
}

func (r *Renderer) Detail(w http.ResponseWriter, page DetailPage) error {
	return r.render(w, http.StatusOK, "detail", page)
}

func (r *Renderer) Message(w http.ResponseWriter, status int, page MessagePage) error {
	return r.render(w, status, "message", page)
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (r *Renderer) render(w http.ResponseWriter, status int, page string, data any) error {
	var buf bytes.Buffer
	if err := r.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("views: render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
