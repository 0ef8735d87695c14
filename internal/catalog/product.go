package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Product is a base seat the options are priced on top of.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
	Active      bool            `json:"is_active"`
}

// Image returns the first image path or "".
func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Products is an immutable, id-indexed product list.
type Products struct {
	items []Product
	index map[int]int
}

// NewProducts indexes products by id, keeping the first of any duplicates.
// Order is by id so listings are stable across reloads.
func NewProducts(products ...Product) *Products {
	p := &Products{index: make(map[int]int, len(products))}
	sorted := make([]Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, prod := range sorted {
		if _, dup := p.index[prod.ID]; dup {
			continue
		}
		p.index[prod.ID] = len(p.items)
		p.items = append(p.items, prod)
	}
	return p
}

func (p *Products) Find(id int) (Product, bool) {
	if p == nil {
		return Product{}, false
	}
	i, ok := p.index[id]
	if !ok {
		return Product{}, false
	}
	return p.items[i], true
}

// List returns the active products.
func (p *Products) List() []Product {
	if p == nil {
		return nil
	}
	out := make([]Product, 0, len(p.items))
	for _, prod := range p.items {
		if prod.Active {
			out = append(out, prod)
		}
	}
	return out
}
