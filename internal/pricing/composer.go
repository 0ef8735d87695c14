// Package pricing turns a base price and a set of chosen options into a
// total. Summation is flat: every matched option adds its price once and
// nothing is weighted, discounted or capped. Ids that do not resolve add
// nothing and are reported in Quote.Unresolved instead of failing.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/seat-storefront/internal/catalog"
)

// Lookup resolves an option id within a category. *catalog.Registry
// satisfies it.
type Lookup interface {
	Find(category catalog.Category, id string) (catalog.Option, bool)
}

// Line is one matched option in a quote.
type Line struct {
	Category catalog.Category `json:"category"`
	Option   catalog.Option   `json:"option"`
}

// Unresolved is a selected id that no catalog knew about.
type Unresolved struct {
	Category catalog.Category `json:"category"`
	ID       string           `json:"id"`
}

// Quote is a priced product configuration.
type Quote struct {
	Base       decimal.Decimal
	Total      decimal.Decimal
	Lines      []Line
	Unresolved []Unresolved
}

// Compose prices selections on top of base. Categories are walked in
// sorted order so the breakdown is deterministic; ids inside a category
// keep their selection order.
func Compose(base decimal.Decimal, selections SelectionSet, lookup Lookup) Quote {
	q := Quote{Base: base, Total: base}
	for _, c := range selections.Categories() {
		for _, id := range selections[c] {
			opt, ok := lookup.Find(c, id)
			if !ok {
				q.Unresolved = append(q.Unresolved, Unresolved{Category: c, ID: id})
				continue
			}
			q.Total = q.Total.Add(opt.Price)
			q.Lines = append(q.Lines, Line{Category: c, Option: opt})
		}
	}
	return q
}

// ComputeTotal returns base plus the price of every resolvable selection.
func ComputeTotal(base decimal.Decimal, selections SelectionSet, lookup Lookup) decimal.Decimal {
	return Compose(base, selections, lookup).Total
}

// Describe joins the names of the matched, non-"none" options, walking
// categories in order first and any remaining categories sorted after.
// It returns "" when nothing resolves.
func Describe(selections SelectionSet, lookup Lookup, order []catalog.Category) string {
	seen := make(map[catalog.Category]bool, len(order))
	cats := make([]catalog.Category, 0, len(selections))
	for _, c := range order {
		if len(selections[c]) > 0 {
			cats = append(cats, c)
			seen[c] = true
		}
	}
	for _, c := range selections.Categories() {
		if !seen[c] {
			cats = append(cats, c)
		}
	}

	var names []string
	for _, c := range cats {
		for _, id := range selections[c] {
			if id == catalog.NoneID {
				continue
			}
			if opt, ok := lookup.Find(c, id); ok {
				names = append(names, opt.Name)
			}
		}
	}
	return strings.Join(names, " / ")
}
