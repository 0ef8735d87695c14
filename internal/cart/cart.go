// Package cart is the shopping cart: a pure reducer over immutable state
// snapshots, a Store that owns one cart, and Sessions that hand out a Store
// per browser session.
package cart

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/seat-storefront/internal/pkg/money"
	"github.com/jcmexdev/seat-storefront/internal/pricing"
)

// Item is one configured product line. Price is the unit price including
// every selected option, as a decimal string.
type Item struct {
	Key         string               `json:"key"`
	ID          int                  `json:"id"`
	Title       string               `json:"title"`
	Price       string               `json:"price"`
	Image       string               `json:"image"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Quantity    int                  `json:"quantity"`
	Selections  pricing.SelectionSet `json:"selections,omitempty"`
}

// UnitPrice parses Price; a malformed price counts as zero.
func (i Item) UnitPrice() decimal.Decimal {
	return money.ParseOrZero(i.Price)
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineKey identifies a cart line by product and configuration. Two
// different configurations of the same product never share a key.
func LineKey(productID int, signature string) string {
	if signature == "" {
		return strconv.Itoa(productID)
	}
	return fmt.Sprintf("%d-%016x", productID, xxhash.Sum64String(signature))
}

// State is an immutable cart snapshot. TotalItems and TotalPrice are always
// the fold over Items.
type State struct {
	Items      []Item       `json:"items"`
	TotalItems int          `json:"totalItems"`
	TotalPrice money.Amount `json:"totalPrice"`
}

func (s State) IsEmpty() bool { return len(s.Items) == 0 }

func (s State) Find(key string) (Item, bool) {
	for _, it := range s.Items {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}

// ActionType names a cart mutation.
type ActionType string

const (
	ActionAdd            ActionType = "cart/add"
	ActionRemove         ActionType = "cart/remove"
	ActionUpdateQuantity ActionType = "cart/update_quantity"
	ActionClear          ActionType = "cart/clear"
	ActionRestore        ActionType = "cart/restore"
	ActionTake           ActionType = "cart/take"
)

// Action is a cart mutation. Only the fields relevant to Type are read.
type Action struct {
	Type     ActionType
	Item     Item
	Key      string
	Quantity int
	Items    []Item
}

func Add(item Item) Action { return Action{Type: ActionAdd, Item: item} }

func Remove(key string) Action { return Action{Type: ActionRemove, Key: key} }

func UpdateQuantity(key string, quantity int) Action {
	return Action{Type: ActionUpdateQuantity, Key: key, Quantity: quantity}
}

func Clear() Action { return Action{Type: ActionClear} }

// Restore replaces the whole cart, e.g. from a persisted snapshot.
func Restore(items []Item) Action { return Action{Type: ActionRestore, Items: items} }

// Take removes the given quantities from the matching lines. A line whose
// quantity drops to zero is removed. Keys not in the cart are ignored.
func Take(items []Item) Action { return Action{Type: ActionTake, Items: items} }

// Reduce applies a to s and returns the next state. s is never modified.
//
// Adding a configuration already in the cart increments that line and
// refreshes its unit price. Quantities below one are raised to one.
// Removing or updating an unknown key changes nothing.
func Reduce(s State, a Action) State {
	items := make([]Item, len(s.Items), len(s.Items)+1)
	copy(items, s.Items)

	switch a.Type {
	case ActionAdd:
		in := normalize(a.Item)
		merged := false
		for i := range items {
			if items[i].Key == in.Key {
				items[i].Quantity += in.Quantity
				items[i].Price = in.Price
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, in)
		}

	case ActionRemove:
		out := items[:0]
		for _, it := range items {
			if it.Key != a.Key {
				out = append(out, it)
			}
		}
		items = out

	case ActionUpdateQuantity:
		for i := range items {
			if items[i].Key == a.Key {
				items[i].Quantity = clampQuantity(a.Quantity)
				break
			}
		}

	case ActionClear:
		items = nil

	case ActionTake:
		for _, t := range a.Items {
			for i := range items {
				if items[i].Key == t.Key {
					items[i].Quantity -= t.Quantity
					break
				}
			}
		}
		out := items[:0]
		for _, it := range items {
			if it.Quantity > 0 {
				out = append(out, it)
			}
		}
		items = out

	case ActionRestore:
		items = make([]Item, 0, len(a.Items))
		for _, it := range a.Items {
			items = append(items, normalize(it))
		}
	}

	return withTotals(items)
}

func normalize(it Item) Item {
	it.Quantity = clampQuantity(it.Quantity)
	it.Price = money.Format(it.UnitPrice())
	it.Selections = it.Selections.Clone()
	if it.Key == "" {
		it.Key = LineKey(it.ID, it.Selections.Signature())
	}
	return it
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

func withTotals(items []Item) State {
	if items == nil {
		items = []Item{}
	}
	s := State{Items: items}
	total := decimal.Zero
	for _, it := range items {
		s.TotalItems += it.Quantity
		total = total.Add(it.LineTotal())
	}
	s.TotalPrice = money.NewAmount(total)
	return s
}
