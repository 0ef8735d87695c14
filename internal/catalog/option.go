// Package catalog supplies the priced options a seat can be configured with
// and the base products they apply to.
//
// A Catalog is immutable once built. Categories whose options come from the
// backend are tracked by the Registry through a loading/ready/failed
// lifecycle; until a category is ready it exposes no options, so any
// selection against it prices at zero.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category names a group of options, e.g. seat type or stitching.
type Category string

const (
	CategorySeatType  Category = "seat_type"
	CategoryArmType   Category = "arm_type"
	CategoryMaterial  Category = "material"
	CategoryColor     Category = "color"
	CategoryStitching Category = "stitching"
	CategoryRecline   Category = "recline"
	CategoryHeadrest  Category = "headrest"
	CategoryHeating   Category = "heating"
	CategoryLumbar    Category = "lumbar"
)

// NoneID is the id of the sentinel option every catalog carries. Choosing it
// means "no modifier" and always prices at zero.
const NoneID = "none"

// Mode says how many options of a category one configuration may hold.
type Mode int

const (
	SingleSelect Mode = iota
	MultiSelect
)

func (m Mode) String() string {
	if m == MultiSelect {
		return "multi"
	}
	return "single"
}

// Option is a named, priced modifier within a category.
type Option struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	HexCode string          `json:"hex_code,omitempty"`
}

// None returns the zero-priced sentinel option.
func None() Option {
	return Option{ID: NoneID, Name: "None", Price: decimal.Zero}
}

// Catalog is the ordered option list of one category.
type Catalog struct {
	category Category
	mode     Mode
	options  []Option
	index    map[string]int
}

// New builds a catalog for category. The none sentinel is placed first
// unless the caller already supplied one; later duplicates of an id are
// dropped so lookups stay deterministic.
func New(category Category, mode Mode, options ...Option) (*Catalog, error) {
	c := &Catalog{
		category: category,
		mode:     mode,
		options:  make([]Option, 0, len(options)+1),
		index:    make(map[string]int, len(options)+1),
	}

	hasNone := false
	for _, o := range options {
		if o.ID == NoneID {
			hasNone = true
			break
		}
	}
	if !hasNone {
		c.add(None())
	}

	for _, o := range options {
		if o.ID == "" {
			return nil, fmt.Errorf("catalog %s: option %q has no id", category, o.Name)
		}
		if o.Price.IsNegative() {
			return nil, fmt.Errorf("catalog %s: option %q has negative price %s", category, o.ID, o.Price)
		}
		if o.ID == NoneID {
			o.Price = decimal.Zero
		}
		if _, dup := c.index[o.ID]; dup {
			continue
		}
		c.add(o)
	}
	return c, nil
}

// MustNew is New for static definitions known to be valid.
func MustNew(category Category, mode Mode, options ...Option) *Catalog {
	c, err := New(category, mode, options...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) add(o Option) {
	c.index[o.ID] = len(c.options)
	c.options = append(c.options, o)
}

func (c *Catalog) Category() Category { return c.category }

func (c *Catalog) Mode() Mode { return c.mode }

// Options returns the options in presentation order.
func (c *Catalog) Options() []Option {
	out := make([]Option, len(c.options))
	copy(out, c.options)
	return out
}

// Find looks up an option by id. A missing option is reported with ok=false
// and must be priced as zero by the caller.
func (c *Catalog) Find(id string) (Option, bool) {
	i, ok := c.index[id]
	if !ok {
		return Option{}, false
	}
	return c.options[i], true
}

func (c *Catalog) Len() int { return len(c.options) }
