package pricing

import (
	"sort"
	"strings"

	"github.com/jcmexdev/seat-storefront/internal/catalog"
)

// SelectionSet maps a category to the option ids chosen in it.
type SelectionSet map[catalog.Category][]string

// Select makes id the only choice in category. Single-select categories
// must be mutated through Select.
func (s SelectionSet) Select(category catalog.Category, id string) {
	s[category] = []string{id}
}

// Add appends id to category unless it is already chosen.
func (s SelectionSet) Add(category catalog.Category, id string) {
	for _, existing := range s[category] {
		if existing == id {
			return
		}
	}
	s[category] = append(s[category], id)
}

// Remove drops id from category, deleting the category when it empties.
func (s SelectionSet) Remove(category catalog.Category, id string) {
	ids := s[category]
	out := ids[:0:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	if len(out) == 0 {
		delete(s, category)
		return
	}
	s[category] = out
}

func (s SelectionSet) Clone() SelectionSet {
	if s == nil {
		return nil
	}
	out := make(SelectionSet, len(s))
	for c, ids := range s {
		out[c] = append([]string(nil), ids...)
	}
	return out
}

// Categories returns the categories with at least one id, sorted.
func (s SelectionSet) Categories() []catalog.Category {
	out := make([]catalog.Category, 0, len(s))
	for c, ids := range s {
		if len(ids) > 0 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Signature is a canonical string for the configuration: categories and
// ids sorted, empty categories and "none" choices left out, so two sets
// that price and describe the same seat share a signature.
func (s SelectionSet) Signature() string {
	var b strings.Builder
	for _, c := range s.Categories() {
		ids := make([]string, 0, len(s[c]))
		seen := make(map[string]bool, len(s[c]))
		for _, id := range s[c] {
			if id == catalog.NoneID || id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			continue
		}
		sort.Strings(ids)
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		b.WriteString(string(c))
		b.WriteByte('=')
		b.WriteString(strings.Join(ids, ","))
	}
	return b.String()
}

// ModeLookup reports whether a category is single- or multi-select.
type ModeLookup interface {
	Mode(category catalog.Category) catalog.Mode
}

// Normalize builds a clean copy of raw as it arrives from a client: blank
// ids are dropped, duplicates collapse, and single-select categories keep
// only the last id sent.
func Normalize(raw SelectionSet, modes ModeLookup) SelectionSet {
	out := make(SelectionSet, len(raw))
	for c, ids := range raw {
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if modes.Mode(c) == catalog.SingleSelect {
				out.Select(c, id)
			} else {
				out.Add(c, id)
			}
		}
	}
	return out
}
