package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jcmexdev/seat-storefront/internal/pkg/money"
)

// OptionRecord is an option as the backend returns it. Id may be a number
// or a string; a missing price means zero.
type OptionRecord struct {
	ID      json.RawMessage `json:"id"`
	Name    string          `json:"name"`
	HexCode string          `json:"hex_code,omitempty"`
	Price   any             `json:"price,omitempty"`
}

// ProductRecord is a product as the backend returns it.
type ProductRecord struct {
	ID          json.RawMessage   `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       any               `json:"price"`
	Stock       int               `json:"stock"`
	Category    json.RawMessage   `json:"category"`
	Images      []json.RawMessage `json:"images"`
	IsActive    *bool             `json:"is_active"`
}

// DecodeList unwraps the list envelopes the backend uses: a bare array,
// {"data": [...]} or {"data": {"data": [...]}}. An empty body or a null
// list decodes to nil.
func DecodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	for depth := 0; depth < 3; depth++ {
		if body[0] == '[' {
			var out []T
			if err := json.Unmarshal(body, &out); err != nil {
				return nil, fmt.Errorf("catalog: decode list: %w", err)
			}
			return out, nil
		}

		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("catalog: decode envelope: %w", err)
		}
		body = bytes.TrimSpace(env.Data)
		if len(body) == 0 || bytes.Equal(body, []byte("null")) {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("catalog: list nested too deeply")
}

// NormalizeOption converts a record into an Option.
func NormalizeOption(rec OptionRecord) (Option, error) {
	id, err := rawID(rec.ID)
	if err != nil {
		return Option{}, err
	}
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return Option{}, fmt.Errorf("catalog: option %s has no name", id)
	}
	price, err := money.FromAny(rec.Price)
	if err != nil {
		return Option{}, fmt.Errorf("catalog: option %s: %w", id, err)
	}
	if price.IsNegative() {
		return Option{}, fmt.Errorf("catalog: option %s has negative price", id)
	}
	return Option{ID: id, Name: name, Price: price, HexCode: rec.HexCode}, nil
}

// NormalizeOptions converts every usable record and returns the rejects
// separately so the caller can log them.
func NormalizeOptions(recs []OptionRecord) ([]Option, []error) {
	out := make([]Option, 0, len(recs))
	var rejects []error
	for _, r := range recs {
		o, err := NormalizeOption(r)
		if err != nil {
			rejects = append(rejects, err)
			continue
		}
		out = append(out, o)
	}
	return out, rejects
}

// NormalizeProduct converts a record into a Product. Products without an
// explicit is_active flag are treated as active.
func NormalizeProduct(rec ProductRecord) (Product, error) {
	idStr, err := rawID(rec.ID)
	if err != nil {
		return Product{}, err
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: product id %q is not numeric", idStr)
	}
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return Product{}, fmt.Errorf("catalog: product %d has no name", id)
	}
	price, err := money.FromAny(rec.Price)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: product %d: %w", id, err)
	}

	active := true
	if rec.IsActive != nil {
		active = *rec.IsActive
	}

	return Product{
		ID:          id,
		Name:        name,
		Description: rec.Description,
		Price:       price,
		Stock:       rec.Stock,
		Category:    categoryName(rec.Category),
		Images:      imagePaths(rec.Images),
		Active:      active,
	}, nil
}

func NormalizeProducts(recs []ProductRecord) ([]Product, []error) {
	out := make([]Product, 0, len(recs))
	var rejects []error
	for _, r := range recs {
		p, err := NormalizeProduct(r)
		if err != nil {
			rejects = append(rejects, err)
			continue
		}
		out = append(out, p)
	}
	return out, rejects
}

func rawID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("catalog: record has no id")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("catalog: decode id: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", fmt.Errorf("catalog: record has empty id")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("catalog: decode id %s: %w", raw, err)
	}
	return n.String(), nil
}

// categoryName accepts either "Seats" or {"name": "Seats"}.
func categoryName(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

// imagePaths accepts plain paths and {"image_path": "..."} objects.
func imagePaths(raw []json.RawMessage) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			if s != "" {
				out = append(out, s)
			}
			continue
		}
		var obj struct {
			ImagePath string `json:"image_path"`
		}
		if err := json.Unmarshal(r, &obj); err == nil && obj.ImagePath != "" {
			out = append(out, obj.ImagePath)
		}
	}
	return out
}
