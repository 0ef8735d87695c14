package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/seat-storefront/internal/catalog"
	"github.com/jcmexdev/seat-storefront/internal/pkg/money"
	"github.com/jcmexdev/seat-storefront/internal/pricing"
)

// Catalog reports the loading state of every category and the product list.
func (h *Handler) Catalog(w http.ResponseWriter, _ *http.Request) {
	_, productState := h.registry.Products()
	writeJSON(w, http.StatusOK, CatalogResponse{
		Categories: h.registry.Statuses(),
		Products:   productState,
	})
}

// CategoryOptions lists one category's options. A category still loading
// or failed answers 200 with its state and no options.
func (h *Handler) CategoryOptions(w http.ResponseWriter, r *http.Request) {
	category := catalog.Category(chi.URLParam(r, "category"))
	st, ok := h.registry.Status(category)
	if !ok {
		writeError(w, http.StatusNotFound, "category_not_found", string(category))
		return
	}

	opts := h.registry.Options(category)
	out := make([]OptionResponse, 0, len(opts))
	for _, o := range opts {
		out = append(out, OptionResponse{ID: o.ID, Name: o.Name, Price: money.NewAmount(o.Price), HexCode: o.HexCode})
	}
	writeJSON(w, http.StatusOK, OptionsResponse{
		Category: st.Category,
		Mode:     st.Mode,
		State:    st.State,
		Error:    st.Error,
		Options:  out,
	})
}

func (h *Handler) ListProducts(w http.ResponseWriter, _ *http.Request) {
	products, state := h.registry.Products()
	list := products.List()
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, mapProduct(p))
	}
	writeJSON(w, http.StatusOK, ProductsResponse{State: state, Products: out})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_product_id", err.Error())
		return
	}
	p, ok := h.registry.Product(id)
	if !ok {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

// Quote prices a configuration on top of a product's price or an explicit
// base price.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var base decimal.Decimal
	switch {
	case req.BasePrice != nil:
		if req.BasePrice.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid_request", "base_price cannot be negative")
			return
		}
		base = req.BasePrice.Decimal
	case req.ProductID != 0:
		p, ok := h.registry.Product(req.ProductID)
		if !ok {
			writeError(w, http.StatusNotFound, "product_not_found", "")
			return
		}
		base = p.Price
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "product_id or base_price is required")
		return
	}

	sel := pricing.Normalize(toSelections(req.Selections), h.registry)
	q := pricing.Compose(base, sel, h.registry)

	lines := make([]QuoteLineResponse, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, QuoteLineResponse{
			Category: l.Category,
			ID:       l.Option.ID,
			Name:     l.Option.Name,
			Price:    money.NewAmount(l.Option.Price),
		})
	}
	unresolved := q.Unresolved
	if unresolved == nil {
		unresolved = []pricing.Unresolved{}
	}
	writeJSON(w, http.StatusOK, QuoteResponse{
		Base:        money.NewAmount(q.Base),
		Total:       money.NewAmount(q.Total),
		Description: pricing.Describe(sel, h.registry, catalog.DescribeOrder),
		Lines:       lines,
		Unresolved:  unresolved,
	})
}

func mapProduct(p catalog.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money.NewAmount(p.Price),
		Stock:       p.Stock,
		Category:    p.Category,
		Images:      images,
	}
}
