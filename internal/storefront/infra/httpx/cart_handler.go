package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/seat-storefront/internal/cart"
	"github.com/jcmexdev/seat-storefront/internal/catalog"
	"github.com/jcmexdev/seat-storefront/internal/pkg/money"
	"github.com/jcmexdev/seat-storefront/internal/pricing"
)

func (h *Handler) store(r *http.Request) (string, *cart.Store) {
	session := chi.URLParam(r, "session")
	return session, h.sessions.Get(r.Context(), session)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	session, st := h.store(r)
	writeJSON(w, http.StatusOK, CartResponse{Session: session, State: st.State()})
}

// AddItem prices the configuration server-side and adds it to the cart.
// The same configuration added twice becomes one line with summed quantity.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, ok := h.registry.Product(req.ProductID)
	if !ok || !p.Active {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}

	sel := pricing.Normalize(toSelections(req.Selections), h.registry)
	q := pricing.Compose(p.Price, sel, h.registry)
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	session, st := h.store(r)
	state := st.AddItem(cart.Item{
		ID:          p.ID,
		Title:       p.Name,
		Price:       money.Format(q.Total),
		Image:       p.Image(),
		Description: pricing.Describe(sel, h.registry, catalog.DescribeOrder),
		Category:    p.Category,
		Quantity:    quantity,
		Selections:  sel,
	})
	writeJSON(w, http.StatusOK, CartResponse{Session: session, State: state})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	key := chi.URLParam(r, "key")
	session, st := h.store(r)
	if _, ok := st.State().Find(key); !ok {
		writeError(w, http.StatusNotFound, "item_not_found", key)
		return
	}
	writeJSON(w, http.StatusOK, CartResponse{Session: session, State: st.UpdateQuantity(key, req.Quantity)})
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	session, st := h.store(r)
	if _, ok := st.State().Find(key); !ok {
		writeError(w, http.StatusNotFound, "item_not_found", key)
		return
	}
	writeJSON(w, http.StatusOK, CartResponse{Session: session, State: st.RemoveItem(key)})
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session, st := h.store(r)
	writeJSON(w, http.StatusOK, CartResponse{Session: session, State: st.Clear()})
}
