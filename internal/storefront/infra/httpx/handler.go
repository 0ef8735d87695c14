package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jcmexdev/seat-storefront/internal/cart"
	"github.com/jcmexdev/seat-storefront/internal/catalog"
	"github.com/jcmexdev/seat-storefront/internal/checkout"
	"github.com/jcmexdev/seat-storefront/internal/coordinator/checkoutlog"
	"github.com/jcmexdev/seat-storefront/internal/pricing"
	"github.com/jcmexdev/seat-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/seat-storefront/internal/storefront/core/ports"
)

const maxBodyBytes = 1 << 20

// Handler serves the storefront API: catalog browsing, price quotes, carts
// and checkout, plus the back-office order routes.
type Handler struct {
	registry    *catalog.Registry
	sessions    *cart.Sessions
	builder     *checkout.Builder
	policy      checkout.Policy
	orders      ports.OrderService
	checkoutLog checkoutlog.Store // nil-safe: logging skipped if nil
}

// NewHandler wires the handler. checkoutLog may be nil.
func NewHandler(
	registry *catalog.Registry,
	sessions *cart.Sessions,
	builder *checkout.Builder,
	policy checkout.Policy,
	orders ports.OrderService,
	checkoutLog checkoutlog.Store,
) *Handler {
	return &Handler{
		registry:    registry,
		sessions:    sessions,
		builder:     builder,
		policy:      policy,
		orders:      orders,
		checkoutLog: checkoutLog,
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func toSelections(raw map[string][]string) pricing.SelectionSet {
	out := make(pricing.SelectionSet, len(raw))
	for c, ids := range raw {
		out[catalog.Category(c)] = ids
	}
	return out
}

func mapOrderToResponse(order *entity.Order, attemptID string) OrderResponse {
	return OrderResponse{
		ID:        order.ID,
		Status:    order.Status,
		Reason:    order.Reason,
		AttemptID: attemptID,
		Order:     order.Payload,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeValidation answers 422 with one message per offending field.
func writeValidation(w http.ResponseWriter, err error) bool {
	var verr *checkout.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_failed",
		Message: "the order form has problems",
		Fields:  verr.Problems,
	})
	return true
}
