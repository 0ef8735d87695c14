package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/seat-storefront/internal/cart"
	"github.com/jcmexdev/seat-storefront/internal/checkout"
	"github.com/jcmexdev/seat-storefront/internal/coordinator"
	"github.com/jcmexdev/seat-storefront/internal/coordinator/checkoutlog"
	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/seat-storefront/internal/pkg/metrics"
	"github.com/jcmexdev/seat-storefront/internal/pricing"
)

const checkoutTimeout = 15 * time.Second

// Checkout turns the session cart into an order. The form is validated
// before anything is submitted; on any failure the cart is left as it was.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, st := h.store(r)
	snapshot := st.State()
	payload, err := h.builder.BuildFromCart(snapshot, req.form(), h.policy)
	if err != nil {
		metrics.RecordOrderOperation("checkout", false)
		if !writeValidation(w, err) {
			writeError(w, http.StatusInternalServerError, "checkout_failed", err.Error())
		}
		return
	}

	submit := coordinator.NewSubmitOrderStep(h.orders, payload)
	attemptID, err := h.runCheckout(r.Context(), payload, submit, coordinator.NewClearCartStep(st, snapshot.Items))
	if err != nil {
		metrics.RecordOrderOperation("checkout", false)
		writeOrderError(w, err)
		return
	}

	metrics.RecordOrderOperation("checkout", true)
	writeJSON(w, http.StatusCreated, mapOrderToResponse(submit.Order(), attemptID))
}

// AdminCreateOrder places a back-office order from explicit lines with the
// tax and discount typed by staff.
func (h *Handler) AdminCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req AdminOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lines := make([]checkout.Line, 0, len(req.Items))
	for i, it := range req.Items {
		sel := pricing.Normalize(toSelections(it.Selections), h.registry)
		line := checkout.Line{
			ProductID:   it.ProductID,
			VariationID: cart.LineKey(it.ProductID, sel.Signature()),
			Selections:  sel,
			Quantity:    it.Quantity,
			Discount:    it.Discount.Decimal,
		}
		if it.UnitPrice != nil {
			line.UnitPrice = it.UnitPrice.Decimal
		} else if p, ok := h.registry.Product(it.ProductID); ok {
			line.UnitPrice = pricing.ComputeTotal(p.Price, sel, h.registry)
		} else {
			writeError(w, http.StatusUnprocessableEntity, "validation_failed",
				fmt.Sprintf("items[%d]: unitPrice is required for unknown product %d", i, it.ProductID))
			return
		}
		lines = append(lines, line)
	}

	policy := checkout.AdminPolicy{Tax: req.Tax.Decimal, Discount: req.Discount.Decimal}
	payload, err := h.builder.Build(lines, req.form(), policy)
	if err != nil {
		metrics.RecordOrderOperation("admin_create", false)
		if !writeValidation(w, err) {
			writeError(w, http.StatusInternalServerError, "order_failed", err.Error())
		}
		return
	}

	submit := coordinator.NewSubmitOrderStep(h.orders, payload)
	attemptID, err := h.runCheckout(r.Context(), payload, submit)
	if err != nil {
		metrics.RecordOrderOperation("admin_create", false)
		writeOrderError(w, err)
		return
	}
	metrics.RecordOrderOperation("admin_create", true)
	writeJSON(w, http.StatusCreated, mapOrderToResponse(submit.Order(), attemptID))
}

func (h *Handler) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order, ""))
}

func (h *Handler) AdminCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.orders.CancelOrder(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		metrics.RecordOrderOperation("cancel", false)
		writeOrderError(w, err)
		return
	}
	metrics.RecordOrderOperation("cancel", true)
	writeJSON(w, http.StatusOK, mapOrderToResponse(order, ""))
}

// AdminGetCheckout reports the latest state and full history of one
// checkout attempt, by the attempt_id returned when the order was placed.
func (h *Handler) AdminGetCheckout(w http.ResponseWriter, r *http.Request) {
	if h.checkoutLog == nil {
		writeError(w, http.StatusServiceUnavailable, "checkout_log_disabled", "checkout log is not configured")
		return
	}
	attemptID := chi.URLParam(r, "attempt")

	latest, err := h.checkoutLog.GetLatest(r.Context(), attemptID)
	if errors.Is(err, checkoutlog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "checkout_not_found", err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "checkout_log_error", err.Error())
		return
	}
	entries, err := h.checkoutLog.History(r.Context(), attemptID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "checkout_log_error", err.Error())
		return
	}

	resp := CheckoutAttemptResponse{
		AttemptID: attemptID,
		Status:    string(latest.Status),
		History:   make([]CheckoutLogEntry, 0, len(entries)),
	}
	for _, e := range entries {
		errs := json.RawMessage(e.ErrorMessages)
		if !json.Valid(errs) {
			errs = json.RawMessage("[]")
		}
		resp.History = append(resp.History, CheckoutLogEntry{
			Status:    string(e.Status),
			Step:      e.CurrentStep,
			Errors:    errs,
			TraceID:   e.TraceID,
			UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// runCheckout runs the steps detached from the request's cancellation so a
// client hanging up cannot stop an order half way.
func (h *Handler) runCheckout(ctx context.Context, payload *checkout.Payload, steps ...coordinator.Step) (string, error) {
	attemptID := uuid.NewString()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), checkoutTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return attemptID, fmt.Errorf("encode payload: %w", err)
	}

	slog.InfoContext(ctx, "starting checkout",
		"attempt_id", attemptID,
		"request_id", interceptors.RequestID(ctx),
		"grand_total", payload.CartSummary.GrandTotal.String(),
	)
	err = coordinator.NewOrchestrator(attemptID, steps, h.checkoutLog).
		WithPayload(string(body)).
		Start(ctx)
	return attemptID, err
}

// writeOrderError maps order service failures onto HTTP statuses.
func writeOrderError(w http.ResponseWriter, err error) {
	switch status.Code(err) {
	case codes.InvalidArgument:
		writeError(w, http.StatusUnprocessableEntity, "order_rejected", err.Error())
	case codes.NotFound:
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case codes.FailedPrecondition:
		writeError(w, http.StatusConflict, "order_conflict", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "order_service_error", err.Error())
	}
}
