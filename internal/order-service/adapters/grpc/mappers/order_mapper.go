package mappers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/seat-storefront/internal/order-service/domain"
	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/seat-storefront/internal/pkg/orderrpc"
)

func OrderFromRequest(ctx context.Context, req *orderrpc.CreateOrderRequest, now time.Time) *domain.Order {
	if req == nil {
		return nil
	}

	return &domain.Order{
		ID:             uuid.NewString(),
		Payload:        req.Payload,
		Status:         domain.StatusPending,
		IdempotencyKey: interceptors.IdempotencyKey(ctx),
		RequestID:      interceptors.RequestID(ctx),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func OrderToInfo(o *domain.Order) *orderrpc.OrderInfo {
	if o == nil {
		return nil
	}

	return &orderrpc.OrderInfo{
		ID:           o.ID,
		Status:       mapStatus(o.Status),
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Payload:      o.Payload,
	}
}

// OrderEvent is the broker message body for order events.
type OrderEvent struct {
	OrderID    string `json:"orderId"`
	Status     string `json:"status"`
	CustomerID int    `json:"customerId"`
	Email      string `json:"email"`
	GrandTotal string `json:"grandTotal"`
	Currency   string `json:"currency"`
	Items      int    `json:"items"`
	Reason     string `json:"reason,omitempty"`
}

func OrderToEvent(o *domain.Order) OrderEvent {
	items := 0
	for _, it := range o.Payload.CartItems {
		items += it.Quantity
	}
	return OrderEvent{
		OrderID:    o.ID,
		Status:     string(o.Status),
		CustomerID: o.Payload.CustomerInfo.CustomerID,
		Email:      o.Payload.CustomerInfo.Email,
		GrandTotal: o.Payload.CartSummary.GrandTotal.String(),
		Currency:   o.Payload.PaymentInfo.Currency,
		Items:      items,
		Reason:     o.CancelReason,
	}
}

func mapStatus(s domain.OrderStatus) orderrpc.Status {
	switch s {
	case domain.StatusCancelled:
		return orderrpc.StatusCancelled
	case domain.StatusPending:
		return orderrpc.StatusPending
	}
	return orderrpc.Status(s)
}
