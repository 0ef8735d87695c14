package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/seat-storefront/internal/checkout"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrNotCancelable = errors.New("order cannot be cancelled")
)

// PriorityThreshold is the grand total above which order events jump the queue.
var PriorityThreshold = decimal.NewFromInt(1000)

const (
	PriorityHigh   uint8 = 9
	PriorityNormal uint8 = 5
)

type Order struct {
	ID             string
	Payload        checkout.Payload
	Status         OrderStatus
	IdempotencyKey string
	RequestID      string
	CancelReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (o *Order) GrandTotal() decimal.Decimal {
	return o.Payload.CartSummary.GrandTotal.Decimal
}

// Priority is the broker priority for this order's events.
func (o *Order) Priority() uint8 {
	if o.GrandTotal().GreaterThan(PriorityThreshold) {
		return PriorityHigh
	}
	return PriorityNormal
}

// Cancel moves a pending order to cancelled. Cancelling twice is a no-op
// and reports changed=false.
func (o *Order) Cancel(reason string, now time.Time) (changed bool, err error) {
	switch o.Status {
	case StatusCancelled:
		return false, nil
	case StatusPending:
		o.Status = StatusCancelled
		o.CancelReason = reason
		o.UpdatedAt = now
		return true, nil
	}
	return false, ErrNotCancelable
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
