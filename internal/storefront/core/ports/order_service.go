package ports

import (
	"context"

	"github.com/jcmexdev/seat-storefront/internal/checkout"
	"github.com/jcmexdev/seat-storefront/internal/storefront/core/domain/entity"
)

// OrderService submits and manages orders. The idempotency key and request
// id travel in ctx.
type OrderService interface {
	CreateOrder(ctx context.Context, payload *checkout.Payload) (*entity.Order, error)
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	CancelOrder(ctx context.Context, id, reason string) (*entity.Order, error)
}
