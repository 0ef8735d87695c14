package coordinator

import (
	"context"
	"fmt"

	"github.com/jcmexdev/seat-storefront/internal/cart"
	"github.com/jcmexdev/seat-storefront/internal/checkout"
	"github.com/jcmexdev/seat-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/seat-storefront/internal/storefront/core/ports"
)

// --- SubmitOrderStep ---

type SubmitOrderStep struct {
	orders  ports.OrderService
	payload *checkout.Payload
	order   *entity.Order
}

func NewSubmitOrderStep(orders ports.OrderService, payload *checkout.Payload) *SubmitOrderStep {
	return &SubmitOrderStep{orders: orders, payload: payload}
}

func (s *SubmitOrderStep) Name() string { return "Submit_Order_Step" }

func (s *SubmitOrderStep) Execute(ctx context.Context) error {
	order, err := s.orders.CreateOrder(ctx, s.payload)
	if err != nil {
		return fmt.Errorf("failed to submit order: %w", err)
	}
	s.order = order
	return nil
}

func (s *SubmitOrderStep) Compensate(ctx context.Context) error {
	if s.order == nil {
		return nil
	}
	_, err := s.orders.CancelOrder(ctx, s.order.ID, "checkout rolled back")
	return err
}

// Order is the submitted order, or nil before a successful Execute.
func (s *SubmitOrderStep) Order() *entity.Order { return s.order }

// --- ClearCartStep ---

// ClearCartStep takes the ordered lines out of the cart once the order is
// accepted. Lines added or raised after the order was built stay in the
// cart. Compensation puts back exactly what was taken.
type ClearCartStep struct {
	store   *cart.Store
	ordered []cart.Item
	taken   []cart.Item
}

// NewClearCartStep removes ordered, the cart lines the payload was built
// from, from store.
func NewClearCartStep(store *cart.Store, ordered []cart.Item) *ClearCartStep {
	return &ClearCartStep{store: store, ordered: ordered}
}

func (s *ClearCartStep) Name() string { return "Clear_Cart_Step" }

func (s *ClearCartStep) Execute(context.Context) error {
	s.taken = s.store.Take(s.ordered)
	return nil
}

func (s *ClearCartStep) Compensate(context.Context) error {
	for _, it := range s.taken {
		s.store.Dispatch(cart.Add(it))
	}
	s.taken = nil
	return nil
}
