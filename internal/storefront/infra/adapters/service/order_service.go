package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/seat-storefront/internal/checkout"
	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/seat-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/seat-storefront/internal/storefront/core/ports"
)

var _ ports.OrderService = (*FakeOrderService)(nil)

// FakeOrderService is an in-memory ports.OrderService for local development
// and tests. It answers with the same gRPC codes as the real service.
type FakeOrderService struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
	byKey  map[string]string

	// Err, when set, fails every call with it.
	Err error
	// BeforeCreate, when set, runs at the start of every CreateOrder.
	BeforeCreate func()
}

func NewFakeOrderService() *FakeOrderService {
	return &FakeOrderService{
		orders: make(map[string]*entity.Order),
		byKey:  make(map[string]string),
	}
}

func (f *FakeOrderService) CreateOrder(ctx context.Context, payload *checkout.Payload) (*entity.Order, error) {
	if f.BeforeCreate != nil {
		f.BeforeCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if err := payload.Verify(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	key := interceptors.IdempotencyKey(ctx)
	if id, ok := f.byKey[key]; ok && key != "" {
		o := *f.orders[id]
		return &o, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	o := &entity.Order{
		ID:        uuid.NewString(),
		Status:    "PENDING",
		Payload:   *payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.orders[o.ID] = o
	if key != "" {
		f.byKey[key] = o.ID
	}
	out := *o
	return &out, nil
}

func (f *FakeOrderService) GetOrder(_ context.Context, id string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("GetOrder: %w", status.Errorf(codes.NotFound, "order %s not found", id))
	}
	out := *o
	return &out, nil
}

func (f *FakeOrderService) CancelOrder(_ context.Context, id, reason string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("CancelOrder: %w", status.Errorf(codes.NotFound, "order %s not found", id))
	}
	if o.Status != "CANCELLED" {
		o.Status = "CANCELLED"
		o.Reason = reason
		o.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	out := *o
	return &out, nil
}

// Orders returns the number of stored orders.
func (f *FakeOrderService) Orders() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}
