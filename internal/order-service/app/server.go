package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/seat-storefront/internal/checkout"
	"github.com/jcmexdev/seat-storefront/internal/order-service/adapters/grpc/mappers"
	"github.com/jcmexdev/seat-storefront/internal/order-service/domain"
	"github.com/jcmexdev/seat-storefront/internal/pkg/cache"
	"github.com/jcmexdev/seat-storefront/internal/pkg/events"
	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/seat-storefront/internal/pkg/metrics"
	"github.com/jcmexdev/seat-storefront/internal/pkg/orderrpc"
)

type OrderServer struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	byKey  map[string]string

	cache          cache.Cache
	idempotencyTTL time.Duration
	events         events.Publisher
	now            func() time.Time
}

var _ orderrpc.OrderServer = (*OrderServer)(nil)

func NewOrderServer(c cache.Cache, pub events.Publisher, idempotencyTTL time.Duration) *OrderServer {
	if pub == nil {
		pub = events.Nop{}
	}
	return &OrderServer{
		orders:         make(map[string]*domain.Order),
		byKey:          make(map[string]string),
		cache:          c,
		idempotencyTTL: idempotencyTTL,
		events:         pub,
		now:            time.Now,
	}
}

// CreateOrder stores a new pending order. A request repeating an
// idempotency key already seen returns the order created the first time;
// the same key with a different payload is rejected.
func (s *OrderServer) CreateOrder(ctx context.Context, req *orderrpc.CreateOrderRequest) (*orderrpc.OrderInfo, error) {
	if err := req.Payload.Verify(); err != nil {
		metrics.RecordOrderOperation("create", false)
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	key := interceptors.IdempotencyKey(ctx)
	cachedID := s.lookupKey(ctx, key)

	s.mu.Lock()
	id := s.byKey[key]
	if id == "" {
		id = cachedID
	}
	if existing, ok := s.orders[id]; ok && key != "" {
		info := mappers.OrderToInfo(existing)
		same := samePayload(existing.Payload, req.Payload)
		s.mu.Unlock()
		if !same {
			metrics.RecordOrderOperation("create", false)
			return nil, status.Errorf(codes.FailedPrecondition,
				"idempotency key %q was already used for order %s with a different payload", key, existing.ID)
		}
		slog.InfoContext(ctx, "order replayed", "order_id", existing.ID, "idempotency_key", key)
		return info, nil
	}

	order := mappers.OrderFromRequest(ctx, req, s.now().UTC())
	s.orders[order.ID] = order
	if key != "" {
		s.byKey[key] = order.ID
	}
	info := mappers.OrderToInfo(order)
	event := s.event(events.OrderCreated, order)
	s.mu.Unlock()

	if key != "" {
		if err := s.cache.Set(ctx, s.cache.GenerateKey("idempotency", key), order.ID, s.idempotencyTTL); err != nil {
			slog.WarnContext(ctx, "idempotency key not stored", "idempotency_key", key, "error", err)
		}
	}
	s.publish(ctx, event)
	metrics.RecordOrderOperation("create", true)
	slog.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"request_id", order.RequestID,
		"grand_total", order.Payload.CartSummary.GrandTotal.String(),
	)
	return info, nil
}

// lookupKey returns the order id stored for an idempotency key, or "".
func (s *OrderServer) lookupKey(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	id, err := s.cache.Get(ctx, s.cache.GenerateKey("idempotency", key))
	if err != nil {
		slog.WarnContext(ctx, "idempotency lookup failed", "idempotency_key", key, "error", err)
		return ""
	}
	return id
}

func samePayload(a, b checkout.Payload) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}

func (s *OrderServer) GetOrder(ctx context.Context, req *orderrpc.OrderRequest) (*orderrpc.OrderInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[req.ID]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "order %s not found", req.ID)
	}
	return mappers.OrderToInfo(order), nil
}

func (s *OrderServer) CancelOrder(ctx context.Context, req *orderrpc.OrderRequest) (*orderrpc.OrderInfo, error) {
	s.mu.Lock()
	order, ok := s.orders[req.ID]
	if !ok {
		s.mu.Unlock()
		return nil, status.Errorf(codes.NotFound, "order %s not found", req.ID)
	}
	changed, err := order.Cancel(req.Reason, s.now().UTC())
	if err != nil {
		s.mu.Unlock()
		metrics.RecordOrderOperation("cancel", false)
		if errors.Is(err, domain.ErrNotCancelable) {
			return nil, status.Errorf(codes.FailedPrecondition, "order %s is %s", req.ID, order.Status)
		}
		return nil, status.Errorf(codes.Internal, "cancel order %s: %v", req.ID, err)
	}
	info := mappers.OrderToInfo(order)
	event := s.event(events.OrderCancelled, order)
	s.mu.Unlock()

	if changed {
		s.publish(ctx, event)
		metrics.RecordOrderOperation("cancel", true)
		slog.InfoContext(ctx, "order cancelled", "order_id", req.ID, "reason", req.Reason)
	}
	return info, nil
}

func (s *OrderServer) event(typ string, o *domain.Order) events.Event {
	return events.Event{
		Type:       typ,
		OrderID:    o.ID,
		Priority:   o.Priority(),
		OccurredAt: o.UpdatedAt,
		Body:       mappers.OrderToEvent(o),
	}
}

// publish never fails the RPC: the order is already stored.
func (s *OrderServer) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "order event not published", "order_id", e.OrderID, "type", e.Type, "error", err)
	}
}
