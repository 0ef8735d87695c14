package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jcmexdev/seat-storefront/internal/checkout"
	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/seat-storefront/internal/pkg/orderrpc"
	"github.com/jcmexdev/seat-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/seat-storefront/internal/storefront/core/ports"
)

// GRPCOrderService is the ports.OrderService adapter over the order service.
// Errors keep their gRPC status so callers can branch on the code.
type GRPCOrderService struct {
	client orderrpc.OrderClient
}

var _ ports.OrderService = (*GRPCOrderService)(nil)

func NewGRPCOrderClient(client orderrpc.OrderClient) ports.OrderService {
	return &GRPCOrderService{client: client}
}

func (s *GRPCOrderService) CreateOrder(ctx context.Context, payload *checkout.Payload) (*entity.Order, error) {
	res, err := s.client.CreateOrder(interceptors.ContextWithPropagatedID(ctx), &orderrpc.CreateOrderRequest{Payload: *payload})
	if err != nil {
		return nil, fmt.Errorf("grpc CreateOrder: %w", err)
	}
	return mapOrderInfoToEntity(res), nil
}

func (s *GRPCOrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	res, err := s.client.GetOrder(interceptors.ContextWithPropagatedID(ctx), &orderrpc.OrderRequest{ID: id})
	if err != nil {
		return nil, fmt.Errorf("grpc GetOrder: %w", err)
	}
	return mapOrderInfoToEntity(res), nil
}

func (s *GRPCOrderService) CancelOrder(ctx context.Context, id, reason string) (*entity.Order, error) {
	res, err := s.client.CancelOrder(interceptors.ContextWithPropagatedID(ctx), &orderrpc.OrderRequest{ID: id, Reason: reason})
	if err != nil {
		return nil, fmt.Errorf("grpc CancelOrder: %w", err)
	}
	return mapOrderInfoToEntity(res), nil
}

func mapOrderInfoToEntity(o *orderrpc.OrderInfo) *entity.Order {
	return &entity.Order{
		ID:        o.ID,
		Status:    string(o.Status),
		Reason:    o.CancelReason,
		Payload:   o.Payload,
		CreatedAt: formatTime(o.CreatedAt),
		UpdatedAt: formatTime(o.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
