// Package orderrpc is the gRPC contract between the storefront and the
// order service. Messages travel as google.protobuf.Struct values carrying
// the order JSON, so both sides share the checkout payload types directly.
package orderrpc

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/seat-storefront/internal/checkout"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
)

type CreateOrderRequest struct {
	Payload checkout.Payload `json:"payload"`
}

type OrderRequest struct {
	ID     string `json:"id"`
	Reason string `json:"reason,omitempty"`
}

// OrderInfo is an order as the order service reports it.
type OrderInfo struct {
	ID           string           `json:"id"`
	Status       Status           `json:"status"`
	CancelReason string           `json:"cancelReason,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	Payload      checkout.Payload `json:"payload"`
}

// Marshal converts a JSON-tagged value into a Struct message.
func Marshal(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("orderrpc: marshal %T: %w", v, err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("orderrpc: %T is not a JSON object: %w", v, err)
	}
	return s, nil
}

// Unmarshal decodes a Struct message into v.
func Unmarshal(s *structpb.Struct, v any) error {
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("orderrpc: marshal struct: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("orderrpc: unmarshal into %T: %w", v, err)
	}
	return nil
}
