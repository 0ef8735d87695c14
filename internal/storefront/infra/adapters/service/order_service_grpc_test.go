package service

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/jcmexdev/seat-storefront/internal/checkout"
	"github.com/jcmexdev/seat-storefront/internal/order-service/app"
	"github.com/jcmexdev/seat-storefront/internal/pkg/cache"
	"github.com/jcmexdev/seat-storefront/internal/pkg/events"
	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/seat-storefront/internal/pkg/money"
	"github.com/jcmexdev/seat-storefront/internal/pkg/orderrpc"
	"github.com/jcmexdev/seat-storefront/internal/storefront/core/ports"
)

func dialOrderService(t *testing.T) ports.OrderService {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer(grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()))
	orderrpc.RegisterOrderServer(gs, app.NewOrderServer(cache.NewMemory("order"), events.Nop{}, time.Hour))
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewGRPCOrderClient(orderrpc.NewOrderClient(conn))
}

func samplePayload() *checkout.Payload {
	unit := money.MustAmount("19.99")
	total := money.MustAmount("59.97")
	zero := money.MustAmount("0")
	return &checkout.Payload{
		CartItems: []checkout.LineItem{{
			ProductID: 2, VariationID: "2", ProductName: "Lumbar Pillow", VariationName: "Standard",
			Quantity: 3, UnitPrice: unit, DiscountAmount: zero, Total: total,
		}},
		CustomerInfo: checkout.CustomerInfo{CustomerID: 7},
		PaymentInfo:  checkout.PaymentInfo{Method: checkout.PaymentCash, Amount: total, Currency: "USD"},
		CartSummary:  checkout.CartSummary{SubTotal: total, Tax: zero, Discount: zero, GrandTotal: total},
	}
}

func TestGRPCOrderService_RoundTrip(t *testing.T) {
	svc := dialOrderService(t)
	ctx := interceptors.WithIdempotencyKey(context.Background(), "idem-1")

	created, err := svc.CreateOrder(ctx, samplePayload())
	require.NoError(t, err)
	assert.Equal(t, "PENDING", created.Status)
	assert.NotEmpty(t, created.CreatedAt)
	assert.Equal(t, "59.97", created.Payload.CartSummary.GrandTotal.String())
	assert.Equal(t, "19.99", created.Payload.CartItems[0].UnitPrice.String())

	again, err := svc.CreateOrder(ctx, samplePayload())
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID, "idempotency key travels as metadata")

	got, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	cancelled, err := svc.CancelOrder(context.Background(), created.ID, "changed mind")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.Equal(t, "changed mind", cancelled.Reason)
}

func TestGRPCOrderService_KeepsStatusCodes(t *testing.T) {
	svc := dialOrderService(t)

	_, err := svc.GetOrder(context.Background(), "missing")
	assert.Equal(t, codes.NotFound, status.Code(err))

	bad := samplePayload()
	bad.CartSummary.GrandTotal = money.MustAmount("1")
	_, err = svc.CreateOrder(context.Background(), bad)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
