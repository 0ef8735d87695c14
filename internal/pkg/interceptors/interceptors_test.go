package interceptors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors/constants"
)

func TestGetMetadataValue_Precedence(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs(constants.HeaderXRequestId, "incoming"))
	assert.Equal(t, "incoming", RequestID(ctx))

	ctx = WithRequestID(ctx, "value")
	assert.Equal(t, "value", RequestID(ctx))

	out := metadata.AppendToOutgoingContext(context.Background(), constants.HeaderXIdempotencyKey, "outgoing")
	assert.Equal(t, "outgoing", IdempotencyKey(out))
	assert.Empty(t, RequestID(out))
}

func TestContextWithPropagatedID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithIdempotencyKey(ctx, "key-1")

	ctx = ContextWithPropagatedID(ctx)
	ctx = ContextWithPropagatedID(ctx)

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"req-1"}, md.Get(constants.HeaderXRequestId))
	assert.Equal(t, []string{"key-1"}, md.Get(constants.HeaderXIdempotencyKey))
}

func TestContextWithPropagatedID_NothingToPropagate(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, ContextWithPropagatedID(ctx))
}

func TestTraceServerInterceptor_MovesMetadataIntoContext(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		constants.HeaderXRequestId, "req-9",
		constants.HeaderXIdempotencyKey, "key-9",
	))

	var gotID, gotKey string
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		gotID = ctx.Value(constants.ContextKeyRequestID).(string)
		gotKey = ctx.Value(constants.ContextKeyIdempotencyKey).(string)
		return "ok", nil
	}

	resp, err := TraceServerInterceptor()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/test/Method"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "req-9", gotID)
	assert.Equal(t, "key-9", gotKey)
}

func TestUnaryClientInterceptor_AddsOutgoingMetadata(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-2")

	var got metadata.MD
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		got, _ = metadata.FromOutgoingContext(ctx)
		return nil
	}

	require.NoError(t, UnaryClientInterceptor()(ctx, "/test/Method", nil, nil, nil, invoker))
	assert.Equal(t, []string{"req-2"}, got.Get(constants.HeaderXRequestId))
}
