package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors/constants"
)

// WithRequestID stores the request id in ctx for later propagation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyRequestID, id)
}

// WithIdempotencyKey stores the idempotency key in ctx for later propagation.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyIdempotencyKey, key)
}

func RequestID(ctx context.Context) string {
	return GetMetadataValue(ctx, constants.HeaderXRequestId)
}

func IdempotencyKey(ctx context.Context) string {
	return GetMetadataValue(ctx, constants.HeaderXIdempotencyKey)
}

// GetMetadataValue looks key up in the context values first, then in the
// incoming and outgoing gRPC metadata. It returns "" when absent.
func GetMetadataValue(ctx context.Context, key string) string {
	if v, ok := ctx.Value(contextKeyFor(key)).(string); ok && v != "" {
		return v
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}

	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}

func contextKeyFor(header string) any {
	switch header {
	case constants.HeaderXRequestId:
		return constants.ContextKeyRequestID
	case constants.HeaderXIdempotencyKey:
		return constants.ContextKeyIdempotencyKey
	}
	return header
}

// ContextWithPropagatedID copies the request id and idempotency key into
// the outgoing gRPC metadata.
// Values already present in the outgoing metadata are not duplicated.
func ContextWithPropagatedID(ctx context.Context) context.Context {
	out, _ := metadata.FromOutgoingContext(ctx)
	var kv []string
	for _, header := range []string{constants.HeaderXRequestId, constants.HeaderXIdempotencyKey} {
		if len(out.Get(header)) > 0 {
			continue
		}
		if v := GetMetadataValue(ctx, header); v != "" {
			kv = append(kv, header, v)
		}
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

// UnaryClientInterceptor propagates request metadata on every outgoing call.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(ContextWithPropagatedID(ctx), method, req, reply, cc, opts...)
	}
}
