package interceptors

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors/constants"
)

// TraceServerInterceptor moves the request id and idempotency key from the
// incoming metadata into the context and logs every call.
func TraceServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, exist := metadata.FromIncomingContext(ctx)
		requestID := ""
		idempotencyKey := ""
		if exist {
			if ids := md.Get(constants.HeaderXRequestId); len(ids) > 0 {
				requestID = ids[0]
			}
			if ids := md.Get(constants.HeaderXIdempotencyKey); len(ids) > 0 {
				idempotencyKey = ids[0]
			}
		}
		newCtx := WithRequestID(ctx, requestID)
		newCtx = WithIdempotencyKey(newCtx, idempotencyKey)

		start := time.Now()
		resp, err := handler(newCtx, req)

		attrs := []any{
			"method", info.FullMethod,
			"request_id", requestID,
			"idempotency_key", idempotencyKey,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		}
		if err != nil {
			slog.WarnContext(newCtx, "grpc call failed", append(attrs, "error", err)...)
		} else {
			slog.InfoContext(newCtx, "grpc call", attrs...)
		}
		return resp, err
	}
}
