package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/seat-storefront/internal/pkg/interceptors/constants"
)

// AttachTracingMetadata puts the chi request id and the client's
// idempotency key in the request context, from where outgoing gRPC calls
// pick them up.
func AttachTracingMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := interceptors.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ctx = interceptors.WithIdempotencyKey(ctx, r.Header.Get(constants.HeaderXIdempotencyKey))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
