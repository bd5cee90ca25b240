package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/financery/internal/metrics"
)

// MetricsInterceptor records a request count and a latency observation per
// procedure. The code label is "ok" for successful calls.
func MetricsInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.ObserveRPC(req.Spec().Procedure, code, time.Since(start).Seconds())
			return resp, err
		}
	}
}
