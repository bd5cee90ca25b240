package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/financery/internal/auth"
	"github.com/mmynk/financery/internal/metrics"
)

type empty struct{}

func ok(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
	return connect.NewResponse(&empty{}), nil
}

func TestRequireAdmin(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", "financery", time.Hour)
	adminToken, err := jwtManager.Generate("ops", auth.RoleAdmin)
	require.NoError(t, err)
	readerToken, err := jwtManager.Generate("viewer", "reader")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   connect.Code
	}{
		{"missing header", "", connect.CodeUnauthenticated},
		{"not bearer", "Basic abc", connect.CodeUnauthenticated},
		{"bad token", "Bearer abc", connect.CodeUnauthenticated},
		{"wrong role", "Bearer " + readerToken, connect.CodePermissionDenied},
		{"admin", "Bearer " + adminToken, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subject string
			handler := RequireAdmin(jwtManager)(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				subject = GetSubject(ctx)
				return ok(ctx, req)
			})

			req := connect.NewRequest(&empty{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := handler(context.Background(), req)
			if tt.code == 0 {
				require.NoError(t, err)
				assert.Equal(t, "ops", subject)
				return
			}
			assert.Equal(t, tt.code, connect.CodeOf(err))
			assert.Empty(t, subject)
		})
	}
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	handler := MetricsInterceptor(m)(ok)
	_, err := handler(context.Background(), connect.NewRequest(&empty{}))
	require.NoError(t, err)

	failing := MetricsInterceptor(m)(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	})
	_, err = failing(context.Background(), connect.NewRequest(&empty{}))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "not_found")))

	// A nil collector set records nothing and does not panic.
	_, err = MetricsInterceptor(nil)(ok)(context.Background(), connect.NewRequest(&empty{}))
	assert.NoError(t, err)
}

func TestLoggingInterceptorPassesThrough(t *testing.T) {
	want := connect.NewError(connect.CodeInvalidArgument, errors.New("bad"))
	handler := LoggingInterceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, want
	})

	_, err := handler(context.Background(), connect.NewRequest(&empty{}))
	assert.Same(t, want, err)
}
