package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/financery/internal/ledger"
	"github.com/mmynk/financery/internal/middleware"
	"github.com/mmynk/financery/pkg/api"
)

// AdminService implements financery.v1.AdminService. Mount it behind
// middleware.RequireAdmin.
type AdminService struct {
	ledger *ledger.Service
}

// NewAdminService creates a new AdminService.
func NewAdminService(l *ledger.Service) *AdminService {
	return &AdminService{ledger: l}
}

// Handler returns the mux path and handler serving every AdminService procedure.
func (s *AdminService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, api.AdminServiceClearCacheProcedure, s.ClearCache, opts)
	unary(mux, api.AdminServiceClearCacheForUserProcedure, s.ClearCacheForUser, opts)
	unary(mux, api.AdminServiceListCachedUsersProcedure, s.ListCachedUsers, opts)
	return servicePath(api.AdminServiceName), mux
}

// ClearCache drops every cached transaction list.
func (s *AdminService) ClearCache(ctx context.Context, _ *api.ClearCacheRequest) (*api.Empty, error) {
	s.ledger.ClearCache()
	slog.Info("Cache cleared by operator", "subject", middleware.GetSubject(ctx))
	return &api.Empty{}, nil
}

// ClearCacheForUser drops one user's cached transaction list.
func (s *AdminService) ClearCacheForUser(ctx context.Context, req *api.ClearCacheForUserRequest) (*api.Empty, error) {
	s.ledger.ClearCacheForUser(req.UserID)
	slog.Info("User cache cleared by operator", "subject", middleware.GetSubject(ctx), "user_id", req.UserID)
	return &api.Empty{}, nil
}

// ListCachedUsers returns the cached user IDs, most recently used first.
func (s *AdminService) ListCachedUsers(ctx context.Context, _ *api.ListCachedUsersRequest) (*api.ListCachedUsersResponse, error) {
	return &api.ListCachedUsersResponse{UserIDs: s.ledger.CachedUsers()}, nil
}
