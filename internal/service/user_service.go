package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/financery/internal/ledger"
	"github.com/mmynk/financery/pkg/api"
)

// UserService implements financery.v1.UserService.
type UserService struct {
	ledger *ledger.Service
}

// NewUserService creates a new UserService.
func NewUserService(l *ledger.Service) *UserService {
	return &UserService{ledger: l}
}

// Handler returns the mux path and handler serving every UserService procedure.
func (s *UserService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, api.UserServiceCreateUserProcedure, s.CreateUser, opts)
	unary(mux, api.UserServiceGetUserProcedure, s.GetUser, opts)
	unary(mux, api.UserServiceListUsersProcedure, s.ListUsers, opts)
	unary(mux, api.UserServiceUpdateUserProcedure, s.UpdateUser, opts)
	unary(mux, api.UserServiceDeleteUserProcedure, s.DeleteUser, opts)
	return servicePath(api.UserServiceName), mux
}

// CreateUser registers a user with a zero balance.
func (s *UserService) CreateUser(ctx context.Context, req *api.CreateUserRequest) (*api.UserResponse, error) {
	user, err := s.ledger.CreateUser(ctx, req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	return &api.UserResponse{User: toAPIUser(user)}, nil
}

// GetUser returns one user.
func (s *UserService) GetUser(ctx context.Context, req *api.GetUserRequest) (*api.UserResponse, error) {
	user, err := s.ledger.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &api.UserResponse{User: toAPIUser(user)}, nil
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context, _ *api.ListUsersRequest) (*api.ListUsersResponse, error) {
	users, err := s.ledger.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]api.User, len(users))
	for i := range users {
		out[i] = toAPIUser(&users[i])
	}
	return &api.ListUsersResponse{Users: out}, nil
}

// UpdateUser changes name and email.
func (s *UserService) UpdateUser(ctx context.Context, req *api.UpdateUserRequest) (*api.UserResponse, error) {
	user, err := s.ledger.UpdateUser(ctx, req.UserID, req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	return &api.UserResponse{User: toAPIUser(user)}, nil
}

// DeleteUser removes the user and everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, req *api.DeleteUserRequest) (*api.Empty, error) {
	if err := s.ledger.DeleteUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}
