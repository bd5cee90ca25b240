package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/financery/internal/ledger"
	"github.com/mmynk/financery/pkg/api"
)

// TagService implements financery.v1.TagService.
type TagService struct {
	ledger *ledger.Service
}

// NewTagService creates a new TagService.
func NewTagService(l *ledger.Service) *TagService {
	return &TagService{ledger: l}
}

// Handler returns the mux path and handler serving every TagService procedure.
func (s *TagService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, api.TagServiceCreateTagProcedure, s.CreateTag, opts)
	unary(mux, api.TagServiceCreateTagsProcedure, s.CreateTags, opts)
	unary(mux, api.TagServiceGetTagProcedure, s.GetTag, opts)
	unary(mux, api.TagServiceListTagsProcedure, s.ListTags, opts)
	unary(mux, api.TagServiceListTransactionsForTagProcedure, s.ListTransactionsForTag, opts)
	unary(mux, api.TagServiceUpdateTagProcedure, s.UpdateTag, opts)
	unary(mux, api.TagServiceDeleteTagProcedure, s.DeleteTag, opts)
	return servicePath(api.TagServiceName), mux
}

// CreateTag creates one tag.
func (s *TagService) CreateTag(ctx context.Context, req *api.CreateTagRequest) (*api.TagResponse, error) {
	tag, err := s.ledger.CreateTag(ctx, ledger.TagInput{UserID: req.UserID, Title: req.Title})
	if err != nil {
		return nil, err
	}
	return &api.TagResponse{Tag: toAPITag(tag)}, nil
}

// CreateTags creates tags in bulk, skipping short titles.
func (s *TagService) CreateTags(ctx context.Context, req *api.CreateTagsRequest) (*api.CreateTagsResponse, error) {
	in := make([]ledger.TagInput, len(req.Tags))
	for i, t := range req.Tags {
		in[i] = ledger.TagInput{UserID: t.UserID, Title: t.Title}
	}
	tags, err := s.ledger.CreateTags(ctx, in)
	if err != nil {
		return nil, err
	}
	return &api.CreateTagsResponse{Tags: toAPITags(tags)}, nil
}

// GetTag returns one tag.
func (s *TagService) GetTag(ctx context.Context, req *api.GetTagRequest) (*api.TagResponse, error) {
	tag, err := s.ledger.GetTag(ctx, req.TagID)
	if err != nil {
		return nil, err
	}
	return &api.TagResponse{Tag: toAPITag(tag)}, nil
}

// ListTags returns a user's tags.
func (s *TagService) ListTags(ctx context.Context, req *api.ListTagsRequest) (*api.ListTagsResponse, error) {
	tags, err := s.ledger.ListTagsForUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &api.ListTagsResponse{Tags: toAPITags(tags)}, nil
}

// ListTransactionsForTag returns the transactions carrying a tag.
func (s *TagService) ListTransactionsForTag(ctx context.Context, req *api.ListTransactionsForTagRequest) (*api.ListTransactionsResponse, error) {
	list, err := s.ledger.ListTransactionsForTag(ctx, req.TagID)
	if err != nil {
		return nil, err
	}
	return &api.ListTransactionsResponse{Transactions: toAPITransactions(list)}, nil
}

// UpdateTag renames a tag.
func (s *TagService) UpdateTag(ctx context.Context, req *api.UpdateTagRequest) (*api.TagResponse, error) {
	tag, err := s.ledger.UpdateTag(ctx, req.TagID, ledger.TagInput{UserID: req.UserID, Title: req.Title})
	if err != nil {
		return nil, err
	}
	return &api.TagResponse{Tag: toAPITag(tag)}, nil
}

// DeleteTag removes a tag from its transactions and deletes it.
func (s *TagService) DeleteTag(ctx context.Context, req *api.DeleteTagRequest) (*api.Empty, error) {
	if err := s.ledger.DeleteTag(ctx, req.TagID); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}
