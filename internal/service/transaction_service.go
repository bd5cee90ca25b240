package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/financery/internal/ledger"
	"github.com/mmynk/financery/pkg/api"
)

// TransactionService implements financery.v1.TransactionService.
type TransactionService struct {
	ledger *ledger.Service
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(l *ledger.Service) *TransactionService {
	return &TransactionService{ledger: l}
}

// Handler returns the mux path and handler serving every TransactionService procedure.
func (s *TransactionService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, api.TransactionServiceListTransactionsProcedure, s.ListTransactions, opts)
	unary(mux, api.TransactionServiceListTransactionsForBillProcedure, s.ListTransactionsForBill, opts)
	unary(mux, api.TransactionServiceGetTransactionProcedure, s.GetTransaction, opts)
	unary(mux, api.TransactionServiceCreateTransactionProcedure, s.CreateTransaction, opts)
	unary(mux, api.TransactionServiceUpdateTransactionProcedure, s.UpdateTransaction, opts)
	unary(mux, api.TransactionServiceDeleteTransactionProcedure, s.DeleteTransaction, opts)
	unary(mux, api.TransactionServiceSummarizeProcedure, s.Summarize, opts)
	return servicePath(api.TransactionServiceName), mux
}

// ListTransactions returns a user's transactions, served from the cache when possible.
func (s *TransactionService) ListTransactions(ctx context.Context, req *api.ListTransactionsRequest) (*api.ListTransactionsResponse, error) {
	list, err := s.ledger.ListTransactions(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &api.ListTransactionsResponse{Transactions: toAPITransactions(list)}, nil
}

// ListTransactionsForBill returns a bill's transactions.
func (s *TransactionService) ListTransactionsForBill(ctx context.Context, req *api.ListTransactionsForBillRequest) (*api.ListTransactionsResponse, error) {
	list, err := s.ledger.ListTransactionsForBill(ctx, req.BillID)
	if err != nil {
		return nil, err
	}
	return &api.ListTransactionsResponse{Transactions: toAPITransactions(list)}, nil
}

// GetTransaction returns one transaction.
func (s *TransactionService) GetTransaction(ctx context.Context, req *api.GetTransactionRequest) (*api.TransactionResponse, error) {
	view, err := s.ledger.GetTransaction(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	return &api.TransactionResponse{Transaction: toAPITransaction(view)}, nil
}

// CreateTransaction records a transaction against a bill.
func (s *TransactionService) CreateTransaction(ctx context.Context, req *api.CreateTransactionRequest) (*api.TransactionResponse, error) {
	date, err := api.ParseDate(req.Date)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	view, err := s.ledger.CreateTransaction(ctx, ledger.TransactionInput{
		UserID:      req.UserID,
		BillID:      req.BillID,
		Name:        req.Name,
		Description: req.Description,
		Income:      req.Income,
		Amount:      req.Amount,
		Date:        date,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		return nil, err
	}
	return &api.TransactionResponse{Transaction: toAPITransaction(view)}, nil
}

// UpdateTransaction edits a transaction.
func (s *TransactionService) UpdateTransaction(ctx context.Context, req *api.UpdateTransactionRequest) (*api.TransactionResponse, error) {
	date, err := api.ParseDate(req.Date)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	view, err := s.ledger.UpdateTransaction(ctx, req.TransactionID, ledger.TransactionInput{
		UserID:      req.UserID,
		BillID:      req.BillID,
		Name:        req.Name,
		Description: req.Description,
		Income:      req.Income,
		Amount:      req.Amount,
		Date:        date,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		return nil, err
	}
	return &api.TransactionResponse{Transaction: toAPITransaction(view)}, nil
}

// DeleteTransaction removes a transaction.
func (s *TransactionService) DeleteTransaction(ctx context.Context, req *api.DeleteTransactionRequest) (*api.Empty, error) {
	if err := s.ledger.DeleteTransaction(ctx, req.TransactionID); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}

// Summarize totals a user's transactions.
func (s *TransactionService) Summarize(ctx context.Context, req *api.SummarizeRequest) (*api.SummarizeResponse, error) {
	summary, err := s.ledger.Summarize(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &api.SummarizeResponse{Summary: toAPISummary(summary)}, nil
}
