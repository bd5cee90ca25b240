package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/financery/internal/ledger"
	"github.com/mmynk/financery/pkg/api"
)

// BillService implements financery.v1.BillService.
type BillService struct {
	ledger *ledger.Service
}

// NewBillService creates a new BillService.
func NewBillService(l *ledger.Service) *BillService {
	return &BillService{ledger: l}
}

// Handler returns the mux path and handler serving every BillService procedure.
func (s *BillService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	unary(mux, api.BillServiceCreateBillProcedure, s.CreateBill, opts)
	unary(mux, api.BillServiceGetBillProcedure, s.GetBill, opts)
	unary(mux, api.BillServiceListBillsProcedure, s.ListBills, opts)
	unary(mux, api.BillServiceUpdateBillProcedure, s.UpdateBill, opts)
	unary(mux, api.BillServiceDeleteBillProcedure, s.DeleteBill, opts)
	return servicePath(api.BillServiceName), mux
}

// CreateBill opens a bill with an initial balance.
func (s *BillService) CreateBill(ctx context.Context, req *api.CreateBillRequest) (*api.BillResponse, error) {
	bill, err := s.ledger.CreateBill(ctx, req.UserID, req.Name, req.Balance)
	if err != nil {
		return nil, err
	}
	return &api.BillResponse{Bill: toAPIBill(bill)}, nil
}

// GetBill returns one bill.
func (s *BillService) GetBill(ctx context.Context, req *api.GetBillRequest) (*api.BillResponse, error) {
	bill, err := s.ledger.GetBill(ctx, req.BillID)
	if err != nil {
		return nil, err
	}
	return &api.BillResponse{Bill: toAPIBill(bill)}, nil
}

// ListBills returns the bills of a user.
func (s *BillService) ListBills(ctx context.Context, req *api.ListBillsRequest) (*api.ListBillsResponse, error) {
	bills, err := s.ledger.ListBillsForUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]api.Bill, len(bills))
	for i := range bills {
		out[i] = toAPIBill(&bills[i])
	}
	return &api.ListBillsResponse{Bills: out}, nil
}

// UpdateBill renames a bill and sets its balance.
func (s *BillService) UpdateBill(ctx context.Context, req *api.UpdateBillRequest) (*api.BillResponse, error) {
	bill, err := s.ledger.UpdateBill(ctx, req.BillID, req.Name, req.Balance)
	if err != nil {
		return nil, err
	}
	return &api.BillResponse{Bill: toAPIBill(bill)}, nil
}

// DeleteBill removes a bill and its transactions.
func (s *BillService) DeleteBill(ctx context.Context, req *api.DeleteBillRequest) (*api.Empty, error) {
	if err := s.ledger.DeleteBill(ctx, req.BillID); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}
