package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/splitledger/pkg/api"
)

const LedgerServiceName = "splitledger.v1.LedgerService"

const (
	LedgerServiceCreateExpenseProcedure         = "/splitledger.v1.LedgerService/CreateExpense"
	LedgerServiceDeleteExpenseProcedure         = "/splitledger.v1.LedgerService/DeleteExpense"
	LedgerServiceCreateSettlementProcedure      = "/splitledger.v1.LedgerService/CreateSettlement"
	LedgerServiceGetPairwiseLedgerProcedure     = "/splitledger.v1.LedgerService/GetPairwiseLedger"
	LedgerServiceGetUserBalanceSummaryProcedure = "/splitledger.v1.LedgerService/GetUserBalanceSummary"
	LedgerServiceGetSpendReportProcedure        = "/splitledger.v1.LedgerService/GetSpendReport"
	LedgerServiceGetMonthlySpendProcedure       = "/splitledger.v1.LedgerService/GetMonthlySpend"
)

type LedgerServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	GetPairwiseLedger(context.Context, *connect.Request[api.GetPairwiseLedgerRequest]) (*connect.Response[api.GetPairwiseLedgerResponse], error)
	GetUserBalanceSummary(context.Context, *connect.Request[api.GetUserBalanceSummaryRequest]) (*connect.Response[api.GetUserBalanceSummaryResponse], error)
	GetSpendReport(context.Context, *connect.Request[api.GetSpendReportRequest]) (*connect.Response[api.GetSpendReportResponse], error)
	GetMonthlySpend(context.Context, *connect.Request[api.GetMonthlySpendRequest]) (*connect.Response[api.GetMonthlySpendResponse], error)
}

// NewLedgerServiceHandler returns the service path prefix and its handler.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	rs := routes{}
	unary(rs, LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts)
	unary(rs, LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts)
	unary(rs, LedgerServiceCreateSettlementProcedure, svc.CreateSettlement, opts)
	unary(rs, LedgerServiceGetPairwiseLedgerProcedure, svc.GetPairwiseLedger, opts)
	unary(rs, LedgerServiceGetUserBalanceSummaryProcedure, svc.GetUserBalanceSummary, opts)
	unary(rs, LedgerServiceGetSpendReportProcedure, svc.GetSpendReport, opts)
	unary(rs, LedgerServiceGetMonthlySpendProcedure, svc.GetMonthlySpend, opts)
	return "/" + LedgerServiceName + "/", rs
}

type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceCreateExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceDeleteExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	return nil, unimplemented(LedgerServiceCreateSettlementProcedure)
}

func (UnimplementedLedgerServiceHandler) GetPairwiseLedger(context.Context, *connect.Request[api.GetPairwiseLedgerRequest]) (*connect.Response[api.GetPairwiseLedgerResponse], error) {
	return nil, unimplemented(LedgerServiceGetPairwiseLedgerProcedure)
}

func (UnimplementedLedgerServiceHandler) GetUserBalanceSummary(context.Context, *connect.Request[api.GetUserBalanceSummaryRequest]) (*connect.Response[api.GetUserBalanceSummaryResponse], error) {
	return nil, unimplemented(LedgerServiceGetUserBalanceSummaryProcedure)
}

func (UnimplementedLedgerServiceHandler) GetSpendReport(context.Context, *connect.Request[api.GetSpendReportRequest]) (*connect.Response[api.GetSpendReportResponse], error) {
	return nil, unimplemented(LedgerServiceGetSpendReportProcedure)
}

func (UnimplementedLedgerServiceHandler) GetMonthlySpend(context.Context, *connect.Request[api.GetMonthlySpendRequest]) (*connect.Response[api.GetMonthlySpendResponse], error) {
	return nil, unimplemented(LedgerServiceGetMonthlySpendProcedure)
}

type LedgerServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	GetPairwiseLedger(context.Context, *connect.Request[api.GetPairwiseLedgerRequest]) (*connect.Response[api.GetPairwiseLedgerResponse], error)
	GetUserBalanceSummary(context.Context, *connect.Request[api.GetUserBalanceSummaryRequest]) (*connect.Response[api.GetUserBalanceSummaryResponse], error)
	GetSpendReport(context.Context, *connect.Request[api.GetSpendReportRequest]) (*connect.Response[api.GetSpendReportResponse], error)
	GetMonthlySpend(context.Context, *connect.Request[api.GetMonthlySpendRequest]) (*connect.Response[api.GetMonthlySpendResponse], error)
}

type ledgerServiceClient struct {
	createExpense         *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	deleteExpense         *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	createSettlement      *connect.Client[api.CreateSettlementRequest, api.CreateSettlementResponse]
	getPairwiseLedger     *connect.Client[api.GetPairwiseLedgerRequest, api.GetPairwiseLedgerResponse]
	getUserBalanceSummary *connect.Client[api.GetUserBalanceSummaryRequest, api.GetUserBalanceSummaryResponse]
	getSpendReport        *connect.Client[api.GetSpendReportRequest, api.GetSpendReportResponse]
	getMonthlySpend       *connect.Client[api.GetMonthlySpendRequest, api.GetMonthlySpendResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createExpense:         newClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL, LedgerServiceCreateExpenseProcedure, opts),
		deleteExpense:         newClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL, LedgerServiceDeleteExpenseProcedure, opts),
		createSettlement:      newClient[api.CreateSettlementRequest, api.CreateSettlementResponse](httpClient, baseURL, LedgerServiceCreateSettlementProcedure, opts),
		getPairwiseLedger:     newClient[api.GetPairwiseLedgerRequest, api.GetPairwiseLedgerResponse](httpClient, baseURL, LedgerServiceGetPairwiseLedgerProcedure, opts),
		getUserBalanceSummary: newClient[api.GetUserBalanceSummaryRequest, api.GetUserBalanceSummaryResponse](httpClient, baseURL, LedgerServiceGetUserBalanceSummaryProcedure, opts),
		getSpendReport:        newClient[api.GetSpendReportRequest, api.GetSpendReportResponse](httpClient, baseURL, LedgerServiceGetSpendReportProcedure, opts),
		getMonthlySpend:       newClient[api.GetMonthlySpendRequest, api.GetMonthlySpendResponse](httpClient, baseURL, LedgerServiceGetMonthlySpendProcedure, opts),
	}
}

func (c *ledgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	return c.createSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetPairwiseLedger(ctx context.Context, req *connect.Request[api.GetPairwiseLedgerRequest]) (*connect.Response[api.GetPairwiseLedgerResponse], error) {
	return c.getPairwiseLedger.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetUserBalanceSummary(ctx context.Context, req *connect.Request[api.GetUserBalanceSummaryRequest]) (*connect.Response[api.GetUserBalanceSummaryResponse], error) {
	return c.getUserBalanceSummary.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSpendReport(ctx context.Context, req *connect.Request[api.GetSpendReportRequest]) (*connect.Response[api.GetSpendReportResponse], error) {
	return c.getSpendReport.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetMonthlySpend(ctx context.Context, req *connect.Request[api.GetMonthlySpendRequest]) (*connect.Response[api.GetMonthlySpendResponse], error) {
	return c.getMonthlySpend.CallUnary(ctx, req)
}
